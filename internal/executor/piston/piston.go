// Package piston implements the executor.Executor interface against a remote
// Piston execution API (https://emkc.org/api/v2/piston by default).
//
// The remote service does the sandboxing; this backend serializes one request
// per execution and decomposes the structured response into the shared result
// shape.
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/language"
)

// DefaultURL is the public Piston execute endpoint.
const DefaultURL = "https://emkc.org/api/v2/piston/execute"

const (
	compileTimeoutMS = 10000 // 10s compile budget
	runTimeoutMS     = 3000  // 3s run budget
	httpTimeout      = 15 * time.Second
)

// Executor calls the remote Piston API.
type Executor struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// New creates a Piston executor. An empty url selects the public endpoint.
func New(url string, logger *slog.Logger) *Executor {
	if url == "" {
		url = DefaultURL
	}
	return &Executor{
		url:    url,
		client: &http.Client{Timeout: httpTimeout},
		logger: logger,
	}
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language       string       `json:"language"`
	Version        string       `json:"version"`
	Files          []pistonFile `json:"files"`
	Stdin          string       `json:"stdin"`
	Args           []string     `json:"args"`
	CompileTimeout int          `json:"compile_timeout"`
	RunTimeout     int          `json:"run_timeout"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   *int   `json:"code"` // null when the stage was killed
	Memory int64  `json:"memory"`
}

type pistonResponse struct {
	Compile *pistonStage `json:"compile"`
	Run     *pistonStage `json:"run"`
	Message string       `json:"message"` // set on API-level errors
}

// Execute sends the code to the remote API and normalizes the response.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	lang, err := language.Lookup(req.Language)
	if err != nil {
		return nil, err
	}
	if lang.Remote == nil {
		return nil, fmt.Errorf("piston: no remote runtime for language %q", req.Language)
	}

	start := time.Now()

	body, err := json.Marshal(pistonRequest{
		Language:       lang.Remote.Language,
		Version:        lang.Remote.Version,
		Files:          []pistonFile{{Name: lang.Filename(), Content: req.Code}},
		Stdin:          req.Stdin,
		Args:           []string{},
		CompileTimeout: compileTimeoutMS,
		RunTimeout:     runTimeoutMS,
	})
	if err != nil {
		return nil, fmt.Errorf("piston: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("piston: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			// A blown budget is a result the user debugs, not a transport
			// failure.
			return &executor.Result{
				Output:   "Execution timed out - code took too long to run",
				Stderr:   "Execution timed out.\n",
				ExitCode: executor.ExitTimeout,
				Duration: time.Since(start),
				HasError: true,
				Message:  "Execution Timeout",
			}, nil
		}
		return nil, fmt.Errorf("piston: calling execution API: %w", err)
	}
	defer resp.Body.Close()

	var pr pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("piston: decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if pr.Message != "" {
			return nil, fmt.Errorf("piston: execution API returned status %d: %s", resp.StatusCode, pr.Message)
		}
		return nil, fmt.Errorf("piston: execution API returned status %d", resp.StatusCode)
	}

	return e.normalize(&pr, time.Since(start)), nil
}

// normalize flattens the compile/run stages into the shared result shape.
func (e *Executor) normalize(pr *pistonResponse, elapsed time.Duration) *executor.Result {
	var compileStderr, stdout, stderr string
	var exitCode int
	exitCodeKnown := false
	var memory int64

	if pr.Compile != nil {
		compileStderr = pr.Compile.Stderr
	}
	if pr.Run != nil {
		stdout = pr.Run.Stdout
		stderr = pr.Run.Stderr
		memory = pr.Run.Memory
		if pr.Run.Code != nil {
			exitCode = *pr.Run.Code
			exitCodeKnown = true
		}
	}

	res := &executor.Result{
		Output:   executor.ComposeOutput(compileStderr, stdout, stderr, exitCode, exitCodeKnown),
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Duration: elapsed,
		Memory:   memory,
		HasError: executor.HasError(compileStderr, stderr, exitCode, exitCodeKnown),
	}
	switch {
	case compileStderr != "":
		res.Message = "Compilation Error"
		if res.Stderr == "" {
			res.Stderr = compileStderr
		}
	case res.HasError:
		res.Message = "Runtime Error"
	}
	return res
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
