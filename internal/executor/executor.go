// Package executor defines the contract shared by every code-execution
// backend.
//
// Both backends (local Docker sandbox, remote Piston API) normalize their
// results into the same shape, so the rest of the application never needs to
// know which one is deployed. The one hard invariant here: submitted code is
// never executed in this process — execution is always delegated to an
// isolated external runtime.
package executor

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Request carries one execution job.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdin    string `json:"input"`
}

// Result is the normalized outcome of an execution. It is transient — built
// per request, returned, discarded.
type Result struct {
	Output   string        `json:"output"` // human-readable combined output
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	Memory   int64         `json:"memoryUsage"`
	HasError bool          `json:"hasError"`
	Message  string        `json:"message,omitempty"` // e.g. "Compilation Error"
}

// Executor runs code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}

// ExitTimeout is reported when an execution exceeds its wall-clock budget,
// mirroring the exit code of the unix timeout command.
const ExitTimeout = 124

// ComposeOutput builds the combined human-readable output string from the
// captured streams, in a fixed order: compile errors, program output, runtime
// errors, then a notice when there was nothing to show or the exit code was
// non-zero. exitCodeKnown is false when the backend did not report a code
// (the remote API returns null for some failure modes).
func ComposeOutput(compileStderr, stdout, stderr string, exitCode int, exitCodeKnown bool) string {
	var b strings.Builder

	if compileStderr != "" {
		b.WriteString("Compilation Errors:\n" + compileStderr + "\n\n")
	}
	if stdout != "" {
		b.WriteString("Output:\n" + stdout)
	}
	if stderr != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Runtime Errors:\n" + stderr)
	}
	if stdout == "" && stderr == "" && compileStderr == "" && exitCode == 0 && exitCodeKnown {
		b.WriteString("Program executed successfully (no output)")
	}
	if exitCode != 0 && exitCodeKnown {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Exit code: " + strconv.Itoa(exitCode))
	}

	out := b.String()
	if strings.TrimSpace(out) == "" {
		out = "No output generated"
	}
	return out
}

// HasError reports whether a result with these streams and exit code counts
// as failed: any stderr, or a known non-zero exit code.
func HasError(compileStderr, stderr string, exitCode int, exitCodeKnown bool) bool {
	if compileStderr != "" || stderr != "" {
		return true
	}
	return exitCodeKnown && exitCode != 0
}
