// Package docker implements the executor.Executor interface with disposable
// local containers.
//
// Every request gets a freshly created, uniquely named temporary directory
// holding the submitted source. Compiled languages run a compile container
// first; any compile stderr aborts the request with a "Compilation Error"
// result before the run step. The run step (artifact or source, depending on
// the language) happens in a second container with the working directory
// bind-mounted. Containers are never reused and always force-removed, and the
// temporary directory is removed on every exit path — success, compile
// failure, run failure, or error.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/language"
)

// Executor implements the executor.Executor interface using Docker.
type Executor struct {
	cli    *client.Client
	config Config
	logger *slog.Logger

	mu     sync.Mutex
	pulled map[string]bool
}

// New creates a new Docker Executor and verifies the daemon is reachable.
// Images are pulled lazily, per language, on first use.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("docker daemon unreachable: %w", err)
	}

	return &Executor{
		cli:    cli,
		config: cfg,
		logger: logger,
		pulled: make(map[string]bool),
	}, nil
}

// Close shuts down the docker client.
func (e *Executor) Close() error {
	return e.cli.Close()
}

// Execute runs the submitted code in one or two disposable containers.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	lang, err := language.Lookup(req.Language)
	if err != nil {
		return nil, err
	}
	if lang.Local == nil {
		return nil, fmt.Errorf("docker: no local runtime for language %q", req.Language)
	}

	start := time.Now()

	// Per-request scratch directory. Its removal is a hard invariant: the
	// deferred RemoveAll covers every return below.
	dir, err := os.MkdirTemp("", "codeexec-")
	if err != nil {
		return nil, fmt.Errorf("docker: creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// The container runs as an unprivileged user, so the mounted directory
	// must be writable by anyone for compile artifacts.
	if err := os.Chmod(dir, 0o777); err != nil {
		return nil, fmt.Errorf("docker: chmod temp dir: %w", err)
	}

	if err := os.WriteFile(dir+"/"+lang.Filename(), []byte(req.Code), 0o644); err != nil {
		return nil, fmt.Errorf("docker: writing source file: %w", err)
	}

	runCmd := lang.Local.Run
	if req.Stdin != "" {
		// Stdin is staged as a file in the mounted directory rather than
		// attached to the container; the redirect keeps the container
		// lifecycle one-shot.
		if err := os.WriteFile(dir+"/stdin.txt", []byte(req.Stdin), 0o644); err != nil {
			return nil, fmt.Errorf("docker: writing stdin file: %w", err)
		}
		runCmd = runCmd + " < stdin.txt"
	}

	if err := e.ensureImage(ctx, lang.Local.Image); err != nil {
		return nil, err
	}

	// One deadline covers compile and run together.
	execCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	if lang.Local.Compile != "" {
		compile, err := e.runStep(execCtx, lang.Local.Image, lang.Local.Compile, dir)
		if err != nil {
			return nil, err
		}
		if compile.stderr != "" {
			return &executor.Result{
				Output:   executor.ComposeOutput(compile.stderr, "", "", compile.exitCode, true),
				Stderr:   compile.stderr,
				ExitCode: compile.exitCode,
				Duration: time.Since(start),
				HasError: true,
				Message:  "Compilation Error",
			}, nil
		}
	}

	run, err := e.runStep(execCtx, lang.Local.Image, runCmd, dir)
	if err != nil {
		return nil, err
	}

	res := &executor.Result{
		Output:   executor.ComposeOutput("", run.stdout, run.stderr, run.exitCode, true),
		Stdout:   run.stdout,
		Stderr:   run.stderr,
		ExitCode: run.exitCode,
		Duration: time.Since(start),
		HasError: executor.HasError("", run.stderr, run.exitCode, true),
	}
	if res.HasError && res.Message == "" && run.stderr != "" {
		res.Message = "Runtime Error"
	}
	return res, nil
}

type stepResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runStep creates, starts, waits on, and removes one container executing cmd
// via `sh -c` in the bind-mounted working directory. Hitting the context
// deadline yields exit code 124 and a timeout note on stderr instead of an
// error, matching the remote backend's behaviour.
func (e *Executor) runStep(ctx context.Context, img, cmd, dir string) (*stepResult, error) {
	hostConfig := &container.HostConfig{
		Binds:       []string{dir + ":/code"},
		NetworkMode: "none",
		Resources: container.Resources{
			Memory:   e.config.MemoryLimit,
			NanoCPUs: int64(e.config.CPULimit * 1e9),
		},
		AutoRemove: false,
	}

	resp, err := e.cli.ContainerCreate(ctx, &container.Config{
		Image:      img,
		Cmd:        []string{"sh", "-c", cmd},
		WorkingDir: "/code",
		Tty:        false,
	}, hostConfig, nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("docker: ContainerCreate failed: %w", err)
	}

	// Always ensure we clean up the container we created.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.cli.ContainerRemove(cleanupCtx, resp.ID, container.RemoveOptions{Force: true}); err != nil {
			e.logger.Error("failed to remove container", slog.String("id", resp.ID), slog.String("error", err.Error()))
		}
	}()

	if err := e.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("docker: ContainerStart failed: %w", err)
	}

	statusCh, errCh := e.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)

	var exitCode int
	timedOut := false
	select {
	case status := <-statusCh:
		exitCode = int(status.StatusCode)
	case err := <-errCh:
		if ctx.Err() != nil {
			timedOut = true
		} else {
			return nil, fmt.Errorf("docker: waiting for container: %w", err)
		}
	case <-ctx.Done():
		timedOut = true
	}

	stdout, stderr := e.collectLogs(resp.ID)

	if timedOut {
		return &stepResult{
			stdout:   stdout,
			stderr:   stderr + "\nExecution timed out.\n",
			exitCode: executor.ExitTimeout,
		}, nil
	}

	return &stepResult{stdout: stdout, stderr: stderr, exitCode: exitCode}, nil
}

// collectLogs demultiplexes the container's stdout and stderr. Uses a fresh
// context so logs are still retrievable after a timeout killed the parent.
func (e *Executor) collectLogs(id string) (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reader, err := e.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		e.logger.Error("failed to read container logs", slog.String("id", id), slog.String("error", err.Error()))
		return "", ""
	}
	defer reader.Close()

	var stdout, stderr bytes.Buffer
	_, _ = stdcopy.StdCopy(&stdout, &stderr, reader)
	return stdout.String(), stderr.String()
}

// ensureImage pulls an image the first time a language is executed.
func (e *Executor) ensureImage(ctx context.Context, img string) error {
	e.mu.Lock()
	done := e.pulled[img]
	e.mu.Unlock()
	if done {
		return nil
	}

	pullCtx, cancel := context.WithTimeout(ctx, e.config.PullTimeout)
	defer cancel()

	e.logger.Info("ensuring docker image is available", slog.String("image", img))
	reader, err := e.cli.ImagePull(pullCtx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("docker: failed to pull image %s: %w", img, err)
	}
	defer reader.Close()
	// Read everything to block until the pull is complete
	io.Copy(io.Discard, reader)

	e.mu.Lock()
	e.pulled[img] = true
	e.mu.Unlock()
	return nil
}
