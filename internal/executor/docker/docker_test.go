package docker_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/executor/docker"
	"github.com/stretchr/testify/assert"
)

// These tests need a running Docker daemon and pull real images; they are
// integration tests, skipped in CI.
func TestDockerExecutor(t *testing.T) {
	if os.Getenv("CI") != "" {
		t.Skip("Skipping docker test in CI environment")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	exec, err := docker.New(docker.DefaultConfig(), logger)
	if err != nil {
		t.Skipf("Docker daemon unavailable: %v", err)
	}
	defer exec.Close()

	t.Run("successful execution", func(t *testing.T) {
		res, err := exec.Execute(context.Background(), executor.Request{
			Language: "python",
			Code:     `print("Hello from test sandbox!")`,
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "Hello from test sandbox!")
		assert.Empty(t, res.Stderr)
		assert.False(t, res.HasError)
		assert.Greater(t, res.Duration, time.Duration(0))
	})

	t.Run("runtime error", func(t *testing.T) {
		res, err := exec.Execute(context.Background(), executor.Request{
			Language: "python",
			Code:     `print("Missing parenthesis"`,
		})
		assert.NoError(t, err)
		assert.NotEqual(t, 0, res.ExitCode)
		assert.Contains(t, res.Stderr, "SyntaxError")
		assert.True(t, res.HasError)
	})

	t.Run("stdin", func(t *testing.T) {
		res, err := exec.Execute(context.Background(), executor.Request{
			Language: "python",
			Code:     `print(input())`,
			Stdin:    "echoed\n",
		})
		assert.NoError(t, err)
		assert.Contains(t, res.Stdout, "echoed")
	})

	t.Run("timeout", func(t *testing.T) {
		res, err := exec.Execute(context.Background(), executor.Request{
			Language: "python",
			Code:     "while True:\n    pass",
		})
		assert.NoError(t, err)
		assert.Equal(t, executor.ExitTimeout, res.ExitCode)
		assert.True(t, res.HasError)
	})

	t.Run("markup language rejected", func(t *testing.T) {
		_, err := exec.Execute(context.Background(), executor.Request{
			Language: "html",
			Code:     "<p>hi</p>",
		})
		assert.Error(t, err)
	})
}
