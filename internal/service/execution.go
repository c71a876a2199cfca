package service

import (
	"context"
	"log/slog"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/language"
)

// MaxExecuteCode caps the code size accepted for execution, in characters.
const MaxExecuteCode = 10000

// ExecutionService validates execution requests and delegates them to the
// configured backend. Execution failures (non-zero exit, timeout, compile
// error) are results, not errors — only infrastructure problems (daemon
// unreachable, network down) come back as errors.
type ExecutionService struct {
	backend executor.Executor
	logger  *slog.Logger
}

// NewExecutionService creates a new ExecutionService.
func NewExecutionService(backend executor.Executor, logger *slog.Logger) *ExecutionService {
	return &ExecutionService{
		backend: backend,
		logger:  logger,
	}
}

// Execute runs the code in the sandbox backend.
func (s *ExecutionService) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	if req.Code == "" {
		return nil, apperror.ValidationFailed("code", "Code is required")
	}
	if len(req.Code) > MaxExecuteCode {
		return nil, apperror.TooLarge("code", "Code is too long. Maximum 10,000 characters allowed.")
	}

	lang, err := language.Lookup(req.Language)
	if err != nil {
		return nil, err
	}
	if !lang.Runnable() {
		return nil, apperror.UnsupportedLanguage(req.Language)
	}

	result, err := s.backend.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("code executed",
		slog.String("language", req.Language),
		slog.Int("exitCode", result.ExitCode),
		slog.Bool("hasError", result.HasError),
	)

	return result, nil
}

// LanguageInfo is one entry of the public language listing.
type LanguageInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Extension   string `json:"extension"`
	Runnable    bool   `json:"runnable"`
	Version     string `json:"version,omitempty"`
}

// Languages lists every language the editor accepts, flagging which can be
// executed by at least one backend.
func (s *ExecutionService) Languages() []LanguageInfo {
	caps := language.All()
	out := make([]LanguageInfo, 0, len(caps))
	for _, c := range caps {
		info := LanguageInfo{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			Extension:   c.Extension,
			Runnable:    c.Runnable(),
		}
		if c.Remote != nil {
			info.Version = c.Remote.Version
		}
		out = append(out, info)
	}
	return out
}
