package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/code-editor/internal/ai"
	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/repository"
)

// Per-operation input ceilings, in characters. The heavier prompts get the
// tighter limits: their fixed scaffolding already consumes output budget.
const (
	MaxAnalyzeCode  = 30000
	MaxExplainCode  = 20000
	MaxOptimizeCode = 25000
	MaxAICode       = 50000
)

// AIService fronts the AI gateway with input validation and usage accounting.
// Each successful logical operation bumps the caller's aiQueriesUsed counter
// exactly once, regardless of how many retries the gateway burned.
type AIService struct {
	gateway ai.Gateway
	users   repository.UserRepository
	logger  *slog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(gateway ai.Gateway, users repository.UserRepository, logger *slog.Logger) *AIService {
	return &AIService{
		gateway: gateway,
		users:   users,
		logger:  logger,
	}
}

func checkCode(code string, limit int) error {
	if code == "" {
		return apperror.ValidationFailed("code", "Code is required")
	}
	if len(code) > limit {
		return apperror.TooLarge("code", fmt.Sprintf("Code must be %d characters or fewer for this operation", limit))
	}
	return nil
}

// countQuery records one successful AI call against the user's stats.
func (s *AIService) countQuery(ctx context.Context, userID string) {
	if err := s.users.AddUserStats(ctx, userID, 0, 0, 1); err != nil {
		s.logger.Error("updating AI usage stats",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
	}
}

// Analyze runs the comprehensive code review operation.
func (s *AIService) Analyze(ctx context.Context, userID, code, lang string) (*ai.Response, error) {
	if err := checkCode(code, MaxAnalyzeCode); err != nil {
		return nil, err
	}
	resp, err := s.gateway.Analyze(ctx, code, lang)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}

// Explain runs the plain-language walkthrough operation.
func (s *AIService) Explain(ctx context.Context, userID, code, lang string) (*ai.Response, error) {
	if err := checkCode(code, MaxExplainCode); err != nil {
		return nil, err
	}
	resp, err := s.gateway.Explain(ctx, code, lang)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}

// Optimize runs the syntax-fix-then-optimize operation.
func (s *AIService) Optimize(ctx context.Context, userID, code, lang string) (*ai.Response, error) {
	if err := checkCode(code, MaxOptimizeCode); err != nil {
		return nil, err
	}
	resp, err := s.gateway.Optimize(ctx, code, lang)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}

// Document generates documentation for the code.
func (s *AIService) Document(ctx context.Context, userID, code, lang string) (*ai.Response, error) {
	if err := checkCode(code, MaxAICode); err != nil {
		return nil, err
	}
	resp, err := s.gateway.Document(ctx, code, lang)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}

// Convert translates code between languages.
func (s *AIService) Convert(ctx context.Context, userID, code, fromLang, toLang string) (*ai.Response, error) {
	if err := checkCode(code, MaxAICode); err != nil {
		return nil, err
	}
	if fromLang == "" || toLang == "" {
		return nil, apperror.ValidationFailed("language", "Source and target languages are required")
	}
	resp, err := s.gateway.Convert(ctx, code, fromLang, toLang)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}

// FixBugs debugs the code, optionally guided by an observed error message.
func (s *AIService) FixBugs(ctx context.Context, userID, code, lang, errorMessage string) (*ai.Response, error) {
	if err := checkCode(code, MaxAICode); err != nil {
		return nil, err
	}
	resp, err := s.gateway.FixBugs(ctx, code, lang, errorMessage)
	if err != nil {
		return nil, err
	}
	s.countQuery(ctx, userID)
	return resp, nil
}
