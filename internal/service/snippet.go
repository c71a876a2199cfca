// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and DTO structs, never HTTP types, and return
// domain errors from the apperror package. The handler layer translates those
// to status codes. Services depend on the repository interfaces, not the
// sqlite package, so tests inject mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/language"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/repository"
)

// Validation limits for snippet fields.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCodeLength        = 50000
	MaxTags              = 10
	MaxTagLength         = 30
	DefaultListLimit     = 20
	MaxListLimit         = 100
)

// SnippetInput carries the client-supplied fields for a create or update.
// Pointer fields distinguish "absent" from "set to zero value" on updates.
type SnippetInput struct {
	Title       *string
	Description *string
	Code        *string
	Language    *string
	Tags        *[]string
	Category    *string
	IsPublic    *bool
}

// ListQuery narrows and pages a listing request.
type ListQuery struct {
	Language string
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListResult is one page of snippets plus pagination bookkeeping.
type ListResult struct {
	Items       []model.Snippet `json:"items"`
	TotalCount  int             `json:"totalCount"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

// SnippetService handles business logic for code snippets: validation,
// server-side metadata, version history, and the owner's running counters.
type SnippetService struct {
	repo   repository.SnippetRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(repo repository.SnippetRepository, users repository.UserRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// Create validates and saves a new snippet for the user, then bumps the
// owner's totalCodes and totalLinesOfCode counters.
func (s *SnippetService) Create(ctx context.Context, userID string, in SnippetInput) (*model.Snippet, error) {
	snippet := &model.Snippet{
		UserID:   userID,
		Category: "snippet",
		Tags:     []string{},
	}
	if err := applyInput(snippet, in); err != nil {
		return nil, err
	}
	if snippet.Title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if snippet.Code == "" {
		return nil, apperror.ValidationFailed("code", "Code is required")
	}
	if snippet.Language == "" {
		return nil, apperror.ValidationFailed("language", "Language is required")
	}

	snippet.Metadata = model.ComputeMetadata(snippet.Code)

	if err := s.repo.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	// Counter updates ride on the write having succeeded; a failure here is
	// logged rather than failing the request, since the snippet exists.
	if err := s.users.AddUserStats(ctx, userID, 1, snippet.Metadata.LinesOfCode, 0); err != nil {
		s.logger.Error("updating user stats after create",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userId", userID),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// Get returns one of the user's snippets, with version history, and counts
// the view.
func (s *SnippetService) Get(ctx context.Context, userID, id string) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("incrementing snippet views", slog.String("id", id), slog.String("error", err.Error()))
	} else {
		snippet.Stats.Views++
	}

	return snippet, nil
}

// List returns a filtered page of the user's snippets, newest first.
func (s *SnippetService) List(ctx context.Context, userID string, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Language != "" && !language.IsValid(q.Language) {
		return nil, apperror.UnsupportedLanguage(q.Language)
	}

	items, total, err := s.repo.List(ctx, userID, repository.SnippetFilter{
		Language: q.Language,
		Category: q.Category,
		Search:   strings.TrimSpace(q.Search),
		Limit:    q.Limit,
		Offset:   (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}

	return &ListResult{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
	}, nil
}

// Update applies the supplied fields to one of the user's snippets.
//
// When the code body changes, the PRE-update code is first captured as a new
// history entry (numbered one past the current highest version), then the live
// code is replaced and metadata recomputed. Both writes happen in one
// repository transaction. The owner's totalLinesOfCode moves by the line
// delta.
func (s *SnippetService) Update(ctx context.Context, userID, id string, in SnippetInput, changes string) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	previousCode := snippet.Code
	previousLines := snippet.Metadata.LinesOfCode

	if err := applyInput(snippet, in); err != nil {
		return nil, err
	}

	var newVersion *model.Version
	linesDelta := 0
	if snippet.Code != previousCode {
		maxVersion := 0
		for _, v := range snippet.Versions {
			if v.Version > maxVersion {
				maxVersion = v.Version
			}
		}
		if changes == "" {
			changes = "Updated code"
		}
		newVersion = &model.Version{
			Version:   maxVersion + 1,
			Code:      previousCode,
			Changes:   changes,
			CreatedAt: time.Now(),
		}

		snippet.Metadata = model.ComputeMetadata(snippet.Code)
		linesDelta = snippet.Metadata.LinesOfCode - previousLines
	}

	if err := s.repo.Update(ctx, snippet, newVersion); err != nil {
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	if linesDelta != 0 {
		if err := s.users.AddUserStats(ctx, userID, 0, linesDelta, 0); err != nil {
			s.logger.Error("updating user stats after update",
				slog.String("userId", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	if newVersion != nil {
		snippet.Versions = append(snippet.Versions, *newVersion)
	}

	return snippet, nil
}

// Delete removes one of the user's snippets and rolls its contribution out of
// the owner's counters.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	snippet, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := s.users.AddUserStats(ctx, userID, -1, -snippet.Metadata.LinesOfCode, 0); err != nil {
		s.logger.Error("updating user stats after delete",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("snippet deleted", slog.String("id", id), slog.String("userId", userID))
	return nil
}

// HistoryResult pairs a snippet's title with its superseded versions.
type HistoryResult struct {
	SnippetID string          `json:"snippetId"`
	Title     string          `json:"title"`
	Versions  []model.Version `json:"versions"`
}

// History returns the snippet's version list, newest first. The live code is
// not included — it has not been superseded.
func (s *SnippetService) History(ctx context.Context, userID, id string) (*HistoryResult, error) {
	title, versions, err := s.repo.History(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []model.Version{}
	}
	return &HistoryResult{SnippetID: id, Title: title, Versions: versions}, nil
}

// applyInput copies set fields from in onto snippet, validating each.
func applyInput(snippet *model.Snippet, in SnippetInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if len(title) > MaxTitleLength {
			return apperror.ValidationFailed("title", fmt.Sprintf("Title must be %d characters or fewer", MaxTitleLength))
		}
		snippet.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > MaxDescriptionLength {
			return apperror.ValidationFailed("description", fmt.Sprintf("Description must be %d characters or fewer", MaxDescriptionLength))
		}
		snippet.Description = *in.Description
	}
	if in.Code != nil {
		if *in.Code == "" {
			return apperror.ValidationFailed("code", "Code is required")
		}
		if len(*in.Code) > MaxCodeLength {
			return apperror.TooLarge("code", fmt.Sprintf("Code must be %d characters or fewer", MaxCodeLength))
		}
		snippet.Code = *in.Code
	}
	if in.Language != nil {
		if !language.IsValid(*in.Language) {
			return apperror.UnsupportedLanguage(*in.Language)
		}
		snippet.Language = *in.Language
	}
	if in.Tags != nil {
		tags := *in.Tags
		if len(tags) > MaxTags {
			return apperror.ValidationFailed("tags", fmt.Sprintf("At most %d tags are allowed", MaxTags))
		}
		for _, tag := range tags {
			if len(tag) > MaxTagLength {
				return apperror.ValidationFailed("tags", fmt.Sprintf("Tags must be %d characters or fewer", MaxTagLength))
			}
		}
		snippet.Tags = tags
	}
	if in.Category != nil {
		if !validCategory(*in.Category) {
			return apperror.ValidationFailed("category", "Invalid category")
		}
		snippet.Category = *in.Category
	}
	if in.IsPublic != nil {
		snippet.IsPublic = *in.IsPublic
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range model.Categories {
		if c == category {
			return true
		}
	}
	return false
}
