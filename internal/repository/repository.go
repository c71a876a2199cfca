// Package repository declares the storage interfaces consumed by the service
// layer. The concrete implementation lives in repository/sqlite.
package repository

import (
	"context"

	"github.com/sakif/code-editor/internal/model"
)

// SnippetFilter narrows and pages a snippet listing. Filters are ANDed.
type SnippetFilter struct {
	Language string
	Category string
	Search   string // case-insensitive match on title, description, or tags
	Limit    int
	Offset   int
}

// SnippetRepository persists snippets. Every read/write is scoped to the
// owning user: an id that exists but belongs to someone else behaves exactly
// like an absent id.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, userID, id string) (*model.Snippet, error)
	// List returns the filtered page plus the total match count.
	List(ctx context.Context, userID string, f SnippetFilter) ([]model.Snippet, int, error)
	// Update persists the snippet's mutable fields. When newVersion is
	// non-nil it is appended to the version history in the same transaction
	// as the field update, so no reader observes one without the other.
	Update(ctx context.Context, snippet *model.Snippet, newVersion *model.Version) error
	Delete(ctx context.Context, userID, id string) error
	// History returns the snippet title and its versions, newest first.
	History(ctx context.Context, userID, id string) (string, []model.Version, error)
	IncrementViews(ctx context.Context, id string) error
}

// UserRepository persists accounts. Method names carry a User suffix so the
// same sqlite.DB can satisfy both repositories.
type UserRepository interface {
	// CreateUser inserts a new user; duplicate username or email yields
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByIdentifier looks a user up by username or email.
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	// AddUserStats applies atomic deltas to the user's running counters.
	AddUserStats(ctx context.Context, userID string, codes, lines, aiQueries int) error
	// UpsertGitHubUser creates or refreshes an account linked to a GitHub
	// identity, loading the existing account into user when one exists.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}
