package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, password_hash, github_id,
	first_name, last_name, bio, preferred_languages, theme,
	ai_assistance, auto_save, font_size,
	total_codes, total_lines, ai_queries, created_at, updated_at`

func encodeLanguages(langs []string) (string, error) {
	if langs == nil {
		langs = []string{}
	}
	b, err := json.Marshal(langs)
	if err != nil {
		return "", fmt.Errorf("encoding preferred languages: %w", err)
	}
	return string(b), nil
}

// CreateUser inserts a new account, generating its ID and timestamps in-place.
// Duplicate usernames or emails surface as apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	langs, err := encodeLanguages(user.Profile.PreferredLanguages)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id,
		                    first_name, last_name, bio, preferred_languages, theme,
		                    ai_assistance, auto_save, font_size,
		                    total_codes, total_lines, ai_queries, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GitHubID,
		user.Profile.FirstName,
		user.Profile.LastName,
		user.Profile.Bio,
		langs,
		user.Profile.Theme,
		user.Settings.AIAssistance,
		user.Settings.AutoSave,
		user.Settings.FontSize,
		user.Stats.TotalCodes,
		user.Stats.TotalLinesOfCode,
		user.Stats.AIQueriesUsed,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User with this email or username already exists")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite does not export a typed constraint error, so this
// matches on the message SQLite itself produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanUser(scan func(dest ...any) error) (*model.User, error) {
	var u model.User
	var langs string

	err := scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GitHubID,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Bio, &langs, &u.Profile.Theme,
		&u.Settings.AIAssistance, &u.Settings.AutoSave, &u.Settings.FontSize,
		&u.Stats.TotalCodes, &u.Stats.TotalLinesOfCode, &u.Stats.AIQueriesUsed,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(langs), &u.Profile.PreferredLanguages); err != nil {
		return nil, fmt.Errorf("decoding preferred languages: %w", err)
	}

	return &u, nil
}

// GetUserByID retrieves an account by its ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByIdentifier retrieves an account by username or email. Both columns
// are COLLATE NOCASE, so lookups are case-insensitive.
func (db *DB) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		identifier, identifier,
	)
	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", identifier)
		}
		return nil, fmt.Errorf("sqlite: getting user by identifier: %w", err)
	}
	return user, nil
}

// UpdateUser persists the account's mutable fields. Stats counters are NOT
// written here; they only move through AddUserStats.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	langs, err := encodeLanguages(user.Profile.PreferredLanguages)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET username = ?, email = ?, password_hash = ?, github_id = ?,
		     first_name = ?, last_name = ?, bio = ?, preferred_languages = ?, theme = ?,
		     ai_assistance = ?, auto_save = ?, font_size = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GitHubID,
		user.Profile.FirstName,
		user.Profile.LastName,
		user.Profile.Bio,
		langs,
		user.Profile.Theme,
		user.Settings.AIAssistance,
		user.Settings.AutoSave,
		user.Settings.FontSize,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User with this email or username already exists")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// AddUserStats applies deltas to the running counters. A single UPDATE keeps
// concurrent increments from losing each other.
func (db *DB) AddUserStats(ctx context.Context, userID string, codes, lines, aiQueries int) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET total_codes = total_codes + ?,
		     total_lines = total_lines + ?,
		     ai_queries  = ai_queries + ?
		 WHERE id = ?`,
		codes, lines, aiQueries, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating stats for %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}

// UpsertGitHubUser finds the account linked to the given GitHub identity, or
// creates one when this is the first login.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, user.GitHubID,
	)
	existing, err := scanUser(row.Scan)
	if err == nil {
		*user = *existing
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up github user: %w", err)
	}

	return db.CreateUser(ctx, user)
}
