package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/repository"
)

// Compile-time check that *DB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*DB)(nil)

// Tags and the AI-analysis cache are stored as JSON text — SQLite has no
// array or document column type, and neither field is filtered with anything
// a LIKE can't serve.

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

func encodeAnalysis(a *model.AIAnalysis) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding ai analysis: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// Create inserts a new snippet, generating its ID and timestamps in-place.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}
	analysis, err := encodeAnalysis(snippet.AIAnalysis)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, user_id, title, description, code, language, tags,
		                       category, is_public, lines_of_code, file_size, complexity,
		                       ai_analysis, views, forks, likes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.UserID,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.Language,
		tags,
		snippet.Category,
		snippet.IsPublic,
		snippet.Metadata.LinesOfCode,
		snippet.Metadata.FileSize,
		snippet.Metadata.Complexity,
		analysis,
		snippet.Stats.Views,
		snippet.Stats.Forks,
		snippet.Stats.Likes,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

const snippetColumns = `id, user_id, title, description, code, language, tags,
	category, is_public, lines_of_code, file_size, complexity, ai_analysis,
	views, forks, likes, created_at, updated_at`

// scanSnippet reads one snippet row. Works for both sql.Row and sql.Rows via
// the shared Scan signature.
func scanSnippet(scan func(dest ...any) error) (*model.Snippet, error) {
	var s model.Snippet
	var tags string
	var analysis sql.NullString

	err := scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.Code, &s.Language, &tags,
		&s.Category, &s.IsPublic,
		&s.Metadata.LinesOfCode, &s.Metadata.FileSize, &s.Metadata.Complexity,
		&analysis,
		&s.Stats.Views, &s.Stats.Forks, &s.Stats.Likes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if analysis.Valid {
		var a model.AIAnalysis
		if err := json.Unmarshal([]byte(analysis.String), &a); err != nil {
			return nil, fmt.Errorf("decoding ai analysis: %w", err)
		}
		s.AIAnalysis = &a
	}

	return &s, nil
}

// GetByID retrieves a snippet scoped to its owner, including version history
// (oldest first). A snippet owned by another user is reported as not found.
func (db *DB) GetByID(ctx context.Context, userID, id string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	snippet, err := scanSnippet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	versions, err := db.loadVersions(ctx, id, "ASC")
	if err != nil {
		return nil, err
	}
	snippet.Versions = versions

	return snippet, nil
}

// List retrieves a filtered, newest-first page of the user's snippets along
// with the total match count for pagination.
func (db *DB) List(ctx context.Context, userID string, f repository.SnippetFilter) ([]model.Snippet, int, error) {
	where := `WHERE user_id = ?`
	args := []any{userID}

	if f.Language != "" {
		where += ` AND language = ?`
		args = append(args, f.Language)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		// LIKE is case-insensitive for ASCII in SQLite. Tags are JSON text,
		// so a substring match covers the tag values.
		where += ` AND (title LIKE ? OR description LIKE ? OR tags LIKE ?)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting snippets: %w", err)
	}

	query := `SELECT ` + snippetColumns + ` FROM snippets ` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, f.Limit)
	for rows.Next() {
		s, err := scanSnippet(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, total, nil
}

// Update persists the snippet's mutable fields, appending newVersion (when
// supplied) in the same transaction. A concurrent reader therefore never sees
// the version list grown without the live code updated, or vice versa.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet, newVersion *model.Version) error {
	snippet.UpdatedAt = time.Now()

	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}
	analysis, err := encodeAnalysis(snippet.AIAnalysis)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning update tx: %w", err)
	}
	defer tx.Rollback()

	if newVersion != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snippet_versions (snippet_id, version, code, changes, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			snippet.ID, newVersion.Version, newVersion.Code, newVersion.Changes, newVersion.CreatedAt,
		); err != nil {
			return fmt.Errorf("sqlite: inserting snippet version: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, description = ?, code = ?, language = ?, tags = ?,
		     category = ?, is_public = ?, lines_of_code = ?, file_size = ?,
		     complexity = ?, ai_analysis = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		snippet.Language,
		tags,
		snippet.Category,
		snippet.IsPublic,
		snippet.Metadata.LinesOfCode,
		snippet.Metadata.FileSize,
		snippet.Metadata.Complexity,
		analysis,
		snippet.UpdatedAt,
		snippet.ID,
		snippet.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing update tx: %w", err)
	}

	return nil
}

// Delete removes a snippet and (via cascade) its version history.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// History returns the snippet's title plus its versions, newest first.
func (db *DB) History(ctx context.Context, userID, id string) (string, []model.Version, error) {
	var title string
	err := db.conn.QueryRowContext(ctx,
		`SELECT title FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&title)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, apperror.NotFound("snippet", id)
		}
		return "", nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	versions, err := db.loadVersions(ctx, id, "DESC")
	if err != nil {
		return "", nil, err
	}

	return title, versions, nil
}

// IncrementViews bumps the view counter by one. A single UPDATE keeps the
// increment atomic under concurrent reads.
func (db *DB) IncrementViews(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET views = views + 1 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing views for %s: %w", id, err)
	}
	return nil
}

func (db *DB) loadVersions(ctx context.Context, snippetID, order string) ([]model.Version, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, code, changes, created_at FROM snippet_versions
		 WHERE snippet_id = ? ORDER BY version `+order,
		snippetID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading versions for %s: %w", snippetID, err)
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var v model.Version
		if err := rows.Scan(&v.Version, &v.Code, &v.Changes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating versions: %w", err)
	}

	return versions, nil
}
