package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/repository"
)

// Hand-written in-memory mocks. The services only see the repository
// interfaces, so these swap in without the services noticing.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSnippetRepo struct {
	snippets map[string]*model.Snippet
	versions map[string][]model.Version
	nextID   int
}

func newMockSnippetRepo() *mockSnippetRepo {
	return &mockSnippetRepo{
		snippets: make(map[string]*model.Snippet),
		versions: make(map[string][]model.Version),
	}
}

func (m *mockSnippetRepo) Create(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	snippet.ID = fmt.Sprintf("snip-%d", m.nextID)
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) GetByID(_ context.Context, userID, id string) (*model.Snippet, error) {
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *s
	result.Versions = append([]model.Version(nil), m.versions[id]...)
	return &result, nil
}

func (m *mockSnippetRepo) List(_ context.Context, userID string, f repository.SnippetFilter) ([]model.Snippet, int, error) {
	var all []model.Snippet
	for _, s := range m.snippets {
		if s.UserID != userID {
			continue
		}
		if f.Language != "" && s.Language != f.Language {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	if f.Offset >= len(all) {
		return []model.Snippet{}, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (m *mockSnippetRepo) Update(_ context.Context, snippet *model.Snippet, newVersion *model.Version) error {
	existing, ok := m.snippets[snippet.ID]
	if !ok || existing.UserID != snippet.UserID {
		return apperror.NotFound("snippet", snippet.ID)
	}
	if newVersion != nil {
		m.versions[snippet.ID] = append(m.versions[snippet.ID], *newVersion)
	}
	snippet.UpdatedAt = time.Now()
	stored := *snippet
	stored.Versions = nil
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) Delete(_ context.Context, userID, id string) error {
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	delete(m.versions, id)
	return nil
}

func (m *mockSnippetRepo) History(_ context.Context, userID, id string) (string, []model.Version, error) {
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return "", nil, apperror.NotFound("snippet", id)
	}
	versions := append([]model.Version(nil), m.versions[id]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return s.Title, versions, nil
}

func (m *mockSnippetRepo) IncrementViews(_ context.Context, id string) error {
	if s, ok := m.snippets[id]; ok {
		s.Stats.Views++
	}
	return nil
}

var _ repository.SnippetRepository = (*mockSnippetRepo)(nil)

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) addUser(username, email, passwordHash string) *model.User {
	m.nextID++
	u := &model.User{
		ID:           fmt.Sprintf("user-%d", m.nextID),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      model.Profile{Theme: "dark"},
		Settings:     model.DefaultSettings(),
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict("User with this email or username already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier) {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", identifier)
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) AddUserStats(_ context.Context, userID string, codes, lines, aiQueries int) error {
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.Stats.TotalCodes += codes
	u.Stats.TotalLinesOfCode += lines
	u.Stats.AIQueriesUsed += aiQueries
	return nil
}

func (m *mockUserRepo) UpsertGitHubUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID && user.GitHubID != 0 {
			*user = *u
			return nil
		}
	}
	return m.CreateUser(context.Background(), user)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)
