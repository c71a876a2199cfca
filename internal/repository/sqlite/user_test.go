package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$fake",
		Profile:      model.Profile{Theme: "dark", PreferredLanguages: []string{"python", "go"}},
		Settings:     model.DefaultSettings(),
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("CreateUser() did not set user.ID")
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Username != "alice" || found.Email != "alice@example.com" {
		t.Errorf("round trip mismatch: %+v", found)
	}
	if len(found.Profile.PreferredLanguages) != 2 {
		t.Errorf("PreferredLanguages = %v", found.Profile.PreferredLanguages)
	}
	if !found.Settings.AIAssistance || found.Settings.FontSize != 14 {
		t.Errorf("Settings = %+v, want defaults", found.Settings)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	tests := []struct {
		name string
		user model.User
	}{
		{"same username", model.User{Username: "alice", Email: "other@example.com"}},
		{"same email", model.User{Username: "other", Email: "alice@example.com"}},
		// COLLATE NOCASE makes the uniqueness check case-insensitive.
		{"username case", model.User{Username: "ALICE", Email: "third@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := db.CreateUser(context.Background(), &u)
			if !errors.Is(err, apperror.ErrConflict) {
				t.Errorf("error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestGetUserByIdentifier(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	byName, err := db.GetUserByIdentifier(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByIdentifier(username) error = %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("byName.ID = %q, want %q", byName.ID, user.ID)
	}

	byEmail, err := db.GetUserByIdentifier(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByIdentifier(email) error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("byEmail.ID = %q, want %q", byEmail.ID, user.ID)
	}

	if _, err := db.GetUserByIdentifier(context.Background(), "nobody"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	user.Profile.Bio = "gopher"
	user.Settings.FontSize = 18
	user.Settings.AutoSave = false
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Profile.Bio != "gopher" || found.Settings.FontSize != 18 || found.Settings.AutoSave {
		t.Errorf("update not persisted: %+v %+v", found.Profile, found.Settings)
	}
}

func TestAddUserStats(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	if err := db.AddUserStats(context.Background(), user.ID, 1, 42, 0); err != nil {
		t.Fatalf("AddUserStats() error = %v", err)
	}
	if err := db.AddUserStats(context.Background(), user.ID, 0, -7, 2); err != nil {
		t.Fatalf("AddUserStats() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Stats.TotalCodes != 1 || found.Stats.TotalLinesOfCode != 35 || found.Stats.AIQueriesUsed != 2 {
		t.Errorf("Stats = %+v, want {1 35 2}", found.Stats)
	}

	if err := db.AddUserStats(context.Background(), "missing", 1, 0, 0); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpsertGitHubUser(t *testing.T) {
	db := newTestDB(t)

	first := &model.User{
		Username: "octo",
		Email:    "octo@example.com",
		GitHubID: 12345,
		Profile:  model.Profile{Theme: "dark"},
		Settings: model.DefaultSettings(),
	}
	if err := db.UpsertGitHubUser(context.Background(), first); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("first upsert did not create an account")
	}

	// Second login with the same GitHub identity loads the existing account.
	second := &model.User{Username: "octo-renamed", Email: "octo@example.com", GitHubID: 12345}
	if err := db.UpsertGitHubUser(context.Background(), second); err != nil {
		t.Fatalf("UpsertGitHubUser() second error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second.ID = %q, want %q", second.ID, first.ID)
	}
	if second.Username != "octo" {
		t.Errorf("Username = %q, want stored username preserved", second.Username)
	}
}
