package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/auth"
	"github.com/sakif/code-editor/internal/model"
	"github.com/sakif/code-editor/internal/repository"
)

// AuthService handles registration, login, and profile management.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult carries the authenticated user plus their fresh access token.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account with the default settings and logs it in.
// Duplicate username or email yields apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "Username is required")
	}
	if !validUsername(username) {
		return nil, apperror.ValidationFailed("username", "Username can only contain letters, numbers, and underscores")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "Email is required")
	}
	if len(password) < 6 {
		return nil, apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Profile:      model.Profile{Theme: "dark"},
		Settings:     model.DefaultSettings(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user registered", slog.String("userId", user.ID), slog.String("username", username))
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by username or email plus password.
//
// Unknown identifier and wrong password both yield the same uniform
// "Invalid credentials" error, so a caller cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if user.PasswordHash == "" {
		// OAuth-only account; no password to check.
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userId", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// LoginGitHub finds or creates the account linked to a GitHub identity and
// logs it in. First-time logins get an account with default settings; the
// username falls back to the GitHub login and the email may be empty when
// hidden on GitHub.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	email := gh.Email
	if email == "" {
		// Placeholder keeps the UNIQUE email column satisfied.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", gh.ID, gh.Login)
	}

	user := &model.User{
		Username: gh.Login,
		Email:    email,
		GitHubID: gh.ID,
		Profile:  model.Profile{Theme: "dark"},
		Settings: model.DefaultSettings(),
	}

	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, fmt.Errorf("upserting github user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("github login", slog.String("userId", user.ID), slog.Int64("githubId", gh.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile returns the account backing the given user ID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// ProfileUpdate carries the editable account fields. Pointer fields
// distinguish "absent" from "set to zero value".
type ProfileUpdate struct {
	FirstName          *string
	LastName           *string
	Bio                *string
	PreferredLanguages *[]string
	Theme              *string
	AIAssistance       *bool
	AutoSave           *bool
	FontSize           *int
	Password           *string
}

// UpdateProfile applies the supplied profile and settings changes. A new
// password is rehashed; username, email, and stats are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		user.Profile.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.Profile.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		user.Profile.Bio = *upd.Bio
	}
	if upd.PreferredLanguages != nil {
		user.Profile.PreferredLanguages = *upd.PreferredLanguages
	}
	if upd.Theme != nil {
		switch *upd.Theme {
		case "light", "dark", "auto":
			user.Profile.Theme = *upd.Theme
		default:
			return nil, apperror.ValidationFailed("theme", "Theme must be light, dark, or auto")
		}
	}
	if upd.AIAssistance != nil {
		user.Settings.AIAssistance = *upd.AIAssistance
	}
	if upd.AutoSave != nil {
		user.Settings.AutoSave = *upd.AutoSave
	}
	if upd.FontSize != nil {
		if *upd.FontSize < 8 || *upd.FontSize > 32 {
			return nil, apperror.ValidationFailed("fontSize", "Font size must be between 8 and 32")
		}
		user.Settings.FontSize = *upd.FontSize
	}
	if upd.Password != nil {
		if len(*upd.Password) < 6 {
			return nil, apperror.ValidationFailed("password", "Password must be at least 6 characters")
		}
		hash, err := s.passwords.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// validUsername reports whether the name uses only letters, digits, and
// underscores. Length bounds are enforced by the handler DTO.
func validUsername(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
