// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate and enforce
// rules; repositories talk to the database. Services take repository
// interfaces, not concrete types, so tests run against in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yrb/jobtrack/internal/apperror"
	"github.com/yrb/jobtrack/internal/auth"
	"github.com/yrb/jobtrack/internal/model"
	"github.com/yrb/jobtrack/internal/repository"
)

// invalidCredentialMsg is the single message for every login failure.
// Unknown email and wrong password must be indistinguishable in the
// response — otherwise the endpoint doubles as an email-enumeration oracle.
const invalidCredentialMsg = "invalid email or password"

// AuthService handles registration, login, and GitHub sign-in.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with a freshly issued token so
// the handler can build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a token.
//
// Hashing happens here, explicitly, before the store call — persistence
// never sees a plaintext password, and there's no hidden "hash on save"
// hook to forget about in other code paths.
//
// A duplicate email surfaces as apperror.ErrConflict from the repository
// (backed by the UNIQUE index) and passes through untouched.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("name", user.Name),
	)

	return s.issue(user)
}

// Login authenticates an email/password pair and issues a token.
//
// Both failure paths — no account for the email, and a wrong password —
// return the same apperror.Unauthorized with the same message. The lookup
// miss is NOT reported as not-found.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized(invalidCredentialMsg)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(invalidCredentialMsg)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: upsert the
// account keyed by GitHub ID (create on first sign-in, refresh the profile
// afterwards) and issue the same kind of token the password flows issue.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		Name:      ghUser.DisplayName(),
		Email:     strings.ToLower(ghUser.Email),
		GitHubID:  ghUser.ID,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("name", user.Name),
	)

	return s.issue(user)
}

// GetUserByID returns the user for the given internal ID. Used by the
// /auth/me handler after the middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
