package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/yrb/jobtrack/internal/apperror"
	"github.com/yrb/jobtrack/internal/auth"
	"github.com/yrb/jobtrack/internal/model"
)

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake (not a mock framework) keeps the tests readable — everything it
// does is on this page.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	byGHID  map[int64]*model.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		byGHID:  make(map[int64]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("an account with that email already exists")
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) UpsertGitHub(ctx context.Context, user *model.User) error {
	if existing, ok := f.byGHID[user.GitHubID]; ok {
		existing.Name = user.Name
		existing.Email = user.Email
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	copied := *user
	f.byID[user.ID] = &copied
	f.byGHID[user.GitHubID] = &copied
	return nil
}

// newTestAuthService wires an AuthService with the fake repo, bcrypt cost 4,
// and a logger that only reports errors.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) (*AuthService, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewAuthService(repo, tokens, passwords, logger), tokens
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "Ada", "ADA@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Register() returned empty token")
	}

	// The token round-trips to the registered identity.
	id, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() on fresh token error = %v", err)
	}
	if id.UserID != result.User.ID || id.Name != "Ada" {
		t.Errorf("token identity = %+v, want {%s Ada}", id, result.User.ID)
	}

	// Email is normalised and the stored hash is not the plaintext.
	stored, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "s3cret" {
		t.Errorf("stored hash = %q — plaintext or empty", stored.PasswordHash)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "pw"},
		{"Ada", "", "pw"},
		{"Ada", "a@example.com", ""},
		{"  ", "a@example.com", "pw"}, // whitespace-only name
	}
	for _, tt := range tests {
		_, err := svc.Register(ctx, tt.name, tt.email, tt.password)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Register(%q,%q,...) error = %v, want ErrValidation", tt.name, tt.email, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "Imposter", "ada@example.com", "pw2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() error = %v, want ErrConflict", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestAuthService(t, repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	id, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if id.UserID != reg.User.ID {
		t.Errorf("login token UserID = %q, want %q", id.UserID, reg.User.ID)
	}
}

// Unknown email and wrong password must be indistinguishable: same error
// category, same message.
func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "right"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever")
	_, errWrongPw := svc.Login(ctx, "ada@example.com", "wrong")

	if !errors.Is(errUnknown, apperror.ErrUnauthorized) {
		t.Fatalf("Login(unknown email) error = %v, want ErrUnauthorized", errUnknown)
	}
	if !errors.Is(errWrongPw, apperror.ErrUnauthorized) {
		t.Fatalf("Login(wrong password) error = %v, want ErrUnauthorized", errWrongPw)
	}

	var a, b *apperror.AppError
	errors.As(errUnknown, &a)
	errors.As(errWrongPw, &b)
	if a.Message != b.Message {
		t.Errorf("login failure messages differ: %q vs %q — leaks which field was wrong", a.Message, b.Message)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "pw"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login(no email) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Login(ctx, "a@example.com", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login(no password) error = %v, want ErrValidation", err)
	}
}

func TestLoginOrRegisterGitHub(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestAuthService(t, repo)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 42, Login: "octocat", Email: "octocat@github.com"}

	result, err := svc.LoginOrRegisterGitHub(ctx, gh)
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if result.User.Name != "octocat" {
		t.Errorf("Name = %q, want login fallback %q", result.User.Name, "octocat")
	}
	if _, err := tokens.Validate(result.Token); err != nil {
		t.Errorf("GitHub token does not validate: %v", err)
	}

	// Second sign-in reuses the account.
	again, err := svc.LoginOrRegisterGitHub(ctx, gh)
	if err != nil {
		t.Fatalf("second LoginOrRegisterGitHub() error = %v", err)
	}
	if again.User.ID != result.User.ID {
		t.Errorf("second sign-in created a new account: %q vs %q", again.User.ID, result.User.ID)
	}
}
