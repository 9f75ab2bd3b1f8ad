package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Aryansemwal011/web-dev-project/internal/repository"
)

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	repo, err := repository.NewSQLRepository("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRegisterThenAuthenticate_ReturnsSameIdentity(t *testing.T) {
	svc := NewUserService(newTestRepo(t))
	ctx := context.Background()

	registeredID, err := svc.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	authedID, err := svc.Authenticate(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authedID != registeredID {
		t.Fatalf("expected identity %d, got %d", registeredID, authedID)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewUserService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "pw2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Прежний пароль остался действующим
	if _, err := svc.Authenticate(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Authenticate after failed duplicate: %v", err)
	}
}

func TestRegister_CaseSensitiveUsernames(t *testing.T) {
	svc := NewUserService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Register alice: %v", err)
	}
	// Сравнение точное: Alice и alice - разные пользователи
	if _, err := svc.Register(ctx, "Alice", "pw2"); err != nil {
		t.Fatalf("Register Alice: %v", err)
	}
}

func TestRegister_EmptyCredentialsRejected(t *testing.T) {
	svc := NewUserService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "pw"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty username, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc := NewUserService(newTestRepo(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Authenticate(ctx, "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc := NewUserService(newTestRepo(t))

	_, err := svc.Authenticate(context.Background(), "nobody", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
