package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubUserStore struct {
	createFn      func(ctx context.Context, u *User) error
	findByEmailFn func(ctx context.Context, email string) (*User, error)
}

func (s *stubUserStore) Create(ctx context.Context, u *User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	return nil
}

func (s *stubUserStore) Find(ctx context.Context, id string) (*User, error) {
	return nil, ErrNotFound
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if s.findByEmailFn != nil {
		return s.findByEmailFn(ctx, email)
	}
	return nil, ErrNotFound
}

func (s *stubUserStore) List(ctx context.Context, exclude Role) ([]*User, error) { return nil, nil }

func (s *stubUserStore) Update(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	return nil, ErrNotFound
}

func (s *stubUserStore) Delete(ctx context.Context, id string) (*User, error) {
	return nil, ErrNotFound
}

func (s *stubUserStore) Count(ctx context.Context) (int, error) { return 0, nil }

func newTestService(t *testing.T, store UserStore) *Service {
	t.Helper()
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	svc, err := NewService(store, tokens)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &stubUserStore{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email != "agent@example.com" {
				return nil, ErrNotFound
			}
			return &User{ID: "u1", Email: email, PasswordHash: hash, Role: RoleSupportAgent}, nil
		},
	}
	svc := newTestService(t, store)

	session, err := svc.Login(context.Background(), "Agent@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}
	identity, err := svc.Authenticate(session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.UserID != "u1" || identity.Role != RoleSupportAgent {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubUserStore{})

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := HashPassword("right")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &stubUserStore{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(t, store)

	_, err = svc.Login(context.Background(), "agent@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginMissingFields(t *testing.T) {
	svc := newTestService(t, &stubUserStore{})

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.c", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSignupCreatesUnprivilegedUser(t *testing.T) {
	var created *User
	store := &stubUserStore{
		createFn: func(ctx context.Context, u *User) error {
			created = u
			return nil
		},
	}
	svc := newTestService(t, store)

	session, err := svc.Signup(context.Background(), "New User", "NEW@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if created == nil {
		t.Fatal("expected store.Create to be called")
	}
	if created.Role != RoleNone {
		t.Fatalf("expected no role, got %q", created.Role)
	}
	if created.Email != "new@example.com" {
		t.Fatalf("email was not normalized: %s", created.Email)
	}
	if created.PasswordHash == "hunter2" || created.PasswordHash == "" {
		t.Fatal("password was not hashed")
	}
	identity, err := svc.Authenticate(session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.Role != RoleNone {
		t.Fatalf("expected tokenless role, got %q", identity.Role)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := &stubUserStore{
		createFn: func(ctx context.Context, u *User) error {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		},
	}
	svc := newTestService(t, store)

	_, err := svc.Signup(context.Background(), "Dup", "dup@example.com", "pw")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
