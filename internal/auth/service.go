package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devang127/lead-management/internal/ids"
)

// Service verifies credentials against the user store and issues claim sets.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	now    func() time.Time
}

// NewService constructs the authentication service.
func NewService(users UserStore, tokens *TokenIssuer) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	return &Service{users: users, tokens: tokens, now: time.Now}, nil
}

// Session is the result of a successful login or signup.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Login verifies the credential pair and issues a claim set carrying the
// user's stored role. An unknown email reports ErrNotFound; a wrong password
// reports ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Signup registers an unprivileged account. The created user holds no role,
// so the issued claim set fails every role-gated check until an administrator
// grants one.
func (s *Service) Signup(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	now := s.now().UTC()
	user := &User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return Session{}, err
	}
	token, expiresAt, err := s.tokens.Generate(user.ID, RoleNone)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate validates a bearer token and returns the caller identity.
func (s *Service) Authenticate(token string) (Identity, error) {
	return s.tokens.ParseAndValidate(token)
}
