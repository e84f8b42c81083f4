// Package users implements the administrative user-management surface.
// Every mutation appends one activity-log entry; a failed append fails the
// whole operation.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devang127/lead-management/internal/access"
	"github.com/devang127/lead-management/internal/audit"
	"github.com/devang127/lead-management/internal/auth"
	"github.com/devang127/lead-management/internal/ids"
)

// Service manages user records on behalf of administrators.
type Service struct {
	store auth.UserStore
	log   audit.Store
	now   func() time.Time
}

// NewService constructs the user-management service.
func NewService(store auth.UserStore, log audit.Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("user store is required")
	}
	if log == nil {
		return nil, errors.New("audit store is required")
	}
	return &Service{store: store, log: log, now: time.Now}, nil
}

// Create registers a managed user with an assignable role.
func (s *Service) Create(ctx context.Context, actor auth.Identity, name, email, password string, role auth.Role) (*auth.User, error) {
	if err := access.Require(actor.Role, access.OpUserManage); err != nil {
		return nil, err
	}
	if !role.Assignable() {
		return nil, fmt.Errorf("%w: role must be %q or %q", auth.ErrInvalidInput, auth.RoleSubAdmin, auth.RoleSupportAgent)
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", auth.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", auth.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &auth.User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := audit.Record(ctx, s.log, actor.UserID, fmt.Sprintf("Created %s %s", role, user.Email)); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to a managed user. A role change is only
// accepted within the assignable set.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, upd auth.UserUpdate) (*auth.User, error) {
	if err := access.Require(actor.Role, access.OpUserManage); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if !ids.Valid(id) {
		return nil, fmt.Errorf("%w: invalid user id", auth.ErrInvalidInput)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: valid email is required", auth.ErrInvalidInput)
		}
		upd.Email = &email
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", auth.ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Role != nil && !upd.Role.Assignable() {
		return nil, fmt.Errorf("%w: role must be %q or %q", auth.ErrInvalidInput, auth.RoleSubAdmin, auth.RoleSupportAgent)
	}
	if upd.Password != nil {
		pw := strings.TrimSpace(*upd.Password)
		if pw == "" {
			return nil, fmt.Errorf("%w: password is required", auth.ErrInvalidInput)
		}
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}

	user, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := audit.Record(ctx, s.log, actor.UserID, fmt.Sprintf("Updated user %s", user.Email)); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a managed user. Leads referencing the user as assignee are
// left dangling and resolve to "Unassigned" at read time.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := access.Require(actor.Role, access.OpUserManage); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !ids.Valid(id) {
		return fmt.Errorf("%w: invalid user id", auth.ErrInvalidInput)
	}
	user, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	return audit.Record(ctx, s.log, actor.UserID, fmt.Sprintf("Deleted user %s", user.Email))
}

// List returns the managed users, excluding super-admin accounts.
func (s *Service) List(ctx context.Context, actor auth.Identity) ([]*auth.User, error) {
	if err := access.Require(actor.Role, access.OpUserList); err != nil {
		return nil, err
	}
	return s.store.List(ctx, auth.RoleSuperAdmin)
}

// ActivityLogs returns the append-only log, newest first.
func (s *Service) ActivityLogs(ctx context.Context, actor auth.Identity) ([]audit.Entry, error) {
	if err := access.Require(actor.Role, access.OpActivityLogRead); err != nil {
		return nil, err
	}
	return s.log.List(ctx)
}
