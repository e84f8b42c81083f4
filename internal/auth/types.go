package auth

import (
	"context"
	"time"
)

// User is an account holding credentials and exactly one role. The password
// hash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserUpdate carries a partial administrative update; nil fields stay
// untouched. Password holds plaintext on the way in and is hashed before it
// reaches the store.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// UserStore manages persisted user records.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// List returns every user except those holding the excluded role.
	List(ctx context.Context, exclude Role) ([]*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	// Delete removes the user and returns the deleted record. Leads
	// referencing the user as assignee keep their dangling reference.
	Delete(ctx context.Context, id string) (*User, error)
	Count(ctx context.Context) (int, error)
}
