// Package audit records administrative mutations in an append-only log.
// Entries are written as a side effect of user-management operations and are
// never updated or deleted through the exposed interface.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devang127/lead-management/internal/ids"
)

// Entry is one immutable activity-log record. ActorEmail is resolved at read
// time and stays empty when the actor has since been deleted.
type Entry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"user"`
	ActorEmail string    `json:"userEmail,omitempty"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store appends and reads immutable entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// Record builds and appends one entry. A failed append propagates to the
// caller so the surrounding mutation fails as a whole.
func Record(ctx context.Context, store Store, actorID, action string) error {
	actorID = strings.TrimSpace(actorID)
	action = strings.TrimSpace(action)
	if actorID == "" {
		return errors.New("audit: actor is required")
	}
	if action == "" {
		return errors.New("audit: action is required")
	}
	entry := &Entry{
		ID:        ids.New(),
		ActorID:   actorID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	return store.Append(ctx, entry)
}
