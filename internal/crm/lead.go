// Package crm holds the lead domain: the record model, validation, filter
// composition and the role-scoped operations over the lead store.
package crm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("crm: not found")
	ErrInvalidInput = errors.New("crm: invalid input")
)

// Status is the closed lead-status enumeration.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusLost      Status = "Lost"
	StatusWon       Status = "Won"
)

// Statuses lists the enumeration in display order.
var Statuses = []Status{StatusNew, StatusContacted, StatusQualified, StatusLost, StatusWon}

// ParseStatus validates raw against the enumeration. Empty input maps to the
// default StatusNew.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusNew, nil
	}
	for _, s := range Statuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: invalid status value", ErrInvalidInput)
}

// Assignee is the embedded user reference resolved at read time.
type Assignee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Lead is a sales-prospect record. AssignedTo holds the raw user reference;
// Assignee carries the resolved view and stays nil when the reference is
// absent or dangling.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Source     string    `json:"source"`
	Status     Status    `json:"status"`
	Tags       []string  `json:"tags"`
	Notes      string    `json:"notes"`
	AssignedTo string    `json:"-"`
	Assignee   *Assignee `json:"assignedTo"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Filter holds the caller-supplied listing filters. Zero values mean the
// dimension is unconstrained.
type Filter struct {
	Status     Status
	Tags       []string
	StartDate  time.Time
	EndDate    time.Time
	AssigneeID string
	Search     string
}

// Query combines caller filters with the role-derived scope. ScopeAssignee is
// ANDed with the filter and is never widened by it.
type Query struct {
	Filter        Filter
	ScopeAssignee string
}

// SplitTags parses a comma-separated tag string into an ordered list,
// trimming whitespace and dropping empty segments.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}
