package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devang127/lead-management/internal/access"
	"github.com/devang127/lead-management/internal/auth"
	"github.com/devang127/lead-management/internal/ids"
)

// StatusCounts aggregates leads per status within a scope.
type StatusCounts struct {
	Total     int
	New       int
	Contacted int
	Qualified int
	Lost      int
	Won       int
}

// LeadStore manages persisted lead records. Every read or mutation happens
// through an access-approved query.
type LeadStore interface {
	Create(ctx context.Context, lead *Lead) error
	Find(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, q Query) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	// DistinctTags returns the sorted distinct tags of leads visible within
	// the scope; an empty scopeAssignee means unrestricted.
	DistinctTags(ctx context.Context, scopeAssignee string) ([]string, error)
	CountByStatus(ctx context.Context, scopeAssignee string) (StatusCounts, error)
}

// DashboardStats is the aggregate view behind /api/dashboard/stats.
type DashboardStats struct {
	TotalLeads     int `json:"totalLeads"`
	NewLeads       int `json:"newLeads"`
	ContactedLeads int `json:"contactedLeads"`
	QualifiedLeads int `json:"qualifiedLeads"`
	WonLeads       int `json:"wonLeads"`
	LostLeads      int `json:"lostLeads"`
	TotalUsers     int `json:"totalUsers"`
}

// Service exposes the role-scoped lead operations.
type Service struct {
	leads LeadStore
	users auth.UserStore
	now   func() time.Time
}

// NewService constructs the lead service. The user store is only consulted
// for the dashboard's user count.
func NewService(leads LeadStore, users auth.UserStore) (*Service, error) {
	if leads == nil {
		return nil, errors.New("lead store is required")
	}
	if users == nil {
		return nil, errors.New("user store is required")
	}
	return &Service{leads: leads, users: users, now: time.Now}, nil
}

// List returns the leads visible to the caller after composing the supplied
// filters with the role-derived scope. An invalid assignee filter is rejected
// before scope composition.
func (s *Service) List(ctx context.Context, actor auth.Identity, f Filter) ([]*Lead, error) {
	if err := access.Require(actor.Role, access.OpLeadList); err != nil {
		return nil, err
	}
	q, err := s.compose(actor, f)
	if err != nil {
		return nil, err
	}
	return s.leads.List(ctx, q)
}

// Create validates and stores a new lead. Any authenticated role may create;
// the assignee may be anyone.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in LeadInput) (*Lead, error) {
	if err := access.Require(actor.Role, access.OpLeadCreate); err != nil {
		return nil, err
	}
	fields, err := in.normalize()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	lead := &Lead{
		ID:        ids.New(),
		Status:    StatusNew,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.apply(lead)
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return s.leads.Find(ctx, lead.ID)
}

// Update applies an all-or-nothing update. Support-agents may only update
// leads currently assigned to them; the ownership check runs against the
// stored record before any validation result is written.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, in LeadInput) (*Lead, error) {
	if err := access.Require(actor.Role, access.OpLeadUpdate); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if !ids.Valid(id) {
		return nil, fmt.Errorf("%w: invalid lead id", ErrInvalidInput)
	}
	lead, err := s.leads.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateLead(actor, lead.AssignedTo) {
		return nil, access.ErrForbidden
	}
	fields, err := in.normalize()
	if err != nil {
		return nil, err
	}
	fields.apply(lead)
	lead.UpdatedAt = s.now().UTC()
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return s.leads.Find(ctx, id)
}

// Delete removes a lead. Only administrator roles may delete, independent of
// assignment.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := access.Require(actor.Role, access.OpLeadDelete); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !ids.Valid(id) {
		return fmt.Errorf("%w: invalid lead id", ErrInvalidInput)
	}
	return s.leads.Delete(ctx, id)
}

// Tags returns the distinct tags visible within the caller's scope.
func (s *Service) Tags(ctx context.Context, actor auth.Identity) ([]string, error) {
	if err := access.Require(actor.Role, access.OpLeadTags); err != nil {
		return nil, err
	}
	return s.leads.DistinctTags(ctx, access.ScopeFor(actor).AssigneeID)
}

// Export lists the scoped leads and renders them into rows limited to the
// requested field subset.
func (s *Service) Export(ctx context.Context, actor auth.Identity, f Filter, fieldsRaw string) ([]string, [][]string, error) {
	if err := access.Require(actor.Role, access.OpLeadExport); err != nil {
		return nil, nil, err
	}
	fields, err := SelectExportFields(fieldsRaw)
	if err != nil {
		return nil, nil, err
	}
	q, err := s.compose(actor, f)
	if err != nil {
		return nil, nil, err
	}
	leads, err := s.leads.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return fields, ExportRows(leads, fields), nil
}

// Stats aggregates lead counts within the caller's scope. The user count is
// only revealed to super-admin.
func (s *Service) Stats(ctx context.Context, actor auth.Identity) (DashboardStats, error) {
	if err := access.Require(actor.Role, access.OpDashboardStats); err != nil {
		return DashboardStats{}, err
	}
	counts, err := s.leads.CountByStatus(ctx, access.ScopeFor(actor).AssigneeID)
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{
		TotalLeads:     counts.Total,
		NewLeads:       counts.New,
		ContactedLeads: counts.Contacted,
		QualifiedLeads: counts.Qualified,
		WonLeads:       counts.Won,
		LostLeads:      counts.Lost,
	}
	if actor.Role == auth.RoleSuperAdmin {
		total, err := s.users.Count(ctx)
		if err != nil {
			return DashboardStats{}, err
		}
		stats.TotalUsers = total
	}
	return stats, nil
}

func (s *Service) compose(actor auth.Identity, f Filter) (Query, error) {
	f.AssigneeID = strings.TrimSpace(f.AssigneeID)
	if f.AssigneeID != "" && !ids.Valid(f.AssigneeID) {
		return Query{}, fmt.Errorf("%w: invalid assignedTo id", ErrInvalidInput)
	}
	if f.Status != "" {
		if _, err := ParseStatus(string(f.Status)); err != nil {
			return Query{}, err
		}
	}
	return Query{Filter: f, ScopeAssignee: access.ScopeFor(actor).AssigneeID}, nil
}
