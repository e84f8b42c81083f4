package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devang127/lead-management/internal/crm"
)

// LeadStore implements crm.LeadStore on PostgreSQL. Tags persist as a jsonb
// array to keep their order.
type LeadStore struct {
	db *sql.DB
}

var _ crm.LeadStore = (*LeadStore)(nil)

func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadSelect = `
	select l.id, l.name, l.email, l.phone, l.source, l.status, l.tags, l.notes,
	       l.assigned_to, l.created_at, l.updated_at, u.name, u.email
	from leads l
	left join users u on u.id = l.assigned_to
`

func (s *LeadStore) Create(ctx context.Context, lead *crm.Lead) error {
	tags, err := json.Marshal(lead.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into leads(id, name, email, phone, source, status, tags, notes, assigned_to, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,nullif($9,''),$10,$11)
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Source, string(lead.Status),
		tags, lead.Notes, lead.AssignedTo, lead.CreatedAt, lead.UpdatedAt)
	return err
}

func (s *LeadStore) Find(ctx context.Context, id string) (*crm.Lead, error) {
	row := s.db.QueryRowContext(ctx, leadSelect+` where l.id=$1`, id)
	return scanLead(row)
}

func (s *LeadStore) List(ctx context.Context, q crm.Query) ([]*crm.Lead, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// Role-derived scope first; caller filters can only narrow it further.
	if q.ScopeAssignee != "" {
		conds = append(conds, "l.assigned_to = "+arg(q.ScopeAssignee))
	}
	f := q.Filter
	if f.Status != "" {
		conds = append(conds, "l.status = "+arg(string(f.Status)))
	}
	if len(f.Tags) > 0 {
		placeholders := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			placeholders = append(placeholders, arg(tag))
		}
		conds = append(conds, "l.tags ?| array["+strings.Join(placeholders, ",")+"]")
	}
	if !f.StartDate.IsZero() {
		conds = append(conds, "l.created_at >= "+arg(f.StartDate))
	}
	if !f.EndDate.IsZero() {
		conds = append(conds, "l.created_at <= "+arg(f.EndDate))
	}
	if f.AssigneeID != "" {
		conds = append(conds, "l.assigned_to = "+arg(f.AssigneeID))
	}
	if f.Search != "" {
		pattern := arg("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf("(l.name ilike %s or l.email ilike %s or l.phone ilike %s)", pattern, pattern, pattern))
	}

	query := leadSelect
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by l.created_at desc"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*crm.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, lead)
	}
	return res, rows.Err()
}

// escapeLike neutralizes ILIKE metacharacters so search terms match
// literally. Postgres treats backslash as the escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *LeadStore) Update(ctx context.Context, lead *crm.Lead) error {
	tags, err := json.Marshal(lead.Tags)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		update leads
		set name=$2, email=$3, phone=$4, source=$5, status=$6, tags=$7, notes=$8,
		    assigned_to=nullif($9,''), updated_at=$10
		where id=$1
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Source, string(lead.Status),
		tags, lead.Notes, lead.AssignedTo, lead.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *LeadStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `delete from leads where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *LeadStore) DistinctTags(ctx context.Context, scopeAssignee string) ([]string, error) {
	query := `
		select distinct t.tag
		from leads l
		cross join lateral jsonb_array_elements_text(l.tags) as t(tag)
	`
	var args []any
	if scopeAssignee != "" {
		query += ` where l.assigned_to = $1`
		args = append(args, scopeAssignee)
	}
	query += ` order by t.tag asc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *LeadStore) CountByStatus(ctx context.Context, scopeAssignee string) (crm.StatusCounts, error) {
	query := `select l.status, count(*) from leads l`
	var args []any
	if scopeAssignee != "" {
		query += ` where l.assigned_to = $1`
		args = append(args, scopeAssignee)
	}
	query += ` group by l.status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return crm.StatusCounts{}, err
	}
	defer rows.Close()

	var counts crm.StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return crm.StatusCounts{}, err
		}
		counts.Total += n
		switch crm.Status(status) {
		case crm.StatusNew:
			counts.New = n
		case crm.StatusContacted:
			counts.Contacted = n
		case crm.StatusQualified:
			counts.Qualified = n
		case crm.StatusLost:
			counts.Lost = n
		case crm.StatusWon:
			counts.Won = n
		}
	}
	return counts, rows.Err()
}

func scanLead(row rowScanner) (*crm.Lead, error) {
	var lead crm.Lead
	var status string
	var tags []byte
	var assignedTo, assigneeName, assigneeEmail sql.NullString
	err := row.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Source, &status,
		&tags, &lead.Notes, &assignedTo, &lead.CreatedAt, &lead.UpdatedAt,
		&assigneeName, &assigneeEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crm.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lead.Status = crm.Status(status)
	lead.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &lead.Tags); err != nil {
			return nil, err
		}
	}
	if assignedTo.Valid {
		lead.AssignedTo = assignedTo.String
		// The assignee join misses when the referenced user was deleted;
		// the dangling reference stays and the resolved view is omitted.
		if assigneeName.Valid {
			lead.Assignee = &crm.Assignee{
				ID:    assignedTo.String,
				Name:  assigneeName.String,
				Email: assigneeEmail.String,
			}
		}
	}
	return &lead, nil
}
