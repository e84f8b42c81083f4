package pg

import (
	"context"
	"database/sql"

	"github.com/devang127/lead-management/internal/audit"
)

// AuditStore implements audit.Store on PostgreSQL. Entries are append-only;
// no update or delete statement exists here.
type AuditStore struct {
	db *sql.DB
}

var _ audit.Store = (*AuditStore)(nil)

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, entry *audit.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into activity_logs(id, actor_id, action, created_at)
		values ($1,$2,$3,$4)
	`, entry.ID, entry.ActorID, entry.Action, entry.CreatedAt)
	return err
}

func (s *AuditStore) List(ctx context.Context) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select a.id, a.actor_id, coalesce(u.email, ''), a.action, a.created_at
		from activity_logs a
		left join users u on u.id = a.actor_id
		order by a.created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorEmail, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
