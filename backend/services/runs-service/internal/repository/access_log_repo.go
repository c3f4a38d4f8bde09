package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hotfire/backend/services/runs-service/internal/models"
)

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AccessLogRepository stores who read which run.
type AccessLogRepository struct {
	db DBTX
}

// NewAccessLogRepository ctor.
func NewAccessLogRepository(db DBTX) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

// EnsureSchema creates the log table when missing.
func (r *AccessLogRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS run_access_log (
			id          BIGSERIAL PRIMARY KEY,
			action      TEXT NOT NULL,
			run         TEXT NOT NULL DEFAULT '',
			subject     TEXT NOT NULL DEFAULT '',
			remote_addr TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

// Save stores one access event.
func (r *AccessLogRepository) Save(ctx context.Context, event models.AccessEvent) error {
	const query = `
		INSERT INTO run_access_log (action, run, subject, remote_addr)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, event.Action, event.Run, event.Subject, event.RemoteAddr)
	return err
}

// Recent returns the latest events, newest first.
func (r *AccessLogRepository) Recent(ctx context.Context, limit int) ([]models.AccessEvent, error) {
	const query = `
		SELECT id, action, run, subject, remote_addr, created_at
		FROM run_access_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.AccessEvent, 0, limit)
	for rows.Next() {
		var e models.AccessEvent
		if err := rows.Scan(&e.ID, &e.Action, &e.Run, &e.Subject, &e.RemoteAddr, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
