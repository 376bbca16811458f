package sqlite

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Save inserts a raw log. Logs are immutable, so there is no update path.
func (r *LogRepository) Save(ctx context.Context, l *domain.Log) error {
	const q = `INSERT INTO logs (id, raw_text, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, string(l.ID), l.RawText, formatTime(l.CreatedAt))
	return err
}

func (r *LogRepository) Get(ctx context.Context, id domain.LogID) (*domain.Log, error) {
	const q = `SELECT id, raw_text, created_at FROM logs WHERE id = ? LIMIT 1`

	var l domain.Log
	var created string
	if err := r.db.QueryRowContext(ctx, q, string(id)).Scan(&l.ID, &l.RawText, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = t
	return &l, nil
}
