package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Save insert raw log
func (r *LogRepository) Save(ctx context.Context, l *domain.Log) error {
	const q = `INSERT INTO logs (id, raw_text, created_at) VALUES (?,?,?)`
	_, err := r.db.ExecContext(ctx, q, l.ID, l.RawText, utc(l.CreatedAt))
	return err
}

func (r *LogRepository) Get(ctx context.Context, id domain.LogID) (*domain.Log, error) {
	const q = `SELECT id, raw_text, created_at FROM logs WHERE id=? LIMIT 1`
	var l domain.Log
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.RawText, &l.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}
