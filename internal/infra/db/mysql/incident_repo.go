package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Save insert incident record
func (r *IncidentRepository) Save(ctx context.Context, inc *domain.Incident) error {
	const q = `
INSERT INTO incidents
(id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at)
VALUES (?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		inc.ID, inc.LogID, inc.Summary, inc.RootCause, inc.SuggestedFix,
		inc.Runtime, inc.Confidence, utc(inc.CreatedAt),
	)
	return err
}

func (r *IncidentRepository) Get(ctx context.Context, id domain.IncidentID) (*domain.Incident, error) {
	const q = `
SELECT id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at
FROM incidents WHERE id=? LIMIT 1`
	var inc domain.Incident
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&inc.ID, &inc.LogID, &inc.Summary, &inc.RootCause, &inc.SuggestedFix,
		&inc.Runtime, &inc.Confidence, &inc.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	inc.CreatedAt = inc.CreatedAt.UTC()
	return &inc, nil
}

// List newest first, limit <= 0 returns every row
func (r *IncidentRepository) List(ctx context.Context, limit int) ([]*domain.Incident, error) {
	q := `
SELECT id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at
FROM incidents ORDER BY created_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Incident{}
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(
			&inc.ID, &inc.LogID, &inc.Summary, &inc.RootCause, &inc.SuggestedFix,
			&inc.Runtime, &inc.Confidence, &inc.CreatedAt,
		); err != nil {
			return nil, err
		}
		inc.CreatedAt = inc.CreatedAt.UTC()
		out = append(out, &inc)
	}
	return out, rows.Err()
}

// Delete leaves the referenced log in place
func (r *IncidentRepository) Delete(ctx context.Context, id domain.IncidentID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id=?`, id)
	return err
}
