package postgres

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

type IncidentRepository struct{ db *sql.DB }

func NewIncidentRepository(db *sql.DB) *IncidentRepository { return &IncidentRepository{db: db} }

func (r *IncidentRepository) Save(ctx context.Context, inc *domain.Incident) error {
	const q = `
INSERT INTO incidents
(id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, q,
		string(inc.ID), string(inc.LogID),
		inc.Summary, inc.RootCause, inc.SuggestedFix,
		string(inc.Runtime), string(inc.Confidence),
		inc.CreatedAt.UTC(),
	)
	return err
}

func (r *IncidentRepository) Get(ctx context.Context, id domain.IncidentID) (*domain.Incident, error) {
	const q = `
SELECT id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at
FROM incidents WHERE id=$1 LIMIT 1`
	var inc domain.Incident
	if err := r.db.QueryRowContext(ctx, q, string(id)).Scan(
		&inc.ID, &inc.LogID, &inc.Summary, &inc.RootCause, &inc.SuggestedFix,
		&inc.Runtime, &inc.Confidence, &inc.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	inc.CreatedAt = inc.CreatedAt.UTC()
	return &inc, nil
}

func (r *IncidentRepository) List(ctx context.Context, limit int) ([]*domain.Incident, error) {
	q := `
SELECT id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at
FROM incidents ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying incidents: %w", err)
	}
	defer rows.Close()

	out := []*domain.Incident{}
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(
			&inc.ID, &inc.LogID, &inc.Summary, &inc.RootCause, &inc.SuggestedFix,
			&inc.Runtime, &inc.Confidence, &inc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		inc.CreatedAt = inc.CreatedAt.UTC()
		out = append(out, &inc)
	}
	return out, rows.Err()
}

func (r *IncidentRepository) Delete(ctx context.Context, id domain.IncidentID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id=$1`, string(id))
	return err
}
