package sqlite

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

const incidentColumns = `id, log_id, summary, root_cause, suggested_fix, runtime, confidence, created_at`

func (r *IncidentRepository) Save(ctx context.Context, inc *domain.Incident) error {
	const q = `INSERT INTO incidents (` + incidentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		string(inc.ID), string(inc.LogID),
		inc.Summary, inc.RootCause, inc.SuggestedFix,
		string(inc.Runtime), string(inc.Confidence),
		formatTime(inc.CreatedAt),
	)
	return err
}

func (r *IncidentRepository) Get(ctx context.Context, id domain.IncidentID) (*domain.Incident, error) {
	const q = `SELECT ` + incidentColumns + ` FROM incidents WHERE id = ? LIMIT 1`
	inc, err := scanIncident(r.db.QueryRowContext(ctx, q, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return inc, err
}

// List returns incidents newest first; limit <= 0 means no limit.
func (r *IncidentRepository) List(ctx context.Context, limit int) ([]*domain.Incident, error) {
	q := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// Delete removes one incident. A missing id is not an error; the log row stays.
func (r *IncidentRepository) Delete(ctx context.Context, id domain.IncidentID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id = ?`, string(id))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*domain.Incident, error) {
	var inc domain.Incident
	var created string
	if err := row.Scan(
		&inc.ID, &inc.LogID,
		&inc.Summary, &inc.RootCause, &inc.SuggestedFix,
		&inc.Runtime, &inc.Confidence,
		&created,
	); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	inc.CreatedAt = t
	return &inc, nil
}
