package mysql

import (
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
)

// notFound maps an empty result to the domain sentinel
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// utc keeps DATETIME values zone-free; zero times fall back to now
func utc(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}
