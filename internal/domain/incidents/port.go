package incidents

import "context"

// LogRepository port for raw logs. Logs are insert-only.
type LogRepository interface {
	Save(ctx context.Context, l *Log) error
	Get(ctx context.Context, id LogID) (*Log, error)
}

// IncidentRepository port (interface untuk persistence)
type IncidentRepository interface {
	Save(ctx context.Context, i *Incident) error
	Get(ctx context.Context, id IncidentID) (*Incident, error)
	// List returns incidents newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*Incident, error)
	// Delete removes the incident only. The referenced log is kept.
	Delete(ctx context.Context, id IncidentID) error
}

// LogArchive port for copying raw logs to object storage.
type LogArchive interface {
	ArchiveLog(ctx context.Context, l *Log) (string, error)
}
