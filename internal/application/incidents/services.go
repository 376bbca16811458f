package incidents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/incident-lens/internal/application"
	"github.com/bryanwahyu/incident-lens/internal/domain/ai"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/logger"
)

// Service implements the analysis pipeline and incident use-cases.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	Logs      domain.LogRepository
	Incidents domain.IncidentRepository
	AI        ai.Client
	Clock     application.Clock

	// Archive is optional. When set, raw logs are copied to object storage
	// after they are saved; failures are logged and do not stop the pipeline.
	Archive domain.LogArchive

	// MaxLogBytes rejects larger inputs when > 0.
	MaxLogBytes int

	// NewID generates identifiers; uuid.NewString when nil.
	NewID func() string

	// OnOrphan, when set, is called with the id of a log that was saved but will
	// never get an incident because a later step failed.
	OnOrphan func(domain.LogID)
}

// Analyze runs one log through the pipeline: validate, save the log, ask the provider,
// parse the reply, save the incident. Any failure aborts the remaining steps. A log saved
// before a later failure is kept as an orphan.
func (s *Service) Analyze(ctx context.Context, logText string) (*domain.Incident, error) {
	if strings.TrimSpace(logText) == "" {
		return nil, &domain.ValidationError{Field: "logText", Message: "Log text is required"}
	}
	if s.MaxLogBytes > 0 && len(logText) > s.MaxLogBytes {
		return nil, &domain.ValidationError{
			Field:   "logText",
			Message: fmt.Sprintf("Log text exceeds %d bytes", s.MaxLogBytes),
		}
	}

	// fail before any write when the credential is missing
	if c, ok := s.AI.(ai.Configurable); ok {
		if err := c.CheckConfigured(); err != nil {
			logger.WithError(err, "pipeline").Error("completion provider not configured")
			return nil, err
		}
	}

	entry := &domain.Log{
		ID:        domain.LogID(s.newID()),
		RawText:   logText,
		CreatedAt: s.now(),
	}
	if err := s.Logs.Save(ctx, entry); err != nil {
		logger.WithError(err, "pipeline").Error("failed to save log")
		return nil, &domain.StorageError{Op: "save log", Err: err}
	}
	log := logger.WithLog(string(entry.ID))

	if s.Archive != nil {
		if url, err := s.Archive.ArchiveLog(ctx, entry); err != nil {
			log.WithError(err).Warn("raw log archive failed")
		} else {
			log.WithField("url", url).Debug("raw log archived")
		}
	}

	text, err := s.AI.Complete(ctx, logText)
	if err != nil {
		if !errors.Is(err, ai.ErrConfiguration) && !errors.Is(err, ai.ErrProvider) {
			err = &ai.ProviderError{Err: err}
		}
		log.WithError(err).Error("completion failed, log left without incident")
		s.orphaned(entry.ID)
		return nil, err
	}

	analysis := domain.ParseAnalysis(text)
	incident := domain.NewIncident(domain.IncidentID(s.newID()), entry.ID, analysis, s.now())
	if err := s.Incidents.Save(ctx, incident); err != nil {
		log.WithError(err).Error("failed to save incident, log left without incident")
		s.orphaned(entry.ID)
		return nil, &domain.StorageError{Op: "save incident", Err: err}
	}

	logger.WithIncident(string(incident.ID), string(entry.ID)).
		WithField("runtime", incident.Runtime).
		WithField("confidence", incident.Confidence).
		Info("incident stored")
	return incident, nil
}

// Get returns an incident with its log. The log is nil when its lookup fails.
func (s *Service) Get(ctx context.Context, id domain.IncidentID) (*domain.Incident, *domain.Log, error) {
	inc, err := s.Incidents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		logger.WithError(err, "incidents").Error("failed to fetch incident")
		return nil, nil, &domain.StorageError{Op: "fetch incident", Err: err}
	}

	l, err := s.Logs.Get(ctx, inc.LogID)
	if err != nil {
		logger.WithError(err, "incidents").
			WithField("log_id", inc.LogID).
			Warn("incident log lookup failed")
		return inc, nil, nil
	}
	return inc, l, nil
}

// List returns incidents newest first. limit <= 0 returns all.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Incident, error) {
	list, err := s.Incidents.List(ctx, limit)
	if err != nil {
		logger.WithError(err, "incidents").Error("failed to fetch incidents")
		return nil, &domain.StorageError{Op: "fetch incidents", Err: err}
	}
	if list == nil {
		list = []*domain.Incident{}
	}
	return list, nil
}

// Delete removes an incident. Its log is not deleted.
func (s *Service) Delete(ctx context.Context, id domain.IncidentID) error {
	if err := s.Incidents.Delete(ctx, id); err != nil {
		logger.WithError(err, "incidents").WithField("incident_id", id).Error("failed to delete incident")
		return &domain.StorageError{Op: "delete incident", Err: err}
	}
	logger.Info("incident deleted", map[string]interface{}{"incident_id": id})
	return nil
}

// GetLog returns a raw log by id, including orphans.
func (s *Service) GetLog(ctx context.Context, id domain.LogID) (*domain.Log, error) {
	l, err := s.Logs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.WithError(err, "incidents").Error("failed to fetch log")
		return nil, &domain.StorageError{Op: "fetch log", Err: err}
	}
	return l, nil
}

func (s *Service) orphaned(id domain.LogID) {
	if s.OnOrphan != nil {
		s.OnOrphan(id)
	}
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}
