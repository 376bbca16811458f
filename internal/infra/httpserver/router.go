package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appincidents "github.com/bryanwahyu/incident-lens/internal/application/incidents"
	"github.com/bryanwahyu/incident-lens/internal/domain/ai"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/logger"
	"github.com/bryanwahyu/incident-lens/internal/middleware"
)

// Options configures the HTTP surface around the incident service.
type Options struct {
	APIKeys        map[string]string // key -> client name; empty disables auth
	CORSOrigins    []string
	RateLimit      float64 // analyze requests per second per client; 0 disables
	RateBurst      int
	MaxBodyBytes   int64 // analyze body cap; 0 means 2 MiB
	HealthCheckers map[string]middleware.HealthChecker
	// Stop ends background goroutines (rate limiter sweep).
	Stop <-chan struct{}
}

type Router struct {
	svc     *appincidents.Service
	maxBody int64
}

func NewRouter(svc *appincidents.Service, opts Options) http.Handler {
	r := &Router{svc: svc, maxBody: opts.MaxBodyBytes}
	if r.maxBody <= 0 {
		r.maxBody = 2 << 20
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Group(func(g chi.Router) {
			if opts.RateLimit > 0 {
				g.Use(middleware.RateLimitMiddleware(opts.RateLimit, opts.RateBurst, opts.Stop))
			}
			g.Post("/analyze", r.wrap(r.handleAnalyze))
		})
		rt.Get("/incidents", r.wrap(r.handleList))
		rt.Get("/incidents/{id}", r.wrap(r.handleGet))
		rt.Delete("/incidents/{id}", r.wrap(r.handleDelete))
		rt.Get("/logs/{id}", r.wrap(r.handleGetLog))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// notFoundError carries the 404 text for the resource that was looked up
type notFoundError struct{ msg string }

func (e notFoundError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, msg := statusFor(err)
			writeJSON(w, status, map[string]string{"error": msg})
		}
	}
}

// statusFor maps a service error to an HTTP status and a caller-safe message.
// Storage diagnostics are logged by the service and never returned.
func statusFor(err error) (int, string) {
	var nf notFoundError
	var ve *domain.ValidationError
	var pe *ai.ProviderError
	var se *domain.StorageError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.msg
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, ai.ErrConfiguration):
		return http.StatusInternalServerError, ai.ErrConfiguration.Error()
	case errors.As(err, &pe):
		switch {
		case pe.StatusCode > 0:
			return http.StatusInternalServerError, pe.Error()
		case errors.Is(pe, ai.ErrEmptyCompletion):
			return http.StatusInternalServerError, "Failed to analyze logs - no response from AI"
		default:
			return http.StatusInternalServerError, "Analysis failed: AI service unreachable"
		}
	case errors.As(err, &se):
		return http.StatusInternalServerError, se.PublicMessage()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /api/analyze
// Body: {"logText": "<raw deployment log>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		LogText string `json:"logText"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, r.maxBody))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &domain.ValidationError{Field: "logText", Message: "Request body too large"}
		}
		return &domain.ValidationError{Field: "body", Message: "Invalid JSON body"}
	}

	inc, err := r.svc.Analyze(req.Context(), body.LogText)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			middleware.IncrementAnalyses()
			middleware.IncrementAnalysesFailed()
			if errors.Is(err, ai.ErrProvider) {
				middleware.IncrementProviderFailures()
			}
		}
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusOK, map[string]any{"incident": inc})
}

// GET /api/incidents?limit=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ValidateLimit(req.URL.Query().Get("limit"))
	if err != nil {
		return &domain.ValidationError{Field: "limit", Message: err.Error()}
	}
	list, err := r.svc.List(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"incidents": list})
}

// GET /api/incidents/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if middleware.ValidateID(id) != nil {
		return notFoundError{"Incident not found"}
	}
	inc, l, err := r.svc.Get(req.Context(), domain.IncidentID(id))
	if errors.Is(err, domain.ErrNotFound) {
		return notFoundError{"Incident not found"}
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"incident": inc, "log": l})
}

// DELETE /api/incidents/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if middleware.ValidateID(id) != nil {
		// nothing with this id can exist
		logger.WithComponent("http").WithField("id", id).Debug("delete with malformed id")
		return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
	if err := r.svc.Delete(req.Context(), domain.IncidentID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /api/logs/{id}
func (r *Router) handleGetLog(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if middleware.ValidateID(id) != nil {
		return notFoundError{"Log not found"}
	}
	l, err := r.svc.GetLog(req.Context(), domain.LogID(id))
	if errors.Is(err, domain.ErrNotFound) {
		return notFoundError{"Log not found"}
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"log": l})
}
