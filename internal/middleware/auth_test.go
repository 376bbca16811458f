package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAuth(t *testing.T) {
	var seen string
	h := APIKeyAuth(map[string]string{"secret-1": "ci-bot"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClientFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		path     string
		header   string
		value    string
		expected int
		client   string
	}{
		{"bearer", "/api/incidents", "Authorization", "Bearer secret-1", http.StatusOK, "ci-bot"},
		{"x-api-key", "/api/incidents", "X-API-Key", "secret-1", http.StatusOK, "ci-bot"},
		{"missing", "/api/incidents", "", "", http.StatusUnauthorized, ""},
		{"wrong", "/api/incidents", "Authorization", "Bearer nope", http.StatusUnauthorized, ""},
		{"health open", "/health/live", "", "", http.StatusOK, ""},
		{"metrics open", "/metrics", "", "", http.StatusOK, ""},
	}
	for _, test := range tests {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, test.path, nil)
		if test.header != "" {
			req.Header.Set(test.header, test.value)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != test.expected {
			t.Errorf("For input '%s', expected '%d', got '%d'", test.name, test.expected, rec.Code)
		}
		if seen != test.client {
			t.Errorf("For input '%s', expected client '%s', got '%s'", test.name, test.client, seen)
		}
	}
}

func TestAPIKeyAuth_DisabledWithoutKeys(t *testing.T) {
	h := APIKeyAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/incidents", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected auth to be disabled, got %d", rec.Code)
	}
}
