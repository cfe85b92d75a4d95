package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_AttachesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := chimiddleware.RequestID(Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/squads", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/api/v1/squads"`)
	assert.Contains(t, out, `"request_id"`)
	assert.Contains(t, out, "handled")
}

func TestSession_ResolvesFromHeader(t *testing.T) {
	registry, err := access.NewRegistry(8)
	require.NoError(t, err)
	registry.Get("alice").SetRole(domain.RoleViewer)

	var seen *access.Session
	handler := Session(registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = access.FromContext(r.Context())
	}))

	tests := []struct {
		name         string
		header       string
		expectedID   string
		expectedRole domain.Role
	}{
		{name: "named session", header: "alice", expectedID: "alice", expectedRole: domain.RoleViewer},
		{name: "default session", header: "", expectedID: access.DefaultSessionID, expectedRole: access.DefaultRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotNil(t, seen)
			assert.Equal(t, tt.expectedID, seen.ID())
			assert.Equal(t, tt.expectedRole, seen.Role())
			assert.Equal(t, tt.expectedID, rec.Header().Get(SessionHeader))
		})
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Get("/squads/{squad}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/squads/1", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
