package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"permission", fmt.Errorf("wrap: %w", domain.ErrPermissionDenied), http.StatusForbidden},
		{"not found", fmt.Errorf("anomaly x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"argument", domain.ErrInvalidArgument, http.StatusBadRequest},
		{"rate limited", fmt.Errorf("connect int-2: %w", domain.ErrRateLimited), http.StatusTooManyRequests},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.err))
		})
	}
}

func TestError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(rec, req, errors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body api.Error
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestError_ExposesDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(rec, req, fmt.Errorf("anomaly anom-9: %w", domain.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body api.Error
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "anomaly anom-9: not found", body.Error)
}

func TestDecode(t *testing.T) {
	var update api.StatusUpdate
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"resolved"}`))
	require.NoError(t, Decode(req, &update))
	assert.Equal(t, "resolved", update.Status)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":`))
	err := Decode(req, &update)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"unknown":1}`))
	assert.ErrorIs(t, Decode(req, &update), domain.ErrInvalidArgument)
}
