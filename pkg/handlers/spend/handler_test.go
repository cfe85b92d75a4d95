package spend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListSquads() []domain.Squad {
	args := m.Called()
	return args.Get(0).([]domain.Squad)
}

func (m *mockCatalog) ListCharges(squadID string) []domain.Charge {
	args := m.Called(squadID)
	return args.Get(0).([]domain.Charge)
}

type mockFinancials struct {
	mock.Mock
}

func (m *mockFinancials) Get(ctx context.Context, squadID string, start, end time.Time) (domain.Financials, error) {
	args := m.Called(ctx, squadID, start, end)
	return args.Get(0).(domain.Financials), args.Error(1)
}

type mockChargeEditor struct {
	mock.Mock
}

func (m *mockChargeEditor) UpdateChargeCostCenter(ctx context.Context, chargeID, costCenter string) (domain.Charge, error) {
	args := m.Called(ctx, chargeID, costCenter)
	return args.Get(0).(domain.Charge), args.Error(1)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListSquads(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("ListSquads").Return([]domain.Squad{
		{ID: "1", Name: "Platform Team", Owner: "Sarah Chen", Budget: 120000},
	})
	handler := NewHandler(catalog, new(mockFinancials), new(mockChargeEditor))

	rec := httptest.NewRecorder()
	handler.ListSquads(rec, httptest.NewRequest(http.MethodGet, "/api/v1/squads", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []api.Squad
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []api.Squad{{ID: "1", Name: "Platform Team", Owner: "Sarah Chen", Budget: 120000}}, body)
}

func TestListCharges_FiltersBySquad(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("ListCharges", "2").Return([]domain.Charge{{ID: "charge-3", SquadID: "2", Tags: []string{"prod"}}})
	handler := NewHandler(catalog, new(mockFinancials), new(mockChargeEditor))

	rec := httptest.NewRecorder()
	handler.ListCharges(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charges?squad=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []api.Charge
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "charge-3", body[0].ID)
	catalog.AssertExpectations(t)
}

func TestGetFinancials(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		squad          string
		query          string
		setupMock      func(*mockFinancials)
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "with bounds",
			squad: "1",
			query: "?from=2025-06-01&to=2025-06-07",
			setupMock: func(m *mockFinancials) {
				m.On("Get", mock.Anything, "1", from, to).Return(domain.Financials{
					SquadID:  "1",
					Period:   domain.TimePeriod{Start: from, End: to},
					Currency: "USD",
					TimeSeries: []domain.TimeSeriesPoint{
						{Date: from, Actual: 4100, Forecast: 4000, Budget: 4600},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "default bounds",
			squad: "2",
			setupMock: func(m *mockFinancials) {
				m.On("Get", mock.Anything, "2", time.Time{}, time.Time{}).Return(domain.Financials{SquadID: "2"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid from",
			squad:          "1",
			query:          "?from=invalid-date",
			setupMock:      func(m *mockFinancials) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid argument: invalid 'from' date format. Expected format: YYYY-MM-DD",
		},
		{
			name:           "invalid to",
			squad:          "1",
			query:          "?to=06/07/2025",
			setupMock:      func(m *mockFinancials) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid argument: invalid 'to' date format. Expected format: YYYY-MM-DD",
		},
		{
			name:  "unknown squad",
			squad: "99",
			setupMock: func(m *mockFinancials) {
				m.On("Get", mock.Anything, "99", time.Time{}, time.Time{}).
					Return(domain.Financials{}, fmt.Errorf("squad 99: %w", domain.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "squad 99: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := new(mockFinancials)
			tt.setupMock(reports)
			handler := NewHandler(new(mockCatalog), reports, new(mockChargeEditor))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/squads/"+tt.squad+"/financials"+tt.query, nil)
			req = withURLParam(req, "squad", tt.squad)
			rec := httptest.NewRecorder()
			handler.GetFinancials(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var body api.Error
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}
			var body api.Financials
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.squad, body.SquadID)
			reports.AssertExpectations(t)
		})
	}
}

func TestUpdateCostCenter(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockChargeEditor)
		expectedStatus int
	}{
		{
			name: "updated",
			body: `{"costCenter":"CC-9000"}`,
			setupMock: func(m *mockChargeEditor) {
				m.On("UpdateChargeCostCenter", mock.Anything, "charge-1", "CC-9000").
					Return(domain.Charge{ID: "charge-1", CostCenter: "CC-9000"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "denied",
			body: `{"costCenter":"CC-9000"}`,
			setupMock: func(m *mockChargeEditor) {
				m.On("UpdateChargeCostCenter", mock.Anything, "charge-1", "CC-9000").
					Return(domain.Charge{}, domain.ErrPermissionDenied)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "malformed body",
			body:           `{"costCenter":`,
			setupMock:      func(m *mockChargeEditor) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor := new(mockChargeEditor)
			tt.setupMock(editor)
			handler := NewHandler(new(mockCatalog), new(mockFinancials), editor)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/charges/charge-1/cost-center", strings.NewReader(tt.body))
			req = withURLParam(req, "id", "charge-1")
			rec := httptest.NewRecorder()
			handler.UpdateCostCenter(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			editor.AssertExpectations(t)
		})
	}
}
