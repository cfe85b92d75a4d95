package financials

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 9, 20, 14, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (memory.Store, Service) {
	t.Helper()
	st, err := memory.NewDefaultStore()
	require.NoError(t, err)
	svc, err := NewService(st, clockwork.NewFakeClockAt(today))
	require.NoError(t, err)
	return st, svc
}

func TestService_FullWindow(t *testing.T) {
	_, svc := setupService(t)

	f, err := svc.Get(context.Background(), "squad-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, f.TimeSeries, SeriesDays)

	assert.Equal(t, "2025-06-23", f.TimeSeries[0].Date.Format(domain.DateLayout))
	assert.Equal(t, "2025-09-20", f.TimeSeries[SeriesDays-1].Date.Format(domain.DateLayout))
	assert.Equal(t, DefaultCurrency, f.Currency)

	for _, p := range f.TimeSeries {
		assert.Equal(t, float64(4600), p.Budget)
		assert.GreaterOrEqual(t, p.Forecast, p.Actual)
		assert.GreaterOrEqual(t, p.Actual, 4000*(1-maxVariance)-1)
		assert.LessOrEqual(t, p.Actual, 4000*(1+maxVariance+maxTrend)+1)
	}
}

func TestService_FiltersInclusiveRange(t *testing.T) {
	_, svc := setupService(t)

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 10, 23, 0, 0, 0, time.UTC)
	f, err := svc.Get(context.Background(), "squad-2", start, end)
	require.NoError(t, err)

	require.Len(t, f.TimeSeries, 10)
	assert.Equal(t, "2025-09-01", f.TimeSeries[0].Date.Format(domain.DateLayout))
	assert.Equal(t, "2025-09-10", f.TimeSeries[9].Date.Format(domain.DateLayout))
}

func TestService_StableWithinADay(t *testing.T) {
	_, svc := setupService(t)

	a, err := svc.Get(context.Background(), "squad-3", time.Time{}, time.Time{})
	require.NoError(t, err)
	b, err := svc.Get(context.Background(), "squad-3", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, a.TimeSeries, b.TimeSeries)
}

func TestService_Breakdown(t *testing.T) {
	_, svc := setupService(t)

	f, err := svc.Get(context.Background(), "squad-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, []domain.BreakdownItem{
		{Name: "Platform-001", Value: 12500 + 8900 + 1800},
		{Name: "Platform-002", Value: 3200 + 2100},
	}, f.Breakdown.CostCenter)
	assert.Equal(t, []domain.BreakdownItem{
		{Name: "Compute", Value: 12500 + 1800},
		{Name: "Database", Value: 8900},
		{Name: "Storage", Value: 3200},
		{Name: "Network", Value: 2100},
	}, f.Breakdown.Service)

	empty, err := svc.Get(context.Background(), "squad-4", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, empty.Breakdown.CostCenter)
}

func TestService_Summary(t *testing.T) {
	_, svc := setupService(t)

	f, err := svc.Get(context.Background(), "squad-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	var september float64
	for _, p := range f.TimeSeries {
		if p.Date.Month() == time.September {
			september += p.Actual
		}
	}
	assert.Equal(t, september, f.Summary.CurrentMonth)
	assert.Greater(t, f.Summary.AvgDaily, 0.0)
	assert.Equal(t, september+f.Summary.AvgDaily*10, f.Summary.Forecast)
}

func TestService_Errors(t *testing.T) {
	_, svc := setupService(t)

	_, err := svc.Get(context.Background(), "squad-9", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "squad-1", today, today.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCategorize(t *testing.T) {
	tests := map[string]string{
		"EC2 Instances":    "Compute",
		"RDS Database":     "Database",
		"S3 ML Storage":    "Storage",
		"CloudFront":       "Network",
		"App Distribution": "Network",
		"Mobile Backend":   "Compute",
		"Support Plan":     "Other",
	}
	for in, want := range tests {
		assert.Equal(t, want, categorize(in), in)
	}
}
