package financials

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/jonboulle/clockwork"
)

const (
	SeriesDays      = 90
	DefaultCurrency = "USD"

	defaultBaseSpend = 3000.0
	budgetHeadroom   = 1.15
	maxVariance      = 0.15
	maxTrend         = 0.2
	maxForecastDrift = 0.1
	averagingWindow  = 30
)

// baseSpend is the typical daily spend per squad.
var baseSpend = map[string]float64{
	"squad-1": 4000,
	"squad-2": 3500,
}

var serviceCategories = []struct {
	category string
	keywords []string
}{
	{"Database", []string{"rds", "database", "dynamo"}},
	{"Storage", []string{"s3", "storage", "ebs"}},
	{"Network", []string{"cloudfront", "distribution", "cdn", "network"}},
	{"Compute", []string{"ec2", "gpu", "lambda", "sagemaker", "backend", "compute", "ecs"}},
}

type Service interface {
	// Get returns the squad's daily spend between start and end inclusive.
	// Zero bounds default to the full generated window.
	Get(ctx context.Context, squadID string, start, end time.Time) (domain.Financials, error)
}

type service struct {
	store memory.Store
	clock clockwork.Clock
}

func NewService(store memory.Store, clock clockwork.Clock) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("data store is nil")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{store: store, clock: clock}, nil
}

func (s *service) Get(_ context.Context, squadID string, start, end time.Time) (domain.Financials, error) {
	if _, err := s.store.GetSquad(squadID); err != nil {
		return domain.Financials{}, err
	}

	today := truncateDay(s.clock.Now())
	series := generateSeries(squadID, today)

	if start.IsZero() {
		start = series[0].Date
	}
	if end.IsZero() {
		end = today
	}
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return domain.Financials{}, fmt.Errorf("%w: start %s is after end %s",
			domain.ErrInvalidArgument, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	filtered := make([]domain.TimeSeriesPoint, 0, len(series))
	for _, p := range series {
		if !p.Date.Before(start) && !p.Date.After(end) {
			filtered = append(filtered, p)
		}
	}

	return domain.Financials{
		SquadID:    squadID,
		Period:     domain.TimePeriod{Start: start, End: end},
		TimeSeries: filtered,
		Breakdown:  s.breakdown(squadID),
		Summary:    summarize(series, today),
		Currency:   DefaultCurrency,
	}, nil
}

// generateSeries produces SeriesDays points ending today. The random source
// is seeded from the squad id so a squad always gets the same shape.
func generateSeries(squadID string, today time.Time) []domain.TimeSeriesPoint {
	h := fnv.New64a()
	_, _ = h.Write([]byte(squadID))
	rnd := rand.New(rand.NewPCG(h.Sum64(), uint64(today.Unix())))

	base, ok := baseSpend[squadID]
	if !ok {
		base = defaultBaseSpend
	}
	budget := math.Round(base * budgetHeadroom)

	series := make([]domain.TimeSeriesPoint, 0, SeriesDays)
	for i := SeriesDays - 1; i >= 0; i-- {
		variance := rnd.Float64()*2*maxVariance - maxVariance
		trend := float64(SeriesDays-i) / SeriesDays * maxTrend
		actual := math.Round(base * (1 + variance + trend))
		forecast := math.Round(actual * (1 + rnd.Float64()*maxForecastDrift))

		series = append(series, domain.TimeSeriesPoint{
			Date:     today.AddDate(0, 0, -i),
			Actual:   actual,
			Forecast: forecast,
			Budget:   budget,
		})
	}
	return series
}

func summarize(series []domain.TimeSeriesPoint, today time.Time) domain.SpendSummary {
	var monthToDate, window float64
	windowDays := 0
	for i, p := range series {
		if p.Date.Year() == today.Year() && p.Date.Month() == today.Month() {
			monthToDate += p.Actual
		}
		if i >= len(series)-averagingWindow {
			window += p.Actual
			windowDays++
		}
	}

	avgDaily := 0.0
	if windowDays > 0 {
		avgDaily = math.Round(window / float64(windowDays))
	}
	daysInMonth := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location()).Day()
	remaining := daysInMonth - today.Day()

	return domain.SpendSummary{
		CurrentMonth: monthToDate,
		Forecast:     monthToDate + avgDaily*float64(remaining),
		AvgDaily:     avgDaily,
	}
}

func (s *service) breakdown(squadID string) domain.SpendBreakdown {
	byCostCenter := map[string]float64{}
	byService := map[string]float64{}
	for _, c := range s.store.ListCharges(squadID) {
		byCostCenter[c.CostCenter] += c.Amount
		byService[categorize(c.Service)] += c.Amount
	}
	return domain.SpendBreakdown{
		CostCenter: sortedItems(byCostCenter),
		Service:    sortedItems(byService),
	}
}

func categorize(service string) string {
	name := strings.ToLower(service)
	for _, c := range serviceCategories {
		for _, kw := range c.keywords {
			if strings.Contains(name, kw) {
				return c.category
			}
		}
	}
	return "Other"
}

func sortedItems(values map[string]float64) []domain.BreakdownItem {
	items := make([]domain.BreakdownItem, 0, len(values))
	for name, v := range values {
		items = append(items, domain.BreakdownItem{Name: name, Value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
