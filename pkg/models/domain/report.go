package domain

import "time"

// TimePeriod represents a closed date range
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

type TimeSeriesPoint struct {
	Date     time.Time
	Actual   float64
	Forecast float64
	Budget   float64
}

type BreakdownItem struct {
	Name  string
	Value float64
}

type SpendBreakdown struct {
	CostCenter []BreakdownItem
	Service    []BreakdownItem
}

type SpendSummary struct {
	CurrentMonth float64
	Forecast     float64
	AvgDaily     float64
}

// Financials represents a squad spend report for a period
type Financials struct {
	SquadID    string
	Period     TimePeriod
	TimeSeries []TimeSeriesPoint
	Breakdown  SpendBreakdown
	Summary    SpendSummary
	Currency   string
}
