package api

import "time"

type Squad struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Owner  string  `json:"owner"`
	Budget float64 `json:"budget"`
}

type Charge struct {
	ID         string   `json:"id"`
	SquadID    string   `json:"squadId"`
	Service    string   `json:"service"`
	Amount     float64  `json:"amount"`
	Timestamp  string   `json:"timestamp"`
	Account    string   `json:"account"`
	CostCenter string   `json:"costCenter"`
	Tags       []string `json:"tags"`
	Resource   string   `json:"resource"`
}

type CostCenterUpdate struct {
	CostCenter string `json:"costCenter"`
}

type TimeSeriesPoint struct {
	Date     string  `json:"date"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast"`
	Budget   float64 `json:"budget"`
}

type BreakdownItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type SpendBreakdown struct {
	CostCenter []BreakdownItem `json:"costCenter"`
	Service    []BreakdownItem `json:"service"`
}

type SpendSummary struct {
	CurrentMonth float64 `json:"currentMonth"`
	Forecast     float64 `json:"forecast"`
	AvgDaily     float64 `json:"avgDaily"`
}

type Financials struct {
	SquadID    string            `json:"squadId"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Currency   string            `json:"currency"`
	TimeSeries []TimeSeriesPoint `json:"timeSeries"`
	Breakdown  SpendBreakdown    `json:"breakdown"`
	Summary    SpendSummary      `json:"summary"`
}
