package domain

import "time"

type AggregationUnit string

const (
	AggregationDaily   AggregationUnit = "daily"
	AggregationWeekly  AggregationUnit = "weekly"
	AggregationMonthly AggregationUnit = "monthly"
)

const (
	DateLayout            = "2006-01-02"
	DefaultFilterLookback = 90 // days
)

// FilterPreferences are the dashboard filters a user chose for one view.
// They are a convenience cache and can be reset without data loss.
type FilterPreferences struct {
	Start         string // YYYY-MM-DD
	End           string // YYYY-MM-DD
	Unit          AggregationUnit
	CloudAccounts []string
	ProjectTags   []string
}

func DefaultFilterPreferences(now time.Time) FilterPreferences {
	return FilterPreferences{
		Start:         now.AddDate(0, 0, -DefaultFilterLookback).Format(DateLayout),
		End:           now.Format(DateLayout),
		Unit:          AggregationDaily,
		CloudAccounts: []string{},
		ProjectTags:   []string{},
	}
}
