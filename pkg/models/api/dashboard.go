package api

import "time"

type FeedStatus struct {
	LastUpdated *time.Time `json:"lastUpdated"`
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
}

type Overview struct {
	Squads       []Squad               `json:"squads"`
	Anomalies    []Anomaly             `json:"anomalies"`
	Charges      []Charge              `json:"charges"`
	Integrations []Integration         `json:"integrations"`
	OpenImpact   float64               `json:"openImpact"`
	Feeds        map[string]FeedStatus `json:"feeds"`
}
