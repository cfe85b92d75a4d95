package domain

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for sorting and highlighting, higher is more severe.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

func (s Severity) Valid() bool {
	return s.Rank() > 0
}

type AnomalyStatus string

const (
	AnomalyStatusOpen         AnomalyStatus = "open"
	AnomalyStatusAcknowledged AnomalyStatus = "acknowledged"
	AnomalyStatusResolved     AnomalyStatus = "resolved"
)

func (s AnomalyStatus) Valid() bool {
	switch s {
	case AnomalyStatusOpen, AnomalyStatusAcknowledged, AnomalyStatusResolved:
		return true
	}
	return false
}

type Evidence struct {
	Name string
	URL  string
}

type Anomaly struct {
	ID          string
	SquadID     string
	Title       string
	Description string
	Severity    Severity
	Confidence  int     // percent, 0-100
	Impact      float64 // USD
	Detected    string  // "2 hours ago"
	Status      AnomalyStatus
	RootCause   []string
	Evidence    []Evidence
}

func (a Anomaly) Clone() Anomaly {
	a.RootCause = append([]string(nil), a.RootCause...)
	a.Evidence = append([]Evidence(nil), a.Evidence...)
	return a
}
