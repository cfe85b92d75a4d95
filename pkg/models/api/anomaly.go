package api

type Severity string

type Evidence struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Anomaly struct {
	ID          string     `json:"id"`
	SquadID     string     `json:"squadId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	Confidence  int        `json:"confidence"`
	Impact      float64    `json:"impact"`
	Timestamp   string     `json:"timestamp"`
	Status      string     `json:"status"`
	RootCause   []string   `json:"rootCause"`
	Evidence    []Evidence `json:"evidence"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}
