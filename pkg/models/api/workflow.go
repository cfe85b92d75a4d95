package api

import "time"

type AnnotationRequest struct {
	SquadID  string `json:"squadId"`
	RecordID string `json:"recordId"`
	Text     string `json:"text"`
	User     string `json:"user"`
}

type Annotation struct {
	ID        string    `json:"id"`
	SquadID   string    `json:"squadId"`
	RecordID  string    `json:"recordId"`
	Text      string    `json:"text"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

type ChargebackRequest struct {
	SquadID string   `json:"squadId"`
	Amount  float64  `json:"amount"`
	Reason  string   `json:"reason"`
	Tickets []string `json:"tickets"`
}

type Chargeback struct {
	ID        string    `json:"id"`
	SquadID   string    `json:"squadId"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Tickets   []string  `json:"tickets"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
