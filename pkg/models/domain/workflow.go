package domain

import "time"

type Annotation struct {
	ID        string
	SquadID   string
	RecordID  string // free-form reference to a charge, anomaly or any other record
	Text      string
	User      string
	CreatedAt time.Time
}

type ChargebackStatus string

const (
	ChargebackStatusPending  ChargebackStatus = "pending"
	ChargebackStatusApproved ChargebackStatus = "approved"
	ChargebackStatusRejected ChargebackStatus = "rejected"
)

type Chargeback struct {
	ID        string
	SquadID   string
	Amount    float64
	Reason    string
	Tickets   []string // JIRA-1234
	Status    ChargebackStatus
	CreatedAt time.Time
}

func (c Chargeback) Clone() Chargeback {
	c.Tickets = append([]string(nil), c.Tickets...)
	return c
}

type ActivityType string

const (
	ActivityAnnotation    ActivityType = "annotation"
	ActivityChargeback    ActivityType = "chargeback"
	ActivityGovernance    ActivityType = "governance"
	ActivityAnomalyStatus ActivityType = "anomaly_status"
	ActivityIntegration   ActivityType = "integration"
)

type Activity struct {
	ID        string
	Type      ActivityType
	User      string
	Action    string
	Details   string
	CreatedAt time.Time
}
