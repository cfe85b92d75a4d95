package domain

type Charge struct {
	ID         string
	SquadID    string
	Service    string  // EC2 Instances
	Amount     float64 // USD
	Timestamp  string  // "2 hours ago"
	Account    string  // prod-us-east-1
	CostCenter string  // Platform-001
	Tags       []string
	Resource   string // i-0abc123
}

func (c Charge) Clone() Charge {
	c.Tags = append([]string(nil), c.Tags...)
	return c
}
