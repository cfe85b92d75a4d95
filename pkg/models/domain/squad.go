package domain

type Squad struct {
	ID     string
	Name   string
	Owner  string
	Budget float64 // monthly, USD
}
