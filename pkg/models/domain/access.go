package domain

import "fmt"

type Role string

const (
	RoleSquadLead Role = "squad_lead"
	RoleFinOps    Role = "finops"
	RoleViewer    Role = "viewer"
)

type Action string

const (
	ActionWrite      Action = "write"
	ActionAnnotate   Action = "annotate"
	ActionChargeback Action = "chargeback"
	ActionAdmin      Action = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSquadLead, RoleFinOps, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionWrite, ActionAnnotate, ActionChargeback, ActionAdmin:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, s)
}
