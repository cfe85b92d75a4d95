package commands

import (
	"context"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
)

// API is the part of the dashboard client the commands use.
type API interface {
	ListSquads(ctx context.Context) ([]api.Squad, error)
	ListAnomalies(ctx context.Context, squadID string) ([]api.Anomaly, error)
	SetAnomalyStatus(ctx context.Context, id, status string) (api.Anomaly, error)
	ListCharges(ctx context.Context, squadID string) ([]api.Charge, error)
	UpdateCostCenter(ctx context.Context, chargeID, costCenter string) (api.Charge, error)
	ListIntegrations(ctx context.Context) ([]api.Integration, error)
	ConnectIntegration(ctx context.Context, id string) (api.ConnectResult, error)
	RefreshIntegration(ctx context.Context, id string) error
	Session(ctx context.Context) (api.Session, error)
	SetRole(ctx context.Context, role string) (api.Session, error)
	Overview(ctx context.Context) (api.Overview, error)
}

// Provider resolves the client once flags are parsed.
type Provider func() (API, error)
