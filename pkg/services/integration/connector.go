package integration

import (
	"context"
	"errors"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

// ErrConnectFailed marks a connect attempt that failed in a way the user can retry,
// such as rejected credentials.
var ErrConnectFailed = errors.New("authentication failed")

const (
	ConnectedMessage = "Integration connected successfully"
	FailedMessage    = "Failed to authenticate. Please check credentials."
)

// Connector talks to the external system behind an integration.
type Connector interface {
	// Connect verifies that the integration's data source is reachable and authorized.
	Connect(ctx context.Context, in domain.Integration) error
	// Sync pulls new records and returns how many were processed.
	Sync(ctx context.Context, in domain.Integration) (int64, error)
}
