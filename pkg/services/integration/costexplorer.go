package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// CostAndUsageAPI is the subset of the Cost Explorer client the connector needs.
type CostAndUsageAPI interface {
	GetCostAndUsage(
		ctx context.Context,
		params *costexplorer.GetCostAndUsageInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostExplorer checks AWS Cost Explorer for CloudBilling integrations and
// delegates every other data source to a fallback connector.
type CostExplorer struct {
	client   CostAndUsageAPI
	fallback Connector
	clock    clockwork.Clock
}

func NewCostExplorer(client CostAndUsageAPI, fallback Connector, clock clockwork.Clock) (*CostExplorer, error) {
	if client == nil {
		return nil, fmt.Errorf("cost explorer client is nil")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback connector is nil")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CostExplorer{client: client, fallback: fallback, clock: clock}, nil
}

// CostExplorerFactory builds a connector from the named shared AWS profile.
func CostExplorerFactory(ctx context.Context, profile string, fallback Connector) (*CostExplorer, error) {
	cfg, err := LoadAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	return NewCostExplorer(costexplorer.NewFromConfig(*cfg), fallback, nil)
}

func (c *CostExplorer) Connect(ctx context.Context, in domain.Integration) error {
	if in.DataSource != domain.DataSourceCloudBilling {
		return c.fallback.Connect(ctx, in)
	}
	if _, err := c.query(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("integration", in.ID).Msg("cost explorer query failed")
		if isAuthError(err) {
			return fmt.Errorf("%w: %s", ErrConnectFailed, err.Error())
		}
		return err
	}
	return nil
}

func (c *CostExplorer) Sync(ctx context.Context, in domain.Integration) (int64, error) {
	if in.DataSource != domain.DataSourceCloudBilling {
		return c.fallback.Sync(ctx, in)
	}
	result, err := c.query(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get cost and usage: %w", err)
	}

	var records int64
	for _, byTime := range result.ResultsByTime {
		records += int64(len(byTime.Groups))
	}
	return records, nil
}

// query asks for yesterday's unblended cost grouped by service.
func (c *CostExplorer) query(ctx context.Context) (*costexplorer.GetCostAndUsageOutput, error) {
	end := c.clock.Now().UTC()
	start := end.AddDate(0, 0, -1)

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(domain.DateLayout)),
			End:   aws.String(end.Format(domain.DateLayout)),
		},
		Granularity: types.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String(string(types.DimensionService)),
			},
		},
	}
	return c.client.GetCostAndUsage(ctx, input)
}

func isAuthError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "AccessDeniedException", "UnrecognizedClientException", "InvalidClientTokenId",
		"ExpiredTokenException", "UnauthorizedOperation":
		return true
	}
	return false
}
