package adapters

import (
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

func MapIntegrationDomainToApi(i domain.Integration) api.Integration {
	i = i.Clone()
	return api.Integration{
		ID:               i.ID,
		Name:             i.Name,
		Status:           string(i.Status),
		LastSync:         i.LastSync,
		NextSync:         i.NextSync,
		RecordsProcessed: i.RecordsProcessed,
		DataSource:       string(i.DataSource),
	}
}

func MapIntegrationsDomainToApi(integrations []domain.Integration) []api.Integration {
	res := make([]api.Integration, 0, len(integrations))
	for _, i := range integrations {
		res = append(res, MapIntegrationDomainToApi(i))
	}
	return res
}

func MapConnectResultDomainToApi(r domain.ConnectResult) api.ConnectResult {
	return api.ConnectResult{Success: r.Success, Message: r.Message}
}
