package adapters

import (
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow:
		return api.Severity(s)
	default:
		return api.Severity(domain.SeverityLow)
	}
}

func MapAnomalyDomainToApi(a domain.Anomaly) api.Anomaly {
	res := api.Anomaly{
		ID:          a.ID,
		SquadID:     a.SquadID,
		Title:       a.Title,
		Description: a.Description,
		Severity:    MapSeverityDomainToApi(a.Severity),
		Confidence:  a.Confidence,
		Impact:      a.Impact,
		Timestamp:   a.Detected,
		Status:      string(a.Status),
		RootCause:   make([]string, len(a.RootCause)),
		Evidence:    make([]api.Evidence, 0, len(a.Evidence)),
	}
	copy(res.RootCause, a.RootCause)
	for _, e := range a.Evidence {
		res.Evidence = append(res.Evidence, api.Evidence{Name: e.Name, URL: e.URL})
	}
	return res
}

func MapAnomaliesDomainToApi(anomalies []domain.Anomaly) []api.Anomaly {
	res := make([]api.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		res = append(res, MapAnomalyDomainToApi(a))
	}
	return res
}
