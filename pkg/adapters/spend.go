package adapters

import (
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

func MapSquadDomainToApi(s domain.Squad) api.Squad {
	return api.Squad{
		ID:     s.ID,
		Name:   s.Name,
		Owner:  s.Owner,
		Budget: s.Budget,
	}
}

func MapSquadsDomainToApi(squads []domain.Squad) []api.Squad {
	res := make([]api.Squad, 0, len(squads))
	for _, s := range squads {
		res = append(res, MapSquadDomainToApi(s))
	}
	return res
}

func MapChargeDomainToApi(c domain.Charge) api.Charge {
	tags := make([]string, len(c.Tags))
	copy(tags, c.Tags)
	return api.Charge{
		ID:         c.ID,
		SquadID:    c.SquadID,
		Service:    c.Service,
		Amount:     c.Amount,
		Timestamp:  c.Timestamp,
		Account:    c.Account,
		CostCenter: c.CostCenter,
		Tags:       tags,
		Resource:   c.Resource,
	}
}

func MapChargesDomainToApi(charges []domain.Charge) []api.Charge {
	res := make([]api.Charge, 0, len(charges))
	for _, c := range charges {
		res = append(res, MapChargeDomainToApi(c))
	}
	return res
}

func MapFinancialsDomainToApi(f domain.Financials) api.Financials {
	res := api.Financials{
		SquadID:    f.SquadID,
		Start:      f.Period.Start,
		End:        f.Period.End,
		Currency:   f.Currency,
		TimeSeries: make([]api.TimeSeriesPoint, 0, len(f.TimeSeries)),
		Breakdown: api.SpendBreakdown{
			CostCenter: mapBreakdown(f.Breakdown.CostCenter),
			Service:    mapBreakdown(f.Breakdown.Service),
		},
		Summary: api.SpendSummary{
			CurrentMonth: f.Summary.CurrentMonth,
			Forecast:     f.Summary.Forecast,
			AvgDaily:     f.Summary.AvgDaily,
		},
	}
	for _, p := range f.TimeSeries {
		res.TimeSeries = append(res.TimeSeries, api.TimeSeriesPoint{
			Date:     p.Date.Format(domain.DateLayout),
			Actual:   p.Actual,
			Forecast: p.Forecast,
			Budget:   p.Budget,
		})
	}
	return res
}

func mapBreakdown(items []domain.BreakdownItem) []api.BreakdownItem {
	res := make([]api.BreakdownItem, 0, len(items))
	for _, i := range items {
		res = append(res, api.BreakdownItem{Name: i.Name, Value: i.Value})
	}
	return res
}
