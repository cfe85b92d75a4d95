package adapters

import (
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/models/store"
)

func MapAnnotationDomainToApi(a domain.Annotation) api.Annotation {
	return api.Annotation{
		ID:        a.ID,
		SquadID:   a.SquadID,
		RecordID:  a.RecordID,
		Text:      a.Text,
		User:      a.User,
		Timestamp: a.CreatedAt,
	}
}

func MapAnnotationsDomainToApi(annotations []domain.Annotation) []api.Annotation {
	res := make([]api.Annotation, 0, len(annotations))
	for _, a := range annotations {
		res = append(res, MapAnnotationDomainToApi(a))
	}
	return res
}

func MapChargebackDomainToApi(c domain.Chargeback) api.Chargeback {
	tickets := make([]string, len(c.Tickets))
	copy(tickets, c.Tickets)
	return api.Chargeback{
		ID:        c.ID,
		SquadID:   c.SquadID,
		Amount:    c.Amount,
		Reason:    c.Reason,
		Tickets:   tickets,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

func MapChargebacksDomainToApi(chargebacks []domain.Chargeback) []api.Chargeback {
	res := make([]api.Chargeback, 0, len(chargebacks))
	for _, c := range chargebacks {
		res = append(res, MapChargebackDomainToApi(c))
	}
	return res
}

func MapActivityDomainToApi(a domain.Activity) api.Activity {
	return api.Activity{
		ID:        a.ID,
		Type:      string(a.Type),
		User:      a.User,
		Action:    a.Action,
		Details:   a.Details,
		Timestamp: a.CreatedAt,
	}
}

func MapActivitiesDomainToApi(activities []domain.Activity) []api.Activity {
	res := make([]api.Activity, 0, len(activities))
	for _, a := range activities {
		res = append(res, MapActivityDomainToApi(a))
	}
	return res
}

func MapStoreActivityToDomain(a store.Activity) domain.Activity {
	return domain.Activity{
		ID:        a.ID,
		Type:      domain.ActivityType(a.Type),
		User:      a.User,
		Action:    a.Action,
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
}

func MapDomainActivityToStore(a domain.Activity) store.Activity {
	return store.Activity{
		ID:        a.ID,
		Type:      string(a.Type),
		User:      a.User,
		Action:    a.Action,
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
}
