package adapters

import (
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

func MapPreferencesDomainToApi(p domain.FilterPreferences) api.FilterPreferences {
	return api.FilterPreferences{
		TimeRange:    api.TimeRange{Start: p.Start, End: p.End},
		Unit:         string(p.Unit),
		CloudAccount: nonNil(p.CloudAccounts),
		ProjectTag:   nonNil(p.ProjectTags),
	}
}

func MapPreferencesApiToDomain(p api.FilterPreferences) domain.FilterPreferences {
	return domain.FilterPreferences{
		Start:         p.TimeRange.Start,
		End:           p.TimeRange.End,
		Unit:          domain.AggregationUnit(p.Unit),
		CloudAccounts: nonNil(p.CloudAccount),
		ProjectTags:   nonNil(p.ProjectTag),
	}
}

func nonNil(ss []string) []string {
	res := make([]string, len(ss))
	copy(res, ss)
	return res
}
