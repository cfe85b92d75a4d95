package dashboard

import (
	"context"
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
)

type Feed interface {
	Overview() dashboard.Overview
	RefreshAll(ctx context.Context)
	Refresh(name string) error
}

type Handler struct {
	feed Feed
}

func NewHandler(feed Feed) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, mapOverview(h.feed.Overview()))
}

// Refresh asks every feed for an immediate poll. Results land
// asynchronously, so it answers 202.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.feed.RefreshAll(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

// RefreshFeed polls one named feed, e.g. after a change only it cares about.
func (h *Handler) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Refresh(chi.URLParam(r, "feed")); err != nil {
		respond.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func mapOverview(o dashboard.Overview) api.Overview {
	res := api.Overview{
		Squads:       adapters.MapSquadsDomainToApi(o.Squads),
		Anomalies:    adapters.MapAnomaliesDomainToApi(o.Anomalies),
		Charges:      adapters.MapChargesDomainToApi(o.Charges),
		Integrations: adapters.MapIntegrationsDomainToApi(o.Integrations),
		OpenImpact:   o.OpenImpact,
		Feeds:        make(map[string]api.FeedStatus, len(o.Feeds)),
	}
	for name, fs := range o.Feeds {
		status := api.FeedStatus{Loading: fs.Loading}
		if !fs.LastUpdated.IsZero() {
			t := fs.LastUpdated
			status.LastUpdated = &t
		}
		if fs.Err != nil {
			status.Error = fs.Err.Error()
		}
		res.Feeds[name] = status
	}
	return res
}
