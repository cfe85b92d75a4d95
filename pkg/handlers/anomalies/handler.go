package anomalies

import (
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/anomaly"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	lifecycle anomaly.Service
}

func NewHandler(lifecycle anomaly.Service) *Handler {
	return &Handler{lifecycle: lifecycle}
}

func (h *Handler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	anomalies := h.lifecycle.List(r.Context(), r.URL.Query().Get("squad"))
	respond.JSON(w, r, http.StatusOK, adapters.MapAnomaliesDomainToApi(anomalies))
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req api.StatusUpdate
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	h.transition(w, r, func(id string) (domain.Anomaly, error) {
		return h.lifecycle.SetStatus(r.Context(), id, domain.AnomalyStatus(req.Status))
	})
}

func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id string) (domain.Anomaly, error) {
		return h.lifecycle.Acknowledge(r.Context(), id)
	})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id string) (domain.Anomaly, error) {
		return h.lifecycle.Resolve(r.Context(), id)
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(id string) (domain.Anomaly, error)) {
	logger := zerolog.Ctx(r.Context())
	id := chi.URLParam(r, "id")

	updated, err := apply(id)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("anomaly", id).
			Msg("anomaly transition rejected")
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapAnomalyDomainToApi(updated))
}
