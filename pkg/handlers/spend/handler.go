package spend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/financials"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Catalog is the read side of the data store used by the spend endpoints.
type Catalog interface {
	ListSquads() []domain.Squad
	ListCharges(squadID string) []domain.Charge
}

type ChargeEditor interface {
	UpdateChargeCostCenter(ctx context.Context, chargeID, costCenter string) (domain.Charge, error)
}

type Handler struct {
	catalog    Catalog
	financials financials.Service
	charges    ChargeEditor
}

func NewHandler(catalog Catalog, financials financials.Service, charges ChargeEditor) *Handler {
	return &Handler{
		catalog:    catalog,
		financials: financials,
		charges:    charges,
	}
}

func (h *Handler) ListSquads(w http.ResponseWriter, r *http.Request) {
	squads := h.catalog.ListSquads()
	respond.JSON(w, r, http.StatusOK, adapters.MapSquadsDomainToApi(squads))
}

func (h *Handler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	squad := chi.URLParam(r, "squad")

	start, err := parseDate(r.URL.Query().Get("from"), "from")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	end, err := parseDate(r.URL.Query().Get("to"), "to")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	report, err := h.financials.Get(ctx, squad, start, end)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("squad", squad).
			Msg("failed to build financials")
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapFinancialsDomainToApi(report))
}

func (h *Handler) ListCharges(w http.ResponseWriter, r *http.Request) {
	charges := h.catalog.ListCharges(r.URL.Query().Get("squad"))
	respond.JSON(w, r, http.StatusOK, adapters.MapChargesDomainToApi(charges))
}

func (h *Handler) UpdateCostCenter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req api.CostCenterUpdate
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	charge, err := h.charges.UpdateChargeCostCenter(ctx, id, req.CostCenter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapChargeDomainToApi(charge))
}

// parseDate accepts an empty value as "unbounded".
func parseDate(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid '%s' date format. Expected format: YYYY-MM-DD",
			domain.ErrInvalidArgument, name)
	}
	return t, nil
}
