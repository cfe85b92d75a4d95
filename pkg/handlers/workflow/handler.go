package workflow

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/workflow"
)

type Handler struct {
	workflow workflow.Service
}

func NewHandler(workflow workflow.Service) *Handler {
	return &Handler{workflow: workflow}
}

func (h *Handler) CreateAnnotation(w http.ResponseWriter, r *http.Request) {
	var req api.AnnotationRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	annotation, err := h.workflow.CreateAnnotation(r.Context(), req.SquadID, req.RecordID, req.Text, req.User)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapAnnotationDomainToApi(annotation))
}

func (h *Handler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	annotations := h.workflow.ListAnnotations(r.Context(), r.URL.Query().Get("squad"))
	respond.JSON(w, r, http.StatusOK, adapters.MapAnnotationsDomainToApi(annotations))
}

func (h *Handler) CreateChargeback(w http.ResponseWriter, r *http.Request) {
	var req api.ChargebackRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	chargeback, err := h.workflow.CreateChargeback(r.Context(), req.SquadID, req.Amount, req.Reason, req.Tickets)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapChargebackDomainToApi(chargeback))
}

func (h *Handler) ListChargebacks(w http.ResponseWriter, r *http.Request) {
	chargebacks := h.workflow.ListChargebacks(r.Context(), r.URL.Query().Get("squad"))
	respond.JSON(w, r, http.StatusOK, adapters.MapChargebacksDomainToApi(chargebacks))
}

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.Error(w, r, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidArgument))
			return
		}
		limit = n
	}

	activities, err := h.workflow.ListActivity(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapActivitiesDomainToApi(activities))
}
