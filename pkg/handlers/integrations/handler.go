package integrations

import (
	"context"
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Catalog interface {
	ListIntegrations() []domain.Integration
}

type Manager interface {
	ConnectIntegration(ctx context.Context, id string) (domain.ConnectResult, error)
	RefreshIntegration(ctx context.Context, id string) error
	RefreshAllIntegrations(ctx context.Context) error
}

type Handler struct {
	catalog Catalog
	manager Manager
}

func NewHandler(catalog Catalog, manager Manager) *Handler {
	return &Handler{
		catalog: catalog,
		manager: manager,
	}
}

func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, adapters.MapIntegrationsDomainToApi(h.catalog.ListIntegrations()))
}

// Connect answers 200 for both outcomes of an attempt. A failed attempt
// carries success=false and is not an HTTP error.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	result, err := h.manager.ConnectIntegration(ctx, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	logger.Info().
		Str("integration", id).
		Bool("success", result.Success).
		Msg("integration connect attempted")
	respond.JSON(w, r, http.StatusOK, adapters.MapConnectResultDomainToApi(result))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.RefreshIntegration(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.RefreshAllIntegrations(r.Context()); err != nil {
		respond.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
