package preferences

import (
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/services/preferences"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	prefs preferences.Service
}

func NewHandler(prefs preferences.Service) *Handler {
	return &Handler{prefs: prefs}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPreferencesDomainToApi(prefs))
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req api.FilterPreferences
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	saved, err := h.prefs.Save(r.Context(), chi.URLParam(r, "slot"), adapters.MapPreferencesApiToDomain(req))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPreferencesDomainToApi(saved))
}

// Reset deletes the slot and answers with the defaults now in effect.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.prefs.Reset(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPreferencesDomainToApi(defaults))
}
