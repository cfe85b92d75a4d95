package session

import (
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/handlers/respond"
	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes the caller's session, resolved by the session middleware.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, sessionResponse(access.FromContext(r.Context())))
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req api.RoleUpdate
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	session := access.FromContext(r.Context())
	previous := session.Role()
	session.SetRole(role)
	logger.Info().
		Str("from", string(previous)).
		Str("to", string(role)).
		Msg("session role changed")

	respond.JSON(w, r, http.StatusOK, sessionResponse(session))
}

func (h *Handler) Can(w http.ResponseWriter, r *http.Request) {
	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	session := access.FromContext(r.Context())
	respond.JSON(w, r, http.StatusOK, api.Permission{
		Action:  string(action),
		Allowed: session.Can(action),
	})
}

func sessionResponse(s *access.Session) api.Session {
	role := s.Role()
	caps := access.Capabilities(role)
	res := api.Session{
		ID:           s.ID(),
		Role:         string(role),
		Capabilities: make([]string, 0, len(caps)),
	}
	for _, c := range caps {
		res.Capabilities = append(res.Capabilities, string(c))
	}
	return res
}
