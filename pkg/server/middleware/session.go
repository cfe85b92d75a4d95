package middleware

import (
	"net/http"

	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/rs/zerolog"
)

// SessionHeader selects the caller's session. Requests without it share the
// default session.
const SessionHeader = "X-Session-ID"

func Session(registry *access.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			session := registry.Get(req.Header.Get(SessionHeader))

			ctx := access.WithSession(req.Context(), session)
			reqLogger := zerolog.Ctx(ctx).With().
				Str("session", session.ID()).
				Str("role", string(session.Role())).
				Logger()
			ctx = reqLogger.WithContext(ctx)

			w.Header().Set(SessionHeader, session.ID())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
