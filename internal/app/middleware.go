package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holdingpro/holding/internal/rest"
	"github.com/holdingpro/holding/pkg/session"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Propagate X-Session-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sessionId := req.Header.Get(session.Header)
			ctx := req.Context()

			if sessionId != "" {
				canonical, ok := session.Normalize(sessionId)
				if !ok {
					log.Debugf("invalid session id: %q", sessionId)
					rest.WriteError(w, http.StatusBadRequest, "invalid session id", session.Header+" must be a UUID")
					return
				}
				ctx = session.WithSession(ctx, canonical)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
