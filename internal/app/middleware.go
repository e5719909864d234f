package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/manatly/manat/internal/config"
	"github.com/manatly/manat/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Profile-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			profileIdHeader := req.Header.Get("X-Profile-Id")
			if profileIdHeader != "" {
				log.Debugf("serving profile: %s", profileIdHeader)
				ctx = profile.WithProfile(ctx, profileIdHeader)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
