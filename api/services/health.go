package services

import (
	"net/http"

	"github.com/rs/zerolog"
)

// HealthService reports whether the database is reachable.
func (svc *Service) HealthService(w http.ResponseWriter, r *http.Request) {
	if err := svc.DB.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
		WriteMessage(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	WriteMessage(w, http.StatusOK, "ok")
}
