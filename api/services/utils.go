package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/planpal/planpal-services/api/middleware"
	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// WriteMessage writes a {"message": ...} body, the shape every client reads
// errors from.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	success := 0
	if statusCode < http.StatusBadRequest {
		success = 1
	}
	WriteResponse(w, statusCode, models.Response{Success: success, Message: message})
}

// HandleErrResponse writes an error response, exposing the code of database
// errors.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	var pqErr *pq.Error
	response := models.Response{Success: 0, Message: err.Error()}

	if errors.As(err, &pqErr) {
		response.ErrorCode = pqErr.Code.Name()
		response.Message = pqErr.Message
	}

	WriteResponse(w, statusCode, response)
}

// handleStoreErr maps persistence errors to responses. Unexpected errors are
// logged and hidden from the caller.
func handleStoreErr(w http.ResponseWriter, logger *zerolog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		WriteMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, db.ErrDuplicate):
		WriteMessage(w, http.StatusConflict, "Record already exists")
	case errors.Is(err, db.ErrInvalidReference):
		WriteMessage(w, http.StatusBadRequest, "Referenced user or group does not exist")
	default:
		logger.Error().Err(err).Msg("Database error")
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// claimsFrom returns the claims JWTMiddleware stored on the request.
func claimsFrom(r *http.Request) (authn.Claims, bool) {
	claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
	return claims, ok && claims.Subject != ""
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
