package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

// GetUserService returns the profile of a user. Any signed-in user may read
// a profile.
func (svc *Service) GetUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	if _, ok := claimsFrom(r); !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := svc.DB.GetUser(r.Context(), mux.Vars(r)["user-id"])
	if err != nil {
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	WriteResponse(w, http.StatusOK, user)
}

// UpdateUserService replaces the profile of the caller, and their
// availability when the payload carries one.
func (svc *Service) UpdateUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	userID, ok := svc.requireSelf(w, r, logger)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Name) || blank(req.Email) {
		WriteMessage(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteMessage(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Availability != nil {
		req.Availability = cleanSlots(req.Availability)
	}

	user, err := svc.DB.UpdateUser(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			WriteMessage(w, http.StatusConflict, "Email is already in use")
			return
		}
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	logger.Info().Str("user_id", userID).Msg("Profile updated successfully")
	WriteResponse(w, http.StatusOK, models.ProfileResponse{
		Message: "Profile updated successfully",
		User:    *user,
	})
}

// ChangePasswordService replaces the password of the caller after checking
// the current one.
func (svc *Service) ChangePasswordService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	userID, ok := svc.requireSelf(w, r, logger)
	if !ok {
		return
	}

	var req models.PasswordChange
	if err := decodeJSON(r, &req); err != nil {
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		WriteMessage(w, http.StatusBadRequest, "Please fill out all password fields!")
		return
	}

	user, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	if authn.CheckPassword(user.PasswordHash, req.CurrentPassword) != nil {
		logger.Info().Str("user_id", userID).Msg("Password change rejected: wrong current password")
		WriteMessage(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := authn.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, authn.ErrWeakPassword) {
			WriteMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := svc.DB.UpdatePassword(r.Context(), userID, hash); err != nil {
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	logger.Info().Str("user_id", userID).Msg("Password changed")
	WriteMessage(w, http.StatusOK, "Password updated successfully")
}

// GetAvailabilityService returns the availability slots of a user.
func (svc *Service) GetAvailabilityService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	if _, ok := claimsFrom(r); !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	slots, err := svc.DB.GetAvailability(r.Context(), mux.Vars(r)["user-id"])
	if err != nil {
		handleStoreErr(w, logger, err, "User not found")
		return
	}
	if slots == nil {
		slots = []string{}
	}

	WriteResponse(w, http.StatusOK, models.Availability{Availability: slots})
}

// UpdateAvailabilityService replaces the availability slots of the caller.
func (svc *Service) UpdateAvailabilityService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	userID, ok := svc.requireSelf(w, r, logger)
	if !ok {
		return
	}

	var req models.Availability
	if err := decodeJSON(r, &req); err != nil {
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	slots := cleanSlots(req.Availability)
	if err := svc.DB.SetAvailability(r.Context(), userID, slots); err != nil {
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	WriteResponse(w, http.StatusOK, models.Availability{Availability: slots})
}

// requireSelf checks the user-id route variable names the caller.
func (svc *Service) requireSelf(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger) (string, bool) {
	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}

	userID := mux.Vars(r)["user-id"]
	if userID != claims.Subject {
		logger.Warn().Str("user_id", userID).Str("requested_by", claims.Subject).Msg("Access denied: not the profile owner")
		WriteMessage(w, http.StatusForbidden, "You can only change your own profile")
		return "", false
	}
	return userID, true
}

// cleanSlots trims slots and drops empty ones, keeping order.
func cleanSlots(slots []string) []string {
	out := []string{}
	for _, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
