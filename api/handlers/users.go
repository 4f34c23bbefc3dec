package handlers

import (
	"net/http"

	services "github.com/planpal/planpal-services/api/services"
)

// @Summary Get a user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.Response
// @Router /User/{user-id} [get]
func GetUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUserService(w, r)
	}
}

// @Summary Update your profile
// @Description Also served at PUT /UpdateUser/{user-id}.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Param profile body models.ProfileUpdate true "Profile"
// @Success 200 {object} models.ProfileResponse
// @Failure 403 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /User/{user-id} [put]
func UpdateUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateUserService(w, r)
	}
}

// @Summary Change your password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Param passwords body models.PasswordChange true "Current and new password"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /User/{user-id}/password [put]
func ChangePassword(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ChangePasswordService(w, r)
	}
}

// @Summary Get availability
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Success 200 {object} models.Availability
// @Router /{user-id}/availability [get]
func GetAvailability(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetAvailabilityService(w, r)
	}
}

// @Summary Replace your availability
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Param availability body models.Availability true "Slots"
// @Success 200 {object} models.Availability
// @Failure 403 {object} models.Response
// @Router /{user-id}/availability [put]
func UpdateAvailability(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateAvailabilityService(w, r)
	}
}

// Health reports database reachability.
func Health(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.HealthService(w, r)
	}
}
