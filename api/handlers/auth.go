package handlers

import (
	"net/http"

	services "github.com/planpal/planpal-services/api/services"
)

// @Summary Register a new user
// @Description Create an account. Registration does not sign the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.RegisterRequest true "New user"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /register [post]
func Register(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.RegisterService(w, r)
	}
}

// @Summary Sign in
// @Description Exchange an email and password for a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /login [post]
func Login(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.LoginService(w, r)
	}
}

// @Summary Sign out
// @Description Revoke the bearer token used for this request.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /logout [post]
func Logout(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.LogoutService(w, r)
	}
}

// @Summary Check the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.Response
// @Router /checkAuth [get]
func CheckAuth(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CheckAuthService(w, r)
	}
}
