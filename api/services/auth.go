package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

var errInvalidPayload = errors.New("Invalid request payload")

// RegisterService creates a new user account. It does not sign the user in.
func (svc *Service) RegisterService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Name) || blank(req.Email) || req.Password == "" {
		WriteMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteMessage(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	hash, err := authn.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, authn.ErrWeakPassword) {
			WriteMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := svc.DB.CreateUser(r.Context(), models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			WriteMessage(w, http.StatusConflict, "User already exists")
			return
		}
		handleStoreErr(w, logger, err, "User not found")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered successfully")
	WriteResponse(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		User:    user.Ref(),
	})
}

// LoginService exchanges credentials for a bearer token.
func (svc *Service) LoginService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Email) || req.Password == "" {
		WriteMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := svc.DB.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		handleStoreErr(w, logger, err, "")
		return
	}

	if user == nil || authn.CheckPassword(user.PasswordHash, req.Password) != nil {
		logger.Info().Str("email", req.Email).Msg("Failed login attempt")
		WriteMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, _, err := svc.Tokens.Issue(user.Ref())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue token")
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")
	WriteResponse(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		User:    user.Ref(),
		Token:   token,
	})
}

// LogoutService revokes the presented token.
func (svc *Service) LogoutService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if claims.Id != "" {
		expiresAt := time.Unix(claims.ExpiresAt, 0).UTC()
		if err := svc.DB.RevokeToken(r.Context(), claims.Id, expiresAt); err != nil {
			handleStoreErr(w, logger, err, "")
			return
		}
	}

	logger.Info().Str("user_id", claims.Subject).Msg("User logged out")
	WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// CheckAuthService returns the user the bearer token belongs to.
func (svc *Service) CheckAuthService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := svc.DB.GetUser(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		handleStoreErr(w, logger, err, "")
		return
	}

	WriteResponse(w, http.StatusOK, models.AuthResponse{User: user.Ref()})
}
