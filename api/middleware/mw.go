package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (authn.Claims, error)
}

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTMiddleware verifies the bearer token and adds token and claims to the
// request context. Requests without a valid, unrevoked token get a 401.
func JWTMiddleware(tokens TokenVerifier, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				token, ok := BearerToken(r)
				if !ok {
					logger.Debug().Msg("bearer token missing")
					unauthorized(w, "Not authenticated")
					return
				}

				// Verify the token signature and expiry
				claims, err := tokens.Verify(token)
				if err != nil {
					logger.Debug().Err(err).Msg("invalid bearer jwt token")
					if errors.Is(err, authn.ErrExpiredJWT) {
						unauthorized(w, "Session expired, please login again")
						return
					}
					unauthorized(w, "Invalid token")
					return
				}

				if revoked != nil && claims.Id != "" {
					isRevoked, err := revoked.IsTokenRevoked(r.Context(), claims.Id)
					if err != nil {
						logger.Error().Err(err).Msg("failed to check token revocation")
						writeMessage(w, http.StatusInternalServerError, "Internal server error")
						return
					}
					if isRevoked {
						unauthorized(w, "Session has ended, please login again")
						return
					}
				}

				// Add the token and claims to the context
				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeMessage(w, http.StatusUnauthorized, message)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Response{Success: 0, Message: message})
}
