package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/planpal/planpal-services/models"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")
var ErrExpiredJWT = errors.New("token has expired")

// Claims are carried by every PlanPal bearer token.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User returns the identity the token was issued for.
func (c Claims) User() models.UserRef {
	return models.UserRef{ID: c.Subject, Name: c.Name, Email: c.Email}
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenManager(key []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a new token for the user.
func (m *TokenManager) Issue(user models.UserRef) (string, Claims, error) {
	now := m.now().UTC()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
			Issuer:    "planpal",
		},
		Name:  user.Name,
		Email: user.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (m *TokenManager) Verify(token string) (Claims, error) {
	claims := Claims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return claims, ErrExpiredJWT
		}
		return claims, ErrInvalidJWT
	}

	if t == nil || !t.Valid || claims.Subject == "" {
		return claims, ErrInvalidClaims
	}
	return claims, nil
}
