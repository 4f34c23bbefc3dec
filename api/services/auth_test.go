package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterService(t *testing.T) {
	svc, mockDB, _ := newTestService()

	mockDB.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Name == "Ann" && u.Email == "ann@example.com" &&
			authn.CheckPassword(u.PasswordHash, "secret1") == nil
	})).Return(&models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, nil)

	body := models.RegisterRequest{Name: " Ann ", Email: "ann@example.com", Password: "secret1"}
	w := httptest.NewRecorder()
	svc.RegisterService(w, newRequest(t, http.MethodPost, "/register", body, "", nil))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Empty(t, resp.Token, "registration does not sign the user in")

	mockDB.AssertExpectations(t)
}

func TestRegisterService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    models.RegisterRequest
		message string
	}{
		{"missing name", models.RegisterRequest{Email: "a@b.io", Password: "secret1"}, "All fields are required"},
		{"bad email", models.RegisterRequest{Name: "A", Email: "nope", Password: "secret1"}, "Invalid email address"},
		{"weak password", models.RegisterRequest{Name: "A", Email: "a@b.io", Password: "123"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockDB, _ := newTestService()

			w := httptest.NewRecorder()
			svc.RegisterService(w, newRequest(t, http.MethodPost, "/register", tt.body, "", nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decodeMessage(t, w))
			mockDB.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterService_Duplicate(t *testing.T) {
	svc, mockDB, _ := newTestService()
	mockDB.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("error inserting user: %w", db.ErrDuplicate))

	body := models.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"}
	w := httptest.NewRecorder()
	svc.RegisterService(w, newRequest(t, http.MethodPost, "/register", body, "", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", decodeMessage(t, w))
}

func TestLoginService(t *testing.T) {
	svc, mockDB, _ := newTestService()

	hash, err := authn.HashPassword("secret1")
	require.NoError(t, err)
	mockDB.On("GetUserByEmail", mock.Anything, "ann@example.com").
		Return(&models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", PasswordHash: hash}, nil)

	w := httptest.NewRecorder()
	svc.LoginService(w, newRequest(t, http.MethodPost, "/login",
		models.LoginRequest{Email: "ann@example.com", Password: "secret1"}, "", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, models.UserRef{ID: "u1", Name: "Ann", Email: "ann@example.com"}, resp.User)

	claims, err := svc.Tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestLoginService_Rejected(t *testing.T) {
	hash, err := authn.HashPassword("secret1")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		svc, mockDB, _ := newTestService()
		mockDB.On("GetUserByEmail", mock.Anything, "ann@example.com").
			Return(&models.User{ID: "u1", PasswordHash: hash}, nil)

		w := httptest.NewRecorder()
		svc.LoginService(w, newRequest(t, http.MethodPost, "/login",
			models.LoginRequest{Email: "ann@example.com", Password: "wrong-one"}, "", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeMessage(t, w))
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, mockDB, _ := newTestService()
		mockDB.On("GetUserByEmail", mock.Anything, "who@example.com").Return(nil, db.ErrNotFound)

		w := httptest.NewRecorder()
		svc.LoginService(w, newRequest(t, http.MethodPost, "/login",
			models.LoginRequest{Email: "who@example.com", Password: "secret1"}, "", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeMessage(t, w))
	})

	t.Run("database down", func(t *testing.T) {
		svc, mockDB, _ := newTestService()
		mockDB.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, assert.AnError)

		w := httptest.NewRecorder()
		svc.LoginService(w, newRequest(t, http.MethodPost, "/login",
			models.LoginRequest{Email: "ann@example.com", Password: "secret1"}, "", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLogoutService(t *testing.T) {
	svc, mockDB, _ := newTestService()
	mockDB.On("RevokeToken", mock.Anything, "jti-u1", mock.AnythingOfType("time.Time")).Return(nil)

	w := httptest.NewRecorder()
	svc.LogoutService(w, newRequest(t, http.MethodPost, "/logout", nil, "u1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decodeMessage(t, w))
	mockDB.AssertExpectations(t)
}

func TestCheckAuthService(t *testing.T) {
	svc, mockDB, _ := newTestService()
	mockDB.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}, nil)
	mockDB.On("GetUser", mock.Anything, "gone").Return(nil, db.ErrNotFound)

	w := httptest.NewRecorder()
	svc.CheckAuthService(w, newRequest(t, http.MethodGet, "/checkAuth", nil, "u1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":{"_id":"u1","name":"Ann","email":"ann@example.com"}}`, w.Body.String())

	w = httptest.NewRecorder()
	svc.CheckAuthService(w, newRequest(t, http.MethodGet, "/checkAuth", nil, "gone", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	svc.CheckAuthService(w, newRequest(t, http.MethodGet, "/checkAuth", nil, "", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
