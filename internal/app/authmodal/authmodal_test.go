package authmodal

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

type recordingNavigator struct {
	visited []string
}

func (r *recordingNavigator) Navigate(path string) bool {
	r.visited = append(r.visited, path)
	return true
}

var ann = models.UserRef{ID: "u1", Name: "Ann", Email: "ann@example.com"}

func newModal() (*Modal, *mockAPI, *session.Store, *recordingNavigator, *toast.Recorder) {
	api := new(mockAPI)
	store := session.NewStore()
	navigator := &recordingNavigator{}
	toasts := &toast.Recorder{}
	return New(api, store, navigator, toasts), api, store, navigator, toasts
}

func TestSubmit_SignInSuccess(t *testing.T) {
	m, api, store, navigator, toasts := newModal()
	api.On("Login", mock.Anything, models.LoginRequest{Email: "ann@example.com", Password: "secret1"}).
		Return(&models.AuthResponse{User: ann, Token: "tok"}, nil)

	m.Open("/mytrip")
	m.SetForm(Form{Email: " ann@example.com ", Password: "secret1"})

	require.NoError(t, m.Submit(context.Background()))

	user, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, ann, user)
	assert.Equal(t, "tok", store.Token())
	assert.False(t, m.IsOpen())
	assert.Equal(t, Form{}, m.Form())
	assert.Equal(t, []string{"/mytrip"}, navigator.visited, "the remembered destination is visited")

	last, _ := toasts.Last()
	assert.Equal(t, toast.LevelSuccess, last.Level)
}

func TestSubmit_SignInWithoutPendingGoesHome(t *testing.T) {
	m, api, _, navigator, _ := newModal()
	api.On("Login", mock.Anything, mock.Anything).Return(&models.AuthResponse{User: ann, Token: "tok"}, nil)

	m.Open("")
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, m.Submit(context.Background()))

	assert.Equal(t, []string{"/"}, navigator.visited)
}

func TestSubmit_SignUpSuccess(t *testing.T) {
	m, api, store, navigator, toasts := newModal()
	api.On("Register", mock.Anything, models.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"}).
		Return(&models.AuthResponse{Message: "User registered successfully", User: ann}, nil)

	m.Open("")
	m.SetTab(SignUp)
	m.SetForm(Form{Name: "Ann", Email: "ann@example.com", Password: "secret1"})

	require.NoError(t, m.Submit(context.Background()))

	_, ok := store.Current()
	assert.False(t, ok, "signing up does not sign in")
	assert.Equal(t, SignIn, m.Tab())
	assert.True(t, m.IsOpen())
	assert.Equal(t, Form{}, m.Form())
	assert.Empty(t, navigator.visited)

	last, _ := toasts.Last()
	assert.Equal(t, toast.Toast{Level: toast.LevelSuccess, Message: "Account created successfully! Please login."}, last)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"server message", &client.RemoteError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}, "Invalid email or password"},
		{"no server message", &client.RemoteError{Status: http.StatusInternalServerError}, "Something went wrong"},
		{"transport", &client.TransportError{Err: errors.New("connection refused")}, "Error connecting to server."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, api, store, _, toasts := newModal()
			api.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			m.Open("/profile")
			form := Form{Email: "ann@example.com", Password: "wrong-1"}
			m.SetForm(form)

			assert.Error(t, m.Submit(context.Background()))

			_, ok := store.Current()
			assert.False(t, ok)
			assert.True(t, m.IsOpen(), "the modal stays open")
			assert.False(t, m.Loading())
			assert.Equal(t, form, m.Form())
			assert.Equal(t, "/profile", m.Pending())

			last, _ := toasts.Last()
			assert.Equal(t, toast.Toast{Level: toast.LevelError, Message: tt.message}, last)
		})
	}
}

func TestSubmit_Validation(t *testing.T) {
	m, api, _, _, toasts := newModal()
	m.Open("")
	m.SetTab(SignUp)
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})

	err := m.Submit(context.Background())

	var validation *client.ValidationError
	assert.True(t, errors.As(err, &validation))
	api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	assert.Len(t, toasts.All(), 1)
}

func TestSubmit_Closed(t *testing.T) {
	m, _, _, _, _ := newModal()
	assert.ErrorIs(t, m.Submit(context.Background()), ErrClosed)
}

func TestSubmit_BusyAndCloseCancels(t *testing.T) {
	m, api, store, navigator, toasts := newModal()

	started := make(chan struct{})
	api.On("Login", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, &client.TransportError{Err: context.Canceled}).Once()

	m.Open("/mytrip")
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background()) }()
	<-started

	assert.True(t, m.Loading())
	assert.ErrorIs(t, m.Submit(context.Background()), ErrBusy, "a second submit makes no request")

	m.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("submit was not cancelled by Close")
	}

	_, ok := store.Current()
	assert.False(t, ok)
	assert.Empty(t, navigator.visited)
	assert.Empty(t, toasts.All(), "a cancelled exchange shows nothing")
	api.AssertNumberOfCalls(t, "Login", 1)
}

func TestSubmit_CloseThenReopenDropsAbandonedResult(t *testing.T) {
	m, api, store, navigator, toasts := newModal()

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, &client.TransportError{Err: context.Canceled}).Once()

	m.Open("/mytrip")
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background()) }()
	<-started

	m.Close()
	m.Open("/myevents")
	assert.False(t, m.Loading(), "the reopened modal is not busy")

	close(release)
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.True(t, m.IsOpen())
	assert.Equal(t, "/myevents", m.Pending())
	assert.False(t, m.Loading())
	assert.Empty(t, toasts.All(), "the abandoned exchange shows nothing")
	assert.Empty(t, navigator.visited)
	_, ok := store.Current()
	assert.False(t, ok)
}

func TestSubmit_CloseThenReopenAllowsNewSubmit(t *testing.T) {
	m, api, store, navigator, _ := newModal()

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, &client.TransportError{Err: context.Canceled}).Once()
	api.On("Login", mock.Anything, mock.Anything).
		Return(&models.AuthResponse{User: ann, Token: "tok"}, nil).Once()

	m.Open("/mytrip")
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background()) }()
	<-started

	m.Close()
	m.Open("/myevents")
	m.SetForm(Form{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, m.Submit(context.Background()))

	close(release)
	assert.ErrorIs(t, <-done, context.Canceled)

	user, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, ann, user)
	assert.Equal(t, []string{"/myevents"}, navigator.visited)
}
