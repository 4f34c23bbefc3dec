// Package authmodal exchanges credentials for a session.
package authmodal

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/nav"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

type Tab string

const (
	SignIn Tab = "signin"
	SignUp Tab = "signup"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrClosed is returned when submitting a closed modal.
	ErrClosed = errors.New("auth modal is closed")
)

// API is the credential exchange the modal needs from the service.
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// Navigator moves the client after a successful sign in.
type Navigator interface {
	Navigate(path string) bool
}

// Form holds the fields of both tabs. Name is only used to sign up.
type Form struct {
	Name     string
	Email    string
	Password string
}

type Modal struct {
	api     API
	session *session.Store
	nav     Navigator
	toasts  toast.Notifier

	mu      sync.Mutex
	open    bool
	tab     Tab
	form    Form
	loading bool
	pending string
	cancel  context.CancelFunc
	// gen changes on every Close; a submission started under an older
	// generation was abandoned.
	gen uint64
}

func New(api API, store *session.Store, navigator Navigator, toasts toast.Notifier) *Modal {
	return &Modal{
		api:     api,
		session: store,
		nav:     navigator,
		toasts:  toasts,
		tab:     SignIn,
	}
}

// Open shows the modal. pending is navigated to after a successful sign in.
func (m *Modal) Open(pending string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.pending = pending
}

// Close hides the modal and cancels any request in flight.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.pending = ""
	m.gen++
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = nil
	m.loading = false
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Modal) Tab() Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tab
}

func (m *Modal) SetTab(tab Tab) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tab = tab
}

func (m *Modal) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

func (m *Modal) SetForm(form Form) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = form
}

// Loading reports whether a submission is in flight.
func (m *Modal) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Pending returns the destination remembered for after sign in.
func (m *Modal) Pending() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Submit sends the form to /login or /register depending on the tab.
func (m *Modal) Submit(ctx context.Context) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.loading {
		m.mu.Unlock()
		return ErrBusy
	}

	tab, form := m.tab, m.form
	if err := validate(tab, form); err != nil {
		m.mu.Unlock()
		m.toasts.Warning(err.Message)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	gen := m.gen
	m.loading = true
	m.cancel = cancel
	m.mu.Unlock()

	defer cancel()

	var resp *models.AuthResponse
	var err error
	if tab == SignUp {
		resp, err = m.api.Register(ctx, models.RegisterRequest{
			Name:     strings.TrimSpace(form.Name),
			Email:    strings.TrimSpace(form.Email),
			Password: form.Password,
		})
	} else {
		resp, err = m.api.Login(ctx, models.LoginRequest{
			Email:    strings.TrimSpace(form.Email),
			Password: form.Password,
		})
	}

	m.mu.Lock()
	if m.gen != gen {
		// Closed while the request was in flight, even if opened again
		// since: drop the result.
		m.mu.Unlock()
		return context.Canceled
	}
	m.loading = false
	m.cancel = nil

	if err != nil {
		m.mu.Unlock()
		if client.IsTransport(err) {
			m.toasts.Error("Error connecting to server.")
		} else {
			m.toasts.Error(client.UserMessage(err, "Something went wrong"))
		}
		return err
	}

	m.form = Form{}

	if tab == SignUp {
		m.tab = SignIn
		m.mu.Unlock()
		m.toasts.Success("Account created successfully! Please login.")
		return nil
	}

	target := m.pending
	if target == "" {
		target = nav.Home
	}
	m.open = false
	m.pending = ""
	m.mu.Unlock()

	m.session.Login(resp.User, resp.Token)
	m.toasts.Success("Login successful!")
	if m.nav != nil {
		m.nav.Navigate(target)
	}
	return nil
}

func validate(tab Tab, form Form) *client.ValidationError {
	if strings.TrimSpace(form.Email) == "" || form.Password == "" ||
		(tab == SignUp && strings.TrimSpace(form.Name) == "") {
		return &client.ValidationError{Message: "Please fill out all fields!"}
	}
	return nil
}
