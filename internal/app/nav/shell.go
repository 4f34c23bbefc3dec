package nav

import (
	"context"
	"net/http"
	"sync"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

// Modal is the credential exchange surface. pending is where to go after a
// successful sign in, "" for nowhere in particular.
type Modal interface {
	Open(pending string)
}

// API is what the shell needs from the service.
type API interface {
	CheckAuth(ctx context.Context) (*models.UserRef, error)
	Logout(ctx context.Context) error
}

type Overlay string

const (
	NoOverlay   Overlay = ""
	Sidebar     Overlay = "sidebar"
	ProfileMenu Overlay = "profile-menu"
)

// Shell is the navigation state of the client.
type Shell struct {
	mu      sync.Mutex
	gate    Gate
	session *session.Store
	api     API
	toasts  toast.Notifier
	modal   Modal
	current string
	open    map[Overlay]bool
}

func NewShell(store *session.Store, api API, toasts toast.Notifier) *Shell {
	s := &Shell{
		gate:    Gate{Session: store},
		session: store,
		api:     api,
		toasts:  toasts,
		current: Home,
		open:    map[Overlay]bool{},
	}
	store.Subscribe(s.sessionChanged)
	return s
}

// sessionChanged leaves member-only destinations and closes the overlays
// whenever the session ends, however it ended.
func (s *Shell) sessionChanged(snap session.Snapshot) {
	if snap.Active {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
	if AccessOf(s.current) == Protected {
		s.current = Home
	}
}

// SetModal connects the auth modal. The modal navigates through the shell,
// so the two are wired after construction.
func (s *Shell) SetModal(m Modal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = m
}

// Current returns the current destination.
func (s *Shell) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate goes to p through the gate and closes the overlays. It reports
// whether p itself was reached.
func (s *Shell) Navigate(p string) bool {
	dest, decision := s.gate.Resolve(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = dest
	s.closeAll()
	return decision == Allow
}

// NavigateProtected opens the auth modal instead of navigating when nobody
// is signed in. The destination is remembered for after sign in.
func (s *Shell) NavigateProtected(p string) bool {
	if _, ok := s.session.Current(); !ok {
		s.openModal(normalize(p))
		return false
	}
	return s.Navigate(p)
}

// Logout revokes the token, clears the session and returns Home. The local
// session is cleared even when the revoke call fails.
func (s *Shell) Logout(ctx context.Context) error {
	var err error
	if s.api != nil && s.session.Token() != "" {
		err = s.api.Logout(ctx)
	}

	s.session.Logout()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
	s.current = Home
	return err
}

// StartPlanning asks the service whether the session is still valid before
// opening group creation.
func (s *Shell) StartPlanning(ctx context.Context) {
	_, err := s.api.CheckAuth(ctx)
	switch {
	case err == nil:
		s.NavigateProtected(Create)
	case client.IsStatus(err, http.StatusUnauthorized):
		s.openModal(Create)
	default:
		s.toasts.Error("Unable to verify login. Please try again.")
		s.openModal(Create)
	}
}

// Toggle opens o if closed and closes it if open.
func (s *Shell) Toggle(o Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[o] = !s.open[o]
}

func (s *Shell) IsOpen(o Overlay) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[o]
}

// HandleKey closes both overlays on Escape.
func (s *Shell) HandleKey(key string) {
	if key != "Escape" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
}

// HandleOutsideClick handles a pointer press that landed inside target
// (NoOverlay when it landed in neither). Every other overlay closes.
func (s *Shell) HandleOutsideClick(target Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for o := range s.open {
		if o != target {
			s.open[o] = false
		}
	}
}

func (s *Shell) openModal(pending string) {
	s.mu.Lock()
	modal := s.modal
	s.mu.Unlock()

	if modal != nil {
		modal.Open(pending)
	}
}

func (s *Shell) closeAll() {
	s.open[Sidebar] = false
	s.open[ProfileMenu] = false
}
