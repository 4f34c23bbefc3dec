// Package session holds who is signed in. The root application owns the
// Store and hands it to every component by reference; nothing else keeps a
// copy of the user.
package session

import (
	"sync"

	"github.com/planpal/planpal-services/models"
)

// Snapshot is the state of the session at one point in time.
type Snapshot struct {
	User   models.UserRef
	Token  string
	Active bool
}

// Store is the in-memory session. It is never persisted, so a new process
// always starts signed out.
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers []func(Snapshot)
}

func NewStore() *Store {
	return &Store{}
}

// Login replaces any previous session.
func (s *Store) Login(user models.UserRef, token string) {
	s.set(Snapshot{User: user, Token: token, Active: true})
}

// Logout empties the session.
func (s *Store) Logout() {
	s.set(Snapshot{})
}

// Current returns the signed-in user, if any.
func (s *Store) Current() (models.UserRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User, s.current.Active
}

// Token returns the bearer token of the session, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Subscribe registers fn to be called after every change.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) set(next Snapshot) {
	s.mu.Lock()
	s.current = next
	subscribers := make([]func(Snapshot), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
}
