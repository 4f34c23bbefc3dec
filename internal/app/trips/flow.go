// Package trips holds the group and event pages of the client: creating a
// group, managing trips and managing events. Every mutation runs as a small
// state machine, idle -> pending -> applied | rolled-back, and a failed
// mutation restores the list it changed.
package trips

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

type State string

const (
	Idle       State = "idle"
	Pending    State = "pending"
	Applied    State = "applied"
	RolledBack State = "rolled-back"
)

// ErrBusy is returned when the same flow is submitted again before the
// first submission finished. No request is made.
var ErrBusy = errors.New("request already in progress")

// API is the part of the service the pages use.
type API interface {
	Groups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, req models.GroupRequest) (*models.Group, error)
	UpdateGroup(ctx context.Context, groupID string, req models.GroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	GroupEvents(ctx context.Context, groupID string) ([]models.Event, error)
	CreateEvent(ctx context.Context, groupID string, req models.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Navigator moves the client to another destination.
type Navigator interface {
	Navigate(path string) bool
}

// Confirm asks the user a blocking yes/no question.
type Confirm func(prompt string) bool

// EventInput is the event form.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
}

func (in EventInput) request() models.EventRequest {
	return models.EventRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Location:    strings.TrimSpace(in.Location),
	}
}

// flow guards one kind of mutation.
type flow struct {
	mu    sync.Mutex
	state State
	busy  bool
}

func (f *flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	f.busy = true
	f.state = Pending
	return nil
}

func (f *flow) end(state State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	f.state = state
}

func (f *flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == "" {
		return Idle
	}
	return f.state
}

// invalid shows a validation toast and returns the matching error.
func invalid(toasts toast.Notifier, message string) error {
	toasts.Error(message)
	return &client.ValidationError{Message: message}
}

// failed shows the toast for a failed request.
func failed(toasts toast.Notifier, err error, fallback, transport string) {
	if client.IsTransport(err) && transport != "" {
		toasts.Error(transport)
		return
	}
	toasts.Error(client.UserMessage(err, fallback))
}
