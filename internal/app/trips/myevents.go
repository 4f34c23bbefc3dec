package trips

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/internal/authz"
	"github.com/planpal/planpal-services/models"
)

// Item is an event shown together with the group it belongs to.
type Item struct {
	Event models.Event
	Group models.Group
}

// Events lists the events of every group of the user, soonest first.
type Events struct {
	api     API
	session *session.Store
	toasts  toast.Notifier

	save   flow
	remove flow

	mu      sync.Mutex
	items   []Item
	editing string
	edit    EventInput
}

func NewEvents(api API, store *session.Store, toasts toast.Notifier) *Events {
	return &Events{api: api, session: store, toasts: toasts}
}

// Load fetches the groups and then the events of each group. Any failure
// leaves the list empty.
func (e *Events) Load(ctx context.Context) error {
	items, err := e.fetch(ctx)
	if err != nil {
		e.toasts.Error("Error fetching events")
	}

	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
	return err
}

func (e *Events) fetch(ctx context.Context) ([]Item, error) {
	groups, err := e.api.Groups(ctx)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, g := range groups {
		events, err := e.api.GroupEvents(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			items = append(items, Item{Event: ev, Group: g})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Event.Date.Before(items[j].Event.Date)
	})
	return items, nil
}

func (e *Events) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Item(nil), e.items...)
}

// CanEdit reports whether the signed-in user may change or delete the item.
func (e *Events) CanEdit(item Item) bool {
	user, ok := e.session.Current()
	if !ok {
		return false
	}
	return authz.CanEditEvent(user.ID, item.Event, item.Group)
}

func (e *Events) StartEdit(eventID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := indexOfItem(e.items, eventID)
	if i < 0 {
		return false
	}
	ev := e.items[i].Event
	e.editing = eventID
	e.edit = EventInput{Title: ev.Title, Description: ev.Description, Date: ev.Date, Location: ev.Location}
	return true
}

func (e *Events) SetEdit(in EventInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit = in
}

func (e *Events) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing, e.edit = "", EventInput{}
}

func (e *Events) Editing() (string, EventInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing, e.edit
}

func (e *Events) SaveState() State   { return e.save.State() }
func (e *Events) DeleteState() State { return e.remove.State() }

// SaveEdit sends the edit form and merges the event returned by the service
// into the list.
func (e *Events) SaveEdit(ctx context.Context) error {
	e.mu.Lock()
	eventID, in := e.editing, e.edit
	e.mu.Unlock()

	if eventID == "" {
		return nil
	}
	if strings.TrimSpace(in.Title) == "" {
		return invalid(e.toasts, "Event title is required")
	}

	if err := e.save.begin(); err != nil {
		return err
	}

	updated, err := e.api.UpdateEvent(ctx, eventID, in.request())
	if err != nil {
		e.save.end(RolledBack)
		failed(e.toasts, err, "Error updating event", "")
		return err
	}

	e.mu.Lock()
	if i := indexOfItem(e.items, eventID); i >= 0 {
		e.items[i].Event = *updated
	}
	if e.editing == eventID {
		e.editing, e.edit = "", EventInput{}
	}
	e.mu.Unlock()

	e.save.end(Applied)
	e.toasts.Success("Event updated successfully")
	return nil
}

// Delete removes an event optimistically and restores it when the service
// refuses.
func (e *Events) Delete(ctx context.Context, eventID string, confirm Confirm) error {
	if confirm != nil && !confirm("Are you sure you want to delete this event?") {
		return nil
	}

	if err := e.remove.begin(); err != nil {
		return err
	}

	e.mu.Lock()
	i := indexOfItem(e.items, eventID)
	if i < 0 {
		e.mu.Unlock()
		e.remove.end(Idle)
		return nil
	}
	removed := e.items[i]
	e.items = append(e.items[:i:i], e.items[i+1:]...)
	e.mu.Unlock()

	if err := e.api.DeleteEvent(ctx, eventID); err != nil {
		e.mu.Lock()
		if indexOfItem(e.items, eventID) < 0 {
			if i > len(e.items) {
				i = len(e.items)
			}
			e.items = append(e.items, Item{})
			copy(e.items[i+1:], e.items[i:])
			e.items[i] = removed
		}
		e.mu.Unlock()

		e.remove.end(RolledBack)
		failed(e.toasts, err, "Error deleting event", "")
		return err
	}

	e.remove.end(Applied)
	e.toasts.Success("Event deleted successfully!")
	return nil
}

func indexOfItem(items []Item, id string) int {
	for i, it := range items {
		if it.Event.ID == id {
			return i
		}
	}
	return -1
}
