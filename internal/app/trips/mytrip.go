package trips

import (
	"context"
	"strings"
	"sync"

	"github.com/planpal/planpal-services/internal/app/nav"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

// GroupEdit is the inline edit form of a group.
type GroupEdit struct {
	Name        string
	Description string
}

// Trips is the list of the user's groups with inline editing, deletion and
// event creation.
type Trips struct {
	api    API
	nav    Navigator
	toasts toast.Notifier

	save   flow
	remove flow
	event  flow

	mu      sync.Mutex
	groups  []models.Group
	editing string
	edit    GroupEdit
}

func NewTrips(api API, navigator Navigator, toasts toast.Notifier) *Trips {
	return &Trips{api: api, nav: navigator, toasts: toasts}
}

// Load replaces the list with the groups of the signed-in user.
func (t *Trips) Load(ctx context.Context) error {
	groups, err := t.api.Groups(ctx)
	if err != nil {
		t.toasts.Error("Could not load groups. Please login again.")
		t.mu.Lock()
		t.groups = nil
		t.mu.Unlock()
		return err
	}

	t.mu.Lock()
	t.groups = append([]models.Group(nil), groups...)
	t.mu.Unlock()
	return nil
}

func (t *Trips) Groups() []models.Group {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Group(nil), t.groups...)
}

// StartEdit opens the edit form of a group, prefilled with its values.
func (t *Trips) StartEdit(groupID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := indexOfGroup(t.groups, groupID)
	if i < 0 {
		return false
	}
	t.editing = groupID
	t.edit = GroupEdit{Name: t.groups[i].Name, Description: t.groups[i].Description}
	return true
}

func (t *Trips) SetEdit(edit GroupEdit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edit = edit
}

func (t *Trips) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editing, t.edit = "", GroupEdit{}
}

// Editing returns the id of the group being edited, if any.
func (t *Trips) Editing() (string, GroupEdit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editing, t.edit
}

func (t *Trips) SaveState() State   { return t.save.State() }
func (t *Trips) DeleteState() State { return t.remove.State() }
func (t *Trips) EventState() State  { return t.event.State() }

// SaveEdit sends the edit form. The list changes only once the service
// accepted the update; the form stays open on failure.
func (t *Trips) SaveEdit(ctx context.Context) error {
	t.mu.Lock()
	groupID, edit := t.editing, t.edit
	t.mu.Unlock()

	if groupID == "" {
		return nil
	}
	if strings.TrimSpace(edit.Name) == "" {
		return invalid(t.toasts, "Group name cannot be empty")
	}

	if err := t.save.begin(); err != nil {
		return err
	}

	updated, err := t.api.UpdateGroup(ctx, groupID, models.GroupRequest{
		Name:        strings.TrimSpace(edit.Name),
		Description: strings.TrimSpace(edit.Description),
	})
	if err != nil {
		t.save.end(RolledBack)
		failed(t.toasts, err, "Update failed", "Server error!")
		return err
	}

	t.mu.Lock()
	if i := indexOfGroup(t.groups, groupID); i >= 0 {
		t.groups[i].Name = updated.Name
		t.groups[i].Description = updated.Description
	}
	if t.editing == groupID {
		t.editing, t.edit = "", GroupEdit{}
	}
	t.mu.Unlock()

	t.save.end(Applied)
	t.toasts.Success("Group updated successfully!")
	return nil
}

// Delete removes a group from the list before the service confirms it and
// puts it back at its old position if the service refuses.
func (t *Trips) Delete(ctx context.Context, groupID string, confirm Confirm) error {
	if confirm != nil && !confirm("Are you sure you want to delete this group?") {
		return nil
	}

	if err := t.remove.begin(); err != nil {
		return err
	}

	t.mu.Lock()
	i := indexOfGroup(t.groups, groupID)
	if i < 0 {
		t.mu.Unlock()
		t.remove.end(Idle)
		return nil
	}
	removed := t.groups[i]
	t.groups = append(t.groups[:i:i], t.groups[i+1:]...)
	t.mu.Unlock()

	if err := t.api.DeleteGroup(ctx, groupID); err != nil {
		t.mu.Lock()
		// A reload during the request may already list the group again.
		if indexOfGroup(t.groups, groupID) < 0 {
			t.groups = insertGroup(t.groups, i, removed)
		}
		t.mu.Unlock()

		t.remove.end(RolledBack)
		failed(t.toasts, err, "Delete failed", "Server error!")
		return err
	}

	t.remove.end(Applied)
	t.toasts.Success("Group deleted successfully!")
	return nil
}

// CreateEvent adds an event to a group and moves to the events page.
func (t *Trips) CreateEvent(ctx context.Context, groupID string, in EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid(t.toasts, "Event title is required!")
	}

	if err := t.event.begin(); err != nil {
		return err
	}

	if _, err := t.api.CreateEvent(ctx, groupID, in.request()); err != nil {
		t.event.end(RolledBack)
		failed(t.toasts, err, "Failed to create event", "Server error! Please login again.")
		return err
	}

	t.event.end(Applied)
	t.toasts.Success("Event created successfully!")
	t.nav.Navigate(nav.MyEvents)
	return nil
}

func indexOfGroup(groups []models.Group, id string) int {
	for i, g := range groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func insertGroup(groups []models.Group, i int, g models.Group) []models.Group {
	if i > len(groups) {
		i = len(groups)
	}
	groups = append(groups, models.Group{})
	copy(groups[i+1:], groups[i:])
	groups[i] = g
	return groups
}
