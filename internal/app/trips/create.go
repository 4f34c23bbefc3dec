package trips

import (
	"context"
	"strings"
	"sync"

	"github.com/planpal/planpal-services/internal/app/nav"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

// CreateGroup is the group creation form.
type CreateGroup struct {
	api     API
	session *session.Store
	nav     Navigator
	toasts  toast.Notifier
	submit  flow

	mu          sync.Mutex
	name        string
	description string
	members     []string
}

func NewCreateGroup(api API, store *session.Store, navigator Navigator, toasts toast.Notifier) *CreateGroup {
	return &CreateGroup{api: api, session: store, nav: navigator, toasts: toasts}
}

func (c *CreateGroup) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *CreateGroup) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = description
}

// AddMember adds a member by email. Adding the same member twice is
// refused.
func (c *CreateGroup) AddMember(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	c.mu.Lock()
	for _, m := range c.members {
		if m == email {
			c.mu.Unlock()
			return invalid(c.toasts, "User already added!")
		}
	}
	c.members = append(c.members, email)
	c.mu.Unlock()
	return nil
}

func (c *CreateGroup) RemoveMember(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.members[:0]
	for _, m := range c.members {
		if m != email {
			kept = append(kept, m)
		}
	}
	c.members = kept
}

func (c *CreateGroup) Members() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.members...)
}

func (c *CreateGroup) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *CreateGroup) State() State {
	return c.submit.State()
}

// Submit creates the group owned by the signed-in user. The form is kept
// when the request fails.
func (c *CreateGroup) Submit(ctx context.Context) error {
	c.mu.Lock()
	name, description := strings.TrimSpace(c.name), c.description
	emails := append([]string(nil), c.members...)
	c.mu.Unlock()

	if name == "" {
		return invalid(c.toasts, "Group name is required!")
	}

	user, ok := c.session.Current()
	if !ok {
		return invalid(c.toasts, "Please login to create a group")
	}

	if err := c.submit.begin(); err != nil {
		return err
	}

	members := make([]models.Member, 0, len(emails))
	for _, email := range emails {
		members = append(members, models.Member{User: email, Role: models.RoleMember})
	}

	_, err := c.api.CreateGroup(ctx, models.GroupRequest{
		Name:        name,
		Description: description,
		Owner:       user.ID,
		Members:     members,
	})
	if err != nil {
		c.submit.end(RolledBack)
		failed(c.toasts, err, "Failed to create group", "Server error!")
		return err
	}

	c.mu.Lock()
	c.name, c.description, c.members = "", "", nil
	c.mu.Unlock()

	c.submit.end(Applied)
	c.toasts.Success("Group created successfully!")
	c.nav.Navigate(nav.MyTrip)
	return nil
}
