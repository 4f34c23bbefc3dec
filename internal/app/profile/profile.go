// Package profile is the profile and settings page of the client.
package profile

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/planpal/planpal-services/client"
	"github.com/planpal/planpal-services/internal/app/session"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/planpal/planpal-services/models"
)

var (
	ErrSignedOut = errors.New("not signed in")
	ErrBusy      = errors.New("request already in progress")
)

type API interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	Availability(ctx context.Context, userID string) ([]string, error)
	UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID string, req models.PasswordChange) error
}

// Form holds the editable profile fields.
type Form struct {
	Name        string
	Email       string
	Location    string
	Preferences models.Preferences
}

// Page is the profile of the signed-in user together with their
// availability slots.
type Page struct {
	api     API
	session *session.Store
	toasts  toast.Notifier

	mu           sync.Mutex
	form         Form
	availability []string
	saving       bool
	changing     bool
}

func New(api API, store *session.Store, toasts toast.Notifier) *Page {
	return &Page{api: api, session: store, toasts: toasts}
}

func (p *Page) userID() (string, error) {
	user, ok := p.session.Current()
	if !ok {
		return "", ErrSignedOut
	}
	return user.ID, nil
}

// Load fetches the profile and availability of the signed-in user. Failing
// to fetch availability leaves the list empty without failing the load.
func (p *Page) Load(ctx context.Context) error {
	id, err := p.userID()
	if err != nil {
		return err
	}

	user, err := p.api.GetUser(ctx, id)
	if err != nil {
		if client.IsTransport(err) {
			p.toasts.Error("Server error while fetching profile")
		} else {
			p.toasts.Error(client.UserMessage(err, "Failed to fetch profile"))
		}
		return err
	}

	slots, err := p.api.Availability(ctx, id)
	if err != nil {
		slots = nil
	}

	p.mu.Lock()
	p.form = Form{
		Name:        user.Name,
		Email:       user.Email,
		Location:    user.Location,
		Preferences: user.Preferences,
	}
	p.availability = append([]string{}, slots...)
	p.mu.Unlock()
	return nil
}

func (p *Page) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Page) SetForm(form Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = form
}

func (p *Page) Availability() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.availability...)
}

// AddAvailability appends an empty slot.
func (p *Page) AddAvailability() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.availability = append(p.availability, "")
}

func (p *Page) SetAvailability(i int, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.availability) {
		return false
	}
	p.availability[i] = value
	return true
}

func (p *Page) RemoveAvailability(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.availability) {
		return false
	}
	p.availability = append(p.availability[:i:i], p.availability[i+1:]...)
	return true
}

// Save stores the profile and the availability slots. Blank slots are
// dropped and the rest trimmed before sending; the page keeps the slots as
// sent and the profile fields the service returned.
func (p *Page) Save(ctx context.Context) error {
	id, err := p.userID()
	if err != nil {
		return err
	}

	p.mu.Lock()
	form := p.form
	slots := cleanSlots(p.availability)
	if p.saving {
		p.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" {
		p.mu.Unlock()
		p.toasts.Warning("Please fill out all profile fields!")
		return &client.ValidationError{Message: "Please fill out all profile fields!"}
	}
	p.saving = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.saving = false
		p.mu.Unlock()
	}()

	resp, err := p.api.UpdateUser(ctx, id, models.ProfileUpdate{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		Location:     strings.TrimSpace(form.Location),
		Preferences:  form.Preferences,
		Availability: slots,
	})
	if err != nil {
		if client.IsTransport(err) {
			p.toasts.Error("Server error while updating profile")
		} else {
			p.toasts.Error(client.UserMessage(err, "Failed to update profile"))
		}
		return err
	}

	p.mu.Lock()
	p.availability = slots
	p.form = Form{
		Name:        resp.User.Name,
		Email:       resp.User.Email,
		Location:    resp.User.Location,
		Preferences: resp.User.Preferences,
	}
	p.mu.Unlock()

	// Keep the session identity in step with a renamed profile.
	if current, ok := p.session.Current(); ok && current.ID == resp.User.ID {
		p.session.Login(resp.User.Ref(), p.session.Token())
	}

	message := resp.Message
	if message == "" {
		message = "Profile updated successfully!"
	}
	p.toasts.Success(message)
	return nil
}

// ChangePassword changes the password of the signed-in user. Both new
// password fields must match.
func (p *Page) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		p.toasts.Warning("Please fill out all password fields!")
		return &client.ValidationError{Message: "Please fill out all password fields!"}
	}
	if next != confirm {
		p.toasts.Error("New passwords do not match!")
		return &client.ValidationError{Message: "New passwords do not match!"}
	}

	id, err := p.userID()
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.changing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.changing = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.changing = false
		p.mu.Unlock()
	}()

	err = p.api.ChangePassword(ctx, id, models.PasswordChange{CurrentPassword: current, NewPassword: next})
	if err != nil {
		if client.IsTransport(err) {
			p.toasts.Error("Server error while updating password")
		} else {
			p.toasts.Error(client.UserMessage(err, "Failed to update password"))
		}
		return err
	}

	p.toasts.Success("Password updated successfully!")
	return nil
}

func cleanSlots(slots []string) []string {
	out := []string{}
	for _, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
