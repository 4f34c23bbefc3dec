package trips

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

var (
	day1 = time.Date(2026, 12, 20, 10, 0, 0, 0, time.UTC)
	day2 = day1.Add(24 * time.Hour)
	day3 = day1.Add(48 * time.Hour)

	tripGroup = models.Group{
		ID:    "g1",
		Name:  "Goa Trip",
		Owner: "owner",
		Members: []models.Member{
			{User: "admin", Role: models.RoleAdmin},
			{User: "member", Role: models.RoleMember},
			{User: "other", Role: models.RoleMember},
		},
	}
	hikeGroup = models.Group{ID: "g2", Name: "Hike", Owner: "member"}
)

func loadedEvents(t *testing.T, userID string) (*Events, *mockAPI, *toast.Recorder) {
	t.Helper()
	api := new(mockAPI)
	store := session.NewStore()
	store.Login(models.UserRef{ID: userID}, "tok")
	toasts := &toast.Recorder{}

	api.On("Groups", mock.Anything).Return([]models.Group{tripGroup, hikeGroup}, nil).Once()
	api.On("GroupEvents", mock.Anything, "g1").Return([]models.Event{
		{ID: "e3", Title: "Dinner", Date: day3, Creator: "member", Group: "g1"},
		{ID: "e1", Title: "Beach", Date: day1, Creator: "admin", Group: "g1"},
	}, nil).Once()
	api.On("GroupEvents", mock.Anything, "g2").Return([]models.Event{
		{ID: "e2", Title: "Trek", Date: day2, Creator: "member", Group: "g2"},
	}, nil).Once()

	events := NewEvents(api, store, toasts)
	require.NoError(t, events.Load(context.Background()))
	return events, api, toasts
}

func eventIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Event.ID)
	}
	return ids
}

func TestEventsLoad_SortsAndAttachesGroup(t *testing.T) {
	events, _, _ := loadedEvents(t, "member")

	items := events.Items()
	assert.Equal(t, []string{"e1", "e2", "e3"}, eventIDs(items))
	assert.Equal(t, "Goa Trip", items[0].Group.Name)
	assert.Equal(t, "Hike", items[1].Group.Name)
}

func TestEventsLoad_Failure(t *testing.T) {
	api := new(mockAPI)
	toasts := &toast.Recorder{}
	api.On("Groups", mock.Anything).Return([]models.Group{tripGroup}, nil)
	api.On("GroupEvents", mock.Anything, "g1").Return(nil, &client.TransportError{Err: errors.New("timeout")})

	events := NewEvents(api, session.NewStore(), toasts)

	assert.Error(t, events.Load(context.Background()))
	assert.Empty(t, events.Items())
	assert.Equal(t, "Error fetching events", lastToast(t, toasts).Message)
}

func TestEventsCanEdit(t *testing.T) {
	tests := []struct {
		user string
		want bool
	}{
		{"member", true},
		{"admin", true},
		{"owner", true},
		{"other", false},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			events, _, _ := loadedEvents(t, tt.user)
			dinner := events.Items()[2]
			assert.Equal(t, tt.want, events.CanEdit(dinner))
		})
	}
}

func TestEventsCanEdit_SignedOut(t *testing.T) {
	events := NewEvents(new(mockAPI), session.NewStore(), &toast.Recorder{})
	assert.False(t, events.CanEdit(Item{Event: models.Event{Creator: "member"}, Group: tripGroup}))
}

func TestEventsSaveEdit_MergesServerEvent(t *testing.T) {
	events, api, toasts := loadedEvents(t, "member")

	require.True(t, events.StartEdit("e2"))
	_, in := events.Editing()
	assert.Equal(t, "Trek", in.Title)
	assert.Equal(t, day2, in.Date)

	in.Title = "Sunrise trek"
	events.SetEdit(in)

	server := models.Event{ID: "e2", Title: "Sunrise trek", Date: day2, Creator: "member", Group: "g2", Location: "Nandi Hills"}
	api.On("UpdateEvent", mock.Anything, "e2", models.EventRequest{Title: "Sunrise trek", Date: day2}).Return(&server, nil)

	require.NoError(t, events.SaveEdit(context.Background()))

	items := events.Items()
	assert.Equal(t, server, items[1].Event)
	assert.Equal(t, "Hike", items[1].Group.Name)
	assert.Equal(t, Applied, events.SaveState())
	assert.Equal(t, "Event updated successfully", lastToast(t, toasts).Message)

	id, _ := events.Editing()
	assert.Empty(t, id)
}

func TestEventsSaveEdit_BlankTitle(t *testing.T) {
	events, api, toasts := loadedEvents(t, "member")

	require.True(t, events.StartEdit("e1"))
	events.SetEdit(EventInput{Title: ""})

	assert.Error(t, events.SaveEdit(context.Background()))
	assert.Equal(t, "Event title is required", lastToast(t, toasts).Message)
	api.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything)

	events.CancelEdit()
	id, in := events.Editing()
	assert.Empty(t, id)
	assert.Equal(t, EventInput{}, in)
}

func TestEventsDelete(t *testing.T) {
	events, api, toasts := loadedEvents(t, "member")
	api.On("DeleteEvent", mock.Anything, "e1").Return(nil)

	require.NoError(t, events.Delete(context.Background(), "e1", nil))

	assert.Equal(t, []string{"e2", "e3"}, eventIDs(events.Items()))
	assert.Equal(t, "Event deleted successfully!", lastToast(t, toasts).Message)
}

func TestEventsDelete_FailureRestores(t *testing.T) {
	events, api, toasts := loadedEvents(t, "other")
	api.On("DeleteEvent", mock.Anything, "e2").Return(&client.RemoteError{Status: http.StatusForbidden})

	assert.Error(t, events.Delete(context.Background(), "e2", func(string) bool { return true }))

	assert.Equal(t, []string{"e1", "e2", "e3"}, eventIDs(events.Items()))
	assert.Equal(t, RolledBack, events.DeleteState())
	assert.Equal(t, toast.Toast{Level: toast.LevelError, Message: "Error deleting event"}, lastToast(t, toasts))
}

func TestEventsDelete_FailureAfterReload(t *testing.T) {
	events, api, _ := loadedEvents(t, "member")
	api.On("Groups", mock.Anything).Return([]models.Group{hikeGroup}, nil).Once()
	api.On("GroupEvents", mock.Anything, "g2").Return([]models.Event{
		{ID: "e2", Title: "Trek", Date: day2, Creator: "member", Group: "g2"},
	}, nil).Once()
	api.On("DeleteEvent", mock.Anything, "e2").Run(func(mock.Arguments) {
		require.NoError(t, events.Load(context.Background()))
	}).Return(&client.RemoteError{Status: http.StatusForbidden})

	assert.Error(t, events.Delete(context.Background(), "e2", nil))

	assert.Equal(t, []string{"e2"}, eventIDs(events.Items()))
	assert.Equal(t, RolledBack, events.DeleteState())
}
