package trips

import (
	"context"
	"errors"
	"net/http"
	"sync"
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

func (m *mockAPI) Groups(ctx context.Context) ([]models.Group, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]models.Group)
	return groups, args.Error(1)
}

func (m *mockAPI) CreateGroup(ctx context.Context, req models.GroupRequest) (*models.Group, error) {
	args := m.Called(ctx, req)
	group, _ := args.Get(0).(*models.Group)
	return group, args.Error(1)
}

func (m *mockAPI) UpdateGroup(ctx context.Context, groupID string, req models.GroupRequest) (*models.Group, error) {
	args := m.Called(ctx, groupID, req)
	group, _ := args.Get(0).(*models.Group)
	return group, args.Error(1)
}

func (m *mockAPI) DeleteGroup(ctx context.Context, groupID string) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *mockAPI) GroupEvents(ctx context.Context, groupID string) ([]models.Event, error) {
	args := m.Called(ctx, groupID)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *mockAPI) CreateEvent(ctx context.Context, groupID string, req models.EventRequest) (*models.Event, error) {
	args := m.Called(ctx, groupID, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockAPI) UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	args := m.Called(ctx, eventID, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockAPI) DeleteEvent(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

type recordingNavigator struct {
	mu      sync.Mutex
	visited []string
}

func (r *recordingNavigator) Navigate(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visited = append(r.visited, path)
	return true
}

var (
	groupA = models.Group{ID: "a", Name: "Goa Trip", Owner: "u1"}
	groupB = models.Group{ID: "b", Name: "Hampi", Owner: "u1"}
	groupC = models.Group{ID: "c", Name: "Coorg", Owner: "u1"}
)

func lastToast(t *testing.T, toasts *toast.Recorder) toast.Toast {
	t.Helper()
	last, ok := toasts.Last()
	require.True(t, ok, "expected a toast")
	return last
}

func loadedTrips(t *testing.T, groups ...models.Group) (*Trips, *mockAPI, *recordingNavigator, *toast.Recorder) {
	t.Helper()
	api := new(mockAPI)
	navigator := &recordingNavigator{}
	toasts := &toast.Recorder{}
	api.On("Groups", mock.Anything).Return(groups, nil).Once()

	trips := NewTrips(api, navigator, toasts)
	require.NoError(t, trips.Load(context.Background()))
	return trips, api, navigator, toasts
}

func TestTripsLoad_Failure(t *testing.T) {
	api := new(mockAPI)
	toasts := &toast.Recorder{}
	api.On("Groups", mock.Anything).Return(nil, &client.RemoteError{Status: http.StatusUnauthorized})

	trips := NewTrips(api, &recordingNavigator{}, toasts)
	err := trips.Load(context.Background())

	assert.Error(t, err)
	assert.Empty(t, trips.Groups())
	assert.Equal(t, "Could not load groups. Please login again.", lastToast(t, toasts).Message)
}

func TestTripsDelete_RemovesGroup(t *testing.T) {
	trips, api, _, toasts := loadedTrips(t, groupA, groupB)
	api.On("DeleteGroup", mock.Anything, "a").Return(nil)

	err := trips.Delete(context.Background(), "a", func(string) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, []models.Group{groupB}, trips.Groups())
	assert.Equal(t, Applied, trips.DeleteState())
	assert.Equal(t, toast.Toast{Level: toast.LevelSuccess, Message: "Group deleted successfully!"}, lastToast(t, toasts))
}

func TestTripsDelete_FailureRestoresOrder(t *testing.T) {
	trips, api, _, toasts := loadedTrips(t, groupA, groupB, groupC)
	api.On("DeleteGroup", mock.Anything, "b").Return(&client.RemoteError{Status: http.StatusForbidden, Message: "Only the group owner can delete this group"})

	err := trips.Delete(context.Background(), "b", nil)

	assert.Error(t, err)
	assert.Equal(t, []models.Group{groupA, groupB, groupC}, trips.Groups())
	assert.Equal(t, RolledBack, trips.DeleteState())
	assert.Equal(t, "Only the group owner can delete this group", lastToast(t, toasts).Message)
}

func TestTripsDelete_FailureAfterReload(t *testing.T) {
	tests := []struct {
		name     string
		reloaded []models.Group
		want     []models.Group
	}{
		{"group listed again", []models.Group{groupB, groupC}, []models.Group{groupB, groupC}},
		{"group missing", []models.Group{groupC}, []models.Group{groupC, groupB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips, api, _, _ := loadedTrips(t, groupA, groupB, groupC)
			api.On("Groups", mock.Anything).Return(tt.reloaded, nil).Once()
			api.On("DeleteGroup", mock.Anything, "b").Run(func(mock.Arguments) {
				require.NoError(t, trips.Load(context.Background()))
			}).Return(&client.TransportError{Err: errors.New("reset")})

			assert.Error(t, trips.Delete(context.Background(), "b", nil))
			assert.Equal(t, tt.want, trips.Groups())
			assert.Equal(t, RolledBack, trips.DeleteState())
		})
	}
}

func TestTripsDelete_NotConfirmed(t *testing.T) {
	trips, api, _, _ := loadedTrips(t, groupA)

	err := trips.Delete(context.Background(), "a", func(string) bool { return false })

	require.NoError(t, err)
	assert.Len(t, trips.Groups(), 1)
	assert.Equal(t, Idle, trips.DeleteState())
	api.AssertNotCalled(t, "DeleteGroup", mock.Anything, mock.Anything)
}

func TestTripsSaveEdit(t *testing.T) {
	trips, api, _, toasts := loadedTrips(t, groupA, groupB)

	require.True(t, trips.StartEdit("a"))
	id, edit := trips.Editing()
	assert.Equal(t, "a", id)
	assert.Equal(t, "Goa Trip", edit.Name)

	updated := groupA
	updated.Name = "Goa Trip 2026"
	updated.Description = "Beaches"
	api.On("UpdateGroup", mock.Anything, "a", models.GroupRequest{Name: "Goa Trip 2026", Description: "Beaches"}).Return(&updated, nil)

	trips.SetEdit(GroupEdit{Name: " Goa Trip 2026 ", Description: "Beaches"})
	require.NoError(t, trips.SaveEdit(context.Background()))

	groups := trips.Groups()
	assert.Equal(t, "Goa Trip 2026", groups[0].Name)
	assert.Equal(t, "Beaches", groups[0].Description)
	assert.Equal(t, groupB, groups[1])

	id, _ = trips.Editing()
	assert.Empty(t, id, "edit form closes after a successful save")
	assert.Equal(t, "Group updated successfully!", lastToast(t, toasts).Message)
}

func TestTripsSaveEdit_BlankNameMakesNoRequest(t *testing.T) {
	trips, api, _, toasts := loadedTrips(t, groupA)

	require.True(t, trips.StartEdit("a"))
	trips.SetEdit(GroupEdit{Name: "   "})

	err := trips.SaveEdit(context.Background())

	var validation *client.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, toast.Toast{Level: toast.LevelError, Message: "Group name cannot be empty"}, lastToast(t, toasts))
	assert.Equal(t, Idle, trips.SaveState())
	api.AssertNotCalled(t, "UpdateGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestTripsSaveEdit_FailureKeepsForm(t *testing.T) {
	trips, api, _, toasts := loadedTrips(t, groupA)
	api.On("UpdateGroup", mock.Anything, "a", mock.Anything).Return(nil, &client.TransportError{Err: errors.New("connection refused")})

	require.True(t, trips.StartEdit("a"))
	trips.SetEdit(GroupEdit{Name: "Renamed"})

	assert.Error(t, trips.SaveEdit(context.Background()))

	id, edit := trips.Editing()
	assert.Equal(t, "a", id)
	assert.Equal(t, "Renamed", edit.Name)
	assert.Equal(t, "Goa Trip", trips.Groups()[0].Name)
	assert.Equal(t, RolledBack, trips.SaveState())
	assert.Equal(t, "Server error!", lastToast(t, toasts).Message)
}

func TestTripsCreateEvent(t *testing.T) {
	trips, api, navigator, toasts := loadedTrips(t, groupA)
	date := time.Date(2026, 12, 20, 10, 0, 0, 0, time.UTC)
	api.On("CreateEvent", mock.Anything, "a", models.EventRequest{Title: "Beach day", Date: date, Location: "Baga"}).
		Return(&models.Event{ID: "e1", Title: "Beach day", Group: "a"}, nil)

	err := trips.CreateEvent(context.Background(), "a", EventInput{Title: "Beach day", Date: date, Location: " Baga "})

	require.NoError(t, err)
	assert.Equal(t, []string{"/myevents"}, navigator.visited)
	assert.Equal(t, "Event created successfully!", lastToast(t, toasts).Message)
}

func TestTripsCreateEvent_BlankTitle(t *testing.T) {
	trips, api, navigator, toasts := loadedTrips(t, groupA)

	err := trips.CreateEvent(context.Background(), "a", EventInput{Title: " "})

	assert.Error(t, err)
	assert.Empty(t, navigator.visited)
	assert.Equal(t, "Event title is required!", lastToast(t, toasts).Message)
	api.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestTripsCreateEvent_RapidSubmitWritesOnce(t *testing.T) {
	trips, api, _, _ := loadedTrips(t, groupA)

	release := make(chan struct{})
	started := make(chan struct{})
	api.On("CreateEvent", mock.Anything, "a", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.Event{ID: "e1"}, nil).Once()

	in := EventInput{Title: "Beach day", Date: time.Now()}
	done := make(chan error, 1)
	go func() { done <- trips.CreateEvent(context.Background(), "a", in) }()

	<-started
	assert.Equal(t, Pending, trips.EventState())
	assert.ErrorIs(t, trips.CreateEvent(context.Background(), "a", in), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Applied, trips.EventState())
	api.AssertNumberOfCalls(t, "CreateEvent", 1)
}

func newCreateGroup(t *testing.T) (*CreateGroup, *mockAPI, *recordingNavigator, *toast.Recorder) {
	t.Helper()
	api := new(mockAPI)
	store := session.NewStore()
	store.Login(models.UserRef{ID: "u1", Name: "Ann", Email: "ann@example.com"}, "tok")
	navigator := &recordingNavigator{}
	toasts := &toast.Recorder{}
	return NewCreateGroup(api, store, navigator, toasts), api, navigator, toasts
}

func TestCreateGroupSubmit(t *testing.T) {
	form, api, navigator, toasts := newCreateGroup(t)
	api.On("CreateGroup", mock.Anything, models.GroupRequest{
		Name:        "Goa Trip",
		Description: "December",
		Owner:       "u1",
		Members:     []models.Member{{User: "bob@example.com", Role: models.RoleMember}},
	}).Return(&models.Group{ID: "g1", Name: "Goa Trip"}, nil)

	form.SetName("Goa Trip")
	form.SetDescription("December")
	require.NoError(t, form.AddMember("bob@example.com"))

	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, Applied, form.State())
	assert.Empty(t, form.Name())
	assert.Empty(t, form.Members())
	assert.Equal(t, []string{"/mytrip"}, navigator.visited)
	assert.Equal(t, "Group created successfully!", lastToast(t, toasts).Message)
}

func TestCreateGroupSubmit_NoMembersSendsEmptyList(t *testing.T) {
	form, api, _, _ := newCreateGroup(t)
	api.On("CreateGroup", mock.Anything, mock.MatchedBy(func(req models.GroupRequest) bool {
		return req.Members != nil && len(req.Members) == 0
	})).Return(&models.Group{ID: "g1"}, nil)

	form.SetName("Goa Trip")
	require.NoError(t, form.Submit(context.Background()))
	api.AssertExpectations(t)
}

func TestCreateGroup_DuplicateMember(t *testing.T) {
	form, _, _, toasts := newCreateGroup(t)

	require.NoError(t, form.AddMember("bob@example.com"))
	assert.Error(t, form.AddMember("bob@example.com"))

	assert.Equal(t, []string{"bob@example.com"}, form.Members())
	assert.Equal(t, "User already added!", lastToast(t, toasts).Message)

	form.RemoveMember("bob@example.com")
	assert.Empty(t, form.Members())
}

func TestCreateGroupSubmit_BlankName(t *testing.T) {
	form, api, navigator, toasts := newCreateGroup(t)

	assert.Error(t, form.Submit(context.Background()))

	assert.Equal(t, "Group name is required!", lastToast(t, toasts).Message)
	assert.Empty(t, navigator.visited)
	api.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything)
}

func TestCreateGroupSubmit_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &client.RemoteError{Status: http.StatusBadRequest, Message: "Member x@example.com is not a registered user"}, "Member x@example.com is not a registered user"},
		{"no message", &client.RemoteError{Status: http.StatusInternalServerError}, "Failed to create group"},
		{"transport", &client.TransportError{Err: errors.New("dial tcp")}, "Server error!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, api, navigator, toasts := newCreateGroup(t)
			api.On("CreateGroup", mock.Anything, mock.Anything).Return(nil, tt.err)

			form.SetName("Goa Trip")
			require.NoError(t, form.AddMember("x@example.com"))

			assert.Error(t, form.Submit(context.Background()))
			assert.Equal(t, tt.want, lastToast(t, toasts).Message)
			assert.Equal(t, "Goa Trip", form.Name(), "form is kept")
			assert.Equal(t, []string{"x@example.com"}, form.Members())
			assert.Empty(t, navigator.visited)
			assert.Equal(t, RolledBack, form.State())
		})
	}
}
