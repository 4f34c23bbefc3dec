package services

import (
	"context"
	"time"

	"github.com/planpal/planpal-services/models"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	return userArg(args, 0), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return userArg(args, 0), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, upd)
	return userArg(args, 0), args.Error(1)
}

func (m *MockStore) UpdatePassword(ctx context.Context, userID, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *MockStore) GetAvailability(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	slots, _ := args.Get(0).([]string)
	return slots, args.Error(1)
}

func (m *MockStore) SetAvailability(ctx context.Context, userID string, slots []string) error {
	args := m.Called(ctx, userID, slots)
	return args.Error(0)
}

func (m *MockStore) CreateGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	args := m.Called(ctx, group)
	return groupArg(args, 0), args.Error(1)
}

func (m *MockStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	args := m.Called(ctx, groupID)
	return groupArg(args, 0), args.Error(1)
}

func (m *MockStore) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	groups, _ := args.Get(0).([]models.Group)
	return groups, args.Error(1)
}

func (m *MockStore) UpdateGroup(ctx context.Context, groupID, name, description string) (*models.Group, error) {
	args := m.Called(ctx, groupID, name, description)
	return groupArg(args, 0), args.Error(1)
}

func (m *MockStore) DeleteGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockStore) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	args := m.Called(ctx, event)
	return eventArg(args, 0), args.Error(1)
}

func (m *MockStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	return eventArg(args, 0), args.Error(1)
}

func (m *MockStore) GetGroupEvents(ctx context.Context, groupID string) ([]models.Event, error) {
	args := m.Called(ctx, groupID)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *MockStore) UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	args := m.Called(ctx, eventID, req)
	return eventArg(args, 0), args.Error(1)
}

func (m *MockStore) DeleteEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockStore) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockEventPublisher) Notify(ctx context.Context, activity models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}

func userArg(args mock.Arguments, i int) *models.User {
	u, _ := args.Get(i).(*models.User)
	return u
}

func groupArg(args mock.Arguments, i int) *models.Group {
	g, _ := args.Get(i).(*models.Group)
	return g
}

func eventArg(args mock.Arguments, i int) *models.Event {
	e, _ := args.Get(i).(*models.Event)
	return e
}
