package services

import (
	"context"
	"time"

	"github.com/planpal/planpal-services/internal/appconfig"
	"github.com/planpal/planpal-services/internal/authn"
	"github.com/planpal/planpal-services/internal/events"
	"github.com/planpal/planpal-services/models"
)

// Store is the persistence used by the request services.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	GetAvailability(ctx context.Context, userID string) ([]string, error)
	SetAvailability(ctx context.Context, userID string, slots []string) error

	CreateGroup(ctx context.Context, group models.Group) (*models.Group, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetUserGroups(ctx context.Context, userID string) ([]models.Group, error)
	UpdateGroup(ctx context.Context, groupID, name, description string) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error

	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	GetGroupEvents(ctx context.Context, groupID string) ([]models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error

	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config    *appconfig.Config
	DB        Store
	Publisher events.Notifier
	Tokens    *authn.TokenManager
}
