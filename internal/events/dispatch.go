package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog/log"
)

// Directory resolves the records an activity refers to.
type Directory interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Mailer sends the notification emails.
type Mailer interface {
	SendGroupInvitation(ctx context.Context, to []string, groupName string) error
	SendEventNotice(ctx context.Context, to []string, groupName string, event models.Event, updated bool) error
	SendReminder(ctx context.Context, to []string, groupName string, event models.Event) error
}

// Dispatcher turns activity messages into notification emails.
type Dispatcher struct {
	Directory Directory
	Mailer    Mailer
}

// Handle processes one raw activity payload.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	var activity models.Activity
	if err := json.Unmarshal(payload, &activity); err != nil {
		return fmt.Errorf("invalid activity payload: %w", err)
	}

	logger := log.With().Str("type", activity.Type).Str("group_id", activity.GroupID).Logger()

	switch activity.Type {
	case models.ActivityGroupCreated:
		group, err := d.Directory.GetGroup(ctx, activity.GroupID)
		if err != nil {
			return err
		}
		ids := activity.Members
		if len(ids) == 0 {
			for _, m := range group.Members {
				ids = append(ids, m.User)
			}
		}
		to := d.emails(ctx, ids, activity.ActorID)
		if len(to) == 0 {
			logger.Debug().Msg("No members to invite")
			return nil
		}
		return d.Mailer.SendGroupInvitation(ctx, to, group.Name)

	case models.ActivityEventCreated, models.ActivityEventUpdated, models.ActivityEventReminder:
		group, err := d.Directory.GetGroup(ctx, activity.GroupID)
		if err != nil {
			return err
		}
		event, err := d.Directory.GetEvent(ctx, activity.EventID)
		if err != nil {
			return err
		}
		to := d.emails(ctx, memberIDs(*group), activity.ActorID)
		if len(to) == 0 {
			return nil
		}
		if activity.Type == models.ActivityEventReminder {
			return d.Mailer.SendReminder(ctx, to, group.Name, *event)
		}
		return d.Mailer.SendEventNotice(ctx, to, group.Name, *event, activity.Type == models.ActivityEventUpdated)

	default:
		logger.Debug().Msg("Ignoring activity")
		return nil
	}
}

// emails looks up the addresses of userIDs, skipping the actor and users
// that no longer exist.
func (d *Dispatcher) emails(ctx context.Context, userIDs []string, skip string) []string {
	var to []string
	seen := map[string]bool{}
	for _, id := range userIDs {
		if id == skip || seen[id] {
			continue
		}
		seen[id] = true

		user, err := d.Directory.GetUser(ctx, id)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("user_id", id).Msg("Skipping recipient")
			}
			continue
		}
		to = append(to, user.Email)
	}
	return to
}

func memberIDs(group models.Group) []string {
	ids := []string{group.Owner}
	for _, m := range group.Members {
		ids = append(ids, m.User)
	}
	return ids
}
