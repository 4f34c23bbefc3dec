// Package reminders publishes reminder activity for upcoming events on a
// cron schedule.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/planpal/planpal-services/internal/events"
	"github.com/planpal/planpal-services/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is the persistence the reminder job needs.
type Store interface {
	GetUpcomingEvents(ctx context.Context, from, to time.Time) ([]models.Event, error)
	MarkReminded(ctx context.Context, eventID string, at time.Time) error
	PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error)
}

type Job struct {
	Store    Store
	Notifier events.Notifier
	Window   time.Duration
	Now      func() time.Time
}

// Run publishes one reminder per upcoming event and returns how many were
// sent. An event is marked reminded only once its activity was published.
func (j *Job) Run(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	if j.Now != nil {
		now = j.Now()
	}

	upcoming, err := j.Store.GetUpcomingEvents(ctx, now, now.Add(j.Window))
	if err != nil {
		return 0, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	sent := 0
	for _, event := range upcoming {
		err := j.Notifier.Notify(ctx, models.Activity{
			Type:      models.ActivityEventReminder,
			GroupID:   event.Group,
			EventID:   event.ID,
			Timestamp: now.Unix(),
		})
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to publish reminder")
			continue
		}

		if err := j.Store.MarkReminded(ctx, event.ID, now); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to mark event reminded")
			continue
		}
		sent++
	}

	// Housekeeping
	purged, err := j.Store.PurgeRevokedTokens(ctx, now)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to purge revoked tokens")
	} else if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Purged expired token revocations")
	}

	return sent, nil
}

// NewScheduler registers the job on a cron schedule. The caller starts and
// stops the returned scheduler.
func NewScheduler(spec string, job *Job, timeout time.Duration) (*cron.Cron, error) {
	logger := log.Logger.With().Str("component", "reminders").Logger()
	cronLogger := cron.PrintfLogger(&logger)

	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sent, err := job.Run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Reminder run failed")
			return
		}
		logger.WithLevel(levelFor(sent)).Int("sent", sent).Msg("Reminder run complete")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return c, nil
}

func levelFor(sent int) zerolog.Level {
	if sent == 0 {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
