package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/planpal/planpal-services/internal/reminders"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var remindOnce bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Publish reminders for upcoming events on a schedule",
	Run: func(cmd *cobra.Command, args []string) {

		commonSetUp()
		defer planDB.Close()

		publisher := newPublisher()
		defer publisher.Close()

		job := &reminders.Job{
			Store:    planDB,
			Notifier: publisher,
			Window:   appCfg.Reminders.Window,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if remindOnce {
			sent, err := job.Run(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Reminder run failed")
			}
			log.Info().Int("sent", sent).Msg("Reminder run complete")
			return
		}

		scheduler, err := reminders.NewScheduler(appCfg.Reminders.Schedule, job, 5*time.Minute)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule reminders")
		}

		scheduler.Start()
		log.Info().Str("schedule", appCfg.Reminders.Schedule).Msg("Reminder scheduler started")

		<-ctx.Done()
		<-scheduler.Stop().Done()
		log.Info().Msg("Reminder scheduler stopped")
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "run the reminder job once and exit")
}
