package cmd

import (
	"context"
	"os/signal"
	"syscall"

	awsclient "github.com/planpal/planpal-services/internal/aws"
	"github.com/planpal/planpal-services/internal/events"
	"github.com/planpal/planpal-services/internal/mailer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer that emails group invitations, event notices and reminders",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer planDB.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS config")
		}

		dispatcher := &events.Dispatcher{
			Directory: planDB,
			Mailer: &mailer.Mailer{
				Client: awsclient.NewSESClient(awsCfg),
				From:   appCfg.AWS.SES.FromAddress,
			},
		}

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer, appCfg.Pulsar.Subscription)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		log.Info().Str("topic", appCfg.Pulsar.TopicConsumer).Msg("Waiting for messages...")
		if err := consumer.Run(ctx, dispatcher.Handle); err != nil {
			log.Error().Err(err).Msg("Consumer stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
