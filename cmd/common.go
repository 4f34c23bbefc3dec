package cmd

import (
	"context"

	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/appconfig"
	awsclient "github.com/planpal/planpal-services/internal/aws"
	"github.com/planpal/planpal-services/internal/events"
	"github.com/rs/zerolog/log"
)

var (
	appCfg *appconfig.Config
	planDB *db.PlanDB
)

// publisher is a Notifier holding a connection that must be closed.
type publisher interface {
	events.Notifier
	Close()
}

// loadConfig sets up logging and reads the config file.
func loadConfig() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
}

// commonSetUp loads the config and connects to the database.
func commonSetUp() {
	loadConfig()

	var err error
	planDB, err = db.NewPlanDB(appCfg.Database.Source, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PlanDB")
	}
}

// newPublisher connects to Pulsar, or returns a publisher that drops
// activity when no Pulsar URL is configured.
func newPublisher() publisher {
	if appCfg.Pulsar.URL == "" {
		log.Warn().Msg("Pulsar is not configured; activity will not be published")
		return events.NopNotifier{}
	}

	p, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return p
}

// signingKey returns the token signing key, preferring the one kept in
// Secrets Manager.
func signingKey(ctx context.Context) []byte {
	if appCfg.Auth.SigningKeySecret == "" {
		if appCfg.Auth.SigningKey == "" {
			log.Fatal().Msg("No token signing key configured")
		}
		return []byte(appCfg.Auth.SigningKey)
	}

	awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	key, err := awsclient.GetSigningKey(ctx, awsclient.NewSecretsManagerClient(awsCfg), appCfg.Auth.SigningKeySecret)
	if err != nil {
		log.Fatal().Err(err).Str("secret", appCfg.Auth.SigningKeySecret).Msg("Failed to read signing key")
	}
	return key
}
