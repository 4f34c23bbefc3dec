package appconfig

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host      string          `yaml:"host"`
	BasePath  string          `yaml:"basePath"`
	DocsPath  string          `yaml:"docsPath"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Pulsar    PulsarConfig    `yaml:"pulsar"`
	AWS       AWSConfig       `yaml:"aws"`
	Reminders RemindersConfig `yaml:"reminders"`
	Client    ClientConfig    `yaml:"client"`
	Tunnel    TunnelConfig    `yaml:"tunnel"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// AuthConfig defines how bearer tokens are signed. SigningKeySecret, when
// set, names an AWS Secrets Manager secret that overrides SigningKey.
type AuthConfig struct {
	SigningKey       string        `yaml:"signingKey"`
	SigningKeySecret string        `yaml:"signingKeySecret"`
	TokenTTL         time.Duration `yaml:"tokenTTL"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type SESConfig struct {
	FromAddress string `yaml:"fromAddress"`
}

type AWSConfig struct {
	Region string    `yaml:"region"`
	SES    SESConfig `yaml:"ses"`
}

// RemindersConfig controls the upcoming event reminder job
type RemindersConfig struct {
	Schedule string        `yaml:"schedule"`
	Window   time.Duration `yaml:"window"`
}

// ClientConfig is used by the trip commands talking to a running service
type ClientConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

type TunnelConfig struct {
	SSHUser        string `yaml:"sshUser"`
	SSHHost        string `yaml:"sshHost"`
	SSHPort        string `yaml:"sshPort"`
	RemoteHost     string `yaml:"remoteHost"`
	RemotePort     string `yaml:"remotePort"`
	LocalPort      string `yaml:"localPort"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	return render(tmpl, loadEnvVars())
}

func render(tmpl *template.Template, envVars map[string]string) (*Config, error) {
	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, envVars); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	// Load and unmarshal the YAML
	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.DocsPath == "" {
		c.DocsPath = "/docs"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Reminders.Schedule == "" {
		c.Reminders.Schedule = "0 * * * *"
	}
	if c.Reminders.Window == 0 {
		c.Reminders.Window = 24 * time.Hour
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 10 * time.Second
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
