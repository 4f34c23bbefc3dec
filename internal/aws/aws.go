package awsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
)

var ErrSecretNotFound = errors.New("secret not found")

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadAWSConfig initializes and returns an AWS SDK configuration.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// NewSecretsManagerClient initializes the AWS Secrets Manager client.
func NewSecretsManagerClient(cfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(cfg)
}

// NewSESClient initializes the AWS SES client.
func NewSESClient(cfg aws.Config) *sesv2.Client {
	return sesv2.NewFromConfig(cfg)
}

// GetSigningKey reads the token signing key from a secret. The secret is
// either the raw key or a JSON object with a "signingKey" field.
func GetSigningKey(ctx context.Context, sm SecretsAPI, secretName string) ([]byte, error) {
	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, secretName)
		}
		return nil, fmt.Errorf("failed to read secret %s: %w", secretName, err)
	}

	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if value == "" {
		return nil, fmt.Errorf("secret %s is empty", secretName)
	}

	if strings.HasPrefix(value, "{") {
		var payload struct {
			SigningKey string `json:"signingKey"`
		}
		if err := json.Unmarshal([]byte(value), &payload); err != nil {
			return nil, fmt.Errorf("failed to decode secret %s: %w", secretName, err)
		}
		if payload.SigningKey == "" {
			return nil, fmt.Errorf("secret %s has no signingKey", secretName)
		}
		return []byte(payload.SigningKey), nil
	}

	return []byte(value), nil
}
