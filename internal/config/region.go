package config

import (
	"context"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// FallbackRegion is used when the AWS shared config chain names no region
const FallbackRegion = "us-east-1"

// AccountIDEnv names the environment variable consulted for the account id
const AccountIDEnv = "AWS_ACCOUNT_ID"

// DefaultRegion returns the region from the AWS shared config chain
// (AWS_REGION, AWS_DEFAULT_REGION, ~/.aws/config profile) or FallbackRegion.
// No credentials are resolved and no request is made.
func DefaultRegion(ctx context.Context) string {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil || cfg.Region == "" {
		return FallbackRegion
	}
	return cfg.Region
}

// DefaultAccountID returns the account id from the environment, if set
func DefaultAccountID() string {
	return strings.TrimSpace(os.Getenv(AccountIDEnv))
}
