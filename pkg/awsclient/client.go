package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/google/uuid"
)

// Service holds a resolved AWS configuration shared by all Bedrock clients.
// When RoleARN is set, credentials come from an STS assume-role provider
// so they refresh automatically; otherwise the default chain is used
// (env vars, shared config, instance profile).
type Service struct {
	cfg    aws.Config
	region string
}

type Options struct {
	Region  string
	RoleARN string
}

// New resolves the AWS session. Any failure here is a ConfigurationError
// from the orchestrator's point of view: callers absorb it into mock mode.
func New(ctx context.Context, opts Options) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	if opts.RoleARN != "" {
		stsClient := sts.NewFromConfig(cfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, opts.RoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = "bedrock-service-" + uuid.NewString()
			},
		)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return &Service{cfg: cfg, region: opts.Region}, nil
}

// Config returns the resolved aws.Config for constructing service clients.
func (s *Service) Config() aws.Config {
	return s.cfg
}

func (s *Service) Region() string {
	return s.region
}
