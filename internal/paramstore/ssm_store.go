package paramstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ErrEmptyParameter is returned when a parameter exists but carries no value.
var ErrEmptyParameter = errors.New("parameter has no value")

// Store reads named secrets.
type Store interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ssmAPI is the subset of *ssm.Client the store needs.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMStore reads SecureString and String parameters from AWS Systems Manager.
type SSMStore struct {
	Client ssmAPI
}

var _ Store = (*SSMStore)(nil)

// NewSSMStore builds a client from the default AWS credential chain. An empty
// region leaves region resolution to the chain.
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SSMStore{Client: ssm.NewFromConfig(cfg)}, nil
}

func (s *SSMStore) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := s.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("get parameter %s: %w", name, ErrEmptyParameter)
	}
	return aws.ToString(out.Parameter.Value), nil
}
