package config

import (
	"context"
	"fmt"

	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/paramstore"
)

// Secrets are the values the server cannot start without.
type Secrets struct {
	ConnectionString string
	APIKey           string
}

// Resolve reads secrets from local configuration in development and from the
// parameter store everywhere else. store may be nil in development.
func Resolve(ctx context.Context, cfg *Config, store paramstore.Store) (Secrets, error) {
	if cfg.IsDevelopment() {
		s := Secrets{ConnectionString: cfg.DSN(), APIKey: cfg.APIKey}
		if s.APIKey == "" {
			return Secrets{}, appErrors.ErrMissingAPIKey
		}
		return s, nil
	}

	if store == nil {
		return Secrets{}, fmt.Errorf("environment %q needs a parameter store", cfg.Environment)
	}

	conn, err := store.GetParameter(ctx, cfg.ParameterName(cfg.ParameterStore.ConnectionStringParameterName))
	if err != nil {
		return Secrets{}, fmt.Errorf("resolve connection string: %w", err)
	}

	key, err := store.GetParameter(ctx, cfg.ParameterName(cfg.ParameterStore.APIKeyParameterName))
	if err != nil {
		return Secrets{}, fmt.Errorf("resolve api key: %w", err)
	}
	if key == "" {
		return Secrets{}, appErrors.ErrMissingAPIKey
	}

	return Secrets{ConnectionString: conn, APIKey: key}, nil
}
