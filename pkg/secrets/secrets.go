package secrets

import (
	"context"
	"errors"
	"os"
)

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// ErrSecretNotFound is returned when a key exists in no backing source.
var ErrSecretNotFound = errors.New("secret not found")

// EnvManager reads secrets from environment variables. It is the fallback
// when Vault is not configured.
type EnvManager struct{}

func NewEnvManager() *EnvManager {
	return &EnvManager{}
}

func (m *EnvManager) GetSecret(ctx context.Context, key string) (string, error) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value, nil
	}
	return "", ErrSecretNotFound
}

func (m *EnvManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if value, err := m.GetSecret(ctx, key); err == nil {
		return value
	}
	return defaultValue
}
