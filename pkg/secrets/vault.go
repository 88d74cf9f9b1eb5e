package secrets

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"support-ops-dashboard/backend/pkg/logger"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig holds configuration for the Vault client
type VaultConfig struct {
	Address     string
	Token       string
	Namespace   string
	SecretsPath string
	Timeout     time.Duration
}

// VaultManager reads secrets from a HashiCorp Vault KV mount, falling back
// to environment variables for keys Vault does not hold.
type VaultManager struct {
	client   *vault.Client
	config   VaultConfig
	env      *EnvManager
	log      *logger.Logger
	mu       sync.RWMutex
	cache    map[string]string
	cacheTTL time.Duration
	cachedAt time.Time
}

// NewVaultManager creates a Vault-backed manager from VAULT_* environment
// variables. Returns an error when VAULT_ADDR or VAULT_TOKEN is missing.
func NewVaultManager(log *logger.Logger) (*VaultManager, error) {
	config := VaultConfig{
		Address:     os.Getenv("VAULT_ADDR"),
		Token:       os.Getenv("VAULT_TOKEN"),
		Namespace:   os.Getenv("VAULT_NAMESPACE"),
		SecretsPath: os.Getenv("VAULT_SECRETS_PATH"),
		Timeout:     10 * time.Second,
	}
	if config.Address == "" {
		return nil, fmt.Errorf("no vault address provided")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("no vault token provided")
	}
	if config.SecretsPath == "" {
		config.SecretsPath = "secret/data/support-ops"
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = config.Address
	vaultConfig.Timeout = config.Timeout

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return &VaultManager{
		client:   client,
		config:   config,
		env:      NewEnvManager(),
		log:      log,
		cache:    make(map[string]string),
		cacheTTL: 5 * time.Minute,
	}, nil
}

func (m *VaultManager) GetSecret(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	if value, ok := m.cache[key]; ok && time.Since(m.cachedAt) < m.cacheTTL {
		m.mu.RUnlock()
		return value, nil
	}
	m.mu.RUnlock()

	secret, err := m.client.Logical().ReadWithContext(ctx, m.config.SecretsPath)
	if err != nil {
		m.log.Warn("vault read failed, falling back to environment", "key", key, "error", err.Error())
		return m.env.GetSecret(ctx, key)
	}
	if secret == nil || secret.Data == nil {
		return m.env.GetSecret(ctx, key)
	}

	// KV v2 nests the payload under "data"
	data := secret.Data
	if nested, ok := secret.Data["data"].(map[string]interface{}); ok {
		data = nested
	}

	value, ok := data[key].(string)
	if !ok || value == "" {
		return m.env.GetSecret(ctx, key)
	}

	m.mu.Lock()
	m.cache[key] = value
	m.cachedAt = time.Now()
	m.mu.Unlock()

	return value, nil
}

func (m *VaultManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if value, err := m.GetSecret(ctx, key); err == nil {
		return value
	}
	return defaultValue
}

// NewManager returns a Vault manager when VAULT_ADDR is set, otherwise the
// environment fallback.
func NewManager(log *logger.Logger) Manager {
	if os.Getenv("VAULT_ADDR") == "" {
		return NewEnvManager()
	}
	manager, err := NewVaultManager(log)
	if err != nil {
		log.Warn("vault unavailable, using environment secrets", "error", err.Error())
		return NewEnvManager()
	}
	return manager
}
