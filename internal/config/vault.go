package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"resumelift/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/sony/gobreaker/v2"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`

	// Circuit breaker around secret reads. Vault is the only transient
	// dependency in the process; the engine itself never touches the network.
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig tunes the gobreaker instance around Vault secret
// reads. The breaker trips once MinRequests have been seen and the failure
// ratio reaches FailureThreshold.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"`
}

// VaultSecrets names the KVv2 paths the service reads.
type VaultSecrets struct {
	// APIKeys points at a secret whose "keys" field is a comma-separated
	// string of accepted API keys.
	APIKeys string `mapstructure:"apiKeys"`
	// TLSCerts points at a secret carrying "cert", "key" and "ca" PEM fields.
	TLSCerts string `mapstructure:"tlsCerts"`
}

// VaultClient wraps the Vault API client with logging and a circuit breaker.
type VaultClient struct {
	client  *api.Client
	config  VaultConfig
	logger  *errors.Logger
	breaker *gobreaker.CircuitBreaker[*api.Secret]
}

// NewVaultClient connects to Vault and verifies the connection. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	if logger != nil {
		logger.Debug("Initializing Vault client",
			"address", config.Address,
			"namespace", config.Namespace,
			"token_file", config.TokenFile,
			"has_token", config.Token != "")
	}

	client, err := newVaultAPIClient(config, logger)
	if err != nil {
		return nil, err
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)
	if logger != nil {
		logger.Debug("Vault token configured", "token_prefix", token[:min(len(token), 8)]+"...")
	}

	if err := checkVaultConnection(client, config.Address, logger); err != nil {
		return nil, err
	}

	return &VaultClient{
		client:  client,
		config:  config,
		logger:  logger,
		breaker: newVaultBreaker(config.CircuitBreaker, logger),
	}, nil
}

// newVaultBreaker builds the circuit breaker protecting secret reads. Returns
// nil when disabled; reads then go straight through.
func newVaultBreaker(cfg CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[*api.Secret] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "vault-secrets",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return gobreaker.NewCircuitBreaker[*api.Secret](settings)
}

// BreakerStats reports the secret-read circuit breaker state for the health
// endpoint.
func (vc *VaultClient) BreakerStats() map[string]any {
	if vc == nil || vc.breaker == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    vc.breaker.Name(),
		"state":   vc.breaker.State().String(),
		"counts":  vc.breaker.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the secret-read circuit breaker is closed. A
// client without a breaker is always healthy.
func (vc *VaultClient) IsHealthy() bool {
	if vc == nil || vc.breaker == nil {
		return true
	}
	return vc.breaker.State() == gobreaker.StateClosed
}

func newVaultAPIClient(config VaultConfig, logger *errors.Logger) (*api.Client, error) {
	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to create Vault client")
		}
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
		if logger != nil {
			logger.Debug("Set Vault namespace", "namespace", config.Namespace)
		}
	}

	return client, nil
}

// resolveVaultToken takes the inline token when present, otherwise reads and
// trims the token file.
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		if logger != nil {
			logger.Debug("Reading Vault token from file", "file", config.TokenFile)
		}
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		if logger != nil {
			logger.LogError(fmt.Errorf("vault token is required"), "Vault token is required when Vault is enabled")
		}
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// checkVaultConnection probes the health endpoint so a bad address or sealed
// Vault fails at startup, not at first secret read.
func checkVaultConnection(client *api.Client, address string, logger *errors.Logger) error {
	if logger != nil {
		logger.Debug("Testing Vault connection", "address", address)
	}

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", address)
		}
		return fmt.Errorf("failed to connect to vault: %w", err)
	}

	if logger != nil {
		logger.Info("Successfully connected to Vault",
			"address", address,
			"version", health.Version,
			"sealed", health.Sealed,
			"cluster_name", health.ClusterName)
	}

	return nil
}

// VaultSecret is one KVv2 read: the payload plus its monotonic version.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 reads a KVv2 secret and unwraps its data and version.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	if vc.logger != nil {
		vc.logger.Debug("Reading secret from Vault", "path", path)
	}

	secret, err := vc.readSecret(path)
	if err != nil {
		return nil, err
	}

	data, err := vc.extractSecretData(secret, path)
	if err != nil {
		return nil, err
	}

	version, err := vc.extractSecretVersion(secret, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// readSecret performs the raw read, behind the circuit breaker when one is
// configured.
func (vc *VaultClient) readSecret(path string) (*api.Secret, error) {
	read := func() (*api.Secret, error) {
		return vc.client.Logical().Read(path)
	}

	var secret *api.Secret
	var err error
	if vc.breaker != nil {
		secret, err = vc.breaker.Execute(read)
	} else {
		secret, err = read()
	}
	if err != nil {
		if vc.logger != nil {
			vc.logger.LogError(err, "Failed to read secret from Vault", "path", path)
		}
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		if vc.logger != nil {
			vc.logger.Warn("Secret not found at path", "path", path)
		}
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	return secret, nil
}

func (vc *VaultClient) extractSecretData(secret *api.Secret, path string) (map[string]any, error) {
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	return data, nil
}

func (vc *VaultClient) extractSecretVersion(secret *api.Secret, path string) (int64, error) {
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}

	versionRaw, ok := metadata["version"]
	if !ok {
		return 0, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}

	return parseVersionValue(versionRaw, path)
}

// parseVersionValue accepts the version however the API layer delivered it:
// int64 directly, float64 from JSON decoding, or a numeric string.
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret reads one string field from a secret.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		vc.logger.Debug("String secret retrieved from Vault",
			"path", path,
			"key", key,
			"masked_value", maskSecretValue(strValue))
	}

	return strValue, nil
}

// maskSecretValue keeps the first and last four characters of long values so
// operators can identify a key in logs without exposing it.
func maskSecretValue(value string) string {
	if len(value) > 8 {
		return value[:4] + "****" + value[len(value)-4:]
	}
	if len(value) > 0 {
		return "****"
	}
	return value
}

// GetStringSliceSecret reads a comma-separated string field and splits it,
// trimming whitespace around each element.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}

// ApplyVaultSecrets pulls the configured secrets out of Vault and writes them
// into the loaded configuration. A disabled Vault is a no-op.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	if logger != nil {
		logger.Info("Loading secrets from Vault",
			"api_keys_path", config.Vault.Secrets.APIKeys,
			"tls_certs_path", config.Vault.Secrets.TLSCerts)
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to initialize Vault client")
		}
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	if err := loadAPIKeysFromVault(client, config, logger); err != nil {
		return err
	}
	if err := loadTLSCertsFromVault(client, config, logger); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("Successfully completed applying secrets from Vault")
	}
	return nil
}

// loadAPIKeysFromVault replaces the configured API keys with the set stored
// in Vault, when a path is configured and the secret is non-empty.
func loadAPIKeysFromVault(client *VaultClient, config *Config, logger *errors.Logger) error {
	path := config.Vault.Secrets.APIKeys
	if path == "" {
		return nil
	}

	if logger != nil {
		logger.Debug("Loading API keys from Vault", "path", path)
	}

	apiKeys, err := client.GetStringSliceSecret(path, "keys")
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to load API keys from Vault", "path", path)
		}
		return fmt.Errorf("failed to load API keys from vault: %w", err)
	}

	if len(apiKeys) == 0 {
		if logger != nil {
			logger.Warn("No API keys found in Vault", "path", path)
		}
		return nil
	}

	config.Server.APIKeys = apiKeys
	if logger != nil {
		logger.Info("API keys loaded from Vault", "count", len(apiKeys))
	}
	return nil
}

// loadTLSCertsFromVault copies PEM content from the TLS secret into the
// config's inline certificate fields.
func loadTLSCertsFromVault(client *VaultClient, config *Config, logger *errors.Logger) error {
	path := config.Vault.Secrets.TLSCerts
	if path == "" {
		return nil
	}

	if logger != nil {
		logger.Debug("Loading TLS certificates from Vault", "path", path)
	}

	tlsData, err := client.GetSecretV2(path)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to load TLS certificates from Vault", "path", path)
		}
		return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
	}

	certCount := loadTLSCertificateContent(config, tlsData, logger)

	if err := validateTLSDeprecatedFields(tlsData, logger); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("TLS certificates loaded from Vault", "certificates_loaded", certCount)
	}
	return nil
}

// loadTLSCertificateContent copies each present PEM field and returns how
// many were found.
func loadTLSCertificateContent(config *Config, tlsData *VaultSecret, logger *errors.Logger) int {
	certCount := 0
	certCount += copyPEMField(tlsData, "cert", &config.Server.TLS.CertContent, "TLS certificate content", logger)
	certCount += copyPEMField(tlsData, "key", &config.Server.TLS.KeyContent, "TLS private key content", logger)
	certCount += copyPEMField(tlsData, "ca", &config.Server.TLS.CAContent, "TLS CA certificate content", logger)
	return certCount
}

func copyPEMField(tlsData *VaultSecret, key string, target *string, description string, logger *errors.Logger) int {
	content, ok := tlsData.Data[key].(string)
	if !ok || content == "" {
		return 0
	}
	*target = content
	if logger != nil {
		logger.Debug(description+" loaded from Vault", "content_length", len(content))
	}
	return 1
}

// validateTLSDeprecatedFields rejects secrets still using file-path fields.
// Only inline PEM content is supported from Vault.
func validateTLSDeprecatedFields(tlsData *VaultSecret, logger *errors.Logger) error {
	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		if _, hasField := tlsData.Data[field]; hasField {
			contentField := strings.TrimSuffix(field, "_file")
			if logger != nil {
				logger.LogError(fmt.Errorf("deprecated field detected"),
					fmt.Sprintf("%s field is no longer supported in Vault. Use '%s' field with PEM content instead.", field, contentField))
			}
			return fmt.Errorf("vault TLS configuration error: '%s' field is no longer supported. Store certificate content in '%s' field instead",
				field, contentField)
		}
	}
	return nil
}
