package config

import (
	"os"
	"path/filepath"
	"testing"

	"resumelift/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestResolveVaultToken(t *testing.T) {
	logger := vaultTestLogger()

	writeTokenFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("inline token wins", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "inline-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "inline-token", token)
	})

	t.Run("file token is trimmed", func(t *testing.T) {
		cfg := VaultConfig{TokenFile: writeTokenFile(t, "  file-token  \n")}
		token, err := resolveVaultToken(cfg, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("unreadable token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/vault-token"}, logger)
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("whitespace-only file leaves no token", func(t *testing.T) {
		cfg := VaultConfig{TokenFile: writeTokenFile(t, "   \n  \n")}
		_, err := resolveVaultToken(cfg, logger)
		assert.ErrorContains(t, err, "vault token is required")
	})

	t.Run("no token configured at all", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int64
		wantErr bool
	}{
		{name: "int64 passes through", raw: int64(7), want: 7},
		{name: "json number arrives as float64", raw: float64(7), want: 7},
		{name: "numeric string parses", raw: "7", want: 7},
		{name: "negative string parses", raw: "-3", want: -3},
		{name: "non-numeric string fails", raw: "seven", wantErr: true},
		{name: "float string fails", raw: "7.5", wantErr: true},
		{name: "slice is not a version", raw: []string{"7"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.raw, "secret/data/tls")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSecretData(t *testing.T) {
	vc := &VaultClient{logger: vaultTestLogger()}

	t.Run("KVv2 payload unwraps", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{
			"data": map[string]any{"cert": "PEM", "key": "PEM"},
		}}
		data, err := vc.extractSecretData(secret, "secret/data/tls")
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"cert": "PEM", "key": "PEM"}, data)
	})

	t.Run("KVv1 shape rejected", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"cert": "PEM"}}
		_, err := vc.extractSecretData(secret, "secret/tls")
		assert.ErrorContains(t, err, "not in KVv2 format")
	})

	t.Run("data field of wrong type rejected", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"data": "PEM"}}
		_, err := vc.extractSecretData(secret, "secret/data/tls")
		assert.ErrorContains(t, err, "not in KVv2 format")
	})
}

func TestExtractSecretVersion(t *testing.T) {
	vc := &VaultClient{logger: vaultTestLogger()}

	metadata := func(fields map[string]any) *api.Secret {
		return &api.Secret{Data: map[string]any{"metadata": fields}}
	}

	t.Run("version read from metadata", func(t *testing.T) {
		version, err := vc.extractSecretVersion(metadata(map[string]any{"version": float64(12)}), "secret/data/tls")
		assert.NoError(t, err)
		assert.Equal(t, int64(12), version)
	})

	t.Run("missing metadata block", func(t *testing.T) {
		secret := &api.Secret{Data: map[string]any{"data": map[string]any{}}}
		_, err := vc.extractSecretVersion(secret, "secret/data/tls")
		assert.ErrorContains(t, err, "missing 'metadata' field")
	})

	t.Run("metadata without version", func(t *testing.T) {
		_, err := vc.extractSecretVersion(metadata(map[string]any{"created_time": "now"}), "secret/data/tls")
		assert.ErrorContains(t, err, "missing 'version' field")
	})
}

func TestLoadTLSCertificateContent(t *testing.T) {
	logger := vaultTestLogger()

	tests := []struct {
		name      string
		data      map[string]any
		wantCount int
		wantCert  string
		wantKey   string
		wantCA    string
	}{
		{
			name:      "full cert set",
			data:      map[string]any{"cert": "CERT", "key": "KEY", "ca": "CA"},
			wantCount: 3,
			wantCert:  "CERT", wantKey: "KEY", wantCA: "CA",
		},
		{
			name:      "cert only",
			data:      map[string]any{"cert": "CERT"},
			wantCount: 1,
			wantCert:  "CERT",
		},
		{
			name:      "empty and non-string values skipped",
			data:      map[string]any{"cert": "", "key": 123},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			count := loadTLSCertificateContent(cfg, &VaultSecret{Data: tt.data}, logger)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantCert, cfg.Server.TLS.CertContent)
			assert.Equal(t, tt.wantKey, cfg.Server.TLS.KeyContent)
			assert.Equal(t, tt.wantCA, cfg.Server.TLS.CAContent)
		})
	}
}

func TestValidateTLSDeprecatedFields(t *testing.T) {
	logger := vaultTestLogger()

	t.Run("content fields pass", func(t *testing.T) {
		secret := &VaultSecret{Data: map[string]any{"cert": "CERT", "key": "KEY", "ca": "CA"}}
		assert.NoError(t, validateTLSDeprecatedFields(secret, logger))
	})

	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		t.Run(field+" rejected", func(t *testing.T) {
			secret := &VaultSecret{Data: map[string]any{field: "/etc/tls/some-path"}}
			err := validateTLSDeprecatedFields(secret, logger)
			assert.ErrorContains(t, err, field)
			assert.ErrorContains(t, err, "no longer supported")
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	cfg.Vault.Enabled = false

	// Disabled Vault is a no-op, not an error.
	assert.NoError(t, ApplyVaultSecrets(cfg, vaultTestLogger()))
}

func TestVaultClientBreakerHealth(t *testing.T) {
	t.Run("nil client reports healthy", func(t *testing.T) {
		var vc *VaultClient
		assert.True(t, vc.IsHealthy())
		assert.Equal(t, map[string]any{"enabled": false}, vc.BreakerStats())
	})

	t.Run("client without breaker reports healthy", func(t *testing.T) {
		vc := &VaultClient{}
		assert.True(t, vc.IsHealthy())
		assert.Equal(t, map[string]any{"enabled": false}, vc.BreakerStats())
	})

	t.Run("closed breaker reports healthy with stats", func(t *testing.T) {
		vc := &VaultClient{
			breaker: newVaultBreaker(CircuitBreakerConfig{
				Enabled:          true,
				MaxRequests:      3,
				MinRequests:      5,
				FailureThreshold: 0.5,
			}, vaultTestLogger()),
		}
		assert.True(t, vc.IsHealthy())

		stats := vc.BreakerStats()
		assert.Equal(t, true, stats["enabled"])
		assert.Equal(t, "vault-secrets", stats["name"])
		assert.Equal(t, "closed", stats["state"])
	})
}
