package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tlsConfig(tls TLSConfig) *Config {
	cfg := &Config{}
	cfg.Server.TLS = tls
	return cfg
}

func TestValidateTLSConfigModes(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr string
	}{
		{
			name: "disabled needs nothing",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name:    "unknown mode rejected",
			tls:     TLSConfig{Mode: "tls13-only"},
			wantErr: "invalid TLS mode: tls13-only (must be 'disabled', 'server', or 'mutual')",
		},
		{
			name: "server mode with cert and key files",
			tls:  TLSConfig{Mode: "server", CertFile: "server.crt", KeyFile: "server.key"},
		},
		{
			name: "server mode with inline content",
			tls:  TLSConfig{Mode: "server", CertContent: "PEM CERT", KeyContent: "PEM KEY"},
		},
		{
			name: "server mode mixing file cert with content key",
			tls:  TLSConfig{Mode: "server", CertFile: "server.crt", KeyContent: "PEM KEY"},
		},
		{
			name:    "server mode without a certificate",
			tls:     TLSConfig{Mode: "server", KeyFile: "server.key"},
			wantErr: "TLS certificate and key are required for server mode (provide either files or content)",
		},
		{
			name:    "server mode without a key",
			tls:     TLSConfig{Mode: "server", CertContent: "PEM CERT"},
			wantErr: "TLS certificate and key are required for server mode (provide either files or content)",
		},
		{
			name: "mutual mode with full file set",
			tls:  TLSConfig{Mode: "mutual", CertFile: "server.crt", KeyFile: "server.key", CAFile: "ca.crt"},
		},
		{
			name: "mutual mode with full inline set",
			tls:  TLSConfig{Mode: "mutual", CertContent: "PEM CERT", KeyContent: "PEM KEY", CAContent: "PEM CA"},
		},
		{
			name:    "mutual mode without a CA",
			tls:     TLSConfig{Mode: "mutual", CertFile: "server.crt", KeyFile: "server.key"},
			wantErr: "CA certificate is required for mutual TLS mode (provide either caFile or caContent)",
		},
		{
			name:    "mutual mode missing cert and key",
			tls:     TLSConfig{Mode: "mutual", CAFile: "ca.crt"},
			wantErr: "TLS certificate and key are required for mutual mode (provide either files or content)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tlsConfig(tt.tls).ValidateTLSConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTLSConfigSingleSource(t *testing.T) {
	base := TLSConfig{Mode: "mutual", CertFile: "server.crt", KeyFile: "server.key", CAFile: "ca.crt"}

	tests := []struct {
		name    string
		mutate  func(*TLSConfig)
		wantErr string
	}{
		{
			name:    "cert from both file and content",
			mutate:  func(tls *TLSConfig) { tls.CertContent = "PEM CERT" },
			wantErr: "cannot specify both certFile and certContent - choose one",
		},
		{
			name:    "key from both file and content",
			mutate:  func(tls *TLSConfig) { tls.KeyContent = "PEM KEY" },
			wantErr: "cannot specify both keyFile and keyContent - choose one",
		},
		{
			name:    "CA from both file and content",
			mutate:  func(tls *TLSConfig) { tls.CAContent = "PEM CA" },
			wantErr: "cannot specify both caFile and caContent - choose one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tls := base
			tt.mutate(&tls)
			assert.EqualError(t, tlsConfig(tls).ValidateTLSConfig(), tt.wantErr)
		})
	}
}

func TestValidateTLSConfigClientAuthPolicy(t *testing.T) {
	for _, policy := range []string{"", "require", "request", "verify"} {
		t.Run("policy "+policy+" accepted", func(t *testing.T) {
			tls := TLSConfig{Mode: "mutual", CertFile: "server.crt", KeyFile: "server.key", CAFile: "ca.crt", ClientAuthPolicy: policy}
			assert.NoError(t, tlsConfig(tls).ValidateTLSConfig())
		})
	}

	tls := TLSConfig{Mode: "mutual", CertFile: "server.crt", KeyFile: "server.key", CAFile: "ca.crt", ClientAuthPolicy: "optional"}
	assert.EqualError(t, tlsConfig(tls).ValidateTLSConfig(),
		"invalid clientAuthPolicy: optional (must be 'require', 'request', or 'verify')")
}

func TestValidateTLSConfigMinVersion(t *testing.T) {
	for _, version := range []string{"", "1.2", "1.3"} {
		t.Run("version "+version+" accepted", func(t *testing.T) {
			tls := TLSConfig{Mode: "disabled", MinVersion: version}
			assert.NoError(t, tlsConfig(tls).ValidateTLSConfig())
		})
	}

	// The version setting is validated even with TLS off, so a typo does not
	// go unnoticed until the mode is flipped on.
	tls := TLSConfig{Mode: "disabled", MinVersion: "1.1"}
	assert.EqualError(t, tlsConfig(tls).ValidateTLSConfig(),
		"invalid TLS minVersion: 1.1 (must be '1.2' or '1.3')")
}
