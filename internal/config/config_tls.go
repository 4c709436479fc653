package config

import (
	"fmt"
	"time"
)

// TLSConfig selects one of three modes: "disabled", "server" (server-side
// TLS), or "mutual" (client certificates verified against the CA). The
// certificate, key, and CA each come from either a file path or inline PEM
// content; inline content is what the Vault integration populates.
type TLSConfig struct {
	Mode string `mapstructure:"mode"`

	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	// "1.2" or "1.3"; empty means 1.2.
	MinVersion   string   `mapstructure:"minVersion"`
	CipherSuites []string `mapstructure:"cipherSuites"`
	// "require", "request", or "verify"; empty means require.
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"`

	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"`
	ServerName         string `mapstructure:"serverName"`

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig controls certificate hot-reload: an fsnotify watcher for
// file-based material, a poller for Vault-delivered material, and a
// preemptive renewal window before expiry.
type AutoReloadConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CheckInterval     time.Duration `mapstructure:"checkInterval"`
	PreemptiveRenewal time.Duration `mapstructure:"preemptiveRenewal"`
	MaxRetries        int           `mapstructure:"maxRetries"`
	RetryDelay        time.Duration `mapstructure:"retryDelay"`

	FileWatcher  FileWatcherConfig  `mapstructure:"fileWatcher"`
	VaultWatcher VaultWatcherConfig `mapstructure:"vaultWatcher"`
}

// FileWatcherConfig debounces filesystem events so a multi-file rotation
// triggers one reload.
type FileWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// VaultWatcherConfig polls a Vault secret path for rotated certificates.
type VaultWatcherConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	PollInterval   time.Duration `mapstructure:"pollInterval"`
	AutoRenew      bool          `mapstructure:"autoRenew"`
	RenewThreshold time.Duration `mapstructure:"renewThreshold"`
	SecretPath     string        `mapstructure:"secretPath"`
}

// ValidateTLSConfig checks the serve TLS settings at load time so a bad
// configuration fails before any listener starts. Certificate material may
// come from files or from inline content (Vault), but never both at once.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "disabled":
		// Only the version setting below applies.
	case "server":
		if err := checkCertSources(tls, "server mode"); err != nil {
			return err
		}
	case "mutual":
		if err := checkCertSources(tls, "mutual mode"); err != nil {
			return err
		}
		if err := checkClientCASource(tls); err != nil {
			return err
		}
		switch tls.ClientAuthPolicy {
		case "require", "request", "verify", "":
			// Empty defaults to require.
		default:
			return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
		// Empty defaults to 1.2.
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}

// checkCertSources verifies the server certificate and key are both present
// and that each comes from exactly one source.
func checkCertSources(tls TLSConfig, mode string) error {
	if (tls.CertFile == "" && tls.CertContent == "") || (tls.KeyFile == "" && tls.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	if tls.CertFile != "" && tls.CertContent != "" {
		return fmt.Errorf("cannot specify both certFile and certContent - choose one")
	}
	if tls.KeyFile != "" && tls.KeyContent != "" {
		return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
	}
	return nil
}

// checkClientCASource verifies the CA used for client certificate
// verification is present, from a single source.
func checkClientCASource(tls TLSConfig) error {
	if tls.CAFile == "" && tls.CAContent == "" {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	if tls.CAFile != "" && tls.CAContent != "" {
		return fmt.Errorf("cannot specify both caFile and caContent - choose one")
	}
	return nil
}
