package server

import (
	"fmt"
	"sync"
	"time"

	"resumelift/internal/config"
	"resumelift/internal/errors"
)

// VaultClientInterface is the slice of the Vault client the server needs for
// secret reads. Satisfied by *config.VaultClient.
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// CertificateData is one set of PEM blobs read from the TLS secret.
type CertificateData struct {
	CertContent string
	KeyContent  string
	CAContent   string
}

// VaultReloadCallback receives freshly read certificate data, or the error
// that prevented reading it.
type VaultReloadCallback func(data *CertificateData, err error)

// VaultWatcher polls a KVv2 secret and invokes the reload callback whenever
// the secret version advances. KVv2 versions are monotonic, so a simple
// greater-than check is enough to detect a rotation.
type VaultWatcher struct {
	mu sync.RWMutex

	client         VaultClientInterface
	secretPath     string
	pollInterval   time.Duration
	reloadCallback VaultReloadCallback
	logger         *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
}

func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, reloadCallback VaultReloadCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:         client,
		secretPath:     secretPath,
		pollInterval:   pollInterval,
		reloadCallback: reloadCallback,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	go vw.pollLoop()
	if vw.logger != nil {
		vw.logger.Info("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	}
	return nil
}

// Stop halts polling. Safe to call on a watcher that never started.
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	if vw.logger != nil {
		vw.logger.Info("Vault watcher stopped")
	}
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.poll()
		case <-vw.stopChan:
			return
		}
	}
}

// poll performs one version check and, on a rotation, hands the new
// certificate data to the callback. Read failures are logged and retried on
// the next tick rather than stopping the watcher.
func (vw *VaultWatcher) poll() {
	rotated, err := vw.versionAdvanced()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to check Vault for updates")
		}
		return
	}
	if !rotated {
		return
	}

	if vw.logger != nil {
		vw.logger.Info("Vault secret rotated, reading new certificate data", "secret_path", vw.secretPath)
	}
	data, err := vw.readCertificateData()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to read rotated certificate data from Vault")
		}
		vw.reloadCallback(nil, err)
		return
	}
	vw.reloadCallback(data, nil)
}

// versionAdvanced reads the secret and reports whether its version moved past
// the last one seen.
func (vw *VaultWatcher) versionAdvanced() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret.Version > vw.lastVersion {
		vw.lastVersion = secret.Version
		return true, nil
	}
	return false, nil
}

// readCertificateData pulls the PEM fields out of the TLS secret. Absent
// fields stay empty; the certificate manager decides what is required.
func (vw *VaultWatcher) readCertificateData() (*CertificateData, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new TLS data from vault: %w", err)
	}

	data := &CertificateData{}
	if cert, ok := secret.Data["cert"].(string); ok {
		data.CertContent = cert
	}
	if key, ok := secret.Data["key"].(string); ok {
		data.KeyContent = key
	}
	if ca, ok := secret.Data["ca"].(string); ok {
		data.CAContent = ca
	}
	return data, nil
}

// Status reports watcher state for the health endpoint.
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
	}
}
