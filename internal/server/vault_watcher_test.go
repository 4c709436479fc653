package server

import (
	"fmt"
	"testing"
	"time"

	"resumelift/internal/config"
)

// stubVaultClient serves canned secrets for watcher tests.
type stubVaultClient struct {
	secret *config.VaultSecret
	err    error
}

func (c *stubVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	return c.secret, c.err
}

func (c *stubVaultClient) GetStringSecret(path, key string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	value, _ := c.secret.Data[key].(string)
	return value, nil
}

func (c *stubVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	value, _ := c.secret.Data[key].([]string)
	return value, nil
}

func newTestWatcher(client VaultClientInterface, callback VaultReloadCallback) *VaultWatcher {
	return NewVaultWatcher(client, "secret/data/resumelift/tls", time.Minute, callback, nil)
}

func TestVaultWatcherVersionAdvanced(t *testing.T) {
	client := &stubVaultClient{secret: &config.VaultSecret{Version: 3}}
	vw := newTestWatcher(client, func(*CertificateData, error) {})

	rotated, err := vw.versionAdvanced()
	if err != nil {
		t.Fatalf("versionAdvanced: %v", err)
	}
	if !rotated {
		t.Error("first read at version 3 should count as a rotation")
	}

	rotated, err = vw.versionAdvanced()
	if err != nil {
		t.Fatalf("versionAdvanced: %v", err)
	}
	if rotated {
		t.Error("unchanged version should not count as a rotation")
	}

	client.secret = &config.VaultSecret{Version: 4}
	rotated, err = vw.versionAdvanced()
	if err != nil {
		t.Fatalf("versionAdvanced: %v", err)
	}
	if !rotated {
		t.Error("version bump should count as a rotation")
	}
}

func TestVaultWatcherReadCertificateData(t *testing.T) {
	client := &stubVaultClient{secret: &config.VaultSecret{
		Data: map[string]any{
			"cert": "rotated-cert",
			"key":  "rotated-key",
			// ca intentionally absent
		},
		Version: 1,
	}}
	vw := newTestWatcher(client, func(*CertificateData, error) {})

	data, err := vw.readCertificateData()
	if err != nil {
		t.Fatalf("readCertificateData: %v", err)
	}
	if data.CertContent != "rotated-cert" {
		t.Errorf("CertContent = %q, want %q", data.CertContent, "rotated-cert")
	}
	if data.KeyContent != "rotated-key" {
		t.Errorf("KeyContent = %q, want %q", data.KeyContent, "rotated-key")
	}
	if data.CAContent != "" {
		t.Errorf("CAContent = %q, want empty for absent field", data.CAContent)
	}
}

func TestVaultWatcherPollDeliversRotation(t *testing.T) {
	client := &stubVaultClient{secret: &config.VaultSecret{
		Data:    map[string]any{"cert": "c1", "key": "k1", "ca": "a1"},
		Version: 7,
	}}

	var got *CertificateData
	var gotErr error
	calls := 0
	vw := newTestWatcher(client, func(data *CertificateData, err error) {
		calls++
		got, gotErr = data, err
	})

	vw.poll()
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
	if gotErr != nil {
		t.Fatalf("callback error: %v", gotErr)
	}
	if got == nil || got.CertContent != "c1" || got.KeyContent != "k1" || got.CAContent != "a1" {
		t.Errorf("callback data = %+v", got)
	}

	// Same version again: the callback must stay quiet.
	vw.poll()
	if calls != 1 {
		t.Errorf("callback calls after unchanged poll = %d, want 1", calls)
	}
}

func TestVaultWatcherPollReadFailure(t *testing.T) {
	client := &stubVaultClient{err: fmt.Errorf("vault sealed")}

	calls := 0
	vw := newTestWatcher(client, func(*CertificateData, error) { calls++ })

	// A failed version check is retried next tick, not surfaced to the
	// callback.
	vw.poll()
	if calls != 0 {
		t.Errorf("callback calls = %d, want 0 on read failure", calls)
	}
}

func TestVaultWatcherStartStop(t *testing.T) {
	client := &stubVaultClient{secret: &config.VaultSecret{Version: 1}}
	vw := newTestWatcher(client, func(*CertificateData, error) {})

	if err := vw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := vw.Start(); err == nil {
		t.Error("second Start should fail while running")
	}
	if err := vw.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := vw.Stop(); err != nil {
		t.Errorf("Stop on stopped watcher: %v", err)
	}

	status := vw.Status()
	if status["running"] != false {
		t.Errorf("status running = %v, want false", status["running"])
	}
	if status["secret_path"] != "secret/data/resumelift/tls" {
		t.Errorf("status secret_path = %v", status["secret_path"])
	}
}
