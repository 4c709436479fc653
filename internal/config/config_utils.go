package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks accepts RESUMELIFT_SERVER_APIKEYS as a
// comma-separated list; viper only maps it onto []string keys when set
// through the config file.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	env := os.Getenv("RESUMELIFT_SERVER_APIKEYS")
	if env == "" {
		return
	}
	for _, key := range strings.Split(env, ",") {
		c.Server.APIKeys = append(c.Server.APIKeys, strings.TrimSpace(key))
	}
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	// Surface spans on the console when debugging.
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources writes a startup summary of where configuration
// came from and the values that matter operationally. Key material is
// masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	watched := []string{
		"RESUMELIFT_SERVER_PORT",
		"RESUMELIFT_SERVER_HOST",
		"RESUMELIFT_SERVER_APIKEYS",
		"RESUMELIFT_APP_LOGLEVEL",
		"RESUMELIFT_VAULT_ENABLED",
		"RESUMELIFT_ENGINE_MAXSUGGESTIONS",
	}

	log.Println("[CONFIG] Environment variables:")
	anySet := false
	for _, name := range watched {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", name, value)
		anySet = true
	}
	if !anySet {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Engine Tuning ===")
	log.Printf("[CONFIG] Thresholds - Good: %.0f, Excellent: %.0f", c.Engine.GoodThreshold, c.Engine.ExcellentThreshold)
	log.Printf("[CONFIG] Target length: %d-%d words, short below %d",
		c.Engine.TargetMinWords, c.Engine.TargetMaxWords, c.Engine.ShortWordLimit)
	log.Printf("[CONFIG] Suggestions capped at %d, quantification saturates at %d",
		c.Engine.MaxSuggestions, c.Engine.QuantSaturation)

	log.Println("[CONFIG] =====================================")
}
