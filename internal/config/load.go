package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, parses and validates the deployment document at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment document: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse deployment document: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("deployment document validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Topology == "" {
		cfg.Topology = TopologyStandard
	}
	if cfg.ControlPlane.Username == "" {
		cfg.ControlPlane.Username = "administrator"
	}
	if cfg.Appliance.DeploymentSize == "" {
		cfg.Appliance.DeploymentSize = "tiny"
	}
	if cfg.Lab.AdminUser == "" {
		cfg.Lab.AdminUser = "administrator"
	}
	if cfg.Overlay != nil && cfg.Overlay.Uplink == "" {
		cfg.Overlay.Uplink = "vmnic1"
	}
}
