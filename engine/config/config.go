package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configSubdir   = "config"
	configFileName = "devdao_config.json"
)

//go:embed default_config.json
var defaultConfigJSON []byte

// validateConfig checks hard constraints and back-fills zero values with the
// embedded defaults.
func validateConfig(cfg *Config) error {
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	def, err := Default()
	if err != nil {
		return err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = def.QueryServerPort
	}
	if cfg.Genesis.VotingDelaySecs == 0 {
		cfg.Genesis.VotingDelaySecs = def.Genesis.VotingDelaySecs
	}
	if cfg.Genesis.VotingPeriodSecs == 0 {
		cfg.Genesis.VotingPeriodSecs = def.Genesis.VotingPeriodSecs
	}
	if cfg.Genesis.ExecutionDelaySecs == 0 {
		cfg.Genesis.ExecutionDelaySecs = def.Genesis.ExecutionDelaySecs
	}
	if cfg.Genesis.ProposalThreshold == "" {
		cfg.Genesis.ProposalThreshold = def.Genesis.ProposalThreshold
	}
	if cfg.Genesis.QuorumBps == 0 {
		cfg.Genesis.QuorumBps = def.Genesis.QuorumBps
	}
	if cfg.Genesis.PassBps == 0 {
		cfg.Genesis.PassBps = def.Genesis.PassBps
	}
	if cfg.Genesis.Allocation == (AllocationConfig{}) {
		cfg.Genesis.Allocation = def.Genesis.Allocation
	}

	return nil
}

// Save writes cfg to <basePath>/config/devdao_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, configFileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads the config from <basePath>/config/devdao_config.json and applies
// defaults for unset fields.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}
