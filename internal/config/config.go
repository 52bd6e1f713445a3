// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string
	Env         string
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Vault holds the custody policy knobs that would otherwise be compiled-in
// program constants: fee schedule, proceeds split, and the fixed recipient
// addresses. Changing policy means editing config, not redeploying.
type Vault struct {
	ProgramID     string `yaml:"program_id"`
	RouterProgram string `yaml:"router_program"`
	TargetMint    string `yaml:"target_mint"`
	FeeRecipient  string `yaml:"fee_recipient"`
	Admin         string `yaml:"admin"`
	FeeBps        uint64 `yaml:"fee_bps"`
	AdminSplitPct uint64 `yaml:"admin_split_pct"`
	RecordRent    uint64 `yaml:"record_rent_lamports"`
	EnforceMinOut bool   `yaml:"enforce_min_out"`
	JournalPath   string `yaml:"journal_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App    App    `yaml:"app"`
	Vault  Vault  `yaml:"vault"`
	Dex    Dex    `yaml:"dex"`
	Wallet Wallet `yaml:"wallet"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
