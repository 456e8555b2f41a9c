package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level teller.yaml configuration.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`
	Admin  AdminConfig  `yaml:"admin"`
	Git    GitConfig    `yaml:"git"`
}

// LedgerConfig names the data files and the registry bound. Paths are
// relative to the ledger directory.
type LedgerConfig struct {
	DataFile    string `yaml:"data_file"`
	LogFile     string `yaml:"log_file"`
	ExportFile  string `yaml:"export_file"`
	MaxAccounts int    `yaml:"max_accounts"`
}

// AdminConfig holds the process-wide admin secret, injected at startup
// rather than compiled in.
type AdminConfig struct {
	Secret string `yaml:"secret"`
}

// GitConfig controls optional git versioning of the ledger data files.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a teller.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the stock file layout and limits.
func Default(adminSecret string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			DataFile:    "accounts.dat",
			LogFile:     "transactions.log",
			ExportFile:  "accounts.csv",
			MaxAccounts: 100,
		},
		Admin: AdminConfig{
			Secret: adminSecret,
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Teller",
			AuthorEmail: "teller@localhost",
		},
	}
}
