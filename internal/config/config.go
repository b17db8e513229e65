// Package config owns the vault root layout and config.json handling.
package config

import (
	"os"
	"path/filepath"
)

// Env var overriding the vault root directory.
const EnvVaultHome = "SCRIPTVAULT_HOME"

// File and directory names under the vault root.
const (
	ConfigFile  = "config.json"
	VaultDir    = "vault"
	ScriptsFile = "scripts.json"
	ScriptsDB   = "scripts.db"
	HistoryFile = "history.jsonl"
)

// Config is the persisted configuration. Unknown fields are rejected
// at parse time so a typo'd option surfaces instead of being ignored.
type Config struct {
	// APIEndpoint is a placeholder for future sync. Unused locally.
	APIEndpoint string `json:"api_endpoint"`

	// VaultPath overrides the catalog directory. Empty means
	// <root>/vault.
	VaultPath string `json:"vault_path,omitempty"`

	// StoreDriver selects the catalog backend: "json" or "bbolt".
	StoreDriver string `json:"store_driver,omitempty"`

	// AutoSync is reserved; local mode never syncs.
	AutoSync bool `json:"auto_sync"`

	// ConfirmBeforeRun gates the pre-execution confirmation prompt.
	ConfirmBeforeRun bool `json:"confirm_before_run"`

	// DefaultVisibility is reserved for future sharing.
	DefaultVisibility string `json:"default_visibility"`

	// Local auth state. A token marks the vault as initialized for
	// commands that require it; there is no remote validation.
	AuthToken string `json:"auth_token,omitempty"`
	Username  string `json:"username,omitempty"`

	// LogLevel controls slog verbosity: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	root string // resolved vault root, not persisted
}

// Root returns the vault root directory this config was loaded from.
func (c *Config) Root() string { return c.root }

// ConfigPath returns the path of config.json under the root.
func (c *Config) ConfigPath() string { return filepath.Join(c.root, ConfigFile) }

// VaultDirPath returns the catalog directory, honoring vault_path.
func (c *Config) VaultDirPath() string {
	if c.VaultPath != "" {
		return c.VaultPath
	}
	return filepath.Join(c.root, VaultDir)
}

// CatalogPath returns the catalog file for the configured driver.
func (c *Config) CatalogPath() string {
	if c.StoreDriver == "bbolt" {
		return filepath.Join(c.VaultDirPath(), ScriptsDB)
	}
	return filepath.Join(c.VaultDirPath(), ScriptsFile)
}

// HistoryPath returns the ledger file under the root.
func (c *Config) HistoryPath() string { return filepath.Join(c.root, HistoryFile) }

// IsAuthenticated reports whether a local auth token is present.
func (c *Config) IsAuthenticated() bool { return c.AuthToken != "" }

// DefaultRoot resolves the vault root: $SCRIPTVAULT_HOME if set,
// otherwise ~/.scriptvault, falling back to .scriptvault in the
// current directory when the home directory is unknown.
func DefaultRoot() string {
	if dir := os.Getenv(EnvVaultHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scriptvault"
	}
	return filepath.Join(home, ".scriptvault")
}

// applyDefaults fills in unset optional fields.
func applyDefaults(cfg *Config) {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = "https://api.scriptvault.dev"
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "json"
	}
	if cfg.DefaultVisibility == "" {
		cfg.DefaultVisibility = "private"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	switch cfg.StoreDriver {
	case "json", "bbolt":
	default:
		return errInvalidDriver(cfg.StoreDriver)
	}
	switch cfg.DefaultVisibility {
	case "private", "team", "public":
	default:
		return errInvalidVisibility(cfg.DefaultVisibility)
	}
	return nil
}
