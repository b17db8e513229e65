package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
)

func errInvalidDriver(driver string) error {
	return verrors.Newf(verrors.EConfigInvalid,
		"invalid store_driver: %s (must be 'json' or 'bbolt')", driver)
}

func errInvalidVisibility(v string) error {
	return verrors.Newf(verrors.EConfigInvalid,
		"invalid default_visibility: %s (must be 'private', 'team', or 'public')", v)
}

// Load reads config.json from the given vault root, creating a
// default configuration (and the root directory) when none exists.
func Load(root string) (*Config, error) {
	if root == "" {
		root = DefaultRoot()
	}

	cfg := &Config{root: root, ConfirmBeforeRun: true, AutoSync: false}
	path := cfg.ConfigPath()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		applyDefaults(cfg)
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	case err != nil:
		return nil, verrors.Wrap(verrors.EPersistenceFailure,
			fmt.Sprintf("read config file %s", path), err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, verrors.Wrap(verrors.EConfigInvalid,
			fmt.Sprintf("parse config file %s", path), err)
	}
	cfg.root = root

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration atomically: temp file in the same
// directory, then rename over config.json.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "create vault root", err)
	}
	if err := os.MkdirAll(c.VaultDirPath(), 0o755); err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "create vault directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "marshal config", err)
	}
	data = append(data, '\n')

	path := c.ConfigPath()
	tmp := filepath.Join(filepath.Dir(path), ".config.json.tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "write config temp file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return verrors.Wrap(verrors.EPersistenceFailure, "replace config file", err)
	}
	return nil
}
