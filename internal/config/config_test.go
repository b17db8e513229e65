package config

import (
	"os"
	"path/filepath"
	"testing"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault-root")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StoreDriver != "json" {
		t.Errorf("StoreDriver = %v, want json", cfg.StoreDriver)
	}
	if !cfg.ConfirmBeforeRun {
		t.Error("ConfirmBeforeRun should default to true")
	}
	if cfg.AutoSync {
		t.Error("AutoSync should default to false")
	}
	if cfg.DefaultVisibility != "private" {
		t.Errorf("DefaultVisibility = %v, want private", cfg.DefaultVisibility)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}

	// First load initializes the layout on disk.
	if _, err := os.Stat(cfg.ConfigPath()); err != nil {
		t.Errorf("config.json not created: %v", err)
	}
	if _, err := os.Stat(cfg.VaultDirPath()); err != nil {
		t.Errorf("vault directory not created: %v", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault-root")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.AuthToken = "tok-123"
	cfg.Username = "alex"
	cfg.ConfirmBeforeRun = false
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load() reload error = %v", err)
	}
	if got.AuthToken != "tok-123" || got.Username != "alex" {
		t.Errorf("auth state lost: %+v", got)
	}
	if got.ConfirmBeforeRun {
		t.Error("ConfirmBeforeRun=false was not persisted")
	}
	if !got.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	root := t.TempDir()
	content := `{"api_endpoint": "x", "auto_sync": false, "confirm_before_run": true, "default_visibility": "private", "typo_field": 1}`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); !verrors.IsCode(err, verrors.EConfigInvalid) {
		t.Errorf("Load() error = %v, want config invalid", err)
	}
}

func TestLoad_RejectsInvalidDriver(t *testing.T) {
	root := t.TempDir()
	content := `{"api_endpoint": "x", "auto_sync": false, "confirm_before_run": true, "default_visibility": "private", "store_driver": "sqlite"}`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); !verrors.IsCode(err, verrors.EConfigInvalid) {
		t.Errorf("Load() error = %v, want config invalid", err)
	}
}

func TestLoad_RejectsInvalidVisibility(t *testing.T) {
	root := t.TempDir()
	content := `{"api_endpoint": "x", "auto_sync": false, "confirm_before_run": true, "default_visibility": "everyone"}`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); !verrors.IsCode(err, verrors.EConfigInvalid) {
		t.Errorf("Load() error = %v, want config invalid", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); !verrors.IsCode(err, verrors.EConfigInvalid) {
		t.Errorf("Load() error = %v, want config invalid", err)
	}
}

func TestConfig_Paths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "r")
	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Root() != root {
		t.Errorf("Root() = %v, want %v", cfg.Root(), root)
	}
	if cfg.CatalogPath() != filepath.Join(root, VaultDir, ScriptsFile) {
		t.Errorf("CatalogPath() = %v", cfg.CatalogPath())
	}
	if cfg.HistoryPath() != filepath.Join(root, HistoryFile) {
		t.Errorf("HistoryPath() = %v", cfg.HistoryPath())
	}

	cfg.StoreDriver = "bbolt"
	if cfg.CatalogPath() != filepath.Join(root, VaultDir, ScriptsDB) {
		t.Errorf("CatalogPath() with bbolt = %v", cfg.CatalogPath())
	}

	custom := filepath.Join(root, "elsewhere")
	cfg.VaultPath = custom
	if cfg.VaultDirPath() != custom {
		t.Errorf("VaultDirPath() = %v, want %v", cfg.VaultDirPath(), custom)
	}
}

func TestDefaultRoot_EnvOverride(t *testing.T) {
	t.Setenv(EnvVaultHome, "/custom/vault")
	if got := DefaultRoot(); got != "/custom/vault" {
		t.Errorf("DefaultRoot() = %v, want /custom/vault", got)
	}
}

func TestDefaultRoot_Home(t *testing.T) {
	t.Setenv(EnvVaultHome, "")
	os.Unsetenv(EnvVaultHome)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	if got := DefaultRoot(); got != filepath.Join(home, ".scriptvault") {
		t.Errorf("DefaultRoot() = %v", got)
	}
}
