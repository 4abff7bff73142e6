package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": "8080"},
		"auth": {"jwt_secret": "s3cret"}
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Path != "snacksense.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("TokenTTLHours = %d", cfg.Auth.TokenTTLHours)
	}
	if cfg.Gemini.Model == "" {
		t.Error("Gemini.Model default not applied")
	}
}

func TestLoadConfigRequiresPort(t *testing.T) {
	path := writeConfig(t, `{"auth": {"jwt_secret": "s3cret"}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("missing port must fail")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("SNACKSENSE_JWT_SECRET", "")
	path := writeConfig(t, `{"server": {"port": "8080"}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("missing jwt secret must fail")
	}
}
