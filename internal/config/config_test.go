package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without BACKEND_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("timeout = %s", cfg.HTTPTimeout)
	}
	if cfg.SessionStore != "file" || cfg.SessionFile == "" {
		t.Errorf("session store defaults = %q %q", cfg.SessionStore, cfg.SessionFile)
	}
	if !cfg.IsDev() {
		t.Error("default env must be development")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://pharmacy:8000")
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "production" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("timeout = %s", cfg.HTTPTimeout)
	}
	if cfg.IsDev() {
		t.Error("production must not report dev")
	}
}

func TestValidate_PostgresNeedsDatabaseURL(t *testing.T) {
	cfg := &Config{SessionStore: "postgres"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error without DATABASE_URL")
	}
	cfg.DatabaseURL = "postgres://localhost/rxgate"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := &Config{SessionStore: "redis", SessionFile: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown store kind")
	}
}

func TestValidate_FileNeedsPath(t *testing.T) {
	cfg := &Config{SessionStore: "file"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error without SESSION_FILE")
	}
}
