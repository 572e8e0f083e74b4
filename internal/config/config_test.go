package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TemplatesDir != "templates" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SessionTTL != Duration(24*time.Hour) {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docwizard.yaml")
	content := `templates_dir: /opt/templates
redis_addr: localhost:6379
session_ttl: 30m
openai:
  model: gpt-4o
log:
  mode: prod
  file: /var/log/docwizard.log
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TemplatesDir != "/opt/templates" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.Log.Mode != "prod" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SessionTTL != Duration(30*time.Minute) {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
	// Untouched settings keep their defaults.
	if cfg.OutputDir != "output" {
		t.Fatalf("output dir = %q", cfg.OutputDir)
	}
}

func TestBadDurationRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docwizard.yaml")
	if err := os.WriteFile(path, []byte("session_ttl: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docwizard.yaml")
	if err := os.WriteFile(path, []byte("templates_dir: from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DOCWIZARD_TEMPLATES_DIR", "from-env")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DOCWIZARD_SESSION_TTL_SECONDS", "60")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TemplatesDir != "from-env" {
		t.Fatalf("templates dir = %q", cfg.TemplatesDir)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.SessionTTL != Duration(time.Minute) {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
}

func TestBadTTLIgnored(t *testing.T) {
	t.Setenv("DOCWIZARD_SESSION_TTL_SECONDS", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != Duration(24*time.Hour) {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
}

func TestMalformedFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docwizard.yaml")
	if err := os.WriteFile(path, []byte(":\n  - broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
