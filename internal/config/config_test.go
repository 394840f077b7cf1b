package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
database:
  host: 10.0.0.5
  port: 3307
  user: ops
  password: s3cret
  name: crewline_prod

server:
  port: 9090

sweep:
  enabled: true
  schedule: "30 2 * * *"

notify:
  command: "notify-send 'Crewline' '{{.Subject}}'"
`

const minimalYAML = `
database:
  name: crewline_dev
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want 10.0.0.5", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Database.User != "ops" {
		t.Errorf("Database.User = %q, want ops", cfg.Database.User)
	}
	if cfg.Database.Name != "crewline_prod" {
		t.Errorf("Database.Name = %q, want crewline_prod", cfg.Database.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Sweep.Enabled {
		t.Error("Sweep.Enabled = false, want true")
	}
	if cfg.Sweep.Schedule != "30 2 * * *" {
		t.Errorf("Sweep.Schedule = %q, want %q", cfg.Sweep.Schedule, "30 2 * * *")
	}
	if !strings.Contains(cfg.Notify.Command, "notify-send") {
		t.Errorf("Notify.Command = %q, want notify-send template", cfg.Notify.Command)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("default Database.Host = %q, want 127.0.0.1", cfg.Database.Host)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("default Database.Port = %d, want 3306", cfg.Database.Port)
	}
	if cfg.Database.User != "crewline" {
		t.Errorf("default Database.User = %q, want crewline", cfg.Database.User)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Sweep.Schedule != "0 3 * * *" {
		t.Errorf("default Sweep.Schedule = %q, want %q", cfg.Sweep.Schedule, "0 3 * * *")
	}
	if cfg.Sweep.Enabled {
		t.Error("Sweep.Enabled should default to false")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("database: [not a map"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err.Error())
	}
}

func TestParse_InvalidPort(t *testing.T) {
	_, err := Parse([]byte("database:\n  port: 99999\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "database.port out of range") {
		t.Errorf("error = %q, want port range complaint", err.Error())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crewline.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Database.Name != "crewline_prod" {
		t.Errorf("Database.Name = %q, want crewline_prod", cfg.Database.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
