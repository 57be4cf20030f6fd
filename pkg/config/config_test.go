package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
direction = "vertical"

[layout]
engine = "layered"

[cache]
backend = "redis"
ttl = "72h"
redis_addr = "cache:6379"

[server]
session_idle = "5m"

[watch]
debounce = "50ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FlowDirection() != graph.TopToBottom {
		t.Errorf("FlowDirection() = %s, want TB", cfg.FlowDirection())
	}
	if cfg.Layout.Engine != EngineLayered {
		t.Errorf("Layout.Engine = %q", cfg.Layout.Engine)
	}
	if cfg.Layout.NodeSep != 50 {
		t.Errorf("Layout.NodeSep = %v, want default 50", cfg.Layout.NodeSep)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 72*time.Hour {
		t.Errorf("Cache.TTL = %v, want 72h", cfg.Cache.TTL)
	}
	if cfg.Server.SessionIdle != 5*time.Minute {
		t.Errorf("Server.SessionIdle = %v, want 5m", cfg.Server.SessionIdle)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 50ms", cfg.Watch.Debounce)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `direction = `},
		{"unknown key", `colour = "red"`},
		{"bad direction", `direction = "diagonal"`},
		{"bad engine", "[layout]\nengine = \"neato\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if cfg != Default() {
				t.Error("Load() should return defaults on error")
			}
		})
	}
}

func TestLoadUnknownKeyCode(t *testing.T) {
	_, err := Load(writeFile(t, `colour = "red"`))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Direction = "TB"
	want.Cache.Backend = "none"
	if err := Write(want, path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = Dir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}
