// Package config loads jray settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/jray/config.toml, falling back to
// ~/.config/jray/config.toml. A missing file is not an error: every field
// has a default. Command-line flags override whatever is loaded here.
//
//	direction = "TB"
//
//	[layout]
//	engine = "dot"
//
//	[cache]
//	backend = "redis"
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	session_idle = "30m"
//
//	[watch]
//	debounce = "250ms"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jray/pkg/cache"
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
)

const (
	appName  = "jray"
	fileName = "config.toml"
)

// Layout engines.
const (
	EngineDot     = "dot"
	EngineLayered = "layered"
)

// Config is the full set of settings.
type Config struct {
	Direction string       `toml:"direction"`
	Layout    LayoutConfig `toml:"layout"`
	Cache     CacheConfig  `toml:"cache"`
	Server    ServerConfig `toml:"server"`
	Watch     WatchConfig  `toml:"watch"`
}

// LayoutConfig selects the layout oracle.
type LayoutConfig struct {
	Engine  string  `toml:"engine"`   // dot or layered
	NodeSep float64 `toml:"node_sep"` // Sibling spacing in points
	RankSep float64 `toml:"rank_sep"` // Level spacing in points
}

// CacheConfig configures the layout cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"` // file, redis or none
	Dir           string        `toml:"dir"`     // Empty means the XDG cache dir
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
}

// ServerConfig configures `jray serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	SessionIdle time.Duration `toml:"session_idle"`
	MaxBody     int64         `toml:"max_body"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Direction: string(graph.DefaultDirection),
		Layout: LayoutConfig{
			Engine:  EngineDot,
			NodeSep: 50,
			RankSep: 50,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			TTL:       7 * 24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			SessionIdle: 30 * time.Minute,
			MaxBody:     5 << 20,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the file at path over the defaults. A missing file yields
// the defaults. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated fields and ranges.
func (c Config) Validate() error {
	if _, err := graph.ParseDirection(c.Direction); err != nil {
		return err
	}
	switch c.Layout.Engine {
	case EngineDot, EngineLayered:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q (want dot or layered)", c.Layout.Engine)
	}
	if c.Layout.NodeSep < 0 || c.Layout.RankSep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout spacing must not be negative")
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 || c.Server.SessionIdle < 0 || c.Watch.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations must not be negative")
	}
	return nil
}

// FlowDirection returns the parsed default direction.
func (c Config) FlowDirection() graph.Direction {
	d, err := graph.ParseDirection(c.Direction)
	if err != nil {
		return graph.DefaultDirection
	}
	return d
}

// Encode returns c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores c at path, creating the directory as needed.
func Write(c Config, path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
