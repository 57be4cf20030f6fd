package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/pkg/buildinfo"
	"github.com/matzehuels/jray/pkg/cache"
	"github.com/matzehuels/jray/pkg/config"
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/layout"
	"github.com/matzehuels/jray/pkg/layout/graphviz"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jray"

	// stdio is the path argument that means stdin or stdout.
	stdio = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and built-in
// settings. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "jray turns JSON into an editable node diagram",
		Long:          `jray projects a JSON document into a tree of nodes, lays it out, and keeps text and diagram in sync while you edit either one.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/jray/config.toml)")

	// Register all subcommands
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.formatCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Layout Factory
// =============================================================================

// layoutFlags are shared by commands that position nodes.
type layoutFlags struct {
	engine  string
	noCache bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "layout engine: dot, layered (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
}

// newLayoutManager builds the configured oracle behind the layout cache.
// The returned close function releases the cache.
func (c *CLI) newLayoutManager(ctx context.Context, f layoutFlags) (*layout.Manager, func() error, error) {
	engine := f.engine
	if engine == "" {
		engine = c.Config.Layout.Engine
	}

	var oracle layout.Oracle
	switch engine {
	case config.EngineDot:
		oracle = &graphviz.Oracle{NodeSep: c.Config.Layout.NodeSep, RankSep: c.Config.Layout.RankSep}
	case config.EngineLayered:
		oracle = layout.Layered{NodeSep: c.Config.Layout.NodeSep, RankSep: c.Config.Layout.RankSep}
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q (want dot or layered)", engine)
	}

	store, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, nil, err
	}
	opts := []layout.CacheOption{
		layout.WithTTL(c.Config.Cache.TTL),
		layout.WithCacheLogger(c.Logger),
	}
	if c.Config.Cache.Backend == cache.BackendRedis {
		// Redis may be shared with other tools.
		opts = append(opts, layout.WithKeyer(cache.NewScopedKeyer(nil, "jray:")))
	}
	cached := layout.NewCachingOracle(oracle, store, opts...)
	return layout.NewManager(cached, layout.WithLogger(c.Logger)), store.Close, nil
}

// newCache opens the configured cache backend. An unreachable backend
// degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	store, err := cache.Open(ctx, cache.Options{
		Backend: c.Config.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		},
	})
	if err != nil {
		if cache.IsRetryable(err) {
			c.Logger.Warn("layout cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jray/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input / Output
// =============================================================================

// readSource reads a JSON document from path, or from r when path is "-".
func readSource(path string, r io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdio {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := errors.ValidateSource(string(data)); err != nil {
		return "", err
	}
	return string(data), nil
}

// writeOutput writes data to path, or to w when path is "" or "-".
func writeOutput(path string, w io.Writer, data []byte) error {
	if path == "" || path == stdio {
		_, err := w.Write(data)
		return err
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	if input == stdio {
		return "diagram" + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
