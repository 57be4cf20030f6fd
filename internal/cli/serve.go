package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jray/internal/metrics"
	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/server"
	"github.com/matzehuels/jray/pkg/session"
	"github.com/matzehuels/jray/pkg/watch"
)

// janitorInterval is how often idle sessions are looked for.
const janitorInterval = time.Minute

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		watchFile string
		direction string
		noMetrics bool
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for editing sessions",
		Long: `Run the HTTP API for editing sessions.

Clients create a session from JSON text and then send commands (set text,
toggle, edit, format, search, direction) to it. Every reply carries the
full diagram state. Sessions live in memory and are dropped after the
configured idle time.

With --watch, a session is seeded from the file and follows every change
written to it. Its ID is logged at startup.

Prometheus metrics are served at /metrics unless --no-metrics is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			dir := c.Config.FlowDirection()
			if direction != "" {
				var err error
				if dir, err = graph.ParseDirection(direction); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), serveRun{
				addr:      addr,
				watchFile: watchFile,
				direction: dir,
				metrics:   !noMetrics,
				flags:     flags,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&watchFile, "watch", "w", "", "seed a session from this file and follow its changes")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "flow direction of new sessions: LR, TB (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	flags.register(cmd)
	return cmd
}

type serveRun struct {
	addr      string
	watchFile string
	direction graph.Direction
	metrics   bool
	flags     layoutFlags
}

func (c *CLI) runServe(ctx context.Context, run serveRun) error {
	manager, closeCache, err := c.newLayoutManager(ctx, run.flags)
	if err != nil {
		return err
	}
	defer closeCache()

	store := session.NewStore(
		session.WithLogger(c.Logger),
		session.WithLayout(manager),
		session.WithDirection(run.direction),
	)

	opts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithMaxBody(c.Config.Server.MaxBody),
	}
	if run.metrics {
		opts = append(opts, server.WithMetricsHandler(c.metricsHandler()))
	}
	handler := server.New(store, opts...)

	g, gctx := errgroup.WithContext(ctx)

	if run.watchFile != "" {
		w, err := c.watchSession(gctx, store, run.watchFile)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}

	if idle := c.Config.Server.SessionIdle; idle > 0 {
		g.Go(func() error {
			store.Janitor(gctx, janitorInterval, idle, func(removed int) {
				c.Logger.Info("dropped idle sessions", "count", removed, "live", store.Len())
			})
			return nil
		})
	}

	g.Go(func() error {
		return server.ListenAndServe(gctx, run.addr, handler, c.Logger)
	})

	// gctx ends with the first failure; only a cancelled parent means shutdown.
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// metricsHandler installs the Prometheus hooks on a fresh registry and
// returns the handler exposing it.
func (c *CLI) metricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.New(reg).Install()
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// watchSession seeds a session from path and returns a watcher that feeds
// later changes into it.
func (c *CLI) watchSession(ctx context.Context, store *session.Store, path string) (*watch.Watcher, error) {
	text, err := readSource(path, nil)
	if err != nil {
		return nil, err
	}
	s, err := store.Create(ctx, text)
	if err != nil && !errors.Recoverable(err) {
		return nil, err
	}
	if err != nil {
		c.Logger.Warn("watched file does not parse yet", "path", path, "err", errors.UserMessage(err))
	}

	w, err := watch.New(path, func(ctx context.Context, text string) {
		if err := s.SetText(ctx, text); err != nil {
			c.Logger.Warn("watched file rejected", "path", path, "err", errors.UserMessage(err))
			return
		}
		c.Logger.Info("reloaded", "path", path, "session", s.ID())
	},
		watch.WithDebounce(c.Config.Watch.Debounce),
		watch.WithLogger(c.Logger),
		watch.WithOnError(func(err error) {
			c.Logger.Warn("watch error", "path", path, "err", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	w.Prime(text)
	c.Logger.Info("watching", "path", w.Path(), "session", s.ID())
	return w, nil
}
