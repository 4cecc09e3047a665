package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/metra/internal/config"
	"github.com/san-kum/metra/internal/feed"
	"github.com/san-kum/metra/internal/logging"
	"github.com/san-kum/metra/internal/search"
	"github.com/san-kum/metra/internal/server"
	"github.com/san-kum/metra/internal/viz"
)

var (
	configFile string
	presetName string
	dataMode   string
	backendURL string
	logLevel   string
	logFile    string
	themeName  string
	addr       string
	collision  string
	seed       int64
	width      float64
	height     float64
	frameRate  int
	frameCount int
	seedCount  int
	fitTerm    bool
	jsonOut    bool
	outPath    string
	format     string
	frameIndex int
	trails     bool
	query      string
	srcName    string
	srcURL     string
	srcDesc    string
	assumeYes  bool
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

// main registers the commands and runs the dashboard when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "metra",
		Short:             "news event dashboard with a physics bubble map",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runDashboard,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&presetName, "preset", "", "physics preset")
	pf.StringVar(&dataMode, "mode", "", "data mode (mock or live)")
	pf.StringVar(&backendURL, "backend", "", "backend base url for live mode")
	pf.StringVar(&logLevel, "log-level", "", "log level")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&collision, "collision", "", "collision policy (absorb or elastic)")
	pf.Int64Var(&seed, "seed", 0, "layout seed")

	rootCmd.Flags().StringVar(&themeName, "theme", "emerald", "color theme")
	rootCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the dashboard API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedCommands()...)
	rootCmd.AddCommand(runCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves the configuration and builds the logger. The dashboard
// owns the terminal, so it only logs when a log file is configured.
func setup(cmd *cobra.Command, args []string) error {
	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg = c

	if cmd.Root() == cmd && cfg.Log.File == "" {
		logger = zap.NewNop()
		return nil
	}
	logger, err = logging.New(cfg.Log.Level, cfg.Log.Development, cfg.Log.File)
	return err
}

// resolveConfig layers file, environment, preset and flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Resolve(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if presetName != "" {
		if err := config.ApplyPreset(c, presetName); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		c.Data.Mode = dataMode
	}
	if flags.Changed("backend") {
		c.Data.Backend = backendURL
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
	if flags.Changed("collision") {
		c.Physics.Collision = collision
	}
	if flags.Changed("seed") {
		c.Physics.Seed = seed
	}
	if flags.Changed("addr") {
		c.Server.Addr = addr
	}
	if flags.Changed("fps") {
		c.Canvas.FrameRate = frameRate
	}
	if flags.Changed("width") {
		c.Canvas.Width = width
	}
	if flags.Changed("height") {
		c.Canvas.Height = height
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func httpClient() *http.Client {
	return &http.Client{Timeout: cfg.Data.Timeout}
}

func providerFor(mode string) feed.Provider {
	return feed.New(mode, cfg.Data.Backend, httpClient(), logger)
}

func newFinder() search.Finder {
	if cfg.Search.Remote && cfg.Live() {
		return search.NewRemote(cfg.Data.Backend, httpClient(), logger)
	}
	return search.NewStub(cfg.Search.Delay)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	d := viz.New(viz.Options{
		Provider:   providerFor(cfg.Data.Mode),
		Providers:  providerFor,
		Finder:     newFinder(),
		Params:     params,
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		FrameRate:  cfg.Canvas.FrameRate,
		EntryDelay: cfg.Canvas.EntryDelay,
		Theme:      themeName,
		Logger:     logger,
		Clipboard:  clipboard.WriteAll,
	})

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	if configFile == "" {
		return viz.Run(ctx, d, nil)
	}

	configs := make(chan viz.ConfigMsg, 1)
	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	g.Go(func() error {
		defer cancel()
		return viz.Run(runCtx, d, configs)
	})
	g.Go(func() error {
		err := config.Watch(runCtx, configFile, config.DefaultDebounce, func(c *config.Config, err error) {
			if err == nil && presetName != "" {
				err = config.ApplyPreset(c, presetName)
			}
			select {
			case configs <- viz.ConfigMsg{Config: c, Err: err}:
			case <-runCtx.Done():
			}
		})
		if err != nil {
			logger.Warn("config watch stopped", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

func runServe(cmd *cobra.Command, args []string) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	srv := server.New(providerFor(cfg.Data.Mode), newFinder(), server.Options{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Width:           cfg.Canvas.Width,
		Height:          cfg.Canvas.Height,
		Params:          params,
		Logger:          logger,
	})

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
