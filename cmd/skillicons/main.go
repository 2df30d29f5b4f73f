// Package main is the entry point for the skillicons binary.
// It serves composite icon images and builds the icon catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/polisai/skillicons/pkg/catalog"
	"github.com/polisai/skillicons/pkg/config"
	"github.com/polisai/skillicons/pkg/icons"
	"github.com/polisai/skillicons/pkg/logging"
	"github.com/polisai/skillicons/pkg/server"
	"github.com/polisai/skillicons/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLIConfig holds the parsed CLI configuration. Empty values leave the
// loaded configuration untouched.
type CLIConfig struct {
	Config   string
	LogLevel string
	Pretty   bool

	Listen  string
	Catalog string

	Src   string
	Out   string
	Watch bool

	changed map[string]bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for skillicons
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skillicons",
		Short: "Render grids of skill icons as a single SVG",
		Long: `skillicons serves one SVG image containing a grid of technology icons.

Build the catalog from a directory of SVG files, then serve it:
  skillicons build --src icons --out dist
  skillicons serve --catalog dist/icons.json

Request an image:
  curl 'http://localhost:3000/icons?i=js,ts,go&theme=light&perline=2'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(), newBuildCmd())
	return rootCmd
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to configuration file (YAML)")
	cmd.Flags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	cmd.Flags().Bool("pretty", false, "Human-readable log output")
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the icon API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	cmd.Flags().String("listen", "", "Address to listen on (default :3000, or :$PORT)")
	cmd.Flags().String("catalog", "", "Path to the built icons.json")
	return cmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build icons.json from a directory of SVG files",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}
	addCommonFlags(cmd)
	cmd.Flags().String("src", "", "Directory containing the source SVG files")
	cmd.Flags().String("out", "", "Output directory for icons.json")
	cmd.Flags().Bool("watch", false, "Rebuild whenever a source SVG changes")
	return cmd
}

// parseCLIConfig reads every flag defined on cmd.
func parseCLIConfig(cmd *cobra.Command) (*CLIConfig, error) {
	cli := &CLIConfig{changed: make(map[string]bool)}

	strFlags := map[string]*string{
		"config":    &cli.Config,
		"log-level": &cli.LogLevel,
		"listen":    &cli.Listen,
		"catalog":   &cli.Catalog,
		"src":       &cli.Src,
		"out":       &cli.Out,
	}
	for name, dst := range strFlags {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}

	boolFlags := map[string]*bool{
		"pretty": &cli.Pretty,
		"watch":  &cli.Watch,
	}
	for name, dst := range boolFlags {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		cli.changed[name] = cmd.Flags().Changed(name)
	}

	return cli, nil
}

// buildConfig loads the layered configuration and applies CLI overrides on top.
func buildConfig(cli *CLIConfig) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}

	if cli.Listen != "" {
		cfg.Server.Address = cli.Listen
	}
	if cli.Catalog != "" {
		cfg.Catalog.Path = cli.Catalog
	}
	if cli.Src != "" {
		cfg.Catalog.SourceDir = cli.Src
	}
	if cli.Out != "" {
		cfg.Catalog.OutDir = cli.Out
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.changed["pretty"] {
		cfg.Logging.Pretty = cli.Pretty
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// setup loads .env, the configuration and the logger shared by both commands.
func setup(cmd *cobra.Command) (*CLIConfig, *config.Config, *slog.Logger, error) {
	_ = godotenv.Load()

	cli, err := parseCLIConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := buildConfig(cli)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: cmd.OutOrStdout(),
	})
	slog.SetDefault(logger)

	return cli, cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	_, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Environment:    cfg.Telemetry.Environment,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("Telemetry shutdown error", "error", err)
		}
	}()

	cat, err := catalog.Load(afero.NewOsFs(), cfg.Catalog.Path)
	if err != nil {
		logger.Error("Failed to load catalog", "path", cfg.Catalog.Path, "error", err)
		return err
	}
	logger.Info("Catalog loaded", "path", cfg.Catalog.Path, "icons", cat.Len())

	var metrics *server.Metrics
	if cfg.Metrics.Enabled {
		metrics = server.NewMetrics()
	}

	srv, err := server.New(server.Options{
		Catalog:     cat,
		Resolver:    icons.NewResolver(cat, icons.DefaultAliases),
		Render:      cfg.Render,
		Metrics:     metrics,
		MetricsPath: cfg.Metrics.Path,
		RateLimiter: server.NewRateLimiter(cfg.Server.RateLimit),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if _, err := srv.Start(cfg.Server); err != nil {
		logger.Error("Failed to start server", "error", err)
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case serveErr = <-srv.Errors():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}

	return serveErr
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cli, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	src, out := cfg.Catalog.SourceDir, cfg.Catalog.OutDir

	rebuild := func() error {
		c, path, err := catalog.Rebuild(fs, src, out)
		if err != nil {
			return err
		}
		logger.Info("Catalog written", "path", path, "icons", c.Len())
		return nil
	}

	if err := rebuild(); err != nil {
		logger.Error("Build failed", "src", src, "error", err)
		if !cli.Watch {
			return err
		}
	}

	if !cli.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := catalog.NewWatcher(src, rebuild, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", src, err)
	}
	logger.Info("Watching for icon changes", "src", src)

	<-ctx.Done()
	return watcher.Stop()
}
