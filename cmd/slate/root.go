package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slateplayer/slate/internal/config"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Media discovery and playback engine",
	Long: `slate - media discovery and playback engine

Scans directory trees for playable media, honoring .ignore exclusion
markers, and plays the result through a configurable frame filter
pipeline with optional hardware acceleration.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "slate.toml", "Path to config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("slate {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setup loads the configuration and builds the process logger. A
// missing file at the default location falls back to built-in
// defaults; an explicit --config path must exist.
func setup(cmd *cobra.Command) error {
	if _, err := os.Stat(configPath); err != nil {
		if cmd.Flags().Changed("config") {
			return fmt.Errorf("config file %q: %w", configPath, err)
		}
		cfg = config.Default()
	} else {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Player.LogLevel),
	}))

	var fatal []string
	for _, problem := range cfg.Validate() {
		if strings.Contains(problem, "warning:") {
			logger.Warn(problem)
			continue
		}
		fatal = append(fatal, problem)
	}
	if len(fatal) > 0 {
		return &config.ConfigError{Path: configPath, Errors: fatal}
	}
	return nil
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
