// Package main provides the CLI entrypoint for the markdown conversion service.
// It wires subcommands (serve, convert, token), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"mdconvert/internal/config"
	"mdconvert/internal/converter"
	"mdconvert/pkg/logger"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// getConverter builds a converter from configuration. A nil meter provider
// falls back to the global one.
func getConverter(ctx context.Context, cfg *config.Config, mp metric.MeterProvider) converter.Converter {
	opts, err := converter.NewOptions(cfg)
	if err != nil {
		logger.Fatal(ctx, "could not build converter options", zap.Error(err))
	}
	opts.MeterProvider = mp

	conv, err := converter.New(opts)
	if err != nil {
		logger.Fatal(ctx, "could not create converter", zap.Error(err))
	}

	return conv
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "mdconvert",
		Short: "Converts markdown to Word and Excel documents",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		convertCommand(cfg),
		tokenCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
