package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/urmzd/singingbell/pkg/config"
	"github.com/urmzd/singingbell/pkg/version"
)

// options holds the persistent command line flags.
type options struct {
	configPath string
	dbPath     string
	logLevel   string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "singingbell",
	Short: "Network controlled singing bowl bell.",
	Long: `Drives a servo mallet against a singing bowl and serves an HTTP API to control it.

Chime patterns:
  alarm     ten strikes, seven seconds apart, then stops by itself
  meditate  one strike every fifteen seconds until stopped
  doorbell  a double strike

Settings are read from the YAML file given by --config. The calibration angle and listen
address are stored in the database on first run and read from there afterwards.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return run(ctx, cfg)
	},
}

// Execute runs the CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("singingbell failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to database file (overrides the settings file)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the settings file)")

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadConfig reads the settings file, applies flag overrides and sets the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.dbPath != "" {
		cfg.Database = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	return cfg, nil
}
