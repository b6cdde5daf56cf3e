/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/config"
	"github.com/jfmyers9/lrcup/internal/publisher"
	"github.com/jfmyers9/lrcup/internal/tags"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	logFile  string
	logLevel string
	apiURL   string

	// Set up by the root command before any subcommand runs
	cfg    *config.Config
	logger = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lrcup",
	Short: "Timed lyrics for LRC files, audio tags and LRCLIB",
	Long: `lrcup moves timed song lyrics between plain-text LRC files, tags
embedded in audio files (MP3, FLAC, MP4/M4A) and the LRCLIB lyrics database.

It can upload lyrics to LRCLIB, search and download them, embed them into
audio files one at a time or for a whole library, and shift the timestamps
of an LRC file.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: config log_file, else stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default: config log_level)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "LRCLIB API URL (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		loaded.APIURL = apiURL
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if logFile != "" {
		loaded.LogFile = logFile
	}
	cfg = loaded

	if logger, err = setupLogger(cfg.LogFile, cfg.LogLevel, os.Stderr); err != nil {
		return err
	}

	logger.Debug().
		Str("version", version).
		Str("api_url", cfg.APIURL).
		Msg("Configuration loaded")
	return nil
}

// newClient creates an LRCLIB client from the loaded configuration
func newClient() (*publisher.Client, error) {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = fmt.Sprintf("lrcup %s (https://github.com/jfmyers9/lrcup)", version)
	}

	client, err := publisher.New(publisher.Options{
		BaseURL:   cfg.APIURL,
		UserAgent: userAgent,
		Workers:   cfg.SolverWorkers,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRCLIB client: %w", err)
	}
	return client, nil
}

// openQueue opens the pending publish queue in the data directory
func openQueue() (*publisher.Queue, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	queue, err := publisher.NewQueue(cfg.QueuePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open pending queue: %w", err)
	}
	return queue, nil
}

// language returns the flag value when set, else the configured default
func language(cmd *cobra.Command) string {
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		return lang
	}
	if cfg != nil && cfg.Language != "" {
		return cfg.Language
	}
	return tags.DefaultLanguage
}
