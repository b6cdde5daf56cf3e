package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// Config holds application configuration
type Config struct {
	// LRCLIB API base URL
	// Default: "https://lrclib.net/api"
	APIURL string

	// User-Agent sent to LRCLIB; empty uses the client default
	UserAgent string

	// Default ID3 lyrics language (ISO-639-2)
	// Default: "XXX"
	Language string

	// Goroutines used to solve publish challenges
	SolverWorkers int

	// Files synced at once by the sync command
	SyncConcurrency int

	// Directory holding the pending publish queue
	// Default: ~/.local/share/lrcup
	DataDir string

	// Logging defaults, overridden by --log-level and --log-file
	// Default: "warn", stderr
	LogLevel string
	LogFile  string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("api_url", lrclib.DefaultBaseURL)
	v.SetDefault("user_agent", "")
	v.SetDefault("language", "XXX")
	v.SetDefault("solver_workers", lrclib.DefaultWorkers)
	v.SetDefault("sync_concurrency", 4)
	v.SetDefault("data_dir", getDataDir())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("LRCUP")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		APIURL:          v.GetString("api_url"),
		UserAgent:       v.GetString("user_agent"),
		Language:        strings.ToUpper(v.GetString("language")),
		SolverWorkers:   v.GetInt("solver_workers"),
		SyncConcurrency: v.GetInt("sync_concurrency"),
		DataDir:         expandHome(v.GetString("data_dir")),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFile:         expandHome(v.GetString("log_file")),
	}

	return cfg, nil
}

// QueuePath returns the path of the pending publish database
func (c *Config) QueuePath() string {
	return filepath.Join(c.DataDir, "pending.db")
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "lrcup")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// getDataDir returns the default data directory path
func getDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "lrcup")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.saveTo(filepath.Join(getConfigDir(), "config.yaml"))
}

func (c *Config) saveTo(configFile string) error {
	v := viper.New()

	// Set values in viper
	v.Set("api_url", c.APIURL)
	v.Set("user_agent", c.UserAgent)
	v.Set("language", c.Language)
	v.Set("solver_workers", c.SolverWorkers)
	v.Set("sync_concurrency", c.SyncConcurrency)
	v.Set("data_dir", c.DataDir)
	v.Set("log_level", c.LogLevel)
	v.Set("log_file", c.LogFile)

	// Write to file
	return v.WriteConfigAs(configFile)
}
