// File: internal/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths holds all relevant paths for the client
type ConfigPaths struct {
	BaseDir     string `yaml:"base_dir"`     // Base directory for config files
	ConfigFile  string `yaml:"config_file"`  // Path to the config file
	DataDir     string `yaml:"data_dir"`     // Directory for client data
	JournalFile string `yaml:"journal_file"` // Path to the sent-message journal
	LogDir      string `yaml:"log_dir"`      // Directory for log files
	TempDir     string `yaml:"temp_dir"`     // Directory for edit buffers
}

// Config holds all client configuration
type Config struct {
	SystemPaths ConfigPaths  `yaml:"system_paths"`
	Log         LogConfig    `yaml:"log"`
	Daemon      DaemonConfig `yaml:"daemon"`
	Client      ClientConfig `yaml:"client"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `yaml:"level"`
	EnableFileLogging bool   `yaml:"enable_file_logging"`
	MaxLogSize        int    `yaml:"max_log_size"` // megabytes
	MaxLogFiles       int    `yaml:"max_log_files"`
	Format            string `yaml:"format"` // "json" or "text"
}

// DaemonConfig describes how to reach the daemon
type DaemonConfig struct {
	SocketPath string        `yaml:"socket_path"`
	Retries    uint64        `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ClientConfig holds options for local behaviour of the client
type ClientConfig struct {
	Editor         string `yaml:"editor"`
	Colors         bool   `yaml:"colors"`
	Journal        bool   `yaml:"journal"`
	JournalEntries int    `yaml:"journal_entries"` // entries shown by default
}

// These are variables so tests can redirect them.
var (
	getConfigPath     = defaultConfigPath
	getDefaultDataDir = defaultDataDir
)

func defaultConfigPath() (string, error) {
	if dir := os.Getenv("PUEUE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.yaml"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pueue", "config.yaml"), nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("PUEUE_DATA_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		if appData, err := os.UserCacheDir(); err == nil {
			return filepath.Join(appData, "pueue"), nil
		}
		return filepath.Join(homeDir, "AppData", "Local", "pueue"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "pueue"), nil
	default: // Linux and others
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "pueue"), nil
		}
		return filepath.Join(homeDir, ".local", "share", "pueue"), nil
	}
}

// GetConfigPaths returns the platform-specific paths. Nothing is created.
func GetConfigPaths() (*ConfigPaths, error) {
	configFile, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	dataDir, err := getDefaultDataDir()
	if err != nil {
		return nil, err
	}
	return pathsFor(configFile, dataDir), nil
}

func pathsFor(configFile, dataDir string) *ConfigPaths {
	return &ConfigPaths{
		BaseDir:     filepath.Dir(configFile),
		ConfigFile:  configFile,
		DataDir:     dataDir,
		JournalFile: filepath.Join(dataDir, "journal.db"),
		LogDir:      filepath.Join(dataDir, "logs"),
		TempDir:     filepath.Join(dataDir, "temp"),
	}
}

// EnsureDirs creates the data directories if they don't exist
func (p ConfigPaths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.LogDir, p.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfig returns a new Config with default values for the given paths
func DefaultConfig(paths ConfigPaths) *Config {
	return &Config{
		SystemPaths: paths,
		Log: LogConfig{
			Level:             "info",
			EnableFileLogging: true,
			MaxLogSize:        10, // 10MB
			MaxLogFiles:       5,
			Format:            "json",
		},
		Daemon: DaemonConfig{
			SocketPath: defaultSocketPath(),
			Retries:    3,
			RetryDelay: 200 * time.Millisecond,
			Timeout:    10 * time.Second,
		},
		Client: ClientConfig{
			Colors:         true,
			Journal:        true,
			JournalEntries: 20,
		},
	}
}

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "pueue", "pueue.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("pueue_%d.sock", os.Getuid()))
}

// Load loads the configuration from the specified file or creates default if not exists
func Load(configPath string) (*Config, error) {
	// If no config path provided, use default
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config file: %w", err)
		}
	}

	dataDir, err := getDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate data directory: %w", err)
	}
	cfg := DefaultConfig(*pathsFor(configPath, dataDir))

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create default config if it doesn't exist
			if err := cfg.Save(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			overrideFromEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the config file on top of the defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.SystemPaths.ConfigFile = configPath

	// Override with environment variables
	overrideFromEnv(cfg)

	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	// Ensure the directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal the config
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write the config file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EditorCommand returns the editor to launch for edit sessions.
func (c *Config) EditorCommand() string {
	if c.Client.Editor != "" {
		return c.Client.Editor
	}
	if val := os.Getenv("EDITOR"); val != "" {
		return val
	}
	return "vi"
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("PUEUE_SOCKET"); val != "" {
		config.Daemon.SocketPath = val
	}
	if val := os.Getenv("PUEUE_RETRIES"); val != "" {
		if n, err := strconv.ParseUint(val, 10, 64); err == nil {
			config.Daemon.Retries = n
		}
	}
	if val := os.Getenv("PUEUE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.Daemon.Timeout = d
		}
	}
	if val := os.Getenv("PUEUE_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("PUEUE_EDITOR"); val != "" {
		config.Client.Editor = val
	}
	if val := os.Getenv("PUEUE_JOURNAL"); val != "" {
		config.Client.Journal = val == "true"
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		config.Client.Colors = false
	}
}
