package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cmdpkg "github.com/berrythewa/pueue/internal/cli/cmd"
	"github.com/berrythewa/pueue/internal/common"
	"github.com/berrythewa/pueue/internal/config"
)

var (
	// Flags that apply to all commands
	logLevel   string
	cfgFile    string
	socketPath string
	noFileLog  bool
	noJournal  bool

	// The loaded configuration
	cfg *config.Config

	// Logger instance
	logger *zap.Logger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pueue",
	Short: "Client for the pueue task queue daemon",
	Long: `pueue sends commands to a running pueue daemon, which executes shell
commands in the background in the order they were added.

Every request is recorded in a local journal; see 'pueue journal'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// Load config first
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags
		if socketPath != "" {
			cfg.Daemon.SocketPath = socketPath
		}
		if noJournal {
			cfg.Client.Journal = false
		}

		if err := cfg.SystemPaths.EnsureDirs(); err != nil {
			return err
		}

		logger, err = common.NewLogger(cfg, common.LoggerOptions{
			Level:   logLevel,
			NoFile:  noFileLog,
			Console: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("Configuration loaded",
			zap.String("config_file", cfg.SystemPaths.ConfigFile),
			zap.String("socket", cfg.Daemon.SocketPath),
			zap.Bool("journal", cfg.Client.Journal),
			zap.Bool("file_logging", cfg.Log.EnableFileLogging && !noFileLog))

		// Share cfg and logger with cmd package
		cmdpkg.SetConfig(cfg)
		cmdpkg.SetZapLogger(logger)

		return nil
	},
}

// cleanup performs cleanup operations before exit
func cleanup() {
	cmdpkg.Cleanup()
	if logger != nil {
		_ = logger.Sync()
	}
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ExecuteContext runs the root command with ctx and releases resources afterwards.
func ExecuteContext(ctx context.Context) error {
	defer cleanup()
	return RootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets the version information used by the version command
func SetVersionInfo(version, buildTime, commit string) {
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	RootCmd.AddCommand(cmd)
}

func init() {
	// Global flags for all commands
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pueue/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Path of the daemon's unix socket")
	RootCmd.PersistentFlags().BoolVar(&noFileLog, "no-file-log", false, "Disable logging to file")
	RootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Don't record sent messages in the journal")
}
