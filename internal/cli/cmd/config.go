package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/pueue/internal/config"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage client configuration",
		Long: `Manage client configuration:
  • Show the active configuration
  • Print the configuration file location
  • Edit configuration in your preferred editor
  • Reset configuration to defaults
  • Validate configuration syntax`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigEditCmd())
	cmd.AddCommand(newConfigResetCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml or json)")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration and data locations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			paths := cfg.SystemPaths
			fmt.Fprintf(out, "Config file: %s\n", paths.ConfigFile)
			fmt.Fprintf(out, "Data dir:    %s\n", paths.DataDir)
			fmt.Fprintf(out, "Journal:     %s\n", paths.JournalFile)
			fmt.Fprintf(out, "Logs:        %s\n", paths.LogDir)
			fmt.Fprintf(out, "Socket:      %s\n", cfg.Daemon.SocketPath)
		},
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in your preferred editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfg.SystemPaths.ConfigFile
			editor := cfg.EditorCommand()

			GetZapLogger().Debug("Editing configuration",
				zap.String("config_path", configPath),
				zap.String("editor", editor))

			if err := launchEditor(cmd.Context(), editor, configPath); err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}

			if err := validateConfig(configPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Configuration validation failed: %v\n", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "The file has been saved, but may contain errors.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated and validated successfully")
			return nil
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfg.SystemPaths.ConfigFile

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file exists, use --force to overwrite")
			}

			defaults := config.DefaultConfig(cfg.SystemPaths)
			if err := defaults.Save(configPath); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force overwrite existing config")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(cfg.SystemPaths.ConfigFile); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func validateConfig(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var c config.Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("invalid YAML syntax: %w", err)
	}

	if c.Log.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("invalid log level %q", c.Log.Level)
		}
	}
	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format %q (want json or text)", c.Log.Format)
	}
	if c.Client.JournalEntries < 0 {
		return fmt.Errorf("client.journal_entries must not be negative")
	}
	return nil
}
