package cmd

import (
	"fmt"

	"github.com/robmorgan/conductor/config"
	"github.com/robmorgan/conductor/logger"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for managing and validating conductor configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			logger.GetProjectLogger().WithError(err).Error("Configuration validation failed")
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current Configuration:")
		fmt.Fprintf(out, "  Music:\n")
		fmt.Fprintf(out, "    File: %s\n", orNone(cfg.Music.File))
		fmt.Fprintf(out, "    BPM: %.2f\n", cfg.Music.BPM)
		fmt.Fprintf(out, "    Bar length: %d\n", cfg.Music.BarLength)
		fmt.Fprintf(out, "    Start delay: %.3fs\n", cfg.Music.StartDelay)
		fmt.Fprintf(out, "    Volume: %.2f\n", cfg.Music.Volume)
		fmt.Fprintf(out, "    Frames:\n")
		for i, f := range cfg.Music.Frames {
			fmt.Fprintf(out, "      %d. %s%s\n", i+1, f, immediateMark(f.TransitionImmediately))
		}
		fmt.Fprintf(out, "    End frame: %s%s\n", cfg.Music.EndFrame, immediateMark(cfg.Music.EndFrame.TransitionImmediately))
		fmt.Fprintf(out, "  Engine:\n")
		fmt.Fprintf(out, "    Device: %s\n", cfg.Engine.Device)
		fmt.Fprintf(out, "    Tick rate: %s\n", cfg.Engine.TickRate)
		fmt.Fprintf(out, "  OSC:\n")
		fmt.Fprintf(out, "    Enabled: %t (%s:%d)\n", cfg.OSC.Enabled, cfg.OSC.Host, cfg.OSC.Port)
		fmt.Fprintf(out, "  Lighting:\n")
		fmt.Fprintf(out, "    Enabled: %t (%s, %d fixtures)\n", cfg.Lighting.Enabled, cfg.Lighting.OLAAddress, len(cfg.Lighting.Fixtures))
		fmt.Fprintf(out, "  Logging:\n")
		fmt.Fprintf(out, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "    Format: %s\n", cfg.Logging.Format)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

// loadConfig loads the config file named by --config and applies --verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func immediateMark(immediate bool) string {
	if immediate {
		return " (immediate)"
	}
	return ""
}
