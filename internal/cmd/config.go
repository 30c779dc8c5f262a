package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the console configuration",
	Long: `Show or change the console configuration.

The config file lives at ~/.config/attendly/config.yaml by default;
environment variables (ATTENDLY_ENDPOINT and friends) override it.

Examples:
  attendly config show
  attendly config set endpoint https://api.example.com/graphql
  attendly config set debug_otp true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("endpoint:   %s\n", cfg.Endpoint)
	fmt.Printf("debug_otp:  %t\n", cfg.DebugOTP)
	fmt.Printf("log_level:  %s\n", cfg.LogLevel)
	fmt.Printf("log_format: %s\n", cfg.LogFormat)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	// Edit the file contents only; env overrides must not be baked in.
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "endpoint":
		fileCfg.Endpoint = value
	case "debug_otp":
		fileCfg.DebugOTP = value == "true"
	case "log_level":
		fileCfg.LogLevel = value
	case "log_format":
		fileCfg.LogFormat = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := fileCfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Set %s in %s.\n", key, path)
	return nil
}
