package cli

import (
	"fmt"
	"strings"

	"github.com/projectkit/projectkit/internal/config"
	"github.com/projectkit/projectkit/internal/logging"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.projectkit/config.yaml.

Keys: ` + strings.Join(config.Keys, ", "),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigValue(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKnownKey(key) {
			return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(config.Keys, ", "))
		}
		if key == config.KeyTemplateDirs {
			for _, dir := range config.TemplateDirs() {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(key))
		return nil
	},
}

// checkConfigValue rejects values that would only fail later, at create time.
func checkConfigValue(key, value string) error {
	switch key {
	case config.KeyBundlePrefix:
		return placeholder.CheckBundlePrefix(value)
	case config.KeyLogLevel:
		_, err := logging.ParseLevel(value)
		return err
	}
	return nil
}
