package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage Retake configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.Render()
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", cfgFile)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by dotted key and persist it. Known keys:
audio.input_device, audio.sample_rate, playback.output_device,
export.friendly_names, notifications.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		settings := cfg.AsSettings()
		current, ok := settings.Get(key)
		if !ok {
			return fmt.Errorf("unknown config key: %s", key)
		}

		var value any
		switch current.(type) {
		case int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%s expects an integer: %w", key, err)
			}
			value = n
		case bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s expects a boolean: %w", key, err)
			}
			value = b
		default:
			value = raw
		}

		if !settings.Set(key, value) {
			return fmt.Errorf("cannot set %s to %q", key, raw)
		}
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("%s = %v\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}
