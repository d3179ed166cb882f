package cmd

import (
	"fmt"

	"github.com/voiceactorlab/retake/internal/audio"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long:  `List the available capture and playback devices with their ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := audio.NewSystem()
		if err != nil {
			return fmt.Errorf("failed to initialize audio: %w", err)
		}
		defer system.Close()

		inputs, err := system.ListInputDevices()
		if err != nil {
			return fmt.Errorf("failed to list input devices: %w", err)
		}
		outputs, err := system.ListOutputDevices()
		if err != nil {
			return fmt.Errorf("failed to list output devices: %w", err)
		}

		fmt.Printf("Input devices (%d):\n", len(inputs))
		printDevices(inputs, cfg.Audio.InputDevice)
		fmt.Printf("\nOutput devices (%d):\n", len(outputs))
		printDevices(outputs, cfg.Playback.OutputDevice)
		return nil
	},
}

func printDevices(devices []audio.Device, configured int) {
	for _, d := range devices {
		marker := " "
		if d.ID == configured {
			marker = ">"
		} else if d.IsDefault && configured == audio.DefaultDevice {
			marker = "*"
		}
		fmt.Printf("  %s %3d  %s\n", marker, d.ID, d.Name)
	}
}
