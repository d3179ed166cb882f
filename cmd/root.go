package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/voiceactorlab/retake/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	cfgFile      string
	verboseLevel int
)

var rootCmd = &cobra.Command{
	Use:   "retake",
	Short: "Voice-over practice recorder",
	Long: `Retake is a CLI tool for practicing voice-over scripts: load a script,
record takes against its sections, annotate and adopt the best one, and
export the results as WAV files.

A project is a plain folder holding the script, the recorded takes and
their metadata.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verboseLevel)

		if cfgFile == "" {
			cfgFile = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/retake.yaml)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", 0, "verbose level: 0=info, 1=debug")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(takesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging configures slog based on the verbose level
func setupLogging(level int) {
	slogLevel := slog.LevelInfo
	if level >= 1 {
		slogLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

// rememberProject pushes dir onto the recent-project list and persists the
// config. Failures only warn; recents are a convenience.
func rememberProject(dir string) {
	cfg.AddRecentProject(dir)
	if err := cfg.Save(cfgFile); err != nil {
		slog.Warn("failed to persist recent projects", "error", err)
	}
}
