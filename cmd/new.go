package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [project-dir]",
	Short: "Create a new project folder",
	Long: `Create a project folder with an empty script and takes directory.
Optionally import a script file into it with --script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		if _, err := storage.CreateProject(dir); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		scriptFile, _ := cmd.Flags().GetString("script")
		if scriptFile != "" {
			text, err := os.ReadFile(scriptFile)
			if err != nil {
				return fmt.Errorf("failed to read script file: %w", err)
			}
			if err := storage.SaveScript(dir, string(text)); err != nil {
				return fmt.Errorf("failed to save script: %w", err)
			}
		}

		rememberProject(dir)

		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		fmt.Printf("Created project at %s\n", abs)
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("script", "s", "", "script file to import into the new project")
}
