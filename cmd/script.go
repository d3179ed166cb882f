package cmd

import (
	"fmt"
	"os"

	"github.com/voiceactorlab/retake/internal/scriptfmt"
	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage a project's script",
}

var scriptShowCmd = &cobra.Command{
	Use:   "show [project-dir]",
	Short: "Print the project's script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj := storage.LoadProject(args[0])
		if proj == nil {
			return fmt.Errorf("no project at %s", args[0])
		}
		if !proj.HasScript() {
			return fmt.Errorf("project has no script")
		}
		fmt.Print(proj.ScriptText)
		return nil
	},
}

var scriptImportCmd = &cobra.Command{
	Use:   "import [project-dir] [script-file]",
	Short: "Import a script file into the project",
	Long:  `Replace the project's script with the contents of a UTF-8 text file.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, scriptFile := args[0], args[1]
		if storage.LoadProject(dir) == nil {
			return fmt.Errorf("no project at %s", dir)
		}
		text, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to read script file: %w", err)
		}
		if err := storage.SaveScript(dir, string(text)); err != nil {
			return fmt.Errorf("failed to save script: %w", err)
		}
		fmt.Printf("Imported %d bytes into %s\n", len(text), dir)
		return nil
	},
}

var scriptSectionCmd = &cobra.Command{
	Use:   "section [project-dir]",
	Short: "Show the section heading at a cursor position",
	Long: `Resolve the section heading governing the given cursor position, the
same lookup used to suggest take filenames.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj := storage.LoadProject(args[0])
		if proj == nil {
			return fmt.Errorf("no project at %s", args[0])
		}
		cursor, _ := cmd.Flags().GetInt("cursor")
		if cursor < 0 || cursor > len(proj.ScriptText) {
			cursor = len(proj.ScriptText)
		}
		section := scriptfmt.CurrentSection(proj.ScriptText, cursor)
		if section == "" {
			fmt.Println("(no section)")
			return nil
		}
		fmt.Println(section)
		return nil
	},
}

func init() {
	scriptSectionCmd.Flags().IntP("cursor", "c", -1, "script cursor position in bytes (default: end of script)")

	scriptCmd.AddCommand(scriptShowCmd)
	scriptCmd.AddCommand(scriptImportCmd)
	scriptCmd.AddCommand(scriptSectionCmd)
}
