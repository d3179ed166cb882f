package cmd

import (
	"fmt"

	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [project-dir]",
	Short: "Show a project summary",
	Long: `Display the project's script status, take count and per-take details.
Without an argument, list the recently opened projects instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if len(cfg.RecentProjects) == 0 {
				fmt.Println("No recent projects.")
				return nil
			}
			fmt.Println("Recent projects:")
			for i, p := range cfg.RecentProjects {
				fmt.Printf("  %d. %s\n", i+1, p)
			}
			return nil
		}

		dir := args[0]
		proj := storage.LoadProject(dir)
		if proj == nil {
			return fmt.Errorf("no project at %s", dir)
		}

		fmt.Printf("Project: %s\n", dir)
		if proj.HasScript() {
			fmt.Printf("Script:  %d bytes\n", len(proj.ScriptText))
		} else {
			fmt.Println("Script:  (none)")
		}
		fmt.Printf("Takes:   %d\n", len(proj.Takes))

		var total float64
		for i, t := range proj.Takes {
			dur := storage.WAVDurationSeconds(dir, t.WAVFilename)
			total += dur
			fmt.Printf("  %s  %5.1fs  %s%s\n",
				t.DisplayName(i), dur, takeMarkers(t.Favorite, t.Adopted), t.WAVFilename)
		}
		if len(proj.Takes) > 0 {
			fmt.Printf("Total:   %.1fs recorded\n", total)
		}
		if adopted := proj.AdoptedTake(); adopted != nil {
			fmt.Printf("Adopted: %s\n", adopted.WAVFilename)
		}
		return nil
	},
}

// takeMarkers renders the favorite/adopted flags as a short prefix.
func takeMarkers(favorite, adopted bool) string {
	out := ""
	if adopted {
		out += "[adopted] "
	}
	if favorite {
		out += "* "
	}
	return out
}
