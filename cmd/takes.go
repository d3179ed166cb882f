package cmd

import (
	"fmt"
	"strings"

	"github.com/voiceactorlab/retake/internal/project"
	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var takesCmd = &cobra.Command{
	Use:   "takes [project-dir]",
	Short: "List and manage a project's takes",
	Long: `List a project's takes with their memo, favorite and adopted markers.
Takes in subcommands are addressed by list number or id prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		proj := storage.LoadProject(dir)
		if proj == nil {
			return fmt.Errorf("no project at %s", dir)
		}

		if len(proj.Takes) == 0 {
			fmt.Println("No takes recorded.")
			return nil
		}
		for i, t := range proj.Takes {
			line := fmt.Sprintf("%2d. %s  %s%s", i+1, t.DisplayName(i), takeMarkers(t.Favorite, t.Adopted), t.ID[:8])
			if t.Memo != "" {
				line += "  " + t.Memo
			}
			fmt.Println(line)
		}
		return nil
	},
}

var takesMemoCmd = &cobra.Command{
	Use:   "memo [project-dir] [take] [text]",
	Short: "Set a take's memo",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memo := strings.Join(args[2:], " ")
		return updateTake(args[0], args[1], storage.TakeMetaUpdate{Memo: &memo})
	},
}

var takesFavoriteCmd = &cobra.Command{
	Use:   "favorite [project-dir] [take]",
	Short: "Toggle a take's favorite flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clear, _ := cmd.Flags().GetBool("clear")
		favorite := !clear
		return updateTake(args[0], args[1], storage.TakeMetaUpdate{Favorite: &favorite})
	},
}

var takesAdoptCmd = &cobra.Command{
	Use:   "adopt [project-dir] [take]",
	Short: "Adopt a take as the keeper",
	Long: `Mark a take as the adopted one. At most one take is adopted at a time;
adopting clears the flag on every other take. Use --clear to un-adopt.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clear, _ := cmd.Flags().GetBool("clear")
		adopted := !clear
		return updateTake(args[0], args[1], storage.TakeMetaUpdate{Adopted: &adopted})
	},
}

var takesDeleteCmd = &cobra.Command{
	Use:   "delete [project-dir] [take]",
	Short: "Delete a take and its audio",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		take, err := findTake(dir, args[1])
		if err != nil {
			return err
		}
		deleted, err := storage.DeleteTake(dir, take.ID)
		if err != nil {
			return fmt.Errorf("failed to delete take: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no take matching %q", args[1])
		}
		fmt.Printf("Deleted %s\n", take.WAVFilename)
		return nil
	},
}

func updateTake(dir, key string, update storage.TakeMetaUpdate) error {
	take, err := findTake(dir, key)
	if err != nil {
		return err
	}
	updated, err := storage.UpdateTakeMeta(dir, take.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update take: %w", err)
	}
	if !updated {
		return fmt.Errorf("no take matching %q", key)
	}
	fmt.Printf("Updated %s\n", take.WAVFilename)
	return nil
}

func findTake(dir, key string) (*project.Take, error) {
	proj := storage.LoadProject(dir)
	if proj == nil {
		return nil, fmt.Errorf("no project at %s", dir)
	}
	t := resolveTake(proj, key)
	if t == nil {
		return nil, fmt.Errorf("no take matching %q", key)
	}
	return t, nil
}

func init() {
	takesFavoriteCmd.Flags().Bool("clear", false, "clear the favorite flag instead of setting it")
	takesAdoptCmd.Flags().Bool("clear", false, "clear the adopted flag instead of setting it")

	takesCmd.AddCommand(takesMemoCmd)
	takesCmd.AddCommand(takesFavoriteCmd)
	takesCmd.AddCommand(takesAdoptCmd)
	takesCmd.AddCommand(takesDeleteCmd)
}
