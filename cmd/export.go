package cmd

import (
	"fmt"

	"github.com/voiceactorlab/retake/internal/audio"
	"github.com/voiceactorlab/retake/internal/notify"
	"github.com/voiceactorlab/retake/internal/service"
	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [project-dir] [dest-dir] [take...]",
	Short: "Export takes as WAV files",
	Long: `Copy takes into a destination folder. Takes are addressed by list
number or id prefix; with --adopted the adopted take is exported instead.
Missing takes are skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, destDir := args[0], args[1]
		adoptedOnly, _ := cmd.Flags().GetBool("adopted")

		if cmd.Flags().Changed("friendly-names") {
			friendly, _ := cmd.Flags().GetBool("friendly-names")
			cfg.Export.FriendlyNames = friendly
		}

		svc := service.New(cfg, audio.NewRecorder(nil), notify.New(cfg.Notifications))

		var exported []string
		var err error
		if adoptedOnly {
			exported, err = svc.ExportAdopted(dir, destDir)
			if err != nil {
				return err
			}
			if exported == nil {
				return fmt.Errorf("no adopted take in %s", dir)
			}
		} else {
			if len(args) < 3 {
				return fmt.Errorf("no takes given (or use --adopted)")
			}
			proj := storage.LoadProject(dir)
			if proj == nil {
				return fmt.Errorf("no project at %s", dir)
			}
			var ids []string
			for _, key := range args[2:] {
				t := resolveTake(proj, key)
				if t == nil {
					return fmt.Errorf("no take matching %q", key)
				}
				ids = append(ids, t.ID)
			}
			exported, err = svc.ExportTakes(dir, ids, destDir)
			if err != nil {
				return err
			}
		}

		for _, path := range exported {
			fmt.Println(path)
		}
		fmt.Printf("Exported %d take(s) to %s\n", len(exported), destDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("adopted", false, "export the adopted take")
	exportCmd.Flags().Bool("friendly-names", false, "name exports {project}_TakeN.wav (overrides config)")
}
