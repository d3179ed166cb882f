package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/voiceactorlab/retake/internal/audio"
	"github.com/voiceactorlab/retake/internal/notify"
	"github.com/voiceactorlab/retake/internal/service"
	"github.com/voiceactorlab/retake/internal/session"
	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record [project-dir]",
	Short: "Record a take into a project",
	Long: `Record a take from the configured input device. The take filename is
suggested from the script section at the cursor position.

While recording:
  p + Enter    pause
  r + Enter    resume
  s or Enter   stop and save the take
  q + Enter    stop and discard
Ctrl+C stops and saves as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		proj := storage.LoadProject(dir)
		if proj == nil {
			return fmt.Errorf("no project at %s", dir)
		}

		cursor, _ := cmd.Flags().GetInt("cursor")
		memo, _ := cmd.Flags().GetString("memo")
		if cursor < 0 || cursor > len(proj.ScriptText) {
			cursor = len(proj.ScriptText)
		}

		system, err := audio.NewSystem()
		if err != nil {
			return fmt.Errorf("failed to initialize audio: %w", err)
		}
		defer system.Close()

		recorder := audio.NewRecorder(system)
		recorder.SetInputDevice(cfg.Audio.InputDevice)
		svc := service.New(cfg, recorder, notify.New(cfg.Notifications))

		started, err := recorder.Start()
		if err != nil {
			return fmt.Errorf("failed to start recording: %w", err)
		}
		if !started {
			return fmt.Errorf("recorder is already active")
		}

		monitor := session.NewRecordingMonitor(recorder)
		monitor.OnTick = func(elapsedSec float64, samples []float32) {
			fmt.Printf("\rREC %6.1fs  %-30s", elapsedSec, levelBar(samples, 30))
		}
		monitor.Start()
		defer monitor.Stop()

		fmt.Println("Recording... (p=pause, r=resume, s/Enter=save, q=discard)")

		discard, err := recordLoop(recorder)
		monitor.Stop()
		fmt.Println()
		if err != nil {
			recorder.Stop()
			return err
		}
		if discard {
			if err := recorder.Stop(); err != nil {
				return fmt.Errorf("failed to stop recording: %w", err)
			}
			fmt.Println("Take discarded.")
			return nil
		}

		take, err := svc.FinalizeTake(dir, proj.ScriptText, cursor, memo)
		if err != nil {
			return err
		}
		if take == nil {
			fmt.Println("Nothing recorded.")
			return nil
		}

		rememberProject(dir)
		fmt.Printf("Saved %s\n", take.WAVFilename)
		return nil
	},
}

// recordLoop drives pause/resume/stop from stdin and the interrupt signal.
// Returns true when the user chose to discard the take.
func recordLoop(recorder *audio.Recorder) (bool, error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(strings.ToLower(scanner.Text()))
		}
		close(lines)
	}()

	for {
		select {
		case <-sigChan:
			return false, nil
		case line, ok := <-lines:
			if !ok {
				return false, nil
			}
			switch line {
			case "p":
				if err := recorder.Pause(); err != nil {
					return false, fmt.Errorf("failed to pause: %w", err)
				}
				fmt.Println("Paused. (r=resume)")
			case "r":
				resumed, err := recorder.Resume()
				if err != nil {
					return false, fmt.Errorf("failed to resume: %w", err)
				}
				if resumed {
					fmt.Println("Recording...")
				}
			case "", "s":
				return false, nil
			case "q":
				return true, nil
			}
		}
	}
}

// levelBar renders the loudest recent peak as a text meter.
func levelBar(samples []float32, width int) string {
	peaks := session.Peaks(samples, 1)
	if len(peaks) == 0 {
		return ""
	}
	n := int(peaks[0] * float32(width))
	if n > width {
		n = width
	}
	return strings.Repeat("#", n)
}

func init() {
	recordCmd.Flags().IntP("cursor", "c", -1, "script cursor position in bytes (default: end of script)")
	recordCmd.Flags().StringP("memo", "m", "", "memo to attach to the take")
}
