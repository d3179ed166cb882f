package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/voiceactorlab/retake/internal/audio"
	"github.com/voiceactorlab/retake/internal/play"
	"github.com/voiceactorlab/retake/internal/project"
	"github.com/voiceactorlab/retake/internal/session"
	"github.com/voiceactorlab/retake/internal/storage"

	"github.com/spf13/cobra"
)

const seekStep = 5 * time.Second

var playCmd = &cobra.Command{
	Use:   "play [project-dir] [take]",
	Short: "Play a take",
	Long: `Play a take through the configured output device. The take is addressed
by its list number (see 'retake takes') or by an id prefix.

While playing:
  p + Enter    pause
  r + Enter    resume
  f / b        seek forward / back 5 seconds
  + / -        speed up / slow down by 0.25x
  s + Enter    stop and rewind
  q + Enter    quit`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		proj := storage.LoadProject(dir)
		if proj == nil {
			return fmt.Errorf("no project at %s", dir)
		}

		take := resolveTake(proj, args[1])
		if take == nil {
			return fmt.Errorf("no take matching %q", args[1])
		}

		system, err := audio.NewSystem()
		if err != nil {
			return fmt.Errorf("failed to initialize audio: %w", err)
		}
		defer system.Close()

		player := play.NewPlayer(play.NewPortAudioEngine())
		if err := player.SetOutputDevice(cfg.Playback.OutputDevice); err != nil {
			return fmt.Errorf("failed to select output device: %w", err)
		}
		defer player.Stop()

		monitor := session.NewPlaybackMonitor(player)
		monitor.OnPosition = func(pos, duration float64) {
			fmt.Printf("\r%6.1fs / %6.1fs", pos, duration)
		}
		ended := make(chan struct{}, 1)
		monitor.OnStopped = func() {
			select {
			case ended <- struct{}{}:
			default:
			}
		}

		wavPath := storage.TakeWAVPath(dir, take.WAVFilename)
		started, err := monitor.Activate(take.ID, wavPath)
		if err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		if !started {
			return fmt.Errorf("take audio missing: %s", wavPath)
		}
		defer monitor.Reset()

		fmt.Printf("Playing %s (%.1fs)\n", take.WAVFilename, monitor.DurationSec())
		rememberProject(dir)

		err = playLoop(monitor, player, ended)
		fmt.Println()
		return err
	},
}

// playLoop drives the playback transport from stdin until the take ends or
// the user quits.
func playLoop(monitor *session.PlaybackMonitor, player *play.Player, ended <-chan struct{}) error {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(strings.ToLower(scanner.Text()))
		}
		close(lines)
	}()

	speed := 1.0
	for {
		select {
		case <-ended:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "p":
				if err := monitor.Pause(); err != nil {
					return fmt.Errorf("failed to pause: %w", err)
				}
			case "r":
				monitor.Resume()
			case "f":
				monitor.SeekBy(seekStep)
			case "b":
				monitor.SeekBy(-seekStep)
			case "+":
				speed = adjustSpeed(player, speed, 0.25)
			case "-":
				speed = adjustSpeed(player, speed, -0.25)
			case "s":
				if err := monitor.Stop(); err != nil {
					return fmt.Errorf("failed to stop: %w", err)
				}
			case "q":
				return nil
			}
		}
	}
}

func adjustSpeed(player *play.Player, speed, delta float64) float64 {
	speed += delta
	if speed < 0.25 {
		speed = 0.25
	}
	if speed > 3.0 {
		speed = 3.0
	}
	player.SetSpeed(speed)
	fmt.Printf("\nSpeed %.2fx\n", speed)
	return speed
}

// resolveTake finds a take by 1-based list number or by id prefix.
func resolveTake(proj *project.Project, key string) *project.Take {
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 1 && n <= len(proj.Takes) {
			return proj.Takes[n-1]
		}
		return nil
	}
	for _, t := range proj.Takes {
		if strings.HasPrefix(t.ID, key) {
			return t
		}
	}
	return nil
}
