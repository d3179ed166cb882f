// Package service orchestrates the record-to-take and export flows on top
// of the storage and audio packages, so the cmd layer stays a thin shell.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/voiceactorlab/retake/internal/audio"
	"github.com/voiceactorlab/retake/internal/config"
	"github.com/voiceactorlab/retake/internal/notify"
	"github.com/voiceactorlab/retake/internal/project"
	"github.com/voiceactorlab/retake/internal/scriptfmt"
	"github.com/voiceactorlab/retake/internal/storage"
)

// Service wires the recorder, project storage and notifications together
// for the command layer.
type Service struct {
	cfg      *config.Config
	recorder *audio.Recorder
	notifier *notify.Notifier
}

// New creates a service around an already-constructed recorder.
func New(cfg *config.Config, recorder *audio.Recorder, notifier *notify.Notifier) *Service {
	return &Service{
		cfg:      cfg,
		recorder: recorder,
		notifier: notifier,
	}
}

// Recorder exposes the underlying recorder for transport control.
func (s *Service) Recorder() *audio.Recorder {
	return s.recorder
}

// FinalizeTake stops the recorder, flushes the captured audio into the
// project's takes directory and registers the take in the metadata. The
// preferred basename is derived from the script section under the cursor.
// Returns (nil, nil) when nothing was captured.
func (s *Service) FinalizeTake(projectDir, scriptText string, cursorPos int, memo string) (*project.Take, error) {
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("retake_%s.wav", uuid.New().String()))

	saved, err := s.recorder.StopAndSave(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save recording: %w", err)
	}
	if !saved {
		slog.Debug("no audio captured, skipping take")
		return nil, nil
	}
	defer os.Remove(tmpPath)

	preferred := suggestBasename(projectDir, scriptText, cursorPos)

	take, err := storage.AddTakeFromFile(projectDir, tmpPath, memo, false, preferred)
	if err != nil {
		return nil, fmt.Errorf("failed to add take: %w", err)
	}

	slog.Info("take recorded", "id", take.ID, "wav", take.WAVFilename)
	s.notifier.Send(fmt.Sprintf("Take saved: %s", take.WAVFilename))
	return take, nil
}

// suggestBasename derives the preferred take filename from the script
// section under the cursor and the filenames already in the project.
func suggestBasename(projectDir, scriptText string, cursorPos int) string {
	var existing []string
	if proj := storage.LoadProject(projectDir); proj != nil {
		for _, t := range proj.Takes {
			existing = append(existing, t.WAVFilename)
		}
	}
	return scriptfmt.SuggestTakeBasename(scriptText, cursorPos, existing)
}

// ExportTakes copies the given takes into destDir, honoring the configured
// friendly-name preference, and notifies on completion. Missing takes are
// skipped, matching the storage contract.
func (s *Service) ExportTakes(projectDir string, takeIDs []string, destDir string) ([]string, error) {
	exported, err := storage.ExportTakes(projectDir, takeIDs, destDir, s.cfg.Export.FriendlyNames)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	if len(exported) > 0 {
		s.notifier.Send(fmt.Sprintf("Exported %d take(s) to %s", len(exported), destDir))
	}
	return exported, nil
}

// ExportAdopted exports the project's adopted take, if any. Returns
// (nil, nil) when no take is adopted.
func (s *Service) ExportAdopted(projectDir, destDir string) ([]string, error) {
	proj := storage.LoadProject(projectDir)
	if proj == nil {
		return nil, fmt.Errorf("no project at %s", projectDir)
	}
	adopted := proj.AdoptedTake()
	if adopted == nil {
		return nil, nil
	}
	return s.ExportTakes(projectDir, []string{adopted.ID}, destDir)
}
