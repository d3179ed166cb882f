package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voiceactorlab/retake/internal/audio"
	"github.com/voiceactorlab/retake/internal/config"
	"github.com/voiceactorlab/retake/internal/notify"
	"github.com/voiceactorlab/retake/internal/storage"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	if _, err := storage.CreateProject(dir); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	cfg := config.Default()
	svc := New(cfg, audio.NewRecorder(nil), notify.New(false))
	return svc, dir
}

func TestFinalizeTakeEmptyBufferSkips(t *testing.T) {
	svc, dir := newTestService(t)

	take, err := svc.FinalizeTake(dir, "# Scene\nline\n", 8, "")
	if err != nil {
		t.Fatalf("FinalizeTake() error = %v", err)
	}
	if take != nil {
		t.Errorf("take = %+v, want nil for empty buffer", take)
	}
	proj := storage.LoadProject(dir)
	if len(proj.Takes) != 0 {
		t.Errorf("takes = %d, want 0", len(proj.Takes))
	}
}

func TestFinalizeTakeRegistersTake(t *testing.T) {
	svc, dir := newTestService(t)
	svc.Recorder().AppendBlock([]int16{100, -200, 300})

	take, err := svc.FinalizeTake(dir, "# Scene One\nsome line\n", 14, "first pass")
	if err != nil {
		t.Fatalf("FinalizeTake() error = %v", err)
	}
	if take == nil {
		t.Fatal("take = nil, want registered take")
	}
	if !strings.HasPrefix(take.WAVFilename, "Scene_One_") {
		t.Errorf("WAVFilename = %q, want Scene_One_ prefix", take.WAVFilename)
	}
	if take.Memo != "first pass" {
		t.Errorf("Memo = %q, want 'first pass'", take.Memo)
	}

	wavPath := storage.TakeWAVPath(dir, take.WAVFilename)
	if _, err := os.Stat(wavPath); err != nil {
		t.Errorf("take WAV missing: %v", err)
	}

	proj := storage.LoadProject(dir)
	if len(proj.Takes) != 1 || proj.Takes[0].ID != take.ID {
		t.Errorf("metadata does not list the new take: %+v", proj.Takes)
	}
}

func TestFinalizeTakeNumbersConsecutively(t *testing.T) {
	svc, dir := newTestService(t)
	script := "# Intro\nline\n"

	svc.Recorder().AppendBlock([]int16{1, 2})
	first, err := svc.FinalizeTake(dir, script, 3, "")
	if err != nil || first == nil {
		t.Fatalf("FinalizeTake() = %v, %v", first, err)
	}

	svc.Recorder().AppendBlock([]int16{3, 4})
	second, err := svc.FinalizeTake(dir, script, 3, "")
	if err != nil || second == nil {
		t.Fatalf("FinalizeTake() = %v, %v", second, err)
	}

	if !strings.HasPrefix(first.WAVFilename, "Intro_01") {
		t.Errorf("first = %q, want Intro_01 prefix", first.WAVFilename)
	}
	if !strings.HasPrefix(second.WAVFilename, "Intro_02") {
		t.Errorf("second = %q, want Intro_02 prefix", second.WAVFilename)
	}
}

func TestExportAdopted(t *testing.T) {
	svc, dir := newTestService(t)
	script := "# Scene\nline\n"

	svc.Recorder().AppendBlock([]int16{1, 2})
	take, err := svc.FinalizeTake(dir, script, 3, "")
	if err != nil || take == nil {
		t.Fatalf("FinalizeTake() = %v, %v", take, err)
	}

	destDir := filepath.Join(t.TempDir(), "out")

	// Nothing adopted yet.
	exported, err := svc.ExportAdopted(dir, destDir)
	if err != nil {
		t.Fatalf("ExportAdopted() error = %v", err)
	}
	if exported != nil {
		t.Errorf("exported = %v, want nil with no adopted take", exported)
	}

	adopted := true
	if ok, err := storage.UpdateTakeMeta(dir, take.ID, storage.TakeMetaUpdate{Adopted: &adopted}); !ok || err != nil {
		t.Fatalf("UpdateTakeMeta() = %v, %v", ok, err)
	}

	exported, err = svc.ExportAdopted(dir, destDir)
	if err != nil {
		t.Fatalf("ExportAdopted() error = %v", err)
	}
	if len(exported) != 1 {
		t.Fatalf("exported = %v, want one file", exported)
	}
	if _, err := os.Stat(exported[0]); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestExportAdoptedMissingProject(t *testing.T) {
	svc := New(config.Default(), audio.NewRecorder(nil), notify.New(false))
	if _, err := svc.ExportAdopted(filepath.Join(t.TempDir(), "absent"), t.TempDir()); err == nil {
		t.Error("ExportAdopted() error = nil, want missing-project failure")
	}
}
