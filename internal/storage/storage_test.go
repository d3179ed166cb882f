package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a mono 16-bit WAV with the given samples.
func writeTestWAV(t *testing.T, path string, samples []int, sampleRate int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   samples,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProject_MissingDir(t *testing.T) {
	if got := LoadProject("/path/that/does/not/exist"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestCreateProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	proj, err := CreateProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(proj.Takes) != 0 {
		t.Fatal("new project should have no takes")
	}
	if _, err := os.Stat(filepath.Join(dir, TakesDir)); err != nil {
		t.Fatal("takes dir not created")
	}
	if _, err := os.Stat(filepath.Join(dir, MetaFilename)); err != nil {
		t.Fatal("metadata file not created")
	}
}

func TestScriptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	text := "# シーン1\nおはようございます。\n\n## カット2\nまた明日。"
	if err := SaveScript(dir, text); err != nil {
		t.Fatal(err)
	}
	proj := LoadProject(dir)
	if proj == nil {
		t.Fatal("load failed")
	}
	if proj.ScriptText != text {
		t.Errorf("script round trip mismatch: %q", proj.ScriptText)
	}
}

func TestAddTakeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, err := CreateProject(dir); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(t.TempDir(), "rec.wav")
	writeTestWAV(t, src, []int{0, 100, -100, 50}, 44100)

	take, err := AddTakeFromFile(dir, src, "m", true, "")
	if err != nil {
		t.Fatal(err)
	}
	if take.CreatedAt == "" {
		t.Error("created_at not set")
	}
	if !strings.HasPrefix(take.WAVFilename, take.ID+"_") {
		t.Errorf("expected id-prefixed filename, got %q", take.WAVFilename)
	}

	proj := LoadProject(dir)
	if proj == nil || len(proj.Takes) != 1 {
		t.Fatalf("expected one take after reload, got %+v", proj)
	}
	got := proj.Takes[0]
	if got.Memo != "m" || !got.Favorite || got.Adopted {
		t.Errorf("take metadata mismatch: %+v", got)
	}
	if _, err := os.Stat(TakeWAVPath(dir, got.WAVFilename)); err != nil {
		t.Error("backing file missing")
	}
}

func TestAddTakePreferredBasename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "rec.wav")
	writeTestWAV(t, src, []int{1, 2, 3}, 44100)

	take, err := AddTakeFromFile(dir, src, "", false, "朝の挨拶_01")
	if err != nil {
		t.Fatal(err)
	}
	if take.WAVFilename != "朝の挨拶_01.wav" {
		t.Errorf("got %q", take.WAVFilename)
	}

	// Same preferred name again: disambiguated with an id fragment.
	take2, err := AddTakeFromFile(dir, src, "", false, "朝の挨拶_01")
	if err != nil {
		t.Fatal(err)
	}
	if take2.WAVFilename == take.WAVFilename {
		t.Error("collision not disambiguated")
	}
	if !strings.HasPrefix(take2.WAVFilename, "朝の挨拶_01_") {
		t.Errorf("got %q", take2.WAVFilename)
	}
}

func TestUpdateTakeMeta(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "rec.wav")
	writeTestWAV(t, src, []int{1}, 44100)

	a, _ := AddTakeFromFile(dir, src, "", false, "a")
	b, _ := AddTakeFromFile(dir, src, "", false, "b")

	memo := "warmer read"
	ok, err := UpdateTakeMeta(dir, a.ID, TakeMetaUpdate{Memo: &memo})
	if err != nil || !ok {
		t.Fatalf("update failed: %v %v", ok, err)
	}

	adopted := true
	if ok, _ := UpdateTakeMeta(dir, a.ID, TakeMetaUpdate{Adopted: &adopted}); !ok {
		t.Fatal("adopt failed")
	}
	if ok, _ := UpdateTakeMeta(dir, b.ID, TakeMetaUpdate{Adopted: &adopted}); !ok {
		t.Fatal("adopt failed")
	}

	proj := LoadProject(dir)
	if proj.GetTake(a.ID).Memo != "warmer read" {
		t.Error("memo lost")
	}
	if proj.GetTake(a.ID).Adopted {
		t.Error("adopting b should clear a")
	}
	if !proj.GetTake(b.ID).Adopted {
		t.Error("b should be adopted")
	}

	if ok, _ := UpdateTakeMeta(dir, "unknown", TakeMetaUpdate{Memo: &memo}); ok {
		t.Error("unknown id must fail")
	}
	if ok, _ := UpdateTakeMeta("/no/such/project", a.ID, TakeMetaUpdate{Memo: &memo}); ok {
		t.Error("missing project must fail")
	}
}

func TestDeleteTake(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "rec.wav")
	writeTestWAV(t, src, []int{1}, 44100)
	take, _ := AddTakeFromFile(dir, src, "", false, "")
	wavPath := TakeWAVPath(dir, take.WAVFilename)

	ok, err := DeleteTake(dir, take.ID)
	if err != nil || !ok {
		t.Fatalf("delete failed: %v %v", ok, err)
	}
	if LoadProject(dir).GetTake(take.ID) != nil {
		t.Error("take still present after delete")
	}
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Error("backing file still present after delete")
	}
	if ok, _ := DeleteTake(dir, take.ID); ok {
		t.Error("second delete must fail")
	}
}

func TestExportTakes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "rec.wav")
	writeTestWAV(t, src, []int{1, 2}, 44100)

	a, _ := AddTakeFromFile(dir, src, "", false, "a")
	b, _ := AddTakeFromFile(dir, src, "", false, "b")
	c, _ := AddTakeFromFile(dir, src, "", false, "c")

	dest := filepath.Join(t.TempDir(), "out")
	copied, err := ExportTakes(dir, nil, dest, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(copied) != 0 {
		t.Errorf("empty request should copy nothing, got %v", copied)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Error("destination should exist even for empty request")
	}

	// Friendly names follow the requested order, not take order.
	copied, err = ExportTakes(dir, []string{c.ID, a.ID, b.ID}, dest, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(copied) != 3 {
		t.Fatalf("expected 3 copies, got %d", len(copied))
	}
	for i, want := range []string{"Take1", "Take2", "Take3"} {
		if !strings.Contains(filepath.Base(copied[i]), want) {
			t.Errorf("copied[%d] = %q, want substring %q", i, copied[i], want)
		}
	}

	// Unknown ids and missing files are skipped silently.
	os.Remove(TakeWAVPath(dir, b.WAVFilename))
	copied, err = ExportTakes(dir, []string{"ghost", a.ID, b.ID}, filepath.Join(dest, "2"), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(copied) != 1 {
		t.Errorf("expected 1 copy, got %v", copied)
	}
}

func TestLoadProject_MalformedMeta(t *testing.T) {
	dir := t.TempDir()
	if err := SaveScript(dir, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetaFilename), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	proj := LoadProject(dir)
	if proj == nil {
		t.Fatal("malformed metadata must not block loading")
	}
	if proj.ScriptText != "hello" {
		t.Error("script should still load")
	}
	if len(proj.Takes) != 0 {
		t.Error("malformed metadata should read as empty take list")
	}
}

func TestWAVDurationSeconds(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, TakesDir), 0755)
	path := TakeWAVPath(dir, "one.wav")
	writeTestWAV(t, path, make([]int, 44100), 44100) // exactly one second

	got := WAVDurationSeconds(dir, "one.wav")
	if got < 0.99 || got > 1.01 {
		t.Errorf("duration = %v, want ~1.0", got)
	}
	if WAVDurationSeconds(dir, "missing.wav") != 0 {
		t.Error("missing file should report 0")
	}
}
