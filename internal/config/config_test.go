package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retake.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Audio.InputDevice != -1 {
		t.Errorf("InputDevice = %d, want -1", cfg.Audio.InputDevice)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Playback.OutputDevice != -1 {
		t.Errorf("OutputDevice = %d, want -1", cfg.Playback.OutputDevice)
	}
	if !cfg.Export.FriendlyNames {
		t.Error("FriendlyNames = false, want true")
	}
	if !cfg.Notifications {
		t.Error("Notifications = false, want true")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "retake.yaml")

	cfg := Default()
	cfg.Audio.InputDevice = 3
	cfg.Playback.OutputDevice = 2
	cfg.Export.FriendlyNames = false
	cfg.Notifications = false
	cfg.AddRecentProject("/projects/alpha")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Audio.InputDevice != 3 {
		t.Errorf("InputDevice = %d, want 3", loaded.Audio.InputDevice)
	}
	if loaded.Playback.OutputDevice != 2 {
		t.Errorf("OutputDevice = %d, want 2", loaded.Playback.OutputDevice)
	}
	if loaded.Export.FriendlyNames {
		t.Error("FriendlyNames = true, want false")
	}
	if loaded.Notifications {
		t.Error("Notifications = true, want false")
	}
	if len(loaded.RecentProjects) != 1 || loaded.RecentProjects[0] != "/projects/alpha" {
		t.Errorf("RecentProjects = %v, want [/projects/alpha]", loaded.RecentProjects)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retake.yaml")
	content := "audio:\n  input_device: 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Audio.InputDevice != 5 {
		t.Errorf("InputDevice = %d, want 5", cfg.Audio.InputDevice)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want default 44100", cfg.Audio.SampleRate)
	}
	if !cfg.Export.FriendlyNames {
		t.Error("FriendlyNames = false, want default true")
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retake.yaml")
	if err := os.WriteFile(path, []byte("audio: [unclosed"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse failure")
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := Default()
	for _, p := range []string{"/a", "/b", "/c", "/d", "/e"} {
		cfg.AddRecentProject(p)
	}

	// Re-adding an existing path moves it to the front.
	cfg.AddRecentProject("/c")
	want := []string{"/c", "/e", "/d", "/b", "/a"}
	if len(cfg.RecentProjects) != len(want) {
		t.Fatalf("RecentProjects = %v, want %v", cfg.RecentProjects, want)
	}
	for i, p := range want {
		if cfg.RecentProjects[i] != p {
			t.Errorf("RecentProjects[%d] = %q, want %q", i, cfg.RecentProjects[i], p)
		}
	}

	// A sixth new path evicts the oldest.
	cfg.AddRecentProject("/f")
	if len(cfg.RecentProjects) != MaxRecentProjects {
		t.Fatalf("len(RecentProjects) = %d, want %d", len(cfg.RecentProjects), MaxRecentProjects)
	}
	if cfg.RecentProjects[0] != "/f" {
		t.Errorf("RecentProjects[0] = %q, want /f", cfg.RecentProjects[0])
	}
	if cfg.RecentProjects[MaxRecentProjects-1] != "/b" {
		t.Errorf("oldest = %q, want /b", cfg.RecentProjects[MaxRecentProjects-1])
	}
}

func TestSettingsGetSet(t *testing.T) {
	cfg := Default()
	s := cfg.AsSettings()

	v, ok := s.Get("audio.input_device")
	if !ok || v.(int) != -1 {
		t.Errorf("Get(audio.input_device) = %v, %v; want -1, true", v, ok)
	}
	if _, ok := s.Get("no.such.key"); ok {
		t.Error("Get(no.such.key) ok = true, want false")
	}

	if !s.Set("playback.output_device", 7) {
		t.Error("Set(playback.output_device) = false, want true")
	}
	if cfg.Playback.OutputDevice != 7 {
		t.Errorf("OutputDevice = %d, want 7", cfg.Playback.OutputDevice)
	}
	if s.Set("notifications", "yes") {
		t.Error("Set with wrong type = true, want false")
	}
}

func TestRenderContainsKeys(t *testing.T) {
	cfg := Default()
	out, err := cfg.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, key := range []string{"audio:", "input_device:", "playback:", "export:", "notifications:"} {
		if !strings.Contains(out, key) {
			t.Errorf("Render() missing %q:\n%s", key, out)
		}
	}
}
