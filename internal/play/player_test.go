package play

import (
	"os"
	"path/filepath"
	"testing"
)

type stubEngine struct {
	loaded     string
	playing    bool
	paused     bool
	rate       float64
	positionMs int
	durationMs int
	seeks      []int
}

func (s *stubEngine) Load(path string) error { s.loaded = path; return nil }

func (s *stubEngine) Play() error { s.playing = true; s.paused = false; return nil }

func (s *stubEngine) Pause() error { s.playing = false; s.paused = true; return nil }
func (s *stubEngine) Stop() error {
	s.playing = false
	s.paused = false
	s.positionMs = 0
	return nil
}
func (s *stubEngine) SetRate(rate float64) { s.rate = rate }

func (s *stubEngine) SeekMs(ms int) { s.seeks = append(s.seeks, ms); s.positionMs = ms }

func (s *stubEngine) PositionMs() int { return s.positionMs }

func (s *stubEngine) DurationMs() int { return s.durationMs }

func (s *stubEngine) IsPlaying() bool { return s.playing }

func (s *stubEngine) IsPaused() bool { return s.paused }

func (s *stubEngine) SetOutputDevice(int) error { return nil }

func TestPlay_MissingFile(t *testing.T) {
	eng := &stubEngine{}
	p := NewPlayer(eng)
	ok, err := p.Play("/no/such/file.wav")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("playing a missing file must return false")
	}
	if eng.loaded != "" || eng.playing {
		t.Fatal("engine state must be untouched")
	}
}

func TestPlay_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	eng := &stubEngine{}
	p := NewPlayer(eng)
	ok, err := p.Play(path)
	if err != nil || !ok {
		t.Fatalf("play: %v %v", ok, err)
	}
	if eng.loaded != path || !eng.playing {
		t.Fatalf("engine not driven: %+v", eng)
	}
}

func TestSeekClamping(t *testing.T) {
	eng := &stubEngine{durationMs: 4000}
	p := NewPlayer(eng)

	p.SeekToPositionMs(-100)
	p.SeekToPositionMs(2000)
	p.SeekToPositionMs(99999)

	want := []int{0, 2000, 4000}
	if len(eng.seeks) != len(want) {
		t.Fatalf("seeks = %v", eng.seeks)
	}
	for i, w := range want {
		if eng.seeks[i] != w {
			t.Errorf("seek[%d] = %d, want %d", i, eng.seeks[i], w)
		}
	}
}

func TestSeekNoopWithoutDuration(t *testing.T) {
	eng := &stubEngine{durationMs: 0}
	p := NewPlayer(eng)
	p.SeekToPositionMs(500)
	if len(eng.seeks) != 0 {
		t.Fatalf("seek with unknown duration must be a no-op, got %v", eng.seeks)
	}
}

func TestTransportPassthrough(t *testing.T) {
	eng := &stubEngine{durationMs: 1000}
	p := NewPlayer(eng)
	p.SetSpeed(1.25)
	if eng.rate != 1.25 {
		t.Errorf("rate = %v", eng.rate)
	}
	p.Resume()
	if !p.IsPlaying() {
		t.Error("expected playing")
	}
	p.Pause()
	if !p.IsPaused() || p.IsPlaying() {
		t.Error("expected paused")
	}
	p.Stop()
	if p.IsPaused() || p.IsPlaying() || p.PositionMs() != 0 {
		t.Error("expected stopped at origin")
	}
}
