package play

import (
	"os"
)

// Engine is the audio output binding the player drives. The production
// implementation is the PortAudio engine in this package; tests use a stub.
type Engine interface {
	// Load binds a WAV file as the active source. Loading the path that is
	// already active keeps the current position, so a paused source resumes
	// where it left off.
	Load(path string) error
	Play() error
	Pause() error
	Stop() error
	SetRate(rate float64)
	SeekMs(ms int)
	PositionMs() int
	DurationMs() int
	IsPlaying() bool
	IsPaused() bool
	SetOutputDevice(deviceID int) error
}

// Player wraps a single reusable engine instance with the transport
// semantics the rest of the application relies on.
type Player struct {
	engine Engine
}

// NewPlayer wraps an engine.
func NewPlayer(engine Engine) *Player {
	return &Player{engine: engine}
}

// Play loads and plays the file at path. Returns false with no engine state
// change when the file does not exist. Re-playing the currently loaded,
// paused source resumes from its position.
func (p *Player) Play(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}
	if err := p.engine.Load(path); err != nil {
		return false, err
	}
	if err := p.engine.Play(); err != nil {
		return false, err
	}
	return true, nil
}

// Resume continues a paused source.
func (p *Player) Resume() error {
	return p.engine.Play()
}

// Pause pauses playback, keeping the position.
func (p *Player) Pause() error {
	return p.engine.Pause()
}

// Stop halts playback and rewinds to the start.
func (p *Player) Stop() error {
	return p.engine.Stop()
}

// SetSpeed sets the playback rate multiplier (0.5, 1.0, 1.25, 1.5, ...).
func (p *Player) SetSpeed(rate float64) {
	p.engine.SetRate(rate)
}

// SeekToPositionMs clamps ms into [0, duration] and seeks. No-op when the
// duration is unknown or zero.
func (p *Player) SeekToPositionMs(ms int) {
	d := p.engine.DurationMs()
	if d <= 0 {
		return
	}
	if ms < 0 {
		ms = 0
	}
	if ms > d {
		ms = d
	}
	p.engine.SeekMs(ms)
}

// PositionMs returns the engine's current position.
func (p *Player) PositionMs() int { return p.engine.PositionMs() }

// DurationMs returns the active source duration, 0 when unknown.
func (p *Player) DurationMs() int { return p.engine.DurationMs() }

// IsPlaying reports whether the engine is playing.
func (p *Player) IsPlaying() bool { return p.engine.IsPlaying() }

// IsPaused reports whether the engine is paused.
func (p *Player) IsPaused() bool { return p.engine.IsPaused() }

// SetOutputDevice switches the output device, effective immediately.
func (p *Player) SetOutputDevice(deviceID int) error {
	return p.engine.SetOutputDevice(deviceID)
}
