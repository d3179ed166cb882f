// Package session keeps the waveform view, the position readout and the
// playback engine consistent. The audio engines do not push fine-grained
// position events, so both the recording and the playback side are driven
// by fixed-interval polling loops; user seeks update the displayed position
// optimistically before the next poll confirms them.
package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-audio/wav"
)

// Default polling intervals, matching the responsiveness the waveform view
// needs without hammering the engine.
const (
	PlaybackPollInterval  = 80 * time.Millisecond
	RecordingPollInterval = 100 * time.Millisecond
)

// Transport is the playback surface the monitor drives. *play.Player
// satisfies it.
type Transport interface {
	Play(path string) (bool, error)
	Resume() error
	Pause() error
	Stop() error
	SeekToPositionMs(ms int)
	PositionMs() int
	DurationMs() int
	IsPlaying() bool
	IsPaused() bool
}

// PlaybackMonitor tracks which take is loaded and playing, polls the engine
// for its position and translates user seek gestures into engine seeks.
// "Loaded" outlives "playing": pausing keeps the source loaded.
type PlaybackMonitor struct {
	transport Transport
	interval  time.Duration

	// OnPosition receives the displayed position and total duration in
	// seconds on every poll and after every optimistic seek update.
	OnPosition func(positionSec, durationSec float64)
	// OnStopped fires when playback reaches the end of the source or is
	// stopped explicitly.
	OnStopped func()

	mu            sync.Mutex
	loadedTakeID  string
	playingTakeID string
	durationSec   float64
	positionSec   float64
	samples       []float32
	stopPoll      chan struct{}
}

// NewPlaybackMonitor creates a monitor polling at PlaybackPollInterval.
func NewPlaybackMonitor(transport Transport) *PlaybackMonitor {
	return &PlaybackMonitor{transport: transport, interval: PlaybackPollInterval}
}

// LoadWaveform decodes a WAV into normalized float32 samples plus its
// duration in seconds. The duration comes from the file itself because the
// engine may not report one before playback starts.
func LoadWaveform(path string) ([]float32, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode WAV file: %w", err)
	}
	numChans := buf.Format.NumChannels
	if numChans < 1 {
		numChans = 1
	}
	sampleRate := buf.Format.SampleRate
	if sampleRate <= 0 {
		return nil, 0, fmt.Errorf("WAV file reports no sample rate")
	}

	n := len(buf.Data) / numChans
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = float32(buf.Data[i*numChans]) / 32768.0
	}
	return samples, float64(n) / float64(sampleRate), nil
}

// Activate loads the take's waveform, starts playback and begins the
// position polling loop. Returns false when the audio file is missing.
func (m *PlaybackMonitor) Activate(takeID, wavPath string) (bool, error) {
	samples, duration, err := LoadWaveform(wavPath)
	if err != nil {
		return false, err
	}

	ok, err := m.transport.Play(wavPath)
	if err != nil || !ok {
		return false, err
	}

	m.mu.Lock()
	m.loadedTakeID = takeID
	m.playingTakeID = takeID
	m.durationSec = duration
	m.positionSec = 0
	m.samples = samples
	m.mu.Unlock()

	m.startPolling()
	m.notifyPosition(0, duration)
	return true, nil
}

// Resume restarts a paused source and the polling loop, keeping the loaded
// take and its waveform.
func (m *PlaybackMonitor) Resume() bool {
	m.mu.Lock()
	loaded := m.loadedTakeID
	m.mu.Unlock()
	if loaded == "" || !m.transport.IsPaused() {
		return false
	}
	// Re-seek to the displayed position first, then continue.
	m.transport.SeekToPositionMs(int(m.PositionSec() * 1000))
	if err := m.transport.Resume(); err != nil {
		return false
	}
	m.mu.Lock()
	m.playingTakeID = loaded
	m.mu.Unlock()
	m.startPolling()
	return true
}

// Pause pauses playback; the take stays loaded and the poll keeps running
// so the readout reflects the paused position.
func (m *PlaybackMonitor) Pause() error {
	return m.transport.Pause()
}

// Stop halts playback, the polling loop and clears the playing take;
// the loaded take and its waveform stay available for a later resume.
func (m *PlaybackMonitor) Stop() error {
	err := m.transport.Stop()
	m.stopPolling()
	m.mu.Lock()
	m.playingTakeID = ""
	m.positionSec = 0
	m.mu.Unlock()
	if m.OnStopped != nil {
		m.OnStopped()
	}
	return err
}

// Reset returns the monitor to the unloaded state. Used when switching
// projects.
func (m *PlaybackMonitor) Reset() error {
	err := m.transport.Stop()
	m.stopPolling()
	m.mu.Lock()
	m.loadedTakeID = ""
	m.playingTakeID = ""
	m.durationSec = 0
	m.positionSec = 0
	m.samples = nil
	m.mu.Unlock()
	return err
}

// SeekToRatio seeks to ratio (0..1) of the source duration and updates the
// displayed position optimistically.
func (m *PlaybackMonitor) SeekToRatio(ratio float64) {
	m.mu.Lock()
	duration := m.durationSec
	m.mu.Unlock()
	if duration <= 0 {
		return
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	m.seekToMs(int(ratio * duration * 1000))
}

// SeekBy moves the position by delta (negative to rewind), clamped to the
// source bounds. The coarse step commands use ±5s.
func (m *PlaybackMonitor) SeekBy(delta time.Duration) {
	m.mu.Lock()
	duration := m.durationSec
	m.mu.Unlock()
	if duration <= 0 {
		return
	}
	ms := m.transport.PositionMs() + int(delta.Milliseconds())
	if ms < 0 {
		ms = 0
	}
	if limit := int(duration * 1000); ms > limit {
		ms = limit
	}
	m.seekToMs(ms)
}

func (m *PlaybackMonitor) seekToMs(ms int) {
	m.transport.SeekToPositionMs(ms)
	m.mu.Lock()
	m.positionSec = float64(ms) / 1000.0
	duration := m.durationSec
	m.mu.Unlock()
	m.notifyPosition(float64(ms)/1000.0, duration)
}

// LoadedTakeID returns the id of the loaded take, "" when none.
func (m *PlaybackMonitor) LoadedTakeID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadedTakeID
}

// PlayingTakeID returns the id of the take last started, "" when stopped.
func (m *PlaybackMonitor) PlayingTakeID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playingTakeID
}

// DurationSec returns the loaded source duration.
func (m *PlaybackMonitor) DurationSec() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.durationSec
}

// PositionSec returns the displayed position.
func (m *PlaybackMonitor) PositionSec() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionSec
}

// Waveform returns the loaded source's normalized samples.
func (m *PlaybackMonitor) Waveform() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples
}

func (m *PlaybackMonitor) startPolling() {
	m.mu.Lock()
	if m.stopPoll != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stopPoll = stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !m.pollOnce() {
					return
				}
			case <-stop:
				return
			}
		}
	}()
}

// pollOnce refreshes the displayed position. Returns false once playback
// has ended, which also tears down the polling loop. End-of-source must be
// detected from the engine state, not from elapsed time: rate changes and
// seeks make elapsed-time estimates wrong.
func (m *PlaybackMonitor) pollOnce() bool {
	playing := m.transport.IsPlaying()
	paused := m.transport.IsPaused()

	if !playing && !paused {
		m.stopPolling()
		m.mu.Lock()
		m.playingTakeID = ""
		m.mu.Unlock()
		if m.OnStopped != nil {
			m.OnStopped()
		}
		return false
	}

	pos := float64(m.transport.PositionMs()) / 1000.0
	m.mu.Lock()
	m.positionSec = pos
	duration := m.durationSec
	m.mu.Unlock()
	m.notifyPosition(pos, duration)
	return true
}

func (m *PlaybackMonitor) stopPolling() {
	m.mu.Lock()
	stop := m.stopPoll
	m.stopPoll = nil
	m.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

func (m *PlaybackMonitor) notifyPosition(pos, duration float64) {
	if m.OnPosition != nil {
		m.OnPosition(pos, duration)
	}
}
