package play

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"github.com/voiceactorlab/retake/internal/audio"
)

// PortAudioEngine plays a decoded WAV through a PortAudio output stream.
// The source is held as an int16 sample buffer and the output callback
// drains it from a fractional cursor; seeking moves the cursor and the
// playback rate changes the cursor step. The callback runs on the audio
// thread, so cursor and flags are guarded by a mutex that is never held
// across stream open/close.
type PortAudioEngine struct {
	mu         sync.Mutex
	samples    []int16
	sampleRate int
	cursor     float64
	rate       float64
	playing    bool
	paused     bool
	loadedPath string

	stream   *portaudio.Stream
	deviceID int
}

// NewPortAudioEngine creates an engine bound to the default output device.
// PortAudio must already be initialized (see audio.NewSystem).
func NewPortAudioEngine() *PortAudioEngine {
	return &PortAudioEngine{rate: 1.0, deviceID: audio.DefaultDevice}
}

// Load decodes the WAV at path into the sample buffer. Loading the already
// active path keeps the buffer and the cursor, so a paused source resumes.
func (e *PortAudioEngine) Load(path string) error {
	e.mu.Lock()
	if path == e.loadedPath && len(e.samples) > 0 {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	samples, sampleRate, err := decodeWAV(path)
	if err != nil {
		return err
	}

	if err := e.Stop(); err != nil {
		return err
	}

	e.mu.Lock()
	e.samples = samples
	e.sampleRate = sampleRate
	e.cursor = 0
	e.loadedPath = path
	e.mu.Unlock()
	return nil
}

func decodeWAV(path string) ([]int16, int, error) {
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
	// Mix down to the first channel; project takes are mono anyway.
	samples := make([]int16, len(buf.Data)/numChans)
	for i := range samples {
		samples[i] = int16(buf.Data[i*numChans])
	}
	return samples, buf.Format.SampleRate, nil
}

// Play starts or resumes playback of the loaded source.
func (e *PortAudioEngine) Play() error {
	e.mu.Lock()
	if len(e.samples) == 0 {
		e.mu.Unlock()
		return fmt.Errorf("no source loaded")
	}
	needOpen := e.stream == nil
	deviceID := e.deviceID
	sampleRate := e.sampleRate
	e.mu.Unlock()

	if needOpen {
		stream, err := e.openStream(deviceID, sampleRate)
		if err != nil {
			return err
		}
		e.mu.Lock()
		e.stream = stream
		e.mu.Unlock()
	}

	e.mu.Lock()
	stream := e.stream
	wasPaused := e.paused
	e.playing = true
	e.paused = false
	e.mu.Unlock()

	if needOpen || wasPaused {
		if err := stream.Start(); err != nil {
			e.mu.Lock()
			e.playing = false
			e.mu.Unlock()
			return fmt.Errorf("failed to start playback stream: %w", err)
		}
	}
	return nil
}

func (e *PortAudioEngine) openStream(deviceID int, sampleRate int) (*portaudio.Stream, error) {
	var dev *portaudio.DeviceInfo
	var err error
	if deviceID == audio.DefaultDevice {
		dev, err = portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default output device: %w", err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		if deviceID < 0 || deviceID >= len(devices) {
			return nil, fmt.Errorf("invalid device ID: %d", deviceID)
		}
		dev = devices[deviceID]
	}
	if dev.MaxOutputChannels <= 0 {
		return nil, fmt.Errorf("device %q has no output channels", dev.Name)
	}

	params := portaudio.HighLatencyParameters(nil, dev)
	params.SampleRate = float64(sampleRate)
	params.Output.Channels = 1
	params.FramesPerBuffer = audio.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, e.fillOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}
	return stream, nil
}

// fillOutput is the output callback, running on the audio thread.
func (e *PortAudioEngine) fillOutput(out []int16) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range out {
		idx := int(e.cursor)
		if !e.playing || idx >= len(e.samples) {
			if idx >= len(e.samples) {
				// End of source. The stream keeps running silently until
				// the control side observes IsPlaying() == false.
				e.playing = false
				e.paused = false
			}
			for ; i < len(out); i++ {
				out[i] = 0
			}
			return
		}
		out[i] = e.samples[idx]
		e.cursor += e.rate
	}
}

// Pause stops output, keeping the cursor.
func (e *PortAudioEngine) Pause() error {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return nil
	}
	e.playing = false
	e.paused = true
	stream := e.stream
	e.mu.Unlock()

	if stream != nil {
		if err := stream.Stop(); err != nil {
			return fmt.Errorf("failed to stop playback stream: %w", err)
		}
	}
	return nil
}

// Stop halts playback, releases the stream and rewinds the cursor.
func (e *PortAudioEngine) Stop() error {
	e.mu.Lock()
	e.playing = false
	e.paused = false
	e.cursor = 0
	stream := e.stream
	e.stream = nil
	e.mu.Unlock()

	if stream == nil {
		return nil
	}
	stream.Stop()
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close playback stream: %w", err)
	}
	return nil
}

// SetRate sets the playback rate multiplier. Values at or below zero are
// ignored.
func (e *PortAudioEngine) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	e.mu.Lock()
	e.rate = rate
	e.mu.Unlock()
}

// SeekMs moves the cursor, clamped to the source bounds.
func (e *PortAudioEngine) SeekMs(ms int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sampleRate <= 0 {
		return
	}
	pos := float64(ms) / 1000.0 * float64(e.sampleRate)
	if pos < 0 {
		pos = 0
	}
	if limit := float64(len(e.samples)); pos > limit {
		pos = limit
	}
	e.cursor = pos
}

// PositionMs returns the cursor position in milliseconds.
func (e *PortAudioEngine) PositionMs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sampleRate <= 0 {
		return 0
	}
	return int(e.cursor / float64(e.sampleRate) * 1000.0)
}

// DurationMs returns the loaded source duration in milliseconds, 0 when
// nothing is loaded.
func (e *PortAudioEngine) DurationMs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sampleRate <= 0 {
		return 0
	}
	return len(e.samples) * 1000 / e.sampleRate
}

// IsPlaying reports active playback.
func (e *PortAudioEngine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// IsPaused reports paused playback.
func (e *PortAudioEngine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetOutputDevice switches the output device. The change applies
// immediately: an active stream is reopened at the current position.
func (e *PortAudioEngine) SetOutputDevice(deviceID int) error {
	e.mu.Lock()
	if deviceID == e.deviceID {
		e.mu.Unlock()
		return nil
	}
	e.deviceID = deviceID
	stream := e.stream
	e.stream = nil
	wasPlaying := e.playing
	sampleRate := e.sampleRate
	e.playing = false
	e.mu.Unlock()

	if stream == nil {
		return nil
	}
	stream.Stop()
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close playback stream: %w", err)
	}

	fresh, err := e.openStream(deviceID, sampleRate)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.stream = fresh
	e.playing = wasPlaying
	e.mu.Unlock()
	if wasPlaying {
		if err := fresh.Start(); err != nil {
			return fmt.Errorf("failed to start playback stream: %w", err)
		}
	}
	return nil
}
