package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder is the capture state machine: Idle -> Recording <-> RecordingPaused
// -> Idle. Captured blocks accumulate in an in-memory buffer that is flushed
// to a WAV file after stopping. Pause releases the microphone entirely; resume
// opens a fresh stream appending to the same buffer.
//
// The buffer and the recording/paused flags are shared with the capture
// callback, which runs on the audio thread. One mutex guards all of them and
// is never held across stream open/close or file I/O.
type Recorder struct {
	opener CaptureOpener

	mu        sync.Mutex
	recording bool
	paused    bool
	buffer    [][]int16
	stream    CaptureStream

	deviceID int
}

// NewRecorder creates an idle recorder using the given opener.
func NewRecorder(opener CaptureOpener) *Recorder {
	return &Recorder{opener: opener, deviceID: DefaultDevice}
}

// SetInputDevice selects the capture device for the next opened stream.
// Changing it mid-recording does not hot-swap the active stream.
func (r *Recorder) SetInputDevice(deviceID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deviceID = deviceID
}

// InputDevice returns the configured capture device.
func (r *Recorder) InputDevice() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deviceID
}

// IsRecording reports whether a recording session is active, paused included.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// IsPaused reports whether the session is paused.
func (r *Recorder) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *Recorder) onBlock(block []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || r.paused {
		return
	}
	cp := make([]int16, len(block))
	copy(cp, block)
	r.buffer = append(r.buffer, cp)
}

// Start begins a new recording session, clearing the buffer. Returns false
// with no state change when a session is already active. A capture-open
// failure rolls back to idle and is returned to the caller.
func (r *Recorder) Start() (bool, error) {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return false, nil
	}
	r.recording = true
	r.paused = false
	r.buffer = nil
	deviceID := r.deviceID
	r.mu.Unlock()

	stream, err := r.openAndStart(deviceID)
	if err != nil {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
		return false, err
	}

	r.mu.Lock()
	r.stream = stream
	r.mu.Unlock()
	return true, nil
}

// Pause suspends capture and releases the microphone fully. Buffer contents
// are preserved.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	r.paused = true
	stream := r.stream
	r.stream = nil
	r.mu.Unlock()

	if stream != nil {
		return stream.Close()
	}
	return nil
}

// Resume reopens a capture stream continuing the same buffer. Returns false
// when not paused. An open failure rolls back to paused and is returned.
func (r *Recorder) Resume() (bool, error) {
	r.mu.Lock()
	if !r.recording || !r.paused {
		r.mu.Unlock()
		return false, nil
	}
	r.paused = false
	deviceID := r.deviceID
	r.mu.Unlock()

	stream, err := r.openAndStart(deviceID)
	if err != nil {
		r.mu.Lock()
		r.paused = true
		r.mu.Unlock()
		return false, err
	}

	r.mu.Lock()
	r.stream = stream
	r.mu.Unlock()
	return true, nil
}

// Stop ends the session and releases the stream. The buffer is kept until
// the next Start or an explicit flush.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	r.recording = false
	r.paused = false
	stream := r.stream
	r.stream = nil
	r.mu.Unlock()

	if stream != nil {
		return stream.Close()
	}
	return nil
}

func (r *Recorder) openAndStart(deviceID int) (CaptureStream, error) {
	stream, err := r.opener.Open(deviceID, r.onBlock)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}
	return stream, nil
}

// SaveToWAV writes the buffered audio as 16-bit PCM mono WAV at the fixed
// sample rate, blocks concatenated in capture order. Returns false without
// writing when the buffer is empty. Intended to be called after Stop.
func (r *Recorder) SaveToWAV(path string) (bool, error) {
	r.mu.Lock()
	chunks := make([][]int16, len(r.buffer))
	copy(chunks, r.buffer)
	r.mu.Unlock()

	if len(chunks) == 0 {
		return false, nil
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	data := make([]int, 0, total)
	for _, c := range chunks {
		for _, s := range c {
			data = append(data, int(s))
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create WAV file: %w", err)
	}

	enc := wav.NewEncoder(f, SampleRate, 16, Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:   data,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return false, fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return false, fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close WAV file: %w", err)
	}
	return true, nil
}

// StopAndSave stops the session and flushes the buffer to path.
func (r *Recorder) StopAndSave(path string) (bool, error) {
	if err := r.Stop(); err != nil {
		return false, err
	}
	return r.SaveToWAV(path)
}

// BufferDuration returns the buffered audio length in seconds.
func (r *Recorder) BufferDuration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, c := range r.buffer {
		total += len(c)
	}
	return float64(total) / float64(SampleRate)
}

// VisualizationSamples returns up to the most recent maxSeconds of buffered
// audio as normalized float32 samples in [-1, 1]. Callable in any state;
// an empty buffer yields nil.
func (r *Recorder) VisualizationSamples(maxSeconds float64) []float32 {
	r.mu.Lock()
	chunks := make([][]int16, len(r.buffer))
	copy(chunks, r.buffer)
	r.mu.Unlock()

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		return nil
	}

	keep := total
	if maxSamples := int(float64(SampleRate) * maxSeconds); maxSamples > 0 && keep > maxSamples {
		keep = maxSamples
	}

	out := make([]float32, 0, keep)
	skip := total - keep
	for _, c := range chunks {
		if skip >= len(c) {
			skip -= len(c)
			continue
		}
		for _, s := range c[skip:] {
			out = append(out, float32(s)/32768.0)
		}
		skip = 0
	}
	return out
}

// AppendBlock adds a block to the buffer directly, bypassing the capture
// callback. Used by tests and by callers synthesizing audio.
func (r *Recorder) AppendBlock(block []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]int16, len(block))
	copy(cp, block)
	r.buffer = append(r.buffer, cp)
}
