package audio

// Capture format is fixed: 16-bit PCM, mono, 44.1 kHz. Every component
// downstream (storage, playback, waveform) assumes this format.
const (
	SampleRate      = 44100
	Channels        = 1
	FramesPerBuffer = 1024
)

// DefaultDevice selects the system default input or output device.
const DefaultDevice = -1

// Device describes an audio device known to the host.
type Device struct {
	ID        int
	Name      string
	IsDefault bool
}

// CaptureStream is one open microphone stream delivering int16 blocks to
// the callback it was opened with.
type CaptureStream interface {
	Start() error
	Close() error
}

// CaptureOpener opens capture streams. The production implementation binds
// to PortAudio; tests substitute a fake. onBlock runs on the audio thread,
// concurrently with the caller.
type CaptureOpener interface {
	Open(deviceID int, onBlock func(block []int16)) (CaptureStream, error)
}
