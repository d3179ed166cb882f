package session

import (
	"sync"
	"time"
)

// RecorderSource is the recorder surface the recording monitor polls.
// *audio.Recorder satisfies it.
type RecorderSource interface {
	BufferDuration() float64
	VisualizationSamples(maxSeconds float64) []float32
}

// RecordingMonitor polls the recorder for its elapsed time and a recent
// visualization snapshot while a take is being recorded.
type RecordingMonitor struct {
	recorder   RecorderSource
	interval   time.Duration
	maxSeconds float64

	// OnTick receives the buffered duration and the recent samples.
	OnTick func(elapsedSec float64, samples []float32)

	mu       sync.Mutex
	stopPoll chan struct{}
}

// NewRecordingMonitor creates a monitor polling at RecordingPollInterval,
// visualizing the most recent ten seconds of audio.
func NewRecordingMonitor(recorder RecorderSource) *RecordingMonitor {
	return &RecordingMonitor{
		recorder:   recorder,
		interval:   RecordingPollInterval,
		maxSeconds: 10,
	}
}

// Start begins polling. Starting an already running monitor is a no-op.
func (m *RecordingMonitor) Start() {
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
				if m.OnTick != nil {
					m.OnTick(m.recorder.BufferDuration(), m.recorder.VisualizationSamples(m.maxSeconds))
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop ends polling.
func (m *RecordingMonitor) Stop() {
	m.mu.Lock()
	stop := m.stopPoll
	m.stopPoll = nil
	m.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}

// Peaks downsamples normalized samples to width buckets, each holding the
// maximum absolute value of its block. This is the rendering boundary: the
// UI draws these buckets however it likes.
func Peaks(samples []float32, width int) []float32 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}
	n := len(samples)
	out := make([]float32, width)
	for i := 0; i < width; i++ {
		start := i * n / width
		end := (i + 1) * n / width
		if end > n {
			end = n
		}
		var peak float32
		for _, v := range samples[start:end] {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}
