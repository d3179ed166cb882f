package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// System owns the PortAudio runtime. Create one per process, close it at
// shutdown. It implements CaptureOpener for the recorder and enumerates
// devices for the settings surface.
type System struct{}

// NewSystem initializes PortAudio.
func NewSystem() (*System, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &System{}, nil
}

// Close terminates PortAudio.
func (s *System) Close() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// ListInputDevices returns every device with input channels.
func (s *System) ListInputDevices() ([]Device, error) {
	return listDevices(true)
}

// ListOutputDevices returns every device with output channels.
func (s *System) ListOutputDevices() ([]Device, error) {
	return listDevices(false)
}

func listDevices(input bool) ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var def *portaudio.DeviceInfo
	if input {
		def, _ = portaudio.DefaultInputDevice()
	} else {
		def, _ = portaudio.DefaultOutputDevice()
	}

	var result []Device
	for i, dev := range devices {
		channels := dev.MaxInputChannels
		if !input {
			channels = dev.MaxOutputChannels
		}
		if channels <= 0 {
			continue
		}
		result = append(result, Device{
			ID:        i,
			Name:      dev.Name,
			IsDefault: def != nil && dev.Name == def.Name,
		})
	}
	return result, nil
}

func deviceByID(deviceID int, input bool) (*portaudio.DeviceInfo, error) {
	if deviceID == DefaultDevice {
		if input {
			dev, err := portaudio.DefaultInputDevice()
			if err != nil {
				return nil, fmt.Errorf("failed to get default input device: %w", err)
			}
			return dev, nil
		}
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default output device: %w", err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("invalid device ID: %d", deviceID)
	}
	return devices[deviceID], nil
}

// Open opens a capture stream on the given device (DefaultDevice for the
// system default) delivering blocks to onBlock on the audio thread.
func (s *System) Open(deviceID int, onBlock func(block []int16)) (CaptureStream, error) {
	dev, err := deviceByID(deviceID, true)
	if err != nil {
		return nil, err
	}
	if dev.MaxInputChannels <= 0 {
		return nil, fmt.Errorf("device %q has no input channels", dev.Name)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: Channels,
			Latency:  dev.DefaultHighInputLatency,
		},
		SampleRate:      float64(SampleRate),
		FramesPerBuffer: FramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(in []int16) {
		onBlock(in)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}
	return &paCaptureStream{stream: stream}, nil
}

type paCaptureStream struct {
	stream *portaudio.Stream
}

func (s *paCaptureStream) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("failed to start capture stream: %w", err)
	}
	return nil
}

func (s *paCaptureStream) Close() error {
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return fmt.Errorf("failed to stop capture stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("failed to close capture stream: %w", err)
	}
	return nil
}
