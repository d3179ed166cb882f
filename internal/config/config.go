package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the persisted application preferences: device selection,
// export naming, notification toggle and the recent-project list. One
// instance is created at startup and threaded into the components that
// need it; there is no global.
type Config struct {
	Audio         AudioConfig    `mapstructure:"audio" yaml:"audio"`
	Playback      PlaybackConfig `mapstructure:"playback" yaml:"playback"`
	Export        ExportConfig   `mapstructure:"export" yaml:"export"`
	Notifications bool           `mapstructure:"notifications" yaml:"notifications"`
	// RecentProjects is most-recent-first, capped at MaxRecentProjects.
	RecentProjects []string `mapstructure:"recent_projects" yaml:"recent_projects"`
}

type AudioConfig struct {
	// InputDevice is the capture device index, -1 for the system default.
	InputDevice int `mapstructure:"input_device" yaml:"input_device"`
	SampleRate  int `mapstructure:"sample_rate" yaml:"sample_rate"`
}

type PlaybackConfig struct {
	// OutputDevice is the playback device index, -1 for the system default.
	OutputDevice int `mapstructure:"output_device" yaml:"output_device"`
}

type ExportConfig struct {
	// FriendlyNames exports takes as "{project}_Take{N}.wav" instead of
	// their stored filenames.
	FriendlyNames bool `mapstructure:"friendly_names" yaml:"friendly_names"`
}

// MaxRecentProjects caps the recent-project list.
const MaxRecentProjects = 5

var defaultConfig = Config{
	Audio: AudioConfig{
		InputDevice: -1,
		SampleRate:  44100,
	},
	Playback: PlaybackConfig{
		OutputDevice: -1,
	},
	Export: ExportConfig{
		FriendlyNames: true,
	},
	Notifications: true,
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return os.ExpandEnv("$HOME/.config/retake.yaml")
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads the config file at path, falling back to defaults for missing
// keys and returning pure defaults when the file does not exist.
// Environment variables prefixed RETAKE_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RETAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("audio.input_device", defaultConfig.Audio.InputDevice)
	v.SetDefault("audio.sample_rate", defaultConfig.Audio.SampleRate)
	v.SetDefault("playback.output_device", defaultConfig.Playback.OutputDevice)
	v.SetDefault("export.friendly_names", defaultConfig.Export.FriendlyNames)
	v.SetDefault("notifications", defaultConfig.Notifications)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config as YAML to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Render returns the config as YAML for display.
func (c *Config) Render() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// Settings exposes config values by dotted key for components that should
// not depend on the Config struct shape.
type Settings interface {
	Get(key string) (any, bool)
	Set(key string, value any) bool
}

// AsSettings wraps c in a key/value view.
func (c *Config) AsSettings() Settings {
	return &settings{cfg: c}
}

type settings struct {
	cfg *Config
}

func (s *settings) Get(key string) (any, bool) {
	switch key {
	case "audio.input_device":
		return s.cfg.Audio.InputDevice, true
	case "audio.sample_rate":
		return s.cfg.Audio.SampleRate, true
	case "playback.output_device":
		return s.cfg.Playback.OutputDevice, true
	case "export.friendly_names":
		return s.cfg.Export.FriendlyNames, true
	case "notifications":
		return s.cfg.Notifications, true
	}
	return nil, false
}

func (s *settings) Set(key string, value any) bool {
	switch key {
	case "audio.input_device":
		if v, ok := value.(int); ok {
			s.cfg.Audio.InputDevice = v
			return true
		}
	case "audio.sample_rate":
		if v, ok := value.(int); ok {
			s.cfg.Audio.SampleRate = v
			return true
		}
	case "playback.output_device":
		if v, ok := value.(int); ok {
			s.cfg.Playback.OutputDevice = v
			return true
		}
	case "export.friendly_names":
		if v, ok := value.(bool); ok {
			s.cfg.Export.FriendlyNames = v
			return true
		}
	case "notifications":
		if v, ok := value.(bool); ok {
			s.cfg.Notifications = v
			return true
		}
	}
	return false
}

// AddRecentProject moves path to the front of the recent-project list,
// dropping duplicates and capping the length.
func (c *Config) AddRecentProject(path string) {
	recent := make([]string, 0, len(c.RecentProjects)+1)
	recent = append(recent, path)
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentProjects {
		recent = recent[:MaxRecentProjects]
	}
	c.RecentProjects = recent
}
