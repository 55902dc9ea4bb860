package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/lighting"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DeviceVirtual = "virtual"
	DeviceSpeaker = "speaker"

	envPrefix = "CONDUCTOR"
)

// Config represents options that configure the global behavior of the program
type Config struct {
	Music    MusicConfig    `mapstructure:"music"`
	Engine   EngineConfig   `mapstructure:"engine"`
	OSC      OSCConfig      `mapstructure:"osc"`
	Lighting LightingConfig `mapstructure:"lighting"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// MusicConfig describes the song and how it is cut into frames.
type MusicConfig struct {
	// File is the audio file holding every frame (wav, mp3 or ogg). Only the speaker device reads it.
	File string `mapstructure:"file"`

	BPM        float64 `mapstructure:"bpm"`
	BarLength  int     `mapstructure:"bar_length"`
	StartDelay float64 `mapstructure:"start_delay"`
	Volume     float64 `mapstructure:"volume"`

	// Frames are played in order, one per transition request.
	Frames []music.Frame `mapstructure:"frames"`

	// EndFrame preempts the sequence once, e.g. on player death.
	EndFrame music.Frame `mapstructure:"end_frame"`
}

// EngineConfig selects the output device and the tick loop settings.
type EngineConfig struct {
	Device   string        `mapstructure:"device"`
	TickRate time.Duration `mapstructure:"tick_rate"`

	// Buffer is the speaker buffer size. The speaker clock, and with it every beat read,
	// advances in steps of this size.
	Buffer time.Duration `mapstructure:"buffer"`

	// Length is the buffer duration in seconds simulated by the virtual device.
	Length float64 `mapstructure:"length"`
}

// OSCConfig holds the beat broadcast target.
type OSCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// LightingConfig holds the OLA connection and the fixtures flashed on the beat.
type LightingConfig struct {
	Enabled    bool               `mapstructure:"enabled"`
	OLAAddress string             `mapstructure:"ola_address"`
	TickRate   time.Duration      `mapstructure:"tick_rate"`
	Fixtures   []lighting.Fixture `mapstructure:"fixtures"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// NewConductorConfig creates a Config with reasonable defaults for real usage.
func NewConductorConfig() Config {
	return Config{
		Music: MusicConfig{
			BPM:        115,
			BarLength:  4,
			StartDelay: conductor.DefaultStartDelay,
			Volume:     1,
			Frames:     DefaultFrames(),
			EndFrame:   DefaultEndFrame(),
		},
		Engine: EngineConfig{
			Device:   DeviceVirtual,
			TickRate: conductor.DefaultTickRate,
			Buffer:   100 * time.Millisecond,
			Length:   566,
		},
		OSC: OSCConfig{
			Host: "127.0.0.1",
			Port: 9000,
		},
		Lighting: LightingConfig{
			OLAAddress: "localhost:9010",
			TickRate:   40 * time.Millisecond,
			Fixtures:   DefaultFixtures(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers a YAML config file and CONDUCTOR_* environment variables over the defaults.
// When path is empty, conductor.yaml is looked up in the working directory and
// $HOME/.conductor; a missing file is not an error.
func Load(path string) (*Config, error) {
	logger := logger.GetProjectLogger()

	v := viper.New()
	setDefaults(v, NewConductorConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("conductor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.conductor")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.WithStackTrace(err)
		}
		logger.Debug("No config file found, using defaults and environment variables")
	} else {
		logger.WithFields(logrus.Fields{"file": v.ConfigFileUsed()}).Info("Using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	// The default end frame only fits the default frame table and its buffer.
	if !v.IsSet("music.frames") {
		cfg.Music.Frames = DefaultFrames()
		if !v.IsSet("music.end_frame") {
			cfg.Music.EndFrame = DefaultEndFrame()
		}
	}
	if !v.IsSet("lighting.fixtures") {
		cfg.Lighting.Fixtures = DefaultFixtures()
	}

	return &cfg, nil
}

// setDefaults registers every scalar key so that environment variables can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("music.file", d.Music.File)
	v.SetDefault("music.bpm", d.Music.BPM)
	v.SetDefault("music.bar_length", d.Music.BarLength)
	v.SetDefault("music.start_delay", d.Music.StartDelay)
	v.SetDefault("music.volume", d.Music.Volume)
	v.SetDefault("engine.device", d.Engine.Device)
	v.SetDefault("engine.tick_rate", d.Engine.TickRate)
	v.SetDefault("engine.buffer", d.Engine.Buffer)
	v.SetDefault("engine.length", d.Engine.Length)
	v.SetDefault("osc.enabled", d.OSC.Enabled)
	v.SetDefault("osc.host", d.OSC.Host)
	v.SetDefault("osc.port", d.OSC.Port)
	v.SetDefault("lighting.enabled", d.Lighting.Enabled)
	v.SetDefault("lighting.ola_address", d.Lighting.OLAAddress)
	v.SetDefault("lighting.tick_rate", d.Lighting.TickRate)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	m := c.Music

	if m.BPM <= 0 || math.IsNaN(m.BPM) || math.IsInf(m.BPM, 0) {
		return &ConfigError{Field: "music.bpm", Message: "tempo must be a positive number of beats per minute"}
	}
	if m.BarLength < 1 {
		return &ConfigError{Field: "music.bar_length", Message: "a bar needs at least one beat"}
	}
	if m.StartDelay <= 0 {
		return &ConfigError{Field: "music.start_delay", Message: "start delay must be positive"}
	}
	if !(m.Volume >= 0 && m.Volume <= 1) {
		return &ConfigError{Field: "music.volume", Message: "volume must be between 0 and 1"}
	}
	if len(m.Frames) == 0 {
		return &ConfigError{Field: "music.frames", Message: "at least one frame is required"}
	}

	duration := math.Inf(1)
	switch c.Engine.Device {
	case DeviceVirtual:
		if c.Engine.Length <= 0 {
			return &ConfigError{Field: "engine.length", Message: "virtual buffer length must be positive"}
		}
		duration = c.Engine.Length
	case DeviceSpeaker:
		if m.File == "" {
			return &ConfigError{Field: "music.file", Message: "the speaker device needs a music file"}
		}
		if c.Engine.Buffer <= 0 {
			return &ConfigError{Field: "engine.buffer", Message: "speaker buffer must be positive"}
		}
	default:
		return &ConfigError{Field: "engine.device", Message: "unknown device " + c.Engine.Device}
	}

	for i, f := range m.Frames {
		if err := f.Validate(duration); err != nil {
			return &ConfigError{Field: frameField(i), Message: err.Error(), Err: err}
		}
	}
	if m.EndFrame == (music.Frame{}) {
		return &ConfigError{Field: "music.end_frame", Message: "custom frames need their own end frame"}
	}
	if err := m.EndFrame.Validate(duration); err != nil {
		return &ConfigError{Field: "music.end_frame", Message: err.Error(), Err: err}
	}

	if c.Engine.TickRate <= 0 {
		return &ConfigError{Field: "engine.tick_rate", Message: "tick rate must be positive"}
	}
	if c.OSC.Enabled && (c.OSC.Port <= 0 || c.OSC.Port > 65535) {
		return &ConfigError{Field: "osc.port", Message: "port must be between 1 and 65535"}
	}

	if c.Lighting.Enabled {
		if c.Lighting.TickRate <= 0 {
			return &ConfigError{Field: "lighting.tick_rate", Message: "tick rate must be positive"}
		}
		for i, f := range c.Lighting.Fixtures {
			if err := f.Validate(); err != nil {
				return &ConfigError{Field: fmt.Sprintf("lighting.fixtures[%d]", i), Message: err.Error(), Err: err}
			}
		}
	}

	return nil
}

// ConductorOptions returns the music settings as conductor options.
func (c *Config) ConductorOptions() conductor.Options {
	frames := make([]music.Frame, len(c.Music.Frames))
	copy(frames, c.Music.Frames)

	return conductor.Options{
		BPM:        c.Music.BPM,
		BarLength:  c.Music.BarLength,
		StartDelay: c.Music.StartDelay,
		Frames:     frames,
		EndFrame:   c.Music.EndFrame,
	}
}

func frameField(i int) string {
	return fmt.Sprintf("music.frames[%d]", i)
}
