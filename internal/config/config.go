// Package config holds the dial's tunables. Firmware builds use Default;
// host builds may load a YAML file on top of it and apply flag overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"dial/dial"
	"dial/hal"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the top-level YAML configuration.
type Config struct {
	Counter  CounterConfig  `yaml:"counter"`
	Resolver ResolverConfig `yaml:"resolver"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CounterConfig bounds the pulse counter. The overflow step equals
// high_limit.
type CounterConfig struct {
	LowLimit  int `yaml:"low_limit"`
	HighLimit int `yaml:"high_limit"`
	Filter    int `yaml:"filter"`
}

type ResolverConfig struct {
	Period int    `yaml:"period"`
	Policy string `yaml:"policy"` // "wrap" or "scale"
}

type RenderConfig struct {
	FrameDelayMS     int    `yaml:"frame_delay_ms"`
	Radius           int    `yaml:"radius"`
	PressedDiameter  int    `yaml:"pressed_diameter"`
	ReleasedDiameter int    `yaml:"released_diameter"`
	TouchDiameter    int    `yaml:"touch_diameter"`
	OnError          string `yaml:"on_error"` // "halt" or "skip"
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Counter: CounterConfig{
			LowLimit:  -100,
			HighLimit: 100,
			Filter:    min(10*80, hal.MaxPulseFilter),
		},
		Resolver: ResolverConfig{
			Period: 128,
			Policy: "wrap",
		},
		Render: RenderConfig{
			FrameDelayMS:     32,
			Radius:           100,
			PressedDiameter:  20,
			ReleasedDiameter: 40,
			TouchDiameter:    60,
			OnError:          "halt",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FlagOverrides holds values set on the command line. Nil fields are left
// alone.
type FlagOverrides struct {
	LogLevel     *string
	FrameDelayMS *int
	Policy       *string
	OnError      *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.FrameDelayMS != nil {
		cfg.Render.FrameDelayMS = *o.FrameDelayMS
	}
	if o.Policy != nil {
		cfg.Resolver.Policy = *o.Policy
	}
	if o.OnError != nil {
		cfg.Render.OnError = *o.OnError
	}
}

// Validate checks the config after defaults, file and overrides are applied.
func (c *Config) Validate() error {
	if c.Counter.HighLimit <= 0 || c.Counter.HighLimit > 32767 {
		return fmt.Errorf("%w: counter.high_limit must be between 1 and 32767", ErrInvalid)
	}
	if c.Counter.LowLimit != -c.Counter.HighLimit {
		return fmt.Errorf("%w: counter.low_limit must be -counter.high_limit", ErrInvalid)
	}
	if c.Counter.Filter < 0 {
		return fmt.Errorf("%w: counter.filter must be >= 0", ErrInvalid)
	}
	if c.Resolver.Period <= 0 || c.Resolver.Period > math.MaxInt32 {
		return fmt.Errorf("%w: resolver.period must be between 1 and %d", ErrInvalid, math.MaxInt32)
	}
	if _, err := dial.ParsePolicy(c.Resolver.Policy); err != nil {
		return fmt.Errorf("%w: resolver.policy: %v", ErrInvalid, err)
	}
	if c.Render.FrameDelayMS <= 0 {
		return fmt.Errorf("%w: render.frame_delay_ms must be > 0", ErrInvalid)
	}
	for name, v := range map[string]int{
		"render.radius":            c.Render.Radius,
		"render.pressed_diameter":  c.Render.PressedDiameter,
		"render.released_diameter": c.Render.ReleasedDiameter,
		"render.touch_diameter":    c.Render.TouchDiameter,
	} {
		if v <= 0 || v > 32767 {
			return fmt.Errorf("%w: %s must be between 1 and 32767", ErrInvalid, name)
		}
	}
	if _, err := dial.ParseErrorPolicy(c.Render.OnError); err != nil {
		return fmt.Errorf("%w: render.on_error: %v", ErrInvalid, err)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	return nil
}

// CounterConfig converts the counter section. Filter values too wide for
// the hardware are clamped by the counter itself.
func (c *Config) CounterConfig() dial.CounterConfig {
	filter := c.Counter.Filter
	if filter > 0xFFFF {
		filter = 0xFFFF
	}
	return dial.CounterConfig{
		LowLimit:  int16(c.Counter.LowLimit),
		HighLimit: int16(c.Counter.HighLimit),
		Filter:    uint16(filter),
	}
}

// Period is the resolver period. Validate bounds it to int32.
func (c *Config) Period() int32 { return int32(c.Resolver.Period) }

// Step is the offset applied per saturation.
func (c *Config) Step() int32 { return int32(c.Counter.HighLimit) }

// Policy returns the resolver policy, falling back to WrapBeforeScale.
func (c *Config) Policy() dial.Policy {
	p, _ := dial.ParsePolicy(c.Resolver.Policy)
	return p
}

func (c *Config) SceneConfig() dial.SceneConfig {
	return dial.SceneConfig{
		Radius:           int16(c.Render.Radius),
		PressedDiameter:  int16(c.Render.PressedDiameter),
		ReleasedDiameter: int16(c.Render.ReleasedDiameter),
		TouchDiameter:    int16(c.Render.TouchDiameter),
	}
}

func (c *Config) SchedulerConfig() dial.SchedulerConfig {
	onErr, _ := dial.ParseErrorPolicy(c.Render.OnError)
	return dial.SchedulerConfig{
		FrameDelay: c.FrameDelay(),
		OnError:    onErr,
	}
}

// FrameDelay is the pause after each loop iteration.
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.Render.FrameDelayMS) * time.Millisecond
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}
