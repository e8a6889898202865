package game

import (
	"time"

	"github.com/scrynotes/memorygame/internal/config"
)

// Default gameplay timings.
const (
	DefaultSpeedRoundDuration = 30 * time.Second
	DefaultTickInterval       = 100 * time.Millisecond
	DefaultRevealDelay        = 1500 * time.Millisecond
	DefaultOptionCount        = 4
	DefaultGenerationTimeout  = 10 * time.Second
)

// Config holds the timings and sizes a session is played with.
type Config struct {
	// SpeedRoundDuration is the per-card countdown in speed rounds.
	SpeedRoundDuration time.Duration
	// TickInterval is the countdown resolution.
	TickInterval time.Duration
	// RevealDelay is how long an answered card stays revealed before the
	// session advances on its own. Zero advances immediately; only negative
	// values are replaced by DefaultRevealDelay.
	RevealDelay time.Duration
	// OptionCount is the number of multiple-choice options per card.
	OptionCount int
	// GenerationTimeout bounds a single distractor generation call.
	GenerationTimeout time.Duration
}

// DefaultConfig returns the standard gameplay timings.
func DefaultConfig() Config {
	return Config{
		SpeedRoundDuration: DefaultSpeedRoundDuration,
		TickInterval:       DefaultTickInterval,
		RevealDelay:        DefaultRevealDelay,
		OptionCount:        DefaultOptionCount,
		GenerationTimeout:  DefaultGenerationTimeout,
	}
}

// NewConfig converts the application game settings. Unset durations and
// counts fall back to the defaults, except RevealDelay, where zero is a valid
// setting meaning no reveal window.
func NewConfig(cfg config.GameConfig) Config {
	return Config{
		SpeedRoundDuration: cfg.SpeedRoundDuration,
		TickInterval:       cfg.TickInterval,
		RevealDelay:        cfg.RevealDelay,
		OptionCount:        cfg.OptionCount,
		GenerationTimeout:  cfg.GenerationTimeout,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SpeedRoundDuration <= 0 {
		c.SpeedRoundDuration = d.SpeedRoundDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.RevealDelay < 0 {
		c.RevealDelay = d.RevealDelay
	}
	if c.OptionCount < 2 {
		c.OptionCount = d.OptionCount
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = d.GenerationTimeout
	}
	return c
}
