package carousel

import (
	"time"

	"github.com/agripath/agripath/internal/validate"
)

// Config holds the tuning constants of one carousel instance.
type Config struct {
	CloneCount             int           `validate:"min=1"`
	Stride                 float64       `validate:"gt=0"`
	AutoplayInterval       time.Duration `validate:"gt=0"`
	InitialSettleDelay     time.Duration `validate:"gte=0"`
	MinVisibleFraction     float64       `validate:"gt=0,lte=1"`
	MinVisibleTime         time.Duration `validate:"gte=0"`
	ViewabilitySettleDelay time.Duration `validate:"gte=0"`
	Autoplay               bool
	FPS                    int `validate:"min=1,max=120"`
}

// DefaultConfig returns the banner carousel defaults.
func DefaultConfig() Config {
	return Config{
		CloneCount:             3,
		Stride:                 34,
		AutoplayInterval:       3 * time.Second,
		InitialSettleDelay:     500 * time.Millisecond,
		MinVisibleFraction:     0.5,
		MinVisibleTime:         100 * time.Millisecond,
		ViewabilitySettleDelay: 150 * time.Millisecond,
		Autoplay:               true,
		FPS:                    30,
	}
}

// Validate checks the constants.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// FrameInterval is the animation frame period.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}
