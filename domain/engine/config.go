package engine

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SelectionPolicy decides which accepted candidate becomes the prediction
type SelectionPolicy string

const (
	// SelectionFirst returns the first accepted candidate in iteration order
	SelectionFirst SelectionPolicy = "first"

	// SelectionMedianSum returns the accepted candidate whose sum is closest to the median accepted sum
	SelectionMedianSum SelectionPolicy = "median-sum"
)

// Config holds the engine parameters
type Config struct {
	RangeMin   int `validate:"gte=1"`
	RangeMax   int `validate:"gtefield=RangeMin"`
	DrawSize   int `validate:"gte=1"`
	LowMax     int // Numbers <= LowMax are "low"
	WindowSize int `validate:"gte=1"` // Most recent draws used for frequency analysis
	Iterations int `validate:"gte=1"`
	MaxOverlap int `validate:"gte=0"` // Max numbers shared with the last draw

	MinEven int `validate:"gte=0,ltefield=MaxEven"`
	MaxEven int `validate:"ltefield=DrawSize"`
	MinLow  int `validate:"gte=0,ltefield=MaxLow"`
	MaxLow  int `validate:"ltefield=DrawSize"`

	FallbackMaxAttempts int             `validate:"gte=1"`
	Workers             int             `validate:"gte=1"`
	SelectionPolicy     SelectionPolicy `validate:"oneof=first median-sum"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the parameters of a 6/49 draw
func DefaultConfig() Config {
	return Config{
		RangeMin:            1,
		RangeMax:            49,
		DrawSize:            6,
		LowMax:              24,
		WindowSize:          100,
		Iterations:          10000,
		MaxOverlap:          2,
		MinEven:             2,
		MaxEven:             4,
		MinLow:              2,
		MaxLow:              4,
		FallbackMaxAttempts: 100000,
		Workers:             1,
		SelectionPolicy:     SelectionFirst,
	}
}

// RangeSize returns how many numbers the valid range holds
func (c Config) RangeSize() int {
	return c.RangeMax - c.RangeMin + 1
}

// Validate checks the configuration, wrapping every failure in ErrInvalidConfiguration
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %s=%s (got %v)",
				ErrInvalidConfiguration, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if c.DrawSize > c.RangeSize() {
		return fmt.Errorf("%w: draw size %d exceeds range size %d", ErrInvalidConfiguration, c.DrawSize, c.RangeSize())
	}
	if c.LowMax < c.RangeMin || c.LowMax > c.RangeMax {
		return fmt.Errorf("%w: low threshold %d outside [%d, %d]", ErrInvalidConfiguration, c.LowMax, c.RangeMin, c.RangeMax)
	}

	return nil
}
