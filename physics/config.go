package physics

import (
	"fmt"
	"math"
)

// Config holds the tunable constants of the force model
type Config struct {
	Attraction    float64 `json:"attraction" yaml:"attraction"`         // c1, strength of the attractive force
	IdealDistance float64 `json:"ideal_distance" yaml:"ideal_distance"` // c2, distance at which attraction vanishes
	Repulsion     float64 `json:"repulsion" yaml:"repulsion"`           // c3, strength of the repelling force
	Speed         float64 `json:"speed" yaml:"speed"`                   // c4, effective integration speed
	Steps         int     `json:"steps" yaml:"steps"`                   // number of integration steps
}

// DefaultConfig returns the constants the layout was tuned with
func DefaultConfig() Config {
	return Config{
		Attraction:    2.0,
		IdealDistance: 10.0,
		Repulsion:     5.0,
		Speed:         1.0,
		Steps:         250,
	}
}

// Validate checks that the constants produce a well-defined force model
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"attraction":     c.Attraction,
		"ideal_distance": c.IdealDistance,
		"repulsion":      c.Repulsion,
		"speed":          c.Speed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, name, v)
		}
	}

	// ln(d/c2) is undefined for c2 <= 0
	if c.IdealDistance <= 0 {
		return fmt.Errorf("%w: ideal_distance must be positive, got %v", ErrInvalidConfig, c.IdealDistance)
	}
	if c.Repulsion < 0 {
		return fmt.Errorf("%w: repulsion must not be negative, got %v", ErrInvalidConfig, c.Repulsion)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Steps > MaxTraceCells {
		return fmt.Errorf("%w: steps must not exceed %d, got %d", ErrInvalidConfig, MaxTraceCells, c.Steps)
	}
	return nil
}
