package maze

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig   = errors.New("maze: invalid config")
	ErrInvalidLevel    = errors.New("maze: invalid level")
	ErrNoLevels        = errors.New("maze: no levels loaded")
	ErrLevelOutOfRange = errors.New("maze: level index out of range")
)

// Config holds the playfield requirements shared by every level of a pack.
// All values are in pixels. Shadow is only carried for the renderer.
type Config struct {
	WindowW int
	WindowH int
	BallR   int
	HoleR   int
	KeyR    int
	Shadow  int
}

func (c Config) Validate() error {
	if c.BallR <= 0 || c.HoleR <= 0 || c.KeyR <= 0 {
		return fmt.Errorf("%w: radii must be positive (ball=%d hole=%d key=%d)", ErrInvalidConfig, c.BallR, c.HoleR, c.KeyR)
	}
	if c.WindowW <= 2*c.BallR || c.WindowH <= 2*c.BallR {
		return fmt.Errorf("%w: playfield %dx%d too small for ball radius %d", ErrInvalidConfig, c.WindowW, c.WindowH, c.BallR)
	}
	return nil
}

// dims are the config values converted to physics units.
type dims struct {
	scale     float64 // pixels per physics unit
	ballR     float64
	ballShift float64
	wallH     float64
	wallW     float64
	wndW      float64
	wndH      float64
	holeDepth float64
	closeR    float64
	farR      float64
}

// newDims keeps the ball at a fixed physics radius regardless of its pixel
// size: scale = 100*ballR/23.
func newDims(c Config) dims {
	r := float64(c.BallR)
	scale := 100.0 * r / 23.0
	shift := r / 100.0
	return dims{
		scale:     scale,
		ballR:     r / scale,
		ballShift: shift,
		wallH:     (r + 1) * (1 + shift) * 2 / scale,
		wallW:     r / scale,
		wndW:      float64(c.WindowW) / scale,
		wndH:      float64(c.WindowH) / scale,
		holeDepth: r * 2 / scale,
		closeR:    (float64(c.HoleR) + r/2) / scale,
		farR:      (float64(c.HoleR) + r*3/2) / scale,
	}
}

func (d dims) toPhys(p Point) (float64, float64) {
	return float64(p.X) / d.scale, float64(p.Y) / d.scale
}
