package input

import (
	"math"

	"github.com/milk9111/tiltmaze/common"
	"github.com/milk9111/tiltmaze/settings"
)

// Calibration maps raw device tilt onto play tilt. CalX and CalY are resting
// angles in radians.
type Calibration struct {
	SwapXY      bool
	InvertX     bool
	InvertY     bool
	CalX        float64
	CalY        float64
	Sensitivity float64
}

func CalibrationFromSettings(c settings.Calibration) Calibration {
	return Calibration(c)
}

func (c Calibration) Settings() settings.Calibration {
	return settings.Calibration(c)
}

func (c *Calibration) Adjust(x, y float64) (float64, float64) {
	if c.CalX != 0 {
		x = math.Sin(asin(x) - c.CalX)
	}
	if c.CalY != 0 {
		y = math.Sin(asin(y) - c.CalY)
	}
	if c.SwapXY {
		x, y = y, x
	}
	if c.InvertX {
		x = -x
	}
	if c.InvertY {
		y = -y
	}
	return common.Clamp(x*c.Sensitivity, -1, 1), common.Clamp(y*c.Sensitivity, -1, 1)
}

// Calibrator averages resting readings into a calibration offset.
type Calibrator struct {
	sumX, sumY float64
	samples    int
}

func (c *Calibrator) Reset() {
	*c = Calibrator{}
}

// Sample records one raw reading and returns the sample count so far.
func (c *Calibrator) Sample(x, y float64) int {
	c.sumX += asin(x)
	c.sumY += asin(y)
	c.samples++
	return c.samples
}

// Apply writes the averaged offsets into cal. It is a no-op before the first
// sample.
func (c *Calibrator) Apply(cal *Calibration) {
	if c.samples == 0 {
		return
	}
	cal.CalX = c.sumX / float64(c.samples)
	cal.CalY = c.sumY / float64(c.samples)
}

func asin(v float64) float64 {
	return math.Asin(common.Clamp(v, -1, 1))
}
