package input

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tiltmaze/settings"
)

var ErrUnknownType = errors.New("input: unknown input type")

// TiltSource produces the tilt vector fed to the simulation. Components are
// in [-1, 1]; z is reported by accelerometer-like devices only.
type TiltSource interface {
	Init() error
	Read() (x, y, z float64)
	Close() error
}

// New builds the source named by cfg.Type wrapped in its calibration.
func New(cfg settings.Input, logger *log.Logger) (TiltSource, error) {
	var src TiltSource
	switch cfg.Type {
	case settings.InputDummy:
		src = Dummy{}
	case settings.InputKeyboard:
		src = &Keyboard{G: keyboardG}
	case settings.InputGamepad:
		src = &Gamepad{Deadzone: gamepadDeadzone}
	case settings.InputJoystick:
		src = &Joystick{
			Fname:    cfg.Joystick.Fname,
			MaxAxis:  cfg.Joystick.MaxAxis,
			Interval: time.Duration(cfg.Joystick.Interval) * time.Microsecond,
			Log:      logger,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
	cal := CalibrationFromSettings(cfg.Calibration)
	return &Calibrated{Source: src, Calibration: &cal}, nil
}

type Dummy struct{}

func (Dummy) Init() error { return nil }

func (Dummy) Read() (float64, float64, float64) { return 0, 0, 0 }

func (Dummy) Close() error { return nil }

// Calibrated applies a calibration to every reading of Source.
type Calibrated struct {
	Source      TiltSource
	Calibration *Calibration
}

func (c *Calibrated) Init() error {
	return c.Source.Init()
}

func (c *Calibrated) Read() (float64, float64, float64) {
	x, y, z := c.Source.Read()
	x, y = c.Calibration.Adjust(x, y)
	return x, y, z
}

// Raw reads the source without calibration, for sampling.
func (c *Calibrated) Raw() (float64, float64, float64) {
	return c.Source.Read()
}

// Recalibrate feeds one raw reading into cal. Once cal holds n samples the
// averaged offsets replace the current calibration and it returns true.
func (c *Calibrated) Recalibrate(cal *Calibrator, n int) bool {
	x, y, _ := c.Raw()
	if cal.Sample(x, y) < n {
		return false
	}
	cal.Apply(c.Calibration)
	return true
}

func (c *Calibrated) Close() error {
	return c.Source.Close()
}
