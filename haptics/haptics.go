package haptics

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tiltmaze/common"
	"github.com/milk9111/tiltmaze/settings"
)

// Sink drives a vibration device at a level in [0, 255].
type Sink interface {
	Bump(level uint8)
	Close() error
}

type Dummy struct{}

func (Dummy) Bump(uint8) {}

func (Dummy) Close() error { return nil }

// Mapper turns impact speeds reported by the simulation into device levels.
// Speeds below MinSpeed are ignored; MaxSpeed and above give full strength.
// Force scales the result, 1 being 100%.
type Mapper struct {
	MinSpeed float64
	MaxSpeed float64
	Force    float64
}

func (m Mapper) Map(speed float64) (uint8, bool) {
	if speed <= 0 || speed < m.MinSpeed {
		return 0, false
	}
	k := 1.0
	if m.MaxSpeed > m.MinSpeed {
		k = common.Clamp((speed-m.MinSpeed)/(m.MaxSpeed-m.MinSpeed), 0, 1)
	}
	lev := common.Clamp((0.27+0.73*k)*m.Force, 0, 1)
	return uint8(lev * 255), true
}

// Vibrator joins a Mapper and a Sink. It satisfies maze.HapticSink.
type Vibrator struct {
	Mapper Mapper
	Sink   Sink
}

func (v *Vibrator) Bump(speed float64) {
	if level, ok := v.Mapper.Map(speed); ok {
		v.Sink.Bump(level)
	}
}

// Bridge returns the callback form of v for maze.Session.SetVibroCallback.
func (v *Vibrator) Bridge() func(float64) {
	return v.Bump
}

func (v *Vibrator) Close() error {
	return v.Sink.Close()
}

// New opens the device named by cfg.Type. A freerunner device that can not
// be opened degrades to a silent sink.
func New(cfg settings.Vibro, logger *log.Logger) (*Vibrator, error) {
	m := Mapper{
		MinSpeed: cfg.BumpMinSpeed,
		MaxSpeed: cfg.BumpMaxSpeed,
		Force:    float64(cfg.Force) / 100,
	}

	switch cfg.Type {
	case settings.VibroNone:
		return &Vibrator{Mapper: m, Sink: Dummy{}}, nil
	case settings.VibroFreerunner:
		fr, err := OpenFreerunner(time.Duration(cfg.Freerunner.Duration)*time.Millisecond, FreerunnerPaths...)
		if err != nil {
			if logger == nil {
				logger = log.Default()
			}
			logger.Warn("vibrator unavailable", "err", err)
			return &Vibrator{Mapper: m, Sink: Dummy{}}, nil
		}
		return &Vibrator{Mapper: m, Sink: fr}, nil
	default:
		return nil, fmt.Errorf("haptics: unknown vibro type %q", cfg.Type)
	}
}
