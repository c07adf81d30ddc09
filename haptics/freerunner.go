package haptics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// FreerunnerPaths are the vibrator brightness files of the Openmoko phones,
// newest kernel layout first.
var FreerunnerPaths = []string{
	"/sys/class/leds/gta02::vibrator/brightness",
	"/sys/devices/platform/leds_pwm/leds/gta02::vibrator/brightness",
	"/sys/class/leds/neo1973:vibrator/brightness",
	"/sys/devices/platform/neo1973-vibrator.0/leds/neo1973:vibrator/brightness",
}

var ErrNoDevice = errors.New("haptics: no vibrator device")

// Freerunner pulses a LED-class vibrator. A bump sets the level and a timer
// switches it off after Duration; bumps arriving while it runs are dropped.
type Freerunner struct {
	duration time.Duration

	mu     sync.Mutex
	dev    io.WriteCloser
	timer  *time.Timer
	closed bool
}

// OpenFreerunner opens the first writable path.
func OpenFreerunner(duration time.Duration, paths ...string) (*Freerunner, error) {
	var errs []error
	for _, p := range paths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err == nil {
			return newFreerunner(f, duration), nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoDevice, errors.Join(errs...))
}

func newFreerunner(dev io.WriteCloser, duration time.Duration) *Freerunner {
	return &Freerunner{dev: dev, duration: duration}
}

func (f *Freerunner) Bump(level uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.timer != nil {
		return
	}
	f.write(int(level))
	f.timer = time.AfterFunc(f.duration, f.stop)
}

func (f *Freerunner) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.write(0)
	f.timer = nil
}

func (f *Freerunner) write(level int) {
	_, _ = io.WriteString(f.dev, strconv.Itoa(level))
}

func (f *Freerunner) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.write(0)
	f.closed = true
	return f.dev.Close()
}
