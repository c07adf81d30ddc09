package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tiltmaze/common"
)

const (
	jsEventSize = 8
	jsEventAxis = 0x02
	jsEventInit = 0x80
)

// jsEvent mirrors struct js_event from linux/joystick.h.
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func decodeEvent(b []byte) jsEvent {
	return jsEvent{
		Time:   binary.LittleEndian.Uint32(b[0:4]),
		Value:  int16(binary.LittleEndian.Uint16(b[4:6])),
		Type:   b[6],
		Number: b[7],
	}
}

// Joystick reads axis events from a Linux joystick device such as
// /dev/input/js0 on a background goroutine. Axes 0-2 map to x, y and z.
type Joystick struct {
	Fname    string
	MaxAxis  float64
	Interval time.Duration
	Log      *log.Logger

	mu   sync.Mutex
	axes [3]float64

	dev  io.ReadCloser
	done chan struct{}
	once sync.Once
}

func (j *Joystick) Init() error {
	f, err := os.Open(j.Fname)
	if err != nil {
		return fmt.Errorf("input: open joystick %s: %w", j.Fname, err)
	}
	j.start(f)
	return nil
}

func (j *Joystick) start(dev io.ReadCloser) {
	j.dev = dev
	j.done = make(chan struct{})
	go j.run()
}

func (j *Joystick) run() {
	defer close(j.done)

	buf := make([]byte, jsEventSize)
	for {
		if _, err := io.ReadFull(j.dev, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) && j.Log != nil {
				j.Log.Error("joystick read failed", "device", j.Fname, "err", err)
			}
			return
		}
		j.apply(decodeEvent(buf))
		if j.Interval > 0 {
			time.Sleep(j.Interval)
		}
	}
}

func (j *Joystick) apply(ev jsEvent) {
	if ev.Type&^jsEventInit != jsEventAxis {
		return
	}
	n := common.Clamp(int(ev.Number), 0, len(j.axes)-1)
	v := common.Clamp(float64(ev.Value)/j.MaxAxis, -1, 1)

	j.mu.Lock()
	j.axes[n] = v
	j.mu.Unlock()
}

func (j *Joystick) Read() (float64, float64, float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.axes[0], j.axes[1], j.axes[2]
}

// Close stops the reader and waits for it to exit.
func (j *Joystick) Close() error {
	var err error
	j.once.Do(func() {
		if j.dev == nil {
			return
		}
		err = j.dev.Close()
		<-j.done
	})
	return err
}
