package input

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tiltmaze/settings"
)

func TestCalibrationAdjust(t *testing.T) {
	tests := []struct {
		name   string
		cal    Calibration
		x, y   float64
		wx, wy float64
	}{
		{name: "identity", cal: Calibration{Sensitivity: 1}, x: 0.3, y: -0.2, wx: 0.3, wy: -0.2},
		{name: "swap", cal: Calibration{SwapXY: true, Sensitivity: 1}, x: 0.3, y: -0.2, wx: -0.2, wy: 0.3},
		{name: "invert", cal: Calibration{InvertX: true, InvertY: true, Sensitivity: 1}, x: 0.3, y: -0.2, wx: -0.3, wy: 0.2},
		{name: "sensitivity clamps", cal: Calibration{Sensitivity: 4}, x: 0.3, y: -0.2, wx: 1, wy: -0.8},
		{name: "offset", cal: Calibration{CalX: math.Asin(0.5), Sensitivity: 1}, x: 0.5, y: 0, wx: 0, wy: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.cal.Adjust(tc.x, tc.y)
			assert.InDelta(t, tc.wx, x, 1e-9)
			assert.InDelta(t, tc.wy, y, 1e-9)
		})
	}
}

func TestCalibrator(t *testing.T) {
	var c Calibrator
	cal := Calibration{Sensitivity: 1, CalX: 9}
	c.Apply(&cal)
	assert.Equal(t, 9.0, cal.CalX)

	assert.Equal(t, 1, c.Sample(0.2, -0.4))
	assert.Equal(t, 2, c.Sample(0.4, -0.4))
	c.Apply(&cal)
	assert.InDelta(t, (math.Asin(0.2)+math.Asin(0.4))/2, cal.CalX, 1e-12)
	assert.InDelta(t, math.Asin(-0.4), cal.CalY, 1e-12)

	x, y := cal.Adjust(0.3, -0.4)
	assert.InDelta(t, math.Sin(math.Asin(0.3)-cal.CalX), x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	c.Reset()
	assert.Equal(t, 1, c.Sample(0, 0))
}

func TestKeyTilt(t *testing.T) {
	x, y := keyTilt(true, true, false, true, 0.5)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, -0.5, y)

	x, y = keyTilt(false, false, false, false, 0.5)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestStickTilt(t *testing.T) {
	x, y := stickTilt(0.1, -0.6, 0.2)
	assert.Zero(t, x)
	assert.Equal(t, -0.6, y)
}

func encodeEvent(value int16, typ, number uint8) []byte {
	b := make([]byte, jsEventSize)
	binary.LittleEndian.PutUint32(b[0:4], 1234)
	binary.LittleEndian.PutUint16(b[4:6], uint16(value))
	b[6] = typ
	b[7] = number
	return b
}

func TestDecodeEvent(t *testing.T) {
	ev := decodeEvent(encodeEvent(-1200, jsEventAxis|jsEventInit, 1))
	assert.Equal(t, jsEvent{Time: 1234, Value: -1200, Type: jsEventAxis | jsEventInit, Number: 1}, ev)
}

func TestJoystickReadsAxes(t *testing.T) {
	pr, pw := io.Pipe()
	j := &Joystick{MaxAxis: 1000}
	j.start(pr)

	_, err := pw.Write(encodeEvent(500, jsEventAxis, 0))
	require.NoError(t, err)
	_, err = pw.Write(encodeEvent(-4000, jsEventAxis|jsEventInit, 1))
	require.NoError(t, err)
	_, err = pw.Write(encodeEvent(700, 0x01, 2)) // button
	require.NoError(t, err)
	_, err = pw.Write(encodeEvent(250, jsEventAxis, 9))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, _, z := j.Read()
		return z == 0.25
	}, time.Second, 5*time.Millisecond)

	x, y, _ := j.Read()
	assert.Equal(t, 0.5, x)
	assert.Equal(t, -1.0, y)

	require.NoError(t, j.Close())
	require.NoError(t, j.Close())
}

func TestNew(t *testing.T) {
	def, err := settings.Default()
	require.NoError(t, err)

	cfg := def.Input
	cfg.Type = settings.InputDummy
	cfg.Calibration.InvertX = true
	src, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, src.Init())
	x, y, z := src.Read()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, z)
	require.NoError(t, src.Close())

	cfg.Type = "mouse"
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownType)

	cfg.Type = settings.InputJoystick
	cfg.Joystick.Fname = "/nonexistent/js9"
	src, err = New(cfg, nil)
	require.NoError(t, err)
	assert.Error(t, src.Init())
	assert.NoError(t, src.Close())
}

type steadySource struct {
	x, y float64
}

func (s steadySource) Init() error { return nil }

func (s steadySource) Read() (float64, float64, float64) { return s.x, s.y, 0 }

func (s steadySource) Close() error { return nil }

func TestRecalibrate(t *testing.T) {
	src := &Calibrated{
		Source:      steadySource{x: 0.3, y: -0.1},
		Calibration: &Calibration{InvertY: true, Sensitivity: 1},
	}
	var cal Calibrator

	assert.False(t, src.Recalibrate(&cal, 3))
	assert.False(t, src.Recalibrate(&cal, 3))
	assert.Zero(t, src.Calibration.CalX)
	assert.True(t, src.Recalibrate(&cal, 3))

	x, y, _ := src.Read()
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	stored := src.Calibration.Settings()
	assert.InDelta(t, math.Asin(0.3), stored.CalX, 1e-12)
	assert.InDelta(t, math.Asin(-0.1), stored.CalY, 1e-12)
	assert.True(t, stored.InvertY)
	assert.Equal(t, 1.0, stored.Sensitivity)
}
