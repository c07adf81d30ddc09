package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	keyboardG       = 0.5
	gamepadDeadzone = 0.2
)

// Keyboard tilts by G while an arrow or WASD key is held.
type Keyboard struct {
	G float64
}

func (k *Keyboard) Init() error { return nil }

func (k *Keyboard) Read() (float64, float64, float64) {
	up := ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW)
	down := ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS)
	left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA)
	right := ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD)
	x, y := keyTilt(up, down, left, right, k.G)
	return x, y, 0
}

func (k *Keyboard) Close() error { return nil }

// up wins over down and left over right when both are held.
func keyTilt(up, down, left, right bool, g float64) (float64, float64) {
	var x, y float64
	switch {
	case up:
		y = -g
	case down:
		y = g
	}
	switch {
	case left:
		x = -g
	case right:
		x = g
	}
	return x, y
}

// Gamepad reads the left stick of the first standard-layout gamepad.
type Gamepad struct {
	Deadzone float64
}

func (g *Gamepad) Init() error { return nil }

func (g *Gamepad) Read() (float64, float64, float64) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return 0, 0, 0
	}
	id := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return 0, 0, 0
	}
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	x, y = stickTilt(x, y, g.Deadzone)
	return x, y, 0
}

func (g *Gamepad) Close() error { return nil }

func stickTilt(x, y, deadzone float64) (float64, float64) {
	if x > -deadzone && x < deadzone {
		x = 0
	}
	if y > -deadzone && y < deadzone {
		y = 0
	}
	return x, y
}
