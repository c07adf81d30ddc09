package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/tiltmaze/common"
	"github.com/milk9111/tiltmaze/maze"
)

var (
	deskColor     = color.RGBA{R: 0x8a, G: 0x6a, B: 0x45, A: 0xff}
	wallColor     = color.RGBA{R: 0x5c, G: 0x3e, B: 0x22, A: 0xff}
	wallShadow    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x50}
	holeColor     = color.RGBA{R: 0x18, G: 0x10, B: 0x08, A: 0xff}
	goalColor     = color.RGBA{R: 0x1c, G: 0x3f, B: 0x1f, A: 0xff}
	goalOpenColor = color.RGBA{R: 0x3c, G: 0xa0, B: 0x48, A: 0xff}
	keyColor      = color.RGBA{R: 0xe7, G: 0xbe, B: 0x72, A: 0xff}
	ballColor     = color.RGBA{R: 0xc8, G: 0xc8, B: 0xd2, A: 0xff}
	ballMark      = color.RGBA{R: 0x50, G: 0x50, B: 0x64, A: 0xff}
)

// board is the static part of a level rendered once, plus the dynamic
// pieces drawn every frame on top of it.
type board struct {
	cfg   maze.Config
	level maze.Level
	desk  *ebiten.Image
}

func newBoard(cfg maze.Config, level maze.Level) *board {
	desk := ebiten.NewImage(cfg.WindowW, cfg.WindowH)
	desk.Fill(deskColor)

	shadow := float32(cfg.Shadow)
	for _, b := range level.Boxes {
		x, y := float32(b.X1), float32(b.Y1)
		w, h := float32(b.X2-b.X1), float32(b.Y2-b.Y1)
		vector.FillRect(desk, x+shadow, y+shadow, w, h, wallShadow, false)
	}
	for _, b := range level.Boxes {
		vector.FillRect(desk, float32(b.X1), float32(b.Y1), float32(b.X2-b.X1), float32(b.Y2-b.Y1), wallColor, false)
	}
	for _, h := range level.Holes {
		vector.FillCircle(desk, float32(h.X), float32(h.Y), float32(cfg.HoleR), holeColor, true)
	}
	// checkpoints past the goal are decorative
	for _, c := range level.Checkpoints[1:] {
		vector.StrokeCircle(desk, float32(c.X), float32(c.Y), float32(cfg.HoleR), 2, goalColor, true)
	}

	return &board{cfg: cfg, level: level, desk: desk}
}

func (b *board) draw(screen *ebiten.Image, s *maze.Session) {
	screen.DrawImage(b.desk, nil)

	keys, goal := s.Animations()
	b.drawGoal(screen, s.AllKeysCollected(), goal)
	b.drawKeys(screen, keys)
	b.drawBall(screen, s.BallPose())
}

func (b *board) drawGoal(screen *ebiten.Image, open bool, anim maze.Animation) {
	g := b.level.Goal()
	clr := goalColor
	if open || len(b.level.Keys) == 0 {
		t := float32(1)
		if len(b.level.Keys) > 0 {
			t = float32(anim.Progress)
		}
		clr = lerpColor(goalColor, goalOpenColor, t)
	}
	vector.FillCircle(screen, float32(g.X), float32(g.Y), float32(b.cfg.HoleR), clr, true)
}

// drawKeys shrinks collected keys away as their animation plays.
func (b *board) drawKeys(screen *ebiten.Image, anims []maze.Animation) {
	for i, k := range b.level.Keys {
		if i >= len(anims) {
			break
		}
		a := anims[i]
		if a.Stage == maze.AnimationFinished {
			continue
		}
		r := common.Lerp(float32(b.cfg.KeyR), 0, float32(a.Progress))
		if r <= 0 {
			continue
		}
		vector.FillCircle(screen, float32(k.X), float32(k.Y), r, keyColor, true)
		vector.StrokeCircle(screen, float32(k.X), float32(k.Y), r, 1.5, wallColor, true)
	}
}

// drawBall draws the ball with its shadow and a surface mark that follows the
// rotation, shrinking it while it sinks into a hole.
func (b *board) drawBall(screen *ebiten.Image, p maze.Pose) {
	r := float64(b.cfg.BallR)
	depth := common.Clamp(-(p.Z-r)/(2*r), 0, 1)
	scale := 1 - 0.3*depth
	rad := float32(r * scale)
	x, y := float32(p.X), float32(p.Y)

	if depth == 0 {
		off := float32(b.cfg.Shadow)
		vector.FillCircle(screen, x+off, y+off, rad, wallShadow, true)
	}
	clr := lerpColor(ballColor, holeColor, float32(depth*0.7))
	vector.FillCircle(screen, x, y, rad, clr, true)

	// the mark sits on the ball's local +z pole
	m := p.Rotation
	mx, my, mz := m[2], m[5], m[8]
	if mz > 0 {
		mr := float32(r * scale * 0.25 * math.Sqrt(mz))
		vector.FillCircle(screen, x+float32(mx*r*scale), y+float32(my*r*scale), mr, ballMark, true)
	}
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	t = common.Clamp(t, 0, 1)
	return color.RGBA{
		R: uint8(common.Lerp(float32(a.R), float32(b.R), t)),
		G: uint8(common.Lerp(float32(a.G), float32(b.G), t)),
		B: uint8(common.Lerp(float32(a.B), float32(b.B), t)),
		A: uint8(common.Lerp(float32(a.A), float32(b.A), t)),
	}
}
