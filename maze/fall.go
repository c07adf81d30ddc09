package maze

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	fallGravityGain = 1.6
	fallDampGain    = 4.5
	fallPullGain    = 0.2
	fallPullMax     = 0.45
	minFallVel      = 0.09
	cylinderSides   = 16
)

// fallState tracks one descent into a hole. pending is the result handed to
// the host once the ball settles; resolved latches after it has been handed
// out.
type fallState struct {
	active   bool
	fixed    bool
	resolved bool
	hole     Point
	pending  GameState
}

// beginFall lowers the floor under the hole and encloses its mouth with two
// rings: a close one below the table surface and a far one above it.
func (w *world) beginFall(hole Point) {
	w.gravity = -gravConst * 0.5 * fallGravityGain
	w.planeZ = -w.d.holeDepth

	w.addRing(hole, w.d.closeR, zSpan{min: -w.d.holeDepth, max: 0})
	w.addRing(hole, w.d.farR, zSpan{min: 0, max: w.d.wallH})
}

// sealHole closes the hole at the close radius up to wall height so the ball
// can not climb back out.
func (w *world) sealHole(hole Point) {
	w.addRing(hole, w.d.closeR, zSpan{min: 0, max: w.d.wallH})
}

// addRing approximates a cylinder wall around hole with cylinderSides
// wallW-thick segments centered at radius r, so the inner face sits at
// r-wallW/2.
func (w *world) addRing(hole Point, r float64, span zSpan) {
	cx, cy := w.d.toPhys(hole)
	half := math.Pi / cylinderSides
	vr := r / math.Cos(half)
	thickness := w.d.wallW / 2

	for i := 0; i < cylinderSides; i++ {
		a := 2 * math.Pi * float64(i) / cylinderSides
		p0 := cp.Vector{X: cx + vr*math.Cos(a-half), Y: cy + vr*math.Sin(a-half)}
		p1 := cp.Vector{X: cx + vr*math.Cos(a+half), Y: cy + vr*math.Sin(a+half)}
		w.addStatic(cp.NewSegment(w.space.StaticBody, p0, p1, thickness), span)
	}
}

// fallPull drags a straying ball back toward the hole center. It is zero
// while the ball is within HoleR-BallR/2 pixels of the center.
func (w *world) fallPull(hole Point) cp.Vector {
	p := w.ball.Position()
	x, y := p.X*w.d.scale, p.Y*w.d.scale
	dist := distTo(x, y, hole)

	half := float64(w.cfg.BallR) / 2
	threshold := float64(w.cfg.HoleR) - half
	if dist <= threshold || dist == 0 {
		return cp.Vector{}
	}

	fo := min(fallPullGain*(dist-threshold)/half, fallPullMax)
	return cp.Vector{
		X: (float64(hole.X) - x) / dist * fo,
		Y: (float64(hole.Y) - y) / dist * fo,
	}
}

// settled reports whether the ball has come to rest at the bottom of a hole.
func (w *world) settled() bool {
	return w.speed() < minFallVel && w.z*w.d.scale <= -0.75*float64(w.cfg.BallR)
}
