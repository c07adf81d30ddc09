package maze

import (
	"math"

	"github.com/jakecoffman/cp"
)

const bumpScale = 70

// zSpan is the vertical extent of a static collider. A collider only takes
// part in a contact while the ball's own vertical extent overlaps it.
type zSpan struct {
	min float64
	max float64
}

func (s zSpan) overlaps(lo, hi float64) bool {
	return s.max > lo && s.min < hi
}

func (w *world) preSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	shapeA, shapeB := arb.Shapes()
	ballIsA := shapeA == w.ballShape
	other := shapeB
	if !ballIsA {
		other = shapeA
	}

	if span, ok := w.spans[other]; ok && !span.overlaps(w.z-w.d.ballR, w.z+w.d.ballR) {
		return false
	}

	// arbiter normals point from the first shape to the second; flip so n
	// points from the obstacle toward the ball
	n := arb.Normal()
	if ballIsA {
		n = n.Neg()
	}
	w.reportImpact(n)
	return true
}

// reportImpact forwards the signed impact speed along n. Only positive
// values (ball moving into the obstacle) reach the callback.
func (w *world) reportImpact(n cp.Vector) {
	if w.bump == nil {
		return
	}
	v := w.ball.Velocity()
	speed := math.Sqrt(v.X*v.X + v.Y*v.Y + w.vz*w.vz)
	impact := speed * n.Dot(v)
	if bump := -impact * bumpScale; bump > 0 {
		w.bump(bump)
	}
}
