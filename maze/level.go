package maze

import (
	"fmt"
	"math"
)

type Point struct {
	X int
	Y int
}

// Box is an axis-aligned wall rectangle with X1<=X2 and Y1<=Y2.
type Box struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

func (b Box) center() (float64, float64) {
	return float64(b.X1+b.X2) / 2, float64(b.Y1+b.Y2) / 2
}

func (b Box) size() (float64, float64) {
	return float64(b.X2 - b.X1), float64(b.Y2 - b.Y1)
}

// Level is the geometry of a single maze. Checkpoints[0] is the goal hole.
// The core borrows a Level for the duration of a level session and never
// mutates it.
type Level struct {
	Boxes       []Box
	Holes       []Point
	Checkpoints []Point
	Keys        []Point
	Start       Point
}

func (l Level) Goal() Point {
	return l.Checkpoints[0]
}

func (l Level) Validate() error {
	if len(l.Checkpoints) == 0 {
		return fmt.Errorf("%w: no goal checkpoint", ErrInvalidLevel)
	}
	for i, b := range l.Boxes {
		if b.X2 < b.X1 || b.Y2 < b.Y1 {
			return fmt.Errorf("%w: box %d has inverted corners", ErrInvalidLevel, i)
		}
	}
	return nil
}

// inBoxR reports whether (x, y), truncated to whole pixels, lies in the
// square of half-size r around c.
func inBoxR(x, y float64, c Point, r int) bool {
	ix, iy := int(x), int(y)
	return ix >= c.X-r && ix <= c.X+r && iy >= c.Y-r && iy <= c.Y+r
}

func distTo(x, y float64, p Point) float64 {
	return math.Hypot(float64(p.X)-x, float64(p.Y)-y)
}
