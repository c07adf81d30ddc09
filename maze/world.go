package maze

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeBall cp.CollisionType = iota + 1
	collisionTypeWall
)

const (
	gravConst        = 9.81
	contactFriction  = 0.7
	collisionSlop    = 1e-4
	solverIterations = 20
	groundEpsilon    = 1e-9

	tiltGain        = 0.45
	linearDeadZone  = 0.002
	angularDeadZone = 0.003
	dampForce       = 0.0017
	dampTorque      = 0.0005
	rollingFactor   = 5.0 / 7.0
)

// world owns the physics space for one level session. cp resolves the
// table plane (x, y); the vertical axis, the ground plane and the ceiling are
// integrated here.
type world struct {
	cfg Config
	d   dims
	log *log.Logger

	space     *cp.Space
	ball      *cp.Body
	ballShape *cp.Shape
	spans     map[*cp.Shape]zSpan

	z       float64
	vz      float64
	planeZ  float64
	gravity float64

	orient quat
	rollX  float64
	rollY  float64

	bump func(float64)
}

// testHookSubstep, when set, runs after every physics sub-step.
var testHookSubstep func(w *world, i int)

type stepInput struct {
	tiltX   float64
	tiltY   float64
	falling bool
	hole    Point
}

type bodySnapshot struct {
	pos    cp.Vector
	vel    cp.Vector
	angle  float64
	angVel float64
	z      float64
	vz     float64
	orient quat
	rollX  float64
	rollY  float64
}

func newWorld(cfg Config, lvl Level, spawn Point, logger *log.Logger) *world {
	d := newDims(cfg)

	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(cp.Vector{})
	space.SetCollisionSlop(collisionSlop)

	w := &world{
		cfg:     cfg,
		d:       d,
		log:     logger,
		space:   space,
		spans:   make(map[*cp.Shape]zSpan),
		gravity: -gravConst * 0.5,
		orient:  identityQuat(),
	}

	handler := space.NewCollisionHandler(collisionTypeBall, collisionTypeWall)
	handler.PreSolveFunc = w.preSolve

	walls := zSpan{min: 0, max: d.wallH}
	for i, b := range lvl.Boxes {
		bw, bh := b.size()
		if bw <= 0 || bh <= 0 {
			logger.Debug("skipping degenerate wall", "box", i)
			continue
		}
		cx, cy := b.center()
		w.addBox(cx/d.scale, cy/d.scale, bw/d.scale, bh/d.scale, walls)
	}

	// window edges sit just outside the playfield
	w.addBox(d.wndW/2, -d.wallW/2, d.wndW, d.wallW, walls)
	w.addBox(d.wndW/2, d.wndH+d.wallW/2, d.wndW, d.wallW, walls)
	w.addBox(-d.wallW/2, d.wndH/2, d.wallW, d.wndH, walls)
	w.addBox(d.wndW+d.wallW/2, d.wndH/2, d.wallW, d.wndH, walls)

	mass := 4.0 / 3.0 * math.Pi * d.ballR * d.ballR * d.ballR
	body := cp.NewBody(mass, 0.4*mass*d.ballR*d.ballR)
	sx, sy := d.toPhys(spawn)
	body.SetPosition(cp.Vector{X: sx, Y: sy})
	space.AddBody(body)

	shape := cp.NewCircle(body, d.ballR, cp.Vector{})
	shape.SetFriction(contactFriction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeBall)
	space.AddShape(shape)

	w.ball = body
	w.ballShape = shape
	w.z = d.ballR * (1 + d.ballShift)
	return w
}

func (w *world) addBox(cx, cy, width, height float64, span zSpan) {
	bb := cp.BB{L: cx - width/2, B: cy - height/2, R: cx + width/2, T: cy + height/2}
	w.addStatic(cp.NewBox2(w.space.StaticBody, bb, 0), span)
}

func (w *world) addStatic(shape *cp.Shape, span zSpan) {
	shape.SetFriction(1)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeWall)
	w.space.AddShape(shape)
	w.spans[shape] = span
}

// destroy releases every collider and the ball in one sweep.
func (w *world) destroy() {
	if w == nil || w.space == nil {
		return
	}
	for shape := range w.spans {
		w.space.RemoveShape(shape)
	}
	clear(w.spans)
	if w.ballShape != nil {
		w.space.RemoveShape(w.ballShape)
	}
	if w.ball != nil {
		w.space.RemoveBody(w.ball)
	}
	w.space = nil
}

// step runs the fixed sub-iteration loop. A sub-step that leaves the ball at
// a non-finite position is rolled back and forces stay off for the rest of
// the call.
func (w *world) step(dt float64, in stepInput) {
	suppressed := false
	for i := 0; i < substeps; i++ {
		snap := w.snapshot()
		if !suppressed {
			w.applyForces(in)
		}

		w.space.Step(dt)
		w.integrateVertical(dt)
		w.updateOrientation(dt)

		if testHookSubstep != nil {
			testHookSubstep(w, i)
		}

		if !w.finitePosition() {
			w.restore(snap)
			suppressed = true
			w.log.Debug("non-finite ball position, rolled back", "substep", i)
		}
	}
}

func (w *world) applyForces(in stepInput) {
	var force cp.Vector
	v := w.ball.Velocity()

	gain := 1.0
	ax, ay := in.tiltX, in.tiltY
	if in.falling {
		force = w.fallPull(in.hole)
		gain = fallDampGain
		ax, ay = 0, 0
	} else {
		force = cp.Vector{X: in.tiltX * tiltGain, Y: in.tiltY * tiltGain}
	}

	if qu := -deadSign(v.X, linearDeadZone); qu != 0 {
		force.X += gain * qu * dampForce * (0.5 * gravConst * tiltCos(ax))
	}
	if qu := -deadSign(v.Y, linearDeadZone); qu != 0 {
		force.Y += gain * qu * dampForce * (0.5 * gravConst * tiltCos(ay))
	}

	if w.grounded() {
		force = force.Mult(rollingFactor)
	}
	w.ball.SetForce(force)

	if qu := -deadSign(w.ball.AngularVelocity(), angularDeadZone); qu != 0 {
		w.ball.SetTorque(qu * dampTorque)
	}
}

func (w *world) integrateVertical(dt float64) {
	w.vz += w.gravity * dt
	w.z += w.vz * dt

	if floor := w.planeZ + w.d.ballR; w.z < floor {
		w.z = floor
		if w.vz < 0 {
			w.vz = 0
		}
	}
	if ceiling := w.d.wallH - w.d.ballR; w.z > ceiling {
		w.z = ceiling
		if w.vz > 0 {
			w.vz = 0
		}
	}
}

// updateOrientation rolls the ball without slipping while it touches the
// plane and keeps the last rolling rate while airborne.
func (w *world) updateOrientation(dt float64) {
	if w.grounded() {
		v := w.ball.Velocity()
		w.rollX = -v.Y / w.d.ballR
		w.rollY = v.X / w.d.ballR
	}
	w.orient = w.orient.integrate(w.rollX, w.rollY, w.ball.AngularVelocity(), dt)
}

func (w *world) grounded() bool {
	return w.z-w.d.ballR <= w.planeZ+groundEpsilon
}

func (w *world) finitePosition() bool {
	p := w.ball.Position()
	return finite(p.X) && finite(p.Y) && finite(w.z)
}

func (w *world) snapshot() bodySnapshot {
	return bodySnapshot{
		pos:    w.ball.Position(),
		vel:    w.ball.Velocity(),
		angle:  w.ball.Angle(),
		angVel: w.ball.AngularVelocity(),
		z:      w.z,
		vz:     w.vz,
		orient: w.orient,
		rollX:  w.rollX,
		rollY:  w.rollY,
	}
}

func (w *world) restore(s bodySnapshot) {
	w.ball.SetPosition(s.pos)
	w.ball.SetVelocityVector(s.vel)
	w.ball.SetAngle(s.angle)
	w.ball.SetAngularVelocity(s.angVel)
	w.z = s.z
	w.vz = s.vz
	w.orient = s.orient
	w.rollX = s.rollX
	w.rollY = s.rollY
}

// placeBall moves the ball to a pixel position and stops it.
func (w *world) placeBall(x, y float64) {
	w.ball.SetPosition(cp.Vector{X: x / w.d.scale, Y: y / w.d.scale})
	w.ball.SetVelocityVector(cp.Vector{})
	w.ball.SetAngularVelocity(0)
	w.vz = 0
}

// speed is the full 3D linear speed in physics units.
func (w *world) speed() float64 {
	v := w.ball.Velocity()
	return math.Sqrt(v.X*v.X + v.Y*v.Y + w.vz*w.vz)
}

func (w *world) pose() Pose {
	p := w.ball.Position()
	return Pose{
		X:        p.X * w.d.scale,
		Y:        p.Y * w.d.scale,
		Z:        w.z * w.d.scale,
		Rotation: w.orient.mat3(),
	}
}

func deadSign(x, delta float64) float64 {
	switch {
	case x < -delta:
		return -1
	case x > delta:
		return 1
	default:
		return 0
	}
}

// tiltCos is cos(asin(a)), the share of gravity pressing the ball onto a
// plane tilted by a.
func tiltCos(a float64) float64 {
	return math.Cos(math.Asin(min(max(a, -1), 1)))
}
