package maze

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f64"
)

// Pose is the ball position in pixels and its orientation as a row-major
// rotation matrix. Z is the height of the ball center above the table.
type Pose struct {
	X        float64
	Y        float64
	Z        float64
	Rotation f64.Mat3
}

type Option func(*Session)

// WithLogger routes session diagnostics to l. Sessions are silent by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session simulates one ball on one level at a time. It is not safe for
// concurrent use; the host drives it from a single goroutine.
type Session struct {
	log *log.Logger

	levels []Level
	cfg    Config
	cur    int

	world *world
	fall  fallState

	tiltX, tiltY, tiltZ float64

	keyAnims   []Animation
	goalAnim   Animation
	keysPassed int
	saveKey    int

	vibro func(float64)
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		log:     log.New(io.Discard),
		saveKey: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLevelsData hands the session a borrowed level list. The session keeps
// the slice and never mutates it.
func (s *Session) SetLevelsData(levels []Level) {
	s.levels = levels
}

func (s *Session) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// SetLevel selects level n, clears its progress and builds a fresh world.
func (s *Session) SetLevel(n int) error {
	if len(s.levels) == 0 {
		return ErrNoLevels
	}
	if n < 0 || n >= len(s.levels) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrLevelOutOfRange, n, len(s.levels))
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if err := s.levels[n].Validate(); err != nil {
		return fmt.Errorf("level %d: %w", n, err)
	}

	s.cur = n
	s.keyAnims = make([]Animation, len(s.levels[n].Keys))
	s.resetProgress()
	s.initLevel()
	s.log.Info("level started", "level", n, "keys", len(s.levels[n].Keys), "holes", len(s.levels[n].Holes))
	return nil
}

// RestartLevel starts the current level over, dropping collected keys.
func (s *Session) RestartLevel() {
	if s.world == nil {
		return
	}
	s.resetProgress()
	s.initLevel()
}

// ReloadLevel rebuilds the world but keeps collected keys, so the ball
// respawns on the most recently collected key.
func (s *Session) ReloadLevel() {
	if s.world == nil {
		return
	}
	s.initLevel()
}

func (s *Session) resetProgress() {
	for i := range s.keyAnims {
		s.keyAnims[i].Reset()
	}
	s.goalAnim.Reset()
	s.keysPassed = 0
	s.saveKey = -1
}

func (s *Session) initLevel() {
	s.world.destroy()

	lvl := s.levels[s.cur]
	spawn := lvl.Start
	if s.saveKey >= 0 {
		spawn = lvl.Keys[s.saveKey]
	}

	s.world = newWorld(s.cfg, lvl, spawn, s.log)
	s.world.bump = s.vibro
	s.fall = fallState{}
}

// SetForces stores the tilt vector applied on the next Step. z is accepted
// for symmetry with accelerometer input and is not used.
func (s *Session) SetForces(x, y, z float64) {
	s.tiltX, s.tiltY, s.tiltZ = x, y, z
}

// Step advances the simulation by deltaTicks milliseconds of host time.
// A finished fall reports its outcome exactly once; every other call
// returns StateNormal.
func (s *Session) Step(deltaTicks int) GameState {
	if s.world == nil {
		return StateNormal
	}

	dt := physStep(deltaTicks)
	s.world.step(dt, stepInput{
		tiltX:   s.tiltX,
		tiltY:   s.tiltY,
		falling: s.fall.active,
		hole:    s.fall.hole,
	})

	p := s.world.pose()
	s.testBump(p.X, p.Y)

	state := StateNormal
	if s.fall.active && !s.fall.resolved && s.world.settled() {
		s.fall.resolved = true
		state = s.fall.pending
		s.log.Debug("fall resolved", "state", state)
	}

	s.updateAnims(dt)
	return state
}

func (s *Session) updateAnims(dt float64) {
	for i := range s.keyAnims {
		s.keyAnims[i].Update(dt)
	}
	if s.AllKeysCollected() {
		s.goalAnim.Update(dt)
	}
}

func (s *Session) BallPose() Pose {
	if s.world == nil {
		return Pose{Rotation: identityQuat().mat3()}
	}
	return s.world.pose()
}

// Animations returns copies of the key animations and the goal animation.
func (s *Session) Animations() ([]Animation, Animation) {
	keys := make([]Animation, len(s.keyAnims))
	copy(keys, s.keyAnims)
	return keys, s.goalAnim
}

// AllKeysCollected reports whether the level has keys and every one of them
// has been picked up.
func (s *Session) AllKeysCollected() bool {
	return len(s.keyAnims) > 0 && s.keysPassed == len(s.keyAnims)
}

func (s *Session) Level() int {
	return s.cur
}

func (s *Session) LevelCount() int {
	return len(s.levels)
}

func (s *Session) KeysPassed() int {
	return s.keysPassed
}

func (s *Session) Falling() bool {
	return s.fall.active
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) CurrentLevel() Level {
	if s.cur >= len(s.levels) {
		return Level{}
	}
	return s.levels[s.cur]
}
