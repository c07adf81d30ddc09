package maze

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{WindowW: 480, WindowH: 640, BallR: 10, HoleR: 20, KeyR: 12, Shadow: 4}

func newTestSession(t *testing.T, levels ...Level) *Session {
	t.Helper()
	s := NewSession()
	s.SetLevelsData(levels)
	require.NoError(t, s.SetConfig(testConfig))
	require.NoError(t, s.SetLevel(0))
	return s
}

// runUntilResult steps until a non-normal state shows up or the budget runs out.
func runUntilResult(s *Session, budget int) GameState {
	for i := 0; i < budget; i++ {
		if st := s.Step(16); st != StateNormal {
			return st
		}
	}
	return StateNormal
}

func TestStationaryBallStaysNormal(t *testing.T) {
	s := newTestSession(t, Level{
		Checkpoints: []Point{{X: 100, Y: 100}},
		Start:       Point{X: 100, Y: 300},
	})

	for i := 0; i < 500; i++ {
		require.Equal(t, StateNormal, s.Step(16), "step %d", i)
	}

	p := s.BallPose()
	assert.InDelta(t, 100, p.X, 1e-6)
	assert.InDelta(t, 300, p.Y, 1e-6)
	assert.InDelta(t, float64(testConfig.BallR), p.Z, 1e-6)
	assert.False(t, s.Falling())
}

func TestTrapFailsExactlyOnce(t *testing.T) {
	s := newTestSession(t, Level{
		Holes:       []Point{{X: 200, Y: 200}},
		Checkpoints: []Point{{X: 100, Y: 500}},
		Start:       Point{X: 200, Y: 200},
	})

	require.Equal(t, StateNormal, s.Step(16))
	require.True(t, s.Falling())

	failures := 0
	for i := 0; i < 300; i++ {
		switch st := s.Step(16); st {
		case StateFailed:
			failures++
		case StateNormal:
		default:
			t.Fatalf("unexpected state %v at step %d", st, i)
		}
	}
	assert.Equal(t, 1, failures)
	assert.LessOrEqual(t, s.BallPose().Z, -0.75*float64(testConfig.BallR))
}

func keyLevel() Level {
	return Level{
		Checkpoints: []Point{{X: 100, Y: 100}},
		Keys:        []Point{{X: 300, Y: 200}, {X: 300, Y: 400}},
		Start:       Point{X: 100, Y: 540},
	}
}

func TestGoalResult(t *testing.T) {
	tests := []struct {
		name    string
		collect []int
		want    GameState
	}{
		{name: "none collected", want: StateSaved},
		{name: "one of two", collect: []int{0}, want: StateSaved},
		{name: "both collected", collect: []int{0, 1}, want: StateWin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, keyLevel())
			lvl := s.CurrentLevel()

			for n, k := range tc.collect {
				key := lvl.Keys[k]
				s.world.placeBall(float64(key.X), float64(key.Y))
				require.Equal(t, StateNormal, s.Step(16))
				require.Equal(t, n+1, s.KeysPassed())
			}

			keys, goal := s.Animations()
			if len(tc.collect) == len(lvl.Keys) {
				assert.True(t, s.AllKeysCollected())
				assert.NotEqual(t, AnimationNone, goal.Stage)
			} else {
				assert.False(t, s.AllKeysCollected())
				assert.Equal(t, AnimationNone, goal.Stage)
			}
			for _, k := range tc.collect {
				assert.NotEqual(t, AnimationNone, keys[k].Stage)
			}

			g := lvl.Goal()
			s.world.placeBall(float64(g.X), float64(g.Y))
			assert.Equal(t, tc.want, runUntilResult(s, 300))
		})
	}
}

func TestReloadRespawnsOnLastKey(t *testing.T) {
	s := newTestSession(t, keyLevel())
	key := s.CurrentLevel().Keys[0]

	s.world.placeBall(float64(key.X), float64(key.Y))
	require.Equal(t, StateNormal, s.Step(16))
	require.Equal(t, 1, s.KeysPassed())

	s.ReloadLevel()
	p := s.BallPose()
	assert.InDelta(t, float64(key.X), p.X, 1e-6)
	assert.InDelta(t, float64(key.Y), p.Y, 1e-6)
	assert.Equal(t, 1, s.KeysPassed())
	assert.False(t, s.Falling())

	// sitting on an already collected key does not count it again
	for i := 0; i < 10; i++ {
		s.Step(16)
	}
	assert.Equal(t, 1, s.KeysPassed())

	s.RestartLevel()
	p = s.BallPose()
	assert.InDelta(t, 100, p.X, 1e-6)
	assert.InDelta(t, 540, p.Y, 1e-6)
	assert.Equal(t, 0, s.KeysPassed())
	keys, _ := s.Animations()
	for _, k := range keys {
		assert.Equal(t, AnimationNone, k.Stage)
	}
}

func TestGoalBeatsTrap(t *testing.T) {
	s := newTestSession(t, Level{
		Holes:       []Point{{X: 210, Y: 200}},
		Checkpoints: []Point{{X: 200, Y: 200}},
		Start:       Point{X: 100, Y: 500},
	})

	s.world.placeBall(205, 200)
	require.Equal(t, StateNormal, s.Step(16))
	require.True(t, s.Falling())
	assert.Equal(t, StateWin, runUntilResult(s, 300))
}

func TestDeterminism(t *testing.T) {
	lvl := Level{
		Boxes: []Box{
			{X1: 150, Y1: 250, X2: 330, Y2: 270},
			{X1: 50, Y1: 420, X2: 60, Y2: 600},
		},
		Holes:       []Point{{X: 400, Y: 560}},
		Checkpoints: []Point{{X: 60, Y: 60}},
		Keys:        []Point{{X: 240, Y: 400}},
		Start:       Point{X: 240, Y: 320},
	}

	type frame struct {
		state GameState
		pose  Pose
		keys  []Animation
		goal  Animation
	}
	run := func() []frame {
		s := newTestSession(t, lvl)
		rng := rand.New(rand.NewSource(7))
		var out []frame
		for i := 0; i < 400; i++ {
			s.SetForces(rng.Float64()*0.6-0.3, rng.Float64()*0.6-0.3, 0)
			st := s.Step(10 + rng.Intn(20))
			keys, goal := s.Animations()
			out = append(out, frame{state: st, pose: s.BallPose(), keys: keys, goal: goal})
			if st == StateFailed {
				s.RestartLevel()
			}
		}
		return out
	}

	a, b := run(), run()
	require.Len(t, b, len(a))
	for i := range a {
		require.Equal(t, a[i].state, b[i].state, "frame %d", i)
		require.Equal(t, a[i].keys, b[i].keys, "frame %d", i)
		require.Equal(t, a[i].goal, b[i].goal, "frame %d", i)
		require.InDelta(t, a[i].pose.X, b[i].pose.X, 1e-9, "frame %d", i)
		require.InDelta(t, a[i].pose.Y, b[i].pose.Y, 1e-9, "frame %d", i)
	}
}

func TestKeysMonotonicAndGoalGated(t *testing.T) {
	lvl := Level{
		Checkpoints: []Point{{X: 440, Y: 600}},
		Keys:        []Point{{X: 200, Y: 300}, {X: 260, Y: 300}, {X: 320, Y: 300}},
		Start:       Point{X: 140, Y: 300},
	}

	for seed := int64(1); seed <= 5; seed++ {
		s := newTestSession(t, lvl)
		rng := rand.New(rand.NewSource(seed))
		prev := 0
		for i := 0; i < 400; i++ {
			s.SetForces(rng.Float64()*0.5, rng.Float64()*0.2-0.1, 0)
			if st := s.Step(16); st != StateNormal {
				break
			}
			require.GreaterOrEqual(t, s.KeysPassed(), prev, "seed %d step %d", seed, i)
			prev = s.KeysPassed()

			_, goal := s.Animations()
			if s.KeysPassed() < len(lvl.Keys) {
				require.Equal(t, AnimationNone, goal.Stage, "seed %d step %d", seed, i)
			}
		}
	}
}

func TestNonFiniteStepRecovers(t *testing.T) {
	s := NewSession()
	s.SetLevelsData([]Level{{
		Checkpoints: []Point{{X: 60, Y: 60}},
		Start:       Point{X: 240, Y: 320},
	}})
	require.NoError(t, s.SetConfig(testConfig))

	frame := 0
	testHookSubstep = func(w *world, i int) {
		if i != 1 {
			return
		}
		switch frame {
		case 3:
			w.z = math.NaN()
		case 6:
			p := w.ball.Position()
			w.ball.SetPosition(cp.Vector{X: math.Inf(1), Y: p.Y})
		}
	}
	t.Cleanup(func() { testHookSubstep = nil })
	require.NoError(t, s.SetLevel(0))

	for ; frame < 30; frame++ {
		s.SetForces(0.5, -0.2, 0)
		require.Equal(t, StateNormal, s.Step(16))
		p := s.BallPose()
		require.True(t, finite(p.X) && finite(p.Y) && finite(p.Z), "frame %d: %+v", frame, p)
	}
	assert.Greater(t, s.BallPose().X, 240.0)
}

type recordingSink struct {
	bumps []float64
}

func (r *recordingSink) Bump(v float64) {
	r.bumps = append(r.bumps, v)
}

func TestWallImpactReachesSink(t *testing.T) {
	s := newTestSession(t, Level{
		Checkpoints: []Point{{X: 60, Y: 60}},
		Start:       Point{X: 440, Y: 320},
	})
	sink := &recordingSink{}
	s.SetHaptics(sink)

	s.SetForces(1, 0, 0)
	for i := 0; i < 120; i++ {
		require.Equal(t, StateNormal, s.Step(16))
	}

	require.NotEmpty(t, sink.bumps)
	for _, b := range sink.bumps {
		assert.Greater(t, b, 0.0)
	}
	assert.InDelta(t, 470, s.BallPose().X, 0.5)

	s.SetHaptics(nil)
	n := len(sink.bumps)
	s.SetForces(-1, 0, 0)
	for i := 0; i < 10; i++ {
		s.Step(16)
	}
	assert.Len(t, sink.bumps, n)
}

func TestSessionErrors(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateNormal, s.Step(16))
	assert.ErrorIs(t, s.SetLevel(0), ErrNoLevels)

	assert.ErrorIs(t, s.SetConfig(Config{WindowW: 480, WindowH: 640, BallR: 0, HoleR: 20, KeyR: 12}), ErrInvalidConfig)
	assert.ErrorIs(t, s.SetConfig(Config{WindowW: 15, WindowH: 640, BallR: 10, HoleR: 20, KeyR: 12}), ErrInvalidConfig)

	s.SetLevelsData([]Level{{Start: Point{X: 10, Y: 10}}})
	assert.ErrorIs(t, s.SetLevel(0), ErrInvalidConfig)

	require.NoError(t, s.SetConfig(testConfig))
	assert.ErrorIs(t, s.SetLevel(0), ErrInvalidLevel)
	assert.ErrorIs(t, s.SetLevel(1), ErrLevelOutOfRange)
	assert.ErrorIs(t, s.SetLevel(-1), ErrLevelOutOfRange)

	// no level was ever built, so these are no-ops
	s.RestartLevel()
	s.ReloadLevel()
	assert.Equal(t, StateNormal, s.Step(16))
	assert.Equal(t, identityQuat().mat3(), s.BallPose().Rotation)
}
