package maze

// maxAnimTime is the duration of a key/goal animation in simulated seconds.
const maxAnimTime = 0.3

type AnimationStage int

const (
	AnimationNone AnimationStage = iota
	AnimationPlaying
	AnimationFinished
)

func (s AnimationStage) String() string {
	switch s {
	case AnimationNone:
		return "none"
	case AnimationPlaying:
		return "playing"
	case AnimationFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Animation tracks one key or the goal marker. Stages only move forward:
// NONE -> PLAYING -> FINISHED.
type Animation struct {
	Time     float64
	Progress float64
	Stage    AnimationStage
	Played   bool
}

func (a *Animation) Reset() {
	*a = Animation{}
}

func (a *Animation) Start() {
	if a.Stage == AnimationNone {
		a.Stage = AnimationPlaying
	}
}

// Update advances a playing animation by dt seconds. Once the full duration
// has elapsed progress saturates at 1 and the next Update finishes it.
func (a *Animation) Update(dt float64) {
	if a.Stage != AnimationPlaying {
		return
	}
	if a.Played {
		a.Stage = AnimationFinished
		return
	}
	a.Time += dt
	if a.Time >= maxAnimTime {
		a.Time = maxAnimTime
		a.Played = true
	}
	a.Progress = a.Time / maxAnimTime
}
