package maze

// GameState is the outcome reported by Step.
type GameState int

const (
	StateNormal GameState = iota
	StateFailed
	StateWin
	StateSaved
)

func (s GameState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateFailed:
		return "failed"
	case StateWin:
		return "win"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}
