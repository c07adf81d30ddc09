package maze

const (
	// stepQuant is the simulated time per host tick (millisecond).
	stepQuant     = 0.013 / 30.0
	maxStepQuanta = 250
	substeps      = 3
)

// physStep converts a wall-clock delta into the sub-step length. The clamp
// bounds the simulated time per call after a stall.
func physStep(deltaTicks int) float64 {
	dt := stepQuant * float64(deltaTicks)
	return min(max(dt, stepQuant), stepQuant*maxStepQuanta)
}
