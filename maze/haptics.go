package maze

// HapticSink receives positive bump intensities from ball impacts.
// Mapping the raw value onto a device level is up to the sink.
type HapticSink interface {
	Bump(intensity float64)
}

// SetVibroCallback registers fn as the impact target. A nil fn disables
// impact reporting.
func (s *Session) SetVibroCallback(fn func(float64)) {
	s.vibro = fn
	if s.world != nil {
		s.world.bump = fn
	}
}

func (s *Session) SetHaptics(sink HapticSink) {
	if sink == nil {
		s.SetVibroCallback(nil)
		return
	}
	s.SetVibroCallback(sink.Bump)
}
