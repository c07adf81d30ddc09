package maze

// testBump inspects the final ball position of a step. At most one trigger
// fires, in order: fall progress, goal, traps, keys.
func (s *Session) testBump(x, y float64) {
	lvl := s.levels[s.cur]

	if s.fall.active {
		if !s.fall.fixed && inBoxR(x, y, s.fall.hole, s.cfg.HoleR-s.cfg.BallR) {
			s.world.sealHole(s.fall.hole)
			s.fall.fixed = true
			s.log.Debug("hole sealed", "x", s.fall.hole.X, "y", s.fall.hole.Y)
		}
		return
	}

	goal := lvl.Goal()
	if distTo(x, y, goal) <= float64(s.cfg.HoleR) {
		result := StateSaved
		if s.keysPassed == len(lvl.Keys) {
			result = StateWin
		}
		s.startFall(goal, result)
		return
	}

	for _, hole := range lvl.Holes {
		if inBoxR(x, y, hole, s.cfg.HoleR+1) && distTo(x, y, hole) <= float64(s.cfg.HoleR) {
			s.startFall(hole, StateFailed)
			return
		}
	}

	for i, key := range lvl.Keys {
		if s.keyAnims[i].Stage != AnimationNone {
			continue
		}
		if inBoxR(x, y, key, s.cfg.KeyR+1) && distTo(x, y, key) <= float64(s.cfg.KeyR) {
			s.keyAnims[i].Start()
			s.keysPassed++
			s.saveKey = i
			s.log.Debug("key collected", "key", i, "passed", s.keysPassed, "total", len(lvl.Keys))
			if s.keysPassed == len(lvl.Keys) {
				s.goalAnim.Start()
			}
			return
		}
	}
}

func (s *Session) startFall(hole Point, result GameState) {
	s.fall = fallState{active: true, hole: hole, pending: result}
	s.world.beginFall(hole)
	s.log.Debug("falling", "x", hole.X, "y", hole.Y, "pending", result)
}
