package game

import "time"

// timerHandle identifies one armed countdown. The expiry callback compares
// its own handle against session.activeTimer under the session lock, so a
// handle that was cancelled or replaced can never resolve a round. Stop is
// best-effort; identity comparison is what guarantees at-most-once firing.
type timerHandle struct {
	timer *time.Timer
}

func (h *timerHandle) stop() {
	if h != nil && h.timer != nil {
		h.timer.Stop()
	}
}

// cancelTimerLocked drops the outstanding countdown, if any. Callers must
// hold s.mu; competing operations invoke this before any other mutation.
func (s *Session) cancelTimerLocked() {
	if s.activeTimer != nil {
		s.activeTimer.stop()
		s.activeTimer = nil
	}
}

// armTimerLocked schedules the round countdown, replacing any previous one.
// A non-positive time limit disables the countdown entirely.
func (s *Session) armTimerLocked() {
	s.cancelTimerLocked()
	if s.config.TimeLimitSeconds <= 0 {
		return
	}
	h := &timerHandle{}
	h.timer = time.AfterFunc(time.Duration(s.config.TimeLimitSeconds)*s.timeUnit, func() {
		s.expire(h)
	})
	s.activeTimer = h
}
