package proximity

// Session is one contiguous interval during which a car stayed within
// communication range of a bus.
type Session struct {
	EnterTime float64

	// ExitTime and StayTime are nil while the session is open
	ExitTime *float64
	StayTime *float64
}

func (s *Session) IsOpen() bool {
	return s.ExitTime == nil
}

func (s *Session) close(t float64) {
	exit := t
	stay := t - s.EnterTime

	s.ExitTime = &exit
	s.StayTime = &stay
}

// PairHistory is the append-only list of sessions for one (car, bus) pair.
// Only the last session may be open and the open flag is kept explicitly so
// a second open session can never be appended.
type PairHistory struct {
	Sessions []*Session

	open bool
}

func (h *PairHistory) IsOpen() bool {
	return h.open
}

// Current returns the open session, or nil when the pair is not in contact
func (h *PairHistory) Current() *Session {
	if !h.open {
		return nil
	}

	return h.Sessions[len(h.Sessions)-1]
}

// enter opens a new session at t. It is a no-op when a session is already open.
func (h *PairHistory) enter(t float64) bool {
	if h.open {
		return false
	}

	h.Sessions = append(h.Sessions, &Session{EnterTime: t})
	h.open = true

	return true
}

// exit closes the open session at t. It is a no-op when nothing is open.
func (h *PairHistory) exit(t float64) bool {
	if !h.open {
		return false
	}

	h.Sessions[len(h.Sessions)-1].close(t)
	h.open = false

	return true
}
