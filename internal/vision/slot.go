package vision

// Slot tracks the single outstanding scan. A late answer carries a stale
// sequence number and is dropped by Release.
//
// Slot is not safe for concurrent use; it lives inside the UI model, which
// handles one message at a time.
type Slot struct {
	busy   bool
	target string
	seq    uint64
}

// Acquire claims the slot for target and returns the request's sequence.
func (s *Slot) Acquire(target string) (uint64, error) {
	if s.busy {
		return 0, &Error{Kind: KindBusy, Err: ErrBusy}
	}
	s.seq++
	s.busy = true
	s.target = target
	return s.seq, nil
}

// Release frees the slot if seq is the outstanding request and returns the
// target it was claimed for.
func (s *Slot) Release(seq uint64) (string, bool) {
	if !s.busy || seq != s.seq {
		return "", false
	}
	target := s.target
	s.busy = false
	s.target = ""
	return target, true
}

// Cancel abandons the outstanding request; its answer will be ignored.
func (s *Slot) Cancel() {
	if s.busy {
		s.seq++
	}
	s.busy = false
	s.target = ""
}

// Busy reports whether a scan is outstanding.
func (s *Slot) Busy() bool {
	return s.busy
}

// Target returns the player the outstanding scan is for.
func (s *Slot) Target() string {
	return s.target
}
