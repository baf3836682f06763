package vision

import "testing"

func TestSlotSingleOutstanding(t *testing.T) {
	var s Slot

	seq, err := s.Acquire("alice")
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	if _, err := s.Acquire("bob"); KindOf(err) != KindBusy {
		t.Errorf("second Acquire() error = %v, want busy", err)
	}
	if !s.Busy() || s.Target() != "alice" {
		t.Errorf("Busy() = %v, Target() = %q", s.Busy(), s.Target())
	}

	target, ok := s.Release(seq)
	if !ok || target != "alice" {
		t.Errorf("Release() = %q, %v", target, ok)
	}
	if s.Busy() {
		t.Error("slot should be free after Release")
	}
}

func TestSlotDropsStaleAnswers(t *testing.T) {
	var s Slot

	old, _ := s.Acquire("alice")
	s.Cancel()
	if _, ok := s.Release(old); ok {
		t.Error("cancelled request should not release")
	}

	cur, _ := s.Acquire("bob")
	if _, ok := s.Release(old); ok {
		t.Error("stale sequence released the slot")
	}
	if target, ok := s.Release(cur); !ok || target != "bob" {
		t.Errorf("Release(cur) = %q, %v", target, ok)
	}
}
