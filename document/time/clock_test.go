package time

import "testing"

// TestClock_Tick verifies that successive ticks issue strictly increasing
// tickets within a change.
func TestClock_Tick(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")
	clock := NewClock(actor)

	first := clock.Tick()
	second := clock.Tick()

	if !second.After(first) {
		t.Errorf("second tick %s does not order after first %s", second.Key(), first.Key())
	}
	if first.Lamport() != second.Lamport() {
		t.Errorf("ticks within one change differ in lamport: %d vs %d", first.Lamport(), second.Lamport())
	}
}

// TestClock_NextLamport verifies that a new change bumps lamport and
// resets the delimiter.
func TestClock_NextLamport(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")
	clock := NewClock(actor)

	last := clock.Tick()
	clock.NextLamport()
	next := clock.Tick()

	if next.Lamport() != last.Lamport()+1 {
		t.Errorf("Lamport() = %d, want %d", next.Lamport(), last.Lamport()+1)
	}
	if next.Delimiter() != 1 {
		t.Errorf("Delimiter() = %d, want 1", next.Delimiter())
	}
	if !next.After(last) {
		t.Errorf("ticket %s does not order after %s", next.Key(), last.Key())
	}
}

// TestClock_Sync verifies that observing a remote lamport advances the
// clock but never rewinds it.
func TestClock_Sync(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")
	clock := NewClock(actor)

	clock.Sync(10)
	if clock.Lamport() != 10 {
		t.Errorf("Lamport() = %d, want 10", clock.Lamport())
	}

	clock.Sync(3)
	if clock.Lamport() != 10 {
		t.Errorf("Lamport() after stale sync = %d, want 10", clock.Lamport())
	}

	ticket := clock.Tick()
	if ticket.Lamport() != 10 {
		t.Errorf("ticket lamport = %d, want 10", ticket.Lamport())
	}
}

// TestClock_SetActor verifies rebinding the issuing actor.
func TestClock_SetActor(t *testing.T) {
	clock := NewClock(InitialActorID)
	actor := mustActorID(t, "0123456789abcdef01234567")

	clock.SetActor(actor)
	if clock.Actor() != actor {
		t.Errorf("Actor() = %v, want %v", clock.Actor(), actor)
	}
	if got := clock.Tick().ActorID(); got != actor {
		t.Errorf("ticket actor = %v, want %v", got, actor)
	}
}
