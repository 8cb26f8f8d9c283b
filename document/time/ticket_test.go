package time

import (
	"fmt"
	"testing"
)

func mustActorID(t *testing.T, hexStr string) ActorID {
	t.Helper()
	id, err := ActorIDFromHex(hexStr)
	if err != nil {
		t.Fatalf("ActorIDFromHex(%q) error = %v", hexStr, err)
	}
	return id
}

// TestTicket_AnnotatedString verifies the lamport:delimiter:actor format.
func TestTicket_AnnotatedString(t *testing.T) {
	hexStr := "0123456789abcdef01234567"
	ticket := NewTicket(0, 0, mustActorID(t, hexStr))

	want := fmt.Sprintf("0:0:%s", hexStr)
	if ticket.AnnotatedString() != want {
		t.Errorf("AnnotatedString() = %q, want %q", ticket.AnnotatedString(), want)
	}
	if ticket.Key() != want {
		t.Errorf("Key() = %q, want %q", ticket.Key(), want)
	}
}

// TestTicket_Compare verifies the lamport, actor, delimiter ordering.
func TestTicket_Compare(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")

	// lamport decides first.
	before := NewTicket(0, 0, actor)
	after := NewTicket(1, 0, actor)
	if got := before.Compare(after); got != -1 {
		t.Errorf("lamport: before.Compare(after) = %d, want -1", got)
	}
	if got := after.Compare(before); got != 1 {
		t.Errorf("lamport: after.Compare(before) = %d, want 1", got)
	}
	if got := after.Compare(after); got != 0 {
		t.Errorf("lamport: after.Compare(after) = %d, want 0", got)
	}

	// actor breaks lamport ties.
	beforeActor := mustActorID(t, "0000000000abcdef01234567")
	before = NewTicket(0, 0, beforeActor)
	after = NewTicket(0, 0, actor)
	if got := before.Compare(after); got != -1 {
		t.Errorf("actor: before.Compare(after) = %d, want -1", got)
	}
	if got := after.Compare(before); got != 1 {
		t.Errorf("actor: after.Compare(before) = %d, want 1", got)
	}

	// delimiter breaks lamport and actor ties.
	before = NewTicket(0, 0, actor)
	after = NewTicket(0, 1, actor)
	if got := before.Compare(after); got != -1 {
		t.Errorf("delimiter: before.Compare(after) = %d, want -1", got)
	}
	if got := after.Compare(before); got != 1 {
		t.Errorf("delimiter: after.Compare(before) = %d, want 1", got)
	}
}

// TestTicket_After verifies that After means strictly greater.
func TestTicket_After(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")
	before := NewTicket(0, 0, actor)
	after := NewTicket(1, 0, actor)

	if before.After(after) {
		t.Error("before.After(after) = true, want false")
	}
	if !after.After(before) {
		t.Error("after.After(before) = false, want true")
	}
	if before.After(before) {
		t.Error("before.After(before) = true, want false")
	}
}

// TestMaxTicket verifies that MaxTicket orders after ordinary tickets.
func TestMaxTicket(t *testing.T) {
	actor := mustActorID(t, "0123456789abcdef01234567")
	ticket := NewTicket(42, 7, actor)

	if !MaxTicket.After(ticket) {
		t.Error("MaxTicket.After(ticket) = false, want true")
	}
}
