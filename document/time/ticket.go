package time

import (
	"fmt"
	"math"
)

const (
	// MaxLamport is the maximum lamport value a Ticket can carry.
	MaxLamport = uint64(math.MaxUint64)
	// MaxDelimiter is the maximum delimiter value a Ticket can carry.
	MaxDelimiter = uint32(math.MaxUint32)
)

// Ticket is a timestamp of the logical clock. A Ticket totally orders
// edits across actors: first by lamport, then by actor, then by delimiter.
// Ticket is immutable.
type Ticket struct {
	lamport   uint64
	delimiter uint32
	actorID   ActorID
}

// NewTicket creates a Ticket with the given components.
func NewTicket(lamport uint64, delimiter uint32, actorID ActorID) Ticket {
	return Ticket{
		lamport:   lamport,
		delimiter: delimiter,
		actorID:   actorID,
	}
}

// MaxTicket is greater than or equal to every other ticket.
var MaxTicket = NewTicket(MaxLamport, MaxDelimiter, maxActorID())

func maxActorID() ActorID {
	var id ActorID
	for i := range id.bytes {
		id.bytes[i] = 0xff
	}
	return id
}

// AnnotatedString returns "lamport:delimiter:actor" for debugging.
func (t Ticket) AnnotatedString() string {
	return fmt.Sprintf("%d:%d:%s", t.lamport, t.delimiter, t.actorID)
}

// Key returns the string form of this Ticket, usable as a map key.
func (t Ticket) Key() string {
	return t.AnnotatedString()
}

// Lamport returns the lamport component.
func (t Ticket) Lamport() uint64 {
	return t.lamport
}

// Delimiter returns the delimiter component.
func (t Ticket) Delimiter() uint32 {
	return t.delimiter
}

// ActorID returns the actor component.
func (t Ticket) ActorID() ActorID {
	return t.actorID
}

// Compare orders two Tickets: lamport first, then actor, then delimiter.
// It returns -1, 0 or 1.
func (t Ticket) Compare(other Ticket) int {
	if t.lamport != other.lamport {
		if t.lamport < other.lamport {
			return -1
		}
		return 1
	}

	if c := t.actorID.Compare(other.actorID); c != 0 {
		return c
	}

	if t.delimiter != other.delimiter {
		if t.delimiter < other.delimiter {
			return -1
		}
		return 1
	}

	return 0
}

// After reports whether this ticket was created strictly later than other.
func (t Ticket) After(other Ticket) bool {
	return t.Compare(other) > 0
}
