package time

import "sync"

// Clock issues tickets for local edits of a single actor. The lamport
// component advances once per change via NextLamport or when a remote
// lamport is observed via Sync; the delimiter distinguishes operations
// within the same change. Safe for concurrent use.
type Clock struct {
	mu        sync.Mutex
	lamport   uint64
	delimiter uint32
	actor     ActorID
}

// NewClock creates a Clock for the given actor starting at lamport zero.
func NewClock(actor ActorID) *Clock {
	return &Clock{actor: actor}
}

// Tick issues the next ticket within the current change.
func (c *Clock) Tick() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delimiter++
	return NewTicket(c.lamport, c.delimiter, c.actor)
}

// NextLamport advances the lamport clock to start a new change and resets
// the delimiter.
func (c *Clock) NextLamport() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lamport++
	c.delimiter = 0
}

// Sync advances the lamport clock to at least the given remote lamport so
// that subsequently issued tickets order after remote edits.
func (c *Clock) Sync(lamport uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lamport > c.lamport {
		c.lamport = lamport
		c.delimiter = 0
	}
}

// Lamport returns the current lamport value.
func (c *Clock) Lamport() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lamport
}

// SetActor rebinds the clock to a new actor. Called once the server
// assigns the real actor id on activation.
func (c *Clock) SetActor(actor ActorID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = actor
}

// Actor returns the actor this clock issues tickets for.
func (c *Clock) Actor() ActorID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}
