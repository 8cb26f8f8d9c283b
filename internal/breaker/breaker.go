// Package breaker implements a small circuit breaker guarding the RPC
// path: after repeated failures calls fail fast until a cooldown elapses,
// then probe calls decide whether to close the circuit again.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit rejects a call without running it.
var ErrOpen = errors.New("circuit breaker open")

// State of the circuit.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker is safe for concurrent use.
type Breaker struct {
	mu sync.Mutex

	state       State
	failures    int
	probes      int
	openedAt    time.Time
	maxFailures int
	probeQuota  int
	cooldown    time.Duration

	onStateChange func(from, to State)
}

// Config holds Breaker parameters. Zero values pick the defaults: open
// after 5 failures, close after 2 successful probes, 30s cooldown.
type Config struct {
	MaxFailures   int
	ProbeQuota    int
	Cooldown      time.Duration
	OnStateChange func(from, to State)
}

// New creates a Breaker in the closed state.
func New(cfg Config) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ProbeQuota <= 0 {
		cfg.ProbeQuota = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		state:         StateClosed,
		maxFailures:   cfg.MaxFailures,
		probeQuota:    cfg.ProbeQuota,
		cooldown:      cfg.Cooldown,
		onStateChange: cfg.OnStateChange,
	}
}

// Do runs fn unless the circuit is open and still cooling down, in which
// case it returns ErrOpen. fn's error feeds the failure accounting.
func (b *Breaker) Do(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}
	if time.Since(b.openedAt) < b.cooldown {
		return ErrOpen
	}

	b.transition(StateHalfOpen)
	b.probes = 0
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.openedAt = time.Now()
		if b.state == StateHalfOpen || b.failures >= b.maxFailures {
			b.transition(StateOpen)
			b.failures = 0
		}
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.probes++
		if b.probes >= b.probeQuota {
			b.transition(StateClosed)
			b.probes = 0
		}
	}
}

// transition must be called with b.mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onStateChange != nil {
		// Callbacks only read state labels; keeping the lock here keeps
		// transitions ordered for them.
		b.onStateChange(from, to)
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
