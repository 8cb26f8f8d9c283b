package breaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

// TestBreaker_OpensAfterMaxFailures verifies the closed-to-open transition
// and fail-fast behavior while open.
func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	b := New(Config{MaxFailures: 3, Cooldown: time.Hour})

	for i := 0; i < 3; i++ {
		if err := b.Do(func() error { return errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("Do() error = %v, want errBoom", err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	called := false
	err := b.Do(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Do() while open error = %v, want ErrOpen", err)
	}
	if called {
		t.Error("Do() while open ran fn, want fail-fast")
	}
}

// TestBreaker_ClosesAfterProbes verifies recovery through the half-open
// state once the cooldown elapses.
func TestBreaker_ClosesAfterProbes(t *testing.T) {
	b := New(Config{MaxFailures: 1, ProbeQuota: 2, Cooldown: time.Millisecond})

	if err := b.Do(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("Do() error = %v, want errBoom", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	time.Sleep(5 * time.Millisecond)

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe Do() error = %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("State() after one probe = %v, want half_open", b.State())
	}
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe Do() error = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("State() after probes = %v, want closed", b.State())
	}
}

// TestBreaker_ReopensOnProbeFailure verifies that a failed probe reopens
// the circuit immediately.
func TestBreaker_ReopensOnProbeFailure(t *testing.T) {
	b := New(Config{MaxFailures: 1, Cooldown: time.Millisecond})

	_ = b.Do(func() error { return errBoom })
	time.Sleep(5 * time.Millisecond)

	if err := b.Do(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("probe Do() error = %v, want errBoom", err)
	}
	if b.State() != StateOpen {
		t.Errorf("State() = %v, want open", b.State())
	}
}

// TestBreaker_StateChangeCallback verifies transition notifications.
func TestBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	b := New(Config{
		MaxFailures: 1,
		Cooldown:    time.Hour,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})

	_ = b.Do(func() error { return errBoom })

	if len(transitions) != 1 || transitions[0] != "closed>open" {
		t.Errorf("transitions = %v, want [closed>open]", transitions)
	}
}
