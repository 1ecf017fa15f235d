package notify

import (
	"fmt"
	"testing"
	"time"
)

func TestCenterTTLExpiry(t *testing.T) {
	c := NewCenter(10*time.Millisecond, 50*time.Millisecond, 16, nil)

	c.Warn("check the symbol")
	c.Error("fetch failed")

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("got %d active, want 2", len(active))
	}

	time.Sleep(20 * time.Millisecond)
	active = c.Active()
	if len(active) != 1 {
		t.Fatalf("got %d active after warning TTL, want 1", len(active))
	}
	if active[0].Severity != SeverityError {
		t.Fatalf("surviving severity = %s", active[0].Severity)
	}

	time.Sleep(40 * time.Millisecond)
	if got := c.Active(); len(got) != 0 {
		t.Fatalf("got %d active after error TTL, want 0", len(got))
	}
}

func TestCenterBoundedPending(t *testing.T) {
	c := NewCenter(time.Minute, time.Minute, 3, nil)
	for i := 0; i < 10; i++ {
		c.Error(fmt.Sprintf("e%d", i))
	}
	active := c.Active()
	if len(active) != 3 {
		t.Fatalf("got %d pending, want 3", len(active))
	}
	// Oldest dropped first: the survivors are the three newest.
	if active[0].ID != 8 || active[2].ID != 10 {
		t.Fatalf("unexpected ids %d..%d", active[0].ID, active[2].ID)
	}
}

func TestCenterDedupesIdenticalPending(t *testing.T) {
	c := NewCenter(20*time.Millisecond, time.Minute, 16, nil)

	first := c.Warn("invalid symbol")
	second := c.Warn("invalid symbol")
	if second.ID != first.ID {
		t.Fatalf("duplicate warning got new id %d, want %d", second.ID, first.ID)
	}
	if got := c.Active(); len(got) != 1 {
		t.Fatalf("got %d pending, want 1", len(got))
	}

	// Same message with a different severity is a distinct notification.
	if n := c.Error("invalid symbol"); n.ID == first.ID {
		t.Fatal("error deduped against pending warning")
	}

	// Once the pending warning expires, the message surfaces again.
	time.Sleep(30 * time.Millisecond)
	if n := c.Warn("invalid symbol"); n.ID == first.ID {
		t.Fatal("expired warning still deduped")
	}
}

func TestCenterMonotonicIDs(t *testing.T) {
	c := NewCenter(time.Minute, time.Minute, 16, nil)
	a := c.Warn("a")
	b := c.Error("b")
	if b.ID <= a.ID {
		t.Fatalf("ids not monotonic: %d then %d", a.ID, b.ID)
	}
}
