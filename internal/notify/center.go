// Package notify holds transient user-facing notifications: auto-dismissing
// warnings and errors surfaced next to the dashboard views, never blocking
// the pipeline.
package notify

import (
	"sync"
	"time"
)

// Severity of a notification; it decides the auto-dismiss TTL.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one transient message.
type Notification struct {
	ID        int64     `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Center collects pending notifications and broadcasts them to subscribers.
// Expired entries are dropped on read; the pending list is bounded, oldest
// first out. Publishing a message identical to a still-pending one returns
// the pending entry instead of stacking a duplicate.
type Center struct {
	mu         sync.Mutex
	pending    []Notification
	nextID     int64
	maxPending int
	warnTTL    time.Duration
	errTTL     time.Duration
	hub        *Hub
}

// NewCenter creates a notification center. The hub may be nil when no
// push channel is wired.
func NewCenter(warnTTL, errTTL time.Duration, maxPending int, hub *Hub) *Center {
	return &Center{
		maxPending: maxPending,
		warnTTL:    warnTTL,
		errTTL:     errTTL,
		hub:        hub,
	}
}

// Warn publishes a warning notification (short TTL, user-correctable input).
func (c *Center) Warn(message string) Notification {
	return c.push(SeverityWarning, message, c.warnTTL)
}

// Error publishes an error notification.
func (c *Center) Error(message string) Notification {
	return c.push(SeverityError, message, c.errTTL)
}

func (c *Center) push(sev Severity, message string, ttl time.Duration) Notification {
	now := time.Now()

	c.mu.Lock()
	for _, p := range c.pending {
		if p.Severity == sev && p.Message == message && p.ExpiresAt.After(now) {
			c.mu.Unlock()
			return p
		}
	}
	c.nextID++
	n := Notification{
		ID:        c.nextID,
		Severity:  sev,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.pending = append(c.pending, n)
	if len(c.pending) > c.maxPending {
		c.pending = c.pending[len(c.pending)-c.maxPending:]
	}
	c.mu.Unlock()

	if c.hub != nil {
		c.hub.Broadcast(n)
	}
	return n
}

// Active returns the notifications that have not expired yet and prunes the
// rest.
func (c *Center) Active() []Notification {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.pending[:0]
	for _, n := range c.pending {
		if n.ExpiresAt.After(now) {
			live = append(live, n)
		}
	}
	c.pending = live

	out := make([]Notification, len(live))
	copy(out, live)
	return out
}
