package log

import "sync"

// CollectingLogger keeps events in memory.
type CollectingLogger struct {
	mu     sync.Mutex
	events []Event
}

// NewCollectingLogger creates an empty CollectingLogger.
func NewCollectingLogger() *CollectingLogger {
	return &CollectingLogger{}
}

// Log appends the event.
func (c *CollectingLogger) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (c *CollectingLogger) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns how many recorded events have the given severity.
func (c *CollectingLogger) Count(severity Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

// Compile-time interface satisfaction check.
var _ Logger = (*CollectingLogger)(nil)
