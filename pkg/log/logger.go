package log

// Logger is the interface callers implement to receive diagnostics events.
// Pass nil or NoopLogger to disable diagnostics.
type Logger interface {
	// Log records a diagnostics event. Implementations must be thread-safe;
	// batch extraction logs from several goroutines.
	Log(event Event)
}

// NoopLogger discards all events. Use when diagnostics are disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
