// Package commands implements the atdf-diag CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/chipdesc/atdf-go/pkg/log"
)

// RunView prints every event matching filter in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] SEVERITY STAGE
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%s] %-7s %s\n", ts, shortenSessionID(event.SessionID), event.Severity, event.Stage)

	if loc := event.Location(); loc != "" {
		fmt.Fprintf(w, "  At: %s\n", loc)
	}
	if event.Attribute != "" {
		fmt.Fprintf(w, "  Attribute: %s\n", event.Attribute)
	}
	if event.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", event.Kind)
	}
	fmt.Fprintf(w, "  %s\n", event.Message)

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
