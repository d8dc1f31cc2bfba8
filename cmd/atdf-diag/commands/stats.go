package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/chipdesc/atdf-go/pkg/log"
)

// Stats holds aggregate statistics about a diagnostics log.
type Stats struct {
	TotalEvents      int
	EventsBySeverity map[log.Severity]int
	EventsByStage    map[log.Stage]int
	ErrorsByKind     map[string]int
	EventsBySource   map[string]int
	Sessions         map[string]int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// CollectStats reads every event of the log file.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsBySeverity: make(map[log.Severity]int),
		EventsByStage:    make(map[log.Stage]int),
		ErrorsByKind:     make(map[string]int),
		EventsBySource:   make(map[string]int),
		Sessions:         make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsBySeverity[event.Severity]++
		stats.EventsByStage[event.Stage]++
		if event.Kind != "" {
			stats.ErrorsByKind[event.Kind]++
		}
		if event.Source != "" {
			stats.EventsBySource[event.Source]++
		}
		if event.SessionID != "" {
			stats.Sessions[event.SessionID]++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return nil
	}

	fmt.Fprintf(w, "Time range:   %s - %s\n",
		stats.TimeRange.Start.UTC().Format(time.RFC3339),
		stats.TimeRange.End.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))

	fmt.Fprintln(w, "\nBy severity:")
	for _, s := range []log.Severity{log.SeverityInfo, log.SeverityWarning, log.SeverityError} {
		if n := stats.EventsBySeverity[s]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", s, n)
		}
	}

	fmt.Fprintln(w, "\nBy stage:")
	for _, s := range []log.Stage{log.StageLoad, log.StageField, log.StageOutput} {
		if n := stats.EventsByStage[s]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", s, n)
		}
	}

	if len(stats.ErrorsByKind) > 0 {
		fmt.Fprintln(w, "\nBy kind:")
		writeCounts(w, stats.ErrorsByKind)
	}

	if len(stats.EventsBySource) > 0 {
		fmt.Fprintln(w, "\nBy source:")
		writeCounts(w, stats.EventsBySource)
	}

	return nil
}

// writeCounts prints a map sorted by descending count, then name.
func writeCounts(w io.Writer, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}
