package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chipdesc/atdf-go/pkg/log"
)

func TestCollectStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", stats.TotalEvents)
	}
	if got := stats.EventsBySeverity[log.SeverityError]; got != 3 {
		t.Errorf("errors = %d, want 3", got)
	}
	if got := stats.EventsByStage[log.StageLoad]; got != 1 {
		t.Errorf("load events = %d, want 1", got)
	}
	if got := stats.ErrorsByKind["UnsupportedMask"]; got != 1 {
		t.Errorf("UnsupportedMask = %d, want 1", got)
	}
	if got := stats.EventsBySource["broken.atdf"]; got != 2 {
		t.Errorf("broken.atdf = %d, want 2", got)
	}
	if len(stats.Sessions) != 1 {
		t.Errorf("sessions = %d, want 1", len(stats.Sessions))
	}
	if d := stats.TimeRange.End.Sub(stats.TimeRange.Start); d.Seconds() != 1 {
		t.Errorf("time range = %v, want 1s", d)
	}
}

func TestStatsOutput(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Total events: 4",
		"Sessions:     1",
		"ERROR: 3",
		"WARNING: 1",
		"FIELD: 3",
		"LOAD: 1",
		"UnsupportedAccessMode: 1",
		"broken.atdf: 2",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	// Sources are ordered by descending count.
	if strings.Index(output, "broken.atdf") > strings.Index(output, "sample.atdf") {
		t.Error("expected broken.atdf before sample.atdf")
	}
}

func TestStatsEmptyLog(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	if got := buf.String(); got != "Total events: 0\n" {
		t.Errorf("unexpected output: %q", got)
	}
}
