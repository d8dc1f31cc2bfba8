package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chipdesc/atdf-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// sampleEvents mirrors what atdf-fields writes for testdata/broken.atdf.
func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	ref := func(path string, line int) *log.ElementRef {
		return &log.ElementRef{Name: "bitfield", Path: path, Line: line}
	}
	return []log.Event{
		{
			Timestamp: ts,
			SessionID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001",
			Severity:  log.SeverityError,
			Stage:     log.StageField,
			Source:    "broken.atdf",
			Element:   ref("/avr-tools-device-file/modules/module[ADC]/register-group/register[CTRLB]/bitfield[NONE]", 8),
			Attribute: "mask",
			Kind:      "UnsupportedMask",
			Message:   `unsupported mask "0x00"`,
		},
		{
			Timestamp: ts.Add(time.Millisecond),
			SessionID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001",
			Severity:  log.SeverityError,
			Stage:     log.StageField,
			Source:    "broken.atdf",
			Element:   ref("/avr-tools-device-file/modules/module[ADC]/register-group/register[CTRLB]/bitfield[RESSEL]", 9),
			Attribute: "rw",
			Kind:      "UnsupportedAccessMode",
			Message:   `unsupported access-mode "W"`,
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond),
			SessionID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001",
			Severity:  log.SeverityWarning,
			Stage:     log.StageField,
			Source:    "sample.atdf",
			Element:   ref("/avr-tools-device-file/modules/module[WDT]/register-group/register[SYNCBUSY]/bitfield[SPLIT]", 17),
			Attribute: "rw",
			Message:   "empty access-mode, assuming read-write",
		},
		{
			Timestamp: ts.Add(time.Second),
			SessionID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001",
			Severity:  log.SeverityError,
			Stage:     log.StageLoad,
			Source:    "missing.atdf",
			Message:   "open missing.atdf: no such file or directory",
		},
	}
}
