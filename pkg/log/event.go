package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single diagnostics record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the extraction run (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Severity of the event.
	Severity Severity `cbor:"3,keyasint"`

	// Stage that produced the event.
	Stage Stage `cbor:"4,keyasint"`

	// Source is the input document, usually a file path.
	Source string `cbor:"5,keyasint,omitempty"`

	// Element locates the offending element, if any.
	Element *ElementRef `cbor:"6,keyasint,omitempty"`

	// Attribute is the attribute the event is about, if any.
	Attribute string `cbor:"7,keyasint,omitempty"`

	// Kind is the error kind for SeverityError events.
	Kind string `cbor:"8,keyasint,omitempty"`

	// Message is the human-readable description.
	Message string `cbor:"9,keyasint"`
}

// ElementRef points at an element of an input document.
type ElementRef struct {
	// Name is the element tag, e.g. "bitfield".
	Name string `cbor:"1,keyasint"`

	// Path is the slash-separated element path.
	Path string `cbor:"2,keyasint,omitempty"`

	// Line is the 1-based line of the element's start tag (0 if unknown).
	Line int `cbor:"3,keyasint,omitempty"`
}

// Location renders "source:line: path", dropping unknown parts.
func (e Event) Location() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		if e.Element != nil && e.Element.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Element.Line)
		}
	}
	if e.Element != nil && e.Element.Path != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Element.Path)
	}
	return b.String()
}

// Severity ranks events.
type Severity uint8

const (
	// SeverityInfo is informational.
	SeverityInfo Severity = 0
	// SeverityWarning marks recoverable input problems.
	SeverityWarning Severity = 1
	// SeverityError marks input that could not be used.
	SeverityError Severity = 2
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("invalid severity %q (valid: info, warning, error)", s)
	}
}

// Stage indicates which part of the extraction produced the event.
type Stage uint8

const (
	// StageLoad covers reading and parsing documents.
	StageLoad Stage = 0
	// StageField covers building a single field.
	StageField Stage = 1
	// StageOutput covers writing results.
	StageOutput Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "LOAD"
	case StageField:
		return "FIELD"
	case StageOutput:
		return "OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// ParseStage parses a case-insensitive stage name.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(s) {
	case "load":
		return StageLoad, nil
	case "field":
		return StageField, nil
	case "output":
		return StageOutput, nil
	default:
		return 0, fmt.Errorf("invalid stage %q (valid: load, field, output)", s)
	}
}
