package store

import (
	"time"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

// Record is one extracted bitfield with its origin in the source document.
type Record struct {
	Source   string      `yaml:"source" json:"source" cbor:"1,keyasint"`
	Register string      `yaml:"register,omitempty" json:"register,omitempty" cbor:"2,keyasint,omitempty"`
	Path     string      `yaml:"path" json:"path" cbor:"3,keyasint"`
	Line     int         `yaml:"line,omitempty" json:"line,omitempty" cbor:"4,keyasint,omitempty"`
	Field    *chip.Field `yaml:"field" json:"field" cbor:"5,keyasint"`
}

// RunStatus is the lifecycle state of an extraction run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one atdf-fields invocation. Its ID is the diagnostics session ID.
type Run struct {
	ID           string
	Policy       string
	Status       RunStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	Inputs       int
	Fields       int
	Warnings     int
	Errors       int
	ErrorMessage string
}

// Summary holds the final counters of a run.
type Summary struct {
	Inputs   int
	Fields   int
	Warnings int
	Errors   int
}
