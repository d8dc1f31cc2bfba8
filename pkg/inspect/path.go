// Package inspect browses the modules, registers and bitfields of a loaded
// ATDF document.
//
// The inspect package offers:
//   - Parsing path expressions (e.g., "WDT/CTRLA/ENABLE")
//   - Resolving paths against the element tree
//   - Extracting fields with the same parser as atdf-fields
//   - Formatting output for display
package inspect

import (
	"errors"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path represents a parsed inspection path.
// Format: module[/register[/field]]
type Path struct {
	Module   string
	Register string
	Field    string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "module" - lists the registers of a module
//   - "module/register" - lists the fields of a register
//   - "module/register/field" - a single field
//
// Names are matched case-insensitively.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	if len(parts) > 3 {
		return nil, ErrInvalidPath
	}

	p := &Path{Raw: input, Module: parts[0]}
	if len(parts) > 1 {
		p.Register = parts[1]
	}
	if len(parts) > 2 {
		p.Field = parts[2]
	}
	return p, nil
}

// Depth returns 1 for a module path, 2 for a register path and 3 for a
// field path.
func (p *Path) Depth() int {
	switch {
	case p.Field != "":
		return 3
	case p.Register != "":
		return 2
	default:
		return 1
	}
}

// String returns the canonical form of the path.
func (p *Path) String() string {
	parts := []string{p.Module}
	if p.Register != "" {
		parts = append(parts, p.Register)
	}
	if p.Field != "" {
		parts = append(parts, p.Field)
	}
	return strings.Join(parts, "/")
}
