// Package version parses and checks the ATDF schema version declared by a
// document root.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported is the schema version the extractor is written against.
const Supported = "4.0"

// SchemaAttr is the root attribute carrying the schema version.
const SchemaAttr = "schema-version"

// Schema represents a parsed "major.minor" schema version.
type Schema struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Schema, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || strings.Contains(minor, ".") {
		return Schema{}, fmt.Errorf("invalid schema version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return Schema{}, fmt.Errorf("invalid schema version %q: bad major component", s)
	}
	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return Schema{}, fmt.Errorf("invalid schema version %q: bad minor component", s)
	}

	return Schema{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// String returns the version as "major.minor".
func (v Schema) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Schema) Compatible(other Schema) bool {
	return v.Major == other.Major
}

// Check validates a declared schema version against Supported. An empty
// declaration is accepted: hand-written and older files often omit it.
func Check(declared string) error {
	if declared == "" {
		return nil
	}
	v, err := Parse(declared)
	if err != nil {
		return err
	}
	supported, _ := Parse(Supported)
	if !supported.Compatible(v) {
		return fmt.Errorf("schema version %s is not compatible with %s", v, supported)
	}
	return nil
}
