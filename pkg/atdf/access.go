package atdf

import (
	"fmt"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

// AccessResolution records how an access mode was decided.
type AccessResolution uint8

const (
	// AccessExplicit: rw was "R" or "RW".
	AccessExplicit AccessResolution = iota

	// AccessDefaulted: rw was absent; read-write is the documented default.
	AccessDefaulted

	// AccessLenient: rw was present but empty. Treated as read-write, and
	// callers should warn.
	AccessLenient
)

// String returns the resolution name.
func (r AccessResolution) String() string {
	switch r {
	case AccessExplicit:
		return "explicit"
	case AccessDefaulted:
		return "defaulted"
	case AccessLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// ResolveAccessMode maps the rw attribute to an access mode.
// rw is nil when the attribute is absent.
func ResolveAccessMode(rw *string) (chip.AccessMode, AccessResolution, error) {
	if rw == nil {
		return chip.AccessReadWrite, AccessDefaulted, nil
	}
	switch *rw {
	case "R":
		return chip.AccessReadOnly, AccessExplicit, nil
	case "RW":
		return chip.AccessReadWrite, AccessExplicit, nil
	case "":
		return chip.AccessReadWrite, AccessLenient, nil
	default:
		return 0, AccessExplicit, fmt.Errorf("%w %q", ErrUnsupportedAccessMode, *rw)
	}
}
