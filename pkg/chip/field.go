package chip

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidRange is returned when a BitRange has Low > High or exceeds 64 bits.
var ErrInvalidRange = errors.New("invalid bit range")

// MaxBit is the highest bit index a BitRange can address.
const MaxBit = 63

// Field is a named group of bits inside a register.
type Field struct {
	// Name is the field identifier. Never empty.
	Name string `yaml:"name" json:"name" cbor:"1,keyasint"`

	// Description is the human-readable caption, nil when none was given.
	Description *string `yaml:"description,omitempty" json:"description,omitempty" cbor:"2,keyasint,omitempty"`

	// Range is the bit span the field occupies.
	Range BitRange `yaml:"range" json:"range" cbor:"3,keyasint"`

	// Access is the read/write capability of the field.
	Access AccessMode `yaml:"access" json:"access" cbor:"4,keyasint"`

	// Restriction tells generators which values may be written to Range.
	Restriction ValueRestriction `yaml:"restriction" json:"restriction" cbor:"5,keyasint"`
}

// Validate checks the structural invariants of the field.
func (f *Field) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("field has no name")
	}
	if err := f.Range.Validate(); err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	if !f.Access.IsValid() {
		return fmt.Errorf("field %s: invalid access mode %d", f.Name, f.Access)
	}
	if !f.Restriction.IsValid() {
		return fmt.Errorf("field %s: invalid value restriction %d", f.Name, f.Restriction)
	}
	return nil
}

// DescriptionOr returns the description, or def when there is none.
func (f *Field) DescriptionOr(def string) string {
	if f.Description == nil {
		return def
	}
	return *f.Description
}

// BitRange is the closed bit interval [Low, High].
type BitRange struct {
	Low  uint `yaml:"low" json:"low" cbor:"1,keyasint"`
	High uint `yaml:"high" json:"high" cbor:"2,keyasint"`
}

// NewBitRange returns the range [low, high], or an error if it is not well formed.
func NewBitRange(low, high uint) (BitRange, error) {
	r := BitRange{Low: low, High: high}
	if err := r.Validate(); err != nil {
		return BitRange{}, err
	}
	return r, nil
}

// Validate checks Low <= High <= MaxBit.
func (r BitRange) Validate() error {
	if r.Low > r.High {
		return fmt.Errorf("%w: low %d > high %d", ErrInvalidRange, r.Low, r.High)
	}
	if r.High > MaxBit {
		return fmt.Errorf("%w: high %d > %d", ErrInvalidRange, r.High, MaxBit)
	}
	return nil
}

// Width returns the number of bits covered by the range.
func (r BitRange) Width() uint { return r.High - r.Low + 1 }

// Contains reports whether bit lies inside the range.
func (r BitRange) Contains(bit uint) bool { return bit >= r.Low && bit <= r.High }

// Mask returns the dense mask with every bit of the range set.
func (r BitRange) Mask() uint64 {
	if r.Width() >= 64 {
		return ^uint64(0)
	}
	return (uint64(1)<<r.Width() - 1) << r.Low
}

// String returns the range as "[low:high]".
func (r BitRange) String() string {
	return fmt.Sprintf("[%d:%d]", r.Low, r.High)
}

// RangeOf returns the smallest range covering every set bit of mask.
// It returns false for a zero mask.
func RangeOf(mask uint64) (BitRange, bool) {
	if mask == 0 {
		return BitRange{}, false
	}
	return BitRange{
		Low:  uint(bits.TrailingZeros64(mask)),
		High: uint(MaxBit - bits.LeadingZeros64(mask)),
	}, true
}

// AccessMode describes whether a field may be written.
type AccessMode uint8

const (
	// AccessReadOnly fields may only be read.
	AccessReadOnly AccessMode = iota + 1

	// AccessReadWrite fields may be read and written.
	AccessReadWrite
)

// IsValid reports whether a is a known access mode.
func (a AccessMode) IsValid() bool {
	return a == AccessReadOnly || a == AccessReadWrite
}

// CanWrite returns true if writing is allowed.
func (a AccessMode) CanWrite() bool { return a == AccessReadWrite }

// String returns the access mode name.
func (a AccessMode) String() string {
	switch a {
	case AccessReadOnly:
		return "read-only"
	case AccessReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("AccessMode(%d)", uint8(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AccessMode) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("invalid access mode %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccessMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "read-only":
		*a = AccessReadOnly
	case "read-write":
		*a = AccessReadWrite
	default:
		return fmt.Errorf("unknown access mode %q", text)
	}
	return nil
}

// ValueRestriction tells generators which values a field accepts.
//
// Values above RestrictionUnsafe are reserved for enumerated value groups.
type ValueRestriction uint8

const (
	// RestrictionAny allows any value that fits in the field's range.
	RestrictionAny ValueRestriction = iota + 1

	// RestrictionUnsafe marks a range that includes bits not owned by the
	// field. Writing the whole range may touch unrelated bits.
	RestrictionUnsafe
)

// IsValid reports whether v is a known restriction.
func (v ValueRestriction) IsValid() bool {
	return v == RestrictionAny || v == RestrictionUnsafe
}

// String returns the restriction name.
func (v ValueRestriction) String() string {
	switch v {
	case RestrictionAny:
		return "any"
	case RestrictionUnsafe:
		return "unsafe"
	default:
		return fmt.Sprintf("ValueRestriction(%d)", uint8(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v ValueRestriction) MarshalText() ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("invalid value restriction %d", uint8(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *ValueRestriction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "any":
		*v = RestrictionAny
	case "unsafe":
		*v = RestrictionUnsafe
	default:
		return fmt.Errorf("unknown value restriction %q", text)
	}
	return nil
}
