package atdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

// Mask is a parsed, non-zero bitfield mask.
type Mask struct {
	// Value is the raw mask.
	Value uint64

	// Range spans the lowest to the highest set bit.
	Range chip.BitRange

	// Unsafe is set when Range contains bits that are clear in Value.
	Unsafe bool
}

// Holes returns the bits inside Range that do not belong to the mask.
func (m Mask) Holes() uint64 {
	return m.Range.Mask() &^ m.Value
}

// ParseMask parses a mask literal such as "0x1C" or "28".
//
// A zero mask returns ok == false and no error: it is well formed but
// describes no bits. Text that is not a number, or does not fit in 64 bits,
// returns an error.
func ParseMask(text string) (m Mask, ok bool, err error) {
	v, err := ParseInteger(text)
	if err != nil {
		return Mask{}, false, err
	}
	r, ok := chip.RangeOf(v)
	if !ok {
		return Mask{}, false, nil
	}
	return Mask{Value: v, Range: r, Unsafe: v != r.Mask()}, true, nil
}

// ParseInteger accepts 0x/0X hexadecimal and plain decimal, the two literal
// forms ATDF uses for numeric attributes.
func ParseInteger(text string) (uint64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("empty numeric literal")
	}
	if hex, ok := cutHexPrefix(s); ok {
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing hex literal %q: %w", text, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing decimal literal %q: %w", text, err)
	}
	return v, nil
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}
