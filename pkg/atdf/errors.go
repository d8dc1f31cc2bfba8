package atdf

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chipdesc/atdf-go/pkg/log"
)

// Sentinel errors, one per ErrorKind. An *Error matches its kind's sentinel
// with errors.Is.
var (
	ErrMissingAttribute      = errors.New("missing required attribute")
	ErrUnsupportedMask       = errors.New("unsupported mask")
	ErrUnsupportedAccessMode = errors.New("unsupported access-mode")
	ErrWrongElement          = errors.New("wrong element")
)

// ErrorKind classifies extraction failures.
type ErrorKind uint8

const (
	// KindMissingAttribute: a required attribute (name, mask) is absent.
	KindMissingAttribute ErrorKind = iota + 1

	// KindUnsupportedMask: the mask is zero, non-numeric or too wide.
	KindUnsupportedMask

	// KindUnsupportedAccessMode: rw is not one of R, RW or empty.
	KindUnsupportedAccessMode

	// KindWrongElement: the element has an unexpected tag.
	KindWrongElement
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingAttribute:
		return "MissingRequiredAttribute"
	case KindUnsupportedMask:
		return "UnsupportedMask"
	case KindUnsupportedAccessMode:
		return "UnsupportedAccessMode"
	case KindWrongElement:
		return "WrongElementKind"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingAttribute:
		return ErrMissingAttribute
	case KindUnsupportedMask:
		return ErrUnsupportedMask
	case KindUnsupportedAccessMode:
		return ErrUnsupportedAccessMode
	case KindWrongElement:
		return ErrWrongElement
	default:
		return nil
	}
}

// Error is an extraction failure tied to the element that caused it.
type Error struct {
	Kind ErrorKind

	// Attribute is the attribute at fault, empty for KindWrongElement.
	Attribute string

	// Value is the offending attribute value. For KindWrongElement it is the
	// expected element name.
	Value string

	// Element is the element being parsed.
	Element *Element

	// Err is the underlying cause, if any.
	Err error
}

func newError(kind ErrorKind, el *Element, attr, value string, cause error) *Error {
	return &Error{Kind: kind, Attribute: attr, Value: value, Element: el, Err: cause}
}

// Message returns the description without location.
func (e *Error) Message() string {
	var msg string
	switch e.Kind {
	case KindMissingAttribute:
		msg = fmt.Sprintf("missing required attribute %q", e.Attribute)
	case KindUnsupportedMask:
		msg = fmt.Sprintf("unsupported mask %s", strconv.Quote(e.Value))
	case KindUnsupportedAccessMode:
		msg = fmt.Sprintf("unsupported access-mode %s", strconv.Quote(e.Value))
	case KindWrongElement:
		found := ""
		if e.Element != nil {
			found = e.Element.Name
		}
		msg = fmt.Sprintf("expected element <%s>, found <%s>", e.Value, found)
	default:
		msg = "unknown error"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Error() string {
	if e.Element == nil {
		return e.Message()
	}
	if loc := e.Element.Location(); loc != "" {
		return loc + ": " + e.Message()
	}
	return e.Message()
}

// Unwrap exposes the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Event converts the error into a diagnostics event.
func (e *Error) Event() log.Event {
	ev := log.Event{
		Timestamp: time.Now(),
		Severity:  log.SeverityError,
		Stage:     log.StageField,
		Attribute: e.Attribute,
		Kind:      e.Kind.String(),
		Message:   e.Message(),
	}
	if e.Element != nil {
		ev.Source = e.Element.Source()
		ev.Element = e.Element.Ref()
	}
	return ev
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
