package atdf

import (
	"errors"
	"time"

	"github.com/chipdesc/atdf-go/pkg/chip"
	"github.com/chipdesc/atdf-go/pkg/log"
)

// BitfieldElement is the tag of elements accepted by ParseField.
const BitfieldElement = "bitfield"

// Config configures a Parser.
type Config struct {
	// Diagnostics receives warnings and batch errors. Nil disables them.
	Diagnostics log.Logger

	// SessionID is stamped on every diagnostics event.
	SessionID string

	// Classifier refines the restriction of dense masks. Nil uses
	// DefaultClassifier.
	Classifier RestrictionClassifier

	// Policy decides how ParseFields handles failing fields.
	Policy BatchPolicy

	// Workers bounds ParseFields parallelism. <= 0 means GOMAXPROCS.
	Workers int
}

// Parser builds chip.Fields from bitfield elements.
// A Parser is safe for concurrent use.
type Parser struct {
	cfg Config
}

// NewParser creates a Parser.
func NewParser(cfg Config) *Parser {
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = log.NoopLogger{}
	}
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultClassifier
	}
	return &Parser{cfg: cfg}
}

// ParseField builds a Field from a bitfield element with default settings.
func ParseField(el *Element) (*chip.Field, error) {
	return NewParser(Config{}).ParseField(el)
}

// ParseField builds a Field from a bitfield element.
//
// Checks run in this order and the first failure is returned: element tag,
// name, mask presence, mask value, rw. No Field is returned on failure.
func (p *Parser) ParseField(el *Element) (*chip.Field, error) {
	if err := el.CheckName(BitfieldElement); err != nil {
		return nil, err
	}

	name, err := el.Attr("name")
	if err != nil {
		return nil, err
	}
	description := el.TextAttr("caption")

	maskText, err := el.Attr("mask")
	if err != nil {
		return nil, err
	}
	mask, ok, err := ParseMask(maskText)
	if err != nil {
		return nil, newError(KindUnsupportedMask, el, "mask", maskText, err)
	}
	if !ok {
		return nil, newError(KindUnsupportedMask, el, "mask", maskText, nil)
	}

	// TODO: resolve the bitfield's "values" attribute against the module's
	// value-group elements and plug that in as a RestrictionClassifier.
	restriction := ClassifyRestriction(mask.Unsafe)
	if restriction == chip.RestrictionAny {
		restriction = p.cfg.Classifier.Classify(el, mask)
	}

	rw := el.OptionalAttr("rw")
	access, resolution, err := ResolveAccessMode(rw)
	if err != nil {
		return nil, newError(KindUnsupportedAccessMode, el, "rw", *rw, nil)
	}
	if resolution == AccessLenient {
		p.warn(el, "rw", "empty access-mode, assuming read-write")
	}

	return &chip.Field{
		Name:        name,
		Description: description,
		Range:       mask.Range,
		Access:      access,
		Restriction: restriction,
	}, nil
}

func (p *Parser) warn(el *Element, attr, msg string) {
	p.cfg.Diagnostics.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: p.cfg.SessionID,
		Severity:  log.SeverityWarning,
		Stage:     log.StageField,
		Source:    el.Source(),
		Element:   el.Ref(),
		Attribute: attr,
		Message:   msg,
	})
}

func (p *Parser) report(err error) {
	var e *Error
	if !errors.As(err, &e) {
		return
	}
	ev := e.Event()
	ev.SessionID = p.cfg.SessionID
	p.cfg.Diagnostics.Log(ev)
}
