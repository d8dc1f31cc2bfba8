package atdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/chipdesc/atdf-go/pkg/log"
)

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a parsed ATDF document.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Parent   *Element

	// Line is the 1-based line of the start tag, 0 if unknown.
	Line int

	source string
}

// NewElement creates a detached element with the given attributes.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// AddChild appends child and sets its parent. It returns child.
func (e *Element) AddChild(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// LookupAttr returns the value of the named attribute and whether it exists.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the value of a required attribute.
// A missing attribute yields an *Error of kind KindMissingAttribute.
func (e *Element) Attr(name string) (string, error) {
	v, ok := e.LookupAttr(name)
	if !ok {
		return "", newError(KindMissingAttribute, e, name, "", nil)
	}
	return v, nil
}

// OptionalAttr returns a pointer to the attribute value, or nil when absent.
// An empty attribute yields a pointer to "".
func (e *Element) OptionalAttr(name string) *string {
	v, ok := e.LookupAttr(name)
	if !ok {
		return nil
	}
	return &v
}

// TextAttr returns the attribute value, or nil when absent or empty.
func (e *Element) TextAttr(name string) *string {
	v, ok := e.LookupAttr(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// CheckName returns an *Error of kind KindWrongElement unless the element is
// named want.
func (e *Element) CheckName(want string) error {
	if e.Name != want {
		return newError(KindWrongElement, e, "", want, nil)
	}
	return nil
}

// FindAll returns every descendant named name, in document order.
// The element itself is included when it matches.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		if el.Name == name {
			out = append(out, el)
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// Root returns the topmost ancestor.
func (e *Element) Root() *Element {
	root := e
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Source returns the name of the document the element was parsed from.
func (e *Element) Source() string {
	return e.Root().source
}

// Path returns the slash-separated path from the root, qualifying elements
// that have a name attribute: /modules/module[ADC]/register-group[ADC].
func (e *Element) Path() string {
	var segs []string
	for el := e; el != nil; el = el.Parent {
		seg := el.Name
		if n, ok := el.LookupAttr("name"); ok && n != "" {
			seg += "[" + n + "]"
		}
		segs = append(segs, seg)
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

// Location renders "source:line: path", dropping unknown parts.
func (e *Element) Location() string {
	return log.Event{Source: e.Source(), Element: e.Ref()}.Location()
}

// Ref returns a diagnostics reference to the element.
func (e *Element) Ref() *log.ElementRef {
	return &log.ElementRef{Name: e.Name, Path: e.Path(), Line: e.Line}
}

// String renders the start tag, e.g. <bitfield name="EN" mask="0x1">.
func (e *Element) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		fmt.Fprintf(&b, " %s=%s", a.Name, strconv.Quote(a.Value))
	}
	b.WriteByte('>')
	return b.String()
}

// ParseDocument reads an XML document into an element tree.
// source names the document in diagnostics.
func ParseDocument(r io.Reader, source string) (*Element, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var root, cur *Element
	for {
		line, _ := d.InputPos()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", source, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Line: line}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if cur == nil {
				if root != nil {
					return nil, fmt.Errorf("parsing %s: multiple root elements", source)
				}
				root = el
			} else {
				cur.AddChild(el)
			}
			cur = el
		case xml.EndElement:
			cur = cur.Parent
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing %s: no root element", source)
	}
	root.source = source
	return root, nil
}

// LoadDocument loads and parses a document from a file.
func LoadDocument(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	return ParseDocument(f, path)
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
