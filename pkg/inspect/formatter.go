package inspect

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chipdesc/atdf-go/pkg/atdf"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowLines includes source line numbers of bitfield elements
	ShowLines bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{IndentWidth: 2}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatModules lists modules with their register counts.
func (f *Formatter) FormatModules(mods []ModuleInfo) string {
	if len(mods) == 0 {
		return "No modules.\n"
	}
	var b strings.Builder
	for _, m := range mods {
		line := fmt.Sprintf("%s (%d registers)", m.Name, len(m.Registers))
		if m.Caption != "" {
			line += " - " + m.Caption
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatModule lists the registers of a module.
func (f *Formatter) FormatModule(m *ModuleInfo) string {
	var b strings.Builder
	b.WriteString(m.Name)
	if m.Caption != "" {
		b.WriteString(" - " + m.Caption)
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, r := range m.Registers {
		fmt.Fprintf(tw, "%s\t%s\t%d fields\t%s\n",
			f.Indent(1, r.Name), r.Offset, r.FieldCount, r.Caption)
	}
	tw.Flush()
	return b.String()
}

// FormatRegister renders a register with one line per field. Fields that
// failed extraction show their error instead.
func (f *Formatter) FormatRegister(r *RegisterInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s", r.Name, r.Offset)
	if r.Caption != "" {
		b.WriteString(" - " + r.Caption)
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, fi := range r.Fields {
		name, _ := fi.Element.LookupAttr("name")
		if fi.Err != nil {
			fmt.Fprintf(tw, "%s\tERROR: %s\n", f.Indent(1, name), errorMessage(fi.Err))
			continue
		}
		fld := fi.Field
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s",
			f.Indent(1, fld.Name), fld.Range, BitDiagram(fi.Mask, registerWidth(r, fi)),
			fld.Access, fld.Restriction)
		if f.ShowLines {
			fmt.Fprintf(tw, "\tline %d", fi.Element.Line)
		}
		fmt.Fprintf(tw, "\t%s\n", fld.DescriptionOr(""))
	}
	tw.Flush()
	return b.String()
}

// FormatField renders a single field in detail.
func (f *Formatter) FormatField(fi *FieldInfo) string {
	var b strings.Builder
	if fi.Err != nil {
		fmt.Fprintf(&b, "%s\n", fi.Element)
		fmt.Fprintf(&b, "%s\n", f.Indent(1, "ERROR: "+fi.Err.Error()))
		return b.String()
	}

	fld := fi.Field
	b.WriteString(fld.Name + "\n")
	if fld.Description != nil {
		b.WriteString(f.Indent(1, "Description: "+*fld.Description) + "\n")
	}
	b.WriteString(f.Indent(1, fmt.Sprintf("Bits:        %s (width %d)", fld.Range, fld.Range.Width())) + "\n")
	b.WriteString(f.Indent(1, "Access:      "+fld.Access.String()) + "\n")
	b.WriteString(f.Indent(1, "Restriction: "+fld.Restriction.String()) + "\n")
	b.WriteString(f.Indent(1, "Location:    "+fi.Element.Location()) + "\n")
	b.WriteString(f.FormatMask(fi.Mask, 1))
	return b.String()
}

// FormatMask renders a parsed mask at the given indent depth.
func (f *Formatter) FormatMask(m atdf.Mask, depth int) string {
	var b strings.Builder
	b.WriteString(f.Indent(depth, fmt.Sprintf("Mask:        0x%X", m.Value)) + "\n")
	b.WriteString(f.Indent(depth, fmt.Sprintf("Range:       %s", m.Range)) + "\n")
	b.WriteString(f.Indent(depth, fmt.Sprintf("Layout:      %s", BitDiagram(m, diagramWidth(m.Range.High)))) + "\n")
	if m.Unsafe {
		b.WriteString(f.Indent(depth, fmt.Sprintf("Holes:       0x%X (not contiguous)", m.Holes())) + "\n")
	}
	return b.String()
}

// BitDiagram draws width bits of the register, most significant first.
// Mask bits are 'X', holes inside the field's range '-', other bits '.'.
func BitDiagram(m atdf.Mask, width uint) string {
	if width == 0 || width > 64 {
		width = 64
	}
	var b strings.Builder
	for i := int(width) - 1; i >= 0; i-- {
		bit := uint64(1) << uint(i)
		switch {
		case m.Value&bit != 0:
			b.WriteByte('X')
		case m.Holes()&bit != 0:
			b.WriteByte('-')
		default:
			b.WriteByte('.')
		}
		if i%8 == 0 && i > 0 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// registerWidth is the declared register width in bits, or the smallest
// byte multiple holding the field when the size attribute is absent.
func registerWidth(r *RegisterInfo, fi FieldInfo) uint {
	if r.Size > 0 && r.Size <= 8 {
		return r.Size * 8
	}
	return diagramWidth(fi.Mask.Range.High)
}

func diagramWidth(high uint) uint {
	return (high/8 + 1) * 8
}

func errorMessage(err error) string {
	var e *atdf.Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
