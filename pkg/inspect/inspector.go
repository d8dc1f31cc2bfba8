package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chipdesc/atdf-go/pkg/atdf"
	"github.com/chipdesc/atdf-go/pkg/chip"
)

// Inspector errors.
var (
	ErrModuleNotFound   = errors.New("module not found")
	ErrRegisterNotFound = errors.New("register not found")
	ErrFieldNotFound    = errors.New("field not found")
)

// Element names of the ATDF hierarchy above bitfield.
const (
	moduleElement   = "module"
	registerElement = "register"
)

// Inspector resolves paths against one loaded document.
type Inspector struct {
	root   *atdf.Element
	parser *atdf.Parser
}

// NewInspector creates an Inspector for root. A nil parser uses the default
// configuration.
func NewInspector(root *atdf.Element, parser *atdf.Parser) *Inspector {
	if parser == nil {
		parser = atdf.NewParser(atdf.Config{})
	}
	return &Inspector{root: root, parser: parser}
}

// Root returns the document root.
func (i *Inspector) Root() *atdf.Element {
	return i.root
}

// ModuleInfo represents a module for display.
type ModuleInfo struct {
	Name      string
	Caption   string
	Registers []RegisterInfo
}

// RegisterInfo represents a register for display. Fields is only filled by
// InspectRegister.
type RegisterInfo struct {
	Name       string
	Caption    string
	Offset     string
	Size       uint
	FieldCount int
	Fields     []FieldInfo
}

// FieldInfo is the extraction result of one bitfield element. Exactly one
// of Field and Err is set.
type FieldInfo struct {
	Element *atdf.Element
	Mask    atdf.Mask
	Field   *chip.Field
	Err     error
}

// Modules returns every module of the document with its registers.
func (i *Inspector) Modules() []ModuleInfo {
	var mods []ModuleInfo
	for _, m := range i.root.FindAll(moduleElement) {
		mods = append(mods, moduleInfo(m))
	}
	return mods
}

// InspectModule returns the module called name.
func (i *Inspector) InspectModule(name string) (*ModuleInfo, error) {
	m, err := i.module(name)
	if err != nil {
		return nil, err
	}
	info := moduleInfo(m)
	return &info, nil
}

// InspectRegister returns a register with every field extracted.
func (i *Inspector) InspectRegister(module, register string) (*RegisterInfo, error) {
	reg, err := i.register(module, register)
	if err != nil {
		return nil, err
	}

	info := registerInfo(reg)
	for _, bf := range bitfields(reg) {
		info.Fields = append(info.Fields, i.inspectField(bf))
	}
	return &info, nil
}

// InspectField extracts a single field.
func (i *Inspector) InspectField(path *Path) (*FieldInfo, error) {
	reg, err := i.register(path.Module, path.Register)
	if err != nil {
		return nil, err
	}
	for _, bf := range bitfields(reg) {
		if name, _ := bf.LookupAttr("name"); strings.EqualFold(name, path.Field) {
			info := i.inspectField(bf)
			return &info, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, path)
}

func (i *Inspector) inspectField(el *atdf.Element) FieldInfo {
	info := FieldInfo{Element: el}
	info.Field, info.Err = i.parser.ParseField(el)
	if info.Err == nil {
		// The mask parsed successfully above.
		text, _ := el.LookupAttr("mask")
		info.Mask, _, _ = atdf.ParseMask(text)
	}
	return info
}

func (i *Inspector) module(name string) (*atdf.Element, error) {
	for _, m := range i.root.FindAll(moduleElement) {
		if n, _ := m.LookupAttr("name"); strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

func (i *Inspector) register(module, name string) (*atdf.Element, error) {
	m, err := i.module(module)
	if err != nil {
		return nil, err
	}
	for _, r := range m.FindAll(registerElement) {
		if n, _ := r.LookupAttr("name"); strings.EqualFold(n, name) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrRegisterNotFound, module, name)
}

func moduleInfo(m *atdf.Element) ModuleInfo {
	info := ModuleInfo{}
	info.Name, _ = m.LookupAttr("name")
	info.Caption, _ = m.LookupAttr("caption")
	for _, r := range m.FindAll(registerElement) {
		info.Registers = append(info.Registers, registerInfo(r))
	}
	return info
}

func registerInfo(r *atdf.Element) RegisterInfo {
	info := RegisterInfo{FieldCount: len(bitfields(r))}
	info.Name, _ = r.LookupAttr("name")
	info.Caption, _ = r.LookupAttr("caption")
	info.Offset, _ = r.LookupAttr("offset")
	if size, ok := r.LookupAttr("size"); ok {
		// Size is in bytes; malformed values leave it zero.
		if n, err := atdf.ParseInteger(size); err == nil {
			info.Size = uint(n)
		}
	}
	return info
}

func bitfields(reg *atdf.Element) []*atdf.Element {
	var out []*atdf.Element
	for _, c := range reg.Children {
		if c.Name == atdf.BitfieldElement {
			out = append(out, c)
		}
	}
	return out
}
