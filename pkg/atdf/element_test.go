package atdf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Element {
	t.Helper()
	root, err := LoadDocument(filepath.Join("testdata", "sample.atdf"))
	require.NoError(t, err)
	return root
}

func TestLoadDocumentBuildsTree(t *testing.T) {
	root := loadSample(t)

	assert.Equal(t, "avr-tools-device-file", root.Name)
	assert.Equal(t, filepath.Join("testdata", "sample.atdf"), root.Source())
	assert.Nil(t, root.Parent)

	registers := root.FindAll("register")
	require.Len(t, registers, 3)
	assert.Equal(t, "CTRLA", attr(t, registers[0], "name"))
	assert.Equal(t, "SYNCBUSY", attr(t, registers[2], "name"))

	bitfields := root.FindAll("bitfield")
	require.Len(t, bitfields, 7)
	assert.Same(t, registers[0], bitfields[0].Parent)
}

func TestLoadDocumentRecordsLines(t *testing.T) {
	root := loadSample(t)

	assert.Equal(t, 2, root.Line)

	bitfields := root.FindAll("bitfield")
	assert.Equal(t, 7, bitfields[0].Line)
	assert.Equal(t, 17, bitfields[6].Line)
}

func TestElementPath(t *testing.T) {
	root := loadSample(t)
	bf := root.FindAll("bitfield")[0]

	assert.Equal(t,
		"/avr-tools-device-file/modules/module[WDT]/register-group[WDT]/register[CTRLA]/bitfield[ENABLE]",
		bf.Path())
}

func TestElementLocation(t *testing.T) {
	root := loadSample(t)
	bf := root.FindAll("bitfield")[0]

	loc := bf.Location()
	assert.True(t, strings.HasPrefix(loc, filepath.Join("testdata", "sample.atdf")+":7: "), loc)
	assert.True(t, strings.HasSuffix(loc, "/bitfield[ENABLE]"), loc)
}

func TestElementAttrHelpers(t *testing.T) {
	el := NewElement("bitfield",
		Attr{Name: "name", Value: "EN"},
		Attr{Name: "caption", Value: ""},
		Attr{Name: "rw", Value: ""},
	)

	v, ok := el.LookupAttr("name")
	assert.True(t, ok)
	assert.Equal(t, "EN", v)

	_, ok = el.LookupAttr("mask")
	assert.False(t, ok)

	_, err := el.Attr("mask")
	assert.ErrorIs(t, err, ErrMissingAttribute)

	assert.Nil(t, el.TextAttr("caption"), "empty caption must read as absent")
	assert.Nil(t, el.TextAttr("missing"))

	rw := el.OptionalAttr("rw")
	require.NotNil(t, rw, "empty rw must stay present")
	assert.Equal(t, "", *rw)
	assert.Nil(t, el.OptionalAttr("missing"))
}

func TestElementCheckName(t *testing.T) {
	el := NewElement("register", Attr{Name: "name", Value: "CTRLA"})

	assert.NoError(t, el.CheckName("register"))

	err := el.CheckName("bitfield")
	assert.ErrorIs(t, err, ErrWrongElement)
	assert.Contains(t, err.Error(), "expected element <bitfield>, found <register>")
}

func TestElementString(t *testing.T) {
	el := NewElement("bitfield", Attr{Name: "name", Value: "EN"}, Attr{Name: "mask", Value: "0x1"})
	assert.Equal(t, `<bitfield name="EN" mask="0x1">`, el.String())
}

func TestElementAddChild(t *testing.T) {
	reg := NewElement("register", Attr{Name: "name", Value: "CTRL"})
	bf := reg.AddChild(NewElement("bitfield", Attr{Name: "name", Value: "EN"}))

	assert.Same(t, reg, bf.Parent)
	assert.Same(t, reg, bf.Root())
	assert.Equal(t, "/register[CTRL]/bitfield[EN]", bf.Path())
	assert.Equal(t, "", bf.Source())
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unclosed", "<register><bitfield name='x'></register>"},
		{"two roots", "<a/><b/>"},
		{"not xml", "mask=0x1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(tt.doc), "inline")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing inline")
		})
	}
}

func TestParseDocumentDeclaredCharset(t *testing.T) {
	root, err := LoadDocument(filepath.Join("testdata", "latin1.atdf"))
	require.NoError(t, err)
	assert.Len(t, root.FindAll("bitfield"), 1)
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.atdf"))
	assert.Error(t, err)
}

func attr(t *testing.T, el *Element, name string) string {
	t.Helper()
	v, err := el.Attr(name)
	require.NoError(t, err)
	return v
}
