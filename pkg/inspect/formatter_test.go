package inspect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipdesc/atdf-go/pkg/atdf"
)

func mustMask(t *testing.T, text string) atdf.Mask {
	t.Helper()
	m, ok, err := atdf.ParseMask(text)
	require.NoError(t, err)
	require.True(t, ok)
	return m
}

func TestBitDiagram(t *testing.T) {
	tests := []struct {
		mask  string
		width uint
		want  string
	}{
		{"0x02", 8, "......X."},
		{"0xF0", 8, "XXXX...."},
		{"0x16", 8, "...X-XX."},
		{"0x81", 8, "X------X"},
		{"0x0100", 16, ".......X ........"},
	}

	for _, tt := range tests {
		got := BitDiagram(mustMask(t, tt.mask), tt.width)
		assert.Equal(t, tt.want, got, "mask %s", tt.mask)
	}
}

func TestBitDiagramDefaultsToFullWidth(t *testing.T) {
	got := BitDiagram(mustMask(t, "0x1"), 0)
	assert.Len(t, strings.ReplaceAll(got, " ", ""), 64)
	assert.True(t, strings.HasSuffix(got, "X"))
}

func TestFormatIndent(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, "    x", f.Indent(2, "x"))

	f.IndentWidth = 0
	assert.Equal(t, "  x", f.Indent(1, "x"))
}

func TestFormatModules(t *testing.T) {
	insp := loadInspector(t, "sample.atdf")
	out := NewFormatter().FormatModules(insp.Modules())
	assert.Equal(t, "WDT (3 registers) - Watchdog Timer\n", out)

	assert.Equal(t, "No modules.\n", NewFormatter().FormatModules(nil))
}

func TestFormatModule(t *testing.T) {
	insp := loadInspector(t, "sample.atdf")
	mod, err := insp.InspectModule("WDT")
	require.NoError(t, err)

	out := NewFormatter().FormatModule(mod)
	assert.Contains(t, out, "WDT - Watchdog Timer\n")
	assert.Contains(t, out, "CTRLA")
	assert.Contains(t, out, "3 fields")
	assert.Contains(t, out, "Synchronization Busy")
}

func TestFormatRegister(t *testing.T) {
	insp := loadInspector(t, "sample.atdf")
	reg, err := insp.InspectRegister("WDT", "SYNCBUSY")
	require.NoError(t, err)

	f := NewFormatter()
	f.ShowLines = true
	out := f.FormatRegister(reg)

	assert.Contains(t, out, "SYNCBUSY @ 0x8 - Synchronization Busy")
	assert.Contains(t, out, "........ ........ ........ ...X-XX.")
	assert.Contains(t, out, "unsafe")
	assert.Contains(t, out, "read-only")
	assert.Contains(t, out, "line 17")
}

func TestFormatRegisterShowsErrors(t *testing.T) {
	insp := loadInspector(t, "broken.atdf")
	reg, err := insp.InspectRegister("ADC", "CTRLB")
	require.NoError(t, err)

	out := NewFormatter().FormatRegister(reg)
	assert.Contains(t, out, `ERROR: unsupported access-mode "W"`)
	assert.Contains(t, out, `ERROR: missing required attribute "mask"`)
	assert.Contains(t, out, "DIFFMODE")
}

func TestFormatField(t *testing.T) {
	insp := loadInspector(t, "sample.atdf")
	fi, err := insp.InspectField(&Path{Module: "WDT", Register: "SYNCBUSY", Field: "SPLIT"})
	require.NoError(t, err)

	out := NewFormatter().FormatField(fi)
	assert.True(t, strings.HasPrefix(out, "SPLIT\n"))
	assert.NotContains(t, out, "Description", "SPLIT has no caption")
	assert.Contains(t, out, "Bits:        [1:4] (width 4)")
	assert.Contains(t, out, "Restriction: unsafe")
	assert.Contains(t, out, "Mask:        0x16")
	assert.Contains(t, out, "Holes:       0x8 (not contiguous)")
	assert.Contains(t, out, "sample.atdf:17:")
}

func TestFormatFieldError(t *testing.T) {
	insp := loadInspector(t, "broken.atdf")
	fi, err := insp.InspectField(&Path{Module: "ADC", Register: "CTRLB", Field: "NONE"})
	require.NoError(t, err)

	out := NewFormatter().FormatField(fi)
	assert.Contains(t, out, `name="NONE"`)
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, `unsupported mask`)
}
