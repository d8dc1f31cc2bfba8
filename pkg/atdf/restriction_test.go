package atdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

func TestClassifyRestriction(t *testing.T) {
	assert.Equal(t, chip.RestrictionUnsafe, ClassifyRestriction(true))
	assert.Equal(t, chip.RestrictionAny, ClassifyRestriction(false))
}

func TestDefaultClassifier(t *testing.T) {
	el := NewElement(BitfieldElement)

	dense, _, _ := ParseMask("0xF0")
	assert.Equal(t, chip.RestrictionAny, DefaultClassifier.Classify(el, dense))

	sparse, _, _ := ParseMask("0x90")
	assert.Equal(t, chip.RestrictionUnsafe, DefaultClassifier.Classify(el, sparse))
}

func TestParserConsultsClassifierOnlyForDenseMasks(t *testing.T) {
	calls := 0
	refine := ClassifierFunc(func(_ *Element, _ Mask) chip.ValueRestriction {
		calls++
		return chip.RestrictionUnsafe
	})
	p := NewParser(Config{Classifier: refine})

	f, err := p.ParseField(bitfield(map[string]string{"name": "A", "mask": "0xF0"}))
	assert.NoError(t, err)
	assert.Equal(t, chip.RestrictionUnsafe, f.Restriction)
	assert.Equal(t, 1, calls)

	f, err = p.ParseField(bitfield(map[string]string{"name": "B", "mask": "0x90"}))
	assert.NoError(t, err)
	assert.Equal(t, chip.RestrictionUnsafe, f.Restriction)
	assert.Equal(t, 1, calls, "sparse masks must not reach the classifier")
}
