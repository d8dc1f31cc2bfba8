package atdf

import "github.com/chipdesc/atdf-go/pkg/chip"

// ClassifyRestriction derives the value restriction from mask contiguity.
func ClassifyRestriction(unsafe bool) chip.ValueRestriction {
	if unsafe {
		return chip.RestrictionUnsafe
	}
	return chip.RestrictionAny
}

// RestrictionClassifier refines the restriction of fields with a dense mask.
//
// The parser only consults it when ClassifyRestriction returned
// RestrictionAny; fields with holes in their mask are always
// RestrictionUnsafe.
type RestrictionClassifier interface {
	Classify(el *Element, m Mask) chip.ValueRestriction
}

// ClassifierFunc adapts a function to RestrictionClassifier.
type ClassifierFunc func(el *Element, m Mask) chip.ValueRestriction

// Classify calls f.
func (f ClassifierFunc) Classify(el *Element, m Mask) chip.ValueRestriction {
	return f(el, m)
}

// DefaultClassifier keeps RestrictionAny for every dense mask.
var DefaultClassifier RestrictionClassifier = ClassifierFunc(func(_ *Element, m Mask) chip.ValueRestriction {
	return ClassifyRestriction(m.Unsafe)
})
