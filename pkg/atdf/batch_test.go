package atdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipdesc/atdf-go/pkg/log"
)

func loadBroken(t *testing.T) []*Element {
	t.Helper()
	root, err := LoadDocument(filepath.Join("testdata", "broken.atdf"))
	require.NoError(t, err)
	return root.FindAll(BitfieldElement)
}

func TestBatchPolicyParse(t *testing.T) {
	for _, p := range []BatchPolicy{PolicyFailFast, PolicyCollect} {
		got, err := ParseBatchPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParseBatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFailFast, got)

	_, err = ParseBatchPolicy("skip")
	assert.Error(t, err)
}

func TestParseFieldsPreservesOrder(t *testing.T) {
	var els []*Element
	for i := 0; i < 64; i++ {
		els = append(els, bitfield(map[string]string{
			"name": fmt.Sprintf("F%d", i),
			"mask": fmt.Sprintf("0x%x", uint64(1)<<uint(i)),
		}))
	}

	p := NewParser(Config{Workers: 8})
	fields, err := p.ParseFields(context.Background(), els)
	require.NoError(t, err)
	require.Len(t, fields, 64)

	for i, f := range fields {
		assert.Equal(t, fmt.Sprintf("F%d", i), f.Name)
		assert.Equal(t, uint(i), f.Range.Low)
	}
}

func TestParseFieldsFailFast(t *testing.T) {
	diag := log.NewCollectingLogger()
	p := NewParser(Config{Diagnostics: diag, Workers: 1})

	fields, err := p.ParseFields(context.Background(), loadBroken(t))
	assert.Nil(t, fields)
	require.Error(t, err)

	// With a single worker the first failing element in document order wins.
	assert.ErrorIs(t, err, ErrUnsupportedMask)
	assert.Contains(t, err.Error(), "bitfield[NONE]")
	assert.Equal(t, 1, diag.Count(log.SeverityError))
}

func TestParseFieldsCollect(t *testing.T) {
	diag := log.NewCollectingLogger()
	p := NewParser(Config{Diagnostics: diag, Policy: PolicyCollect, Workers: 4})

	fields, err := p.ParseFields(context.Background(), loadBroken(t))
	require.Error(t, err)

	require.Len(t, fields, 2)
	assert.Equal(t, "DIFFMODE", fields[0].Name)
	assert.Equal(t, "FREERUN", fields[1].Name)

	assert.ErrorIs(t, err, ErrUnsupportedMask)
	assert.ErrorIs(t, err, ErrUnsupportedAccessMode)
	assert.ErrorIs(t, err, ErrMissingAttribute)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 3)
	assert.Equal(t, KindUnsupportedMask, KindOf(errs[0]))
	assert.Equal(t, KindUnsupportedAccessMode, KindOf(errs[1]))
	assert.Equal(t, KindMissingAttribute, KindOf(errs[2]))

	assert.Equal(t, 3, diag.Count(log.SeverityError))
}

func TestParseFieldsCollectAllGood(t *testing.T) {
	p := NewParser(Config{Policy: PolicyCollect})
	fields, err := p.ParseFields(context.Background(), loadSample(t).FindAll(BitfieldElement))
	require.NoError(t, err)
	assert.Len(t, fields, 7)
}

func TestParseFieldsEmpty(t *testing.T) {
	fields, err := NewParser(Config{}).ParseFields(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestParseFieldsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	els := []*Element{bitfield(map[string]string{"name": "EN", "mask": "0x1"})}
	fields, err := NewParser(Config{Policy: PolicyCollect}).ParseFields(ctx, els)
	assert.Nil(t, fields)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractFieldsKeepsElements(t *testing.T) {
	els := loadBroken(t)
	p := NewParser(Config{Policy: PolicyCollect})

	extracted, err := p.ExtractFields(context.Background(), els)
	require.Error(t, err)
	require.Len(t, extracted, 2)

	assert.Same(t, els[0], extracted[0].Element)
	assert.Equal(t, "DIFFMODE", extracted[0].Field.Name)
	assert.Same(t, els[4], extracted[1].Element)
	assert.Equal(t, "FREERUN", extracted[1].Field.Name)
}
