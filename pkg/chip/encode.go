package chip

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// fieldEncMode is the CBOR encoder mode for fields.
// Canonical key order keeps encoded streams byte-stable across runs.
var fieldEncMode cbor.EncMode

// fieldDecMode is the CBOR decoder mode for fields.
var fieldDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	fieldEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create field CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	fieldDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create field CBOR decoder mode: %v", err))
	}
}

// EncodeField encodes a Field to CBOR bytes using integer keys.
func EncodeField(f *Field) ([]byte, error) {
	return fieldEncMode.Marshal(f)
}

// DecodeField decodes CBOR bytes into a Field and validates it.
func DecodeField(data []byte) (*Field, error) {
	var f Field
	if err := fieldDecMode.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding field: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// NewEncoder creates a CBOR encoder for field streams that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return fieldEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for field streams that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return fieldDecMode.NewDecoder(r)
}

// WriteFields writes fields to w as a sequence of CBOR items.
func WriteFields(w io.Writer, fields []*Field) error {
	enc := NewEncoder(w)
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding field %s: %w", f.Name, err)
		}
	}
	return nil
}

// ReadFields reads a sequence of CBOR-encoded fields until EOF.
func ReadFields(r io.Reader) ([]*Field, error) {
	dec := NewDecoder(r)
	var fields []*Field
	for {
		var f Field
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return fields, nil
			}
			return nil, fmt.Errorf("decoding field %d: %w", len(fields), err)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		fields = append(fields, &f)
	}
}
