// Package chip defines the register-level model handed to code generators.
//
// A Field describes one bitfield inside a hardware register:
//
//	Field "CTRL"
//	├── Range:       [4:7]
//	├── Access:      read-only
//	└── Restriction: any
//
// # Bit ranges
//
// A BitRange is the smallest closed span [Low, High] covering every bit of the
// field's mask. When the mask has holes, the range also covers bits that do
// not belong to the field, and the field's restriction is RestrictionUnsafe:
// a read-modify-write of the whole range may clobber neighbouring bits.
//
// # Encoding
//
// Fields encode to YAML and JSON using their text forms ("read-only",
// "unsafe"), and to CBOR with integer keys for compact streams between tools.
package chip
