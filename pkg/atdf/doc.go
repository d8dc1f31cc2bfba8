// Package atdf extracts register bitfields from ATDF device-description
// documents.
//
// ATDF is the XML dialect Microchip uses to describe microcontroller
// peripherals. A register carries its bitfields as child elements:
//
//	<register name="CTRLA" offset="0x0" rw="RW" size="4">
//	  <bitfield name="ENABLE" caption="Enable" mask="0x2"/>
//	  <bitfield name="MODE" mask="0x1C" values="MODE"/>
//	  <bitfield name="SYNCBUSY" mask="0x80000000" rw="R"/>
//	</register>
//
// ParseField turns one bitfield element into a chip.Field: the mask becomes a
// bit range plus a restriction (RestrictionUnsafe when the mask has holes),
// and the rw attribute becomes an access mode.
//
// # Errors
//
// Every failure is an *Error that carries the offending element, so callers
// can report source file, line and element path. Use errors.Is with the
// sentinel errors to branch on the kind:
//
//	if errors.Is(err, atdf.ErrUnsupportedMask) { ... }
//
// # Batches
//
// Parser.ParseFields builds many fields in parallel. The BatchPolicy decides
// whether the first failure aborts the batch (PolicyFailFast) or all failures
// are collected (PolicyCollect).
package atdf
