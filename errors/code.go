package errors

import "fmt"

// Segment widths of a packed Code.
const (
	categoryBits = 3
	typeBits     = 5
	payloadBits  = 24

	halfBits = 12
	byteBits = 8

	categoryShift = typeBits + payloadBits
	typeShift     = payloadBits

	categoryMask = 1<<categoryBits - 1
	typeMask     = 1<<typeBits - 1
	payloadMask  = 1<<payloadBits - 1
	halfMask     = 1<<halfBits - 1
	byteMask     = 1<<byteBits - 1
)

// PayloadMax is the largest payload a Code can carry.
const PayloadMax = payloadMask

// Category is the 3-bit class of a Code.
type Category uint8

const (
	CategoryUnspecified Category = iota
	CategoryParsing
	CategoryValidation
	CategoryVerification
)

// String returns a stable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryUnspecified:
		return "unspecified"
	case CategoryParsing:
		return "parsing"
	case CategoryValidation:
		return "validation"
	case CategoryVerification:
		return "verification"
	default:
		return "unknown"
	}
}

// Kind is implemented by the error types of every category.
type Kind interface {
	error
	Category() Category
	Type() uint8
}

// Code packs a category, a type and a 24-bit payload into 32 bits:
//
//	bits 29-31 category
//	bits 24-28 type
//	bits  0-23 payload
//
// The payload can be read and replaced as a whole, as two 12-bit halves
// (High: 12-23, Low: 0-11) or as three bytes (Byte2: 16-23, Byte1: 8-15,
// Byte0: 0-7). Category and type never change after construction.
type Code uint32

// NewCode returns a Code for kind with payload truncated to 24 bits.
func NewCode(kind Kind, payload uint32) Code {
	bits := uint32(kind.Category()) & categoryMask
	bits = bits<<typeBits | uint32(kind.Type())&typeMask
	bits = bits<<payloadBits | payload&payloadMask
	return Code(bits)
}

// PositionCode returns a Code with column in the high half and line in the
// low half of the payload.
func PositionCode(kind Kind, column, line int) Code {
	return NewCode(kind, 0).WithHigh(uint32(column)).WithLow(uint32(line))
}

// BytesCode returns a Code carrying up to three raw bytes, b0 in the lowest.
func BytesCode(kind Kind, b0, b1, b2 byte) Code {
	return NewCode(kind, 0).WithByte0(b0).WithByte1(b1).WithByte2(b2)
}

// Value returns the packed 32-bit value.
func (c Code) Value() uint32 { return uint32(c) }

// Category returns the category bits.
func (c Code) Category() Category {
	return Category(uint32(c) >> categoryShift & categoryMask)
}

// Type returns the type bits.
func (c Code) Type() uint8 {
	return uint8(uint32(c) >> typeShift & typeMask)
}

// Payload returns the 24 payload bits.
func (c Code) Payload() uint32 { return uint32(c) & payloadMask }

// High returns payload bits 12-23.
func (c Code) High() uint32 { return c.field(halfMask, halfBits) }

// Low returns payload bits 0-11.
func (c Code) Low() uint32 { return c.field(halfMask, 0) }

// Byte2 returns payload bits 16-23.
func (c Code) Byte2() byte { return byte(c.field(byteMask, 2*byteBits)) }

// Byte1 returns payload bits 8-15.
func (c Code) Byte1() byte { return byte(c.field(byteMask, byteBits)) }

// Byte0 returns payload bits 0-7.
func (c Code) Byte0() byte { return byte(c.field(byteMask, 0)) }

// WithPayload returns c with the whole payload replaced.
func (c Code) WithPayload(v uint32) Code { return c.with(payloadMask, 0, v) }

// WithHigh returns c with payload bits 12-23 replaced.
func (c Code) WithHigh(v uint32) Code { return c.with(halfMask, halfBits, v) }

// WithLow returns c with payload bits 0-11 replaced.
func (c Code) WithLow(v uint32) Code { return c.with(halfMask, 0, v) }

// WithByte2 returns c with payload bits 16-23 replaced.
func (c Code) WithByte2(v byte) Code { return c.with(byteMask, 2*byteBits, uint32(v)) }

// WithByte1 returns c with payload bits 8-15 replaced.
func (c Code) WithByte1(v byte) Code { return c.with(byteMask, byteBits, uint32(v)) }

// WithByte0 returns c with payload bits 0-7 replaced.
func (c Code) WithByte0(v byte) Code { return c.with(byteMask, 0, uint32(v)) }

func (c Code) field(mask uint32, offset uint) uint32 {
	return uint32(c) >> offset & mask
}

func (c Code) with(mask uint32, offset uint, v uint32) Code {
	bits := uint32(c) &^ (mask << offset)
	bits |= (v & mask) << offset
	return Code(bits)
}

// Kind resolves the category and type bits back to a typed error.
// It returns nil for the unspecified category.
func (c Code) Kind() Kind {
	switch c.Category() {
	case CategoryParsing:
		return ParsingError(c.Type())
	case CategoryValidation:
		return ValidationError(c.Type())
	case CategoryVerification:
		return VerificationError(c.Type())
	default:
		return nil
	}
}

// Hex formats the code as eight upper-case hex digits, e.g. 0X2100000A.
func (c Code) Hex() string {
	return fmt.Sprintf("0X%08X", uint32(c))
}

// String renders the code with its kind name and payload.
func (c Code) String() string {
	kind := c.Kind()
	if kind == nil {
		return fmt.Sprintf("%s unspecified (payload 0x%04x)", c.Hex(), c.Payload())
	}
	return fmt.Sprintf("%s %s: %s (payload 0x%04x)", c.Hex(), c.Category(), kind.Error(), c.Payload())
}
