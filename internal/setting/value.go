package setting

import "fmt"

// Kind discriminates the payload carried by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindBool
)

var kindNames = [...]string{
	KindNone:   "none",
	KindString: "string",
	KindInt8:   "int8",
	KindUint8:  "uint8",
	KindInt16:  "int16",
	KindUint16: "uint16",
	KindInt32:  "int32",
	KindUint32: "uint32",
	KindBool:   "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Number lists the integer types a setting value can hold.
type Number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32
}

// Value is a validated setting value. The accessor matching Kind returns
// the payload; the others return the zero value.
type Value struct {
	kind Kind
	bits uint64
	str  []byte
}

// StringValue wraps b. The Value aliases b.
func StringValue(b []byte) Value {
	return Value{kind: KindString, str: b}
}

// BoolValue wraps v.
func BoolValue(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{kind: KindBool, bits: bits}
}

// NumberValue wraps v with the Kind matching T.
func NumberValue[T Number](v T) Value {
	var kind Kind
	switch any(v).(type) {
	case int8:
		kind = KindInt8
	case uint8:
		kind = KindUint8
	case int16:
		kind = KindInt16
	case uint16:
		kind = KindUint16
	case int32:
		kind = KindInt32
	case uint32:
		kind = KindUint32
	}
	return Value{kind: kind, bits: uint64(int64(v))}
}

// Kind returns the discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool { return v.kind == KindNone }

func (v Value) Bytes() []byte  { return v.str }
func (v Value) Text() string   { return string(v.str) }
func (v Value) Bool() bool     { return v.kind == KindBool && v.bits != 0 }
func (v Value) Int8() int8     { return int8(v.number(KindInt8)) }
func (v Value) Uint8() uint8   { return uint8(v.number(KindUint8)) }
func (v Value) Int16() int16   { return int16(v.number(KindInt16)) }
func (v Value) Uint16() uint16 { return uint16(v.number(KindUint16)) }
func (v Value) Int32() int32   { return int32(v.number(KindInt32)) }
func (v Value) Uint32() uint32 { return uint32(v.number(KindUint32)) }

func (v Value) number(kind Kind) uint64 {
	if v.kind != kind {
		return 0
	}
	return v.bits
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindBool:
		return fmt.Sprint(v.Bool())
	case KindInt8, KindInt16, KindInt32:
		return fmt.Sprint(int64(v.bits))
	default:
		return fmt.Sprint(v.bits)
	}
}
