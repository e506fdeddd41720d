package setting

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/jacoelho/devconf/errors"
)

func rawMessage(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func TestNumericFile(t *testing.T) {
	u32 := Numeric[uint32](1000, math.MaxUint32)
	i8 := Numeric[int8](0, 3)
	i16 := Numeric[int16](math.MinInt16, math.MaxInt16)

	tests := []struct {
		name    string
		v       Validator
		raw     string
		want    Value
		wantErr error
	}{
		{name: "u32 min", v: u32, raw: "1000", want: NumberValue[uint32](1000)},
		{name: "u32 plus sign", v: u32, raw: "+20000", want: NumberValue[uint32](20000)},
		{name: "u32 max", v: u32, raw: "4294967295", want: NumberValue[uint32](math.MaxUint32)},
		{name: "u32 below min", v: u32, raw: "999", wantErr: errors.BelowMinThreshold},
		{name: "u32 overflow", v: u32, raw: "4294967296", wantErr: errors.OutOfTypeRange},
		{name: "u32 uint64 overflow", v: u32, raw: "99999999999999999999999", wantErr: errors.OutOfTypeRange},
		{name: "u32 negative", v: u32, raw: "-5", wantErr: errors.NegativeValue},
		{name: "u32 negative zero", v: u32, raw: "-0", wantErr: errors.BelowMinThreshold},
		{name: "u32 letters", v: u32, raw: "10a0", wantErr: errors.ContainsInvalidCharacter},
		{name: "u32 space", v: u32, raw: " 1000", wantErr: errors.ContainsInvalidCharacter},
		{name: "u32 sign only", v: u32, raw: "-", wantErr: errors.ContainsInvalidCharacter},
		{name: "u32 empty", v: u32, raw: "", wantErr: errors.MissingValue},
		{name: "i8 in range", v: i8, raw: "3", want: NumberValue[int8](3)},
		{name: "i8 above max", v: i8, raw: "4", wantErr: errors.AboveMaxThreshold},
		{name: "i8 below min", v: i8, raw: "-1", wantErr: errors.BelowMinThreshold},
		{name: "i8 type overflow", v: i8, raw: "128", wantErr: errors.OutOfTypeRange},
		{name: "i8 type underflow", v: i8, raw: "-129", wantErr: errors.OutOfTypeRange},
		{name: "i16 min", v: i16, raw: "-32768", want: NumberValue[int16](math.MinInt16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v([]byte(tt.raw), ModeFile)
			if err != tt.wantErr {
				t.Fatalf("validate(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr == nil && (got.Kind() != tt.want.Kind() || got.String() != tt.want.String()) {
				t.Fatalf("validate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNumericMessage(t *testing.T) {
	u16 := Numeric[uint16](0, math.MaxUint16)
	got, err := u16(rawMessage(20000), ModeMessage)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Uint16(), uint16(20000))

	_, err = u16(rawMessage(1<<16), ModeMessage)
	td.Cmp(t, err, errors.OutOfTypeRange)

	u32 := Numeric[uint32](1000, math.MaxUint32)
	_, err = u32(rawMessage(10), ModeMessage)
	td.Cmp(t, err, errors.BelowMinThreshold)

	i8 := Numeric[int8](0, 3)
	got, err = i8(rawMessage(2), ModeMessage)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Int8(), int8(2))
}

func TestFlag(t *testing.T) {
	v := Flag()
	tests := []struct {
		raw     string
		want    bool
		wantErr error
	}{
		{raw: "1", want: true},
		{raw: "0", want: false},
		{raw: "2", wantErr: errors.OutOfTypeRange},
		{raw: "300", wantErr: errors.OutOfTypeRange},
		{raw: "yes", wantErr: errors.ContainsInvalidCharacter},
		{raw: "-1", wantErr: errors.NegativeValue},
		{raw: "", wantErr: errors.MissingValue},
	}
	for _, tt := range tests {
		got, err := v([]byte(tt.raw), ModeFile)
		if err != tt.wantErr {
			t.Fatalf("Flag()(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
		}
		if err == nil && got.Bool() != tt.want {
			t.Fatalf("Flag()(%q) = %v, want %v", tt.raw, got.Bool(), tt.want)
		}
	}

	got, err := v(rawMessage(1), ModeMessage)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Kind(), KindBool)
	td.Cmp(t, got.Bool(), true)
	_, err = v(rawMessage(3), ModeMessage)
	td.Cmp(t, err, errors.OutOfTypeRange)
}

func TestName(t *testing.T) {
	v := Name()
	got, err := v([]byte("node_1(a)-b"), ModeFile)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Text(), "node_1(a)-b")

	_, err = v([]byte("a b"), ModeFile)
	td.Cmp(t, err, errors.ContainsInvalidCharacter)
	_, err = v([]byte("naïve"), ModeFile)
	td.Cmp(t, err, errors.ContainsInvalidCharacter)
	_, err = v(nil, ModeFile)
	td.Cmp(t, err, errors.MissingValue)
}

func TestOption(t *testing.T) {
	v := Option("on", "interval", "off")
	got, err := v([]byte("interval"), ModeFile)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Int32(), int32(1))

	_, err = v([]byte("sometimes"), ModeFile)
	td.Cmp(t, err, errors.InvalidOption)
	_, err = v(nil, ModeFile)
	td.Cmp(t, err, errors.MissingValue)

	got, err = v(rawMessage(2), ModeMessage)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Int32(), int32(2))
	_, err = v(rawMessage(3), ModeMessage)
	td.Cmp(t, err, errors.InvalidOption)
}

func TestDispatch(t *testing.T) {
	v := Dispatch(Name(), Flag())
	got, err := v([]byte("abc"), ModeFile)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Kind(), KindString)

	got, err = v(rawMessage(1), ModeMessage)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Kind(), KindBool)
}
