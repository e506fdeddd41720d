package setting

import (
	"fortio.org/safecast"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/bitspan"
)

// Numeric validates a T between lo and hi inclusive. In file mode raw is a
// decimal string; in message mode raw holds the extracted bits.
func Numeric[T Number](lo, hi T) Validator {
	return func(raw []byte, mode Mode) (Value, error) {
		var v T
		var err error
		if mode == ModeMessage {
			v, err = narrow[T](bitspan.ConvertBits[uint64](raw))
		} else {
			v, err = parseNumber[T](raw)
		}
		if err != nil {
			return Value{}, err
		}
		out := NumberValue(v)
		if v < lo {
			return out, errors.BelowMinThreshold
		}
		if v > hi {
			return out, errors.AboveMaxThreshold
		}
		return out, nil
	}
}

// Flag validates a boolean written as 0 or 1.
func Flag() Validator {
	return func(raw []byte, mode Mode) (Value, error) {
		var v uint8
		var err error
		if mode == ModeMessage {
			v, err = narrow[uint8](bitspan.ConvertBits[uint64](raw))
		} else {
			v, err = parseNumber[uint8](raw)
		}
		if err != nil {
			return Value{}, err
		}
		if v > 1 {
			return Value{}, errors.OutOfTypeRange
		}
		return BoolValue(v == 1), nil
	}
}

// Name validates a non-empty identifier made of letters, digits and the
// characters "()-_".
func Name() Validator {
	return func(raw []byte, _ Mode) (Value, error) {
		if len(raw) == 0 {
			return Value{}, errors.MissingValue
		}
		for _, c := range raw {
			if !isNameChar(c) {
				return Value{}, errors.ContainsInvalidCharacter
			}
		}
		return StringValue(raw), nil
	}
}

// Option validates one of options. The result is the option index as an
// int32. In message mode raw holds the index itself.
func Option(options ...string) Validator {
	return func(raw []byte, mode Mode) (Value, error) {
		if mode == ModeMessage {
			idx := bitspan.ConvertBits[uint64](raw)
			if idx >= uint64(len(options)) {
				return Value{}, errors.InvalidOption
			}
			return NumberValue(int32(idx)), nil
		}
		if len(raw) == 0 {
			return Value{}, errors.MissingValue
		}
		for i, opt := range options {
			if string(raw) == opt {
				return NumberValue(int32(i)), nil
			}
		}
		return Value{}, errors.InvalidOption
	}
}

// Dispatch selects file or message by mode.
func Dispatch(file, message Validator) Validator {
	return func(raw []byte, mode Mode) (Value, error) {
		if mode == ModeMessage {
			return message(raw, mode)
		}
		return file(raw, mode)
	}
}

func isNameChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '(' || c == ')' || c == '-' || c == '_':
		return true
	}
	return false
}

func narrow[T Number](v uint64) (T, error) {
	out, err := safecast.Conv[T](v)
	if err != nil {
		return 0, errors.OutOfTypeRange
	}
	return out, nil
}

// parseNumber reads an optionally signed decimal integer that must span all
// of raw.
func parseNumber[T Number](raw []byte) (T, error) {
	if len(raw) == 0 {
		return 0, errors.MissingValue
	}
	neg := false
	digits := raw
	switch raw[0] {
	case '-':
		neg = true
		digits = raw[1:]
	case '+':
		digits = raw[1:]
	}
	if len(digits) == 0 {
		return 0, errors.ContainsInvalidCharacter
	}

	var mag uint64
	overflow := false
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errors.ContainsInvalidCharacter
		}
		d := uint64(c - '0')
		if mag > (1<<64-1-d)/10 {
			overflow = true
			continue
		}
		mag = mag*10 + d
	}
	if overflow {
		return 0, errors.OutOfTypeRange
	}

	if !neg || mag == 0 {
		return narrow[T](mag)
	}
	var zero T
	if ^zero > zero {
		return 0, errors.NegativeValue
	}
	if mag > 1<<63 {
		return 0, errors.OutOfTypeRange
	}
	out, err := safecast.Conv[T](-int64(mag))
	if err != nil {
		return 0, errors.OutOfTypeRange
	}
	return out, nil
}
