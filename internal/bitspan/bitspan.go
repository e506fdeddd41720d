// Package bitspan describes spans of bits inside a fixed-size config message
// and extracts them into integers.
//
// Bits are numbered from the most significant bit of byte 0: bit 0 is 0x80 of
// src[0], bit 7 is 0x01 of src[0], bit 8 is 0x80 of src[1], and so on.
package bitspan

import (
	"fmt"
	"unsafe"
)

const (
	// MinSize is the smallest span, in bits.
	MinSize = 1
	// MaxSize is the largest span, in bits.
	MaxSize = 64
	// ByteBoundary is the number of message bytes a span may address.
	ByteBoundary = 64
	// BitBoundary is ByteBoundary expressed in bits.
	BitBoundary = ByteBoundary * 8
)

const byteWidth = 8

// Span is an immutable (start bit, size) pair.
// The zero Span has size 0 and means "not present in the binary format".
type Span struct {
	pos  uint16
	size uint8
}

// New validates pos and size and returns the span.
func New(pos, size int) (Span, error) {
	if size < MinSize || size > MaxSize {
		return Span{}, fmt.Errorf("bitspan size %d out of range [%d, %d]", size, MinSize, MaxSize)
	}
	if pos < 0 || pos+size > BitBoundary {
		return Span{}, fmt.Errorf("bitspan [%d, %d) exceeds %d-bit boundary", pos, pos+size, BitBoundary)
	}
	return Span{pos: uint16(pos), size: uint8(size)}, nil
}

// MustNew is like New but panics on invalid input. Intended for static tables.
func MustNew(pos, size int) Span {
	s, err := New(pos, size)
	if err != nil {
		panic(err)
	}
	return s
}

// Bit returns a single-bit span at pos.
func Bit(pos int) Span {
	return MustNew(pos, MinSize)
}

// Pos returns the start bit.
func (s Span) Pos() int { return int(s.pos) }

// Size returns the span width in bits.
func (s Span) Size() int { return int(s.size) }

// IsZero reports whether the span is absent.
func (s Span) IsZero() bool { return s.size == 0 }

// End returns the first bit after the span.
func (s Span) End() int { return int(s.pos) + int(s.size) }

// String renders the span as [pos:size].
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.pos, s.size)
}

// Extract returns the bits of s from src, most significant bit first.
// src must hold at least ByteBoundary bytes; no bounds check is done.
func Extract(src []byte, s Span) uint64 {
	pos := uint(s.pos)
	size := uint(s.size)
	var result uint64
	for size > 0 {
		offset := pos % byteWidth
		avail := byteWidth - offset
		chunk := uint64(src[pos/byteWidth] & (0xFF >> offset))
		if size < avail {
			result = result<<size | chunk>>(avail-size)
			break
		}
		result = result<<avail | chunk
		pos += avail
		size -= avail
	}
	return result
}

// Insert writes the low s.Size() bits of v into dst at s, most significant
// bit first, leaving every bit outside the span untouched.
func Insert(dst []byte, s Span, v uint64) {
	pos := uint(s.pos)
	size := uint(s.size)
	for size > 0 {
		offset := pos % byteWidth
		avail := byteWidth - offset
		n := min(avail, size)
		shift := avail - n
		chunk := byte(v>>(size-n)) & byte(Mask[uint32](int(n)))
		keep := ^(byte(Mask[uint32](int(n))) << shift)
		idx := pos / byteWidth
		dst[idx] = dst[idx]&keep | chunk<<shift
		pos += n
		size -= n
	}
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// ConvertBits reinterprets the little-endian bytes of raw as T.
// It returns zero when raw is wider than T.
func ConvertBits[T integer](raw []byte) T {
	var zero T
	if len(raw) > int(unsafe.Sizeof(zero)) {
		return zero
	}
	var acc uint64
	for i := len(raw) - 1; i >= 0; i-- {
		acc = acc<<byteWidth | uint64(raw[i])
	}
	return T(acc)
}

// Mask returns a value of type U with the low size bits set.
func Mask[U unsigned](size int) U {
	if size <= 0 {
		return 0
	}
	width := int(unsafe.Sizeof(U(0))) * byteWidth
	if size >= width {
		return ^U(0)
	}
	return ^(^U(0) << size)
}
