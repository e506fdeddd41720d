// Package parser fills setting buffers from a config file or a config
// message. Parsers only record structural errors; values are checked later
// by a setting.Handler.
package parser

import (
	"fmt"
	"io"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/state"
)

// Parser is the surface shared by the file and message parsers.
type Parser[In any] interface {
	// Parse consumes in and stores raw values into the parser's settings.
	Parse(in In)
	HasErrors() bool
	Errors() *errors.Handler
	Clear()
	Report(w io.Writer) error
}

var (
	_ Parser[[]byte]  = (*TagParser[struct{}])(nil)
	_ Parser[Message] = (*MessageParser[struct{}])(nil)
)

// Position is a 1-based column and line in a config file.
type Position struct {
	Column int
	Line   int
}

// StartPosition is the position of the first byte of a document.
func StartPosition() Position {
	return Position{Column: 1, Line: 1}
}

// Advance moves past c. A newline starts the next line and carriage returns
// are ignored.
func (p *Position) Advance(c byte) {
	switch c {
	case '\n':
		p.Line++
		p.Column = 1
	case '\r':
	default:
		p.Column++
	}
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

const maxOpenNames = 32

type closeResult uint8

const (
	closeMatched closeResult = iota
	closeUnclosed
	closeNotOpen
)

// nameStack remembers open element names as hashes so mismatched close tags
// can be classified without storing the names themselves. Levels deeper than
// maxOpenNames are counted but not checked.
type nameStack struct {
	hashes state.Stack[uint32]
}

func newNameStack() nameStack {
	return nameStack{hashes: state.NewStack[uint32](maxOpenNames)}
}

func (s *nameStack) reset() { s.hashes.Reset() }

func (s *nameStack) push(name []byte) { s.hashes.Push(hashName(name)) }

func (s *nameStack) pop(name []byte) closeResult {
	if s.hashes.Len() == 0 {
		return closeNotOpen
	}
	if s.hashes.Overflowed() {
		s.hashes.Pop()
		return closeMatched
	}
	h := hashName(name)
	if top, _ := s.hashes.Peek(); top == h {
		s.hashes.Pop()
		return closeMatched
	}
	items := s.hashes.Items()
	for i := len(items) - 2; i >= 0; i-- {
		if items[i] == h {
			s.hashes.Truncate(i)
			return closeUnclosed
		}
	}
	return closeNotOpen
}

// hashName is 32-bit FNV-1a.
func hashName(name []byte) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for _, c := range name {
		h ^= uint32(c)
		h *= prime
	}
	return h
}
