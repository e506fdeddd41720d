// Package saxml is a push tokenizer for a small XML subset. Input is fed one
// byte at a time and element events are delivered to a Handler as soon as
// they are complete. Memory use is fixed: names, attribute values and text
// runs longer than MaxString bytes are truncated.
//
// Comments, processing instructions, doctype and CDATA declarations are
// skipped. Text is trimmed of surrounding whitespace and whitespace-only runs
// are not reported. The predefined entities and numeric character references
// are decoded inside text.
package saxml

import "unicode/utf8"

// MaxString is the capacity of every name and text buffer.
const MaxString = 64

// Handler receives element events. The byte slices are only valid for the
// duration of the call.
type Handler interface {
	OpenTag(name []byte)
	CloseTag(name []byte)
	Attribute(name, value []byte)
	Content(text []byte)
}

type state uint8

const (
	stateText state = iota
	stateEntity
	stateTagStart
	stateOpenName
	stateInTag
	stateAttrName
	stateAttrEq
	stateAttrValueStart
	stateAttrValue
	stateSelfClose
	stateCloseName
	stateCloseEnd
	stateBang
	stateComment
	stateDecl
	statePI
	statePIEnd
)

type buffer struct {
	b [MaxString]byte
	n int
}

func (b *buffer) add(c byte) {
	if b.n < MaxString {
		b.b[b.n] = c
		b.n++
	}
}

func (b *buffer) addBytes(p []byte) {
	for _, c := range p {
		b.add(c)
	}
}

func (b *buffer) bytes() []byte { return b.b[:b.n] }
func (b *buffer) reset()        { b.n = 0 }

// Tokenizer is a byte-at-a-time XML tokenizer. The zero value is not usable;
// call New.
type Tokenizer struct {
	h      Handler
	state  state
	name   buffer
	attr   buffer
	value  buffer
	text   buffer
	entity buffer
	// text length before trailing whitespace
	trimmed int
	quote   byte
	dashes  int
}

// New returns a tokenizer reporting to h.
func New(h Handler) *Tokenizer {
	return &Tokenizer{h: h}
}

// Reset discards any partial token and returns to the text state.
func (t *Tokenizer) Reset() {
	h := t.h
	*t = Tokenizer{h: h}
}

// Write feeds every byte of p. It never fails.
func (t *Tokenizer) Write(p []byte) (int, error) {
	for _, c := range p {
		t.Feed(c)
	}
	return len(p), nil
}

// Close flushes pending text at end of input.
func (t *Tokenizer) Close() {
	switch t.state {
	case stateEntity:
		t.appendByte('&')
		t.appendText(t.entity.bytes())
		t.flushText()
	case stateText, stateTagStart:
		t.flushText()
	}
	t.state = stateText
}

// Feed advances the tokenizer by one byte.
func (t *Tokenizer) Feed(c byte) {
	switch t.state {
	case stateText:
		t.feedText(c)
	case stateEntity:
		t.feedEntity(c)
	case stateTagStart:
		t.feedTagStart(c)
	case stateOpenName:
		t.feedOpenName(c)
	case stateInTag:
		t.feedInTag(c)
	case stateAttrName:
		t.feedAttrName(c)
	case stateAttrEq:
		if c == '=' {
			t.state = stateAttrValueStart
		} else if !isSpace(c) {
			t.state = stateInTag
			t.feedInTag(c)
		}
	case stateAttrValueStart:
		if c == '"' || c == '\'' {
			t.quote = c
			t.value.reset()
			t.state = stateAttrValue
		} else if !isSpace(c) {
			t.state = stateInTag
			t.feedInTag(c)
		}
	case stateAttrValue:
		if c == t.quote {
			t.h.Attribute(t.attr.bytes(), t.value.bytes())
			t.state = stateInTag
			return
		}
		t.value.add(c)
	case stateSelfClose:
		if c == '>' {
			t.h.CloseTag(t.name.bytes())
			t.state = stateText
			return
		}
		t.state = stateInTag
		t.feedInTag(c)
	case stateCloseName:
		t.feedCloseName(c)
	case stateCloseEnd:
		if c == '>' {
			t.h.CloseTag(t.name.bytes())
			t.state = stateText
		}
	case stateBang:
		if c == '-' {
			t.dashes = 0
			t.state = stateComment
			return
		}
		t.state = stateDecl
		t.feedDecl(c)
	case stateComment:
		t.feedComment(c)
	case stateDecl:
		t.feedDecl(c)
	case statePI:
		if c == '?' {
			t.state = statePIEnd
		}
	case statePIEnd:
		switch c {
		case '>':
			t.state = stateText
		case '?':
		default:
			t.state = statePI
		}
	}
}

func (t *Tokenizer) feedText(c byte) {
	switch {
	case c == '<':
		t.state = stateTagStart
	case c == '&':
		t.entity.reset()
		t.state = stateEntity
	case isSpace(c):
		if t.text.n > 0 {
			t.text.add(c)
		}
	default:
		t.text.add(c)
		t.trimmed = t.text.n
	}
}

func (t *Tokenizer) flushText() {
	if t.trimmed > 0 {
		t.h.Content(t.text.b[:t.trimmed])
	}
	t.text.reset()
	t.trimmed = 0
}

func (t *Tokenizer) feedEntity(c byte) {
	switch {
	case c == ';':
		t.appendEntity(t.entity.bytes())
		t.state = stateText
	case c == '<' || isSpace(c) || t.entity.n == MaxString:
		// not a reference: keep the raw bytes
		t.appendByte('&')
		t.appendText(t.entity.bytes())
		t.state = stateText
		t.feedText(c)
	default:
		t.entity.add(c)
	}
}

func (t *Tokenizer) appendText(p []byte) {
	t.text.addBytes(p)
	if len(p) > 0 {
		t.trimmed = t.text.n
	}
}

func (t *Tokenizer) appendByte(c byte) {
	t.text.add(c)
	t.trimmed = t.text.n
}

// appendEntity appends the replacement for &name; to the text, or the raw
// reference when name is unknown.
func (t *Tokenizer) appendEntity(name []byte) {
	if c, ok := standardEntity(name); ok {
		t.appendByte(c)
		return
	}
	if r, ok := parseCharRef(name); ok {
		var enc [utf8.UTFMax]byte
		t.appendText(enc[:utf8.EncodeRune(enc[:], r)])
		return
	}
	t.appendByte('&')
	t.appendText(name)
	t.appendByte(';')
}

func (t *Tokenizer) feedTagStart(c byte) {
	if c == '/' || c == '!' || c == '?' || isNameByte(c) {
		t.flushText()
	}
	switch {
	case c == '/':
		t.name.reset()
		t.state = stateCloseName
	case c == '!':
		t.state = stateBang
	case c == '?':
		t.state = statePI
	case isNameByte(c):
		t.name.reset()
		t.name.add(c)
		t.state = stateOpenName
	default:
		// a stray '<' is treated as text
		t.state = stateText
		t.appendText([]byte{'<'})
		t.feedText(c)
	}
}

func (t *Tokenizer) feedOpenName(c byte) {
	if isNameByte(c) {
		t.name.add(c)
		return
	}
	t.h.OpenTag(t.name.bytes())
	t.state = stateInTag
	t.feedInTag(c)
}

func (t *Tokenizer) feedInTag(c byte) {
	switch {
	case c == '>':
		t.state = stateText
	case c == '/':
		t.state = stateSelfClose
	case isNameByte(c):
		t.attr.reset()
		t.attr.add(c)
		t.state = stateAttrName
	}
}

func (t *Tokenizer) feedAttrName(c byte) {
	switch {
	case c == '=':
		t.state = stateAttrValueStart
	case isSpace(c):
		t.state = stateAttrEq
	case isNameByte(c):
		t.attr.add(c)
	default:
		t.state = stateInTag
		t.feedInTag(c)
	}
}

func (t *Tokenizer) feedCloseName(c byte) {
	switch {
	case c == '>':
		t.h.CloseTag(t.name.bytes())
		t.state = stateText
	case isSpace(c):
		t.state = stateCloseEnd
	default:
		t.name.add(c)
	}
}

func (t *Tokenizer) feedComment(c byte) {
	switch {
	case c == '-':
		t.dashes++
	case c == '>' && t.dashes >= 2:
		t.state = stateText
	default:
		t.dashes = 0
	}
}

func (t *Tokenizer) feedDecl(c byte) {
	if c == '>' {
		t.state = stateText
	}
}

func standardEntity(name []byte) (byte, bool) {
	switch string(name) {
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "amp":
		return '&', true
	case "apos":
		return '\'', true
	case "quot":
		return '"', true
	}
	return 0, false
}

func parseCharRef(name []byte) (rune, bool) {
	if len(name) < 2 || name[0] != '#' {
		return 0, false
	}
	digits := name[1:]
	base := rune(10)
	if digits[0] == 'x' || digits[0] == 'X' {
		base = 16
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, false
	}
	var r rune
	for _, c := range digits {
		d, ok := digitValue(c, base)
		if !ok {
			return 0, false
		}
		r = r*base + d
		if r > utf8.MaxRune {
			return 0, false
		}
	}
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

func digitValue(c byte, base rune) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case base == 16 && 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true
	case base == 16 && 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '<', '>', '/', '=', '"', '\'', '&', '!', '?':
		return false
	}
	return true
}
