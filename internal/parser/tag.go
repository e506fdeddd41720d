package parser

import (
	"io"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/saxml"
	"github.com/jacoelho/devconf/internal/setting"
)

const (
	fileHeader       = "[ERROR] some errors occurred while parsing the config file:"
	minErrorCapacity = 4
)

// TagParser matches the leaf content of a nested-tag document against the
// tag paths of its settings.
//
// Each setting tracks how many leading tags of its path are currently open.
// An open tag advances every setting that is on track at the current depth
// and whose next tag matches; the last one advanced becomes the target.
// Content is stored into the target only when its whole path is open.
// Tags nested deeper than the longest path are never matched.
type TagParser[C any] struct {
	settings []setting.Setting[C]
	levels   []int8
	maxDepth int
	depth    int
	target   int
	sawTag   bool
	pos      Position
	names    nameStack
	tok      *saxml.Tokenizer
	errs     *errors.Handler
}

// NewTagParser returns a parser over settings. The parser does not own the
// slice; every scratch buffer is allocated here and reused by Parse.
func NewTagParser[C any](settings []setting.Setting[C]) *TagParser[C] {
	p := &TagParser[C]{
		settings: settings,
		levels:   make([]int8, len(settings)),
		maxDepth: setting.MaxDepth(settings),
		pos:      StartPosition(),
		names:    newNameStack(),
		errs:     errors.NewHandler(max(len(settings), minErrorCapacity)),
	}
	p.tok = saxml.New(tagEvents[C]{p})
	return p
}

// Parse consumes doc one byte at a time. An empty doc records a single
// empty_config error and nothing else.
func (p *TagParser[C]) Parse(doc []byte) {
	p.errs.Clear()
	if len(doc) == 0 {
		start := StartPosition()
		p.errs.AddPosition(errors.ParseEmptyConfig, start.Column, start.Line)
		return
	}
	p.reset()
	for _, c := range doc {
		p.tok.Feed(c)
		p.pos.Advance(c)
	}
	p.tok.Close()
	p.verify()
}

func (p *TagParser[C]) reset() {
	p.pos = StartPosition()
	clear(p.levels)
	p.depth = 0
	p.target = 0
	p.sawTag = false
	p.names.reset()
	p.tok.Reset()
}

func (p *TagParser[C]) verify() {
	switch {
	case p.depth > 0:
		p.errs.AddKind(errors.ParseMissingClosingTag, uint32(p.depth))
	case p.depth < 0:
		p.errs.AddKind(errors.ParseMissingOpeningTag, uint32(-p.depth))
	}
	if !p.sawTag {
		p.errs.AddPosition(errors.ParseNoTagsFound, p.pos.Column, p.pos.Line)
	}
}

func (p *TagParser[C]) openTag(name []byte) {
	if p.depth >= 0 && p.depth < p.maxDepth {
		for i := range p.settings {
			if int(p.levels[i]) != p.depth {
				continue
			}
			if p.settings[i].Path().Tag(p.depth) != string(name) {
				continue
			}
			p.levels[i] = int8(p.depth + 1)
			p.target = i
		}
	}
	p.depth++
	p.sawTag = true
	p.names.push(name)
}

func (p *TagParser[C]) closeTag(name []byte) {
	p.depth--
	switch p.names.pop(name) {
	case closeUnclosed:
		p.errs.AddPosition(errors.ParseMissingClosingTag, p.pos.Column, p.pos.Line)
	case closeNotOpen:
		p.errs.AddPosition(errors.ParseMissingOpeningTag, p.pos.Column, p.pos.Line)
	}
}

func (p *TagParser[C]) content(text []byte) {
	if len(p.settings) == 0 {
		return
	}
	t := p.target
	if int(p.levels[t]) != p.depth || !p.leafReached(t) {
		return
	}
	if !p.settings[t].SetText(text) {
		p.errs.AddPosition(errors.ParseExceedsMaxValueLength, p.pos.Column, p.pos.Line)
	}
	p.levels[t] = 0
}

// leafReached reports whether every tag of the setting's path is open.
// Padded paths end early at their first empty tag.
func (p *TagParser[C]) leafReached(i int) bool {
	if p.depth == p.maxDepth {
		return true
	}
	return p.depth < p.maxDepth && p.settings[i].Path().IsEmpty(p.depth)
}

func (p *TagParser[C]) HasErrors() bool { return p.errs.HasErrors() }

// Errors returns the handler holding the parsing errors of the last Parse.
func (p *TagParser[C]) Errors() *errors.Handler { return p.errs }

// Clear forgets the parsing errors.
func (p *TagParser[C]) Clear() { p.errs.Clear() }

// Position returns the position reached by the last Parse.
func (p *TagParser[C]) Position() Position { return p.pos }

// Report writes the parsing errors under a header. It writes nothing when
// there are none.
func (p *TagParser[C]) Report(w io.Writer) error {
	return p.errs.Format(w, fileHeader)
}

// SetSettings replaces the settings. Empty slices and slices larger than the
// original collection are ignored.
func (p *TagParser[C]) SetSettings(settings []setting.Setting[C]) {
	if len(settings) == 0 || len(settings) > cap(p.levels) {
		return
	}
	p.settings = settings
	p.levels = p.levels[:len(settings)]
	p.maxDepth = setting.MaxDepth(settings)
}

// tagEvents adapts the tokenizer callbacks to the parser.
type tagEvents[C any] struct {
	p *TagParser[C]
}

func (e tagEvents[C]) OpenTag(name []byte)  { e.p.openTag(name) }
func (e tagEvents[C]) CloseTag(name []byte) { e.p.closeTag(name) }
func (e tagEvents[C]) Content(text []byte)  { e.p.content(text) }

// Attribute is ignored; settings only bind element content.
func (e tagEvents[C]) Attribute(_, _ []byte) {}
