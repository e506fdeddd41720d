package parser

import (
	"io"

	"fortio.org/safecast"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/bitspan"
	"github.com/jacoelho/devconf/internal/setting"
)

// MaxMessageSize is the largest message a single-byte length field can describe.
const MaxMessageSize = 255

const messageHeader = "[ERROR] some errors occurred while parsing the config message:"

// Message is a binary config message. A nil Data means no message was
// received at all.
type Message struct {
	Data []byte
}

// MessageParser copies bit spans of a message into the settings that have one.
type MessageParser[C any] struct {
	settings []setting.Setting[C]
	capacity int
	errs     *errors.Handler
}

// NewMessageParser returns a parser over settings. The parser does not own
// the slice.
func NewMessageParser[C any](settings []setting.Setting[C]) *MessageParser[C] {
	return &MessageParser[C]{
		settings: settings,
		capacity: len(settings),
		errs:     errors.NewHandler(2),
	}
}

// Parse checks msg and, when it is usable, stores the raw bits of every
// setting with a non-zero span. A rejected message leaves every setting
// untouched.
func (p *MessageParser[C]) Parse(msg Message) {
	p.errs.Clear()
	size, err := safecast.Conv[uint32](len(msg.Data))
	if err != nil {
		size = errors.PayloadMax
	}
	if msg.Data == nil {
		p.errs.AddKind(errors.ParseInvalidMessagePointer, 0)
	}
	switch {
	case len(msg.Data) < bitspan.ByteBoundary:
		p.errs.AddKind(errors.ParseInsufficientMessageSize, size)
	case len(msg.Data) > MaxMessageSize:
		p.errs.AddKind(errors.ParseExceedsMaxMessageSize, size)
	}
	if p.errs.HasErrors() {
		return
	}
	for i := range p.settings {
		s := &p.settings[i]
		if !s.InMessage() {
			continue
		}
		s.SetRaw(bitspan.Extract(msg.Data, s.Bits()))
	}
}

func (p *MessageParser[C]) HasErrors() bool { return p.errs.HasErrors() }

// Errors returns the handler holding the parsing errors of the last Parse.
func (p *MessageParser[C]) Errors() *errors.Handler { return p.errs }

// Clear forgets the parsing errors.
func (p *MessageParser[C]) Clear() { p.errs.Clear() }

// Report writes the parsing errors under a header. It writes nothing when
// there are none.
func (p *MessageParser[C]) Report(w io.Writer) error {
	return p.errs.Format(w, messageHeader)
}

// SetSettings replaces the settings. Empty slices and slices larger than the
// original collection are ignored.
func (p *MessageParser[C]) SetSettings(settings []setting.Setting[C]) {
	if len(settings) == 0 || len(settings) > p.capacity {
		return
	}
	p.settings = settings
}
