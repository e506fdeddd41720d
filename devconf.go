// Package devconf turns device config files and binary config messages into
// a validated Config record.
//
// Both inputs run through the same cycle: the settings table is filled by a
// parser, every valid value is applied onto a default record, and the result
// is checked against whole-record rules. A rejected input leaves a record
// with StatusFailure; the errors of the cycle are returned as an
// errors.CodeList.
package devconf

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacoelho/devconf/internal/loader"
	"github.com/jacoelho/devconf/internal/parser"
	"github.com/jacoelho/devconf/internal/pipeline"
	"github.com/jacoelho/devconf/internal/setting"
)

const loadHeader = "[ERROR] the config file could not be loaded:"

type (
	fileProcessor    = pipeline.Processor[Config, *Config, []byte]
	messageProcessor = pipeline.Processor[Config, *Config, parser.Message]
)

// Processor processes config files and messages with one set of options.
// Each input kind keeps its own settings, so a Processor allocates nothing
// per cycle beyond what the loader reads. It is not safe for concurrent use.
type Processor struct {
	opts    resolvedOptions
	file    *fileProcessor
	message *messageProcessor

	// last is the source of the most recent cycle, for Report.
	last    reporter
	loadErr error
}

type reporter interface {
	Report(w io.Writer) error
}

// NewProcessor returns a processor configured by opts.
func NewProcessor(opts Options) (*Processor, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("devconf options: %w", err)
	}
	p := &Processor{opts: resolved}
	p.file = pipeline.New[Config, *Config](pipeline.Config[Config, []byte]{
		Settings: DefaultSettings(),
		NewParser: func(s []setting.Setting[Config]) parser.Parser[[]byte] {
			return parser.NewTagParser(s)
		},
		Mode:   setting.ModeFile,
		Rules:  DefaultRules(),
		Logger: resolved.logger.With(slog.String("input", "file")),
	})
	p.message = pipeline.New[Config, *Config](pipeline.Config[Config, parser.Message]{
		Settings: DefaultSettings(),
		NewParser: func(s []setting.Setting[Config]) parser.Parser[parser.Message] {
			return parser.NewMessageParser(s)
		},
		Mode:   setting.ModeMessage,
		Rules:  DefaultRules(),
		Logger: resolved.logger.With(slog.String("input", "message")),
	})
	return p, nil
}

// ProcessMessage runs one cycle over a binary config message. A nil data
// means no message was received.
func (p *Processor) ProcessMessage(data []byte) (Config, error) {
	p.last, p.loadErr = p.message, nil
	return p.message.Run(parser.Message{Data: data})
}

// ProcessDocument runs one cycle over the text of a config file.
func (p *Processor) ProcessDocument(doc []byte) (Config, error) {
	p.last, p.loadErr = p.file, nil
	return p.file.Run(doc)
}

// ProcessFile loads name from fsys and runs one cycle over it. When the file
// cannot be loaded the default record is returned with StatusFailure and an
// error wrapping one of the errors.IOError kinds.
func (p *Processor) ProcessFile(fsys fs.FS, name string) (Config, error) {
	doc, err := loader.ReadFile(fsys, name, p.opts.load)
	if err != nil {
		p.last, p.loadErr = nil, err
		p.opts.logger.LogAttrs(context.Background(), slog.LevelWarn, "config file unreadable",
			slog.String("file", name),
			slog.String("error", err.Error()))
		cfg := DefaultConfig()
		cfg.SetStatus(StatusFailure)
		return cfg, err
	}
	return p.ProcessDocument(doc)
}

// Report writes the error report of the last cycle. It writes nothing when
// the last cycle was accepted.
func (p *Processor) Report(w io.Writer) error {
	if p.loadErr != nil {
		_, err := fmt.Fprintf(w, "%s\n  %v\n", loadHeader, p.loadErr)
		return err
	}
	if p.last == nil {
		return nil
	}
	return p.last.Report(w)
}

// ProcessConfigMessage processes a binary config message with default
// options and returns the resulting record.
func ProcessConfigMessage(data []byte) Config {
	p, err := NewProcessor(NewOptions())
	if err != nil {
		panic(err)
	}
	cfg, _ := p.ProcessMessage(data)
	return cfg
}

// ProcessConfigFile processes the config file at filename with default
// options and returns the resulting record.
func ProcessConfigFile(filename string) Config {
	p, err := NewProcessor(NewOptions())
	if err != nil {
		panic(err)
	}
	cfg, _ := p.ProcessFile(os.DirFS(filepath.Dir(filename)), filepath.Base(filename))
	return cfg
}
