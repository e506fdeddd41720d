package devconf

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jacoelho/devconf/internal/loader"
)

// maxFileSizeLimit bounds WithMaxFileSize so a typo cannot make the loader
// buffer arbitrary files.
const maxFileSizeLimit = 1 << 20

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved() int {
	if !o.set {
		return 0
	}
	return o.value
}

// Options configures a Processor.
type Options struct {
	logger      *slog.Logger
	charset     string
	maxFileSize intOption
}

type resolvedOptions struct {
	logger *slog.Logger
	load   loader.Options
}

// NewOptions returns a default, valid options value.
func NewOptions() Options {
	return Options{}
}

// WithMaxFileSize caps config files in bytes (0 uses the 3072 byte default).
func (o Options) WithMaxFileSize(value int) Options {
	o.maxFileSize = intOption{value: value, set: true}
	return o
}

// WithCharset sets the encoding label of config files (empty means UTF-8).
func (o Options) WithCharset(label string) Options {
	o.charset = label
	return o
}

// WithLogger sets the logger that receives rejected cycles (nil discards).
func (o Options) WithLogger(logger *slog.Logger) Options {
	o.logger = logger
	return o
}

// Validate validates option values.
func (o Options) Validate() error {
	_, err := o.withDefaults()
	return err
}

func (o Options) withDefaults() (resolvedOptions, error) {
	size := o.maxFileSize.resolved()
	if size < 0 || size > maxFileSizeLimit {
		return resolvedOptions{}, fmt.Errorf("max file size %d out of range [0, %d]", size, maxFileSizeLimit)
	}
	if _, err := loader.LookupCharset(o.charset); err != nil {
		return resolvedOptions{}, err
	}
	return resolvedOptions{
		logger: cmp.Or(o.logger, slog.New(slog.DiscardHandler)),
		load: loader.Options{
			MaxSize: cmp.Or(size, loader.DefaultMaxSize),
			Charset: o.charset,
		},
	}, nil
}

type optionsFile struct {
	MaxFileSize *int   `toml:"max_file_size"`
	Charset     string `toml:"charset"`
	LogLevel    string `toml:"log_level"`
}

// DecodeOptions reads options from TOML. A non-empty log_level installs a
// text logger writing to logOut. Unknown keys are rejected.
func DecodeOptions(r io.Reader, logOut io.Writer) (Options, error) {
	var f optionsFile
	meta, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("unknown option keys: %s", strings.Join(keys, ", "))
	}

	opts := NewOptions().WithCharset(f.Charset)
	if f.MaxFileSize != nil {
		opts = opts.WithMaxFileSize(*f.MaxFileSize)
	}
	if f.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(f.LogLevel)); err != nil {
			return Options{}, fmt.Errorf("log_level: %w", err)
		}
		opts = opts.WithLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads options from the TOML file at path. Logs go to
// standard error.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	opts, err := DecodeOptions(f, os.Stderr)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}
