// Package loader reads config files from an fs.FS with a size cap and
// decodes them to UTF-8.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	conferrors "github.com/jacoelho/devconf/errors"
)

// DefaultMaxSize is the largest config file accepted by default, in bytes.
const DefaultMaxSize = 3072

// Options configures ReadFile.
type Options struct {
	// MaxSize caps the file size in bytes. Zero uses DefaultMaxSize.
	MaxSize int
	// Charset is a WHATWG encoding label such as "windows-1252". Empty
	// means UTF-8 with an optional byte order mark.
	Charset string
}

// LookupCharset resolves an encoding label. The empty label resolves to
// UTF-8 with byte order mark detection.
func LookupCharset(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	return enc, nil
}

// ReadFile reads name from fsys and decodes it to UTF-8. Failures wrap one of
// the conferrors.IOError kinds, so callers can use errors.Is with them.
func ReadFile(fsys fs.FS, name string, opts Options) ([]byte, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	enc, err := LookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("load %q: %w", name, conferrors.InvalidName)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, classifyOpen(fsys, name, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", name, conferrors.IOUnspecified, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("load %s: %w", name, conferrors.InvalidName)
	}
	if info.Size() > int64(maxSize) {
		return nil, fmt.Errorf("load %s: %w (%d > %d bytes)", name, conferrors.FileTooLarge, info.Size(), maxSize)
	}

	// Size from Stat is advisory; the limited read enforces the cap.
	data, err := io.ReadAll(io.LimitReader(f, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", name, conferrors.IOUnspecified, err)
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("load %s: %w (more than %d bytes)", name, conferrors.FileTooLarge, maxSize)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: decode: %w", name, err)
	}
	return out, nil
}

func classifyOpen(fsys fs.FS, name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if dir := path.Dir(name); dir != "." {
			if _, statErr := fs.Stat(fsys, dir); statErr != nil {
				return conferrors.PathNotFound
			}
		}
		return conferrors.FileNotFound
	case errors.Is(err, fs.ErrInvalid):
		return conferrors.InvalidName
	default:
		return fmt.Errorf("%w: %w", conferrors.IOUnspecified, err)
	}
}
