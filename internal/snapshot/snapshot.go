// Package snapshot persists the last accepted config record as msgpack.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is bumped whenever the stored layout changes incompatibly.
const Version = 1

// ErrVersion reports a snapshot written with another layout version.
var ErrVersion = errors.New("snapshot version mismatch")

// Snapshot is the stored envelope around a record.
type Snapshot[T any] struct {
	Version int       `msgpack:"v"`
	Source  string    `msgpack:"src"`
	SavedAt time.Time `msgpack:"at"`
	Record  T         `msgpack:"rec"`
}

// Encode writes s to w.
func Encode[T any](w io.Writer, s Snapshot[T]) error {
	s.Version = Version
	return msgpack.NewEncoder(w).Encode(&s)
}

// Decode reads one snapshot from r.
func Decode[T any](r io.Reader) (Snapshot[T], error) {
	var s Snapshot[T]
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot[T]{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != Version {
		return Snapshot[T]{}, fmt.Errorf("%w: got %d, want %d", ErrVersion, s.Version, Version)
	}
	return s, nil
}

// Save writes s to path atomically: the file is replaced only after the
// whole snapshot was written.
func Save[T any](path string, s Snapshot[T]) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads the snapshot at path. A missing file reports found == false
// and no error.
func Load[T any](path string) (s Snapshot[T], found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot[T]{}, false, nil
		}
		return Snapshot[T]{}, false, err
	}
	defer f.Close()

	s, err = Decode[T](f)
	if err != nil {
		return Snapshot[T]{}, false, fmt.Errorf("load %s: %w", path, err)
	}
	return s, true, nil
}
