package devconf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/jacoelho/devconf/internal/loader"
)

func TestOptionsDefaults(t *testing.T) {
	resolved, err := NewOptions().withDefaults()
	td.CmpNoError(t, err)
	td.Cmp(t, resolved.load, loader.Options{MaxSize: loader.DefaultMaxSize})
	td.CmpNotNil(t, resolved.logger)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero uses default", opts: NewOptions().WithMaxFileSize(0)},
		{name: "custom size", opts: NewOptions().WithMaxFileSize(8192)},
		{name: "negative size", opts: NewOptions().WithMaxFileSize(-1), wantErr: true},
		{name: "huge size", opts: NewOptions().WithMaxFileSize(maxFileSizeLimit + 1), wantErr: true},
		{name: "known charset", opts: NewOptions().WithCharset("latin1")},
		{name: "unknown charset", opts: NewOptions().WithCharset("klingon"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				td.CmpError(t, err)
				_, err = NewProcessor(tt.opts)
				td.CmpError(t, err)
				return
			}
			td.CmpNoError(t, err)
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	var logs bytes.Buffer
	opts, err := DecodeOptions(strings.NewReader(`
max_file_size = 4096
charset = "windows-1252"
log_level = "debug"
`), &logs)
	td.CmpNoError(t, err)

	resolved, err := opts.withDefaults()
	td.CmpNoError(t, err)
	td.Cmp(t, resolved.load, loader.Options{MaxSize: 4096, Charset: "windows-1252"})

	p, err := NewProcessor(opts)
	td.CmpNoError(t, err)
	_, _ = p.ProcessDocument([]byte("<aether>"))
	if !strings.Contains(logs.String(), "level=DEBUG") {
		t.Fatalf("debug records not logged: %q", logs.String())
	}
}

func TestDecodeOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{name: "unknown key", toml: "max_size = 1\n", want: "unknown option keys: max_size"},
		{name: "bad level", toml: "log_level = \"loud\"\n", want: "log_level"},
		{name: "bad syntax", toml: "charset = \n", want: "failed to parse TOML"},
		{name: "invalid value", toml: "max_file_size = -3\n", want: "max file size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOptions(strings.NewReader(tt.toml), nil)
			td.CmpError(t, err)
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("DecodeOptions() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devconf.toml")
	td.CmpNoError(t, os.WriteFile(path, []byte("max_file_size = 2048\n"), 0o600))

	opts, err := LoadOptionsFile(path)
	td.CmpNoError(t, err)
	resolved, err := opts.withDefaults()
	td.CmpNoError(t, err)
	td.Cmp(t, resolved.load.MaxSize, 2048)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.toml"))
	td.CmpError(t, err)
}
