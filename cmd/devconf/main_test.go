package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/jacoelho/devconf"
	"github.com/jacoelho/devconf/internal/bitspan"
)

const validDoc = `<aether>
  <usb><detection>off</detection><detection-interval-ms>1000</detection-interval-ms></usb>
  <trigger>
    <time>
      <enabled>1</enabled><interval-ms>1000</interval-ms>
      <activate-sensors><thp>1</thp><accel-gyro>1</accel-gyro><magnet>1</magnet><light>1</light></activate-sensors>
      <write-to><lorawan-priority>0</lorawan-priority><lora>1</lora><sd>1</sd></write-to>
    </time>
    <light>
      <enabled>0</enabled><low-threshold>1</low-threshold><high-threshold>2</high-threshold>
      <activate-sensors><thp>0</thp><accel-gyro>0</accel-gyro><magnet>0</magnet><light>0</light></activate-sensors>
      <write-to><lorawan-priority>0</lorawan-priority><lora>0</lora><sd>0</sd></write-to>
    </light>
    <acceleration>
      <enabled>0</enabled>
      <activate-sensors><thp>0</thp><accel-gyro>0</accel-gyro><magnet>0</magnet><light>0</light></activate-sensors>
      <write-to><lorawan-priority>0</lorawan-priority><lora>0</lora><sd>0</sd></write-to>
    </acceleration>
    <orientation>
      <enabled>0</enabled>
      <activate-sensors><thp>0</thp><accel-gyro>0</accel-gyro><magnet>0</magnet><light>0</light></activate-sensors>
      <write-to><lorawan-priority>0</lorawan-priority><lora>0</lora><sd>0</sd></write-to>
    </orientation>
  </trigger>
</aether>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWithArgs(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestFileAccepted(t *testing.T) {
	path := writeFile(t, "aether.xml", validDoc)
	code, stdout, stderr := runCLI(t, "", "file", path)
	td.Cmp(t, code, exitOK, stderr)
	td.Cmp(t, stderr, "")
	if !strings.Contains(stdout, "detection:") || !strings.Contains(stdout, "off") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestFileRejected(t *testing.T) {
	path := writeFile(t, "aether.xml", strings.Replace(validDoc, "<lora>1</lora><sd>1</sd>", "<lora>0</lora><sd>0</sd>", 1))
	code, stdout, stderr := runCLI(t, "", "--color", "off", "file", path)
	td.Cmp(t, code, exitRejected)
	if !strings.HasPrefix(stderr, "[ERROR] the config does not satisfy every rule:") {
		t.Fatalf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout, "(failure)") {
		t.Fatalf("stdout = %q, want the failure record", stdout)
	}
}

func TestFileColoredReport(t *testing.T) {
	path := writeFile(t, "aether.xml", "<aether>")
	code, _, stderr := runCLI(t, "", "--color", "on", "file", path)
	td.Cmp(t, code, exitRejected)
	if !strings.Contains(stderr, "\x1b[") {
		t.Fatalf("stderr = %q, want ANSI colors", stderr)
	}
}

func TestFileMissing(t *testing.T) {
	code, _, stderr := runCLI(t, "", "file", filepath.Join(t.TempDir(), "nope.xml"))
	td.Cmp(t, code, exitRejected)
	if !strings.Contains(stderr, "file could not be found") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing argument", args: []string{"file"}},
		{name: "unknown flag", args: []string{"file", "--nope", "x"}},
		{name: "bad color", args: []string{"--color", "sometimes", "file", "x"}},
		{name: "bad charset", args: []string{"--charset", "klingon", "file", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			td.Cmp(t, code, exitUsage)
			if !strings.HasPrefix(stderr, "error:") {
				t.Fatalf("stderr = %q", stderr)
			}
		})
	}
}

func TestOptionsFile(t *testing.T) {
	doc := writeFile(t, "aether.xml", validDoc)
	opts := writeFile(t, "devconf.toml", "max_file_size = 16\n")
	code, _, stderr := runCLI(t, "", "--options", opts, "file", doc)
	td.Cmp(t, code, exitRejected)
	if !strings.Contains(stderr, "file is too large") {
		t.Fatalf("stderr = %q", stderr)
	}

	bad := writeFile(t, "bad.toml", "nope = 1\n")
	code, _, _ = runCLI(t, "", "--options", bad, "file", doc)
	td.Cmp(t, code, exitUsage)
}

func sampleMessage() []byte {
	data := make([]byte, bitspan.ByteBoundary)
	for _, s := range devconf.DefaultSettings() {
		if !s.InMessage() {
			continue
		}
		var v uint64
		switch s.ID() {
		case devconf.SettingUsbDetection:
			v = uint64(devconf.UsbOff)
		case devconf.SettingUsbIntervalMS, devconf.SettingTimeIntervalMS:
			v = 2000
		case devconf.SettingTimeEnabled, devconf.SettingTimeWriteToSD:
			v = 1
		}
		bitspan.Insert(data, s.Bits(), v)
	}
	return data
}

func TestMessageFromStdinHex(t *testing.T) {
	encoded := hex.EncodeToString(sampleMessage())
	code, stdout, stderr := runCLI(t, encoded[:64]+"\n"+encoded[64:], "message", "--hex", "-")
	td.Cmp(t, code, exitOK, stderr)
	if !strings.Contains(stdout, "(operational)") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestMessageRejected(t *testing.T) {
	path := writeFile(t, "short.bin", "\x01\x02")
	code, _, stderr := runCLI(t, "", "message", path)
	td.Cmp(t, code, exitRejected)
	if !strings.Contains(stderr, "insufficient message size") {
		t.Fatalf("stderr = %q", stderr)
	}

	code, _, _ = runCLI(t, "zz", "message", "--hex", "-")
	td.Cmp(t, code, exitRejected)
}

func TestSnapshotAndShow(t *testing.T) {
	msg := writeFile(t, "msg.bin", string(sampleMessage()))
	snap := filepath.Join(t.TempDir(), "last.msgpack")

	code, _, stderr := runCLI(t, "", "message", "--snapshot", snap, msg)
	td.Cmp(t, code, exitOK, stderr)

	code, stdout, stderr := runCLI(t, "", "show", snap)
	td.Cmp(t, code, exitOK, stderr)
	if !strings.HasPrefix(stdout, "# "+msg+" saved ") {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stdout, "interval-ms:") || !strings.Contains(stdout, "2000") {
		t.Fatalf("stdout = %q", stdout)
	}

	code, _, _ = runCLI(t, "", "show", filepath.Join(t.TempDir(), "none.msgpack"))
	td.Cmp(t, code, exitRejected)
}
