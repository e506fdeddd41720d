package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jacoelho/devconf"
	"github.com/jacoelho/devconf/internal/snapshot"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

// exitError carries an exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	optionsPath string
	colorMode   string
	charset     string
	snapshotTo  string
	hexInput    bool
}

func runWithArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			_ = writef(stderr, "error: %v\n", exit.err)
		}
		return exit.code
	}
	_ = writef(stderr, "error: %v\n", err)
	return exitUsage
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devconf",
		Short:         "Process device config files and config messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch a.colorMode {
			case "auto", "on", "off":
				return nil
			default:
				return fmt.Errorf("invalid --color %q (want auto|on|off)", a.colorMode)
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.optionsPath, "options", "", "TOML file with processing options")
	flags.StringVar(&a.colorMode, "color", "auto", "colorize output (auto|on|off)")
	flags.StringVar(&a.charset, "charset", "", "encoding of config files (default UTF-8)")

	file := &cobra.Command{
		Use:   "file <config.xml>",
		Short: "Process a config file and print the resulting record",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFile,
	}
	file.Flags().StringVar(&a.snapshotTo, "snapshot", "", "save the accepted record to this msgpack file")

	message := &cobra.Command{
		Use:   "message <message.bin|->",
		Short: "Process a binary config message and print the resulting record",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runMessage,
	}
	message.Flags().StringVar(&a.snapshotTo, "snapshot", "", "save the accepted record to this msgpack file")
	message.Flags().BoolVar(&a.hexInput, "hex", false, "read the message as hexadecimal text")

	show := &cobra.Command{
		Use:   "show <snapshot.msgpack>",
		Short: "Print a saved record",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runShow,
	}

	root.AddCommand(file, message, show)
	return root
}

func (a *app) processor() (*devconf.Processor, error) {
	opts := devconf.NewOptions()
	if a.optionsPath != "" {
		loaded, err := devconf.LoadOptionsFile(a.optionsPath)
		if err != nil {
			return nil, &exitError{code: exitUsage, err: err}
		}
		opts = loaded
	}
	if a.charset != "" {
		opts = opts.WithCharset(a.charset)
	}
	p, err := devconf.NewProcessor(opts)
	if err != nil {
		return nil, &exitError{code: exitUsage, err: err}
	}
	return p, nil
}

func (a *app) runFile(_ *cobra.Command, args []string) error {
	p, err := a.processor()
	if err != nil {
		return err
	}
	path := args[0]
	cfg, procErr := p.ProcessFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	return a.finish(p, cfg, procErr, path)
}

func (a *app) runMessage(_ *cobra.Command, args []string) error {
	p, err := a.processor()
	if err != nil {
		return err
	}
	data, err := a.readMessage(args[0])
	if err != nil {
		return &exitError{code: exitRejected, err: err}
	}
	cfg, procErr := p.ProcessMessage(data)
	return a.finish(p, cfg, procErr, args[0])
}

func (a *app) readMessage(name string) ([]byte, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(bufio.NewReader(a.stdin))
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read message %s: %w", name, err)
	}
	if !a.hexInput {
		return data, nil
	}
	text := strings.Join(strings.Fields(string(data)), "")
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex message %s: %w", name, err)
	}
	return decoded, nil
}

func (a *app) runShow(_ *cobra.Command, args []string) error {
	s, found, err := snapshot.Load[devconf.Config](args[0])
	if err != nil {
		return &exitError{code: exitRejected, err: err}
	}
	if !found {
		return &exitError{code: exitRejected, err: fmt.Errorf("snapshot %s does not exist", args[0])}
	}
	if err := writef(a.stdout, "# %s saved %s\n", s.Source, s.SavedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	return s.Record.Dump(a.stdout)
}

func (a *app) finish(p *devconf.Processor, cfg devconf.Config, procErr error, source string) error {
	var report bytes.Buffer
	if err := p.Report(&report); err != nil {
		return err
	}
	if err := a.writeReport(report.Bytes()); err != nil {
		return err
	}
	if err := cfg.Dump(a.stdout); err != nil {
		return err
	}
	if procErr != nil {
		return &exitError{code: exitRejected}
	}
	if a.snapshotTo == "" {
		return nil
	}
	s := snapshot.Snapshot[devconf.Config]{Source: source, SavedAt: time.Now().UTC(), Record: cfg}
	if err := snapshot.Save(a.snapshotTo, s); err != nil {
		return &exitError{code: exitRejected, err: err}
	}
	return nil
}

// writeReport copies report to stderr, coloring the section headers.
func (a *app) writeReport(report []byte) error {
	useColor := a.colorMode == "on" || (a.colorMode == "auto" && isTerminal(a.stderr))
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	if useColor {
		errColor.EnableColor()
		warnColor.EnableColor()
	} else {
		errColor.DisableColor()
		warnColor.DisableColor()
	}

	sc := bufio.NewScanner(bytes.NewReader(report))
	for sc.Scan() {
		line := sc.Text()
		var err error
		switch {
		case strings.HasPrefix(line, "[ERROR]"):
			_, err = errColor.Fprintln(a.stderr, line)
		case strings.HasPrefix(line, "[WARNING]"):
			_, err = warnColor.Fprintln(a.stderr, line)
		default:
			err = writeln(a.stderr, line)
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
