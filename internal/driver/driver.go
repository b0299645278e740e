// Package driver locates .jack source files, compiles each sequentially
// with a fresh engine per file, and reports status. It is also home to
// the shared debug-dump sink.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/maruel/natural"

	"github.com/jacklang/jackc/internal/debugdump"
	"github.com/jacklang/jackc/internal/diagnostics"
	"github.com/jacklang/jackc/internal/engine"
	"github.com/jacklang/jackc/internal/tokenizer"
	"github.com/jacklang/jackc/internal/vmwriter"
)

// Options configures one compilation run across one or more files.
type Options struct {
	DebugEnabled bool
	DebugFormat  debugdump.Format
	DebugPath    string
	UseColor     bool
	Stdout       io.Writer
	Stderr       io.Writer
}

// ExitOpenFailure and ExitCompileFailure are the process exit code
// contract: 2 means some input file could not be opened, 1 means
// everything else that went wrong, including a fatal diagnostic.
const (
	ExitOK             = 0
	ExitUsage          = 1
	ExitOpenFailure    = 2
	ExitCompileFailure = 1
)

// CollectFiles resolves path to the list of .jack files to compile:
// path itself if it's a file, or every top-level *.jack entry of path
// if it's a directory, naturally ordered so Foo2.jack sorts before
// Foo10.jack.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %q: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}

	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })

	return files, nil
}

func outputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".vm"
}

// CompileAll compiles every file in files sequentially, each with a
// fresh tokenizer/engine/writer — the only shared resource is the
// debug sink, which stays unsynchronized because compilation never
// overlaps. It returns the process exit code to use.
func CompileAll(files []string, opts Options) int {
	var debugOut io.WriteCloser
	if opts.DebugEnabled {
		f, err := os.OpenFile(opts.debugPathOrDefault(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(opts.Stderr, "could not open debug file: %v\n", err)
			return ExitOpenFailure
		}
		defer f.Close()
		debugOut = f
	}

	exit := ExitOK
	for _, path := range files {
		status, err := compileOne(path, debugOut, opts)
		switch {
		case err == nil:
			opts.printf(color.FgGreen, "Saved as %q\n", status)
		case isOpenFailure(err):
			opts.printf(color.FgRed, "Failed to open %q: %v\n", path, err)
			if exit < ExitOpenFailure {
				exit = ExitOpenFailure
			}
		default:
			opts.printDiagnostic(err)
			if exit < ExitCompileFailure {
				exit = ExitCompileFailure
			}
		}
	}
	return exit
}

type openError struct{ error }

func isOpenFailure(err error) bool {
	_, ok := err.(openError)
	return ok
}

func (o Options) debugPathOrDefault() string {
	if o.DebugPath != "" {
		return o.DebugPath
	}
	return "debug.txt"
}

func (o Options) printf(c color.Attribute, format string, args ...any) {
	if o.Stdout == nil {
		return
	}
	if o.UseColor {
		color.New(c).Fprintf(o.Stdout, format, args...)
		return
	}
	fmt.Fprintf(o.Stdout, format, args...)
}

func (o Options) printDiagnostic(err error) {
	if de, ok := err.(*diagnostics.Error); ok {
		fmt.Fprintln(o.Stderr, de.Format(o.UseColor))
		return
	}
	fmt.Fprintln(o.Stderr, err)
}

// compileOne reads path, compiles it into its sibling .vm file, and, if
// debug dumping is enabled, appends one trace per subroutine plus one
// trace for the class itself to debugOut. The input and output file
// handles are scoped to this one call.
func compileOne(path string, debugOut io.Writer, opts Options) (string, error) {
	opts.printf(color.FgCyan, "Compiling %q\n", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return "", openError{err}
	}

	out := outputPath(path)
	outFile, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", openError{err}
	}
	defer outFile.Close()

	tok, err := tokenizer.New(string(src))
	if err != nil {
		return "", err
	}

	writer := vmwriter.New(outFile)
	eng := engine.New(tok, writer, path, string(src))

	if err := eng.Compile(); err != nil {
		return "", err
	}

	if opts.DebugEnabled && debugOut != nil {
		if err := dumpDebug(debugOut, eng.Traces(), opts.DebugFormat); err != nil {
			return "", err
		}
	}

	return out, nil
}

// dumpDebug writes one dump per recorded trace, in the order Engine
// recorded them: one per subroutine, then the class itself.
func dumpDebug(w io.Writer, traces []engine.SymbolTrace, format debugdump.Format) error {
	write := debugdump.WriteText
	if format == debugdump.JSON {
		write = debugdump.WriteJSON
	}
	for _, trace := range traces {
		if err := write(w, trace.Tag, trace.Table); err != nil {
			return err
		}
	}
	return nil
}
