// Command casm is the compressor/decompressor front end (spec.md §6): it
// reads a filter-text-described algorithm's byte or integer stream, runs it
// through the interpreter, and writes the transcoded result.
//
// The filter-text lexer/parser is an external collaborator outside this
// module's scope (spec.md §6.4), so casm ships one built-in algorithm — an
// unbounded byte copy — to exercise -i/-o/-m/-t/-v/--expect-fail end to end.
// A real deployment wires in a parsed algorithm in place of identityAlgorithm.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/cursor"
	"github.com/Priyanshu23/filterc/interp"
	"github.com/Priyanshu23/filterc/pagequeue"
)

var (
	inputPath  = flag.String("i", "-", "input file, or - for stdin")
	outputPath = flag.String("o", "-", "output file, or - for stdout")
	minimize   = flag.Bool("m", false, "minimize block length prefixes in the output")
	traceFlag  = flag.Bool("t", false, "trace progress to stderr")
	expectFail = flag.Bool("expect-fail", false, "invert the exit status: succeed only if the run fails")
	verbosity  int
)

// verboseFlag implements flag.Value so -v/--verbose can be repeated to raise
// verbosity, the way most stdlib-flag CLIs in the pack handle counters.
type verboseFlag struct{}

func (verboseFlag) String() string   { return "" }
func (verboseFlag) IsBoolFlag() bool { return true }
func (verboseFlag) Set(string) error { verbosity++; return nil }

func init() {
	flag.Var(verboseFlag{}, "v", "increase verbosity (repeatable)")
	flag.Var(verboseFlag{}, "verbose", "alias for -v")
}

func logf(level int, format string, args ...interface{}) {
	if verbosity >= level || *traceFlag {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func main() {
	flag.Parse()

	err := run()
	failed := err != nil
	if failed {
		fmt.Fprintf(os.Stderr, "casm: %v\n", err)
	}
	if *expectFail {
		failed = !failed
	}
	if failed {
		os.Exit(1)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// identityAlgorithm is casm's one built-in filter: copy every input byte to
// the output, unchanged (ast.KindLoopUnbounded over a KindUint8 terminal).
func identityAlgorithm(syms *ast.SymbolTable) ast.Ref {
	body := syms.New(ast.KindUint8)
	return syms.New(ast.KindLoopUnbounded, body)
}

func run() error {
	in, err := openInput(*inputPath)
	if err != nil {
		return fmt.Errorf("open input %q: %w", *inputPath, err)
	}
	defer in.Close()

	out, err := openOutput(*outputPath)
	if err != nil {
		return fmt.Errorf("open output %q: %w", *outputPath, err)
	}
	defer out.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	logf(1, "casm: read %d bytes from %s", len(data), *inputPath)

	inQ := pagequeue.New()
	ic := cursor.NewByteCursor(inQ, 0)
	if err := ic.WriteBytes(data); err != nil {
		return fmt.Errorf("buffer input: %w", err)
	}
	inQ.FreezeEOF(int64(len(data)))

	syms := ast.NewSymbolTable(nil)
	root := identityAlgorithm(syms)

	reader := interp.NewByteReader(cursor.NewByteCursor(inQ, 0))
	outQ := pagequeue.New()
	writer := interp.NewByteWriter(cursor.NewByteCursor(outQ, 0))
	writer.SetMinimizeBlocks(*minimize)

	ip := interp.NewInterpreter(root, syms, reader, writer)
	st := ip.Start()
	for st == interp.StateSuspended {
		logf(2, "casm: interpreter suspended, resuming")
		st = ip.Resume()
	}
	if st == interp.StateFailed {
		return fmt.Errorf("interpreter failed: %w", ip.Err())
	}

	if err := writer.FreezeEOF(); err != nil {
		return fmt.Errorf("freeze output: %w", err)
	}

	size := outQ.EOF()
	buf := make([]byte, size)
	if size > 0 {
		if _, err := outQ.Read(0, buf); err != nil {
			return fmt.Errorf("read output buffer: %w", err)
		}
	}
	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logf(1, "casm: wrote %d bytes to %s", len(buf), *outputPath)
	return nil
}
