// Package chain implements algorithm chaining (spec.md §4.8): a compressed
// file can carry one or more embedded algorithm definitions ahead of its
// data, each one transforming the stream before the next stage (or the
// final user-visible writer) sees it.
package chain

import (
	"errors"

	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/interp"
	"github.com/Priyanshu23/filterc/intstream"
)

// HeaderEqual compares two header AST subtrees for equality. DecompressSelector
// uses it, via ast.IsAlgorithmFile, to recognize the data algorithm: the one
// stage whose SourceHeader equals its ReadHeader, which writes the
// user-visible output.
type HeaderEqual func(a, b ast.Ref) bool

// ErrNoDataAlgorithm is returned by Run when none of the given stages is
// recognized as the data algorithm, so the chain never reaches the
// user-visible writer.
var ErrNoDataAlgorithm = errors.New("chain: no stage recognized as the data algorithm")

// DecompressSelector drives a sequence of algorithm stages end to end. At
// each stage it consults IsDataAlgorithm (via headerEq) rather than trusting
// the stages' order: every stage that is not the data algorithm installs as
// an intermediate transform, producing an integer stream consumed by the
// next stage; the first stage recognized as the data algorithm writes the
// user-visible output and ends the chain.
type DecompressSelector struct {
	syms     *ast.SymbolTable
	headerEq HeaderEqual

	// installed records, per installed (non-data) stage in run order, the
	// AST reconstructed from that stage's output trace by InflatorWriter —
	// the decode-time dual of the AST's own (value, format) header pairs
	// (SPEC_FULL.md §9.1). Exposed by Installed for inspection (e.g. test
	// assertions on what an installed stage actually emitted).
	installed []ast.Ref
}

// NewDecompressSelector returns a selector resolving algorithm scopes
// against syms, using headerEq to test SourceHeader/ReadHeader equality.
func NewDecompressSelector(syms *ast.SymbolTable, headerEq HeaderEqual) *DecompressSelector {
	return &DecompressSelector{syms: syms, headerEq: headerEq}
}

// IsDataAlgorithm reports whether stage is the data algorithm: its
// SourceHeader matches its ReadHeader. Run gives that stage the preceding
// stage's integer stream as input, or r when it is the first stage.
func (ds *DecompressSelector) IsDataAlgorithm(stage ast.Ref) bool {
	return ds.syms.IsAlgorithmFile(stage, ds.headerEq)
}

// Installed returns the reconstructed AST of every installed (non-data)
// stage Run has executed so far, in run order.
func (ds *DecompressSelector) Installed() []ast.Ref { return ds.installed }

// Run executes stages in order against r, writing the data algorithm's
// result to out. Each stage is tested with IsDataAlgorithm as it is reached:
// a non-data stage installs (its output feeds the next stage as an integer
// stream, and is simultaneously reconstructed into Installed via
// InflatorWriter); the first data-algorithm stage writes to out and ends the
// chain. Returns ErrNoDataAlgorithm if no stage in the sequence qualifies.
func (ds *DecompressSelector) Run(stages []ast.Ref, r interp.Reader, out interp.Writer) error {
	cur := r
	for _, stage := range stages {
		scope := ds.syms.Node(stage).Enclosing
		isData := ds.IsDataAlgorithm(stage)

		var w interp.Writer
		var stream *intstream.IntStream
		var inflator *interp.InflatorWriter
		if isData {
			w = out
		} else {
			stream = intstream.New()
			intw := interp.NewIntWriter(intstream.NewWriteCursor(stream))
			inflator = interp.NewInflatorWriter(ds.syms)
			w = interp.NewTeeWriter(intw, inflator)
		}

		ip := interp.NewInterpreter(stage, scope, cur, w)
		switch ip.Start() {
		case interp.StateDone:
		case interp.StateFailed:
			return ip.Err()
		default:
			return interp.ErrInternal
		}

		if isData {
			return nil
		}

		if err := w.FreezeEOF(); err != nil {
			return err
		}
		ds.installed = append(ds.installed, inflator.Root())
		cur = interp.NewIntReader(intstream.NewReadCursor(stream))
	}
	return ErrNoDataAlgorithm
}
