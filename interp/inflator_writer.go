package interp

import (
	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/format"
)

// InflatorWriter records a linear trace of WriteValue/WriteAction calls as
// an AST fragment (SPEC_FULL.md §9.1). Evaluating the fragment replays the
// same writes; it does not reconstruct the algorithm definition that
// produced the trace.
//
// Every written integer becomes a KindInteger leaf; every action becomes a
// KindCallback referencing the predefined symbol of that name. FreezeEOF
// seals the fragment into a single KindSequence and makes it available via
// Root.
type InflatorWriter struct {
	syms     *ast.SymbolTable
	children []ast.Ref
	root     ast.Ref
}

// NewInflatorWriter returns a writer that allocates reconstructed nodes in
// syms.
func NewInflatorWriter(syms *ast.SymbolTable) *InflatorWriter {
	return &InflatorWriter{syms: syms}
}

func (iw *InflatorWriter) WriteValue(v uint64, f format.Format) error {
	iw.children = append(iw.children, iw.syms.NewInteger(v, f))
	return nil
}

func (iw *InflatorWriter) WriteAction(sym string) error {
	ref, err := iw.syms.Lookup(sym)
	if err != nil {
		return err
	}
	iw.children = append(iw.children, iw.syms.New(ast.KindCallback, ref))
	return nil
}

// FreezeEOF seals the accumulated children into a KindSequence node,
// retrievable via Root.
func (iw *InflatorWriter) FreezeEOF() error {
	iw.root = iw.syms.New(ast.KindSequence, iw.children...)
	return nil
}

func (iw *InflatorWriter) SetMinimizeBlocks(bool) {} // reconstructed nodes carry no byte-prefix to minimize

// Root returns the reconstructed fragment's root. Valid only after
// FreezeEOF.
func (iw *InflatorWriter) Root() ast.Ref { return iw.root }

// Children returns the leaves reconstructed so far, in write order, before
// FreezeEOF wraps them into a KindSequence. Useful for a caller that wants
// to inspect or compare individual reconstructed values without walking the
// frozen KindSequence's Children.
func (iw *InflatorWriter) Children() []ast.Ref { return iw.children }
