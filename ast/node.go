package ast

import "github.com/Priyanshu23/filterc/format"

// Ref is an index into a SymbolTable's arena. The zero Ref (0) is reserved
// as "no node" (the arena's slot 0 is never allocated to real content).
type Ref int

// NoRef is the sentinel "absent" reference.
const NoRef Ref = 0

// Node is one arena-allocated AST node. Common fields apply to every kind;
// Value/ValueFormat apply only to KindInteger; Name applies to KindSymbol
// and to the predefined nodes (their symbol name); Children is used by
// every arity above ArityLeaf.
type Node struct {
	Kind     Kind
	Children []Ref

	// KindInteger payload.
	Value       uint64
	ValueFormat format.Format

	// KindSymbol payload: interned name, resolved via the owning
	// SymbolTable's scope chain.
	Name string

	// KindAlgorithm payload.
	SourceHeader Ref
	ReadHeader   Ref
	WriteHeader  Ref
	AlgoName     string
	Enclosing    *SymbolTable
}
