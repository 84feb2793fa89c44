package ast

import (
	"fmt"

	"github.com/Priyanshu23/filterc/format"
)

// PredefinedNames lists the symbol names installed in every root
// SymbolTable at construction, per spec.md §4.3.
var PredefinedNames = []string{
	"file",
	"align",
	"block.enter",
	"block.exit",
	"block.enter.readonly",
	"block.enter.writeonly",
	"block.exit.readonly",
	"block.exit.writeonly",
	"binary.begin",
	"binary.bit",
	"binary.end",
}

var predefinedKind = map[string]Kind{
	"file":                   KindFile,
	"align":                  KindAlignNode,
	"block.enter":            KindBlockEnter,
	"block.exit":             KindBlockExit,
	"block.enter.readonly":   KindBlockEnterReadOnly,
	"block.enter.writeonly":  KindBlockEnterWriteOnly,
	"block.exit.readonly":    KindBlockExitReadOnly,
	"block.exit.writeonly":   KindBlockExitWriteOnly,
	"binary.begin":           KindBinaryBegin,
	"binary.bit":             KindBinaryBit,
	"binary.end":             KindBinaryEnd,
}

// SymbolTable maps local names to their definitions. Names not found
// locally are resolved through Enclosing, the chain used for scope
// resolution (spec.md §4.3). The outermost table of a chain owns the node
// arena; nested tables allocate into and dereference through it, so a Ref
// is valid in every table of the chain.
type SymbolTable struct {
	arena     []Node
	names     map[string]Ref
	Enclosing *SymbolTable
}

// NewSymbolTable returns a table with predefined symbols installed. If
// enclosing is non-nil, unresolved local lookups fall through to it.
func NewSymbolTable(enclosing *SymbolTable) *SymbolTable {
	t := &SymbolTable{
		arena:     make([]Node, 1), // slot 0 reserved as NoRef
		names:     make(map[string]Ref),
		Enclosing: enclosing,
	}
	if enclosing == nil {
		for _, name := range PredefinedNames {
			t.definePredefined(name)
		}
	}
	return t
}

func (t *SymbolTable) alloc(n Node) Ref {
	if t.Enclosing != nil {
		return t.Enclosing.alloc(n)
	}
	t.arena = append(t.arena, n)
	return Ref(len(t.arena) - 1)
}

func (t *SymbolTable) definePredefined(name string) Ref {
	ref := t.alloc(Node{Kind: predefinedKind[name], Name: name})
	t.names[name] = ref
	return ref
}

// Node dereferences r. Panics on NoRef or an out-of-range ref, which would
// indicate an internal bug (a dangling Ref from another scope chain's arena).
func (t *SymbolTable) Node(r Ref) *Node {
	if t.Enclosing != nil {
		return t.Enclosing.Node(r)
	}
	if r == NoRef || int(r) >= len(t.arena) {
		panic("ast: dereference of invalid Ref")
	}
	return &t.arena[r]
}

// New allocates a node of the given kind with the given children and
// returns its Ref.
func (t *SymbolTable) New(kind Kind, children ...Ref) Ref {
	return t.alloc(Node{Kind: kind, Children: children})
}

// NewInteger allocates a KindInteger leaf carrying v and its preferred
// source-text format.
func (t *SymbolTable) NewInteger(v uint64, f format.Format) Ref {
	return t.alloc(Node{Kind: KindInteger, Value: v, ValueFormat: f})
}

// NewSymbol allocates a KindSymbol leaf naming name (not auto-defined).
func (t *SymbolTable) NewSymbol(name string) Ref {
	return t.alloc(Node{Kind: KindSymbol, Name: name})
}

// Define binds name to def in this table (spec.md's Define node effect).
// Redefining a name overwrites the local binding; it does not affect outer
// scopes (shadowing).
func (t *SymbolTable) Define(name string, def Ref) {
	t.names[name] = def
}

// Undefine removes name from this table's local bindings only.
func (t *SymbolTable) Undefine(name string) {
	delete(t.names, name)
}

// ErrUnboundSymbol classifies a Lookup miss.
var ErrUnboundSymbol = fmt.Errorf("ast: unbound symbol")

// Lookup resolves name through this table, then its enclosing chain.
func (t *SymbolTable) Lookup(name string) (Ref, error) {
	for s := t; s != nil; s = s.Enclosing {
		if ref, ok := s.names[name]; ok {
			return ref, nil
		}
	}
	return NoRef, fmt.Errorf("ast: %q: %w", name, ErrUnboundSymbol)
}
