// Package intcomp implements the integer n-gram compression pipeline: a
// trie counting repeated value sequences, pruning by a count cutoff,
// abbreviation assignment, and a rewriting writer that substitutes short
// abbreviation indices for the patterns it found (grounded on
// _examples/original_source/src/intcomp, the WebAssembly decompressor's
// IntCountNode/CountWriter/AbbrevSelector/AbbrevAssignWriter).
package intcomp

import (
	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/orderedmap"
)

// Kind is the closed set of count-trie node shapes, in the same
// tag-plus-arity style as ast.Kind rather than the original's class
// hierarchy + RTTI.
type Kind int

const (
	KindRoot Kind = iota
	KindSingleton
	KindIntSequence
	KindBlockEnter
	KindBlockExit
	KindDefaultSingle
	KindDefaultMultiple
	KindAlign
)

// CountNode is one node of the usage trie: either the root, a single
// recorded value (Singleton, a root child), a value extending a longer
// recorded sequence (IntSequence), or one of the five fixed "other" nodes
// every Root carries (block.enter, block.exit, default.single,
// default.multiple, align).
type CountNode struct {
	Kind     Kind
	Value    uint64 // meaningful for Singleton/IntSequence
	Count    int
	Parent   *CountNode
	// Children is keyed by value rather than a plain Go map so that a walk
	// over a node's children (AssignAbbrevIndices' collect, Prune) visits
	// them in a fixed, reproducible order instead of Go's randomized map
	// iteration.
	Children *orderedmap.Map[uint64, *CountNode]

	AbbrevIndex uint64
	HasAbbrev   bool

	localWeight    int
	localWeightSet bool
}

// Root is the trie's root: a plain CountNode for the first-level
// (Singleton) children, plus the five fixed other nodes that are never
// looked up by value.
type Root struct {
	*CountNode
	BlockEnter      *CountNode
	BlockExit       *CountNode
	DefaultSingle   *CountNode
	DefaultMultiple *CountNode
	Align           *CountNode
}

// NewRoot returns an empty trie.
func NewRoot() *Root {
	return &Root{
		CountNode:       &CountNode{Kind: KindRoot, Children: orderedmap.New[uint64, *CountNode]()},
		BlockEnter:      &CountNode{Kind: KindBlockEnter},
		BlockExit:       &CountNode{Kind: KindBlockExit},
		DefaultSingle:   &CountNode{Kind: KindDefaultSingle},
		DefaultMultiple: &CountNode{Kind: KindDefaultMultiple},
		Align:           &CountNode{Kind: KindAlign},
	}
}

// Others returns the five fixed nodes, in the fixed order every Root
// assigns them abbreviation indices.
func (r *Root) Others() []*CountNode {
	return []*CountNode{r.BlockEnter, r.BlockExit, r.DefaultSingle, r.DefaultMultiple, r.Align}
}

// lookupChild finds or creates n's child keyed by value. A Singleton is
// created directly under Root; an IntSequence under any other node.
func lookupChild(n *CountNode, value uint64, addIfNotFound bool) *CountNode {
	if n.Children != nil {
		if c, ok := n.Children.Get(value); ok {
			return c
		}
	}
	if !addIfNotFound {
		return nil
	}
	kind := KindIntSequence
	if n.Kind == KindRoot {
		kind = KindSingleton
	}
	c := &CountNode{Kind: kind, Value: value, Parent: n, Children: orderedmap.New[uint64, *CountNode]()}
	if n.Children == nil {
		n.Children = orderedmap.New[uint64, *CountNode]()
	}
	n.Children.Set(value, c)
	return c
}

// pathLength counts the Singleton/IntSequence ancestors of n, inclusive:
// the number of values an abbreviation of n represents.
func pathLength(n *CountNode) int {
	l := 0
	for p := n; p != nil && (p.Kind == KindSingleton || p.Kind == KindIntSequence); p = p.Parent {
		l++
	}
	return l
}

// localWeight is the byte size of n's own Value under its smallest wire
// format, cached per node (IntCountNode::getLocalWeight).
func (n *CountNode) localWeightOf(f *format.Formatter) int {
	if !n.localWeightSet {
		n.localWeight = f.ByteSizeFor(n.Value, f.FormatFor(n.Value))
		n.localWeightSet = true
	}
	return n.localWeight
}

// Weight estimates the uncompressed byte cost this node's pattern
// represents: Count literal values (with accumulated ancestor cost for a
// multi-value IntSequence), or simply Count for the non-value kinds
// (IntCountNode.cpp's getWeight family).
func (n *CountNode) Weight(f *format.Formatter) int {
	switch n.Kind {
	case KindSingleton:
		return n.Count * n.localWeightOf(f)
	case KindIntSequence:
		w := n.localWeightOf(f) * n.Count
		for p := n.Parent; p != nil && (p.Kind == KindIntSequence || p.Kind == KindSingleton); p = p.Parent {
			w += p.localWeightOf(f) * n.Count
		}
		return w
	default:
		return n.Count
	}
}

// compareForAbbrev orders a before b when a deserves a shorter (earlier)
// abbreviation index: higher weight first, then lower count (implying more
// value per occurrence), then Kind, mirroring CountNode::compare.
func compareForAbbrev(a, b *CountNode, f *format.Formatter) bool {
	wa, wb := a.Weight(f), b.Weight(f)
	if wa != wb {
		return wa > wb
	}
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Kind < b.Kind
}
