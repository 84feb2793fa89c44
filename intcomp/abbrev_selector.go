package intcomp

import (
	"container/heap"

	"github.com/Priyanshu23/filterc/format"
)

// AbbrevSelector finds the cheapest way to cover a buffered run of values
// with trie abbreviations, a Dijkstra-like shortest-path search over
// "where could the next abbreviation take us" moves (grounded on
// AbbrevSelector.cpp's AbbrevSelection::compare and select()).
//
// The original leaves its continuation hooks, installDefaults(Previous) and
// installIntSeqMatches(Previous), as "// TODO(karlschimpf): Define."
// stubs — without them the search can never advance past the buffer's first
// position, so a faithful port has no teeth. installMatches below completes
// that logic: given any partial selection, it computes where in the buffer
// it left off and installs every move available from there.
type AbbrevSelector struct {
	buffer       []uint64
	root         *Root
	formatter    *format.Formatter
	abbrevFormat format.Format
}

// NewAbbrevSelector returns a selector over buffer, with candidate
// abbreviations drawn from root's (pruned, index-assigned) trie.
func NewAbbrevSelector(buffer []uint64, root *Root, formatter *format.Formatter, abbrevFormat format.Format) *AbbrevSelector {
	return &AbbrevSelector{buffer: buffer, root: root, formatter: formatter, abbrevFormat: abbrevFormat}
}

// computeAbbrevWeight is the wire cost of writing any abbreviation: one
// value under abbrevFormat. Every candidate move pays the same cost, so the
// search favors whichever move covers the most buffer positions per unit
// weight implicitly through BufferIndex ordering.
func (s *AbbrevSelector) computeAbbrevWeight() int {
	return s.formatter.ByteSizeFor(uint64(1), s.abbrevFormat)
}

// computeDefaultWeight is the cost of falling back to a literal value: the
// default's own abbreviation plus the value's encoded size.
func (s *AbbrevSelector) computeDefaultWeight(value uint64) int {
	return s.computeAbbrevWeight() + s.formatter.ByteSizeFor(value, s.formatter.FormatFor(value))
}

var nextCreationIndex int

func newSelection(abbrev *CountNode, previous *AbbrevSelection, bufferIndex, weight int) *AbbrevSelection {
	nextCreationIndex++
	return &AbbrevSelection{
		Abbrev:        abbrev,
		Previous:      previous,
		BufferIndex:   bufferIndex,
		Weight:        weight,
		CreationIndex: nextCreationIndex,
	}
}

// installDefaults pushes the single-value default move from previous's
// position: skip trie matching entirely and just spell the next value out
// literally via DefaultSingle.
func (s *AbbrevSelector) installDefaults(h *selectionHeap, previous *AbbrevSelection, startIndex int) {
	if startIndex >= len(s.buffer) {
		return
	}
	v := s.buffer[startIndex]
	w := s.computeDefaultWeight(v)
	if previous != nil {
		w += previous.Weight
	}
	heap.Push(h, newSelection(s.root.DefaultSingle, previous, startIndex+1, w))
}

// installIntSeqMatches walks the trie following buffer values starting at
// startIndex, pushing one candidate selection per node that carries an
// abbreviation along the way (the longest match isn't necessarily cheapest,
// so every prefix with an abbreviation is a live candidate, not just the
// deepest one).
func (s *AbbrevSelector) installIntSeqMatches(h *selectionHeap, previous *AbbrevSelection, startIndex int) {
	nd := s.root.CountNode
	baseWeight := 0
	if previous != nil {
		baseWeight = previous.Weight
	}
	i := startIndex
	for i < len(s.buffer) {
		child := lookupChild(nd, s.buffer[i], false)
		if child == nil {
			break
		}
		nd = child
		i++
		if nd.HasAbbrev {
			w := baseWeight + s.computeAbbrevWeight()
			heap.Push(h, newSelection(nd, previous, i, w))
		}
	}
}

// installMatches installs every move reachable from previous (nil meaning
// "the start of the buffer"): the literal-default fallback and any trie
// match beginning at that position.
func (s *AbbrevSelector) installMatches(h *selectionHeap, previous *AbbrevSelection) {
	startIndex := 0
	if previous != nil {
		startIndex = previous.BufferIndex
	}
	if startIndex >= len(s.buffer) {
		return
	}
	s.installDefaults(h, previous, startIndex)
	s.installIntSeqMatches(h, previous, startIndex)
}

// Select runs the search to completion and returns the cheapest selection
// chain covering the whole buffer (follow .Previous back to the start).
// Returns nil for an empty buffer.
func (s *AbbrevSelector) Select() *AbbrevSelection {
	if len(s.buffer) == 0 {
		return nil
	}
	h := &selectionHeap{}
	heap.Init(h)
	s.installMatches(h, nil)

	visited := map[int]bool{}
	for h.Len() > 0 {
		cur := heap.Pop(h).(*AbbrevSelection)
		if cur.BufferIndex >= len(s.buffer) {
			return cur
		}
		if visited[cur.BufferIndex] {
			continue
		}
		visited[cur.BufferIndex] = true
		s.installMatches(h, cur)
	}
	return nil
}
