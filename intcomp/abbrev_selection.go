package intcomp

// AbbrevSelection is one node of a path through the buffer built by
// AbbrevSelector: Abbrev consumed pathLength(Abbrev) values (or 1, for a
// default node) starting at Previous.BufferIndex, landing at BufferIndex.
// CreationIndex breaks ties between equally-good selections deterministically
// (AbbrevSelector.cpp: "Both are equally likely" falls back to creation
// order).
type AbbrevSelection struct {
	Abbrev      *CountNode
	Previous    *AbbrevSelection
	BufferIndex int
	Weight      int
	CreationIndex int
}

// less reports whether s is the better (lower-weight, further-along,
// earlier-created) selection, the heap's pop order.
func (s *AbbrevSelection) less(o *AbbrevSelection) bool {
	if s.Weight != o.Weight {
		return s.Weight < o.Weight
	}
	if s.BufferIndex != o.BufferIndex {
		return s.BufferIndex > o.BufferIndex
	}
	return s.CreationIndex < o.CreationIndex
}

// selectionHeap implements container/heap.Interface over *AbbrevSelection,
// grounded on perkeep's metaBlobHeap (pkg/blobserver/encrypt/meta.go):
// same shape (push/pop/less/swap over a slice of pointers), different
// ordering key.
type selectionHeap []*AbbrevSelection

func (h selectionHeap) Len() int            { return len(h) }
func (h selectionHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h selectionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *selectionHeap) Push(x interface{}) { *h = append(*h, x.(*AbbrevSelection)) }
func (h *selectionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return v
}
