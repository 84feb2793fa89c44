package intcomp

import (
	"sort"

	"github.com/Priyanshu23/filterc/format"
)

// AssignAbbrevIndices walks root's (pruned) trie and numbers every node
// with an AbbrevIndex, 1-based, ordered so higher-weight patterns (the
// ones worth writing most often) get the smallest indices and therefore
// the cheapest wire encoding. The five fixed "other" nodes are always
// numbered first, per IntCountNode's invariant that DefaultSingle and
// DefaultMultiple always carry an abbreviation.
func AssignAbbrevIndices(root *Root, formatter *format.Formatter) {
	var nodes []*CountNode
	var collect func(n *CountNode)
	collect = func(n *CountNode) {
		for e := range n.Children.All() {
			nodes = append(nodes, e.Value)
			collect(e.Value)
		}
	}
	collect(root.CountNode)

	sort.SliceStable(nodes, func(i, j int) bool {
		return compareForAbbrev(nodes[i], nodes[j], formatter)
	})

	idx := uint64(1)
	for _, o := range root.Others() {
		o.AbbrevIndex = idx
		o.HasAbbrev = true
		idx++
	}
	for _, n := range nodes {
		n.AbbrevIndex = idx
		n.HasAbbrev = true
		idx++
	}
}
