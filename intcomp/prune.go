package intcomp

import "github.com/Priyanshu23/filterc/format"

// Prune removes trie nodes whose usage doesn't justify the bit cost of an
// abbreviation: a node must clear both a count gate (single-value patterns
// need Count >= countCutoff, longer patterns (depth >= 2) additionally need
// Count >= patternCutoff) and a weight gate (Weight(f) >= weightCutoff),
// mirroring IntCountNode.cpp's isGoodForAbbrev: "getCount() >=
// Flags.CountCutoff && getWeight() >= Flags.WeightCutoff" (grounded on
// RemoveNodesVisitor's CountCutoff/PatternCutoff/WeightCutoff triple; this
// is a direct recursive walk rather than a reproduction of the original's
// general CountNodeVisitor framework, which exists there to support
// several unrelated passes over the same trie shape).
func Prune(root *Root, countCutoff, patternCutoff, weightCutoff int, f *format.Formatter) {
	var dead []uint64
	for e := range root.Children.All() {
		if !pruneNode(e.Value, countCutoff, patternCutoff, weightCutoff, f, 1) {
			dead = append(dead, e.Key)
		}
	}
	for _, value := range dead {
		root.Children.Delete(value)
	}
}

func pruneNode(n *CountNode, countCutoff, patternCutoff, weightCutoff int, f *format.Formatter, depth int) bool {
	var dead []uint64
	for e := range n.Children.All() {
		if !pruneNode(e.Value, countCutoff, patternCutoff, weightCutoff, f, depth+1) {
			dead = append(dead, e.Key)
		}
	}
	for _, value := range dead {
		n.Children.Delete(value)
	}
	cutoff := countCutoff
	if depth >= 2 && patternCutoff > cutoff {
		cutoff = patternCutoff
	}
	return n.Count >= cutoff && n.Weight(f) >= weightCutoff
}
