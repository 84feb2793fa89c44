package intcomp

import (
	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/interp"
)

// CountingWriter wraps a Writer and records, into a Root trie, how often
// each value and each run of up to UpToSize consecutive values occurs
// (grounded on CountWriter.cpp's two-phase use: a first pass with
// UpToSize==1 to get per-value frequency, a second pass with UpToSize==N to
// extend the trie into N-grams built only from values that survived the
// first pass's cutoff). addToUsageMap allocates a trie node on every
// sighting, matching CountWriter.cpp's addToUsageMap exactly — every
// occurrence of every value is tallied, with no first-sighting gate.
type CountingWriter struct {
	next interp.Writer
	root *Root

	countCutoff int
	upToSize    int
	frontier    []*CountNode

	formatter *format.Formatter
}

// NewCountingWriter returns a counting pass-through writer over root.
func NewCountingWriter(next interp.Writer, root *Root, formatter *format.Formatter) *CountingWriter {
	return &CountingWriter{
		next:        next,
		root:        root,
		countCutoff: 1,
		formatter:   formatter,
	}
}

// SetCountCutoff sets the minimum weight a node must reach to stay in the
// active frontier (and so be eligible for extension into a longer
// n-gram).
func (w *CountingWriter) SetCountCutoff(v int) { w.countCutoff = v }

// SetUpToSize bounds how long an n-gram this pass will extend to; 1 counts
// single values only.
func (w *CountingWriter) SetUpToSize(n int) { w.upToSize = n }

// ResetUpToSize clears the frontier and returns to single-value counting.
func (w *CountingWriter) ResetUpToSize() {
	w.upToSize = 0
	w.frontier = nil
}

func (w *CountingWriter) addToUsageMap(value uint64) {
	top := lookupChild(w.root.CountNode, value, true)
	top.Count++
	if w.upToSize <= 1 {
		return
	}

	var nextFrontier []*CountNode
	for _, nd := range w.frontier {
		if pathLength(nd) >= w.upToSize || top.Weight(w.formatter) < w.countCutoff {
			continue
		}
		child := lookupChild(nd, value, true)
		child.Count++
		nextFrontier = append(nextFrontier, child)
	}
	w.frontier = nextFrontier
	if top.Weight(w.formatter) >= w.countCutoff {
		w.frontier = append(w.frontier, top)
	}
}

func (w *CountingWriter) WriteValue(v uint64, f format.Format) error {
	w.addToUsageMap(v)
	return w.next.WriteValue(v, f)
}

func (w *CountingWriter) WriteAction(sym string) error {
	switch sym {
	case "block.enter", "block.enter.writeonly":
		w.frontier = nil
		w.root.BlockEnter.Count++
	case "block.exit", "block.exit.writeonly":
		w.frontier = nil
		w.root.BlockExit.Count++
	}
	return w.next.WriteAction(sym)
}

func (w *CountingWriter) FreezeEOF() error { return w.next.FreezeEOF() }

func (w *CountingWriter) SetMinimizeBlocks(v bool) { w.next.SetMinimizeBlocks(v) }
