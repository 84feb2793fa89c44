package intcomp

import (
	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/interp"
)

// AbbrevAssignWriter rewrites a stream of values into abbreviation indices
// drawn from a pruned, index-assigned trie, buffering up to bufSize values
// at a time and running an AbbrevSelector search over each buffer-full
// (grounded on AbbrevAssignWriter.cpp, simplified by dropping its
// Values-staging-then-flush indirection and pattern-length tracing: here a
// selection is applied to the output the moment it's chosen).
type AbbrevAssignWriter struct {
	next         interp.Writer
	root         *Root
	formatter    *format.Formatter
	abbrevFormat format.Format
	bufSize      int

	buffer   []uint64
	defaults []uint64
}

// NewAbbrevAssignWriter returns a rewriting writer over an already-built
// trie (see AssignAbbrevIndices). abbrevFormat is the wire format used for
// every abbreviation index and for DefaultMultiple's count.
func NewAbbrevAssignWriter(next interp.Writer, root *Root, formatter *format.Formatter, abbrevFormat format.Format, bufSize int) *AbbrevAssignWriter {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &AbbrevAssignWriter{next: next, root: root, formatter: formatter, abbrevFormat: abbrevFormat, bufSize: bufSize}
}

func (w *AbbrevAssignWriter) WriteValue(v uint64, f format.Format) error {
	w.buffer = append(w.buffer, v)
	if len(w.buffer) >= w.bufSize {
		return w.drainOne()
	}
	return nil
}

// drainOne selects and applies a full covering of the current buffer, then
// drops the consumed prefix. It always makes progress when the buffer is
// non-empty, since installDefaults always offers a one-value fallback move.
func (w *AbbrevAssignWriter) drainOne() error {
	if len(w.buffer) == 0 {
		return nil
	}
	selector := NewAbbrevSelector(w.buffer, w.root, w.formatter, w.abbrevFormat)
	sel := selector.Select()
	if sel == nil {
		return nil
	}

	var chain []*AbbrevSelection
	for s := sel; s != nil; s = s.Previous {
		chain = append(chain, s)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	consumed := 0
	for _, s := range chain {
		if s.Abbrev.Kind == KindDefaultSingle {
			w.defaults = append(w.defaults, w.buffer[consumed])
			consumed++
			continue
		}
		if err := w.flushDefaults(); err != nil {
			return err
		}
		if err := w.forwardAbbrev(s.Abbrev); err != nil {
			return err
		}
		consumed += pathLength(s.Abbrev)
	}
	w.buffer = w.buffer[consumed:]
	return nil
}

// flushDefaults writes out any values the selector chose to spell literally
// rather than abbreviate: a lone value under DefaultSingle, or a run of them
// under DefaultMultiple with an explicit count (AbbrevAssignWriter.cpp's
// writeDefaultValues).
func (w *AbbrevAssignWriter) flushDefaults() error {
	if len(w.defaults) == 0 {
		return nil
	}
	defer func() { w.defaults = nil }()

	if len(w.defaults) == 1 {
		if err := w.forwardAbbrev(w.root.DefaultSingle); err != nil {
			return err
		}
		return w.next.WriteValue(w.defaults[0], format.Varint64)
	}

	if err := w.forwardAbbrev(w.root.DefaultMultiple); err != nil {
		return err
	}
	if err := w.next.WriteValue(uint64(len(w.defaults)), format.Varuint64); err != nil {
		return err
	}
	for _, v := range w.defaults {
		if err := w.next.WriteValue(v, format.Varint64); err != nil {
			return err
		}
	}
	return nil
}

func (w *AbbrevAssignWriter) forwardAbbrev(n *CountNode) error {
	return w.next.WriteValue(n.AbbrevIndex, w.abbrevFormat)
}

// WriteAction drains any values staged so far so action boundaries never
// split a would-be abbreviation across a block, then forwards the action
// unabbreviated: BlockEnter/BlockExit are counted by CountingWriter for
// trie statistics, but actions carry no value to substitute and so pass
// through as themselves.
func (w *AbbrevAssignWriter) WriteAction(sym string) error {
	if err := w.drainAll(); err != nil {
		return err
	}
	if err := w.flushDefaults(); err != nil {
		return err
	}
	return w.next.WriteAction(sym)
}

// drainAll empties the buffer, draining one selection at a time.
func (w *AbbrevAssignWriter) drainAll() error {
	for len(w.buffer) > 0 {
		before := len(w.buffer)
		if err := w.drainOne(); err != nil {
			return err
		}
		if len(w.buffer) == before {
			break
		}
	}
	return nil
}

func (w *AbbrevAssignWriter) FreezeEOF() error {
	if err := w.drainAll(); err != nil {
		return err
	}
	if err := w.flushDefaults(); err != nil {
		return err
	}
	return w.next.FreezeEOF()
}

func (w *AbbrevAssignWriter) SetMinimizeBlocks(v bool) { w.next.SetMinimizeBlocks(v) }
