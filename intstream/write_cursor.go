package intstream

// WriteCursor appends values to an IntStream and tracks the current open
// block, so OpenBlock/CloseBlock nest correctly without the caller having
// to pass block handles around.
type WriteCursor struct {
	s     *IntStream
	stack []*Block // innermost open block is stack[len(stack)-1]
}

// NewWriteCursor returns a write cursor over s, starting inside its root
// block.
func NewWriteCursor(s *IntStream) *WriteCursor {
	return &WriteCursor{s: s, stack: []*Block{s.root}}
}

// Index returns the current value index (== number of values written).
func (w *WriteCursor) Index() int { return len(w.s.values) }

// Write appends v and advances.
func (w *WriteCursor) Write(v uint64) {
	w.s.values = append(w.s.values, v)
}

// OpenBlock pushes a new child block with Begin=current index.
func (w *WriteCursor) OpenBlock() *Block {
	parent := w.stack[len(w.stack)-1]
	b := &Block{Begin: w.Index(), End: -1, Parent: parent}
	parent.Children = append(parent.Children, b)
	w.stack = append(w.stack, b)
	return b
}

// CloseBlock sets End=current index on the innermost open block and pops
// it. Fails (returns nil) if there is no open block to close beyond the
// root.
func (w *WriteCursor) CloseBlock() *Block {
	if len(w.stack) <= 1 {
		return nil
	}
	b := w.stack[len(w.stack)-1]
	b.End = w.Index()
	w.stack = w.stack[:len(w.stack)-1]
	return b
}

// Stream returns the underlying stream.
func (w *WriteCursor) Stream() *IntStream { return w.s }
