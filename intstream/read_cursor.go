package intstream

import "fmt"

type readFrame struct {
	block    *Block
	childIdx int // index into block.Children of the next expected child
}

// ReadCursor walks an IntStream's value vector and block tree in lock
// step: OpenBlock only succeeds when the next recorded child block's
// Begin equals the current index, and reads cannot cross the innermost
// enclosing block's End.
type ReadCursor struct {
	s     *IntStream
	idx   int
	stack []readFrame
}

// NewReadCursor returns a read cursor over s, starting inside its root
// block.
func NewReadCursor(s *IntStream) *ReadCursor {
	return &ReadCursor{s: s, stack: []readFrame{{block: s.root}}}
}

// Index returns the current value index.
func (r *ReadCursor) Index() int { return r.idx }

func (r *ReadCursor) top() *readFrame { return &r.stack[len(r.stack)-1] }

// AtEnclosingEnd reports whether the current index has reached the
// innermost enclosing (closed) block's End.
func (r *ReadCursor) AtEnclosingEnd() bool {
	b := r.top().block
	return !b.Open() && r.idx >= b.End
}

// Read returns the next value and advances. Fails if doing so would cross
// the innermost enclosing block's End.
func (r *ReadCursor) Read() (uint64, error) {
	if r.AtEnclosingEnd() {
		return 0, fmt.Errorf("intstream: read at %d past block end: %w", r.idx, ErrUnexpectedEOF)
	}
	if r.idx >= len(r.s.values) {
		return 0, fmt.Errorf("intstream: read at %d past stream size %d: %w", r.idx, len(r.s.values), ErrUnexpectedEOF)
	}
	v := r.s.values[r.idx]
	r.idx++
	return v, nil
}

// OpenBlock advances into the next recorded child block, requiring its
// Begin to equal the current index.
func (r *ReadCursor) OpenBlock() (*Block, error) {
	f := r.top()
	if f.childIdx >= len(f.block.Children) {
		return nil, fmt.Errorf("intstream: open_block at %d: no recorded child: %w", r.idx, ErrProtocolViolation)
	}
	child := f.block.Children[f.childIdx]
	if child.Begin != r.idx {
		return nil, fmt.Errorf("intstream: open_block at %d: next recorded block begins at %d: %w", r.idx, child.Begin, ErrProtocolViolation)
	}
	f.childIdx++
	r.stack = append(r.stack, readFrame{block: child})
	return child, nil
}

// CloseBlock requires the current index to equal the innermost open
// block's End, then pops it.
func (r *ReadCursor) CloseBlock() error {
	if len(r.stack) <= 1 {
		return fmt.Errorf("intstream: close_block at %d: no open block: %w", r.idx, ErrProtocolViolation)
	}
	b := r.top().block
	if r.idx != b.End {
		return fmt.Errorf("intstream: close_block at %d: block ends at %d: %w", r.idx, b.End, ErrProtocolViolation)
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}
