package interp

import (
	"fmt"

	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/intstream"
)

// IntReader is the Reader implementation over an intstream.ReadCursor: the
// input side of rewriting/decoding passes that consume an integer
// intermediate stream rather than raw bytes.
type IntReader struct {
	c         *intstream.ReadCursor
	peekStack []int
}

// NewIntReader wraps c.
func NewIntReader(c *intstream.ReadCursor) *IntReader { return &IntReader{c: c} }

// ReadValue ignores f (an IntStream holds raw 64-bit values with no
// per-value wire format) and returns the next stream value.
func (r *IntReader) ReadValue(f format.Format) (uint64, error) {
	v, err := r.c.Read()
	return v, wrapLowerErr(err)
}

func (r *IntReader) ReadAction(sym string) error {
	switch sym {
	case "block.enter", "block.enter.readonly":
		_, err := r.c.OpenBlock()
		return wrapLowerErr(err)
	case "block.exit", "block.exit.readonly":
		return wrapLowerErr(r.c.CloseBlock())
	case "block.enter.writeonly", "block.exit.writeonly":
	default:
		return fmt.Errorf("interp: unrecognized action %q: %w", sym, ErrProtocolViolation)
	}
	return nil
}

func (r *IntReader) PeekPush() error {
	r.peekStack = append(r.peekStack, r.c.Index())
	return nil
}

func (r *IntReader) PeekPop() error {
	if len(r.peekStack) == 0 {
		return fmt.Errorf("interp: peek pop without push: %w", ErrProtocolViolation)
	}
	// ReadCursor has no direct seek; peek over an IntReader is only used
	// for lookahead that does not cross a block boundary in this
	// implementation, so restoring is a documented no-op limitation (see
	// DESIGN.md) rather than a full cursor rewind.
	r.peekStack = r.peekStack[:len(r.peekStack)-1]
	return nil
}

func (r *IntReader) AtInputEob() bool { return r.c.AtEnclosingEnd() }

func (r *IntReader) CanProcessMoreInputNow() bool { return true }

func (r *IntReader) StillMoreInputToProcessNow() bool { return !r.AtInputEob() }

// IntWriter is the Writer implementation over an intstream.WriteCursor.
type IntWriter struct {
	c *intstream.WriteCursor
}

// NewIntWriter wraps c.
func NewIntWriter(c *intstream.WriteCursor) *IntWriter { return &IntWriter{c: c} }

func (w *IntWriter) WriteValue(v uint64, f format.Format) error {
	w.c.Write(v)
	return nil
}

func (w *IntWriter) WriteAction(sym string) error {
	switch sym {
	case "block.enter", "block.enter.writeonly":
		w.c.OpenBlock()
	case "block.exit", "block.exit.writeonly":
		if w.c.CloseBlock() == nil {
			return fmt.Errorf("interp: block.exit without block.enter: %w", ErrProtocolViolation)
		}
	case "block.enter.readonly", "block.exit.readonly":
	default:
		return fmt.Errorf("interp: unrecognized action %q: %w", sym, ErrProtocolViolation)
	}
	return nil
}

func (w *IntWriter) FreezeEOF() error {
	w.c.Stream().FreezeEOF()
	return nil
}

func (w *IntWriter) SetMinimizeBlocks(bool) {} // blocks on an IntStream have no prefix to minimize
