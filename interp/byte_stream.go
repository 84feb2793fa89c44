package interp

import (
	"fmt"

	"github.com/Priyanshu23/filterc/cursor"
	"github.com/Priyanshu23/filterc/format"
)

// readValueFromCursor decodes a value of format f starting at the cursor's
// current position, byte at a time for the variable-length formats.
func readValueFromCursor(c *cursor.ByteCursor, f format.Format) (uint64, error) {
	switch f {
	case format.Uint8:
		b, err := c.ReadByte()
		return uint64(b), err
	case format.Uint32:
		buf := make([]byte, 4)
		if err := c.ReadBytes(buf); err != nil {
			return 0, err
		}
		v, _, _ := format.Decode(buf, format.Uint32)
		return v, nil
	case format.Uint64:
		buf := make([]byte, 8)
		if err := c.ReadBytes(buf); err != nil {
			return 0, err
		}
		v, _, _ := format.Decode(buf, format.Uint64)
		return v, nil
	case format.Varint32, format.Varint64, format.Varuint32, format.Varuint64:
		var buf []byte
		for {
			b, err := c.ReadByte()
			if err != nil {
				return 0, err
			}
			buf = append(buf, b)
			if b&0x80 == 0 {
				break
			}
		}
		v, _, ok := format.Decode(buf, f)
		if !ok {
			return 0, fmt.Errorf("interp: malformed %v encoding: %w", f, ErrBadFormat)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("interp: unknown format %v", f)
	}
}

// ByteReader is the Reader implementation over a byte-stream cursor: the
// input side of decompression (reading a compressed file) or the input
// side of the parsing phase (reading raw source bytes).
type ByteReader struct {
	c         *cursor.ByteCursor
	peekStack []int64 // addresses saved by PeekPush, restored by PeekPop
}

// NewByteReader wraps c.
func NewByteReader(c *cursor.ByteCursor) *ByteReader { return &ByteReader{c: c} }

func (r *ByteReader) ReadValue(f format.Format) (uint64, error) {
	v, err := readValueFromCursor(r.c, f)
	return v, wrapLowerErr(err)
}

func (r *ByteReader) ReadAction(sym string) error {
	switch sym {
	case "block.enter", "block.enter.readonly":
		if _, err := r.c.OpenReadBlock(); err != nil {
			return wrapLowerErr(err)
		}
	case "block.exit", "block.exit.readonly":
		return wrapLowerErr(r.c.CloseReadBlock())
	case "block.enter.writeonly", "block.exit.writeonly":
		// no-op on the read side, per spec.md §9.
	default:
		return fmt.Errorf("interp: unrecognized action %q: %w", sym, ErrProtocolViolation)
	}
	return nil
}

func (r *ByteReader) PeekPush() error {
	r.peekStack = append(r.peekStack, r.c.Addr())
	return nil
}

func (r *ByteReader) PeekPop() error {
	if len(r.peekStack) == 0 {
		return fmt.Errorf("interp: peek pop without push: %w", ErrProtocolViolation)
	}
	addr := r.peekStack[len(r.peekStack)-1]
	r.peekStack = r.peekStack[:len(r.peekStack)-1]
	*r.c = *cursor.NewByteCursor(r.c.Queue(), addr)
	return nil
}

func (r *ByteReader) AtInputEob() bool { return r.c.AtEob() || r.c.AtFrozenEnd() }

// CanProcessMoreInputNow reports true for a frozen input, which already
// holds all of its bytes; otherwise at least kResumeHeadroom bytes must be
// buffered ahead of the cursor.
func (r *ByteReader) CanProcessMoreInputNow() bool {
	q := r.c.Queue()
	if q.EOFFrozen() {
		return true
	}
	return q.EOF()-r.c.Addr() >= kResumeHeadroom
}

func (r *ByteReader) StillMoreInputToProcessNow() bool { return !r.AtInputEob() }

// ByteWriter is the Writer implementation over a byte-stream cursor.
type ByteWriter struct {
	c            *cursor.ByteCursor
	blockStarts  []int64
	minimize     bool
	minimizeList [][2]int64 // (prefixStart, bodyEnd) recorded for a post-pass
}

// NewByteWriter wraps c.
func NewByteWriter(c *cursor.ByteCursor) *ByteWriter { return &ByteWriter{c: c} }

func (w *ByteWriter) WriteValue(v uint64, f format.Format) error {
	return wrapLowerErr(w.c.WriteBytes(format.Encode(v, f)))
}

func (w *ByteWriter) WriteAction(sym string) error {
	switch sym {
	case "block.enter", "block.enter.writeonly":
		start, err := w.c.OpenWriteBlock()
		if err != nil {
			return wrapLowerErr(err)
		}
		w.blockStarts = append(w.blockStarts, start)
	case "block.exit", "block.exit.writeonly":
		if len(w.blockStarts) == 0 {
			return fmt.Errorf("interp: block.exit without block.enter: %w", ErrProtocolViolation)
		}
		start := w.blockStarts[len(w.blockStarts)-1]
		w.blockStarts = w.blockStarts[:len(w.blockStarts)-1]
		if err := w.c.CloseWriteBlock(start); err != nil {
			return wrapLowerErr(err)
		}
		if w.minimize {
			w.minimizeList = append(w.minimizeList, [2]int64{start, w.c.Addr()})
		}
	case "block.enter.readonly", "block.exit.readonly":
		// no-op on the write side, per spec.md §9.
	default:
		return fmt.Errorf("interp: unrecognized action %q: %w", sym, ErrProtocolViolation)
	}
	return nil
}

func (w *ByteWriter) FreezeEOF() error {
	finalAddr := w.c.Addr()
	if w.minimize && len(w.minimizeList) > 0 {
		newLen, err := cursor.MinimizeBlocks(w.c.Queue(), finalAddr, w.minimizeList)
		if err != nil {
			return wrapLowerErr(err)
		}
		finalAddr = newLen
	}
	w.c.Queue().FreezeEOF(finalAddr)
	return nil
}

func (w *ByteWriter) SetMinimizeBlocks(v bool) { w.minimize = v }
