package cursor

import (
	"sort"

	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/pagequeue"
)

// maxPrefixWidth is the reserved width for a block length prefix: the
// widest a Varuint32-encoded length can be (5 bytes), per spec.md §9
// "reserve the maximum width (5 bytes for uint32-encoded varuints)".
const maxPrefixWidth = 5

// OpenWriteBlock reserves a max-width length prefix at the cursor. No eob
// is pushed, since the body's end is unknown until Close. Returns the
// prefix start address, needed by CloseWriteBlock to backpatch.
func (c *ByteCursor) OpenWriteBlock() (prefixStart int64, err error) {
	prefixStart = c.addr
	for i := 0; i < maxPrefixWidth; i++ {
		if err := c.WriteByte(0); err != nil {
			return 0, err
		}
	}
	return prefixStart, nil
}

// CloseWriteBlock patches the reserved prefix at prefixStart with the
// encoded byte length of the body written since OpenWriteBlock, by
// overwriting the queue bytes directly (the prefix already occupies
// maxPrefixWidth bytes; a shorter value is padded to that width with
// continuation-bit groups, so it still decodes as one varuint, until
// MinimizeBlocks shrinks it).
func (c *ByteCursor) CloseWriteBlock(prefixStart int64) error {
	bodyLen := uint64(c.addr - prefixStart - maxPrefixWidth)
	enc := format.EncodeUvarintPadded(bodyLen, maxPrefixWidth)

	patch := NewByteCursor(c.q, prefixStart)
	if err := patch.WriteBytes(enc); err != nil {
		return err
	}
	patch.Release()
	return nil
}

// OpenReadBlock reads a varuint length prefix and pushes an eob at
// current-address + that length, returning the body length.
func (c *ByteCursor) OpenReadBlock() (bodyLen uint64, err error) {
	// The prefix may have been minimized to fewer than maxPrefixWidth
	// bytes, so decode byte-at-a-time rather than assuming a fixed width.
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
	v, _, ok := format.DecodeUvarint(buf)
	if !ok {
		return 0, ErrProtocolViolation
	}
	c.PushEob(c.addr + int64(v))
	return v, nil
}

// CloseReadBlock pops the eob pushed by OpenReadBlock, requiring the
// cursor to have landed exactly at the block's end.
func (c *ByteCursor) CloseReadBlock() error {
	top := c.EobTop()
	if top == nil {
		return ErrProtocolViolation
	}
	if c.addr != top.Addr {
		return ErrProtocolViolation
	}
	return c.PopEob()
}

// blockFrame accumulates the minimized bytes of one block (or, for the
// root, the whole stream) while the forward pass below is inside it.
type blockFrame struct {
	bodyEnd int64 // original (pre-shrink) address where this block's body ends
	buf     []byte
}

// MinimizeBlocks shrinks every reserved max-width block prefix recorded in
// spans (each a (prefixStart, bodyEnd) pair, original pre-shrink addresses,
// in any order) to its minimal encoding, in one left-to-right pass over the
// whole [0, totalLen) region. A single pass with a running per-block output
// buffer is required rather than per-block backpatching: shrinking an inner
// block's prefix changes its enclosing block's true body length, so any
// approach that finalizes an outer block using its original (pre-shrink)
// body length corrupts the result. Returns the new (possibly shorter) total
// length, after writing the compacted bytes back into q starting at 0.
func MinimizeBlocks(q *pagequeue.Queue, totalLen int64, spans [][2]int64) (int64, error) {
	if len(spans) == 0 {
		return totalLen, nil
	}

	orig := make([]byte, totalLen)
	if _, err := q.Read(0, orig); err != nil {
		return 0, err
	}

	sorted := append([][2]int64(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	root := &blockFrame{bodyEnd: totalLen}
	stack := []*blockFrame{root}
	pos := int64(0)
	spanIdx := 0

	for {
		for len(stack) > 1 && stack[len(stack)-1].bodyEnd == pos {
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.buf = append(parent.buf, format.EncodeUvarint(uint64(len(closed.buf)))...)
			parent.buf = append(parent.buf, closed.buf...)
		}
		if pos >= totalLen {
			break
		}
		if spanIdx < len(sorted) && sorted[spanIdx][0] == pos {
			bodyEnd := sorted[spanIdx][1]
			spanIdx++
			stack = append(stack, &blockFrame{bodyEnd: bodyEnd})
			pos += maxPrefixWidth
			continue
		}
		top := stack[len(stack)-1]
		top.buf = append(top.buf, orig[pos])
		pos++
	}

	out := root.buf
	if _, err := q.Write(0, out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}
