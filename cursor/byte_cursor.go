// Package cursor implements byte and bit cursors over a pagequeue.Queue:
// a current address, a stack of enclosing end-of-block addresses, and (for
// bit cursors) a partial-byte accumulator.
package cursor

import (
	"errors"
	"fmt"

	"github.com/Priyanshu23/filterc/pagequeue"
)

// ErrProtocolViolation is returned when a block is closed before it was
// opened, or a cursor crosses a block boundary on open/close.
var ErrProtocolViolation = errors.New("cursor: protocol violation")

// ByteCursor is a read/write cursor over a pagequeue.Queue.
type ByteCursor struct {
	q        *pagequeue.Queue
	addr     int64
	eob      eobStack
	pageIdx  int
	acquired bool
}

// NewByteCursor returns a cursor positioned at addr over q.
func NewByteCursor(q *pagequeue.Queue, addr int64) *ByteCursor {
	return &ByteCursor{q: q, addr: addr}
}

// Addr returns the current address.
func (c *ByteCursor) Addr() int64 { return c.addr }

// Queue returns the underlying queue.
func (c *ByteCursor) Queue() *pagequeue.Queue { return c.q }

// PushEob bounds reads/writes to addr, the new innermost end-of-block.
func (c *ByteCursor) PushEob(addr int64) {
	c.eob.push(addr)
}

// PopEob removes the innermost eob. The cursor must be at or before the
// pushed address, or the operation fails.
func (c *ByteCursor) PopEob() error {
	if !c.eob.pop(c.addr) {
		return fmt.Errorf("cursor: pop_eob at %d past block end: %w", c.addr, ErrProtocolViolation)
	}
	return nil
}

// EobTop returns the current innermost eob, or nil at file scope.
func (c *ByteCursor) EobTop() *BlockEob { return c.eob.Top() }

func (c *ByteCursor) atEob() bool {
	top := c.eob.Top()
	return top != nil && c.addr >= top.Addr
}

// AtEob reports whether the cursor has reached its innermost enclosing
// end-of-block address.
func (c *ByteCursor) AtEob() bool { return c.atEob() }

// AtFrozenEnd reports whether the cursor has reached a frozen queue's EOF.
func (c *ByteCursor) AtFrozenEnd() bool {
	return c.q.EOFFrozen() && c.addr >= c.q.EOF()
}

// RemainingToFrozenEnd returns the number of bytes left before a frozen
// EOF, or -1 if the queue's EOF is not yet frozen (unbounded headroom).
func (c *ByteCursor) RemainingToFrozenEnd() int64 {
	if !c.q.EOFFrozen() {
		return -1
	}
	return c.q.EOF() - c.addr
}

// trackPage acquires the page for the cursor's current address and
// releases the prior page if it changed, so pagequeue.Queue.Dump can free
// pages no cursor can reach any more.
func (c *ByteCursor) trackPage(idx int) {
	if c.acquired && idx == c.pageIdx {
		return
	}
	if c.acquired {
		c.q.ReleasePage(c.pageIdx)
	}
	c.q.AcquirePage(idx)
	c.pageIdx = idx
	c.acquired = true
}

// Release gives up this cursor's hold on its current page, allowing Dump
// to free it once no other cursor references it.
func (c *ByteCursor) Release() {
	if c.acquired {
		c.q.ReleasePage(c.pageIdx)
		c.acquired = false
	}
}

// ReadByte returns the byte at the cursor and advances. Fails at eob or
// past a frozen EOF.
func (c *ByteCursor) ReadByte() (byte, error) {
	if c.atEob() {
		return 0, fmt.Errorf("cursor: read at %d at/past eob: %w", c.addr, pagequeue.ErrUnexpectedEOF)
	}
	p, err := c.q.ReadPageFor(c.addr)
	if err != nil {
		return 0, err
	}
	c.trackPage(p.Index)
	b := p.Buf[c.addr-p.MinAddr]
	c.addr++
	return b, nil
}

// WriteByte writes b at the cursor and advances. Fails past a frozen EOF.
func (c *ByteCursor) WriteByte(b byte) error {
	p, err := c.q.WritePageFor(c.addr)
	if err != nil {
		return err
	}
	c.trackPage(p.Index)
	p.Buf[c.addr-p.MinAddr] = b
	c.addr++
	return nil
}

// ReadBytes reads len(out) bytes in sequence.
func (c *ByteCursor) ReadBytes(out []byte) error {
	for i := range out {
		b, err := c.ReadByte()
		if err != nil {
			return err
		}
		out[i] = b
	}
	return nil
}

// WriteBytes writes every byte of in in sequence.
func (c *ByteCursor) WriteBytes(in []byte) error {
	for _, b := range in {
		if err := c.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
