package pagequeue

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ErrFrozenWrite is returned when a write is attempted past a frozen EOF.
var ErrFrozenWrite = errors.New("pagequeue: write past frozen eof")

// ErrUnexpectedEOF is returned when a read is attempted past a frozen EOF
// with no data buffered to satisfy it.
var ErrUnexpectedEOF = errors.New("pagequeue: unexpected eof")

// Queue is an append-only paged buffer. Addresses are monotonic: writing
// beyond the current max address zero-fills the pages in between. Once
// EOF is frozen, no writes past it succeed.
//
// reachable tracks, per page index, whether any live cursor can still read
// that page; Dump releases pages whose bit is clear. A cursor clears a
// page's bit through ReleasePage when it moves to another page or is
// released (see cursor.ByteCursor's trackPage and Release).
type Queue struct {
	head       *Page
	tail       *Page
	eof        int64
	eofFrozen  bool
	reachable  *bitset.BitSet
	liveCounts map[int]int // refcount per page index held by live cursors
}

// New returns an empty, unfrozen queue.
func New() *Queue {
	return &Queue{
		eof:        -1,
		reachable:  bitset.New(64),
		liveCounts: make(map[int]int),
	}
}

func (q *Queue) pageIndexFor(addr int64) int {
	return int(addr / PageSize)
}

// growTo appends zero-filled pages until a page containing addr exists,
// returning that page.
func (q *Queue) growTo(addr int64) *Page {
	idx := q.pageIndexFor(addr)

	if q.head == nil {
		q.head = newPage(0)
		q.tail = q.head
	}

	for q.tail.Index < idx {
		p := newPage(q.tail.Index + 1)
		q.tail.next = p
		q.tail = p
	}

	return q.pageAt(idx)
}

func (q *Queue) pageAt(idx int) *Page {
	for p := q.head; p != nil; p = p.next {
		if p.Index == idx {
			return p
		}
	}
	return nil
}

// ReadPageFor fetches or grows pages so that addr is readable. It fails
// only if addr is at or past a frozen EOF.
func (q *Queue) ReadPageFor(addr int64) (*Page, error) {
	if q.eofFrozen && addr >= q.eof {
		return nil, fmt.Errorf("pagequeue: read at %d past frozen eof %d: %w", addr, q.eof, ErrUnexpectedEOF)
	}
	p := q.growTo(addr)
	q.markReachable(p.Index)
	return p, nil
}

// WritePageFor grows pages and zero-fills gaps so addr is writable. It
// fails if EOF is frozen and addr is at or past it.
func (q *Queue) WritePageFor(addr int64) (*Page, error) {
	if q.eofFrozen && addr >= q.eof {
		return nil, fmt.Errorf("pagequeue: write at %d past frozen eof %d: %w", addr, q.eof, ErrFrozenWrite)
	}
	p := q.growTo(addr)
	q.markReachable(p.Index)
	if addr+1 > q.eof && !q.eofFrozen {
		q.eof = addr + 1
	}
	return p, nil
}

func (q *Queue) markReachable(idx int) {
	q.reachable.Set(uint(idx))
}

// AcquirePage increments the live-cursor refcount on a page index.
func (q *Queue) AcquirePage(idx int) {
	q.liveCounts[idx]++
	q.markReachable(idx)
}

// ReleasePage decrements the refcount; when it drops to zero the page's
// reachability bit is cleared so a later Dump can free it.
func (q *Queue) ReleasePage(idx int) {
	if q.liveCounts[idx] <= 1 {
		delete(q.liveCounts, idx)
		q.reachable.Clear(uint(idx))
		return
	}
	q.liveCounts[idx]--
}

// FreezeEOF fixes EOF at addr and releases any in-memory pages beyond it.
func (q *Queue) FreezeEOF(addr int64) {
	q.eof = addr
	q.eofFrozen = true

	lastIdx := q.pageIndexFor(addr - 1)
	if addr == 0 {
		lastIdx = -1
	}

	var prev *Page
	for p := q.head; p != nil; {
		next := p.next
		if p.Index > lastIdx {
			if prev != nil {
				prev.next = nil
			} else {
				q.head = nil
			}
			q.tail = prev
			break
		}
		prev = p
		p = next
	}
}

// EOF returns the current (possibly still growing) end-of-file address.
func (q *Queue) EOF() int64 { return q.eof }

// EOFFrozen reports whether FreezeEOF has been called.
func (q *Queue) EOFFrozen() bool { return q.eofFrozen }

// Read copies len(out) bytes starting at addr, looping page by page.
func (q *Queue) Read(addr int64, out []byte) (int, error) {
	n := 0
	for n < len(out) {
		p, err := q.ReadPageFor(addr + int64(n))
		if err != nil {
			return n, err
		}
		off := (addr + int64(n)) - p.MinAddr
		avail := PageSize - int(off)
		want := len(out) - n
		if want > avail {
			want = avail
		}
		copy(out[n:n+want], p.Buf[off:int(off)+want])
		n += want
	}
	return n, nil
}

// Write copies in into the queue starting at addr, looping page by page.
func (q *Queue) Write(addr int64, in []byte) (int, error) {
	n := 0
	for n < len(in) {
		p, err := q.WritePageFor(addr + int64(n))
		if err != nil {
			return n, err
		}
		off := (addr + int64(n)) - p.MinAddr
		avail := PageSize - int(off)
		want := len(in) - n
		if want > avail {
			want = avail
		}
		copy(p.Buf[off:int(off)+want], in[n:n+want])
		n += want
		if addr+int64(n) > q.eof && !q.eofFrozen {
			q.eof = addr + int64(n)
		}
	}
	return n, nil
}

// Dump releases any page whose reachability bit is clear. Returns the
// number of pages freed.
func (q *Queue) Dump() int {
	freed := 0
	var prev *Page
	for p := q.head; p != nil; {
		next := p.next
		if !q.reachable.Test(uint(p.Index)) {
			if prev != nil {
				prev.next = next
			} else {
				q.head = next
			}
			if p == q.tail {
				q.tail = prev
			}
			freed++
		} else {
			prev = p
		}
		p = next
	}
	return freed
}
