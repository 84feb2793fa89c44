// Package pagequeue implements the paged byte-stream substrate: fixed-size
// pages appended to a growable queue, with random-access read/write and a
// freezable end-of-file address.
package pagequeue

// PageSize is the fixed size, in bytes, of every page in a Queue.
const PageSize = 4096

// Page is a fixed-size backing buffer addressed by its index in the queue.
// MinAddr is Index*PageSize; MaxAddr is always MinAddr+PageSize. On a
// frozen queue the EOF, not MaxAddr, bounds reads of the final page.
type Page struct {
	Index   int
	Buf     [PageSize]byte
	MinAddr int64
	MaxAddr int64
	next    *Page
}

func newPage(index int) *Page {
	return &Page{
		Index:   index,
		MinAddr: int64(index) * PageSize,
		MaxAddr: int64(index)*PageSize + PageSize,
	}
}

// Contains reports whether addr falls within [MinAddr, MaxAddr).
func (p *Page) Contains(addr int64) bool {
	return addr >= p.MinAddr && addr < p.MaxAddr
}
