// Package intstream implements the integer intermediate representation: a
// flat sequence of 64-bit values plus a tree of nested [begin,end) blocks
// plus a typed header, with read and write cursors that walk the block
// tree alongside the value sequence.
package intstream

import (
	"errors"
	"fmt"

	"github.com/Priyanshu23/filterc/format"
)

// ErrProtocolViolation mirrors cursor.ErrProtocolViolation for block
// mis-nesting on an IntStream (kept distinct so callers don't need to
// import the cursor package just to classify intstream errors).
var ErrProtocolViolation = errors.New("intstream: protocol violation")

// ErrUnexpectedEOF is returned when a read crosses an enclosing block's end
// or the stream's frozen end.
var ErrUnexpectedEOF = errors.New("intstream: unexpected eof")

// HeaderPair is a single (value, format) entry in a stream's header.
type HeaderPair struct {
	Value  uint64
	Format format.Format
}

// Block is a half-open [Begin,End) range over the value vector. Children
// nest strictly inside their parent; Parent is nil for the root.
type Block struct {
	Begin, End int
	Parent     *Block
	Children   []*Block
}

// Open reports whether the block has not yet been closed (End == -1).
func (b *Block) Open() bool { return b.End < 0 }

// IntStream holds the value vector, its block tree, and the header.
type IntStream struct {
	values []uint64
	root   *Block
	header []HeaderPair
	frozen bool
}

// New returns an empty stream whose root block begins at 0 and stays open
// until FreezeEOF closes it at Size().
func New() *IntStream {
	return &IntStream{root: &Block{Begin: 0, End: -1}}
}

// Size returns the number of values currently written.
func (s *IntStream) Size() int { return len(s.values) }

// Root returns the root block.
func (s *IntStream) Root() *Block { return s.root }

// Value returns the value at index i.
func (s *IntStream) Value(i int) uint64 { return s.values[i] }

// Header returns the stream's header pairs.
func (s *IntStream) Header() []HeaderPair { return s.header }

// WriteHeaderValue appends a (value, format) pair to the header.
func (s *IntStream) WriteHeaderValue(v uint64, f format.Format) {
	s.header = append(s.header, HeaderPair{Value: v, Format: f})
}

// FreezeEOF closes every still-open block at Size() and marks the stream
// frozen (see Frozen). WriteCursor.Write does not check the mark: values
// written after FreezeEOF are still appended.
func (s *IntStream) FreezeEOF() {
	var closeOpen func(b *Block)
	closeOpen = func(b *Block) {
		if b.Open() {
			b.End = len(s.values)
		}
		for _, c := range b.Children {
			closeOpen(c)
		}
	}
	closeOpen(s.root)
	s.frozen = true
}

// Frozen reports whether FreezeEOF has been called.
func (s *IntStream) Frozen() bool { return s.frozen }

// checkInvariant validates that, for every block, Begin <= End (once
// closed) and children nest within [Begin,End). Used by tests.
func (s *IntStream) checkInvariant() error {
	var walk func(b *Block) error
	walk = func(b *Block) error {
		if !b.Open() && b.Begin > b.End {
			return fmt.Errorf("intstream: block [%d,%d) inverted", b.Begin, b.End)
		}
		for _, c := range b.Children {
			if c.Begin < b.Begin || (!b.Open() && !c.Open() && c.End > b.End) {
				return fmt.Errorf("intstream: child block [%d,%d) escapes parent [%d,%d)", c.Begin, c.End, b.Begin, b.End)
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.root)
}
