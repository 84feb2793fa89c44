package interp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/cursor"
	"github.com/Priyanshu23/filterc/format"
	"github.com/Priyanshu23/filterc/intstream"
	"github.com/Priyanshu23/filterc/pagequeue"
)

func TestByteCopyLoopUnboundedRoundTrips(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5}

	inQ := pagequeue.New()
	ic := cursor.NewByteCursor(inQ, 0)
	if err := ic.WriteBytes(in); err != nil {
		t.Fatalf("seed input: %v", err)
	}
	inQ.FreezeEOF(int64(len(in)))

	syms := ast.NewSymbolTable(nil)
	body := syms.New(ast.KindUint8)
	root := syms.New(ast.KindLoopUnbounded, body)

	reader := NewByteReader(cursor.NewByteCursor(inQ, 0))
	outQ := pagequeue.New()
	owc := cursor.NewByteCursor(outQ, 0)
	writer := NewByteWriter(owc)

	ip := NewInterpreter(root, syms, reader, writer)
	if st := ip.Start(); st != StateDone {
		t.Fatalf("state = %v, err = %v", st, ip.Err())
	}
	if err := writer.FreezeEOF(); err != nil {
		t.Fatalf("freeze output: %v", err)
	}

	out := make([]byte, len(in))
	if _, err := outQ.Read(0, out); err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("out = %v, want %v", out, in)
	}
}

func TestBlockNodeWritesLengthPrefix(t *testing.T) {
	syms := ast.NewSymbolTable(nil)
	inner := syms.New(ast.KindVaruint32)
	root := syms.New(ast.KindBlock, inner)

	// The reader side of a Block consumes a length prefix (1) before its
	// body (42).
	in := []byte{1, 42}
	inQ := pagequeue.New()
	ic := cursor.NewByteCursor(inQ, 0)
	if err := ic.WriteBytes(in); err != nil {
		t.Fatalf("seed input: %v", err)
	}
	inQ.FreezeEOF(int64(len(in)))

	reader := NewByteReader(cursor.NewByteCursor(inQ, 0))
	outQ := pagequeue.New()
	writer := NewByteWriter(cursor.NewByteCursor(outQ, 0))

	ip := NewInterpreter(root, syms, reader, writer)
	if st := ip.Start(); st != StateDone {
		t.Fatalf("state = %v, err = %v", st, ip.Err())
	}
	if err := writer.FreezeEOF(); err != nil {
		t.Fatalf("freeze output: %v", err)
	}

	rc := cursor.NewByteCursor(outQ, 0)
	bodyLen, err := rc.OpenReadBlock()
	if err != nil {
		t.Fatalf("open_block: %v", err)
	}
	if bodyLen != 1 {
		t.Fatalf("bodyLen = %d, want 1", bodyLen)
	}
	b, err := rc.ReadByte()
	if err != nil || b != 42 {
		t.Fatalf("body byte = %d, err = %v, want 42", b, err)
	}
	if err := rc.CloseReadBlock(); err != nil {
		t.Fatalf("close_block: %v", err)
	}
}

// TestNestedBlockMinimizeRoundTrips writes the exact nested sequence from
// spec.md §8 scenario 3 (open A; write 1; open B; write 2; close B; write
// 3; close A) through a minimizing ByteWriter, then checks a fresh read
// cursor recovers the same actions and values. This is the scenario the
// per-block backpatch approach corrupted: shrinking B's prefix must not
// strand stale bytes inside A's body or misplace the trailing 3.
func TestNestedBlockMinimizeRoundTrips(t *testing.T) {
	syms := ast.NewSymbolTable(nil)
	one := syms.NewInteger(1, format.Uint8)
	two := syms.NewInteger(2, format.Uint8)
	three := syms.NewInteger(3, format.Uint8)
	inner := syms.New(ast.KindBlock, two)
	seq := syms.New(ast.KindSequence, one, inner, three)
	root := syms.New(ast.KindBlock, seq)

	// The reader side of each Block consumes a length prefix: the outer
	// block's body is the inner block's 1-byte prefix, the inner body is empty.
	in := []byte{1, 0}
	inQ := pagequeue.New()
	if err := cursor.NewByteCursor(inQ, 0).WriteBytes(in); err != nil {
		t.Fatalf("seed input: %v", err)
	}
	inQ.FreezeEOF(int64(len(in)))
	reader := NewByteReader(cursor.NewByteCursor(inQ, 0))

	outQ := pagequeue.New()
	owc := cursor.NewByteCursor(outQ, 0)
	writer := NewByteWriter(owc)
	writer.SetMinimizeBlocks(true)

	ip := NewInterpreter(root, syms, reader, writer)
	if st := ip.Start(); st != StateDone {
		t.Fatalf("state = %v, err = %v", st, ip.Err())
	}
	if err := writer.FreezeEOF(); err != nil {
		t.Fatalf("freeze output: %v", err)
	}

	rc := cursor.NewByteCursor(outQ, 0)
	outerLen, err := rc.OpenReadBlock()
	if err != nil {
		t.Fatalf("open outer: %v", err)
	}
	if outerLen != 4 {
		t.Fatalf("outer body length = %d, want 4", outerLen)
	}
	b1, err := rc.ReadByte()
	if err != nil || b1 != 1 {
		t.Fatalf("expected 1, got %d err=%v", b1, err)
	}
	innerLen, err := rc.OpenReadBlock()
	if err != nil {
		t.Fatalf("open inner: %v", err)
	}
	if innerLen != 1 {
		t.Fatalf("inner body length = %d, want 1", innerLen)
	}
	b2, err := rc.ReadByte()
	if err != nil || b2 != 2 {
		t.Fatalf("expected 2, got %d err=%v", b2, err)
	}
	if err := rc.CloseReadBlock(); err != nil {
		t.Fatalf("close inner: %v", err)
	}
	b3, err := rc.ReadByte()
	if err != nil || b3 != 3 {
		t.Fatalf("expected 3 right after the inner block, got %d err=%v", b3, err)
	}
	if err := rc.CloseReadBlock(); err != nil {
		t.Fatalf("close outer: %v", err)
	}
}

// TestByteReaderErrorClassifiesThroughInterpSentinel checks the contract
// errors.go documents: a failure originating in a lower layer (here,
// pagequeue's own ErrUnexpectedEOF surfacing through a cursor read past the
// frozen end) must satisfy errors.Is against both the lower layer's own
// sentinel and interp's classification sentinel.
func TestByteReaderErrorClassifiesThroughInterpSentinel(t *testing.T) {
	q := pagequeue.New()
	q.FreezeEOF(0)
	r := NewByteReader(cursor.NewByteCursor(q, 0))

	_, err := r.ReadValue(format.Uint8)
	if !errors.Is(err, pagequeue.ErrUnexpectedEOF) {
		t.Fatalf("expected pagequeue.ErrUnexpectedEOF, got %v", err)
	}
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected interp.ErrUnexpectedEOF, got %v", err)
	}
}

func TestIfBranchTakenWhenPredicateNonzero(t *testing.T) {
	syms := ast.NewSymbolTable(nil)
	pred := syms.NewInteger(1, format.Uint8)
	then := syms.NewInteger(7, format.Uint8)
	root := syms.New(ast.KindIf, pred, then)

	inQ := pagequeue.New()
	inQ.FreezeEOF(0)
	reader := NewByteReader(cursor.NewByteCursor(inQ, 0))

	outQ := pagequeue.New()
	writer := NewByteWriter(cursor.NewByteCursor(outQ, 0))

	ip := NewInterpreter(root, syms, reader, writer)
	if st := ip.Start(); st != StateDone {
		t.Fatalf("state = %v, err = %v", st, ip.Err())
	}
	if err := writer.FreezeEOF(); err != nil {
		t.Fatalf("freeze output: %v", err)
	}

	out := make([]byte, 1)
	if _, err := outQ.Read(0, out); err != nil {
		t.Fatalf("read output: %v", err)
	}
	if out[0] != 7 {
		t.Fatalf("out[0] = %d, want 7", out[0])
	}
}

func TestIntWriterRoundTripsThroughIntStream(t *testing.T) {
	s := intstream.New()
	wc := intstream.NewWriteCursor(s)
	writer := NewIntWriter(wc)

	if err := writer.WriteValue(10, format.Varuint32); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.WriteAction("block.enter"); err != nil {
		t.Fatalf("block.enter: %v", err)
	}
	if err := writer.WriteValue(20, format.Varuint32); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.WriteAction("block.exit"); err != nil {
		t.Fatalf("block.exit: %v", err)
	}
	if err := writer.FreezeEOF(); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	rc := intstream.NewReadCursor(s)
	reader := NewIntReader(rc)

	v, err := reader.ReadValue(format.Varuint32)
	if err != nil || v != 10 {
		t.Fatalf("v = %d, err = %v, want 10", v, err)
	}
	if err := reader.ReadAction("block.enter"); err != nil {
		t.Fatalf("block.enter: %v", err)
	}
	v, err = reader.ReadValue(format.Varuint32)
	if err != nil || v != 20 {
		t.Fatalf("v = %d, err = %v, want 20", v, err)
	}
	if err := reader.ReadAction("block.exit"); err != nil {
		t.Fatalf("block.exit: %v", err)
	}
	if !reader.AtInputEob() {
		t.Fatalf("expected eob after draining stream")
	}
}
