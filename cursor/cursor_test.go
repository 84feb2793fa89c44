package cursor

import (
	"errors"
	"testing"

	"github.com/Priyanshu23/filterc/pagequeue"
)

func setupCursorTest(t *testing.T) *pagequeue.Queue {
	return pagequeue.New()
}

func TestByteRoundTrip(t *testing.T) {
	q := setupCursorTest(t)
	w := NewByteCursor(q, 0)

	want := []byte{0x00, 0x7f, 0x80, 0xff}
	if err := w.WriteBytes(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	q.FreezeEOF(w.Addr())

	r := NewByteCursor(q, 0)
	got := make([]byte, len(want))
	if err := r.ReadBytes(got); err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, got[i], want[i])
		}
	}

	if _, err := r.ReadByte(); !errors.Is(err, pagequeue.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestNestedBlocks(t *testing.T) {
	q := setupCursorTest(t)
	w := NewByteCursor(q, 0)

	outerStart, err := w.OpenWriteBlock()
	if err != nil {
		t.Fatalf("open outer: %v", err)
	}
	if err := w.WriteByte(1); err != nil {
		t.Fatal(err)
	}

	innerStart, err := w.OpenWriteBlock()
	if err != nil {
		t.Fatalf("open inner: %v", err)
	}
	if err := w.WriteByte(2); err != nil {
		t.Fatal(err)
	}
	if err := w.CloseWriteBlock(innerStart); err != nil {
		t.Fatalf("close inner: %v", err)
	}

	if err := w.WriteByte(3); err != nil {
		t.Fatal(err)
	}
	if err := w.CloseWriteBlock(outerStart); err != nil {
		t.Fatalf("close outer: %v", err)
	}

	q.FreezeEOF(w.Addr())

	r := NewByteCursor(q, 0)
	outerLen, err := r.OpenReadBlock()
	if err != nil {
		t.Fatalf("open read outer: %v", err)
	}
	v1, err := r.ReadByte()
	if err != nil || v1 != 1 {
		t.Fatalf("expected 1, got %d err=%v", v1, err)
	}

	innerLen, err := r.OpenReadBlock()
	if err != nil {
		t.Fatalf("open read inner: %v", err)
	}
	v2, err := r.ReadByte()
	if err != nil || v2 != 2 {
		t.Fatalf("expected 2, got %d err=%v", v2, err)
	}
	if err := r.CloseReadBlock(); err != nil {
		t.Fatalf("close read inner: %v", err)
	}
	if innerLen != 1 {
		t.Fatalf("inner body length = %d, want 1", innerLen)
	}

	v3, err := r.ReadByte()
	if err != nil || v3 != 3 {
		t.Fatalf("expected 3, got %d err=%v", v3, err)
	}
	if err := r.CloseReadBlock(); err != nil {
		t.Fatalf("close read outer: %v", err)
	}
	if outerLen == 0 {
		t.Fatalf("outer body length should cover inner block + byte 3")
	}
}

// TestNestedBlocksMinimizeShrinksBothPrefixes traces the exact sequence
// from spec.md §8 scenario 3 with minimization turned on: open A; write 1;
// open B; write 2; close B; write 3; close A. Shrinking B's 5-byte reserved
// prefix down to 1 byte changes A's true body length, so a fresh read
// cursor over the minimized bytes must still see the untouched original
// sequence: 1, then inner block containing only 2, then 3.
func TestNestedBlocksMinimizeShrinksBothPrefixes(t *testing.T) {
	q := setupCursorTest(t)
	w := NewByteCursor(q, 0)

	outerStart, err := w.OpenWriteBlock()
	if err != nil {
		t.Fatalf("open outer: %v", err)
	}
	if err := w.WriteByte(1); err != nil {
		t.Fatal(err)
	}

	innerStart, err := w.OpenWriteBlock()
	if err != nil {
		t.Fatalf("open inner: %v", err)
	}
	if err := w.WriteByte(2); err != nil {
		t.Fatal(err)
	}
	if err := w.CloseWriteBlock(innerStart); err != nil {
		t.Fatalf("close inner: %v", err)
	}
	innerBodyEnd := w.Addr()

	if err := w.WriteByte(3); err != nil {
		t.Fatal(err)
	}
	if err := w.CloseWriteBlock(outerStart); err != nil {
		t.Fatalf("close outer: %v", err)
	}
	outerBodyEnd := w.Addr()

	spans := [][2]int64{{outerStart, outerBodyEnd}, {innerStart, innerBodyEnd}}
	newLen, err := MinimizeBlocks(q, outerBodyEnd, spans)
	if err != nil {
		t.Fatalf("MinimizeBlocks: %v", err)
	}
	// Outer body after shrink: byte 1 (1) + inner framing (1-byte prefix +
	// 1-byte body = 2) + byte 3 (1) = 4 bytes; outer's own prefix shrinks
	// from 5 bytes to 1. Total: 1 (outer prefix) + 4 (outer body) = 5.
	if newLen != 5 {
		t.Fatalf("minimized length = %d, want 5", newLen)
	}

	q.FreezeEOF(newLen)

	r := NewByteCursor(q, 0)
	outerLen, err := r.OpenReadBlock()
	if err != nil {
		t.Fatalf("open read outer: %v", err)
	}
	if outerLen != 4 {
		t.Fatalf("outer body length = %d, want 4", outerLen)
	}
	v1, err := r.ReadByte()
	if err != nil || v1 != 1 {
		t.Fatalf("expected 1, got %d err=%v", v1, err)
	}
	innerLen, err := r.OpenReadBlock()
	if err != nil {
		t.Fatalf("open read inner: %v", err)
	}
	if innerLen != 1 {
		t.Fatalf("inner body length = %d, want 1", innerLen)
	}
	v2, err := r.ReadByte()
	if err != nil || v2 != 2 {
		t.Fatalf("expected 2, got %d err=%v", v2, err)
	}
	if err := r.CloseReadBlock(); err != nil {
		t.Fatalf("close read inner: %v", err)
	}
	v3, err := r.ReadByte()
	if err != nil || v3 != 3 {
		t.Fatalf("expected 3 immediately after the inner block, got %d err=%v", v3, err)
	}
	if err := r.CloseReadBlock(); err != nil {
		t.Fatalf("close read outer: %v", err)
	}
	if _, err := r.ReadByte(); !errors.Is(err, pagequeue.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF after the outer block, got %v", err)
	}
}

func TestCloseBlockBeforeOpenFails(t *testing.T) {
	q := setupCursorTest(t)
	r := NewByteCursor(q, 0)
	if err := r.CloseReadBlock(); !errors.Is(err, ErrProtocolViolation) {
		t.Fatalf("expected ErrProtocolViolation, got %v", err)
	}
}

func TestBitCursorMsbFirst(t *testing.T) {
	q := setupCursorTest(t)
	w := NewBitCursor(q, 0)

	// 0b10110010 written bit by bit MSB first should equal byte 0xb2.
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	for _, b := range bits {
		if err := w.WriteBit(b); err != nil {
			t.Fatal(err)
		}
	}
	q.FreezeEOF(w.Addr())

	r := NewByteCursor(q, 0)
	got, err := r.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xb2 {
		t.Fatalf("got %#x want %#x", got, 0xb2)
	}
}

func TestBitCursorAlignPadsZero(t *testing.T) {
	q := setupCursorTest(t)
	w := NewBitCursor(q, 0)

	if err := w.WriteBits(0b101, 3); err != nil {
		t.Fatal(err)
	}
	if err := w.AlignToByte(); err != nil {
		t.Fatal(err)
	}
	q.FreezeEOF(w.Addr())

	r := NewByteCursor(q, 0)
	got, err := r.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0b10100000 {
		t.Fatalf("got %#b want %#b", got, 0b10100000)
	}
}
