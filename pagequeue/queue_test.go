package pagequeue

import (
	"bytes"
	"errors"
	"testing"
)

func setupQueueTest(t *testing.T) *Queue {
	q := New()
	if q.EOFFrozen() {
		t.Fatal("new queue must not start frozen")
	}
	return q
}

func TestWriteReadRoundTrip(t *testing.T) {
	q := setupQueueTest(t)

	want := []byte{0x00, 0x7f, 0x80, 0xff}
	if _, err := q.Write(0, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	q.FreezeEOF(int64(len(want)))

	got := make([]byte, len(want))
	if _, err := q.Read(0, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// reading past eof fails
	extra := make([]byte, 1)
	_, err := q.Read(int64(len(want)), extra)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestWriteAcrossPageBoundary(t *testing.T) {
	q := setupQueueTest(t)

	addr := int64(PageSize - 2)
	data := []byte{1, 2, 3, 4}
	if _, err := q.Write(addr, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := make([]byte, len(data))
	if _, err := q.Read(addr, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %v want %v", got, data)
	}
}

func TestFrozenWriteFails(t *testing.T) {
	q := setupQueueTest(t)
	q.FreezeEOF(4)

	_, err := q.Write(4, []byte{1})
	if !errors.Is(err, ErrFrozenWrite) {
		t.Fatalf("expected ErrFrozenWrite, got %v", err)
	}

	// writes before eof still succeed
	if _, err := q.Write(0, []byte{9}); err != nil {
		t.Fatalf("write before eof should succeed: %v", err)
	}
}

func TestDumpReleasesUnreachablePages(t *testing.T) {
	q := setupQueueTest(t)

	if _, err := q.Write(0, []byte{1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := q.Write(PageSize+1, []byte{2}); err != nil {
		t.Fatalf("write: %v", err)
	}

	q.ReleasePage(0)
	freed := q.Dump()
	if freed != 1 {
		t.Fatalf("expected 1 page freed, got %d", freed)
	}
}
