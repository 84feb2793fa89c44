package format

import (
	"bytes"
	"testing"
)

func TestUvarintLiterals(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, c := range cases {
		got := EncodeUvarint(c.v)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("EncodeUvarint(%d) = %v, want %v", c.v, got, c.want)
		}
		back, n, ok := DecodeUvarint(got)
		if !ok || back != c.v || n != len(got) {
			t.Fatalf("DecodeUvarint(%v) = (%d,%d,%v), want (%d,%d,true)", got, back, n, ok, c.v, len(got))
		}
	}
}

func TestVarintLiterals(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{-1, []byte{0x7f}},
		{0, []byte{0x00}},
		{63, []byte{0x3f}},
		{-64, []byte{0x40}},
	}
	for _, c := range cases {
		got := EncodeVarint(c.v)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("EncodeVarint(%d) = %v, want %v", c.v, got, c.want)
		}
		back, n, ok := DecodeVarint(got)
		if !ok || back != c.v || n != len(got) {
			t.Fatalf("DecodeVarint(%v) = (%d,%d,%v), want (%d,%d,true)", got, back, n, ok, c.v, len(got))
		}
	}
}

func TestVarintRoundTripRange(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, -128, 128, -129, 1 << 20, -(1 << 20), 1 << 40, -(1 << 40)} {
		enc := EncodeVarint(v)
		back, n, ok := DecodeVarint(enc)
		if !ok || back != v || n != len(enc) {
			t.Fatalf("round trip failed for %d: got %d ok=%v n=%d/%d", v, back, ok, n, len(enc))
		}
	}
}

func TestFormatterByteSizeMatchesEncodedLength(t *testing.T) {
	f := NewFormatter()
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 16, 1 << 40} {
		for _, fmt := range AllFormats {
			size := f.ByteSizeFor(v, fmt)
			if size == NotValid {
				continue
			}
			if got := len(Encode(v, fmt)); got != size {
				t.Fatalf("value %d format %v: cached size %d != encoded length %d", v, fmt, size, got)
			}
		}
	}
}

func TestFormatForPicksMinimum(t *testing.T) {
	f := NewFormatter()
	if got := f.FormatFor(0); got != Uint8 {
		t.Fatalf("FormatFor(0) = %v, want Uint8", got)
	}
	if got := f.FormatFor(1 << 40); got == Uint8 || got == Uint32 {
		t.Fatalf("FormatFor(2^40) picked too-small format %v", got)
	}
}
