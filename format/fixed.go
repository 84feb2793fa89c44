package format

import "encoding/binary"

// EncodeUint8 encodes v as a single byte. It is the caller's responsibility
// to ensure v fits (callers route through Formatter.FormatFor which checks).
func EncodeUint8(v uint64) []byte { return []byte{byte(v)} }

// EncodeUint32 little-endian encodes the low 32 bits of v.
func EncodeUint32(v uint64) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

// EncodeUint64 little-endian encodes v.
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// Encode dispatches to the byte encoding for format f. The Varint32 and
// Varuint32 variants do not truncate: v is encoded at full width, the same
// as for the ...64 variants.
func Encode(v uint64, f Format) []byte {
	switch f {
	case Uint8:
		return EncodeUint8(v)
	case Uint32:
		return EncodeUint32(v)
	case Uint64:
		return EncodeUint64(v)
	case Varint32, Varint64:
		return EncodeVarint(int64(v))
	case Varuint32, Varuint64:
		return EncodeUvarint(v)
	default:
		panic("format: unknown format")
	}
}

// Decode dispatches to the byte decoding for format f.
func Decode(b []byte, f Format) (v uint64, n int, ok bool) {
	switch f {
	case Uint8:
		if len(b) < 1 {
			return 0, 0, false
		}
		return uint64(b[0]), 1, true
	case Uint32:
		if len(b) < 4 {
			return 0, 0, false
		}
		return uint64(binary.LittleEndian.Uint32(b)), 4, true
	case Uint64:
		if len(b) < 8 {
			return 0, 0, false
		}
		return binary.LittleEndian.Uint64(b), 8, true
	case Varint32, Varint64:
		sv, n, ok := DecodeVarint(b)
		return uint64(sv), n, ok
	case Varuint32, Varuint64:
		return DecodeUvarint(b)
	default:
		return 0, 0, false
	}
}

// ByteSize returns the encoded length of v under format f without
// allocating the encoding.
func ByteSize(v uint64, f Format) int {
	switch f {
	case Uint8:
		return 1
	case Uint32:
		return 4
	case Uint64:
		return 8
	case Varint32, Varint64:
		return len(EncodeVarint(int64(v)))
	case Varuint32, Varuint64:
		n := 1
		for v >>= 7; v != 0; v >>= 7 {
			n++
		}
		return n
	default:
		panic("format: unknown format")
	}
}
