package format

// NotValid is a sentinel byte size distinct from zero, meaning "this value
// cannot be represented in this format" (e.g. a value too wide for Uint8).
const NotValid = -1

// AllFormats lists every format in enum/tie-breaking order.
var AllFormats = []Format{Uint8, Uint32, Uint64, Varint32, Varint64, Varuint32, Varuint64}

// Formatter caches, per value, the encoded byte count for each format and
// answers FormatFor with the minimum-size format (ties preferring the
// earlier enum position).
type Formatter struct {
	cache map[uint64][7]int // indexed by Format
}

// NewFormatter returns an empty, lazily-populated formatter cache.
func NewFormatter() *Formatter {
	return &Formatter{cache: make(map[uint64][7]int)}
}

// sizeFor returns the byte size of v under f, or NotValid if v overflows f's
// representable range (applies to the fixed-width and 32-bit formats).
func sizeFor(v uint64, f Format) int {
	switch f {
	case Uint8:
		if v > 0xff {
			return NotValid
		}
		return 1
	case Uint32:
		if v > 0xffffffff {
			return NotValid
		}
		return 4
	case Uint64:
		return 8
	case Varint32:
		if int64(v) > 0x7fffffff || int64(v) < -0x80000000 {
			return NotValid
		}
		return ByteSize(v, Varint32)
	case Varint64:
		return ByteSize(v, Varint64)
	case Varuint32:
		if v > 0xffffffff {
			return NotValid
		}
		return ByteSize(v, Varuint32)
	case Varuint64:
		return ByteSize(v, Varuint64)
	default:
		return NotValid
	}
}

// sizes lazily computes and memoizes the per-format byte sizes for v.
func (c *Formatter) sizes(v uint64) [7]int {
	if s, ok := c.cache[v]; ok {
		return s
	}
	var s [7]int
	for i, f := range AllFormats {
		s[i] = sizeFor(v, f)
	}
	c.cache[v] = s
	return s
}

// ByteSizeFor returns the cached byte size of v under f (NotValid if v does
// not fit f).
func (c *Formatter) ByteSizeFor(v uint64, f Format) int {
	return c.sizes(v)[int(f)]
}

// FormatFor returns the format yielding the smallest encoding for v. Ties
// break in enum order (Uint8 < Uint32 < Uint64 < Varint32 < Varint64 <
// Varuint32 < Varuint64).
func (c *Formatter) FormatFor(v uint64) Format {
	sizes := c.sizes(v)
	best := Uint64
	bestSize := sizes[int(Uint64)]
	for i, f := range AllFormats {
		sz := sizes[i]
		if sz == NotValid {
			continue
		}
		if sz < bestSize {
			bestSize = sz
			best = f
		}
	}
	return best
}
