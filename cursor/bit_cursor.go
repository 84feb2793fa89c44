package cursor

import "github.com/Priyanshu23/filterc/pagequeue"

// BitCursor layers bit-granular I/O on top of a ByteCursor: an 8-bit
// accumulator and a remaining-bit counter, MSB-first.
type BitCursor struct {
	*ByteCursor
	writeAcc  byte
	writeNbit uint
	readAcc   byte
	readNbit  uint
}

// NewBitCursor returns a bit cursor positioned at addr over q.
func NewBitCursor(q *pagequeue.Queue, addr int64) *BitCursor {
	return &BitCursor{ByteCursor: NewByteCursor(q, addr)}
}

// WriteBit shifts bit into the write accumulator MSB-first, emitting a
// byte via the underlying ByteCursor once 8 bits have accumulated.
func (c *BitCursor) WriteBit(bit byte) error {
	c.writeAcc = (c.writeAcc << 1) | (bit & 1)
	c.writeNbit++
	if c.writeNbit == 8 {
		if err := c.ByteCursor.WriteByte(c.writeAcc); err != nil {
			return err
		}
		c.writeAcc = 0
		c.writeNbit = 0
	}
	return nil
}

// WriteBits writes the low n bits of v, most-significant first.
func (c *BitCursor) WriteBits(v uint64, n uint) error {
	for i := n; i > 0; i-- {
		if err := c.WriteBit(byte((v >> (i - 1)) & 1)); err != nil {
			return err
		}
	}
	return nil
}

// AlignToByte pads the current partial write byte with zero bits.
func (c *BitCursor) AlignToByte() error {
	for c.writeNbit != 0 {
		if err := c.WriteBit(0); err != nil {
			return err
		}
	}
	c.readNbit = 0
	return nil
}

// ReadBit returns the next bit, draining the read accumulator first and
// refilling it from the underlying ByteCursor when empty.
func (c *BitCursor) ReadBit() (byte, error) {
	if c.readNbit == 0 {
		b, err := c.ByteCursor.ReadByte()
		if err != nil {
			return 0, err
		}
		c.readAcc = b
		c.readNbit = 8
	}
	c.readNbit--
	return (c.readAcc >> c.readNbit) & 1, nil
}

// ReadBits reads n bits MSB-first into the low bits of the result.
func (c *BitCursor) ReadBits(n uint) (uint64, error) {
	var v uint64
	for i := uint(0); i < n; i++ {
		bit, err := c.ReadBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | uint64(bit)
	}
	return v, nil
}

// ReadByteAligned drains any buffered read bits (discarding them, per
// spec.md §4.1 "a byte-aligned read drains accumulator first") then reads
// a full byte from the underlying cursor.
func (c *BitCursor) ReadByteAligned() (byte, error) {
	c.readNbit = 0
	return c.ByteCursor.ReadByte()
}
