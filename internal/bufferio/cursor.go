// Package bufferio provides a bounded, positional reader over an immutable byte slice.
//
// A Cursor never writes to the slice it reads from, so any number of cursors
// may share one backing buffer across goroutines. Each Cursor value carries its
// own position and must not itself be shared between goroutines.
package bufferio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var order = binary.BigEndian

// ErrShortBuffer is returned when a read or seek would leave the cursor's bounds.
var ErrShortBuffer = errors.New("bufferio: read past end of buffer")

// Cursor reads big-endian values from a byte slice.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of b.
// The caller must not modify b while cursors over it are in use.
func New(b []byte) *Cursor {
	return &Cursor{buf: b[:len(b):len(b)]}
}

// Len returns the total number of bytes visible to the cursor.
func (c *Cursor) Len() int { return len(c.buf) }

// Pos returns the current read position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the read position to off.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.buf) {
		return fmt.Errorf("seek to %d of %d: %w", off, len(c.buf), ErrShortBuffer)
	}
	c.pos = off
	return nil
}

// Skip advances the read position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("skip %d: negative count", n)
	}
	return c.Seek(c.pos + n)
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("read %d bytes at %d of %d: %w", n, c.pos, len(c.buf), ErrShortBuffer)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadByte reads a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 reads a four-octet unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// ReadInt32 reads a four-octet two's complement integer.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Read implements io.Reader so that stream decoders can consume a cursor.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.Remaining() == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, c.buf[c.pos:])
	c.pos += n
	return n, nil
}

// Peek returns a copy of the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	pos := c.pos
	b, err := c.ReadBytes(n)
	c.pos = pos
	return b, err
}

// Slice returns a new cursor restricted to buf[off:off+n] of this cursor.
// The new cursor starts at position 0 and cannot see bytes outside its range.
func (c *Cursor) Slice(off, n int) (*Cursor, error) {
	if off < 0 || n < 0 || off > len(c.buf) || n > len(c.buf)-off {
		return nil, fmt.Errorf("slice [%d:+%d] of %d: %w", off, n, len(c.buf), ErrShortBuffer)
	}
	return &Cursor{buf: c.buf[off : off+n : off+n]}, nil
}
