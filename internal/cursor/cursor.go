// Package cursor implements a bounds-checked, random-access,
// little-endian reader over an in-memory byte buffer.
//
// Unlike a plain io.Reader, a Cursor can seek to an absolute offset and can
// be windowed into a sub-Cursor that refuses to read past a fixed size —
// exactly what's needed to dereference a Locator without trusting it to
// stay inside the record that declared it.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned whenever a read would consume more bytes
// than remain in the Cursor's window.
var ErrUnexpectedEOF = errors.New("acsfile: unexpected end of buffer")

// Cursor is a position into a byte slice that every read advances.
type Cursor struct {
	buf []byte
	pos int
}

// New wraps buf in a Cursor starting at position 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len reports the number of bytes remaining in the Cursor's window.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

// Pos reports the current position within the Cursor's window.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek moves the Cursor to an absolute offset within its window.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		return fmt.Errorf("acsfile: seek offset %d out of range [0,%d]", offset, len(c.buf))
	}
	c.pos = offset
	return nil
}

// Sub returns a new Cursor windowed to [offset, offset+size) of the
// original buffer. Reads on the returned Cursor cannot see bytes outside
// that window, regardless of what the window's contents claim.
func (c *Cursor) Sub(offset, size int) (*Cursor, error) {
	if offset < 0 || size < 0 || offset+size > len(c.buf) {
		return nil, fmt.Errorf("acsfile: sub-window [%d,%d) out of range [0,%d)", offset, offset+size, len(c.buf))
	}
	return &Cursor{buf: c.buf[offset : offset+size]}, nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Bytes reads and returns the next n bytes as a slice borrowed from the
// underlying buffer. The caller must not retain it past the buffer's
// lifetime... which, for an Archive, is the lifetime of the archive itself.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

// U8 reads a single unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// I16 reads a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// I32 reads a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}
