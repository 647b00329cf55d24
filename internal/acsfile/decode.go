package acsfile

import (
	"fmt"
	"unicode/utf16"

	"msagent/internal/cursor"
)

// readString decodes a length-prefixed UTF-16LE string: a u32
// length in UTF-16 code units, the code units themselves, and (when
// len>0) a trailing u16 null terminator that is required and discarded.
func readString(c *cursor.Cursor) (string, error) {
	length, err := c.U32()
	if err != nil {
		return "", fmt.Errorf("%w: string length: %v", ErrUnexpectedEOF, err)
	}
	if length == 0 {
		return "", nil
	}

	units := make([]uint16, length)
	for i := range units {
		u, err := c.U16()
		if err != nil {
			return "", fmt.Errorf("%w: string code unit %d/%d: %v", ErrUnexpectedEOF, i, length, err)
		}
		units[i] = u
	}

	null, err := c.U16()
	if err != nil {
		return "", fmt.Errorf("%w: string null terminator: %v", ErrUnexpectedEOF, err)
	}
	if null != 0 {
		return "", fmt.Errorf("%w: string missing null terminator, got 0x%04x", ErrMalformed, null)
	}

	// utf16.Decode substitutes U+FFFD for unpaired surrogates; that
	// replacement rune is the signal for a malformed sequence. A length
	// change alone is not: a valid surrogate pair decodes to one rune.
	decoded := utf16.Decode(units)
	for _, r := range decoded {
		if r == '�' {
			return "", ErrInvalidUTF16
		}
	}

	return string(decoded), nil
}

// readLocator decodes a Locator (u32 offset, u32 size).
func readLocator(c *cursor.Cursor) (Locator, error) {
	offset, err := c.U32()
	if err != nil {
		return Locator{}, fmt.Errorf("%w: locator offset: %v", ErrUnexpectedEOF, err)
	}
	size, err := c.U32()
	if err != nil {
		return Locator{}, fmt.Errorf("%w: locator size: %v", ErrUnexpectedEOF, err)
	}
	return Locator{Offset: offset, Size: size}, nil
}

// readGUID decodes a raw 16-byte GUID.
func readGUID(c *cursor.Cursor) (GUID, error) {
	var g GUID
	b, err := c.Bytes(16)
	if err != nil {
		return g, fmt.Errorf("%w: guid: %v", ErrUnexpectedEOF, err)
	}
	copy(g[:], b)
	return g, nil
}

// readRGBQuad decodes a single (B,G,R,reserved) palette entry.
func readRGBQuad(c *cursor.Cursor) (RGBQuad, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return RGBQuad{}, fmt.Errorf("%w: rgbquad: %v", ErrUnexpectedEOF, err)
	}
	return RGBQuad{Blue: b[0], Green: b[1], Red: b[2], Reserved: b[3]}, nil
}

// readPalette decodes count consecutive RGBQUADs.
func readPalette(c *cursor.Cursor, count uint32) ([]RGBQuad, error) {
	palette := make([]RGBQuad, count)
	for i := range palette {
		q, err := readRGBQuad(c)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d/%d: %w", i, count, err)
		}
		palette[i] = q
	}
	return palette, nil
}
