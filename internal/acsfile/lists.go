package acsfile

import (
	"fmt"

	"msagent/internal/cursor"
)

// readAnimationList decodes the AnimationInfoList header (u32 count) and,
// for each entry, its name plus the fully-decoded Animation payload at its
// locator.
func readAnimationList(root []byte, loc Locator) ([]AnimationEntry, error) {
	if loc.IsNil() {
		return nil, nil
	}
	if err := loc.Validate(len(root)); err != nil {
		return nil, err
	}
	c, err := cursor.New(root).Sub(int(loc.Offset), int(loc.Size))
	if err != nil {
		return nil, fmt.Errorf("animation list window: %w", err)
	}

	count, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: animation list count: %v", ErrUnexpectedEOF, err)
	}

	entries := make([]AnimationEntry, count)
	for i := range entries {
		name, err := readString(c)
		if err != nil {
			return nil, fmt.Errorf("animation entry %d name: %w", i, err)
		}
		entryLoc, err := readLocator(c)
		if err != nil {
			return nil, fmt.Errorf("animation entry %d locator: %w", i, err)
		}
		if err := entryLoc.Validate(len(root)); err != nil {
			return nil, err
		}

		sub, err := cursor.New(root).Sub(int(entryLoc.Offset), int(entryLoc.Size))
		if err != nil {
			return nil, fmt.Errorf("animation entry %d window: %w", i, err)
		}
		anim, err := readAnimation(sub)
		if err != nil {
			return nil, fmt.Errorf("animation entry %d %q: %w", i, name, err)
		}

		entries[i] = AnimationEntry{Name: name, Animation: anim}
	}
	return entries, nil
}

// rowStride returns the DIB-style 4-byte-padded row length for a given
// pixel width.
func rowStride(width uint16) int {
	return (int(width) + 3) &^ 3
}

// readImageEntry decodes one ImageEntry: its eager ImageHeader, plus the
// Locators spanning the (still-opaque) pixel plane and region blob that
// follow it inside dataLoc's window.
func readImageEntry(root []byte, dataLoc Locator, checksum uint32) (ImageEntry, error) {
	entry := ImageEntry{DataLocator: dataLoc, Checksum: checksum}

	if err := dataLoc.Validate(len(root)); err != nil {
		return entry, err
	}
	c, err := cursor.New(root).Sub(int(dataLoc.Offset), int(dataLoc.Size))
	if err != nil {
		return entry, fmt.Errorf("image data window: %w", err)
	}

	var h ImageHeader
	if h.Unknown, err = c.U8(); err != nil {
		return entry, fmt.Errorf("%w: image header unknown byte: %v", ErrUnexpectedEOF, err)
	}
	if h.Width, err = c.U16(); err != nil {
		return entry, fmt.Errorf("%w: image header width: %v", ErrUnexpectedEOF, err)
	}
	if h.Height, err = c.U16(); err != nil {
		return entry, fmt.Errorf("%w: image header height: %v", ErrUnexpectedEOF, err)
	}
	compressed, err := c.U8()
	if err != nil {
		return entry, fmt.Errorf("%w: image header compressed flag: %v", ErrUnexpectedEOF, err)
	}
	h.Compressed = compressed != 0
	entry.Header = h

	pixelStart := c.Pos()
	if h.Compressed {
		csize, err := c.U32()
		if err != nil {
			return entry, fmt.Errorf("%w: image compressed size: %v", ErrUnexpectedEOF, err)
		}
		if _, err := c.U32(); err != nil { // uncompressed size, re-read lazily from the same bytes
			return entry, fmt.Errorf("%w: image uncompressed size: %v", ErrUnexpectedEOF, err)
		}
		if _, err := c.Bytes(int(csize)); err != nil {
			return entry, fmt.Errorf("%w: image compressed payload: %v", ErrUnexpectedEOF, err)
		}
	} else {
		total := rowStride(h.Width) * int(h.Height)
		if _, err := c.Bytes(total); err != nil {
			return entry, fmt.Errorf("%w: image raw payload: %v", ErrUnexpectedEOF, err)
		}
	}
	pixelEnd := c.Pos()
	entry.PixelLocator = Locator{
		Offset: dataLoc.Offset + uint32(pixelStart),
		Size:   uint32(pixelEnd - pixelStart),
	}

	regionStart := c.Pos()
	regionCSize, err := c.U32()
	if err != nil {
		return entry, fmt.Errorf("%w: region compressed size: %v", ErrUnexpectedEOF, err)
	}
	if _, err := c.U32(); err != nil { // region uncompressed size
		return entry, fmt.Errorf("%w: region uncompressed size: %v", ErrUnexpectedEOF, err)
	}
	if _, err := c.Bytes(int(regionCSize)); err != nil {
		return entry, fmt.Errorf("%w: region payload: %v", ErrUnexpectedEOF, err)
	}
	regionEnd := c.Pos()
	entry.RegionLocator = Locator{
		Offset: dataLoc.Offset + uint32(regionStart),
		Size:   uint32(regionEnd - regionStart),
	}

	return entry, nil
}

// readImageList decodes the ImageInfoList: u32 count, then {Locator,
// u32 checksum} per entry.
func readImageList(root []byte, loc Locator) ([]ImageEntry, error) {
	if loc.IsNil() {
		return nil, nil
	}
	if err := loc.Validate(len(root)); err != nil {
		return nil, err
	}
	c, err := cursor.New(root).Sub(int(loc.Offset), int(loc.Size))
	if err != nil {
		return nil, fmt.Errorf("image list window: %w", err)
	}

	count, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: image list count: %v", ErrUnexpectedEOF, err)
	}

	entries := make([]ImageEntry, count)
	for i := range entries {
		dataLoc, err := readLocator(c)
		if err != nil {
			return nil, fmt.Errorf("image entry %d locator: %w", i, err)
		}
		checksum, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: image entry %d checksum: %v", ErrUnexpectedEOF, i, err)
		}
		entry, err := readImageEntry(root, dataLoc, checksum)
		if err != nil {
			return nil, fmt.Errorf("image entry %d: %w", i, err)
		}
		entries[i] = entry
	}
	return entries, nil
}

// readAudioList decodes the AudioInfoList: u32 count, then {Locator,
// u32 checksum} per entry. Audio payloads stay opaque.
func readAudioList(root []byte, loc Locator) ([]AudioEntry, error) {
	if loc.IsNil() {
		return nil, nil
	}
	if err := loc.Validate(len(root)); err != nil {
		return nil, err
	}
	c, err := cursor.New(root).Sub(int(loc.Offset), int(loc.Size))
	if err != nil {
		return nil, fmt.Errorf("audio list window: %w", err)
	}

	count, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: audio list count: %v", ErrUnexpectedEOF, err)
	}

	entries := make([]AudioEntry, count)
	for i := range entries {
		dataLoc, err := readLocator(c)
		if err != nil {
			return nil, fmt.Errorf("audio entry %d locator: %w", i, err)
		}
		checksum, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: audio entry %d checksum: %v", ErrUnexpectedEOF, i, err)
		}
		if err := dataLoc.Validate(len(root)); err != nil {
			return nil, err
		}
		entries[i] = AudioEntry{DataLocator: dataLoc, Checksum: checksum}
	}
	return entries, nil
}
