// Package imagestore resolves ACS images: eagerly-parsed headers, lazily
// and memoized decoded pixel planes, and palette-to-RGBA conversion.
//
// Decoding an image is a pure function of its entry plus the shared
// palette, so the store caches the first decode of each image behind a
// sync.Once: concurrent readers of an already-decoded image never block
// each other, and the first reader to ask for a given image pays for its
// decode exactly once.
package imagestore

import (
	"fmt"
	"sync"

	"msagent/internal/acsfile"
	"msagent/internal/compression"
	"msagent/internal/cursor"
)

// Store lazily materializes pixel buffers for every image in an archive.
type Store struct {
	root             []byte
	entries          []acsfile.ImageEntry
	palette          []acsfile.RGBQuad
	transparentIndex uint8

	once   []sync.Once
	cached []cachedImage
}

type cachedImage struct {
	width, height int
	indices       []byte // top-down, row-major, one byte per pixel
	rgba          []byte // top-down, row-major, 4 bytes per pixel
	err           error
}

// New builds a Store over the archive's image entries and shared palette.
func New(root []byte, entries []acsfile.ImageEntry, palette []acsfile.RGBQuad, transparentIndex uint8) *Store {
	return &Store{
		root:             root,
		entries:          entries,
		palette:          palette,
		transparentIndex: transparentIndex,
		once:             make([]sync.Once, len(entries)),
		cached:           make([]cachedImage, len(entries)),
	}
}

// Len reports the number of images in the store.
func (s *Store) Len() int { return len(s.entries) }

// Dimensions reports an image's width and height without decoding its
// pixel plane.
func (s *Store) Dimensions(index int) (width, height int, err error) {
	if index < 0 || index >= len(s.entries) {
		return 0, 0, fmt.Errorf("%w: image index %d", acsfile.ErrIndexOutOfRange, index)
	}
	h := s.entries[index].Header
	return int(h.Width), int(h.Height), nil
}

func (s *Store) decode(index int) {
	entry := s.entries[index]
	width, height := int(entry.Header.Width), int(entry.Header.Height)
	stride := (width + 3) &^ 3
	wantLen := stride * height

	c, err := cursor.New(s.root).Sub(int(entry.PixelLocator.Offset), int(entry.PixelLocator.Size))
	if err != nil {
		s.cached[index] = cachedImage{err: fmt.Errorf("image %d pixel window: %w", index, err)}
		return
	}

	var bottomUp []byte
	if entry.Header.Compressed {
		csize, err := c.U32()
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d compressed size: %w", index, err)}
			return
		}
		usize, err := c.U32()
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d uncompressed size: %w", index, err)}
			return
		}
		compressed, err := c.Bytes(int(csize))
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d compressed payload: %w", index, err)}
			return
		}
		inflated, err := compression.InflateOuter(compressed, usize)
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d: %w", index, err)}
			return
		}
		indices, err := compression.DecodeInner(inflated, wantLen)
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d: %w", index, err)}
			return
		}
		bottomUp = indices
	} else {
		raw, err := c.Bytes(wantLen)
		if err != nil {
			s.cached[index] = cachedImage{err: fmt.Errorf("image %d raw payload: %w", index, err)}
			return
		}
		bottomUp = raw
	}

	indices := flipAndUnpad(bottomUp, width, height, stride)
	rgba := s.toRGBA(indices)
	s.cached[index] = cachedImage{width: width, height: height, indices: indices, rgba: rgba}
}

// flipAndUnpad converts a bottom-up, row-padded DIB-style pixel plane into
// a top-down, tightly-packed width*height index buffer.
func flipAndUnpad(bottomUp []byte, width, height, stride int) []byte {
	out := make([]byte, width*height)
	for row := 0; row < height; row++ {
		srcRow := height - 1 - row
		src := bottomUp[srcRow*stride : srcRow*stride+width]
		copy(out[row*width:(row+1)*width], src)
	}
	return out
}

// toRGBA resolves palette indices into straight-alpha RGBA bytes:
// the transparent index gets alpha 0, everything else alpha 255.
func (s *Store) toRGBA(indices []byte) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		var q acsfile.RGBQuad
		if int(idx) < len(s.palette) {
			q = s.palette[idx]
		}
		a := uint8(255)
		if idx == s.transparentIndex {
			a = 0
		}
		out[i*4+0] = q.Red
		out[i*4+1] = q.Green
		out[i*4+2] = q.Blue
		out[i*4+3] = a
	}
	return out
}

// Indices returns the image's palette-index buffer, top-down, decoding
// and memoizing it on first access.
func (s *Store) Indices(index int) (width, height int, indices []byte, err error) {
	if index < 0 || index >= len(s.entries) {
		return 0, 0, nil, fmt.Errorf("%w: image index %d", acsfile.ErrIndexOutOfRange, index)
	}
	s.once[index].Do(func() { s.decode(index) })
	c := s.cached[index]
	if c.err != nil {
		return 0, 0, nil, c.err
	}
	return c.width, c.height, c.indices, nil
}

// RGBA returns the image's straight-alpha RGBA buffer, decoding and
// memoizing it on first access.
func (s *Store) RGBA(index int) (width, height int, rgba []byte, err error) {
	if index < 0 || index >= len(s.entries) {
		return 0, 0, nil, fmt.Errorf("%w: image index %d", acsfile.ErrIndexOutOfRange, index)
	}
	s.once[index].Do(func() { s.decode(index) })
	c := s.cached[index]
	if c.err != nil {
		return 0, 0, nil, c.err
	}
	return c.width, c.height, c.rgba, nil
}
