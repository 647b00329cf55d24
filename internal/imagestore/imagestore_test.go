package imagestore

import (
	"testing"

	"msagent/internal/acsfile"
)

func TestRGBAUncompressedRoundTrip(t *testing.T) {
	// 2x2, bottom-up, row stride 4: row0 (bottom on disk) = {1,0,pad,pad},
	// row1 (top on disk) = {0,1,pad,pad}. After flip, row0 (top) should be
	// {0,1} and row1 (bottom) should be {1,0}.
	root := []byte{
		1, 0, 0, 0,
		0, 1, 0, 0,
	}
	entries := []acsfile.ImageEntry{
		{
			Header:       acsfile.ImageHeader{Width: 2, Height: 2, Compressed: false},
			PixelLocator: acsfile.Locator{Offset: 0, Size: uint32(len(root))},
		},
	}
	palette := []acsfile.RGBQuad{
		{Red: 10, Green: 20, Blue: 30},
		{Red: 40, Green: 50, Blue: 60},
	}
	s := New(root, entries, palette, 1)

	w, h, indices, err := s.Indices(0)
	if err != nil {
		t.Fatalf("Indices: %v", err)
	}
	if w != 2 || h != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", w, h)
	}
	want := []byte{0, 1, 1, 0}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", indices, want)
		}
	}

	_, _, rgba, err := s.RGBA(0)
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if len(rgba) != 16 {
		t.Fatalf("len(rgba) = %d, want 16", len(rgba))
	}
	// Pixel 0 is index 0: opaque, palette[0].
	if rgba[0] != 10 || rgba[1] != 20 || rgba[2] != 30 || rgba[3] != 255 {
		t.Fatalf("pixel 0 = %v, want {10,20,30,255}", rgba[0:4])
	}
	// Pixel 1 is index 1: the transparent index, alpha must be 0.
	if rgba[7] != 0 {
		t.Fatalf("pixel 1 alpha = %d, want 0", rgba[7])
	}
}

func TestRGBAMemoizesDecode(t *testing.T) {
	root := []byte{0, 0, 0, 0}
	entries := []acsfile.ImageEntry{
		{
			Header:       acsfile.ImageHeader{Width: 1, Height: 1, Compressed: false},
			PixelLocator: acsfile.Locator{Offset: 0, Size: 4},
		},
	}
	s := New(root, entries, []acsfile.RGBQuad{{}}, 0)

	_, _, first, err := s.RGBA(0)
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	_, _, second, err := s.RGBA(0)
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatal("expected memoized decode to return the same backing array")
	}
}

func TestDimensionsOutOfRange(t *testing.T) {
	s := New(nil, nil, nil, 0)
	if _, _, err := s.Dimensions(0); err == nil {
		t.Fatal("expected error for out-of-range image index")
	}
}
