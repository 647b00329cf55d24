// Package compositor performs the alpha-correct layered blit of a frame's
// images and overlays onto a character-sized canvas.
//
// It leans on stdlib image/draw for the actual blit and clipping,
// accumulating many layers onto one shared canvas.
package compositor

import (
	"image"
	"image/draw"
)

// Layer is one source image plus its destination offset and blend mode.
type Layer struct {
	Width, Height int
	RGBA          []byte // straight-alpha, top-down, row-major, 4 bytes/px
	DX, DY        int
	// Replace, when true, overwrites destination pixels unconditionally
	// within the layer's rectangle (including its own alpha=0 pixels,
	// which therefore punch holes in whatever was drawn underneath).
	Replace bool
}

// Composite allocates a transparent width x height canvas and blits
// layers onto it in order, returning the canvas's straight-alpha RGBA
// bytes.
func Composite(width, height int, layers []Layer) []byte {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	for _, l := range layers {
		if l.Width == 0 || l.Height == 0 {
			continue
		}
		src := &image.NRGBA{
			Pix:    l.RGBA,
			Stride: l.Width * 4,
			Rect:   image.Rect(0, 0, l.Width, l.Height),
		}
		dstRect := image.Rect(l.DX, l.DY, l.DX+l.Width, l.DY+l.Height)

		op := draw.Over
		if l.Replace {
			op = draw.Src
		}
		draw.Draw(canvas, dstRect, src, image.Point{}, op)
	}

	return canvas.Pix
}
