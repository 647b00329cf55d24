// Package paletteutil provides small palette-wide color helpers built on
// go-colorful, blending in CIE Lab space so the summary tracks perceived
// color rather than raw RGB averages.
package paletteutil

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"msagent/internal/acsfile"
)

// AccentColor computes a perceptually-weighted average, in CIE Lab space,
// of a palette's opaque entries (every entry except transparentIndex).
// It's a convenience for host UIs that want one representative color for
// a character (e.g. to pick a contrasting chrome color) without walking
// all 256 palette entries themselves.
func AccentColor(palette []acsfile.RGBQuad, transparentIndex uint8) color.Color {
	var sumL, sumA, sumB float64
	var n int

	for i, q := range palette {
		if i == int(transparentIndex) {
			continue
		}
		c := colorful.Color{
			R: float64(q.Red) / 255,
			G: float64(q.Green) / 255,
			B: float64(q.Blue) / 255,
		}
		l, a, b := c.Lab()
		sumL += l
		sumA += a
		sumB += b
		n++
	}

	if n == 0 {
		return color.RGBA{A: 255}
	}

	avg := colorful.Lab(sumL/float64(n), sumA/float64(n), sumB/float64(n)).Clamped()
	r, g, b := avg.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
