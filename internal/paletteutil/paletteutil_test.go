package paletteutil

import (
	"image/color"
	"testing"

	"msagent/internal/acsfile"
)

func TestAccentColorSkipsTransparentIndex(t *testing.T) {
	palette := []acsfile.RGBQuad{
		{Red: 0, Green: 0, Blue: 0},
		{Red: 255, Green: 0, Blue: 0},
		{Red: 0, Green: 255, Blue: 0}, // transparent, must be excluded
	}
	withTransparent := AccentColor(palette, 2)

	palette2 := palette[:2]
	withoutThirdEntry := AccentColor(palette2, 255)

	r1, g1, b1, _ := withTransparent.RGBA()
	r2, g2, b2, _ := withoutThirdEntry.RGBA()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Fatalf("excluding the transparent entry should match averaging over the same opaque set: got %v and %v", withTransparent, withoutThirdEntry)
	}
}

func TestAccentColorAllTransparentReturnsOpaqueBlack(t *testing.T) {
	palette := []acsfile.RGBQuad{{Red: 100, Green: 100, Blue: 100}}
	got := AccentColor(palette, 0)
	want := color.RGBA{A: 255}
	if got != want {
		t.Fatalf("AccentColor = %v, want %v", got, want)
	}
}

func TestAccentColorIsOpaque(t *testing.T) {
	palette := []acsfile.RGBQuad{
		{Red: 10, Green: 20, Blue: 30},
		{Red: 200, Green: 150, Blue: 90},
	}
	got := AccentColor(palette, 255)
	_, _, _, a := got.RGBA()
	if a != 0xFFFF {
		t.Fatalf("alpha = %#x, want fully opaque", a)
	}
}
