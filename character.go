package msagent

import (
	"image/color"

	"msagent/internal/acsfile"
	"msagent/internal/paletteutil"
)

// Character exposes the archive's CharacterInfo record: dimensions, name,
// description, voice, and palette summary.
type Character struct {
	info acsfile.CharacterInfo
}

// Character returns the archive's character metadata.
func (a *Archive) Character() Character {
	return Character{info: a.doc.Character}
}

// Width and Height are the character's base canvas dimensions, in pixels.
func (c Character) Width() int  { return int(c.info.Width) }
func (c Character) Height() int { return int(c.info.Height) }

// GUID is the character's canonical identifier string.
func (c Character) GUID() string { return c.info.GUID.String() }

// PaletteSize is the number of entries in the character's palette.
func (c Character) PaletteSize() int { return len(c.info.Palette) }

// Name returns the character's display name for langID, falling back to
// the first localized entry if langID has no match, or "" if the archive
// has no localized info at all.
func (c Character) Name(langID uint16) string {
	if li, ok := c.localized(langID); ok {
		return li.Name
	}
	return ""
}

// Description returns the character's description for langID, with the
// same fallback rule as Name.
func (c Character) Description(langID uint16) string {
	if li, ok := c.localized(langID); ok {
		return li.Description
	}
	return ""
}

func (c Character) localized(langID uint16) (acsfile.LocalizedInfo, bool) {
	if len(c.info.LocalizedInfo) == 0 {
		return acsfile.LocalizedInfo{}, false
	}
	for _, li := range c.info.LocalizedInfo {
		if li.LangID == langID {
			return li, true
		}
	}
	return c.info.LocalizedInfo[0], true
}

// HasVoice reports whether the character carries TTS voice metadata.
func (c Character) HasVoice() bool { return c.info.Voice != nil }

// Voice returns the character's TTS voice metadata, or nil when the
// archive carries none.
func (c Character) Voice() *acsfile.VoiceInfo { return c.info.Voice }

// AccentColor computes a single representative color for the character's
// palette, for host UIs that want chrome contrast without walking the
// full palette themselves.
func (c Character) AccentColor() color.Color {
	return paletteutil.AccentColor(c.info.Palette, c.info.TransparentIndex)
}
