package acsfile

import (
	"fmt"

	"msagent/internal/cursor"
)

// readVoiceInfo decodes VoiceInfo: two GUIDs, speed, pitch, and an
// optional extra block gated by a leading has_extra byte.
func readVoiceInfo(c *cursor.Cursor) (VoiceInfo, error) {
	var v VoiceInfo
	var err error

	if v.TTSEngineID, err = readGUID(c); err != nil {
		return v, fmt.Errorf("voice tts engine id: %w", err)
	}
	if v.TTSModeID, err = readGUID(c); err != nil {
		return v, fmt.Errorf("voice tts mode id: %w", err)
	}
	if v.Speed, err = c.U32(); err != nil {
		return v, fmt.Errorf("%w: voice speed: %v", ErrUnexpectedEOF, err)
	}
	if v.Pitch, err = c.U16(); err != nil {
		return v, fmt.Errorf("%w: voice pitch: %v", ErrUnexpectedEOF, err)
	}

	hasExtra, err := c.U8()
	if err != nil {
		return v, fmt.Errorf("%w: voice has_extra: %v", ErrUnexpectedEOF, err)
	}
	if hasExtra == 0 {
		return v, nil
	}

	var extra VoiceExtra
	if extra.LangID, err = c.U16(); err != nil {
		return v, fmt.Errorf("%w: voice extra lang id: %v", ErrUnexpectedEOF, err)
	}
	if extra.Dialect, err = readString(c); err != nil {
		return v, fmt.Errorf("voice extra dialect: %w", err)
	}
	if extra.Gender, err = c.U16(); err != nil {
		return v, fmt.Errorf("%w: voice extra gender: %v", ErrUnexpectedEOF, err)
	}
	if extra.Age, err = c.U16(); err != nil {
		return v, fmt.Errorf("%w: voice extra age: %v", ErrUnexpectedEOF, err)
	}
	if extra.Style, err = readString(c); err != nil {
		return v, fmt.Errorf("voice extra style: %w", err)
	}
	v.Extra = &extra

	return v, nil
}

// readBalloonInfo decodes BalloonInfo.
func readBalloonInfo(c *cursor.Cursor) (BalloonInfo, error) {
	var b BalloonInfo
	var err error

	if b.Lines, err = c.U8(); err != nil {
		return b, fmt.Errorf("%w: balloon lines: %v", ErrUnexpectedEOF, err)
	}
	if b.CharsPerLine, err = c.U8(); err != nil {
		return b, fmt.Errorf("%w: balloon chars per line: %v", ErrUnexpectedEOF, err)
	}
	if b.Foreground, err = readRGBQuad(c); err != nil {
		return b, fmt.Errorf("balloon foreground: %w", err)
	}
	if b.Background, err = readRGBQuad(c); err != nil {
		return b, fmt.Errorf("balloon background: %w", err)
	}
	if b.Border, err = readRGBQuad(c); err != nil {
		return b, fmt.Errorf("balloon border: %w", err)
	}
	if b.FontName, err = readString(c); err != nil {
		return b, fmt.Errorf("balloon font name: %w", err)
	}
	if b.FontHeight, err = c.I32(); err != nil {
		return b, fmt.Errorf("%w: balloon font height: %v", ErrUnexpectedEOF, err)
	}
	if b.FontWeight, err = c.I32(); err != nil {
		return b, fmt.Errorf("%w: balloon font weight: %v", ErrUnexpectedEOF, err)
	}
	italic, err := c.U8()
	if err != nil {
		return b, fmt.Errorf("%w: balloon italic: %v", ErrUnexpectedEOF, err)
	}
	b.Italic = italic != 0
	if b.Reserved, err = c.U8(); err != nil {
		return b, fmt.Errorf("%w: balloon reserved: %v", ErrUnexpectedEOF, err)
	}
	return b, nil
}

// readTrayIcon decodes TrayIcon: two length-prefixed raw bitmaps.
func readTrayIcon(c *cursor.Cursor) (TrayIcon, error) {
	var t TrayIcon

	monoSize, err := c.U32()
	if err != nil {
		return t, fmt.Errorf("%w: tray icon mono size: %v", ErrUnexpectedEOF, err)
	}
	if t.MonoBitmap, err = c.Bytes(int(monoSize)); err != nil {
		return t, fmt.Errorf("%w: tray icon mono bitmap: %v", ErrUnexpectedEOF, err)
	}

	colorSize, err := c.U32()
	if err != nil {
		return t, fmt.Errorf("%w: tray icon color size: %v", ErrUnexpectedEOF, err)
	}
	if t.ColorBitmap, err = c.Bytes(int(colorSize)); err != nil {
		return t, fmt.Errorf("%w: tray icon color bitmap: %v", ErrUnexpectedEOF, err)
	}

	return t, nil
}

// readStateInfoList decodes the StateTable: u16 count, then
// {String name, u16 member_count, String[member_count]} per entry.
func readStateInfoList(c *cursor.Cursor) ([]StateInfo, error) {
	count, err := c.U16()
	if err != nil {
		return nil, fmt.Errorf("%w: state count: %v", ErrUnexpectedEOF, err)
	}

	states := make([]StateInfo, count)
	for i := range states {
		name, err := readString(c)
		if err != nil {
			return nil, fmt.Errorf("state %d name: %w", i, err)
		}
		memberCount, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("%w: state %d member count: %v", ErrUnexpectedEOF, i, err)
		}
		members := make([]string, memberCount)
		for j := range members {
			m, err := readString(c)
			if err != nil {
				return nil, fmt.Errorf("state %d member %d: %w", i, j, err)
			}
			members[j] = m
		}
		states[i] = StateInfo{Name: name, Members: members}
	}
	return states, nil
}

// readLocalizedInfoList decodes the payload pointed to by CharacterInfo's
// localized_info_list locator: u16 count of {u16 langid, String name,
// String description, String extra} entries.
func readLocalizedInfoList(c *cursor.Cursor) ([]LocalizedInfo, error) {
	count, err := c.U16()
	if err != nil {
		return nil, fmt.Errorf("%w: localized info count: %v", ErrUnexpectedEOF, err)
	}

	infos := make([]LocalizedInfo, count)
	for i := range infos {
		langID, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("%w: localized info %d lang id: %v", ErrUnexpectedEOF, i, err)
		}
		name, err := readString(c)
		if err != nil {
			return nil, fmt.Errorf("localized info %d name: %w", i, err)
		}
		description, err := readString(c)
		if err != nil {
			return nil, fmt.Errorf("localized info %d description: %w", i, err)
		}
		extra, err := readString(c)
		if err != nil {
			return nil, fmt.Errorf("localized info %d extra: %w", i, err)
		}
		infos[i] = LocalizedInfo{LangID: langID, Name: name, Description: description, Extra: extra}
	}
	return infos, nil
}

// readCharacterInfo decodes the CharacterInfo record. root is the
// full archive buffer, used to dereference the localized_info_list
// locator independently of the sequential cursor c.
func readCharacterInfo(root []byte, c *cursor.Cursor) (CharacterInfo, error) {
	var ch CharacterInfo
	var err error

	if ch.MinorVersion, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character minor version: %v", ErrUnexpectedEOF, err)
	}
	if ch.MajorVersion, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character major version: %v", ErrUnexpectedEOF, err)
	}

	localizedLoc, err := readLocator(c)
	if err != nil {
		return ch, fmt.Errorf("localized info locator: %w", err)
	}

	if ch.GUID, err = readGUID(c); err != nil {
		return ch, fmt.Errorf("character guid: %w", err)
	}
	if ch.Width, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character width: %v", ErrUnexpectedEOF, err)
	}
	if ch.Height, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character height: %v", ErrUnexpectedEOF, err)
	}
	if ch.TransparentIndex, err = c.U8(); err != nil {
		return ch, fmt.Errorf("%w: character transparent index: %v", ErrUnexpectedEOF, err)
	}
	if ch.Flags, err = c.U32(); err != nil {
		return ch, fmt.Errorf("%w: character flags: %v", ErrUnexpectedEOF, err)
	}
	if ch.AnimMinorVersion, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character anim minor version: %v", ErrUnexpectedEOF, err)
	}
	if ch.AnimMajorVersion, err = c.U16(); err != nil {
		return ch, fmt.Errorf("%w: character anim major version: %v", ErrUnexpectedEOF, err)
	}

	voice, err := readVoiceInfo(c)
	if err != nil {
		return ch, fmt.Errorf("voice info: %w", err)
	}
	ch.Voice = &voice

	if ch.Balloon, err = readBalloonInfo(c); err != nil {
		return ch, fmt.Errorf("balloon info: %w", err)
	}

	paletteCount, err := c.U32()
	if err != nil {
		return ch, fmt.Errorf("%w: palette count: %v", ErrUnexpectedEOF, err)
	}
	if ch.Palette, err = readPalette(c, paletteCount); err != nil {
		return ch, fmt.Errorf("palette: %w", err)
	}
	if uint32(ch.TransparentIndex)+1 > paletteCount {
		return ch, fmt.Errorf("%w: transparent index %d exceeds palette count %d", ErrMalformed, ch.TransparentIndex, paletteCount)
	}

	hasTrayIcon, err := c.U8()
	if err != nil {
		return ch, fmt.Errorf("%w: has tray icon: %v", ErrUnexpectedEOF, err)
	}
	if hasTrayIcon != 0 {
		icon, err := readTrayIcon(c)
		if err != nil {
			return ch, fmt.Errorf("tray icon: %w", err)
		}
		ch.TrayIcon = &icon
	}

	if ch.States, err = readStateInfoList(c); err != nil {
		return ch, fmt.Errorf("state table: %w", err)
	}

	if !localizedLoc.IsNil() {
		if err := localizedLoc.Validate(len(root)); err != nil {
			return ch, err
		}
		sub, err := cursor.New(root).Sub(int(localizedLoc.Offset), int(localizedLoc.Size))
		if err != nil {
			return ch, fmt.Errorf("localized info window: %w", err)
		}
		if ch.LocalizedInfo, err = readLocalizedInfoList(sub); err != nil {
			return ch, fmt.Errorf("localized info: %w", err)
		}
	}

	return ch, nil
}
