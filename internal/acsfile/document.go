package acsfile

import (
	"fmt"

	"msagent/internal/cursor"
)

// Parse decodes a complete ACS v2 archive from data. It eagerly
// decodes every record except pixel planes, which remain as Locators in
// each ImageEntry for internal/imagestore to resolve lazily.
func Parse(data []byte) (*Document, error) {
	c := cursor.New(data)

	magic, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrUnexpectedEOF, err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrInvalidMagic, magic, Magic)
	}

	characterLoc, err := readLocator(c)
	if err != nil {
		return nil, fmt.Errorf("character info locator: %w", err)
	}
	animationLoc, err := readLocator(c)
	if err != nil {
		return nil, fmt.Errorf("animation info locator: %w", err)
	}
	imageLoc, err := readLocator(c)
	if err != nil {
		return nil, fmt.Errorf("image info locator: %w", err)
	}
	audioLoc, err := readLocator(c)
	if err != nil {
		return nil, fmt.Errorf("audio info locator: %w", err)
	}

	const headerSize = 36

	for name, loc := range map[string]Locator{
		"character info": characterLoc,
		"animation info": animationLoc,
		"image info":     imageLoc,
		"audio info":     audioLoc,
	} {
		if err := loc.Validate(len(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !loc.IsNil() && loc.Offset < headerSize {
			return nil, fmt.Errorf("%w: %s locator offset %d overlaps the file header",
				ErrMalformed, name, loc.Offset)
		}
	}

	charCursor, err := cursor.New(data).Sub(int(characterLoc.Offset), int(characterLoc.Size))
	if err != nil {
		return nil, fmt.Errorf("character info window: %w", err)
	}
	character, err := readCharacterInfo(data, charCursor)
	if err != nil {
		return nil, fmt.Errorf("character info: %w", err)
	}

	animations, err := readAnimationList(data, animationLoc)
	if err != nil {
		return nil, fmt.Errorf("animation list: %w", err)
	}

	images, err := readImageList(data, imageLoc)
	if err != nil {
		return nil, fmt.Errorf("image list: %w", err)
	}

	audio, err := readAudioList(data, audioLoc)
	if err != nil {
		return nil, fmt.Errorf("audio list: %w", err)
	}

	doc := &Document{
		Character:  character,
		Animations: animations,
		Images:     images,
		Audio:      audio,
	}

	if err := validateReferences(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// validateReferences checks that every image/sound index referenced from
// a frame or overlay is in range.
func validateReferences(doc *Document) error {
	numImages := len(doc.Images)
	numAudio := len(doc.Audio)

	for _, entry := range doc.Animations {
		for fi, f := range entry.Animation.Frames {
			for _, img := range f.Images {
				if int(img.ImageIndex) >= numImages {
					return fmt.Errorf("%w: animation %q frame %d references image %d, have %d images",
						ErrIndexOutOfRange, entry.Name, fi, img.ImageIndex, numImages)
				}
			}
			if f.SoundIndex != nil && int(*f.SoundIndex) >= numAudio {
				return fmt.Errorf("%w: animation %q frame %d references sound %d, have %d sounds",
					ErrIndexOutOfRange, entry.Name, fi, *f.SoundIndex, numAudio)
			}
			for _, ov := range f.Overlays {
				if int(ov.ImageIndex) >= numImages {
					return fmt.Errorf("%w: animation %q frame %d overlay references image %d, have %d images",
						ErrIndexOutOfRange, entry.Name, fi, ov.ImageIndex, numImages)
				}
			}
		}
	}
	return nil
}
