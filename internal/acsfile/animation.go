package acsfile

import (
	"fmt"

	"msagent/internal/cursor"
)

const noneU16 uint16 = 0xFFFF

// readOverlay decodes one lip-sync overlay. The wire layout carries a few
// fields beyond what the Overlay model exposes (an unknown byte and an
// optional hit-test region, mirroring the image record's own trailing
// region block); those are consumed to keep the cursor aligned. The
// region, with the overlay's width and height, is kept only internally;
// the unknown byte is discarded.
func readOverlay(c *cursor.Cursor) (Overlay, error) {
	var o Overlay
	var err error

	kind, err := c.U8()
	if err != nil {
		return o, fmt.Errorf("%w: overlay kind: %v", ErrUnexpectedEOF, err)
	}
	o.Kind = OverlayKind(kind)
	replace, err := c.U8()
	if err != nil {
		return o, fmt.Errorf("%w: overlay replace: %v", ErrUnexpectedEOF, err)
	}
	o.Replace = replace != 0

	if o.ImageIndex, err = c.U16(); err != nil {
		return o, fmt.Errorf("%w: overlay image index: %v", ErrUnexpectedEOF, err)
	}
	if _, err = c.U8(); err != nil { // unknown, round-tripped nowhere, observed 0x00
		return o, fmt.Errorf("%w: overlay unknown byte: %v", ErrUnexpectedEOF, err)
	}
	hasRegion, err := c.U8()
	if err != nil {
		return o, fmt.Errorf("%w: overlay has-region: %v", ErrUnexpectedEOF, err)
	}
	if o.DX, err = c.I16(); err != nil {
		return o, fmt.Errorf("%w: overlay dx: %v", ErrUnexpectedEOF, err)
	}
	if o.DY, err = c.I16(); err != nil {
		return o, fmt.Errorf("%w: overlay dy: %v", ErrUnexpectedEOF, err)
	}
	if o.width, err = c.U16(); err != nil {
		return o, fmt.Errorf("%w: overlay width: %v", ErrUnexpectedEOF, err)
	}
	if o.height, err = c.U16(); err != nil {
		return o, fmt.Errorf("%w: overlay height: %v", ErrUnexpectedEOF, err)
	}
	if hasRegion != 0 {
		size, err := c.U32()
		if err != nil {
			return o, fmt.Errorf("%w: overlay region size: %v", ErrUnexpectedEOF, err)
		}
		if o.region, err = c.Bytes(int(size)); err != nil {
			return o, fmt.Errorf("%w: overlay region bytes: %v", ErrUnexpectedEOF, err)
		}
	}

	return o, nil
}

// readFrame decodes one Frame: images, sound index, duration,
// exit frame, up to-three branches, and overlays, in that wire order.
func readFrame(c *cursor.Cursor) (Frame, error) {
	var f Frame

	imageCount, err := c.U16()
	if err != nil {
		return f, fmt.Errorf("%w: frame image count: %v", ErrUnexpectedEOF, err)
	}
	f.Images = make([]FrameImage, imageCount)
	for i := range f.Images {
		var fi FrameImage
		// The image index is a u32 on the wire even though real archives
		// never hold more than a few thousand images.
		rawIndex, err := c.U32()
		if err != nil {
			return f, fmt.Errorf("%w: frame image %d index: %v", ErrUnexpectedEOF, i, err)
		}
		if rawIndex > 0xFFFF {
			return f, fmt.Errorf("%w: frame image %d index %d too large", ErrMalformed, i, rawIndex)
		}
		fi.ImageIndex = uint16(rawIndex)
		if fi.DX, err = c.I16(); err != nil {
			return f, fmt.Errorf("%w: frame image %d dx: %v", ErrUnexpectedEOF, i, err)
		}
		if fi.DY, err = c.I16(); err != nil {
			return f, fmt.Errorf("%w: frame image %d dy: %v", ErrUnexpectedEOF, i, err)
		}
		f.Images[i] = fi
	}

	soundRaw, err := c.U16()
	if err != nil {
		return f, fmt.Errorf("%w: frame sound index: %v", ErrUnexpectedEOF, err)
	}
	if soundRaw != noneU16 {
		v := soundRaw
		f.SoundIndex = &v
	}

	if f.DurationCS, err = c.U16(); err != nil {
		return f, fmt.Errorf("%w: frame duration: %v", ErrUnexpectedEOF, err)
	}

	exitRaw, err := c.U16()
	if err != nil {
		return f, fmt.Errorf("%w: frame exit frame: %v", ErrUnexpectedEOF, err)
	}
	if exitRaw != noneU16 {
		v := int16(exitRaw)
		f.ExitFrame = &v
	}

	branchCount, err := c.U8()
	if err != nil {
		return f, fmt.Errorf("%w: frame branch count: %v", ErrUnexpectedEOF, err)
	}
	f.Branches = make([]Branch, branchCount)
	for i := range f.Branches {
		var b Branch
		if b.TargetFrame, err = c.U16(); err != nil {
			return f, fmt.Errorf("%w: frame branch %d target: %v", ErrUnexpectedEOF, i, err)
		}
		if b.ProbabilityPct, err = c.U16(); err != nil {
			return f, fmt.Errorf("%w: frame branch %d probability: %v", ErrUnexpectedEOF, i, err)
		}
		f.Branches[i] = b
	}

	overlayCount, err := c.U8()
	if err != nil {
		return f, fmt.Errorf("%w: frame overlay count: %v", ErrUnexpectedEOF, err)
	}
	f.Overlays = make([]Overlay, overlayCount)
	for i := range f.Overlays {
		o, err := readOverlay(c)
		if err != nil {
			return f, fmt.Errorf("frame overlay %d: %w", i, err)
		}
		f.Overlays[i] = o
	}

	return f, nil
}

// readAnimation decodes an Animation payload: name,
// transition_type, return_animation, then a u16 frame count and the
// frames themselves.
func readAnimation(c *cursor.Cursor) (Animation, error) {
	var a Animation
	var err error

	if a.Name, err = readString(c); err != nil {
		return a, fmt.Errorf("animation name: %w", err)
	}

	transition, err := c.U8()
	if err != nil {
		return a, fmt.Errorf("%w: animation transition type: %v", ErrUnexpectedEOF, err)
	}
	if a.TransitionType, err = TransitionTypeFromU8(transition); err != nil {
		return a, fmt.Errorf("animation %q: %w", a.Name, err)
	}

	if a.ReturnAnimation, err = readString(c); err != nil {
		return a, fmt.Errorf("animation return animation: %w", err)
	}

	frameCount, err := c.U16()
	if err != nil {
		return a, fmt.Errorf("%w: animation frame count: %v", ErrUnexpectedEOF, err)
	}
	a.Frames = make([]Frame, frameCount)
	for i := range a.Frames {
		f, err := readFrame(c)
		if err != nil {
			return a, fmt.Errorf("animation %q frame %d: %w", a.Name, i, err)
		}
		a.Frames[i] = f
	}

	return a, nil
}
