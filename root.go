// Package msagent parses Microsoft Agent Character files (ACS v2,
// signature 0xABCDABC3) and renders their animations frame by frame into
// RGBA pixel buffers.
//
// Open loads a complete archive from an in-memory byte slice; the
// returned Archive is read-mostly (its only mutable state is the
// memoized pixel-plane cache in internal/imagestore) and safe to read
// concurrently once any given image has been decoded once. Playback
// state lives outside the Archive, in a playback.Player driving it.
//
// Responsibilities split per package: acsfile decodes records, imagestore
// resolves pixel planes, compositor blits them, and this package ties the
// three together behind the outward operations.
package msagent

import (
	"fmt"
	"strings"

	"msagent/internal/acsfile"
	"msagent/internal/compositor"
	"msagent/internal/imagestore"
)

// Archive is a fully parsed, immutable ACS v2 character archive.
type Archive struct {
	raw   []byte
	doc   *acsfile.Document
	store *imagestore.Store

	byName map[string]int // lower-cased animation name -> index into doc.Animations
}

// Open parses a complete ACS v2 archive from data. Parse errors are
// fatal and returned here; once Open succeeds, later per-call operations
// on the Archive fail only with ErrAnimationNotFound for an unknown
// animation name, ErrIndexOutOfRange, or, for a corrupt image,
// ErrDeflateError, ErrSizeMismatch or the inner decoder's malformed-stream
// error.
func Open(data []byte) (*Archive, error) {
	doc, err := acsfile.Parse(data)
	if err != nil {
		return nil, err
	}

	store := imagestore.New(data, doc.Images, doc.Character.Palette, doc.Character.TransparentIndex)

	byName := make(map[string]int, len(doc.Animations))
	for i, entry := range doc.Animations {
		byName[lower(entry.Name)] = i
	}

	return &Archive{raw: data, doc: doc, store: store, byName: byName}, nil
}

func lower(s string) string { return strings.ToLower(s) }

// GetAnimation looks up an animation by case-insensitive name.
func (a *Archive) GetAnimation(name string) (acsfile.Animation, bool) {
	idx, ok := a.byName[lower(name)]
	if !ok {
		return acsfile.Animation{}, false
	}
	return a.doc.Animations[idx].Animation, true
}

// AnimationNames returns every animation name in the archive, in their
// on-disk order.
func (a *Archive) AnimationNames() []string {
	out := make([]string, len(a.doc.Animations))
	for i, entry := range a.doc.Animations {
		out[i] = entry.Name
	}
	return out
}

// PlayableAnimationNames returns the subset of AnimationNames reachable as
// user-initiated starts: every animation named as the return animation of
// a Return-type animation is omitted. Animations reachable only through
// exit branching are not detected and stay in the list.
func (a *Archive) PlayableAnimationNames() []string {
	returnTargets := make(map[string]bool)
	for _, entry := range a.doc.Animations {
		anim := entry.Animation
		if anim.TransitionType.UsesReturnAnimation(anim.ReturnAnimation) {
			returnTargets[lower(anim.ReturnAnimation)] = true
		}
	}

	var out []string
	for _, entry := range a.doc.Animations {
		if returnTargets[lower(entry.Name)] {
			continue
		}
		out = append(out, entry.Name)
	}
	return out
}

// RenderFrame composites one frame of one animation into a straight-alpha
// RGBA buffer, blitting the frame's image layers in declared order (first
// is the bottom layer). Lip-sync overlays are not drawn; a caller speaking
// through the character picks a mouth shape per frame and renders it with
// RenderFrameWithMouth. RenderFrame is idempotent and referentially
// transparent in (animationName, frameIndex).
func (a *Archive) RenderFrame(animationName string, frameIndex int) (width, height int, rgba []byte, err error) {
	return a.render(animationName, frameIndex, nil)
}

// RenderFrameWithMouth renders a frame like RenderFrame, then draws the
// frame's lip-sync overlays of the given mouth kind on top. An overlay
// with Replace set overwrites the pixels under its rectangle outright,
// holes included, instead of blending over them.
func (a *Archive) RenderFrameWithMouth(animationName string, frameIndex int, mouth acsfile.OverlayKind) (width, height int, rgba []byte, err error) {
	return a.render(animationName, frameIndex, &mouth)
}

func (a *Archive) render(animationName string, frameIndex int, mouth *acsfile.OverlayKind) (int, int, []byte, error) {
	anim, ok := a.GetAnimation(animationName)
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrAnimationNotFound, animationName)
	}
	if frameIndex < 0 || frameIndex >= len(anim.Frames) {
		return 0, 0, nil, fmt.Errorf("%w: frame %d of animation %q (%d frames)",
			ErrIndexOutOfRange, frameIndex, animationName, len(anim.Frames))
	}

	frame := anim.Frames[frameIndex]
	canvasWidth, canvasHeight := int(a.doc.Character.Width), int(a.doc.Character.Height)

	var layers []compositor.Layer
	for _, img := range frame.Images {
		w, h, pix, err := a.store.RGBA(int(img.ImageIndex))
		if err != nil {
			return 0, 0, nil, err
		}
		layers = append(layers, compositor.Layer{
			Width: w, Height: h, RGBA: pix,
			DX: int(img.DX), DY: int(img.DY),
		})
	}
	if mouth != nil {
		for _, ov := range frame.Overlays {
			if ov.Kind != *mouth {
				continue
			}
			w, h, pix, err := a.store.RGBA(int(ov.ImageIndex))
			if err != nil {
				return 0, 0, nil, err
			}
			layers = append(layers, compositor.Layer{
				Width: w, Height: h, RGBA: pix,
				DX: int(ov.DX), DY: int(ov.DY),
				Replace: ov.Replace,
			})
		}
	}

	canvas := compositor.Composite(canvasWidth, canvasHeight, layers)
	return canvasWidth, canvasHeight, canvas, nil
}

// Sound returns the raw, opaque audio bytes (typically RIFF/WAVE) for
// audio entry i.
func (a *Archive) Sound(i int) ([]byte, error) {
	if i < 0 || i >= len(a.doc.Audio) {
		return nil, fmt.Errorf("%w: sound index %d", ErrIndexOutOfRange, i)
	}
	entry := a.doc.Audio[i]
	if entry.DataLocator.IsNil() {
		return nil, nil
	}
	start := entry.DataLocator.Offset
	end := start + entry.DataLocator.Size
	return a.rawBytes(start, end)
}

func (a *Archive) rawBytes(start, end uint32) ([]byte, error) {
	if uint64(end) > uint64(len(a.raw)) {
		return nil, fmt.Errorf("%w: audio span [%d,%d) exceeds archive length", ErrMalformedStructure, start, end)
	}
	return a.raw[start:end], nil
}

// StateTable returns the archive's named animation-state groups.
func (a *Archive) StateTable() []acsfile.StateInfo {
	return a.doc.Character.States
}
