// Package acsfile decodes the binary record layout of an ACS v2 (Microsoft
// Agent character) archive into an in-memory tree of typed records.
//
// It implements the "record decoders" layer of the format: locators,
// length-prefixed UTF-16 strings, GUIDs, palettes, and all of the nested
// structures reachable from the four root locators in the file header.
// It does not decode pixel planes — those stay as opaque locators until
// internal/imagestore asks for one.
package acsfile

import "fmt"

// Magic is the ACS v2 header signature.
const Magic uint32 = 0xABCDABC3

// Locator is an absolute (offset, size) pair into the archive buffer.
// A zero Locator ({0,0}) means "absent".
type Locator struct {
	Offset uint32
	Size   uint32
}

// IsNil reports whether the Locator is the "absent" sentinel.
func (l Locator) IsNil() bool {
	return l.Offset == 0 && l.Size == 0
}

// Validate checks that a non-nil Locator's span fits inside a buffer of
// length fileLen.
func (l Locator) Validate(fileLen int) error {
	if l.IsNil() {
		return nil
	}
	end := uint64(l.Offset) + uint64(l.Size)
	if end > uint64(fileLen) {
		return fmt.Errorf("%w: locator [%d,%d) exceeds file length %d", ErrMalformed, l.Offset, end, fileLen)
	}
	return nil
}

// GUID is a 16-byte globally unique identifier in its on-disk byte order.
type GUID [16]byte

// String renders the GUID in the canonical mixed-endian text form,
// {XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX}.
func (g GUID) String() string {
	return fmt.Sprintf(
		"{%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g[3], g[2], g[1], g[0],
		g[5], g[4],
		g[7], g[6],
		g[8], g[9],
		g[10], g[11], g[12], g[13], g[14], g[15],
	)
}

// RGBQuad is a single BGR-ordered palette entry, as stored on disk. The
// Reserved byte is carried through untouched; see CharacterInfo.Palette.
type RGBQuad struct {
	Blue     uint8
	Green    uint8
	Red      uint8
	Reserved uint8
}

// VoiceExtra is the optional tail of VoiceInfo, present when the on-disk
// has_extra byte is non-zero.
type VoiceExtra struct {
	LangID  uint16
	Dialect string
	Gender  uint16 // 0 neutral, 1 female, 2 male
	Age     uint16
	Style   string
}

// GenderString renders the gender field's three defined values.
func (e VoiceExtra) GenderString() string {
	switch e.Gender {
	case 0:
		return "neutral"
	case 1:
		return "female"
	case 2:
		return "male"
	default:
		return fmt.Sprintf("gender(%d)", e.Gender)
	}
}

func (e VoiceExtra) String() string {
	return fmt.Sprintf("lang 0x%04X, dialect %q, %s, age %d, style %q",
		e.LangID, e.Dialect, e.GenderString(), e.Age, e.Style)
}

// VoiceInfo describes the TTS voice associated with a character.
type VoiceInfo struct {
	TTSEngineID GUID
	TTSModeID   GUID
	Speed       uint32
	Pitch       uint16
	Extra       *VoiceExtra // nil when has_extra was 0
}

func (v VoiceInfo) String() string {
	s := fmt.Sprintf("engine %s, mode %s, speed %d, pitch %d",
		v.TTSEngineID, v.TTSModeID, v.Speed, v.Pitch)
	if v.Extra != nil {
		s += ", " + v.Extra.String()
	}
	return s
}

// BalloonInfo describes the speech balloon's default chrome.
type BalloonInfo struct {
	Lines        uint8
	CharsPerLine uint8
	Foreground   RGBQuad
	Background   RGBQuad
	Border       RGBQuad
	FontName     string
	FontHeight   int32
	FontWeight   int32
	Italic       bool
	Reserved     uint8 // unspecified; round-tripped, not interpreted
}

// TrayIcon holds the two raw icon bitmaps stored for the system tray.
type TrayIcon struct {
	MonoBitmap  []byte
	ColorBitmap []byte
}

// LocalizedInfo is one LANGID-keyed name/description/extra triple.
type LocalizedInfo struct {
	LangID      uint16
	Name        string
	Description string
	Extra       string
}

// StateInfo is a named bucket of animation names.
type StateInfo struct {
	Name    string
	Members []string
}

// CharacterInfo is the fully decoded CharacterInfo record.
type CharacterInfo struct {
	MinorVersion     uint16
	MajorVersion     uint16
	GUID             GUID
	Width            uint16
	Height           uint16
	TransparentIndex uint8
	Flags            uint32
	AnimMinorVersion uint16
	AnimMajorVersion uint16
	Voice            *VoiceInfo
	Balloon          BalloonInfo
	Palette          []RGBQuad
	TrayIcon         *TrayIcon
	LocalizedInfo    []LocalizedInfo
	States           []StateInfo
}

// Character flag bits.
const (
	FlagVoiceOutputEnabled uint32 = 0x01
	FlagBalloonAutoHide    uint32 = 0x02
	FlagBalloonAutoPace    uint32 = 0x04
	FlagStdAnimSetSupport  uint32 = 0x20
)

// FrameImage is one layer reference within a Frame.
type FrameImage struct {
	ImageIndex uint16
	DX, DY     int16
}

// Branch is a probabilistic jump to another frame in the same animation.
type Branch struct {
	TargetFrame    uint16
	ProbabilityPct uint16
}

// OverlayKind identifies which mouth position a lip-sync overlay draws.
type OverlayKind uint8

const (
	MouthClosed OverlayKind = iota
	MouthWide1
	MouthWide2
	MouthWide3
	MouthWide4
	MouthMedium
	MouthNarrow
)

func (k OverlayKind) String() string {
	switch k {
	case MouthClosed:
		return "MouthClosed"
	case MouthWide1:
		return "MouthWide1"
	case MouthWide2:
		return "MouthWide2"
	case MouthWide3:
		return "MouthWide3"
	case MouthWide4:
		return "MouthWide4"
	case MouthMedium:
		return "MouthMedium"
	case MouthNarrow:
		return "MouthNarrow"
	default:
		return fmt.Sprintf("OverlayKind(%d)", uint8(k))
	}
}

// Overlay is a lip-sync patch drawn over the composed frame.
type Overlay struct {
	Kind       OverlayKind
	Replace    bool
	ImageIndex uint16
	DX, DY     int16

	// width/height/region describe the overlay's own on-disk hit-region;
	// the renderer derives the drawn rectangle from the referenced
	// image's own dimensions instead, so these are preserved
	// opaquely rather than interpreted.
	width, height uint16
	region        []byte
}

// Frame is one discrete image composition plus timing, audio cue,
// branches, and exit target.
type Frame struct {
	Images     []FrameImage
	SoundIndex *uint16 // nil when the on-disk sentinel 0xFFFF was set
	DurationCS uint16
	ExitFrame  *int16 // nil when the on-disk sentinel 0xFFFF was set
	Branches   []Branch
	Overlays   []Overlay
}

// TransitionType enumerates how an animation disposes of itself on
// completion.
type TransitionType uint8

const (
	TransitionReturn       TransitionType = 0
	TransitionExitBranches TransitionType = 1
	TransitionNone         TransitionType = 2
)

func (t TransitionType) String() string {
	switch t {
	case TransitionReturn:
		return "Return"
	case TransitionExitBranches:
		return "ExitBranches"
	case TransitionNone:
		return "None"
	default:
		return fmt.Sprintf("TransitionType(%d)", uint8(t))
	}
}

// TransitionTypeFromU8 converts a raw transition byte, rejecting values
// outside the three defined variants instead of coercing them.
func TransitionTypeFromU8(v uint8) (TransitionType, error) {
	switch t := TransitionType(v); t {
	case TransitionReturn, TransitionExitBranches, TransitionNone:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized transition type %d", ErrMalformed, v)
	}
}

// UsesReturnAnimation reports whether t is Return and returnAnimation is a
// non-empty return target.
func (t TransitionType) UsesReturnAnimation(returnAnimation string) bool {
	return t == TransitionReturn && returnAnimation != ""
}

// Animation is the fully decoded payload of an AnimationEntry.
type Animation struct {
	Name            string
	TransitionType  TransitionType
	ReturnAnimation string
	Frames          []Frame
}

// AnimationEntry is one entry of the AnimationInfoList.
type AnimationEntry struct {
	Name      string
	Animation Animation
}

// ImageEntry is one entry of the ImageInfoList.
type ImageEntry struct {
	DataLocator Locator
	Checksum    uint32

	Header ImageHeader
	// PixelLocator spans the pixel plane only (raw bytes or the
	// {csize,usize,data} compressed block, per Header.Compressed);
	// RegionLocator spans the opaque hit-test region block that follows it.
	PixelLocator  Locator
	RegionLocator Locator
}

// ImageHeader is the small fixed header preceding an image's pixel plane.
type ImageHeader struct {
	Unknown    uint8 // unspecified; round-tripped, not interpreted
	Width      uint16
	Height     uint16
	Compressed bool
}

// AudioEntry is one entry of the AudioInfoList. Payload bytes are
// fetched lazily by the facade, not held here.
type AudioEntry struct {
	DataLocator Locator
	Checksum    uint32
}

// Document is the fully decoded archive, minus lazily-materialized pixel
// buffers (those live in internal/imagestore, keyed by image index).
type Document struct {
	Character  CharacterInfo
	Animations []AnimationEntry
	Images     []ImageEntry
	Audio      []AudioEntry
}
