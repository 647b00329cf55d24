package msagent

import (
	"errors"

	"msagent/internal/acsfile"
	"msagent/internal/compression"
)

// Error kinds exposed by the facade. Any of the parse errors below,
// including ErrIndexOutOfRange for a frame that references a missing image
// or sound, is fatal to Open; ErrIndexOutOfRange, ErrDeflateError and
// ErrSizeMismatch can also surface from per-call operations on an
// otherwise successfully opened Archive without invalidating it.
var (
	ErrInvalidMagic       = acsfile.ErrInvalidMagic
	ErrUnexpectedEOF      = acsfile.ErrUnexpectedEOF
	ErrInvalidUTF16       = acsfile.ErrInvalidUTF16
	ErrMalformedStructure = acsfile.ErrMalformed
	ErrIndexOutOfRange    = acsfile.ErrIndexOutOfRange
	ErrDeflateError       = compression.ErrDeflate
	ErrSizeMismatch       = compression.ErrSizeMismatch
)

// ErrAnimationNotFound is returned by RenderFrame and RenderFrameWithMouth
// when no animation matches the requested name (case-insensitive).
var ErrAnimationNotFound = errors.New("msagent: animation not found")
