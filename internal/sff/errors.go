// Package sff decodes the Mugen Sprite File container (SFF), both the v1
// and v2 major revisions, into an in-memory catalog of sprites and
// palettes.
package sff

import "errors"

// Sentinel errors for the taxonomy in the format specification. Call sites
// wrap these with github.com/pkg/errors to attach sprite-index or
// file-offset context while keeping them comparable with errors.Is.
var (
	ErrBadMagic          = errors.New("sff: bad magic signature")
	ErrUnsupportedVersion = errors.New("sff: unsupported major version")
	ErrTruncatedHeader   = errors.New("sff: truncated header")
	ErrTruncatedPayload  = errors.New("sff: truncated sprite payload")
	ErrBadPcxDepth       = errors.New("sff: pcx bits-per-pixel is not 8")
	ErrBadPngPayload     = errors.New("sff: invalid embedded png payload")
	ErrBadCodecTag       = errors.New("sff: unrecognized v2 codec tag")
	ErrBadPaletteLink    = errors.New("sff: palette-same flag set with no viable previous sprite")
	ErrDecodedSizeMismatch = errors.New("sff: decoded pixel buffer does not match width*height")
	ErrNoDefaultPalette  = errors.New("atlas: no (group=0,item=0) paletted sprite found")
	ErrAtlasOverflow     = errors.New("atlas: rectangles do not fit after doubling height")
	ErrEmptyAtlas        = errors.New("atlas: no sprites survived filtering and cropping")
)

// SpriteExportError pairs a sprite identity with the error exporting it hit,
// used by batch export so one bad sprite never aborts the whole run.
type SpriteExportError struct {
	Group, Item int16
	Err         error
}

func (e *SpriteExportError) Error() string {
	return e.Err.Error()
}

func (e *SpriteExportError) Unwrap() error {
	return e.Err
}
