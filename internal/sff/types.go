package sff

import "image/color"

// CodecTag names the closed set of v2 payload compressions (§4.5, GLOSSARY).
// V1 sprites are always PCX and report CodecPCX.
type CodecTag int

const (
	CodecPCX   CodecTag = 1 // v1 embedded PCX, or the (unused) v2 tag 1
	CodecRaw   CodecTag = 0
	CodecRLE8  CodecTag = 2
	CodecRLE5  CodecTag = 3
	CodecLZ5   CodecTag = 4
	CodecPNG8  CodecTag = 10
	CodecPNG24 CodecTag = 11
	CodecPNG32 CodecTag = 12
)

// Name returns the §6.5 codec_name column value.
func (c CodecTag) Name() string {
	switch c {
	case CodecPCX:
		return "PCX"
	case CodecRaw:
		return "RAW"
	case CodecRLE8:
		return "RLE8"
	case CodecRLE5:
		return "RLE5"
	case CodecLZ5:
		return "LZ5"
	case CodecPNG8:
		return "PNG10"
	case CodecPNG24:
		return "PNG11"
	case CodecPNG32:
		return "PNG12"
	default:
		return "UNKNOWN"
	}
}

// IsRGBA reports whether the codec tag produces a 32-bit RGBA bitmap rather
// than an 8-bit palette-index bitmap (§4.11, §4.12 step 1).
func (c CodecTag) IsRGBA() bool {
	return c == CodecPNG24 || c == CodecPNG32
}

// Palette holds exactly 256 RGBA entries (§3). Entry 0 is always fully
// transparent; entries 1..255 are opaque, per the format invariant.
type Palette [256]color.RGBA

// Sprite is one decoded directory entry (§3). Pixels holds either
// Width*Height palette-index bytes, or Width*Height*4 RGBA bytes when Codec
// is PNG24/PNG32.
type Sprite struct {
	Group, Item int16
	Width, Height uint16
	XOffset, YOffset int16

	PaletteIndex int
	Codec        CodecTag
	ColorDepth   byte // v2 only; carried through but never drives decoding (§9)

	Pixels []byte

	// IsLink is true for zero-size directory entries that copied another
	// sprite's fields (§4.6). A link sprite shares its target's Pixels
	// slice by value copy, never by aliasing pointer (§3 ownership, §9).
	IsLink bool

	// AtlasX, AtlasY, Cropped are populated only after atlas.Pack runs
	// (§3 AtlasPlan, §4.12 step 2); Cropped is false until then. AtlasX/Y
	// is the sprite's packed position in the emitted atlas bitmap; CropX/Y
	// is the top-left of its opaque bounding box within the original,
	// uncropped bitmap; CropW/H is the cropped rectangle's size.
	AtlasX, AtlasY int
	CropX, CropY   int
	CropW, CropH   int
	Cropped        bool
}

// bufLen returns the expected decoded pixel buffer length for this
// sprite's pixel format: width*height palette-index bytes, or four times
// that for the RGBA codecs.
func (s *Sprite) bufLen() int {
	n := int(s.Width) * int(s.Height)
	if s.Codec.IsRGBA() {
		return n * 4
	}
	return n
}

// Sff is the decoded catalog: a dense, flat sequence of sprites plus their
// deduplicated palettes (§3). It is the sole owner of both sequences.
type Sff struct {
	Header   Header
	Sprites  []Sprite
	Palettes []Palette

	index map[[2]int16]int
}

// GetSprite resolves a sprite by (group, item), matching the teacher's
// sprites map lookup but against the flat SpriteIndex (§3).
func (s *Sff) GetSprite(group, item int16) (*Sprite, bool) {
	i, ok := s.index[[2]int16{group, item}]
	if !ok {
		return nil, false
	}
	return &s.Sprites[i], true
}
