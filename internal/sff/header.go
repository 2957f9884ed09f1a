package sff

import (
	"bytes"

	"github.com/pkg/errors"
)

var magic = []byte("ElecbyteSpr\x00")

// Header is the fixed-layout SFF file header (§3, §4.1). NumberOfPalettes
// is authoritative only for v2; for v1 it is filled in after the embedded
// palettes have been counted during the sprite walk (§3 invariant).
type Header struct {
	Major, Sub1, Sub2, Sub3 byte

	FirstSpriteHeaderOffset  uint32
	NumberOfSprites          uint32
	FirstPaletteHeaderOffset uint32
	NumberOfPalettes         uint32

	// Lofs and Tofs are v2-only base offsets for literal and translucent
	// sprite payload data; both are zero for v1.
	Lofs, Tofs uint32
}

// readHeader parses the 12-byte magic, the version dispatch byte, and the
// version-specific fields that follow (§4.1).
func readHeader(b *byteReader) (*Header, error) {
	sig, err := b.bytes(len(magic))
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading magic")
	}
	if !bytes.Equal(sig, magic) {
		return nil, ErrBadMagic
	}

	h := &Header{}
	var err2 error
	if h.Sub3, err2 = b.u8(); err2 != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading sub3")
	}
	if h.Sub2, err2 = b.u8(); err2 != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading sub2")
	}
	if h.Sub1, err2 = b.u8(); err2 != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading sub1")
	}
	if h.Major, err2 = b.u8(); err2 != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading major")
	}

	if _, err2 = b.u32(); err2 != nil { // reserved
		return nil, errors.Wrap(ErrTruncatedHeader, "reading reserved field")
	}

	switch h.Major {
	case 1:
		if h.NumberOfSprites, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading v1 sprite count")
		}
		if h.FirstSpriteHeaderOffset, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading v1 first sprite offset")
		}
	case 2:
		for i := 0; i < 4; i++ {
			if _, err2 = b.u32(); err2 != nil {
				return nil, errors.Wrap(ErrTruncatedHeader, "reading v2 reserved fields")
			}
		}
		if h.FirstSpriteHeaderOffset, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading first sprite offset")
		}
		if h.NumberOfSprites, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading sprite count")
		}
		if h.FirstPaletteHeaderOffset, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading first palette offset")
		}
		if h.NumberOfPalettes, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading palette count")
		}
		if h.Lofs, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading lofs")
		}
		if _, err2 = b.u32(); err2 != nil { // reserved
			return nil, errors.Wrap(ErrTruncatedHeader, "reading reserved field")
		}
		if h.Tofs, err2 = b.u32(); err2 != nil {
			return nil, errors.Wrap(ErrTruncatedHeader, "reading tofs")
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "major=%d", h.Major)
	}

	return h, nil
}
