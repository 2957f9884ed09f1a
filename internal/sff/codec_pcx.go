package sff

import (
	"image/color"

	"github.com/pkg/errors"
)

// pcxInfo is the subset of the 128-byte PCX header the codec needs (§4.7).
type pcxInfo struct {
	encoding byte
	bpp      byte
	width    uint16
	height   uint16
}

func readPcxInfo(b *byteReader, payloadStart int64) (pcxInfo, error) {
	var info pcxInfo
	b.Seek(payloadStart)

	if _, err := b.u16(); err != nil { // manufacturer+version
		return info, err
	}
	var err error
	if info.encoding, err = b.u8(); err != nil {
		return info, err
	}
	if info.bpp, err = b.u8(); err != nil {
		return info, err
	}
	if info.encoding != 1 {
		return info, errors.New("sff: pcx encoding byte is not 1 (run-length)")
	}
	if info.bpp != 8 {
		return info, ErrBadPcxDepth
	}

	xmin, err := b.u16()
	if err != nil {
		return info, err
	}
	ymin, err := b.u16()
	if err != nil {
		return info, err
	}
	xmax, err := b.u16()
	if err != nil {
		return info, err
	}
	ymax, err := b.u16()
	if err != nil {
		return info, err
	}
	info.width = xmax - xmin + 1
	info.height = ymax - ymin + 1
	return info, nil
}

// decodeRlePcx implements the PCX run-length scheme (§4.7): a byte with its
// top two bits set packs a 6-bit run length, else it is a literal value
// with an implicit run of 1. Decoding saturates on a short input (§9) and
// stops once the width*height output buffer is full.
func decodeRlePcx(src []byte, width, height int) []byte {
	out := make([]byte, width*height)
	if len(src) == 0 {
		return out
	}
	i, j := 0, 0
	for j < len(out) {
		d := saturatingByte(src, i)
		i++
		n := 1
		if d&0xC0 == 0xC0 {
			n = int(d & 0x3F)
			d = saturatingByte(src, i)
			i++
		}
		for ; n > 0 && j < len(out); n-- {
			out[j] = d
			j++
		}
	}
	return out
}

// saturatingByte returns src[i], or the last byte of src once i runs past
// the end — the saturating-read behavior the custom codecs rely on (§9).
func saturatingByte(src []byte, i int) byte {
	if i < len(src) {
		return src[i]
	}
	if len(src) == 0 {
		return 0
	}
	return src[len(src)-1]
}

// readPcxPalette reads 256 RGB triplets (no alpha word on disk) starting at
// the given absolute offset, forcing entry 0 to transparent (§4.7, §3).
func readPcxPalette(b *byteReader, offset int64) (Palette, error) {
	var pal Palette
	b.Seek(offset)
	for i := 0; i < 256; i++ {
		rgb, err := b.bytes(3)
		if err != nil {
			return pal, err
		}
		a := byte(255)
		if i == 0 {
			a = 0
		}
		pal[i] = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: a}
	}
	return pal, nil
}

// decodePCXSprite implements the whole of §4.7: the ps-gated palette-share
// decision, the 128-byte header, the RLE stream, and the c00 trailing
// palette read. rawPaletteSame is the "ps" flag the caller already read
// from sub-header byte 18 (§4.4); prevPalIdx/hasPrev describe the v1
// "previous sprite" back-reference (§4.6, §9) maintained by the caller as
// a plain index, not a pointer into the growing sprite slice. The payload
// itself has no leading flag byte: it is the 128-byte PCX header followed
// directly by the RLE stream.
func decodePCXSprite(b *byteReader, payloadOffset int64, payloadSize uint32, rawPaletteSame bool, hasPrev bool, prevPalIdx int, addPalette func(Palette) int) (px []byte, width, height uint16, palIdx int, err error) {
	paletteSame := rawPaletteSame && hasPrev

	info, err := readPcxInfo(b, payloadOffset)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	width, height = info.width, info.height

	// c00 (character mode) is always asserted in this system (§9): the
	// palette, when present, lives in the final 768 bytes of the payload
	// rather than immediately after the RLE stream.
	const c00 = true

	var palSize uint32
	if c00 || paletteSame {
		palSize = 0
	} else {
		palSize = 768
	}

	const headerSize = 128 // PCX header, no leading flag byte
	if payloadSize < headerSize+palSize {
		payloadSize = headerSize + palSize
	}

	rleLen := payloadSize - (headerSize + palSize)
	b.Seek(payloadOffset + headerSize)
	rle, err := b.bytes(int(rleLen))
	if err != nil {
		return nil, 0, 0, 0, err
	}
	px = decodeRlePcx(rle, int(width), int(height))

	if paletteSame {
		if prevPalIdx < 0 {
			return nil, 0, 0, 0, ErrBadPaletteLink
		}
		palIdx = prevPalIdx
		return px, width, height, palIdx, nil
	}

	var pal Palette
	if c00 {
		pal, err = readPcxPalette(b, payloadOffset+int64(payloadSize)-768)
	} else {
		pal, err = readPcxPalette(b, payloadOffset+headerSize+int64(rleLen))
	}
	if err != nil {
		return nil, 0, 0, 0, err
	}
	palIdx = addPalette(pal)
	return px, width, height, palIdx, nil
}
