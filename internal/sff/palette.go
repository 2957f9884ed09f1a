package sff

import (
	"image/color"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// loadPaletteTable implements §4.2: walk the v2 palette directory, dedup by
// (group, item), and return a dense palette array in directory order. The
// per-record `link` field is read (the format requires it) but never acted
// on — duplicate detection is by (group, item) alone, per §9's open
// question resolution.
func loadPaletteTable(b *byteReader, h *Header, log *zap.SugaredLogger) ([]Palette, error) {
	palettes := make([]Palette, h.NumberOfPalettes)
	seen := make(map[[2]int16]int, h.NumberOfPalettes)

	for i := uint32(0); i < h.NumberOfPalettes; i++ {
		b.Seek(int64(h.FirstPaletteHeaderOffset) + 16*int64(i))

		group, err := b.i16()
		if err != nil {
			return nil, errors.Wrapf(err, "palette %d: group", i)
		}
		item, err := b.i16()
		if err != nil {
			return nil, errors.Wrapf(err, "palette %d: item", i)
		}
		if _, err := b.i16(); err != nil { // color count, advisory-only
			return nil, errors.Wrapf(err, "palette %d: color count", i)
		}
		if _, err := b.u16(); err != nil { // link, advisory-only (§4.2, §9)
			return nil, errors.Wrapf(err, "palette %d: link", i)
		}
		dataOffset, err := b.u32()
		if err != nil {
			return nil, errors.Wrapf(err, "palette %d: data offset", i)
		}
		if _, err := b.u32(); err != nil { // data size, advisory-only
			return nil, errors.Wrapf(err, "palette %d: data size", i)
		}

		key := [2]int16{group, item}
		if first, dup := seen[key]; dup {
			palettes[i] = palettes[first]
			if log != nil {
				log.Infow("duplicate palette", "group", group, "item", item, "index", i, "original", first)
			}
			continue
		}
		seen[key] = int(i)

		pal, err := readPaletteData(b, h.Lofs, dataOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "palette %d: reading 256 rgba entries", i)
		}
		palettes[i] = pal
	}
	return palettes, nil
}

func readPaletteData(b *byteReader, lofs, dataOffset uint32) (Palette, error) {
	var pal Palette
	b.Seek(int64(lofs) + int64(dataOffset))
	for i := 0; i < 256; i++ {
		word, err := b.u32()
		if err != nil {
			return pal, err
		}
		pal[i] = rgbaFromLEWord(word, i == 0)
	}
	return pal, nil
}

// rgbaFromLEWord unpacks a little-endian 32-bit RGBA word as stored in the
// v2 palette data region, forcing entry 0 to fully transparent (§3, §4.2).
func rgbaFromLEWord(word uint32, first bool) color.RGBA {
	r := byte(word)
	g := byte(word >> 8)
	bch := byte(word >> 16)
	a := byte(word >> 24)
	if first {
		a = 0
	} else {
		a = 255
	}
	return color.RGBA{R: r, G: g, B: bch, A: a}
}
