package sff

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DumpDatabase writes the §6.5 sprite-database TSV: one line per sprite,
// columns group, item, width, height, x_offset, y_offset, palette_index,
// codec_tag_positive, codec_name.
func (s *Sff) DumpDatabase(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sp := range s.Sprites {
		tag := int(sp.Codec)
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			sp.Group, sp.Item, sp.Width, sp.Height, sp.XOffset, sp.YOffset,
			sp.PaletteIndex, tag, sp.Codec.Name()); err != nil {
			return errors.Wrap(err, "sff: writing sprite database row")
		}
	}
	return bw.Flush()
}

// ExportSpritePNG implements §6.4 for a single sprite: paletted codecs
// write an 8-bit paletted PNG using the sprite's resolved palette; RGBA
// codecs (PNG24/PNG32) write a 32-bit truecolor-alpha PNG.
func (s *Sff) ExportSpritePNG(sp *Sprite, w io.Writer) error {
	if sp.Codec.IsRGBA() {
		img := &image.RGBA{
			Pix:    sp.Pixels,
			Stride: int(sp.Width) * 4,
			Rect:   image.Rect(0, 0, int(sp.Width), int(sp.Height)),
		}
		return png.Encode(w, img)
	}

	if sp.PaletteIndex < 0 || sp.PaletteIndex >= len(s.Palettes) {
		return errors.Errorf("sff: palette index %d out of range (0..%d)", sp.PaletteIndex, len(s.Palettes))
	}
	pal := s.Palettes[sp.PaletteIndex]
	img := &image.Paletted{
		Pix:     sp.Pixels,
		Stride:  int(sp.Width),
		Rect:    image.Rect(0, 0, int(sp.Width), int(sp.Height)),
		Palette: paletteToColorPalette(pal),
	}
	return png.Encode(w, img)
}

func paletteToColorPalette(pal Palette) color.Palette {
	cp := make(color.Palette, len(pal))
	for i, c := range pal {
		cp[i] = c
	}
	return cp
}

// ExportAllSpritesPNG implements the §7 recovery policy for batch export: a
// single sprite's failure is recorded, not fatal, and the call always
// reports the count of successes alongside the list of failures.
func (s *Sff) ExportAllSpritesPNG(dir, basename string) (ok int, failures []SpriteExportError) {
	for i := range s.Sprites {
		sp := &s.Sprites[i]
		name := fmt.Sprintf("%s_%d_%d.png", basename, sp.Group, sp.Item)
		path := filepath.Join(dir, name)

		if err := exportOne(s, sp, path); err != nil {
			failures = append(failures, SpriteExportError{Group: sp.Group, Item: sp.Item, Err: err})
			continue
		}
		ok++
	}
	return ok, failures
}

func exportOne(s *Sff, sp *Sprite, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating sprite png")
	}
	defer f.Close()
	if err := s.ExportSpritePNG(sp, f); err != nil {
		return err
	}
	return nil
}
