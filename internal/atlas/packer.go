// Package atlas packs a catalog's default-palette sprites into a single
// paletted PNG sheet plus a TSV sidecar describing each sprite's placement
// (§4.12).
package atlas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math/bits"
	"sort"

	"github.com/pkg/errors"

	"github.com/leonkasovan/sffkit/internal/sff"
)

// Options configures a pack run (§6.6).
type Options struct {
	// Padding is the transparent margin added on every side of each
	// sprite's rectangle before packing, so sprites that touch in the
	// packed layout end up 2*Padding pixels apart and the sheet's top and
	// left edges keep Padding pixels. The final shrink trims the right and
	// bottom edges tight to the placed sprites, with no margin.
	Padding int

	// DefaultGroup, DefaultItem override which sprite's palette is taken
	// as the atlas's default (§4.12 step 0). Both nil means (group=0,
	// item=0), the format's own convention for the default palette.
	DefaultGroup, DefaultItem *int16
}

// Entry describes one packed sprite's placement, mirroring the sidecar
// columns of §4.12 step 6.
type Entry struct {
	Group, Item int16

	// AtlasX, AtlasY, AtlasW, AtlasH locate the cropped sprite within the
	// packed sheet.
	AtlasX, AtlasY, AtlasW, AtlasH int

	// CropSrcX, CropSrcY is the top-left of the opaque bounding box within
	// the sprite's original, uncropped bitmap.
	CropSrcX, CropSrcY int

	// OrigW, OrigH is the sprite's original, pre-crop size.
	OrigW, OrigH int
}

// Plan is the packed result (§3 AtlasPlan): a single paletted bitmap plus
// the placement of every surviving sprite within it.
type Plan struct {
	Width, Height int
	Palette       sff.Palette
	Pix           []byte // Width*Height palette-index bytes
	Entries       []Entry
}

// candidate is a filtered, cropped sprite awaiting placement.
type candidate struct {
	spriteIdx          int
	group, item        int16
	origW, origH       int
	cropX, cropY       int
	cropW, cropH       int
	pix                []byte // cropW*cropH palette-index bytes, cropped out of the original
}

// Pack implements §4.12: select the default palette, filter to sprites
// that use it, crop each to its opaque bounding box, estimate a sheet
// size, place every sprite with bottom-left skyline packing (doubling the
// sheet height once on overflow), then shrink the sheet to the tight
// bounding box of everything placed.
func Pack(s *sff.Sff, opts Options) (*Plan, error) {
	defaultGroup, defaultItem := int16(0), int16(0)
	if opts.DefaultGroup != nil {
		defaultGroup = *opts.DefaultGroup
	}
	if opts.DefaultItem != nil {
		defaultItem = *opts.DefaultItem
	}

	defaultIdx, err := defaultPaletteIndex(s, defaultGroup, defaultItem)
	if err != nil {
		return nil, err
	}

	cands := filterAndCrop(s, defaultIdx)
	if len(cands) == 0 {
		return nil, errors.Wrap(sff.ErrEmptyAtlas, "atlas: no sprite survived filtering and cropping")
	}

	ordered := make([]candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].cropH > ordered[j].cropH
	})

	width, height := estimateSheetSize(ordered, opts.Padding)

	placed, finalHeight, err := packWithRetry(ordered, width, height, opts.Padding)
	if err != nil {
		return nil, err
	}

	width, finalHeight = shrinkToFit(placed, width, finalHeight)

	plan := &Plan{
		Width:   width,
		Height:  finalHeight,
		Palette: s.Palettes[defaultIdx],
		Pix:     make([]byte, width*finalHeight),
	}
	plan.Entries = make([]Entry, 0, len(placed))
	for _, p := range placed {
		blit(plan.Pix, width, finalHeight, p.x, p.y, p.c.pix, p.c.cropW, p.c.cropH)
		plan.Entries = append(plan.Entries, Entry{
			Group: p.c.group, Item: p.c.item,
			AtlasX: p.x, AtlasY: p.y, AtlasW: p.c.cropW, AtlasH: p.c.cropH,
			CropSrcX: p.c.cropX, CropSrcY: p.c.cropY,
			OrigW: p.c.origW, OrigH: p.c.origH,
		})
	}

	// Restore §3's invariant that the catalog's own sprite records reflect
	// the most recent atlas pack (§4.12 step 2's "writes cropped origin
	// back into the sprite record").
	for _, p := range placed {
		sp := &s.Sprites[p.c.spriteIdx]
		sp.AtlasX, sp.AtlasY = p.x, p.y
		sp.CropX, sp.CropY = p.c.cropX, p.c.cropY
		sp.CropW, sp.CropH = p.c.cropW, p.c.cropH
		sp.Cropped = true
	}

	return plan, nil
}

// defaultPaletteIndex implements §4.12 step 0: the catalog's default
// palette is whichever palette is used by the first sprite at (group,
// item) decoded by one of the paletted codecs (PCX, RLE8, RLE5, LZ5, or
// PNG-8) — the truecolor PNG codecs never qualify. Callers normally pass
// (0, 0), the format's own default-palette convention; a config override
// substitutes a different (group, item) pair.
func defaultPaletteIndex(s *sff.Sff, group, item int16) (int, error) {
	for i := range s.Sprites {
		sp := &s.Sprites[i]
		if sp.Group == group && sp.Item == item && isPalettedCodec(sp.Codec) {
			return sp.PaletteIndex, nil
		}
	}
	return 0, sff.ErrNoDefaultPalette
}

func isPalettedCodec(c sff.CodecTag) bool {
	switch c {
	case sff.CodecPCX, sff.CodecRLE8, sff.CodecRLE5, sff.CodecLZ5, sff.CodecPNG8:
		return true
	default:
		return false
	}
}

func filterAndCrop(s *sff.Sff, defaultIdx int) []candidate {
	var out []candidate
	for i := range s.Sprites {
		sp := &s.Sprites[i]
		if sp.Codec.IsRGBA() || sp.PaletteIndex != defaultIdx {
			continue
		}
		w, h := int(sp.Width), int(sp.Height)
		x0, y0, x1, y1, empty := cropBounds(sp.Pixels, w, h)
		if empty {
			continue // wholly-transparent sprite: zero-size entry, dropped from packing (§4.12 step 2)
		}
		cw, ch := x1-x0, y1-y0
		pix := make([]byte, cw*ch)
		for row := 0; row < ch; row++ {
			srcOff := (y0+row)*w + x0
			copy(pix[row*cw:row*cw+cw], sp.Pixels[srcOff:srcOff+cw])
		}
		out = append(out, candidate{
			spriteIdx: i,
			group:     sp.Group, item: sp.Item,
			origW: w, origH: h,
			cropX: x0, cropY: y0,
			cropW: cw, cropH: ch,
			pix: pix,
		})
	}
	return out
}

// cropBounds scans an 8-bit palette-index bitmap for the bounding box of
// pixels whose value is not 0 (palette entry 0 is always transparent, §3).
func cropBounds(px []byte, w, h int) (x0, y0, x1, y1 int, empty bool) {
	x0, y0 = w, h
	x1, y1 = -1, -1
	for y := 0; y < h; y++ {
		row := px[y*w : y*w+w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < x0 {
				x0 = x
			}
			if x > x1 {
				x1 = x
			}
			if y < y0 {
				y0 = y
			}
			if y > y1 {
				y1 = y
			}
		}
	}
	if x1 < 0 {
		return 0, 0, 0, 0, true
	}
	return x0, y0, x1 + 1, y1 + 1, false
}

// estimateSheetSize implements §4.12 step 3: pick the smallest power-of-two
// width that can hold the total padded area and is at least as wide as the
// widest candidate, then a starting height from the same area estimate.
func estimateSheetSize(cands []candidate, padding int) (width, height int) {
	var area int
	maxW, maxH := 0, 0
	for _, c := range cands {
		pw, ph := c.cropW+2*padding, c.cropH+2*padding
		area += pw * ph
		if pw > maxW {
			maxW = pw
		}
		if ph > maxH {
			maxH = ph
		}
	}

	width = nextPow2(maxW)
	for width*width < area {
		width *= 2
	}

	estH := (area + width - 1) / width
	height = nextPow2(estH)
	if height < maxH {
		height = nextPow2(maxH)
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

type placement struct {
	c    candidate
	x, y int
}

// packWithRetry implements §4.12 step 4: attempt a skyline pack at the
// estimated height, and if any rectangle overflows, double the height and
// retry exactly once before giving up.
func packWithRetry(ordered []candidate, width, height, padding int) ([]placement, int, error) {
	placed, ok := tryPack(ordered, width, height, padding)
	if ok {
		return placed, height, nil
	}
	height *= 2
	placed, ok = tryPack(ordered, width, height, padding)
	if !ok {
		return nil, 0, errors.Wrap(sff.ErrAtlasOverflow, "atlas: sprites do not fit after one height-doubling retry")
	}
	return placed, height, nil
}

func tryPack(ordered []candidate, width, height, padding int) ([]placement, bool) {
	sl := newSkyline(width)
	placed := make([]placement, 0, len(ordered))
	for _, c := range ordered {
		pw, ph := c.cropW+2*padding, c.cropH+2*padding
		x, y, ok := sl.place(pw, ph)
		if !ok || y+ph > height {
			return nil, false
		}
		placed = append(placed, placement{c: c, x: x + padding, y: y + padding})
	}
	return placed, true
}

// shrinkToFit implements §4.12 step 5: trim the sheet to the tight
// bounding box of everything actually placed.
func shrinkToFit(placed []placement, width, height int) (int, int) {
	maxX, maxY := 0, 0
	for _, p := range placed {
		if r := p.x + p.c.cropW; r > maxX {
			maxX = r
		}
		if b := p.y + p.c.cropH; b > maxY {
			maxY = b
		}
	}
	if maxX < width {
		width = maxX
	}
	if maxY < height {
		height = maxY
	}
	return width, height
}

func blit(dst []byte, dstW, dstH, x, y int, src []byte, w, h int) {
	for row := 0; row < h; row++ {
		dy := y + row
		if dy < 0 || dy >= dstH {
			continue
		}
		dstOff := dy*dstW + x
		copy(dst[dstOff:dstOff+w], src[row*w:row*w+w])
	}
}

// WritePNG encodes the packed sheet as an 8-bit paletted PNG (§4.12 step 6).
func (p *Plan) WritePNG(w io.Writer) error {
	cp := make(color.Palette, len(p.Palette))
	for i, c := range p.Palette {
		cp[i] = c
	}
	img := &image.Paletted{
		Pix:     p.Pix,
		Stride:  p.Width,
		Rect:    image.Rect(0, 0, p.Width, p.Height),
		Palette: cp,
	}
	return errors.Wrap(png.Encode(w, img), "atlas: encoding sheet png")
}
