package atlas

import (
	"errors"
	"testing"

	"github.com/leonkasovan/sffkit/internal/sff"
)

func mustPack(t *testing.T, s *sff.Sff, opts Options) *Plan {
	t.Helper()
	p, err := Pack(s, opts)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	return p
}

func TestPackFiltersCropsAndPlaces(t *testing.T) {
	s := &sff.Sff{
		Palettes: []sff.Palette{{}, {}},
		Sprites: []sff.Sprite{
			{
				// Opaque 2x2 region inside a 4x4 bitmap: must crop down to (1,1)-(2,2).
				Group: 0, Item: 0, Width: 4, Height: 4,
				PaletteIndex: 0, Codec: sff.CodecPCX,
				Pixels: []byte{
					0, 0, 0, 0,
					0, 5, 5, 0,
					0, 5, 5, 0,
					0, 0, 0, 0,
				},
			},
			{
				// Already-tight 2x2 sprite on the same palette.
				Group: 0, Item: 1, Width: 2, Height: 2,
				PaletteIndex: 0, Codec: sff.CodecRLE8,
				Pixels: []byte{3, 3, 3, 3},
			},
			{
				// Different palette: filtered out.
				Group: 0, Item: 2, Width: 2, Height: 2,
				PaletteIndex: 1, Codec: sff.CodecPCX,
				Pixels: []byte{9, 9, 9, 9},
			},
			{
				// Wholly transparent: filtered out by cropping to nothing.
				Group: 0, Item: 3, Width: 2, Height: 2,
				PaletteIndex: 0, Codec: sff.CodecPCX,
				Pixels: []byte{0, 0, 0, 0},
			},
			{
				// RGBA sprite: filtered out regardless of palette index.
				Group: 0, Item: 4, Width: 2, Height: 2,
				PaletteIndex: 0, Codec: sff.CodecPNG24,
				Pixels: make([]byte, 2*2*4),
			},
		},
	}

	plan := mustPack(t, s, Options{Padding: 0})

	if len(plan.Entries) != 2 {
		t.Fatalf("expected 2 packed entries, got %d", len(plan.Entries))
	}

	var e0, e1 *Entry
	for i := range plan.Entries {
		switch plan.Entries[i].Item {
		case 0:
			e0 = &plan.Entries[i]
		case 1:
			e1 = &plan.Entries[i]
		}
	}
	if e0 == nil || e1 == nil {
		t.Fatalf("missing expected entries: %+v", plan.Entries)
	}

	if e0.CropSrcX != 1 || e0.CropSrcY != 1 || e0.AtlasW != 2 || e0.AtlasH != 2 {
		t.Errorf("sprite 0 crop/placement wrong: %+v", e0)
	}
	if e0.OrigW != 4 || e0.OrigH != 4 {
		t.Errorf("sprite 0 original size wrong: %+v", e0)
	}

	// Check the cropped pixel actually landed in the sheet at its placement.
	px := plan.Pix[e0.AtlasY*plan.Width+e0.AtlasX]
	if px != 5 {
		t.Errorf("expected sprite 0's first cropped pixel to be 5, got %d", px)
	}
	px1 := plan.Pix[e1.AtlasY*plan.Width+e1.AtlasX]
	if px1 != 3 {
		t.Errorf("expected sprite 1's first pixel to be 3, got %d", px1)
	}

	// The catalog's own sprite records must reflect the pack (§3 invariant).
	sp0, _ := findSprite(s, 0, 0)
	if !sp0.Cropped || sp0.CropW != 2 || sp0.CropH != 2 {
		t.Errorf("sprite record not updated by Pack: %+v", sp0)
	}
}

func TestPackNoDefaultPalette(t *testing.T) {
	s := &sff.Sff{Palettes: []sff.Palette{{}}}
	_, err := Pack(s, Options{})
	if !errors.Is(err, sff.ErrNoDefaultPalette) {
		t.Errorf("expected ErrNoDefaultPalette, got %v", err)
	}
}

func TestPackEmptyAtlas(t *testing.T) {
	s := &sff.Sff{
		Palettes: []sff.Palette{{}},
		Sprites: []sff.Sprite{
			{Group: 0, Item: 0, Width: 2, Height: 2, PaletteIndex: 0, Codec: sff.CodecPCX, Pixels: []byte{0, 0, 0, 0}},
		},
	}
	_, err := Pack(s, Options{})
	if !errors.Is(err, sff.ErrEmptyAtlas) {
		t.Errorf("expected ErrEmptyAtlas, got %v", err)
	}
}

func TestPackIsDeterministic(t *testing.T) {
	build := func() *sff.Sff {
		return &sff.Sff{
			Palettes: []sff.Palette{{}},
			Sprites: []sff.Sprite{
				{Group: 0, Item: 0, Width: 2, Height: 2, PaletteIndex: 0, Codec: sff.CodecPCX, Pixels: []byte{1, 1, 1, 1}},
				{Group: 0, Item: 1, Width: 3, Height: 3, PaletteIndex: 0, Codec: sff.CodecPCX, Pixels: []byte{2, 2, 2, 2, 2, 2, 2, 2, 2}},
			},
		}
	}

	p1 := mustPack(t, build(), Options{Padding: 1})
	p2 := mustPack(t, build(), Options{Padding: 1})

	if p1.Width != p2.Width || p1.Height != p2.Height {
		t.Fatalf("pack sizes differ across runs: %dx%d vs %dx%d", p1.Width, p1.Height, p2.Width, p2.Height)
	}
	if string(p1.Pix) != string(p2.Pix) {
		t.Errorf("pack pixel output differs across identical runs")
	}
}

func findSprite(s *sff.Sff, group, item int16) (*sff.Sprite, bool) {
	for i := range s.Sprites {
		if s.Sprites[i].Group == group && s.Sprites[i].Item == item {
			return &s.Sprites[i], true
		}
	}
	return nil, false
}
