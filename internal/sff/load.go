package sff

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options configures a Load call. A nil Logger is valid and simply disables
// the non-fatal warning diagnostics specified in §4.6/§4.2/§7.
type Options struct {
	Logger *zap.SugaredLogger
}

// LoadFile opens path and decodes it as an SFF container (§2, §5).
func LoadFile(ctx context.Context, path string, opts Options) (*Sff, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "sff: opening file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "sff: stat")
	}
	return Load(ctx, f, info.Size(), opts)
}

// Load decodes a complete SFF image from r (§2). It is synchronous and
// single-threaded throughout (§5): sprite i is fully resolved, including
// any link or v1 palette-inheritance dependency on an earlier sprite,
// before sprite i+1 begins. On any error the partially built catalog is
// discarded — the caller never observes it (§7 recovery policy).
func Load(ctx context.Context, r io.ReaderAt, size int64, opts Options) (*Sff, error) {
	b := newByteReader(r, size)

	h, err := readHeader(b)
	if err != nil {
		return nil, err
	}

	s := &Sff{Header: *h, index: make(map[[2]int16]int, h.NumberOfSprites)}

	if h.Major == 2 {
		pals, err := loadPaletteTable(b, h, opts.Logger)
		if err != nil {
			return nil, errors.Wrap(err, "sff: loading v2 palette table")
		}
		s.Palettes = pals
	}

	switch h.Major {
	case 1:
		if err := walkV1(ctx, b, s, opts.Logger); err != nil {
			return nil, err
		}
		s.Header.NumberOfPalettes = uint32(len(s.Palettes))
	case 2:
		if err := walkV2(ctx, b, s, opts.Logger, r, size); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// addSprite records a fully decoded (or linked) sprite at its dense index
// and keeps the (group, item) lookup pointed at the first occurrence of
// that key, matching the teacher's map-insert-once behavior.
func addSprite(s *Sff, sp Sprite) {
	idx := len(s.Sprites)
	s.Sprites = append(s.Sprites, sp)
	key := [2]int16{sp.Group, sp.Item}
	if _, exists := s.index[key]; !exists {
		s.index[key] = idx
	}
}

// resolveLink implements §4.6 for both SFF versions: a zero-size directory
// entry either copies an earlier sprite by value, or — if the link target
// is not strictly smaller — becomes an empty, palette-0 placeholder and a
// logged (non-fatal) warning.
func resolveLink(s *Sff, i int, link uint16, group, item int16, log *zap.SugaredLogger) Sprite {
	if int(link) < i {
		target := s.Sprites[link]
		target.Pixels = append([]byte(nil), target.Pixels...)
		target.Group, target.Item = group, item
		target.IsLink = true
		return target
	}
	if log != nil {
		log.Warnw("sprite link target is not strictly smaller; emitting empty placeholder", "index", i, "link", link, "group", group, "item", item)
	}
	return Sprite{Group: group, Item: item, PaletteIndex: 0, IsLink: true}
}
