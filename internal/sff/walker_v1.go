package sff

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// walkV1 implements the v1 half of §4.3: a linked list of 32-byte
// sub-headers chained through each record's own next-offset field, with
// embedded PCX payloads decoded inline (§4.7) and palette continuity
// tracked via a plain index rather than a pointer into the growing slice
// (§9).
func walkV1(ctx context.Context, b *byteReader, s *Sff, log *zap.SugaredLogger) error {
	shofs := int64(s.Header.FirstSpriteHeaderOffset)

	prevPalIdx := -1
	hasPrev := false

	addPalette := func(p Palette) int {
		s.Palettes = append(s.Palettes, p)
		return len(s.Palettes) - 1
	}

	for i := 0; i < int(s.Header.NumberOfSprites); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.Seek(shofs)
		sh, err := readSubHeaderV1(b)
		if err != nil {
			return errors.Wrapf(err, "sff: v1 sub-header %d", i)
		}

		var sp Sprite
		if sh.payloadSize == 0 {
			sp = resolveLink(s, i, sh.link, sh.group, sh.item, log)
		} else {
			payloadOffset := shofs + 32
			px, w, h, palIdx, err := decodePCXSprite(b, payloadOffset, sh.payloadSize, sh.paletteSame, hasPrev, prevPalIdx, addPalette)
			if err != nil {
				return errors.Wrapf(err, "sff: v1 sprite %d (group=%d item=%d)", i, sh.group, sh.item)
			}
			sp = Sprite{
				Group: sh.group, Item: sh.item,
				Width: w, Height: h,
				XOffset: sh.xOffset, YOffset: sh.yOffset,
				PaletteIndex: palIdx,
				Codec:        CodecPCX,
				Pixels:       px,
			}
			if len(sp.Pixels) != sp.bufLen() {
				return errors.Wrapf(ErrDecodedSizeMismatch, "sff: v1 sprite %d (group=%d item=%d): got %d bytes, want %d", i, sh.group, sh.item, len(sp.Pixels), sp.bufLen())
			}

			// §4.6: the previous-sprite pointer advances on every decoded
			// (non-link) sprite except group 9000 with a nonzero item,
			// which intentionally preserves palette continuity across the
			// 9000 range.
			if !(sp.Group == 9000 && sp.Item != 0) {
				prevPalIdx = palIdx
				hasPrev = true
			}
		}

		addSprite(s, sp)
		shofs = int64(sh.nextSubHeaderOffset)
	}
	return nil
}
