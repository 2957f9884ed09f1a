package sff

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const v2Stride = 28

// walkV2 implements the v2 half of §4.3-§4.5: a fixed-stride array of
// 28-byte sub-headers, dispatched through the seven-way codec table (§4.5,
// §4.8-§4.11).
func walkV2(ctx context.Context, b *byteReader, s *Sff, log *zap.SugaredLogger, r io.ReaderAt, fileSize int64) error {
	shofs := int64(s.Header.FirstSpriteHeaderOffset)

	for i := 0; i < int(s.Header.NumberOfSprites); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.Seek(shofs)
		sh, err := readSubHeaderV2(b, s.Header.Lofs, s.Header.Tofs)
		if err != nil {
			return errors.Wrapf(err, "sff: v2 sub-header %d", i)
		}

		var sp Sprite
		if sh.payloadSize == 0 {
			sp = resolveLink(s, i, sh.link, sh.group, sh.item, log)
		} else {
			px, err := decodeV2Payload(b, r, fileSize, sh)
			if err != nil {
				return errors.Wrapf(err, "sff: v2 sprite %d (group=%d item=%d codec=%d)", i, sh.group, sh.item, sh.codec)
			}
			sp = Sprite{
				Group: sh.group, Item: sh.item,
				Width: sh.width, Height: sh.height,
				XOffset: sh.xOffset, YOffset: sh.yOffset,
				PaletteIndex: sh.paletteIndex,
				Codec:        sh.codec,
				ColorDepth:   sh.colorDepth,
				Pixels:       px,
			}
			if len(sp.Pixels) != sp.bufLen() {
				return errors.Wrapf(ErrDecodedSizeMismatch, "sff: v2 sprite %d (group=%d item=%d): got %d bytes, want %d", i, sh.group, sh.item, len(sp.Pixels), sp.bufLen())
			}
		}

		addSprite(s, sp)
		shofs += v2Stride
	}
	return nil
}

// decodeV2Payload dispatches on the sub-header's codec tag (§4.5). Raw
// pixels are read without any prefix; the RLE8/RLE5/LZ5 and PNG payloads
// all share a 4-byte vestigial prefix that is skipped before the real
// stream begins (§4.8-§4.11).
func decodeV2Payload(b *byteReader, r io.ReaderAt, fileSize int64, sh *subHeader) ([]byte, error) {
	offset := int64(sh.payloadOffset)
	size := sh.payloadSize
	w, h := int(sh.width), int(sh.height)

	switch sh.codec {
	case CodecRaw:
		b.Seek(offset)
		return b.bytes(w * h)
	case CodecRLE8, CodecRLE5, CodecLZ5:
		if size < 4 {
			size = 4
		}
		b.Seek(offset + 4)
		src, err := b.bytes(int(size - 4))
		if err != nil {
			return nil, err
		}
		switch sh.codec {
		case CodecRLE8:
			return decodeRLE8(src, w, h), nil
		case CodecRLE5:
			return decodeRLE5(src, w, h), nil
		default:
			return decodeLZ5(src, w, h), nil
		}
	case CodecPNG8, CodecPNG24, CodecPNG32:
		px, _, _, err := decodePNGSprite(r, fileSize, offset, sh.codec)
		return px, err
	default:
		return nil, errors.Wrapf(ErrBadCodecTag, "tag=%d", sh.codec)
	}
}
