package sff

import (
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// decodePNGSprite implements §4.11. The first 4 bytes of the payload are a
// vestigial prefix shared with the custom codecs (§4.8-§4.10) and are
// skipped before the real PNG stream begins; image/png.Decode reads only
// as much of the remainder as its own chunk structure requires, so the
// payload's declared size need not be tracked precisely past that point.
//
// Tag 10 (8-bit palette) keeps the decoder's own palette indices, so the
// sprite participates in the catalog's palette lookup like any other
// paletted codec. Tags 11/12 (truecolor / truecolor-alpha) are normalized
// to straight, 8-bit-per-channel RGBA via golang.org/x/image/draw and never
// consult a palette.
func decodePNGSprite(r io.ReaderAt, fileSize int64, payloadOffset int64, tag CodecTag) (px []byte, width, height uint16, err error) {
	start := payloadOffset + 4
	if start >= fileSize {
		return nil, 0, 0, errors.Wrap(ErrBadPngPayload, "prefix runs past end of file")
	}
	sr := io.NewSectionReader(r, start, fileSize-start)

	cfg, err := png.DecodeConfig(sr)
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPngPayload, err.Error())
	}
	width, height = uint16(cfg.Width), uint16(cfg.Height)

	if _, err := sr.Seek(0, io.SeekStart); err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPngPayload, err.Error())
	}
	img, err := png.Decode(sr)
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPngPayload, err.Error())
	}

	switch tag {
	case CodecPNG8:
		pal, ok := img.(*image.Paletted)
		if !ok {
			return nil, 0, 0, errors.Wrap(ErrBadPngPayload, "tag 10 requires an 8-bit paletted PNG")
		}
		return append([]byte(nil), pal.Pix...), width, height, nil
	case CodecPNG24, CodecPNG32:
		rgba := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		if tag == CodecPNG24 {
			opaque(rgba)
		}
		return rgba.Pix, width, height, nil
	default:
		return nil, 0, 0, errors.Wrapf(ErrBadCodecTag, "tag=%d", tag)
	}
}

// opaque forces the alpha channel to fully opaque for truecolor (non-alpha)
// PNG sprites (tag 11), matching the format's RGBA-always pixel buffer.
func opaque(img *image.RGBA) {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.A = 255
			img.SetRGBA(x, y, c)
		}
	}
}
