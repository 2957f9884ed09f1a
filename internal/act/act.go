// Package act loads and saves the 768-byte ACT palette format used by
// Mugen editors (§6.2, §4.13).
package act

import (
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/leonkasovan/sffkit/internal/sff"
)

const fileSize = 768

// Load implements §6.2: 256 RGB triplets, byte order RGB in the file, but
// entry order reversed at load time (file entry 0 becomes in-memory entry
// 255). In-memory entry 0 is always forced to fully transparent; entries
// 1..255 are opaque. A file shorter than 768 bytes is replaced, silently
// but logged, by an all-zero palette.
func Load(r io.Reader, log *zap.SugaredLogger) (*sff.Palette, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "act: reading palette data")
	}

	var pal sff.Palette
	if len(raw) < fileSize {
		if log != nil {
			log.Warnw("act: file shorter than 768 bytes, using all-zero palette", "size", len(raw))
		}
		pal[0] = color.RGBA{A: 0}
		for i := 1; i < 256; i++ {
			pal[i] = color.RGBA{A: 255}
		}
		return &pal, nil
	}

	for fileIdx := 0; fileIdx < 256; fileIdx++ {
		memIdx := 255 - fileIdx
		if memIdx == 0 {
			// In-memory entry 0 is always fully transparent black,
			// regardless of what the file stores at this position.
			pal[0] = color.RGBA{A: 0}
			continue
		}
		r, g, b := raw[fileIdx*3], raw[fileIdx*3+1], raw[fileIdx*3+2]
		pal[memIdx] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return &pal, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string, log *zap.SugaredLogger) (*sff.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "act: opening file")
	}
	defer f.Close()
	return Load(f, log)
}

// Save writes a resolved in-memory palette back out as a 768-byte ACT file,
// in direct (non-reversed) entry order — the decoder-side convenience for
// round-tripping a catalog palette, matching the teacher's and the original
// C++ source's savePalette, neither of which reverses on write. This is not
// SFF mutation: no SFF container bytes are touched (Non-goals unaffected).
func Save(w io.Writer, pal *sff.Palette) error {
	buf := make([]byte, 0, fileSize)
	for _, c := range pal {
		buf = append(buf, c.R, c.G, c.B)
	}
	_, err := w.Write(buf)
	return errors.Wrap(err, "act: writing palette data")
}
