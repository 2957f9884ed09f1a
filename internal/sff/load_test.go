package sff

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"
)

// buildSyntheticV2 assembles a minimal, well-formed v2 SFF image in memory:
// one palette (group 0, item 0) and one raw-codec sprite (group 0, item 0,
// 2x2 pixels) that uses it. The layout mirrors the real format's directory
// + data-region structure without needing a fixture file on disk.
func buildSyntheticV2(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	w16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	wi16 := func(v int16) { binary.Write(&buf, binary.LittleEndian, v) }

	const (
		headerLen       = 64
		paletteDirLen   = 16
		paletteDataLen  = 256 * 4
		spriteDirLen    = 28
	)
	paletteDirOffset := int64(headerLen)
	paletteDataOffset := paletteDirOffset + paletteDirLen
	spriteDirOffset := paletteDataOffset + paletteDataLen
	spritePayloadOffset := spriteDirOffset + spriteDirLen

	// Header.
	buf.Write(magic)
	buf.Write([]byte{0, 1, 0, 2}) // sub3, sub2, sub1, major=2
	w32(0)                       // reserved
	for i := 0; i < 4; i++ {
		w32(0) // reserved x4
	}
	w32(uint32(spriteDirOffset))  // first sprite header offset
	w32(1)                       // number of sprites
	w32(uint32(paletteDirOffset)) // first palette header offset
	w32(1)                       // number of palettes
	w32(0)                       // lofs
	w32(0)                       // reserved
	w32(0)                       // tofs

	if int64(buf.Len()) != paletteDirOffset {
		t.Fatalf("header length drifted: got %d, want %d", buf.Len(), paletteDirOffset)
	}

	// Palette directory: one entry at (group 0, item 0).
	wi16(0)                          // group
	wi16(0)                          // item
	wi16(256)                        // color count (advisory)
	w16(0)                           // link (advisory)
	w32(uint32(paletteDataOffset))   // data offset
	w32(uint32(paletteDataLen))      // data size (advisory)

	if int64(buf.Len()) != paletteDataOffset {
		t.Fatalf("palette directory length drifted: got %d, want %d", buf.Len(), paletteDataOffset)
	}

	// Palette data: 256 little-endian RGBA words. Entry 0 is forced
	// transparent regardless of its stored bytes; entry 1 is red.
	w32(0)
	w32(0x000000FF) // R=0xFF
	for i := 2; i < 256; i++ {
		w32(0)
	}

	if int64(buf.Len()) != spriteDirOffset {
		t.Fatalf("palette data length drifted: got %d, want %d", buf.Len(), spriteDirOffset)
	}

	// Sprite directory: one raw-codec 2x2 sprite at (group 0, item 0).
	wi16(0)                              // group
	wi16(0)                              // item
	w16(2)                               // width
	w16(2)                               // height
	wi16(0)                              // x offset
	wi16(0)                              // y offset
	w16(0)                               // link (unused: payload size != 0)
	buf.WriteByte(byte(CodecRaw))         // codec tag
	buf.WriteByte(8)                      // color depth
	w32(uint32(spritePayloadOffset))      // payload offset
	w32(4)                                // payload size (2x2 bytes, raw)
	w16(0)                                // palette index
	w16(0)                                // flags (literal base offset)

	if int64(buf.Len()) != spritePayloadOffset {
		t.Fatalf("sprite directory length drifted: got %d, want %d", buf.Len(), spritePayloadOffset)
	}

	// Raw pixel payload: palette index 1 (red) on every pixel.
	buf.Write([]byte{1, 1, 1, 1})

	return buf.Bytes()
}

func TestLoadSyntheticV2(t *testing.T) {
	data := buildSyntheticV2(t)
	r := bytes.NewReader(data)

	s, err := Load(context.Background(), r, int64(len(data)), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Sprites) != 1 {
		t.Fatalf("expected 1 sprite, got %d", len(s.Sprites))
	}
	if len(s.Palettes) != 1 {
		t.Fatalf("expected 1 palette, got %d", len(s.Palettes))
	}

	sp, ok := s.GetSprite(0, 0)
	if !ok {
		t.Fatal("GetSprite(0, 0) not found")
	}
	if sp.Width != 2 || sp.Height != 2 {
		t.Errorf("unexpected sprite size: %dx%d", sp.Width, sp.Height)
	}
	if string(sp.Pixels) != string([]byte{1, 1, 1, 1}) {
		t.Errorf("unexpected pixel data: %v", sp.Pixels)
	}

	pal := s.Palettes[sp.PaletteIndex]
	if pal[1].R != 0xFF || pal[1].A != 255 {
		t.Errorf("unexpected palette entry 1: %+v", pal[1])
	}
	if pal[0].A != 0 {
		t.Errorf("palette entry 0 must be transparent, got %+v", pal[0])
	}

	var dump bytes.Buffer
	if err := s.DumpDatabase(&dump); err != nil {
		t.Fatalf("DumpDatabase: %v", err)
	}
	if !strings.Contains(dump.String(), "RAW") {
		t.Errorf("expected dump to mention codec RAW, got %q", dump.String())
	}
}

// buildSyntheticV1 assembles a minimal, well-formed v1 SFF image in
// memory: three linked sub-headers, each followed by its own embedded PCX
// payload (none for the link entry). Sprite 0 decodes its own
// palette; sprite 1 sets ps=1 to share sprite 0's palette (seed scenario
// S3); sprite 2 is a size=0 link back to sprite 0 (seed scenario S4).
func buildSyntheticV1(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	w16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	wi16 := func(v int16) { binary.Write(&buf, binary.LittleEndian, v) }
	b8 := func(v byte) { buf.WriteByte(v) }

	const (
		headerLen     = 28
		subHeaderLen  = 32
		pcxHeaderSize = 128
	)

	// Header.
	buf.Write(magic)
	buf.Write([]byte{0, 1, 0, 1}) // sub3, sub2, sub1, major=1
	w32(0)                       // reserved
	w32(3)                       // number of sprites
	w32(headerLen)                // first sprite header offset

	if buf.Len() != headerLen {
		t.Fatalf("header length drifted: got %d, want %d", buf.Len(), headerLen)
	}

	sub0Offset := int64(headerLen)
	payload0Offset := sub0Offset + subHeaderLen
	rle0 := []byte{1, 2, 3, 4}
	pal0Size := 768
	payload0Size := pcxHeaderSize + len(rle0) + pal0Size
	sub1Offset := payload0Offset + int64(payload0Size)
	payload1Offset := sub1Offset + subHeaderLen
	rle1 := []byte{9, 9, 9, 9}
	payload1Size := pcxHeaderSize + len(rle1)
	sub2Offset := payload1Offset + int64(payload1Size)

	// Sub-header 0: group=0 item=0, ps=0 (decodes its own palette).
	w32(uint32(sub1Offset))
	w32(uint32(payload0Size))
	wi16(0) // xOffset
	wi16(0) // yOffset
	wi16(0) // group
	wi16(0) // item
	w16(0)  // link (unused: payloadSize != 0)
	b8(0)   // ps
	buf.Write(make([]byte, subHeaderLen-19))

	if int64(buf.Len()) != payload0Offset {
		t.Fatalf("sub-header 0 length drifted: got %d, want %d", buf.Len(), payload0Offset)
	}

	// Payload 0: 128-byte PCX header (2x2), literal RLE stream, trailing
	// 768-byte palette (c00 && !paletteSame).
	w16(0) // manufacturer+version
	b8(1)  // encoding = run-length
	b8(8)  // bpp
	w16(0) // xmin
	w16(0) // ymin
	w16(1) // xmax -> width = 2
	w16(1) // ymax -> height = 2
	buf.Write(make([]byte, pcxHeaderSize-12))
	buf.Write(rle0)
	pal0 := make([]byte, 768)
	pal0[3], pal0[4], pal0[5] = 0xAA, 0xBB, 0xCC // entry 1 RGB
	buf.Write(pal0)

	if int64(buf.Len()) != sub1Offset {
		t.Fatalf("payload 0 length drifted: got %d, want %d", buf.Len(), sub1Offset)
	}

	// Sub-header 1: group=0 item=1, ps=1 (shares sprite 0's palette).
	w32(uint32(sub2Offset))
	w32(uint32(payload1Size))
	wi16(0)
	wi16(0)
	wi16(0)
	wi16(1)
	w16(0)
	b8(1) // ps
	buf.Write(make([]byte, subHeaderLen-19))

	if int64(buf.Len()) != payload1Offset {
		t.Fatalf("sub-header 1 length drifted: got %d, want %d", buf.Len(), payload1Offset)
	}

	// Payload 1: 128-byte PCX header (2x2), literal RLE stream, no
	// trailing palette (paletteSame is true).
	w16(0)
	b8(1)
	b8(8)
	w16(0)
	w16(0)
	w16(1)
	w16(1)
	buf.Write(make([]byte, pcxHeaderSize-12))
	buf.Write(rle1)

	if int64(buf.Len()) != sub2Offset {
		t.Fatalf("payload 1 length drifted: got %d, want %d", buf.Len(), sub2Offset)
	}

	// Sub-header 2: group=0 item=2, payloadSize=0 -> link back to the
	// dense sprite index 0 (sprite 0, decoded above).
	w32(0) // next (unused: last sprite)
	w32(0) // payloadSize = 0
	wi16(0)
	wi16(0)
	wi16(0)
	wi16(2)
	w16(0) // link = dense index 0
	b8(0)  // ps (unused for a link entry)
	buf.Write(make([]byte, subHeaderLen-19))

	return buf.Bytes()
}

func TestLoadSyntheticV1(t *testing.T) {
	data := buildSyntheticV1(t)
	r := bytes.NewReader(data)

	s, err := Load(context.Background(), r, int64(len(data)), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Sprites) != 3 {
		t.Fatalf("expected 3 sprites, got %d", len(s.Sprites))
	}

	sp0, ok := s.GetSprite(0, 0)
	if !ok {
		t.Fatal("GetSprite(0, 0) not found")
	}
	if sp0.Width != 2 || sp0.Height != 2 {
		t.Errorf("sprite 0: unexpected size %dx%d", sp0.Width, sp0.Height)
	}
	if string(sp0.Pixels) != string([]byte{1, 2, 3, 4}) {
		t.Errorf("sprite 0: unexpected pixels %v", sp0.Pixels)
	}
	pal0 := s.Palettes[sp0.PaletteIndex]
	if pal0[1].R != 0xAA || pal0[1].G != 0xBB || pal0[1].B != 0xCC {
		t.Errorf("sprite 0: unexpected palette entry 1: %+v", pal0[1])
	}

	// S3: ps=1 must inherit the previous sprite's palette index exactly.
	sp1, ok := s.GetSprite(0, 1)
	if !ok {
		t.Fatal("GetSprite(0, 1) not found")
	}
	if sp1.PaletteIndex != sp0.PaletteIndex {
		t.Errorf("sprite 1: expected shared palette index %d, got %d", sp0.PaletteIndex, sp1.PaletteIndex)
	}
	if string(sp1.Pixels) != string([]byte{9, 9, 9, 9}) {
		t.Errorf("sprite 1: unexpected pixels %v", sp1.Pixels)
	}

	// S4: a size=0 sub-header must copy the link target's decoded pixels
	// and palette index bit-for-bit, only overriding group/item/IsLink.
	sp2, ok := s.GetSprite(0, 2)
	if !ok {
		t.Fatal("GetSprite(0, 2) not found")
	}
	if !sp2.IsLink {
		t.Error("sprite 2: expected IsLink")
	}
	if sp2.PaletteIndex != sp0.PaletteIndex {
		t.Errorf("sprite 2: expected palette index %d, got %d", sp0.PaletteIndex, sp2.PaletteIndex)
	}
	if string(sp2.Pixels) != string(sp0.Pixels) {
		t.Errorf("sprite 2: expected pixels identical to sprite 0, got %v", sp2.Pixels)
	}

	if s.Header.NumberOfPalettes != 1 {
		t.Errorf("expected 1 palette counted after the v1 walk, got %d", s.Header.NumberOfPalettes)
	}
}

func TestLoadBadMagic(t *testing.T) {
	data := []byte("not an sff file, too short..")
	_, err := Load(context.Background(), bytes.NewReader(data), int64(len(data)), Options{})
	if err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}
