package sff

// subHeader is the version-agnostic result of parsing one directory entry's
// fixed-layout header fields (§4.4, §4.5), before codec dispatch.
type subHeader struct {
	group, item      int16
	width, height    uint16
	xOffset, yOffset int16
	link             uint16
	codec            CodecTag
	colorDepth       byte

	payloadOffset uint32
	payloadSize   uint32

	paletteIndex int

	nextSubHeaderOffset uint32 // v1 only: linked-list next-offset (§4.3)
	paletteSame         bool   // v1 only: "ps" byte at sub-header offset 18
}

// readSubHeaderV1 parses the 32-byte v1 sub-header (§4.4). Width/height are
// not present here — they come from the embedded PCX header, filled in
// later by the PCX codec.
func readSubHeaderV1(b *byteReader) (*subHeader, error) {
	sh := &subHeader{codec: CodecPCX}

	// This field chains to the next directory entry (§4.3); the payload
	// itself always starts immediately after the fixed 32-byte record, not
	// at this offset (the teacher's readHeader/extractSff confirms this:
	// the payload is read from shofs+32, while this value feeds shofs for
	// the next iteration).
	var err error
	if sh.nextSubHeaderOffset, err = b.u32(); err != nil {
		return nil, err
	}
	if sh.payloadSize, err = b.u32(); err != nil {
		return nil, err
	}
	if sh.xOffset, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.yOffset, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.group, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.item, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.link, err = b.u16(); err != nil {
		return nil, err
	}

	// The palette-same flag sits at sub-header byte 18, immediately after
	// the 18 bytes read above; the payload itself always starts at
	// shofs+32 regardless of this byte's value.
	ps, err := b.u8()
	if err != nil {
		return nil, err
	}
	sh.paletteSame = ps != 0

	return sh, nil
}

// readSubHeaderV2 parses the 28-byte v2 sub-header (§4.5), resolving the
// literal/translucent base offset via bit 0 of the trailing flags word.
func readSubHeaderV2(b *byteReader, lofs, tofs uint32) (*subHeader, error) {
	sh := &subHeader{}

	var err error
	if sh.group, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.item, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.width, err = b.u16(); err != nil {
		return nil, err
	}
	if sh.height, err = b.u16(); err != nil {
		return nil, err
	}
	if sh.xOffset, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.yOffset, err = b.i16(); err != nil {
		return nil, err
	}
	if sh.link, err = b.u16(); err != nil {
		return nil, err
	}

	tag, err := b.u8()
	if err != nil {
		return nil, err
	}
	sh.codec = CodecTag(tag)

	if sh.colorDepth, err = b.u8(); err != nil {
		return nil, err
	}
	if sh.payloadOffset, err = b.u32(); err != nil {
		return nil, err
	}
	if sh.payloadSize, err = b.u32(); err != nil {
		return nil, err
	}

	var palIdx uint16
	if palIdx, err = b.u16(); err != nil {
		return nil, err
	}
	sh.paletteIndex = int(palIdx)

	flags, err := b.u16()
	if err != nil {
		return nil, err
	}
	if flags&1 == 0 {
		sh.payloadOffset += lofs
	} else {
		sh.payloadOffset += tofs
	}
	return sh, nil
}
