package sff

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// byteReader is a positioned, random-access view over the full SFF file
// image. It is the sole owner of the underlying io.ReaderAt for the
// duration of a Load call — nothing outside this package holds a reference
// to it, matching the single-threaded, synchronous resource model (§5).
type byteReader struct {
	r   io.ReaderAt
	pos int64
	size int64
}

func newByteReader(r io.ReaderAt, size int64) *byteReader {
	return &byteReader{r: r, size: size}
}

// Seek moves the absolute read cursor. SFF offsets are always absolute, so
// this is the only positioning primitive the decoder needs.
func (b *byteReader) Seek(offset int64) {
	b.pos = offset
}

func (b *byteReader) Tell() int64 {
	return b.pos
}

func (b *byteReader) readFull(buf []byte) error {
	n, err := b.r.ReadAt(buf, b.pos)
	b.pos += int64(n)
	if err != nil {
		if err == io.EOF && n == len(buf) {
			return nil
		}
		return errors.Wrapf(ErrTruncatedPayload, "read %d bytes at offset %d: %v", len(buf), b.pos-int64(n), err)
	}
	return nil
}

func (b *byteReader) u8() (byte, error) {
	var buf [1]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *byteReader) i16() (int16, error) {
	var buf [2]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

func (b *byteReader) u16() (uint16, error) {
	var buf [2]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (b *byteReader) u32() (uint32, error) {
	var buf [4]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// bytes reads n bytes at the current position, advancing the cursor. Unlike
// the custom codec decompressors (§4.8-§4.10), a short read here is always
// fatal: the directory/header parsers have no saturating-read allowance.
func (b *byteReader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := b.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
