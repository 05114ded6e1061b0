package devicon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

type icoHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoEntry struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
)

// WriteICO writes images as a multi-resolution .ico with PNG-compressed
// entries, in the order given. Images larger than 256 pixels on a side are
// rejected.
func WriteICO(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return errors.New("ico: no images")
	}

	payloads := make([][]byte, len(images))
	entries := make([]icoEntry, len(images))
	offset := icoHeaderSize + icoEntrySize*len(images)
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() > 256 || b.Dy() > 256 || b.Dx() < 1 || b.Dy() < 1 {
			return fmt.Errorf("ico: unsupported image size %dx%d", b.Dx(), b.Dy())
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encoding %dx%d: %w", b.Dx(), b.Dy(), err)
		}
		payloads[i] = buf.Bytes()
		entries[i] = icoEntry{
			Width:       icoDim(b.Dx()),
			Height:      icoDim(b.Dy()),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(buf.Len()),
			ImageOffset: uint32(offset),
		}
		offset += buf.Len()
	}

	hdr := icoHeader{Type: 1, Count: uint16(len(images))}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entries); err != nil {
		return err
	}
	for _, p := range payloads {
		if _, err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// 256 is stored as 0.
func icoDim(n int) uint8 {
	if n >= 256 {
		return 0
	}
	return uint8(n)
}
