package image

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	stdimage "image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func tinyRGBA() *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	return img
}

// pngWithChunks encodes a tiny PNG and inserts chunks right after IHDR.
func pngWithChunks(t *testing.T, chunks ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, tinyRGBA()); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	data := buf.Bytes()

	out := append([]byte{}, data[:ihdrEnd]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return append(out, data[ihdrEnd:]...)
}

func pngChunk(kind string, body []byte) []byte {
	var c bytes.Buffer
	_ = binary.Write(&c, binary.BigEndian, uint32(len(body)))
	c.WriteString(kind)
	c.Write(body)
	_ = binary.Write(&c, binary.BigEndian, crc32.ChecksumIEEE(append([]byte(kind), body...)))
	return c.Bytes()
}

// jpegWithSegments encodes a tiny JPEG and inserts segments after SOI.
func jpegWithSegments(t *testing.T, segments ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, tinyRGBA(), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	data := buf.Bytes()

	out := append([]byte{}, data[:2]...)
	for _, s := range segments {
		out = append(out, s...)
	}
	return append(out, data[2:]...)
}

func jpegSegment(marker byte, payload []byte) []byte {
	seg := []byte{0xFF, marker, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// gifWithComment encodes a tiny GIF and inserts a comment extension
// before the trailer.
func gifWithComment(t *testing.T, comment string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, tinyRGBA(), nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	data := buf.Bytes()
	trailer := len(data) - 1

	ext := []byte{0x21, 0xFE}
	for rest := []byte(comment); len(rest) > 0; {
		n := min(len(rest), 255)
		ext = append(ext, byte(n))
		ext = append(ext, rest[:n]...)
		rest = rest[n:]
	}
	ext = append(ext, 0x00)

	out := append([]byte{}, data[:trailer]...)
	out = append(out, ext...)
	return append(out, data[trailer:]...)
}

// tiffWithText builds a little-endian TIFF header and IFD holding an
// ImageDescription and a UserComment.
func tiffWithText(description, comment string) []byte {
	desc := append([]byte(description), 0)
	userComment := append([]byte("ASCII\x00\x00\x00"), comment...)

	const dataStart = 8 + 2 + 2*12 + 4
	var b bytes.Buffer
	b.WriteString("II")
	_ = binary.Write(&b, binary.LittleEndian, uint16(42))
	_ = binary.Write(&b, binary.LittleEndian, uint32(8))
	_ = binary.Write(&b, binary.LittleEndian, uint16(2))

	writeEntry := func(tag, typ uint16, count, offset uint32) {
		_ = binary.Write(&b, binary.LittleEndian, tag)
		_ = binary.Write(&b, binary.LittleEndian, typ)
		_ = binary.Write(&b, binary.LittleEndian, count)
		_ = binary.Write(&b, binary.LittleEndian, offset)
	}
	writeEntry(0x010E, 2, uint32(len(desc)), dataStart)
	writeEntry(0x9286, 7, uint32(len(userComment)), dataStart+uint32(len(desc)))
	_ = binary.Write(&b, binary.LittleEndian, uint32(0))

	b.Write(desc)
	b.Write(userComment)
	return b.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
