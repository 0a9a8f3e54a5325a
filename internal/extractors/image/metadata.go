package image

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"strings"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"

	"github.com/custodia-labs/iptrace/internal/logger"
)

// field is one textual metadata entry.
type field struct {
	name  string
	value string
}

const (
	xmpHeader = "http://ns.adobe.com/xap/1.0/\x00"
	exifMagic = "Exif\x00\x00"

	// maxInflated caps decompressed PNG text chunks.
	maxInflated = 1 << 20
)

// readMetadata collects the textual metadata of an image already
// identified as format. Malformed metadata is skipped, never fatal.
func readMetadata(format string, data []byte) []field {
	switch format {
	case "png":
		return pngFields(data)
	case "jpeg":
		return jpegFields(data)
	case "gif":
		return gifFields(data)
	case "webp":
		return webpFields(data)
	case "tiff":
		return exifFields(data)
	default:
		return nil
	}
}

// pngFields reads tEXt, zTXt, iTXt and eXIf chunks.
func pngFields(data []byte) (fields []field) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("image: malformed png: %v", r)
		}
	}()

	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok || cs == nil {
		logger.Debug("image: no png chunks: %v", err)
		return nil
	}
	if err != nil {
		logger.Debug("image: png chunks truncated: %v", err)
	}

	for _, chunk := range cs.Chunks() {
		switch chunk.Type {
		case "tEXt":
			if key, text, ok := splitNull(chunk.Data); ok {
				fields = append(fields, field{key, latin1(text)})
			}
		case "zTXt":
			if key, body, ok := splitNull(chunk.Data); ok && len(body) > 0 {
				if text, err := inflate(body[1:]); err == nil {
					fields = append(fields, field{key, latin1(text)})
				}
			}
		case "iTXt":
			if f, ok := parseITXt(chunk.Data); ok {
				fields = append(fields, f)
			}
		case "eXIf":
			fields = append(fields, exifFields(chunk.Data)...)
		}
	}
	return fields
}

// parseITXt decodes keyword, flags, language and translated keyword,
// then the UTF-8 text, which may be zlib compressed.
func parseITXt(chunk []byte) (field, bool) {
	key, rest, ok := splitNull(chunk)
	if !ok || len(rest) < 2 {
		return field{}, false
	}
	compressed := rest[0] == 1
	rest = rest[2:]

	if _, rest, ok = splitNull(rest); !ok {
		return field{}, false
	}
	if _, rest, ok = splitNull(rest); !ok {
		return field{}, false
	}

	if compressed {
		text, err := inflate(rest)
		if err != nil {
			return field{}, false
		}
		rest = text
	}
	return field{key, string(rest)}, true
}

// jpegFields reads COM comments and APP1 EXIF or XMP payloads from the
// marker segments.
func jpegFields(data []byte) (fields []field) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("image: malformed jpeg: %v", r)
		}
	}()

	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok || sl == nil {
		logger.Debug("image: no jpeg segments: %v", err)
		return nil
	}
	if err != nil {
		logger.Debug("image: jpeg segments truncated: %v", err)
	}

	for _, s := range sl.Segments() {
		switch s.MarkerId {
		case jpegstructure.MARKER_COM:
			fields = append(fields, field{"Comment", string(s.Data)})
		case jpegstructure.MARKER_APP1:
			switch {
			case bytes.HasPrefix(s.Data, []byte(exifMagic)):
				fields = append(fields, exifFields(s.Data)...)
			case bytes.HasPrefix(s.Data, []byte(xmpHeader)):
				fields = append(fields, field{"XMP", string(s.Data[len(xmpHeader):])})
			}
		}
	}
	return fields
}

// gifFields reads comment extensions, skipping image data and other
// extensions.
func gifFields(data []byte) []field {
	const headerLen = 13
	if len(data) < headerLen {
		return nil
	}

	pos := headerLen
	if packed := data[10]; packed&0x80 != 0 {
		pos += 3 << ((packed & 0x07) + 1)
	}

	var fields []field
	for pos < len(data) {
		switch data[pos] {
		case 0x21:
			if pos+1 >= len(data) {
				return fields
			}
			label := data[pos+1]
			body, next := readSubBlocks(data, pos+2)
			if label == 0xFE {
				fields = append(fields, field{"Comment", string(body)})
			}
			pos = next
		case 0x2C:
			const descriptorLen = 10
			if pos+descriptorLen > len(data) {
				return fields
			}
			packed := data[pos+9]
			pos += descriptorLen
			if packed&0x80 != 0 {
				pos += 3 << ((packed & 0x07) + 1)
			}
			// LZW minimum code size, then the data sub-blocks.
			_, pos = readSubBlocks(data, pos+1)
		default:
			// 0x3B trailer or garbage
			return fields
		}
	}
	return fields
}

// readSubBlocks concatenates GIF data sub-blocks starting at pos and
// returns the position after the block terminator.
func readSubBlocks(data []byte, pos int) ([]byte, int) {
	var body []byte
	for pos < len(data) {
		size := int(data[pos])
		pos++
		if size == 0 {
			return body, pos
		}
		if pos+size > len(data) {
			return body, len(data)
		}
		body = append(body, data[pos:pos+size]...)
		pos += size
	}
	return body, pos
}

// webpFields reads the EXIF and XMP chunks of a RIFF WebP container.
func webpFields(data []byte) []field {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil
	}

	var fields []field
	pos := 12
	for pos+8 <= len(data) {
		kind := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		start := pos + 8
		if size < 0 || start+size > len(data) {
			break
		}
		chunk := data[start : start+size]
		pos = start + size + size%2

		switch kind {
		case "EXIF":
			fields = append(fields, exifFields(chunk)...)
		case "XMP ":
			fields = append(fields, field{"XMP", string(chunk)})
		}
	}
	return fields
}

func splitNull(b []byte) (string, []byte, bool) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", nil, false
	}
	return string(b[:i]), b[i+1:], true
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		logger.Debug("image: skipping compressed text chunk: %v", err)
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(io.LimitReader(r, maxInflated))
}

// latin1 converts ISO 8859-1 bytes, the encoding of PNG tEXt, to UTF-8.
func latin1(b []byte) string {
	var s strings.Builder
	s.Grow(len(b))
	for _, c := range b {
		s.WriteRune(rune(c))
	}
	return s.String()
}
