package image

import (
	"bytes"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/custodia-labs/iptrace/internal/logger"
)

// userCommentPrefix is the character code header of the UserComment tag.
const userCommentPrefix = 8

// exifFields decodes an EXIF block (TIFF data, optionally behind an
// "Exif\0\0" header) and returns its textual tags sorted by name.
func exifFields(raw []byte) (fields []field) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("image: malformed exif: %v", r)
			fields = nil
		}
	}()

	x, err := exif.Decode(bytes.NewReader(raw))
	if x == nil {
		logger.Debug("image: no exif: %v", err)
		return nil
	}

	w := &textWalker{}
	_ = x.Walk(w)

	sort.Slice(w.fields, func(i, j int) bool {
		return w.fields[i].name < w.fields[j].name
	})
	return w.fields
}

// textWalker keeps the ASCII tags and the user comment.
type textWalker struct {
	fields []field
}

func (w *textWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	var value string
	switch {
	case tag.Format() == tiff.StringVal:
		value, _ = tag.StringVal()
	case name == exif.UserComment && len(tag.Val) > userCommentPrefix:
		value = string(tag.Val[userCommentPrefix:])
	default:
		return nil
	}

	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if value != "" {
		w.fields = append(w.fields, field{string(name), value})
	}
	return nil
}
