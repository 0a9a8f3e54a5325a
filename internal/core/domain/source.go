package domain

import (
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind identifies which extractor handles a source.
type SourceKind string

// Supported source kinds.
const (
	// KindPDF is a PDF document on the local filesystem.
	KindPDF SourceKind = "pdf"

	// KindImage is an image file on the local filesystem.
	KindImage SourceKind = "image"

	// KindWebsite is an http(s) URL.
	KindWebsite SourceKind = "website"
)

// kindAliases maps accepted spellings onto canonical kinds.
var kindAliases = map[string]SourceKind{
	"pdf":     KindPDF,
	"image":   KindImage,
	"img":     KindImage,
	"jpg":     KindImage,
	"jpeg":    KindImage,
	"png":     KindImage,
	"gif":     KindImage,
	"website": KindWebsite,
	"web":     KindWebsite,
	"url":     KindWebsite,
	"http":    KindWebsite,
	"https":   KindWebsite,
}

// imageExtensions lists the file extensions treated as images.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ParseSourceKind normalises a user-supplied kind string.
// Known aliases map to their canonical kind. Unknown values are kept
// verbatim so that dispatch can reject them with ErrUnsupportedSourceKind.
func ParseSourceKind(s string) SourceKind {
	key := strings.ToLower(strings.TrimSpace(s))
	if kind, ok := kindAliases[key]; ok {
		return kind
	}
	return SourceKind(s)
}

// IsValid returns true if the kind is one of the supported kinds.
func (k SourceKind) IsValid() bool {
	switch k {
	case KindPDF, KindImage, KindWebsite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns the label prefix used in reports.
func (k SourceKind) Description() string {
	switch k {
	case KindPDF:
		return "PDF"
	case KindImage:
		return "Image"
	case KindWebsite:
		return "Website"
	default:
		return string(k)
	}
}

// KindForLocation infers a source kind from a URL scheme or file extension.
// Returns false when the location matches neither.
func KindForLocation(location string) (SourceKind, bool) {
	if u, err := url.Parse(location); err == nil && u.Host != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return KindWebsite, true
		}
	}

	ext := strings.ToLower(filepath.Ext(location))
	switch {
	case ext == ".pdf":
		return KindPDF, true
	case imageExtensions[ext]:
		return KindImage, true
	default:
		return "", false
	}
}

// SourceDescriptor names one input to scan.
// It is a value type; copies are independent and never mutated.
type SourceDescriptor struct {
	// Kind selects the extractor.
	Kind SourceKind

	// Location is a file path (pdf, image) or URL (website).
	Location string
}

// NewSourceDescriptor creates a descriptor, normalising kind aliases.
func NewSourceDescriptor(kind, location string) SourceDescriptor {
	return SourceDescriptor{
		Kind:     ParseSourceKind(kind),
		Location: strings.TrimSpace(location),
	}
}

// Label returns a human-readable label such as "PDF: report.pdf".
func (d SourceDescriptor) Label() string {
	return d.Kind.Description() + ": " + d.Location
}
