package domain

// Labels used for RawTextUnits that are not page-numbered.
const (
	// UnitMetadata holds textual metadata fields from an image.
	UnitMetadata = "metadata"

	// UnitOCR holds text recognised from image pixels.
	UnitOCR = "ocr"

	// UnitBody holds a fetched response body.
	UnitBody = "body"

	// UnitHeaders holds concatenated response headers.
	UnitHeaders = "headers"
)

// RawTextUnit is one fragment of text produced by an extractor,
// e.g. a PDF page, an image's metadata or a response body.
// An empty Text is valid and simply contributes no candidates.
type RawTextUnit struct {
	// Label identifies the unit within its source (e.g. "page 2").
	Label string

	// Text is the extracted content.
	Text string
}

// IsEmpty returns true if the unit carries no text.
func (u RawTextUnit) IsEmpty() bool {
	return u.Text == ""
}
