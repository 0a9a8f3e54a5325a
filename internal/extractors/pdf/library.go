package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure LibraryReader implements the interface.
var _ PageReader = LibraryReader{}

// LibraryReader extracts page text with github.com/ledongthuc/pdf.
type LibraryReader struct{}

// ReadPages opens the PDF at path and returns the plain text of each page.
// Encrypted documents fail, as no password is ever supplied.
func (LibraryReader) ReadPages(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err)
	}

	reader, err := openReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pageText(reader, i))
	}

	return pages, nil
}

// openReader guards against the library panicking on malformed
// cross-reference tables.
func openReader(f *os.File, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return pdf.NewReader(f, size)
}

// pageText returns the text of page i, or "" when the page has no text or
// its content stream cannot be decoded.
func pageText(reader *pdf.Reader, i int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("pdf: page %d could not be decoded: %v", i, r)
			text = ""
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Warn("pdf: page %d: %v", i, err)
		return ""
	}
	return text
}
