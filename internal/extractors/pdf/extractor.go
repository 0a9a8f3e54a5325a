package pdf

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// PageReader returns the text of every page of a PDF, in order.
// A page without extractable text is an empty string.
type PageReader interface {
	ReadPages(ctx context.Context, path string) ([]string, error)
}

// Extractor handles PDF documents.
type Extractor struct {
	reader PageReader
}

// New creates a PDF extractor backed by the in-process library reader.
func New() *Extractor {
	return NewWithReader(LibraryReader{})
}

// NewWithReader creates a PDF extractor with a custom page reader.
func NewWithReader(reader PageReader) *Extractor {
	return &Extractor{reader: reader}
}

// Kind returns the source kind this extractor handles.
func (e *Extractor) Kind() domain.SourceKind {
	return domain.KindPDF
}

// Extract returns one unit per page of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.RawTextUnit, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %w: empty path", domain.ErrSourceUnreadable, domain.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrSourceUnreadable, path)
	}

	pages, err := e.reader.ReadPages(ctx, path)
	if err != nil {
		return nil, err
	}

	units := make([]domain.RawTextUnit, len(pages))
	for i, text := range pages {
		units[i] = domain.RawTextUnit{
			Label: "page " + strconv.Itoa(i+1),
			Text:  text,
		}
	}

	logger.Debug("pdf: %s has %d pages", path, len(units))
	return units, nil
}
