package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"os"
	"strings"

	// Registered decoders for format detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles image files.
type Extractor struct {
	recogniser driven.TextRecogniser
}

// New creates an image extractor. recogniser is optional; without it only
// metadata is extracted.
func New(recogniser driven.TextRecogniser) *Extractor {
	return &Extractor{recogniser: recogniser}
}

// Kind returns the source kind this extractor handles.
func (e *Extractor) Kind() domain.SourceKind {
	return domain.KindImage
}

// Extract returns the metadata unit and, with a recogniser, the OCR unit.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.RawTextUnit, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %w: empty path", domain.ErrSourceUnreadable, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err)
	}

	_, format, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	logger.Debug("image: %s decoded as %s", path, format)

	units := []domain.RawTextUnit{{
		Label: domain.UnitMetadata,
		Text:  formatFields(readMetadata(format, data)),
	}}

	if e.recogniser == nil {
		return units, nil
	}

	text, err := e.recogniser.Recognise(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("image: ocr failed for %s, continuing with metadata only: %v", path, err)
		return units, nil
	}

	return append(units, domain.RawTextUnit{Label: domain.UnitOCR, Text: text}), nil
}

// formatFields renders fields as "Name: Value" lines.
func formatFields(fields []field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.name)
		b.WriteString(": ")
		b.WriteString(f.value)
		b.WriteByte('\n')
	}
	return b.String()
}
