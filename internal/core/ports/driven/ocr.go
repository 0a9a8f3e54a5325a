package driven

import "context"

// TextRecogniser recognises text in image pixel content (OCR).
// It is optional; image extraction falls back to metadata when absent.
type TextRecogniser interface {
	// Recognise returns the text found in the image at path.
	Recognise(ctx context.Context, path string) (string, error)
}
