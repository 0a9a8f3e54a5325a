// Package image provides the Extractor for image files.
//
// An image yields a "metadata" unit built from its textual metadata
// (PNG text chunks, JPEG comments, EXIF and XMP, GIF comments, WebP
// EXIF/XMP chunks) and, when a TextRecogniser is configured, an "ocr"
// unit with the text recognised in the pixels.
package image
