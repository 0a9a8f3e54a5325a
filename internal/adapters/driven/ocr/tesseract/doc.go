// Package tesseract implements driven.TextRecogniser with the tesseract
// command line OCR engine.
package tesseract
