package domain

import "time"

const unknownDescription = "Unknown"

// PDFEngine selects how PDF page text is read.
type PDFEngine string

// Available PDF engines.
const (
	// PDFEngineLibrary reads pages in-process with a Go PDF library.
	PDFEngineLibrary PDFEngine = "library"

	// PDFEnginePDFToText shells out to poppler's pdftotext.
	PDFEnginePDFToText PDFEngine = "pdftotext"
)

// IsValid returns true if the engine is recognised.
func (e PDFEngine) IsValid() bool {
	switch e {
	case PDFEngineLibrary, PDFEnginePDFToText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e PDFEngine) String() string {
	return string(e)
}

// Description returns a human-readable description of the engine.
func (e PDFEngine) Description() string {
	switch e {
	case PDFEngineLibrary:
		return "Built-in (Go PDF reader)"
	case PDFEnginePDFToText:
		return "pdftotext (poppler)"
	default:
		return unknownDescription
	}
}

// WebhookSettings configures result delivery.
type WebhookSettings struct {
	// URL is the default webhook endpoint. Empty disables delivery.
	URL string

	// Username is the display name sent with each message.
	Username string
}

// IsConfigured returns true if a webhook endpoint is set.
func (s WebhookSettings) IsConfigured() bool {
	return s.URL != ""
}

// MaskedURL returns the endpoint with its secret token hidden.
func (s WebhookSettings) MaskedURL() string {
	if s.URL == "" {
		return ""
	}
	if len(s.URL) <= 16 {
		return "****"
	}
	return s.URL[:12] + "..." + s.URL[len(s.URL)-4:]
}

// WebsiteSettings configures the website extractor.
type WebsiteSettings struct {
	// TimeoutSeconds bounds the whole fetch.
	TimeoutSeconds int

	// MaxBodyBytes caps how much of the response body is read.
	MaxBodyBytes int

	// UserAgent is sent with each request. Empty uses the default.
	UserAgent string
}

// Timeout returns the fetch timeout as a duration.
func (s WebsiteSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// OCRSettings configures optional text recognition for images.
type OCRSettings struct {
	// Enabled turns OCR on when a recogniser is installed.
	Enabled bool

	// Language is the recogniser language code (e.g. "eng").
	Language string
}

// PDFSettings configures the PDF extractor.
type PDFSettings struct {
	// Engine selects the page text reader.
	Engine PDFEngine
}

// ScanSettings configures batch scanning.
type ScanSettings struct {
	// Concurrency bounds how many sources are scanned at once.
	Concurrency int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Webhook WebhookSettings
	Website WebsiteSettings
	OCR     OCRSettings
	PDF     PDFSettings
	Scan    ScanSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Webhook is left unconfigured - results are printed only
		Webhook: WebhookSettings{
			Username: "iptrace",
		},
		Website: WebsiteSettings{
			TimeoutSeconds: 15,
			MaxBodyBytes:   10 << 20,
		},
		OCR: OCRSettings{
			Enabled:  true,
			Language: "eng",
		},
		PDF: PDFSettings{
			Engine: PDFEngineLibrary,
		},
		Scan: ScanSettings{
			Concurrency: 4,
		},
	}
}

// AllPDFEngines returns all available PDF engines.
func AllPDFEngines() []PDFEngine {
	return []PDFEngine{
		PDFEngineLibrary,
		PDFEnginePDFToText,
	}
}
