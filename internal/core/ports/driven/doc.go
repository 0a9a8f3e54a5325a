// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Turns one source kind into RawTextUnits (pdf, image, website)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextRecogniser: OCR for images. Without it, images are scanned by metadata only.
//   - Reporter: Result delivery. Without it, results are only returned to the caller.
//   - MetricsRecorder: Run and delivery metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or scanner package
package driven
