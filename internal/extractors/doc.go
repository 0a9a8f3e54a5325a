// Package extractors holds the driven.Extractor implementations, one
// subpackage per source kind. Each extractor turns a location (a file path
// or a URL) into ordered RawTextUnits and knows nothing about addresses.
//
// Extractors are registered with the ExtractorRegistry at startup.
package extractors
