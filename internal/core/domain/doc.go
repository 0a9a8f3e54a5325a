// Package domain defines the core entities for iptrace.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDescriptor: What to scan (kind + location)
//   - RawTextUnit: One fragment of text produced by an extractor
//   - Candidate: An address-shaped token found in a RawTextUnit
//   - ValidatedAddress: A candidate confirmed to be a real IPv4/IPv6 address
//   - ResultSet: The deduplicated, ordered output of one run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
