// Package scanner finds IPv4 and IPv6 addresses in free text.
//
// Scanning is two steps. An address-shaped grammar produces candidates,
// which is deliberately looser than real validity (999.999.999.999 matches
// the shape). Each candidate is then checked by Validate, which keeps only
// well-formed addresses in canonical form.
//
// Policies:
//
//   - IPv4 octets must be 0-255 without leading zeros ("010.0.0.1" is rejected).
//   - IPv6 zone identifiers are rejected by Validate and are not part of the
//     scan grammar, so "fe80::1%eth0" in text yields "fe80::1".
//   - IPv4-mapped IPv6 ("::ffff:192.0.2.1") is accepted as IPv6 and is not
//     unmapped.
//   - A colon-separated span that fails validation is searched again for
//     dotted quads, so "12:30:10.0.0.1" yields 10.0.0.1.
//   - A colon run longer than eight groups ("1:2:3:4:5:6:7:8:9") yields
//     nothing rather than a truncated address.
package scanner
