package scanner

import (
	"iter"
	"regexp"
	"strings"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Address-shaped grammar. IPv6 is tried before IPv4 at each position so a
// mapped form like ::ffff:192.0.2.1 is taken whole.
const (
	ipv4Shape = `(?:\d{1,3}\.){3}\d{1,3}`
	hexGroup  = `[0-9A-Fa-f]{1,4}`

	// Colon groups ending in a non-empty group or a dotted quad,
	// or hex groups ending in "::" (e.g. "fe80::").
	ipv6Shape = `(?:[0-9A-Fa-f]{0,4}:){2,7}(?:` + ipv4Shape + `|` + hexGroup + `)` +
		`|(?:` + hexGroup + `:){1,7}:`
)

var (
	addressPattern = regexp.MustCompile(ipv6Shape + `|\b` + ipv4Shape + `\b`)
	ipv4Pattern    = regexp.MustCompile(`\b` + ipv4Shape + `\b`)
)

// Scan yields every address-shaped token in the unit, left to right and
// non-overlapping. Candidates are not validated. The sequence can be
// iterated any number of times and always yields the same candidates.
func Scan(unit domain.RawTextUnit) iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		if unit.IsEmpty() {
			return
		}
		for _, loc := range addressPattern.FindAllStringIndex(unit.Text, -1) {
			if !isDelimited(unit.Text, loc[0], loc[1]) {
				continue
			}
			c := domain.Candidate{
				Token:  unit.Text[loc[0]:loc[1]],
				Origin: unit.Label,
				Offset: loc[0],
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Addresses yields the addresses in the unit that pass Validate, in
// text order. Duplicates are not removed. A colon-separated span that is
// not itself a valid IPv6 address is searched again for dotted quads, so
// "12:30:10.0.0.1" still yields 10.0.0.1.
func Addresses(unit domain.RawTextUnit) iter.Seq[domain.ValidatedAddress] {
	return func(yield func(domain.ValidatedAddress) bool) {
		if unit.IsEmpty() {
			return
		}

		emit := func(start, end int) (kept, more bool) {
			if !isDelimited(unit.Text, start, end) {
				return false, true
			}
			addr, ok := Validate(unit.Text[start:end])
			if !ok {
				return false, true
			}
			addr.Origin = unit.Label
			return true, yield(addr)
		}

		for _, loc := range addressPattern.FindAllStringIndex(unit.Text, -1) {
			kept, more := emit(loc[0], loc[1])
			if !more {
				return
			}
			token := unit.Text[loc[0]:loc[1]]
			if kept || !strings.Contains(token, ":") {
				continue
			}
			for _, inner := range ipv4Pattern.FindAllStringIndex(token, -1) {
				if _, more := emit(loc[0]+inner[0], loc[0]+inner[1]); !more {
					return
				}
			}
		}
	}
}

// isDelimited reports whether text[start:end] is not glued to a
// surrounding word. RE2 has no lookbehind, so the IPv6 side of the
// grammar is bounded here (e.g. "std::vector" must not yield "d::").
func isDelimited(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	// A colon run that goes on past the grammar's eight groups, as in
	// "1:2:3:4:5:6:7:8:9", is not an address.
	if end+1 < len(text) && text[end] == ':' && isHexByte(text[end+1]) &&
		strings.IndexByte(text[start:end], ':') >= 0 {
		return false
	}
	return true
}

func isHexByte(b byte) bool {
	return ('0' <= b && b <= '9') ||
		('a' <= b && b <= 'f') ||
		('A' <= b && b <= 'F')
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
