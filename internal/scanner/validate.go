package scanner

import (
	"net/netip"
	"strings"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Validate reports whether token is a well-formed IPv4 or IPv6 address.
// The returned address carries the canonical textual form and family;
// Origin is left empty for the caller to fill in.
// Validate is a filter, not a fallible operation: anything else is
// simply rejected.
func Validate(token string) (domain.ValidatedAddress, bool) {
	if token == "" || strings.ContainsRune(token, '%') {
		return domain.ValidatedAddress{}, false
	}

	addr, err := netip.ParseAddr(token)
	if err != nil || addr.Zone() != "" {
		return domain.ValidatedAddress{}, false
	}

	family := domain.FamilyIPv6
	if addr.Is4() {
		family = domain.FamilyIPv4
	}

	return domain.ValidatedAddress{
		Address: addr.String(),
		Family:  family,
	}, true
}
