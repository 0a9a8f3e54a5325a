package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantOK     bool
		wantAddr   string
		wantFamily domain.AddressFamily
	}{
		{name: "simple ipv4", token: "1.2.3.4", wantOK: true, wantAddr: "1.2.3.4", wantFamily: domain.FamilyIPv4},
		{name: "ipv4 max octets", token: "255.255.255.255", wantOK: true, wantAddr: "255.255.255.255", wantFamily: domain.FamilyIPv4},
		{name: "ipv4 zero", token: "0.0.0.0", wantOK: true, wantAddr: "0.0.0.0", wantFamily: domain.FamilyIPv4},
		{name: "octet 256 rejected", token: "256.1.1.1", wantOK: false},
		{name: "last octet 256 rejected", token: "1.1.1.256", wantOK: false},
		{name: "999 rejected", token: "999.1.1.1", wantOK: false},
		{name: "all 999 rejected", token: "999.999.999.999", wantOK: false},
		{name: "leading zero rejected", token: "010.0.0.1", wantOK: false},
		{name: "three octets rejected", token: "1.2.3", wantOK: false},
		{name: "loopback ipv6", token: "::1", wantOK: true, wantAddr: "::1", wantFamily: domain.FamilyIPv6},
		{name: "documentation ipv6", token: "2001:db8::1", wantOK: true, wantAddr: "2001:db8::1", wantFamily: domain.FamilyIPv6},
		{name: "ipv6 normalised to lower case", token: "2001:DB8::A", wantOK: true, wantAddr: "2001:db8::a", wantFamily: domain.FamilyIPv6},
		{
			name:       "ipv6 long form compressed",
			token:      "2001:0db8:0000:0000:0000:0000:0000:0001",
			wantOK:     true,
			wantAddr:   "2001:db8::1",
			wantFamily: domain.FamilyIPv6,
		},
		{name: "ipv4 mapped stays ipv6", token: "::ffff:192.0.2.1", wantOK: true, wantAddr: "::ffff:192.0.2.1", wantFamily: domain.FamilyIPv6},
		{name: "double compression rejected", token: "2001::db8::1", wantOK: false},
		{name: "zone rejected", token: "fe80::1%eth0", wantOK: false},
		{name: "mac address rejected", token: "00:1a:2b:3c:4d:5e", wantOK: false},
		{name: "time rejected", token: "12:30:45", wantOK: false},
		{name: "empty rejected", token: "", wantOK: false},
		{name: "word rejected", token: "localhost", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, ok := Validate(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantAddr, addr.Address)
				assert.Equal(t, tt.wantFamily, addr.Family)
				assert.Empty(t, addr.Origin)
			} else {
				assert.Equal(t, domain.ValidatedAddress{}, addr)
			}
		})
	}
}

func TestValidate_CanonicalFormRevalidates(t *testing.T) {
	for _, token := range []string{"1.2.3.4", "2001:DB8:0:0::1", "::ffff:10.0.0.1", "fe80::"} {
		addr, ok := Validate(token)
		if assert.True(t, ok, token) {
			again, ok := Validate(addr.Address)
			assert.True(t, ok)
			assert.Equal(t, addr.Address, again.Address)
		}
	}
}
