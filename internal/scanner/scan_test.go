package scanner

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// collect returns the valid addresses in text, duplicates included.
func collect(text string) []string {
	var out []string
	for addr := range Addresses(domain.RawTextUnit{Label: "test", Text: text}) {
		out = append(out, addr.Address)
	}
	return out
}

func TestScan_Candidates(t *testing.T) {
	unit := domain.RawTextUnit{Label: "page 1", Text: "a 10.0.0.1 b 999.999.999.999 c ::1"}

	candidates := slices.Collect(Scan(unit))

	require.Len(t, candidates, 3)
	assert.Equal(t, "10.0.0.1", candidates[0].Token)
	assert.Equal(t, 2, candidates[0].Offset)
	assert.Equal(t, "page 1", candidates[0].Origin)
	assert.Equal(t, "999.999.999.999", candidates[1].Token)
	assert.Equal(t, "::1", candidates[2].Token)
}

func TestScan_EmptyUnit(t *testing.T) {
	assert.Empty(t, slices.Collect(Scan(domain.RawTextUnit{Label: "page 3"})))
}

func TestScan_Restartable(t *testing.T) {
	unit := domain.RawTextUnit{Text: "10.0.0.1, 2001:db8::1 and 10.0.0.1 again, 300.1.1.1"}
	seq := Scan(unit)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, first, second)
	assert.Equal(t, first, slices.Collect(Scan(unit)))
}

func TestScan_StopsEarly(t *testing.T) {
	unit := domain.RawTextUnit{Text: "1.1.1.1 2.2.2.2 3.3.3.3"}

	var seen []string
	for c := range Scan(unit) {
		seen = append(seen, c.Token)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2"}, seen)
}

func TestAddresses(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "ipv4 in prose",
			text:     "Server at 10.0.0.1 and 10.0.0.1 again",
			expected: []string{"10.0.0.1", "10.0.0.1"},
		},
		{
			name:     "invalid shapes dropped",
			text:     "bad 999.1.1.1 bad 256.0.0.1 good 1.2.3.4",
			expected: []string{"1.2.3.4"},
		},
		{
			name:     "ipv6 forms",
			text:     "loopback ::1, doc 2001:db8::1, link fe80::",
			expected: []string{"::1", "2001:db8::1", "fe80::"},
		},
		{
			name:     "ipv6 normalised",
			text:     "host 2001:0DB8:0000:0000:0000:0000:0000:0001 up",
			expected: []string{"2001:db8::1"},
		},
		{
			name:     "mapped ipv4 taken whole",
			text:     "peer ::ffff:192.0.2.1 connected",
			expected: []string{"::ffff:192.0.2.1"},
		},
		{
			name:     "zone id dropped from token",
			text:     "iface fe80::1%eth0 up",
			expected: []string{"fe80::1"},
		},
		{
			name:     "trailing colon not part of address",
			text:     "addr 2001:db8::1: reachable",
			expected: []string{"2001:db8::1"},
		},
		{
			name:     "ipv4 with port",
			text:     "http://203.0.113.5:8080/status",
			expected: []string{"203.0.113.5"},
		},
		{
			name:     "header style",
			text:     "X-Forwarded-For: 203.0.113.5, 198.51.100.7",
			expected: []string{"203.0.113.5", "198.51.100.7"},
		},
		{
			name:     "times and macs ignored",
			text:     "at 12:30:45 from 00:1a:2b:3c:4d:5e",
			expected: nil,
		},
		{
			name:     "scope operator ignored",
			text:     "std::vector and Foo::bar",
			expected: nil,
		},
		{
			name:     "glued to word ignored",
			text:     "v1.2.3.4 build",
			expected: nil,
		},
		{
			name:     "four digit octet ignored",
			text:     "1234.1.1.1",
			expected: nil,
		},
		{
			name:     "no addresses",
			text:     "nothing to see here",
			expected: nil,
		},
		{
			name:     "ipv4 after a time",
			text:     "at 12:30:10.0.0.1 ok",
			expected: []string{"10.0.0.1"},
		},
		{
			name:     "ipv4 after hex groups",
			text:     "ab:cd:10.0.0.1",
			expected: []string{"10.0.0.1"},
		},
		{
			name:     "overlong colon run ignored",
			text:     "1:2:3:4:5:6:7:8:9",
			expected: nil,
		},
		{
			name:     "mapped ipv4 with port keeps the ipv4",
			text:     "peer ::ffff:192.0.2.1:80 up",
			expected: []string{"192.0.2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, collect(tt.text))
		})
	}
}

func TestAddresses_StopsEarlyInsideRescan(t *testing.T) {
	unit := domain.RawTextUnit{Label: "log", Text: "ab:cd:10.0.0.1 then 10.0.0.2"}

	var got []string
	for addr := range Addresses(unit) {
		got = append(got, addr.Address)
		break
	}

	assert.Equal(t, []string{"10.0.0.1"}, got)
}

func TestScan_OverlongColonRunNotACandidate(t *testing.T) {
	unit := domain.RawTextUnit{Label: "log", Text: "1:2:3:4:5:6:7:8:9"}

	assert.Empty(t, slices.Collect(Scan(unit)))
}

func TestAddresses_SetsOrigin(t *testing.T) {
	unit := domain.RawTextUnit{Label: domain.UnitHeaders, Text: "Via: 192.0.2.10"}

	addrs := slices.Collect(Addresses(unit))

	require.Len(t, addrs, 1)
	assert.Equal(t, domain.UnitHeaders, addrs[0].Origin)
	assert.Equal(t, domain.FamilyIPv4, addrs[0].Family)
}

// Every emitted address must survive direct validation unchanged.
func TestAddresses_NoFalsePositives(t *testing.T) {
	inputs := []string{
		"1.2.3.4 5.6.7.8.9 300.300.300.300 0.0.0.0",
		"::1 :: ::: :::: 1::2::3 abcd:: ::abcd",
		"2001:db8:85a3::8a2e:370:7334 2001:db8:85a3:0:0:8a2e:370:7334:1234",
		"::ffff:999.1.1.1 ::ffff:1.2.3.4 a:b:c:d:e:f:1.2.3.4",
		"1.1.1.1.1.1.1.1 01.02.03.04 255.255.255.256",
		"Date: Mon, 19 Oct 2026 12:30:45 GMT\nServer: 10.1.2.3",
	}

	for _, in := range inputs {
		for addr := range Addresses(domain.RawTextUnit{Text: in}) {
			again, ok := Validate(addr.Address)
			assert.True(t, ok, "emitted %q from %q does not validate", addr.Address, in)
			assert.Equal(t, addr.Address, again.Address)
		}
	}
}
