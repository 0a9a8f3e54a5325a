package domain

// AddressFamily distinguishes IPv4 from IPv6.
type AddressFamily string

// Address families.
const (
	// FamilyIPv4 is a dotted-quad IPv4 address.
	FamilyIPv4 AddressFamily = "ipv4"

	// FamilyIPv6 is a colon-hex IPv6 address, including IPv4-mapped forms.
	FamilyIPv6 AddressFamily = "ipv6"
)

// String returns the string representation.
func (f AddressFamily) String() string {
	return string(f)
}

// Candidate is an address-shaped token matched in a RawTextUnit.
// It has not been validated yet.
type Candidate struct {
	// Token is the matched text.
	Token string

	// Origin is the Label of the RawTextUnit the token came from.
	Origin string

	// Offset is the byte offset of Token within the unit's text.
	Offset int
}

// ValidatedAddress is a candidate confirmed to be a well-formed address.
type ValidatedAddress struct {
	// Address is the canonical textual form.
	Address string

	// Family is ipv4 or ipv6.
	Family AddressFamily

	// Origin is the Label of the RawTextUnit where it was first seen.
	Origin string
}
