package domain

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLen is the length of a Solana account address in bytes.
const AddressLen = 32

// Address is a 32-byte Solana account address.
// It is comparable and usable as a map key.
type Address [AddressLen]byte

// ZeroAddress is the all-zero (default) address. Oracle key slots holding
// this value are treated as unset.
var ZeroAddress Address

// ParseAddress decodes a base58-encoded address string.
func ParseAddress(s string) (Address, error) {
	var a Address
	decoded, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("decode address %q: %w", s, err)
	}
	if len(decoded) != AddressLen {
		return a, fmt.Errorf("address %q has %d bytes, want %d", s, len(decoded), AddressLen)
	}
	copy(a[:], decoded)
	return a, nil
}

// MustParseAddress is ParseAddress for known-good constants. Panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies a 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("address has %d bytes, want %d", len(b), AddressLen)
	}
	copy(a[:], b)
	return a, nil
}

// String returns the base58 form of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether the address is the all-zero default.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}
