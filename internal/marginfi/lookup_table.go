package marginfi

import (
	"fmt"

	"solana-liquidator/internal/domain"
)

// lutMetadataLen is the fixed header before the packed address list in an
// address lookup table account.
const lutMetadataLen = 56

// DecodeLookupTable decodes an address lookup table account into its
// member address list. Trailing bytes that do not form a whole address are
// rejected.
func DecodeLookupTable(address domain.Address, data []byte) (domain.LookupTable, error) {
	if len(data) < lutMetadataLen {
		return domain.LookupTable{}, fmt.Errorf("lookup table %s: data too short: %d", address, len(data))
	}
	body := data[lutMetadataLen:]
	if len(body)%domain.AddressLen != 0 {
		return domain.LookupTable{}, fmt.Errorf("lookup table %s: %d trailing bytes", address, len(body)%domain.AddressLen)
	}

	lut := domain.LookupTable{Address: address}
	for i := 0; i < len(body); i += domain.AddressLen {
		var member domain.Address
		copy(member[:], body[i:])
		lut.Addresses = append(lut.Addresses, member)
	}
	return lut, nil
}
