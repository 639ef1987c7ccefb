package domain

import "math/big"

// Oracle is a cached price-feed account. Price is the raw, unscaled
// 128-bit signed price; nil means the identity is cached but no price has
// been decoded yet (decode failures do not block caching the identity).
type Oracle struct {
	Address   Address
	Variant   OracleVariant
	PriceSlot uint64
	Price     *big.Int
}

// HasPrice reports whether a decoded price is present.
func (o *Oracle) HasPrice() bool {
	return o.Price != nil
}

// LookupTable is a batch-loaded address-expanding reference table. It is
// consumed as-is by transaction construction and never merged per entry.
type LookupTable struct {
	Address   Address
	Addresses []Address
}
