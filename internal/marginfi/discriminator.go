// Package marginfi decodes the lending program's on-chain account layouts:
// discriminator classification, bank and margin account records, the sysvar
// clock, and address lookup tables.
package marginfi

import "bytes"

// DiscriminatorLen is the length of the anchor-style account discriminator.
const DiscriminatorLen = 8

// Account discriminators (magic prefixes) for the tracked program.
var (
	MarginAccountDiscriminator = []byte{67, 178, 130, 109, 126, 114, 28, 42}
	BankDiscriminator          = []byte{142, 49, 166, 242, 50, 66, 97, 188}
)

// EntryKind is the result of classifying raw account bytes.
type EntryKind uint8

const (
	EntryUnrecognized EntryKind = iota
	EntryMarginAccount
	EntryBank
)

// Classify returns which logical entity the raw bytes decode to. It is a
// total function: short input or an unknown prefix yields EntryUnrecognized.
// Data must be strictly longer than the discriminator to match.
func Classify(data []byte) EntryKind {
	if len(data) <= DiscriminatorLen {
		return EntryUnrecognized
	}
	switch {
	case bytes.Equal(data[:DiscriminatorLen], MarginAccountDiscriminator):
		return EntryMarginAccount
	case bytes.Equal(data[:DiscriminatorLen], BankDiscriminator):
		return EntryBank
	default:
		return EntryUnrecognized
	}
}
