package liquidation

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"solana-liquidator/internal/domain"
)

// ErrNoViableBump is returned when no bump seed yields an off-curve
// program address.
var ErrNoViableBump = errors.New("no viable bump seed")

var (
	// TokenProgramID is the SPL token program.
	TokenProgramID = domain.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	// AssociatedTokenProgramID derives associated token accounts.
	AssociatedTokenProgramID = domain.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// bankVaultAuthoritySeed prefixes the liquidity vault authority PDA of a bank.
var bankVaultAuthoritySeed = []byte("liquidity_vault_auth")

// CreateProgramAddress hashes the seeds into a program address,
// failing if the result lands on the ed25519 curve.
func CreateProgramAddress(seeds [][]byte, program domain.Address) (domain.Address, error) {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write(pdaMarker)

	var addr domain.Address
	copy(addr[:], h.Sum(nil))

	if isOnCurve(addr) {
		return domain.ZeroAddress, errors.New("address is on curve")
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 downward for an
// off-curve program address.
func FindProgramAddress(seeds [][]byte, program domain.Address) (domain.Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(append(seeds, []byte{byte(bump)}), program)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return domain.ZeroAddress, 0, ErrNoViableBump
}

// FindBankVaultAuthority derives the liquidity vault authority of a bank.
func FindBankVaultAuthority(bank, program domain.Address) (domain.Address, error) {
	addr, _, err := FindProgramAddress([][]byte{bankVaultAuthoritySeed, bank[:]}, program)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("derive vault authority for %s: %w", bank, err)
	}
	return addr, nil
}

// AssociatedTokenAddress derives the associated token account for a
// wallet and mint under the given token program.
func AssociatedTokenAddress(wallet, mint, tokenProgram domain.Address) (domain.Address, error) {
	addr, _, err := FindProgramAddress(
		[][]byte{wallet[:], tokenProgram[:], mint[:]},
		AssociatedTokenProgramID,
	)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("derive associated token account: %w", err)
	}
	return addr, nil
}

// isOnCurve reports whether the bytes decode as a valid ed25519 point.
func isOnCurve(addr domain.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}
