package domain

// OracleVariant identifies the binary layout of a bank's price oracle
// accounts.
type OracleVariant uint8

const (
	// OracleVariantNone marks a bank without a configured oracle.
	OracleVariantNone OracleVariant = 0
	// OracleVariantPythPull is the pull-style oracle: a packed struct with
	// an already-scaled signed price field.
	OracleVariantPythPull OracleVariant = 1
	// OracleVariantSwitchboardPull is the push-style oracle: a
	// length-prefixed self-describing record with a raw i128 result.
	OracleVariantSwitchboardPull OracleVariant = 2
)

// String returns the variant name for logging.
func (v OracleVariant) String() string {
	switch v {
	case OracleVariantNone:
		return "none"
	case OracleVariantPythPull:
		return "pyth_pull"
	case OracleVariantSwitchboardPull:
		return "switchboard_pull"
	default:
		return "unknown"
	}
}

// BankOracleKeys is the number of oracle key slots in a bank config.
const BankOracleKeys = 5

// Bank is a decoded lending pool configuration record. Derived from raw
// bank account bytes at decode time; OracleAddresses excludes unset
// (all-zero) key slots.
type Bank struct {
	Slot            uint64
	Address         Address
	Mint            Address
	MintDecimals    uint8
	Group           Address
	OracleVariant   OracleVariant
	OracleAddresses []Address
}
