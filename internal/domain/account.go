package domain

// Account is a raw Solana account as returned by the fetch client or the
// streaming subscriber.
type Account struct {
	Data       []byte
	Owner      Address
	Lamports   uint64
	Executable bool
	RentEpoch  uint64
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	Address Address
	Account Account
}

// Clock mirrors the Solana sysvar clock. A single cached instance is the
// sole timestamp/ordering source for the whole process.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}
