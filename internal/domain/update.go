package domain

import "fmt"

// UpdateKind classifies a streamed account update for cache dispatch.
type UpdateKind uint8

const (
	UpdateKindClock UpdateKind = iota
	UpdateKindMarginAccount
	UpdateKindBank
	UpdateKindOracle
)

// String returns the kind name for logging and metrics labels.
func (k UpdateKind) String() string {
	switch k {
	case UpdateKindClock:
		return "clock"
	case UpdateKindMarginAccount:
		return "margin_account"
	case UpdateKindBank:
		return "bank"
	case UpdateKindOracle:
		return "oracle"
	default:
		return "unknown"
	}
}

// AccountUpdate is one pre-classified event from the streaming subscriber.
type AccountUpdate struct {
	Kind    UpdateKind
	Slot    uint64
	Address Address
	Account Account
}

// String renders a compact form for error logs.
func (u *AccountUpdate) String() string {
	return fmt.Sprintf("[kind: %s, slot: %d, address: %s]", u.Kind, u.Slot, u.Address)
}
