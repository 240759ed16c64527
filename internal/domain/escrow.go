package domain

import "time"

// ConfirmationState - состояние эскроу-перевода
type ConfirmationState string

const (
	EscrowUnsent    ConfirmationState = "unsent"
	EscrowPending   ConfirmationState = "pending"
	EscrowConfirmed ConfirmationState = "confirmed"
	EscrowFailed    ConfirmationState = "failed"
)

// EscrowTransaction tracks one wager transfer into the platform escrow
// account. TxID is empty until the player's wallet signs and broadcasts.
type EscrowTransaction struct {
	FromWallet      string            `json:"from_wallet"`
	ToEscrowAccount string            `json:"to_escrow_account"`
	Amount          int64             `json:"amount"`
	Currency        Currency          `json:"currency"`
	TxID            string            `json:"tx_id,omitempty"`
	State           ConfirmationState `json:"state"`
	CreatedAt       time.Time         `json:"created_at"`
}
