package domain

import "time"

// GameOutcome - результат игры для одного участника
type GameOutcome string

const (
	OutcomeWin  GameOutcome = "win"
	OutcomeLose GameOutcome = "lose"
)

// GameHistory is the per-player record handed to the optional history sink
// after a room resolves. The sink is an external collaborator; the session
// core never reads it back.
type GameHistory struct {
	ID         int64          `db:"id" json:"id"`
	Wallet     string         `db:"wallet" json:"wallet"`
	GameType   GameType       `db:"game_type" json:"game_type"`
	RoomID     string         `db:"room_id" json:"room_id"`
	Result     GameOutcome    `db:"result" json:"result"`
	BetAmount  int64          `db:"bet_amount" json:"bet_amount"`
	WinAmount  int64          `db:"win_amount" json:"win_amount"`
	Currency   Currency       `db:"currency" json:"currency"`
	EscrowTxID string         `db:"escrow_tx_id" json:"escrow_tx_id"`
	Details    map[string]any `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
