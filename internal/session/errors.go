package session

import (
	"errors"

	"kol_arena/internal/escrow"
	"kol_arena/internal/signer"
)

// Room state errors. Safe to retry: they report the store's current view and
// apply nothing.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomExists      = errors.New("room id already registered")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotJoinable = errors.New("room is not accepting players")
	ErrRoomClosed      = errors.New("room is finished")
	ErrNotInRoom       = errors.New("wallet holds no seat in this room")
	ErrNotPooled       = errors.New("game does not accept additional bets")
	ErrAlreadySeated   = errors.New("wallet already holds a seat in this room")
	ErrBadGameType     = errors.New("unsupported game type")
	ErrBadChoice       = errors.New("invalid choice")
)

// Wager validation and escrow-ledger errors.
var (
	ErrBetOutOfRange = errors.New("bet amount outside allowed limits")
	ErrTxAlreadyUsed = errors.New("escrow transaction already spent on another wager")
	ErrTxUnknown     = errors.New("no pending wager for this transaction")

	// ErrReconcileRequired is the delicate case: escrow may have confirmed
	// but the room mutation was not applied. The wager intent is kept and
	// must be settled through Reconcile - retrying the operation blind could
	// double-spend or silently drop a funded wager.
	ErrReconcileRequired = errors.New("confirmation outcome unknown; reconcile before retrying")
)

// Code maps an operation error to its wire error code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrRoomNotJoinable):
		return "room_not_joinable"
	case errors.Is(err, ErrRoomClosed):
		return "room_closed"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrNotPooled):
		return "not_a_pooled_game"
	case errors.Is(err, ErrAlreadySeated):
		return "already_in_room"
	case errors.Is(err, ErrBadGameType):
		return "unsupported_game_type"
	case errors.Is(err, ErrBadChoice):
		return "invalid_choice"
	case errors.Is(err, ErrBetOutOfRange):
		return "bet_out_of_range"
	case errors.Is(err, escrow.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, escrow.ErrUnsupportedCurrency):
		return "unsupported_currency"
	case errors.Is(err, escrow.ErrMissingWallet):
		return "wallet_required"
	case errors.Is(err, ErrTxAlreadyUsed):
		return "tx_already_used"
	case errors.Is(err, ErrTxUnknown):
		return "tx_unknown"
	case errors.Is(err, ErrReconcileRequired):
		return "reconcile_required"
	case errors.Is(err, signer.ErrUserRejected):
		return "user_rejected"
	case errors.Is(err, signer.ErrSignerUnavailable):
		return "signer_unavailable"
	case errors.Is(err, signer.ErrConfirmTimeout):
		return "confirm_timeout"
	default:
		return "escrow_failed"
	}
}
