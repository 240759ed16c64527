package ws

import (
	"encoding/json"

	"kol_arena/internal/domain"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// client → server
type CreateRoomPayload struct {
	GameType    string `json:"game_type"`
	BetAmount   int64  `json:"bet_amount"`
	Currency    string `json:"currency"`
	DisplayName string `json:"display_name,omitempty"`
	EscrowTxID  string `json:"escrow_tx_id,omitempty"`
}

type JoinRoomPayload struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name,omitempty"`
	EscrowTxID  string `json:"escrow_tx_id,omitempty"`
}

type PlaceBetPayload struct {
	RoomID     string `json:"room_id"`
	Amount     int64  `json:"amount"`
	EscrowTxID string `json:"escrow_tx_id,omitempty"`
}

type ChoosePayload struct {
	RoomID string `json:"room_id"`
	Choice string `json:"choice"` // heads | tails
}

type ReconcilePayload struct {
	EscrowTxID string `json:"escrow_tx_id"`
}

type RoomRefPayload struct {
	RoomID string `json:"room_id"`
}

// server → client
type OpResult struct {
	Success bool             `json:"success"`
	Room    *domain.GameRoom `json:"room,omitempty"`
	Error   string           `json:"error,omitempty"`
	Code    string           `json:"code,omitempty"`
}

type SnapshotPayload struct {
	Room *domain.GameRoom `json:"room"`
}

type RoomsListPayload struct {
	Rooms []*domain.GameRoom `json:"rooms"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	RoomID  string `json:"room_id,omitempty"`
}

func encode(msgType string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("{}")
	}
	out, _ := json.Marshal(Envelope{Type: msgType, Data: raw})
	return out
}
