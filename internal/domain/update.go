package domain

// UpdateType - тип события комнаты
type UpdateType string

const (
	UpdatePlayerJoined UpdateType = "player_joined"
	UpdateGameStarted  UpdateType = "game_started"
	UpdateGameFinished UpdateType = "game_finished"
	UpdateBetPlaced    UpdateType = "bet_placed"
	UpdateTimer        UpdateType = "timer_update"
)

// GameUpdate is a fire-and-forget broadcast. Delivery is best-effort per
// subscriber; there is no acknowledgment contract. Clients that miss events
// re-fetch the authoritative room snapshot instead of replaying deltas.
type GameUpdate struct {
	Type   UpdateType     `json:"type"`
	RoomID string         `json:"room_id"`
	Data   map[string]any `json:"data,omitempty"`
}
