package domain

import "time"

// GameType - тип игры
type GameType string

const (
	GameTypeCoinflip         GameType = "coinflip"
	GameTypeJackpot          GameType = "jackpot"
	GameTypePredictionBattle GameType = "prediction_battle"
	GameTypeMarketDuel       GameType = "market_duel"
)

// Capacity returns the maximum number of seats for a game type.
// Head-to-head games seat exactly two players, pooled games seat up to eight.
func (t GameType) Capacity() int {
	switch t {
	case GameTypeCoinflip, GameTypeMarketDuel:
		return 2
	case GameTypeJackpot, GameTypePredictionBattle:
		return 8
	default:
		return 0
	}
}

// Pooled reports whether the game accumulates a shared pot with
// stake-weighted resolution instead of an even head-to-head draw.
func (t GameType) Pooled() bool {
	return t == GameTypeJackpot || t == GameTypePredictionBattle
}

// Valid reports whether the game type belongs to the closed set.
func (t GameType) Valid() bool {
	return t.Capacity() > 0
}

// Currency - валюта ставки
type Currency string

const (
	CurrencySOL  Currency = "SOL"
	CurrencyUSDT Currency = "USDT"
)

func (c Currency) Valid() bool {
	return c == CurrencySOL || c == CurrencyUSDT
}

// RoomStatus - состояние комнаты
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// CoinSide is the coinflip player choice.
type CoinSide string

const (
	SideHeads CoinSide = "heads"
	SideTails CoinSide = "tails"
)

// Player is one seat in a room. A player is identified by the wallet that
// funded the seat; the record belongs to exactly one room and is never shared
// across rooms, even when the same wallet sits in several rooms at once.
type Player struct {
	ID          string   `json:"id"` // wallet address
	DisplayName string   `json:"display_name,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	BetAmount   int64    `json:"bet_amount"`
	Choice      CoinSide `json:"choice,omitempty"`
	IsWinner    bool     `json:"is_winner,omitempty"`
	EscrowTxID  string   `json:"escrow_tx_id,omitempty"`
}

// GameRoom is one instance of a game: fixed bet unit, capacity-bounded seats.
type GameRoom struct {
	ID         string     `json:"id"`
	GameType   GameType   `json:"game_type"`
	Players    []Player   `json:"players"`
	Status     RoomStatus `json:"status"`
	BetAmount  int64      `json:"bet_amount"`
	Currency   Currency   `json:"currency"`
	Winner     *Player    `json:"winner,omitempty"`
	Pot        int64      `json:"pot"`
	Payout     int64      `json:"payout,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Clone returns a deep copy so callers can never mutate the stored room.
func (r *GameRoom) Clone() *GameRoom {
	cp := *r
	cp.Players = make([]Player, len(r.Players))
	copy(cp.Players, r.Players)
	if r.Winner != nil {
		w := *r.Winner
		cp.Winner = &w
	}
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

// Full reports whether every seat is taken.
func (r *GameRoom) Full() bool {
	return len(r.Players) >= r.GameType.Capacity()
}

// FindPlayer returns the seat funded by the given wallet, if any.
func (r *GameRoom) FindPlayer(wallet string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == wallet {
			return &r.Players[i]
		}
	}
	return nil
}
