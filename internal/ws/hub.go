package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kol_arena/internal/domain"
	"kol_arena/internal/logger"
	"kol_arena/internal/session"
)

// Hub tracks live connections and routes protocol messages into the
// coordinator. The hub owns no game state: every answer it gives comes from
// the coordinator's store.
type Hub struct {
	coord     *session.Coordinator
	opTimeout time.Duration

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(coord *session.Coordinator, opTimeout time.Duration) *Hub {
	if opTimeout <= 0 {
		opTimeout = 90 * time.Second
	}
	return &Hub{
		coord:     coord,
		opTimeout: opTimeout,
		clients:   make(map[*Client]struct{}),
	}
}

// ServeClient runs a freshly upgraded connection until it closes.
func (h *Hub) ServeClient(wallet string, conn *websocket.Conn) {
	c := newClient(wallet, conn, h)

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	logger.Info("ws connected", "wallet", wallet)
	c.Run()
}

// remove drops every subscription the client holds. Escrowed funds are not
// touched: a disconnect never abandons a funded seat, the wallet reconnects
// and re-syncs from snapshots.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	for roomID, token := range c.drainSubs() {
		h.coord.Registry().Unsubscribe(roomID, token)
	}
	_ = c.Conn.Close()
	logger.Info("ws disconnected", "wallet", c.Wallet)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.enqueue(encode(MsgError, ErrorPayload{Message: "malformed message", Code: "bad_request"}))
		return
	}

	switch env.Type {
	case MsgPing:
		c.enqueue(encode(MsgPong, struct{}{}))

	case MsgListRooms:
		c.enqueue(encode(MsgRoomsList, RoomsListPayload{Rooms: h.coord.ActiveRooms()}))

	case MsgSubscribe:
		h.subscribe(c, env.Data)

	case MsgUnsubscribe:
		h.unsubscribe(c, env.Data)

	case MsgChoose:
		h.choose(c, env.Data)

	// Wager operations block on chain confirmation, sometimes for a minute.
	// They run off the read pump so pongs keep flowing meanwhile.
	case MsgCreateRoom:
		go h.createRoom(c, env.Data)
	case MsgJoinRoom:
		go h.joinRoom(c, env.Data)
	case MsgQuickMatch:
		go h.quickMatch(c, env.Data)
	case MsgPlaceBet:
		go h.placeBet(c, env.Data)
	case MsgReconcile:
		go h.reconcile(c, env.Data)

	default:
		c.enqueue(encode(MsgError, ErrorPayload{Message: "unknown message type: " + env.Type, Code: "bad_request"}))
	}
}

func (h *Hub) subscribe(c *Client, data json.RawMessage) {
	var p RoomRefPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.enqueue(encode(MsgError, ErrorPayload{Message: "room_id required", Code: "bad_request"}))
		return
	}

	room, err := h.coord.Snapshot(p.RoomID)
	if err != nil {
		c.enqueue(encode(MsgError, ErrorPayload{Message: err.Error(), Code: session.Code(err), RoomID: p.RoomID}))
		return
	}

	token := h.coord.Registry().Subscribe(p.RoomID, func(u domain.GameUpdate) {
		c.enqueue(encode(MsgGameUpdate, u))
	})
	if prev, had := c.rememberSub(p.RoomID, token); had {
		h.coord.Registry().Unsubscribe(p.RoomID, prev)
	}

	// the snapshot is the authoritative state; reconnecting clients resume
	// from it rather than replaying missed updates
	c.enqueue(encode(MsgSnapshot, SnapshotPayload{Room: room}))
}

func (h *Hub) unsubscribe(c *Client, data json.RawMessage) {
	var p RoomRefPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.enqueue(encode(MsgError, ErrorPayload{Message: "room_id required", Code: "bad_request"}))
		return
	}
	if token, ok := c.forgetSub(p.RoomID); ok {
		h.coord.Registry().Unsubscribe(p.RoomID, token)
	}
}

func (h *Hub) choose(c *Client, data json.RawMessage) {
	var p ChoosePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.enqueue(encode(MsgError, ErrorPayload{Message: "room_id and choice required", Code: "bad_request"}))
		return
	}
	if err := h.coord.SetChoice(p.RoomID, c.Wallet, domain.CoinSide(p.Choice)); err != nil {
		c.enqueue(encode(MsgError, ErrorPayload{Message: err.Error(), Code: session.Code(err), RoomID: p.RoomID}))
	}
}

func (h *Hub) createRoom(c *Client, data json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.enqueue(encode(MsgCreateRoomResult, OpResult{Error: "malformed payload", Code: "bad_request"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	room, err := h.coord.CreateRoom(ctx, domain.GameType(p.GameType), p.BetAmount, domain.Currency(p.Currency), c.Wallet, p.DisplayName, p.EscrowTxID)
	c.enqueue(encode(MsgCreateRoomResult, opResult(room, err)))
}

func (h *Hub) joinRoom(c *Client, data json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.enqueue(encode(MsgJoinRoomResult, OpResult{Error: "room_id required", Code: "bad_request"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	room, err := h.coord.JoinRoom(ctx, p.RoomID, c.Wallet, p.DisplayName, p.EscrowTxID)
	c.enqueue(encode(MsgJoinRoomResult, opResult(room, err)))
}

func (h *Hub) quickMatch(c *Client, data json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.enqueue(encode(MsgJoinRoomResult, OpResult{Error: "malformed payload", Code: "bad_request"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	room, err := h.coord.QuickMatch(ctx, domain.GameType(p.GameType), p.BetAmount, domain.Currency(p.Currency), c.Wallet, p.DisplayName, p.EscrowTxID)
	c.enqueue(encode(MsgJoinRoomResult, opResult(room, err)))
}

// placeBet is fire-and-forget: success arrives to subscribers as the
// bet_placed broadcast, only failures come back directly.
func (h *Hub) placeBet(c *Client, data json.RawMessage) {
	var p PlaceBetPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		c.enqueue(encode(MsgError, ErrorPayload{Message: "room_id required", Code: "bad_request"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	if _, err := h.coord.PlaceBet(ctx, p.RoomID, p.Amount, c.Wallet, p.EscrowTxID); err != nil {
		c.enqueue(encode(MsgError, ErrorPayload{Message: err.Error(), Code: session.Code(err), RoomID: p.RoomID}))
	}
}

func (h *Hub) reconcile(c *Client, data json.RawMessage) {
	var p ReconcilePayload
	if err := json.Unmarshal(data, &p); err != nil || p.EscrowTxID == "" {
		c.enqueue(encode(MsgReconcileResult, OpResult{Error: "escrow_tx_id required", Code: "bad_request"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	room, err := h.coord.Reconcile(ctx, p.EscrowTxID)
	c.enqueue(encode(MsgReconcileResult, opResult(room, err)))
}

func opResult(room *domain.GameRoom, err error) OpResult {
	if err != nil {
		return OpResult{Error: err.Error(), Code: session.Code(err)}
	}
	return OpResult{Success: true, Room: room}
}
