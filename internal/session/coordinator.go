package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"kol_arena/internal/domain"
	"kol_arena/internal/escrow"
	"kol_arena/internal/logger"
	"kol_arena/internal/metrics"
	"kol_arena/internal/signer"
	"kol_arena/internal/solana"
)

// ChainReader re-reads executed transactions so the coordinator can verify a
// confirmed wager actually funded the escrow account.
type ChainReader interface {
	GetTransaction(ctx context.Context, signature string) (*solana.TransactionDetail, error)
}

// HistorySink records finished games. External collaborator: failures are
// logged and never touch room state.
type HistorySink interface {
	Record(ctx context.Context, h *domain.GameHistory) error
}

// Config tunes the coordinator. Zero values fall back to the defaults below.
type Config struct {
	MinBet            int64
	MaxBet            int64
	PlatformFeePct    int64         // share of the pot kept by the platform
	JackpotCountdown  time.Duration // pooled-game timer from second join to resolution
	CountdownTick     time.Duration // granularity of the countdown broadcast
	ResolveDelay      time.Duration // head-to-head pause between start and resolution
	FinishedRetention time.Duration // how long a finished room stays readable
}

func (c *Config) withDefaults() {
	if c.PlatformFeePct == 0 {
		c.PlatformFeePct = 20
	}
	if c.JackpotCountdown <= 0 {
		c.JackpotCountdown = 30 * time.Second
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = time.Second
	}
	if c.ResolveDelay <= 0 {
		c.ResolveDelay = 3 * time.Second
	}
	if c.FinishedRetention <= 0 {
		c.FinishedRetention = 30 * time.Second
	}
}

type intentOp string

const (
	opCreate intentOp = "create_room"
	opJoin   intentOp = "join_room"
	opBet    intentOp = "place_bet"
)

// wagerIntent is the journal entry recorded before the blocking confirmation
// wait. If the client drops mid-confirm, Reconcile can still settle the
// wager from this record instead of guessing.
type wagerIntent struct {
	op          intentOp
	txID        string
	roomID      string
	wallet      string
	displayName string
	amount      int64
	currency    domain.Currency
	gameType    domain.GameType
	choice      domain.CoinSide
	state       domain.ConfirmationState
	createdAt   time.Time
}

type appliedWager struct {
	roomID string
	wallet string
}

// Coordinator orchestrates room creation, joining, betting and resolution.
// Escrow confirmation is always sequenced before any store mutation; all
// blocking chain calls happen outside room locks.
type Coordinator struct {
	store    Store
	registry *Registry
	builder  *escrow.Builder
	gateway  signer.Gateway
	chain    ChainReader
	history  HistorySink
	cfg      Config

	mu       sync.Mutex
	pending  map[string]*wagerIntent
	applying map[string]struct{} // tx ids mid-apply, claimed under mu
	applied  map[string]appliedWager
}

func NewCoordinator(store Store, registry *Registry, builder *escrow.Builder, gateway signer.Gateway, chain ChainReader, cfg Config) *Coordinator {
	cfg.withDefaults()
	return &Coordinator{
		store:    store,
		registry: registry,
		builder:  builder,
		gateway:  gateway,
		chain:    chain,
		cfg:      cfg,
		pending:  make(map[string]*wagerIntent),
		applying: make(map[string]struct{}),
		applied:  make(map[string]appliedWager),
	}
}

// SetHistorySink wires the optional finished-game recorder.
func (c *Coordinator) SetHistorySink(sink HistorySink) {
	c.history = sink
}

// Registry exposes the subscription registry for transports.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Snapshot returns the authoritative current state of a room. Reconnecting
// clients call this instead of replaying missed events.
func (c *Coordinator) Snapshot(roomID string) (*domain.GameRoom, error) {
	room, ok := c.store.Snapshot(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ActiveRooms lists rooms still waiting for players, newest first.
func (c *Coordinator) ActiveRooms() []*domain.GameRoom {
	return c.store.Active()
}

// CreateRoom funds the creator's wager, and only once the escrow transfer is
// confirmed creates the room in waiting state with the creator as its sole
// player. On any escrow failure no room exists at all.
func (c *Coordinator) CreateRoom(ctx context.Context, gameType domain.GameType, betAmount int64, currency domain.Currency, wallet, displayName, escrowTxID string) (*domain.GameRoom, error) {
	if !gameType.Valid() {
		return nil, fmt.Errorf("%w: unknown game type %q", ErrBadGameType, gameType)
	}
	if err := c.validateBet(betAmount, currency); err != nil {
		return nil, err
	}

	intent := &wagerIntent{
		op:          opCreate,
		roomID:      ulid.Make().String(),
		wallet:      wallet,
		displayName: displayName,
		amount:      betAmount,
		currency:    currency,
		gameType:    gameType,
		createdAt:   time.Now(),
	}
	return c.fundAndApply(ctx, intent, escrowTxID)
}

// JoinRoom seats a wallet in a waiting room for the room's fixed bet amount.
// The seat appears only after the escrow transfer for exactly that amount is
// confirmed - no free entries.
func (c *Coordinator) JoinRoom(ctx context.Context, roomID, wallet, displayName, escrowTxID string) (*domain.GameRoom, error) {
	room, ok := c.store.Snapshot(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := joinable(room, wallet); err != nil {
		return nil, err
	}

	intent := &wagerIntent{
		op:          opJoin,
		roomID:      roomID,
		wallet:      wallet,
		displayName: displayName,
		amount:      room.BetAmount,
		currency:    room.Currency,
		gameType:    room.GameType,
		createdAt:   time.Now(),
	}
	return c.fundAndApply(ctx, intent, escrowTxID)
}

// PlaceBet accumulates additional stake into a pooled game's pot. The wallet
// must already hold a funded seat.
func (c *Coordinator) PlaceBet(ctx context.Context, roomID string, amount int64, wallet, escrowTxID string) (*domain.GameRoom, error) {
	room, ok := c.store.Snapshot(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Status == domain.StatusFinished {
		return nil, ErrRoomClosed
	}
	if !room.GameType.Pooled() {
		return nil, ErrNotPooled
	}
	if room.FindPlayer(wallet) == nil {
		return nil, ErrNotInRoom
	}
	if err := c.validateBet(amount, room.Currency); err != nil {
		return nil, err
	}

	intent := &wagerIntent{
		op:        opBet,
		roomID:    roomID,
		wallet:    wallet,
		amount:    amount,
		currency:  room.Currency,
		gameType:  room.GameType,
		createdAt: time.Now(),
	}
	return c.fundAndApply(ctx, intent, escrowTxID)
}

// QuickMatch joins the oldest waiting room of the given type with a matching
// wager, or creates a fresh one.
func (c *Coordinator) QuickMatch(ctx context.Context, gameType domain.GameType, betAmount int64, currency domain.Currency, wallet, displayName, escrowTxID string) (*domain.GameRoom, error) {
	active := c.store.Active()
	for i := len(active) - 1; i >= 0; i-- { // Active is newest first; match oldest
		room := active[i]
		if room.GameType != gameType || room.BetAmount != betAmount || room.Currency != currency {
			continue
		}
		if joinable(room, wallet) != nil {
			continue
		}
		joined, err := c.JoinRoom(ctx, room.ID, wallet, displayName, escrowTxID)
		if err == nil {
			return joined, nil
		}
		// lost the seat race; fall through and open a new room
		if !errors.Is(err, ErrRoomFull) && !errors.Is(err, ErrRoomNotJoinable) && !errors.Is(err, ErrRoomNotFound) {
			return nil, err
		}
	}
	return c.CreateRoom(ctx, gameType, betAmount, currency, wallet, displayName, escrowTxID)
}

// SetChoice records a coinflip player's heads/tails pick. Cosmetic to the
// draw itself; rejected once the room is finished.
func (c *Coordinator) SetChoice(roomID, wallet string, choice domain.CoinSide) error {
	if choice != domain.SideHeads && choice != domain.SideTails {
		return fmt.Errorf("%w: choice must be heads or tails", ErrBadChoice)
	}
	return c.store.Update(roomID, func(room *domain.GameRoom) error {
		if room.Status == domain.StatusFinished {
			return ErrRoomClosed
		}
		p := room.FindPlayer(wallet)
		if p == nil {
			return ErrNotInRoom
		}
		p.Choice = choice
		return nil
	})
}

func (c *Coordinator) validateBet(amount int64, currency domain.Currency) error {
	if amount <= 0 {
		return escrow.ErrInvalidAmount
	}
	if !currency.Valid() {
		return fmt.Errorf("%w: %s", escrow.ErrUnsupportedCurrency, currency)
	}
	if (c.cfg.MinBet > 0 && amount < c.cfg.MinBet) || (c.cfg.MaxBet > 0 && amount > c.cfg.MaxBet) {
		return fmt.Errorf("%w: %d", ErrBetOutOfRange, amount)
	}
	return nil
}

func joinable(room *domain.GameRoom, wallet string) error {
	if room.Status == domain.StatusFinished {
		return ErrRoomClosed
	}
	if room.Full() {
		return ErrRoomFull
	}
	if room.Status != domain.StatusWaiting {
		return ErrRoomNotJoinable
	}
	if room.FindPlayer(wallet) != nil {
		return ErrAlreadySeated
	}
	return nil
}

// fundAndApply runs the escrow-before-mutation sequence: dedup the tx id,
// sign if the caller did not, record the intent, await confirmation, verify
// the transfer on chain, then apply the room mutation.
func (c *Coordinator) fundAndApply(ctx context.Context, intent *wagerIntent, escrowTxID string) (*domain.GameRoom, error) {
	c.mu.Lock()
	if escrowTxID != "" {
		if ap, ok := c.applied[escrowTxID]; ok {
			c.mu.Unlock()
			if ap.wallet == intent.wallet {
				// idempotent retry: the wager was already applied once
				room, found := c.store.Snapshot(ap.roomID)
				if found {
					return room, nil
				}
			}
			return nil, ErrTxAlreadyUsed
		}
		if _, inFlight := c.pending[escrowTxID]; inFlight {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: wager still in flight", ErrReconcileRequired)
		}
		// register in the same critical section as the dedup check so
		// concurrent duplicates of one tx id cannot both pass it
		intent.txID = escrowTxID
		intent.state = domain.EscrowPending
		c.pending[escrowTxID] = intent
	}
	c.mu.Unlock()

	txID := escrowTxID
	if txID == "" {
		unsigned, err := c.builder.Build(ctx, intent.wallet, intent.amount, intent.currency)
		if err != nil {
			metrics.EscrowFailures.WithLabelValues("build").Inc()
			return nil, err
		}
		txID, err = c.gateway.SignAndSend(ctx, unsigned)
		if err != nil {
			metrics.EscrowFailures.WithLabelValues("sign").Inc()
			return nil, err
		}
		intent.txID = txID
		intent.state = domain.EscrowPending
		c.mu.Lock()
		c.pending[txID] = intent
		c.mu.Unlock()
	}

	if err := c.gateway.Confirm(ctx, txID); err != nil {
		if errors.Is(err, signer.ErrConfirmTimeout) || ctx.Err() != nil {
			// The transfer may still land later. Keep the intent so
			// Reconcile can settle it; never report failure as fact.
			return nil, fmt.Errorf("%w: %v", ErrReconcileRequired, err)
		}
		c.failIntent(intent)
		metrics.EscrowFailures.WithLabelValues("confirm").Inc()
		return nil, err
	}

	if err := c.verifyTransfer(ctx, intent); err != nil {
		if errors.Is(err, solana.ErrNotFound) {
			// confirmed a moment ago but the node has not indexed it yet
			return nil, fmt.Errorf("%w: %v", ErrReconcileRequired, err)
		}
		c.failIntent(intent)
		metrics.EscrowFailures.WithLabelValues("verify").Inc()
		return nil, err
	}
	intent.state = domain.EscrowConfirmed

	return c.applyIntent(intent)
}

func (c *Coordinator) verifyTransfer(ctx context.Context, intent *wagerIntent) error {
	if c.chain == nil {
		return nil
	}
	tx, err := c.chain.GetTransaction(ctx, intent.txID)
	if err != nil {
		return err
	}
	mint := ""
	if intent.currency == domain.CurrencyUSDT {
		mint = solana.USDTMint
	}
	return solana.VerifyTransfer(tx, intent.wallet, c.builder.EscrowAccount(), intent.amount, mint)
}

// failIntent marks the journal entry failed and discards it. The tx id is
// free for nothing: a failed transfer never funds a seat.
func (c *Coordinator) failIntent(intent *wagerIntent) {
	intent.state = domain.EscrowFailed
	c.mu.Lock()
	delete(c.pending, intent.txID)
	c.mu.Unlock()
}

// applyIntent mutates the store for a confirmed wager. The tx id is claimed
// under the coordinator lock first, so a Reconcile racing the original call
// can never apply the same intent twice; the room entry lock then serializes
// the mutation against every other writer of the same room.
func (c *Coordinator) applyIntent(intent *wagerIntent) (*domain.GameRoom, error) {
	c.mu.Lock()
	if ap, ok := c.applied[intent.txID]; ok {
		c.mu.Unlock()
		if ap.wallet == intent.wallet {
			if room, found := c.store.Snapshot(ap.roomID); found {
				return room, nil
			}
		}
		return nil, ErrTxAlreadyUsed
	}
	if _, busy := c.applying[intent.txID]; busy {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: wager still in flight", ErrReconcileRequired)
	}
	c.applying[intent.txID] = struct{}{}
	c.mu.Unlock()

	var (
		room *domain.GameRoom
		err  error
	)
	switch intent.op {
	case opCreate:
		room, err = c.applyCreate(intent)
	case opJoin:
		room, err = c.applyJoin(intent)
	case opBet:
		room, err = c.applyBet(intent)
	default:
		err = fmt.Errorf("unknown wager intent %q", intent.op)
	}

	c.mu.Lock()
	delete(c.applying, intent.txID)
	delete(c.pending, intent.txID)
	if err == nil {
		c.applied[intent.txID] = appliedWager{roomID: intent.roomID, wallet: intent.wallet}
	}
	c.mu.Unlock()

	if err != nil {
		// Escrow confirmed but the seat is gone (lost race, closed room).
		// The store stays untouched; the client reclaims the wager
		// out-of-band.
		logger.Warn("confirmed wager not applied",
			"op", string(intent.op), "room_id", intent.roomID, "tx", intent.txID, "error", err)
		return nil, err
	}

	metrics.WagersConfirmed.WithLabelValues(string(intent.gameType)).Inc()
	return room, nil
}

func (c *Coordinator) applyCreate(intent *wagerIntent) (*domain.GameRoom, error) {
	room := &domain.GameRoom{
		ID:       intent.roomID,
		GameType: intent.gameType,
		Players: []domain.Player{{
			ID:          intent.wallet,
			DisplayName: intent.displayName,
			BetAmount:   intent.amount,
			EscrowTxID:  intent.txID,
		}},
		Status:    domain.StatusWaiting,
		BetAmount: intent.amount,
		Currency:  intent.currency,
		Pot:       intent.amount,
		CreatedAt: time.Now(),
	}
	if err := c.store.Insert(room); err != nil {
		return nil, err
	}
	metrics.RoomsActive.Set(float64(c.store.Len()))
	logger.Info("room created",
		"room_id", room.ID, "game_type", string(room.GameType),
		"bet", room.BetAmount, "currency", string(room.Currency), "wallet", intent.wallet)
	return room.Clone(), nil
}

func (c *Coordinator) applyJoin(intent *wagerIntent) (*domain.GameRoom, error) {
	var (
		snapshot  *domain.GameRoom
		started   bool
		countdown bool
	)
	err := c.store.Update(intent.roomID, func(room *domain.GameRoom) error {
		if err := joinable(room, intent.wallet); err != nil {
			return err
		}
		room.Players = append(room.Players, domain.Player{
			ID:          intent.wallet,
			DisplayName: intent.displayName,
			BetAmount:   intent.amount,
			EscrowTxID:  intent.txID,
		})
		room.Pot += intent.amount

		if room.GameType.Pooled() {
			// pooled games run on a countdown from the second seat and
			// stay joinable until it expires
			countdown = len(room.Players) == 2
			if room.Full() {
				room.Status = domain.StatusPlaying
				started = true
			}
		} else if room.Full() {
			room.Status = domain.StatusPlaying
			started = true
		}
		snapshot = room.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.registry.Publish(domain.GameUpdate{
		Type:   domain.UpdatePlayerJoined,
		RoomID: intent.roomID,
		Data: map[string]any{
			"player":  snapshot.FindPlayer(intent.wallet),
			"players": len(snapshot.Players),
			"pot":     snapshot.Pot,
		},
	})
	logger.Info("player joined",
		"room_id", intent.roomID, "wallet", intent.wallet, "players", len(snapshot.Players))

	if started {
		c.publishStarted(snapshot)
		c.scheduleResolve(intent.roomID, c.cfg.ResolveDelay)
	} else if countdown {
		go c.runCountdown(intent.roomID)
	}
	return snapshot, nil
}

func (c *Coordinator) applyBet(intent *wagerIntent) (*domain.GameRoom, error) {
	var snapshot *domain.GameRoom
	err := c.store.Update(intent.roomID, func(room *domain.GameRoom) error {
		if room.Status == domain.StatusFinished {
			return ErrRoomClosed
		}
		p := room.FindPlayer(intent.wallet)
		if p == nil {
			return ErrNotInRoom
		}
		p.BetAmount += intent.amount
		room.Pot += intent.amount
		snapshot = room.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.registry.Publish(domain.GameUpdate{
		Type:   domain.UpdateBetPlaced,
		RoomID: intent.roomID,
		Data: map[string]any{
			"wallet": intent.wallet,
			"amount": intent.amount,
			"pot":    snapshot.Pot,
		},
	})
	return snapshot, nil
}

func (c *Coordinator) publishStarted(room *domain.GameRoom) {
	c.registry.Publish(domain.GameUpdate{
		Type:   domain.UpdateGameStarted,
		RoomID: room.ID,
		Data: map[string]any{
			"players": len(room.Players),
			"pot":     room.Pot,
		},
	})
}

func (c *Coordinator) scheduleResolve(roomID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := c.Resolve(roomID); err != nil && !errors.Is(err, ErrRoomNotFound) {
			logger.Error("resolve failed", "room_id", roomID, "error", err)
		}
	})
}

// runCountdown drives a pooled room from its second seat to resolution,
// broadcasting timer_update once per tick. If the pot still has fewer than
// two players when the timer expires the countdown starts over.
func (c *Coordinator) runCountdown(roomID string) {
	remaining := int(c.cfg.JackpotCountdown / c.cfg.CountdownTick)
	if remaining < 1 {
		remaining = 1
	}
	ticker := time.NewTicker(c.cfg.CountdownTick)
	defer ticker.Stop()

	for remaining > 0 {
		c.registry.Publish(domain.GameUpdate{
			Type:   domain.UpdateTimer,
			RoomID: roomID,
			Data:   map[string]any{"remaining_seconds": remaining},
		})
		<-ticker.C
		remaining--

		room, ok := c.store.Snapshot(roomID)
		if !ok || room.Status != domain.StatusWaiting {
			return // gone, or already started by reaching capacity
		}
	}

	var eligible bool
	err := c.store.Update(roomID, func(room *domain.GameRoom) error {
		if room.Status != domain.StatusWaiting {
			return nil
		}
		if len(room.Players) < 2 {
			return nil
		}
		room.Status = domain.StatusPlaying
		eligible = true
		return nil
	})
	if err != nil {
		return
	}
	if !eligible {
		go c.runCountdown(roomID) // lone player keeps waiting
		return
	}

	if room, ok := c.store.Snapshot(roomID); ok {
		c.publishStarted(room)
	}
	if err := c.Resolve(roomID); err != nil {
		logger.Error("countdown resolve failed", "room_id", roomID, "error", err)
	}
}

// Resolve draws the winner and closes the room. 50/50 for head-to-head
// games, stake-weighted for pooled pots. Finished is terminal: nothing
// mutates the room afterwards, and the entry is swept after the retention
// window.
func (c *Coordinator) Resolve(roomID string) error {
	var snapshot *domain.GameRoom
	err := c.store.Update(roomID, func(room *domain.GameRoom) error {
		if room.Status != domain.StatusPlaying {
			return nil // already finished, or not yet startable
		}

		idx := pickWinner(room.Players, room.GameType.Pooled())
		room.Players[idx].IsWinner = true
		winner := room.Players[idx]
		room.Winner = &winner
		room.Payout = room.Pot - room.Pot*c.cfg.PlatformFeePct/100
		room.Status = domain.StatusFinished
		now := time.Now()
		room.FinishedAt = &now

		snapshot = room.Clone()
		return nil
	})
	if err != nil || snapshot == nil {
		return err
	}

	c.registry.Publish(domain.GameUpdate{
		Type:   domain.UpdateGameFinished,
		RoomID: roomID,
		Data: map[string]any{
			"winner": snapshot.Winner,
			"payout": snapshot.Payout,
			"pot":    snapshot.Pot,
		},
	})
	metrics.GamesResolved.WithLabelValues(string(snapshot.GameType)).Inc()
	logger.Info("game finished",
		"room_id", roomID, "game_type", string(snapshot.GameType),
		"winner", snapshot.Winner.ID, "pot", snapshot.Pot, "payout", snapshot.Payout)

	c.recordHistory(snapshot)

	time.AfterFunc(c.cfg.FinishedRetention, func() {
		c.store.Delete(roomID)
		c.registry.DropRoom(roomID)
		metrics.RoomsActive.Set(float64(c.store.Len()))
	})
	return nil
}

// pickWinner draws one seat index: uniform for head-to-head games,
// stake-proportional for pooled pots.
func pickWinner(players []domain.Player, pooled bool) int {
	if !pooled {
		return rand.IntN(len(players))
	}

	var total int64
	for _, p := range players {
		total += p.BetAmount
	}
	if total <= 0 {
		return rand.IntN(len(players))
	}

	draw := rand.Int64N(total)
	var cum int64
	for i, p := range players {
		cum += p.BetAmount
		if draw < cum {
			return i
		}
	}
	return len(players) - 1
}

func (c *Coordinator) recordHistory(room *domain.GameRoom) {
	if c.history == nil {
		return
	}
	for _, p := range room.Players {
		outcome := domain.OutcomeLose
		win := int64(0)
		if p.IsWinner {
			outcome = domain.OutcomeWin
			win = room.Payout
		}
		record := &domain.GameHistory{
			Wallet:     p.ID,
			GameType:   room.GameType,
			RoomID:     room.ID,
			Result:     outcome,
			BetAmount:  p.BetAmount,
			WinAmount:  win,
			Currency:   room.Currency,
			EscrowTxID: p.EscrowTxID,
			Details:    map[string]any{"pot": room.Pot, "players": len(room.Players)},
		}
		go func(h *domain.GameHistory) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.history.Record(ctx, h); err != nil {
				logger.Error("history record failed", "room_id", h.RoomID, "wallet", h.Wallet, "error", err)
			}
		}(record)
	}
}

// Reconcile settles a wager whose confirmation outcome was lost, typically
// because the client disconnected mid-confirm. It re-queries chain state and
// either applies the recorded intent or discards it - it never guesses.
func (c *Coordinator) Reconcile(ctx context.Context, txID string) (*domain.GameRoom, error) {
	c.mu.Lock()
	intent, isPending := c.pending[txID]
	if !isPending {
		if ap, ok := c.applied[txID]; ok {
			c.mu.Unlock()
			room, found := c.store.Snapshot(ap.roomID)
			if !found {
				return nil, ErrRoomNotFound
			}
			return room, nil
		}
		c.mu.Unlock()
		return nil, ErrTxUnknown
	}
	c.mu.Unlock()

	if err := c.gateway.Confirm(ctx, txID); err != nil {
		if errors.Is(err, signer.ErrConfirmTimeout) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrReconcileRequired, err)
		}
		c.failIntent(intent)
		metrics.EscrowFailures.WithLabelValues("reconcile").Inc()
		return nil, err
	}
	if err := c.verifyTransfer(ctx, intent); err != nil {
		if errors.Is(err, solana.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrReconcileRequired, err)
		}
		c.failIntent(intent)
		metrics.EscrowFailures.WithLabelValues("reconcile").Inc()
		return nil, err
	}
	intent.state = domain.EscrowConfirmed

	return c.applyIntent(intent)
}

// PendingWagers reports in-flight wager tx ids. Used by the readiness probe
// and by operators chasing stuck confirmations.
func (c *Coordinator) PendingWagers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	return ids
}
