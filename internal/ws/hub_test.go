package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"kol_arena/internal/domain"
	"kol_arena/internal/escrow"
	"kol_arena/internal/session"
	"kol_arena/internal/signer"
)

type devGateway struct{}

func (devGateway) SignAndSend(context.Context, *escrow.UnsignedTransaction) (string, error) {
	return "", signer.ErrSignerUnavailable
}

func (devGateway) Confirm(context.Context, string) error { return nil }

type staticBlockhash struct{}

func (staticBlockhash) GetLatestBlockhash(context.Context) (string, error) {
	return "Blockhash11111111111111111111111111111111111", nil
}

func newTestServer(t *testing.T) (*httptest.Server, *session.Coordinator) {
	t.Helper()

	coord := session.NewCoordinator(
		session.NewMemoryStore(),
		session.NewRegistry(),
		escrow.NewBuilder(staticBlockhash{}, "Escrow111111111111111111111111111111111111"),
		devGateway{},
		nil, // no chain reader: confirmation is the only gate here
		session.Config{ResolveDelay: time.Hour, JackpotCountdown: time.Hour},
	)
	hub := NewHub(coord, 5*time.Second)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeClient(r.URL.Query().Get("wallet"), conn)
	}))
	t.Cleanup(srv.Close)
	return srv, coord
}

func dialWallet(t *testing.T, srv *httptest.Server, wallet string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?wallet=" + wallet
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wallet, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// awaitMessage reads frames until one of the wanted type arrives.
func awaitMessage(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if env.Type == msgType {
			return env.Data
		}
	}
	t.Fatalf("no %s message before deadline", msgType)
	return nil
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWallet(t, srv, "WalletPing")

	send(t, conn, MsgPing, struct{}{})
	awaitMessage(t, conn, MsgPong)
}

func TestCreateSubscribeJoinFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	creator := dialWallet(t, srv, "WalletCreator")
	joiner := dialWallet(t, srv, "WalletJoiner")

	send(t, creator, MsgCreateRoom, CreateRoomPayload{
		GameType:   "coinflip",
		BetAmount:  100,
		Currency:   "SOL",
		EscrowTxID: "tx-create-1",
	})
	var created OpResult
	if err := json.Unmarshal(awaitMessage(t, creator, MsgCreateRoomResult), &created); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !created.Success || created.Room == nil {
		t.Fatalf("create failed: %+v", created)
	}
	if created.Room.Status != domain.StatusWaiting {
		t.Fatalf("room status = %s, want waiting", created.Room.Status)
	}
	roomID := created.Room.ID

	// subscription answers with the authoritative snapshot
	send(t, creator, MsgSubscribe, RoomRefPayload{RoomID: roomID})
	var snap SnapshotPayload
	if err := json.Unmarshal(awaitMessage(t, creator, MsgSnapshot), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Room.ID != roomID || len(snap.Room.Players) != 1 {
		t.Fatalf("snapshot = %+v", snap.Room)
	}

	send(t, joiner, MsgJoinRoom, JoinRoomPayload{RoomID: roomID, EscrowTxID: "tx-join-1"})
	var joined OpResult
	if err := json.Unmarshal(awaitMessage(t, joiner, MsgJoinRoomResult), &joined); err != nil {
		t.Fatalf("decode join result: %v", err)
	}
	if !joined.Success || joined.Room.Status != domain.StatusPlaying {
		t.Fatalf("join result: %+v", joined)
	}

	// the subscribed creator sees the join broadcasts
	var update domain.GameUpdate
	if err := json.Unmarshal(awaitMessage(t, creator, MsgGameUpdate), &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.Type != domain.UpdatePlayerJoined || update.RoomID != roomID {
		t.Fatalf("first update = %+v", update)
	}
}

func TestListRooms(t *testing.T) {
	srv, coord := newTestServer(t)
	conn := dialWallet(t, srv, "WalletLister")

	if _, err := coord.CreateRoom(context.Background(), domain.GameTypeJackpot, 100, domain.CurrencySOL, "WalletOther", "", "tx-list-1"); err != nil {
		t.Fatalf("seed room: %v", err)
	}

	send(t, conn, MsgListRooms, struct{}{})
	var list RoomsListPayload
	if err := json.Unmarshal(awaitMessage(t, conn, MsgRoomsList), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Rooms) != 1 || list.Rooms[0].GameType != domain.GameTypeJackpot {
		t.Fatalf("rooms = %+v", list.Rooms)
	}
}

func TestErrorsCarryWireCodes(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWallet(t, srv, "WalletErr")

	send(t, conn, MsgJoinRoom, JoinRoomPayload{RoomID: "nope", EscrowTxID: "tx-err-1"})
	var res OpResult
	if err := json.Unmarshal(awaitMessage(t, conn, MsgJoinRoomResult), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Success || res.Code != "room_not_found" {
		t.Fatalf("result = %+v", res)
	}

	send(t, conn, "no_such_op", struct{}{})
	var e ErrorPayload
	if err := json.Unmarshal(awaitMessage(t, conn, MsgError), &e); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if e.Code != "bad_request" {
		t.Fatalf("error = %+v", e)
	}
}

func TestUnsubscribeStopsUpdates(t *testing.T) {
	srv, coord := newTestServer(t)
	conn := dialWallet(t, srv, "WalletWatcher")

	room, err := coord.CreateRoom(context.Background(), domain.GameTypeJackpot, 100, domain.CurrencySOL, "WalletHost", "", "tx-unsub-1")
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}

	send(t, conn, MsgSubscribe, RoomRefPayload{RoomID: room.ID})
	awaitMessage(t, conn, MsgSnapshot)
	send(t, conn, MsgUnsubscribe, RoomRefPayload{RoomID: room.ID})

	// give the unsubscribe time to land before publishing
	time.Sleep(50 * time.Millisecond)
	if _, err := coord.JoinRoom(context.Background(), room.ID, "WalletGuest", "", "tx-unsub-2"); err != nil {
		t.Fatalf("join: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var env Envelope
	for {
		if err := conn.ReadJSON(&env); err != nil {
			return // timed out with no update frame: unsubscribed
		}
		if env.Type == MsgGameUpdate {
			t.Fatal("received update after unsubscribe")
		}
	}
}
