package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"kol_arena/internal/service"
	"kol_arena/internal/ws"
)

// Smoke tool for a dev server running without chain verification: two
// wallets create and join a coinflip room and watch it resolve.
func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}
	service.InitJWT()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	walletA := "SmokeWalletA11111111111111111111111111111111"
	walletB := "SmokeWalletB22222222222222222222222222222222"

	tokenA, err := service.GenerateJWT(walletA)
	if err != nil {
		log.Fatalf("gen token A: %v", err)
	}
	tokenB, err := service.GenerateJWT(walletB)
	if err != nil {
		log.Fatalf("gen token B: %v", err)
	}

	dialer := websocket.DefaultDialer

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	connA, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenA), nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenB), nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	send(connA, ws.MsgCreateRoom, ws.CreateRoomPayload{
		GameType:   "coinflip",
		BetAmount:  10_000_000,
		Currency:   "SOL",
		EscrowTxID: fmt.Sprintf("smoke-create-%d", time.Now().UnixNano()),
	})

	created := awaitResult(connA, ws.MsgCreateRoomResult)
	if !created.Success {
		log.Fatalf("create failed: %s (%s)", created.Error, created.Code)
	}
	roomID := created.Room.ID
	log.Printf("room created: %s", roomID)

	send(connA, ws.MsgSubscribe, ws.RoomRefPayload{RoomID: roomID})
	awaitType(connA, ws.MsgSnapshot)
	log.Printf("subscribed, snapshot received")

	send(connB, ws.MsgJoinRoom, ws.JoinRoomPayload{
		RoomID:     roomID,
		EscrowTxID: fmt.Sprintf("smoke-join-%d", time.Now().UnixNano()),
	})
	joined := awaitResult(connB, ws.MsgJoinRoomResult)
	if !joined.Success {
		log.Fatalf("join failed: %s (%s)", joined.Error, joined.Code)
	}
	log.Printf("joined, room status: %s", joined.Room.Status)

	// wait for the resolution broadcast
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		env := awaitType(connA, ws.MsgGameUpdate)
		var update struct {
			Type string `json:"type"`
			Data struct {
				Winner *struct {
					ID string `json:"id"`
				} `json:"winner"`
				Payout int64 `json:"payout"`
			} `json:"data"`
		}
		if err := json.Unmarshal(env, &update); err != nil {
			continue
		}
		log.Printf("update: %s", update.Type)
		if update.Type == "game_finished" {
			log.Printf("SMOKE OK: winner=%s payout=%d", update.Data.Winner.ID, update.Data.Payout)
			return
		}
	}
	log.Fatal("no game_finished update before deadline")
}

func send(conn *websocket.Conn, msgType string, payload any) {
	raw, _ := json.Marshal(payload)
	if err := conn.WriteJSON(ws.Envelope{Type: msgType, Data: raw}); err != nil {
		log.Fatalf("write %s: %v", msgType, err)
	}
}

func awaitType(conn *websocket.Conn, msgType string) json.RawMessage {
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	for {
		var env ws.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			log.Fatalf("waiting for %s: %v", msgType, err)
		}
		if env.Type == msgType {
			return env.Data
		}
	}
}

func awaitResult(conn *websocket.Conn, msgType string) ws.OpResult {
	var res ws.OpResult
	if err := json.Unmarshal(awaitType(conn, msgType), &res); err != nil {
		log.Fatalf("decode %s: %v", msgType, err)
	}
	return res
}
