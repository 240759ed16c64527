package ws

const (
	// client - server
	MsgCreateRoom  = "create_room"
	MsgJoinRoom    = "join_room"
	MsgPlaceBet    = "place_bet"
	MsgChoose      = "choose"
	MsgQuickMatch  = "quick_match"
	MsgReconcile   = "reconcile"
	MsgSubscribe   = "subscribe_to_game"
	MsgUnsubscribe = "unsubscribe_from_game"
	MsgListRooms   = "list_rooms"
	MsgPing        = "ping"

	// server - client
	MsgCreateRoomResult = "create_room_result"
	MsgJoinRoomResult   = "join_room_result"
	MsgReconcileResult  = "reconcile_result"
	MsgSnapshot         = "snapshot"
	MsgRoomsList        = "rooms_list"
	MsgGameUpdate       = "game_update"
	MsgError            = "error"
	MsgPong             = "pong"
)
