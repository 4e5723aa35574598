package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Client -> server event types
const (
	EventCreateRoom      = "createRoom"
	EventJoinRoom        = "joinRoom"
	EventReconnectPlayer = "reconnectPlayer"
	EventChangeCategory  = "changeCategory"
	EventJoinTeam        = "joinTeam"
	EventChangeTeamName  = "changeTeamName"
	EventLeaveRoom       = "leaveRoom"
	EventResetGame       = "resetGame"
	EventStartGame       = "startGame"
	EventPlayerAction    = "playerAction"
)

// Server -> client event types
const (
	EventConnected      = "connected"
	EventRoomListUpdate = "roomListUpdate"
	EventRoomUpdate     = "roomUpdate"
	EventGameStart      = "gameStart"
	EventError          = "error"
	// EventLeaveRoom doubles as the directive sent to a client whose room is gone.
)

type CreateRoomData struct {
	RoomName  string `json:"roomName"`
	Password  string `json:"password,omitempty"`
	UserId    string `json:"userId"`
	Username  string `json:"username"`
	TeamAName string `json:"teamAName,omitempty"`
	TeamBName string `json:"teamBName,omitempty"`
}

type JoinRoomData struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	UserId   string `json:"userId"`
}

type ReconnectPlayerData struct {
	RoomId string `json:"roomId"`
	UserId string `json:"userId"`
}

type ChangeCategoryData struct {
	RoomId   string `json:"roomId"`
	Category string `json:"category"`
}

type JoinTeamData struct {
	RoomId   string `json:"roomId"`
	TeamId   TeamID `json:"teamId"`
	UserId   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

type ChangeTeamNameData struct {
	RoomId  string `json:"roomId"`
	TeamId  TeamID `json:"teamId"`
	NewName string `json:"newName"`
}

type RoomRefData struct {
	RoomId string `json:"roomId"`
}

type StartGameData struct {
	RoomId string            `json:"roomId"`
	Words  map[string][]Card `json:"words,omitempty"`
}

type PlayerActionData struct {
	RoomId string `json:"roomId"`
	Action Action `json:"action"`
}

type ConnectedData struct {
	Id string `json:"id"`
}

type ErrorData struct {
	Message string `json:"message"`
}
