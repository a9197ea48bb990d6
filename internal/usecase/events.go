package usecase

// Outbound wire events. The names and payload keys are the client protocol;
// clients match on them verbatim, so they never change shape here.
const (
	EventRoomCreated  = "roomCreated"
	EventRoomJoined   = "roomJoined"
	EventPlayerReady  = "playerReady"
	EventGameStarted  = "gameStarted"
	EventGuessResult  = "guessResult"
	EventGameOver     = "gameOver"
	EventTurnSkipped  = "turnSkipped"
	EventTurnChanged  = "turnChanged"
	EventTurnTimeout  = "turnTimeout"
	EventOpponentLeft = "opponentLeft"
	EventError        = "errorMessage"
)

type RoomCreatedPayload struct {
	RoomID     string `json:"roomId"`
	CodeLength int    `json:"codeLength"`
}

type RosterEntry struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
}

type RoomJoinedPayload struct {
	RoomID     string        `json:"roomId"`
	CodeLength int           `json:"codeLength"`
	Players    []RosterEntry `json:"players"`
}

type PlayerReadyPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	AllReady bool   `json:"allReady"`
}

type GameStartedPayload struct {
	RoomID      string `json:"roomId"`
	CurrentTurn string `json:"currentTurn"`
}

type GuessResultPayload struct {
	From    string `json:"from"`
	Guess   string `json:"guess"`
	Correct int    `json:"correct"`
}

type GameOverPayload struct {
	Winner     string `json:"winner"`
	WinnerName string `json:"winnerName"`
	LoserID    string `json:"loserId"`
	LoserName  string `json:"loserName"`
}

type TurnSkippedPayload struct {
	From string `json:"from"`
	Next string `json:"next"`
}

type TurnChangedPayload struct {
	RoomID      string `json:"roomId"`
	CurrentTurn string `json:"currentTurn"`
}

type TurnTimeoutPayload struct {
	RoomID          string `json:"roomId"`
	ExpiredPlayerID string `json:"expiredPlayerId"`
	NextPlayerID    string `json:"nextPlayerId"`
}

type OpponentLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
