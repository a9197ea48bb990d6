package entity

import (
	"math/rand"
	"time"

	"github.com/codeduelhq/codeduel-backend/internal/apperror"
)

const (
	PhaseLobby    = "lobby"
	PhaseActive   = "active"
	PhaseFinished = "finished"
)

const (
	MaxPlayers        = 2
	DefaultCodeLength = 3
)

// Room is one duel session: two players commit secret digit codes and take
// turns guessing the opponent's code. The phase only ever moves forward,
// lobby -> active -> finished.
type Room struct {
	ID         string    `json:"id"`
	CodeLength int       `json:"code_length"`
	Players    []*Player `json:"players,omitempty"`
	Phase      string    `json:"phase"`
	Turn       string    `json:"turn,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	Guesses    int       `json:"guesses"`
	StartedAt  time.Time `json:"started_at,omitempty"`
}

func NewRoom(id string, codeLength int) *Room {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}

	return &Room{
		ID:         id,
		CodeLength: codeLength,
		Phase:      PhaseLobby,
	}
}

func (that *Room) IsLobby() bool {
	return that.Phase == PhaseLobby
}

func (that *Room) IsActive() bool {
	return that.Phase == PhaseActive
}

func (that *Room) IsFinished() bool {
	return that.Phase == PhaseFinished
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Room) OpponentOf(id string) *Player {
	for _, player := range that.Players {
		if player.ID != id {
			return player
		}
	}

	return nil
}

func (that *Room) AddPlayer(player *Player) error {
	if len(that.Players) >= MaxPlayers {
		return apperror.ErrRoomFull
	}

	that.Players = append(that.Players, player)

	return nil
}

// RemovePlayer removes the participant and returns it, or nil if the id is
// not a member. Removing the turn holder leaves Turn pointing at a gone id;
// every action re-resolves the id against Players, so such a turn can never
// be acted on.
func (that *Room) RemovePlayer(id string) *Player {
	for i, player := range that.Players {
		if player.ID == id {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return player
		}
	}

	return nil
}

func (that *Room) AllReady() bool {
	if len(that.Players) < MaxPlayers {
		return false
	}

	for _, player := range that.Players {
		if !player.Ready {
			return false
		}
	}

	return true
}

// ValidCode reports whether s is exactly CodeLength digit characters.
func (that *Room) ValidCode(s string) bool {
	if len(s) != that.CodeLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// CommitSecret stores the participant's secret and marks it ready.
func (that *Room) CommitSecret(playerID, secret string) error {
	player := that.PlayerByID(playerID)
	if player == nil {
		return apperror.ErrUnknownParticipant
	}

	if !that.ValidCode(secret) {
		return apperror.ErrInvalidCode
	}

	player.Secret = secret
	player.Ready = true

	return nil
}

// Start transitions the room to the active phase and picks the first turn
// with an unbiased coin flip. Call only once both players are ready.
func (that *Room) Start() {
	that.Phase = PhaseActive
	that.StartedAt = time.Now()

	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		that.Turn = that.Players[0].ID
	} else {
		that.Turn = that.Players[1].ID
	}
}

// ApplyGuess validates and scores a guess from playerID against the
// opponent's secret. A full match finishes the game and records the winner;
// otherwise the turn passes to the opponent.
func (that *Room) ApplyGuess(playerID, value string) (int, error) {
	if !that.IsActive() {
		return 0, apperror.ErrRoomNotActive
	}

	if that.PlayerByID(playerID) == nil {
		return 0, apperror.ErrUnknownParticipant
	}

	if that.Turn != playerID {
		return 0, apperror.ErrNotYourTurn
	}

	if !that.ValidCode(value) {
		return 0, apperror.ErrInvalidCode
	}

	opponent := that.OpponentOf(playerID)
	if opponent == nil {
		return 0, apperror.ErrRoomNotActive
	}

	correct := exactMatches(value, opponent.Secret)
	that.Guesses++

	if correct == that.CodeLength {
		that.Winner = playerID
		that.Phase = PhaseFinished
		that.Turn = ""
		return correct, nil
	}

	that.Turn = opponent.ID

	return correct, nil
}

// SkipTurn passes the turn to the opponent without a guess.
func (that *Room) SkipTurn(playerID string) error {
	if !that.IsActive() {
		return apperror.ErrRoomNotActive
	}

	if that.PlayerByID(playerID) == nil {
		return apperror.ErrUnknownParticipant
	}

	if that.Turn != playerID {
		return apperror.ErrNotYourTurn
	}

	that.Turn = that.OpponentOf(playerID).ID

	return nil
}

// ExpireTurn forfeits the current turn after a timeout. It reports the
// expired and the newly active participant, or ok=false when the room is no
// longer in a state where a forfeit makes sense.
func (that *Room) ExpireTurn() (expiredID, nextID string, ok bool) {
	if !that.IsActive() || len(that.Players) < MaxPlayers {
		return "", "", false
	}

	opponent := that.OpponentOf(that.Turn)
	if opponent == nil {
		return "", "", false
	}

	expiredID = that.Turn
	that.Turn = opponent.ID

	return expiredID, opponent.ID, true
}

// exactMatches counts positions where the guess digit equals the secret digit.
// Right-digit-wrong-position earns nothing.
func exactMatches(guess, secret string) int {
	correct := 0
	for i := 0; i < len(guess) && i < len(secret); i++ {
		if guess[i] == secret[i] {
			correct++
		}
	}

	return correct
}
