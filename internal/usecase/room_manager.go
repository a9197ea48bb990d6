package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/codeduelhq/codeduel-backend/internal/apperror"
	"github.com/codeduelhq/codeduel-backend/internal/entity"
	"github.com/codeduelhq/codeduel-backend/internal/pkg"
)

type sender interface {
	Send(playerID, action string, payload any) error
}

type matchRepo interface {
	Record(ctx context.Context, match *entity.Match) error
}

// session pairs a room with its turn timer. All reads and writes of the room
// and the timer happen under mu; player actions and timer expiries for the
// same room therefore never interleave.
type session struct {
	mu       sync.Mutex
	room     *entity.Room
	timer    *time.Timer
	timerGen uint64
}

// RoomManager is the process-wide table of live rooms. It validates every
// inbound action, mutates room state behind the per-room lock and pushes the
// resulting wire events through the sender.
type RoomManager struct {
	logger      *slog.Logger
	sender      sender
	matches     matchRepo
	turnTimeout time.Duration
	codeLength  int

	mu    sync.RWMutex
	rooms map[string]*session
}

func NewRoomManager(logger *slog.Logger, sender sender, matches matchRepo, turnTimeout time.Duration, codeLength int) *RoomManager {
	if turnTimeout <= 0 {
		turnTimeout = 15 * time.Second
	}

	if codeLength <= 0 {
		codeLength = entity.DefaultCodeLength
	}

	return &RoomManager{
		logger:      logger,
		sender:      sender,
		matches:     matches,
		turnTimeout: turnTimeout,
		codeLength:  codeLength,

		rooms: make(map[string]*session),
	}
}

// CreateRoom registers a fresh lobby with the creator as its first player
// and answers the creator with the room id.
func (that *RoomManager) CreateRoom(_ context.Context, playerID, name string, codeLength int) {
	log := that.logger.With("method", "CreateRoom")

	if codeLength <= 0 {
		codeLength = that.codeLength
	}

	that.mu.Lock()

	roomID := pkg.GenerateRoomID()
	for {
		if _, taken := that.rooms[roomID]; !taken {
			break
		}
		roomID = pkg.GenerateRoomID()
	}

	room := entity.NewRoom(roomID, codeLength)
	_ = room.AddPlayer(&entity.Player{ID: playerID, Name: name})
	that.rooms[roomID] = &session{room: room}

	that.mu.Unlock()

	that.send(playerID, EventRoomCreated, RoomCreatedPayload{RoomID: roomID, CodeLength: room.CodeLength})

	log.Info("room created", "roomID", roomID, "playerID", playerID)
}

// JoinRoom adds the player to an existing lobby and announces the updated
// roster to everyone in the room. Unknown or full rooms answer the joiner
// with an error message.
func (that *RoomManager) JoinRoom(_ context.Context, playerID, name, roomID string) {
	log := that.logger.With("method", "JoinRoom", "roomID", roomID)

	sess := that.session(roomID)
	if sess == nil {
		that.sendError(playerID, apperror.ErrRoomNotFound)
		return
	}

	sess.mu.Lock()

	if err := sess.room.AddPlayer(&entity.Player{ID: playerID, Name: name}); err != nil {
		sess.mu.Unlock()
		that.sendError(playerID, err)
		return
	}

	payload := RoomJoinedPayload{
		RoomID:     roomID,
		CodeLength: sess.room.CodeLength,
		Players:    roster(sess.room),
	}
	recipients := playerIDs(sess.room)

	sess.mu.Unlock()

	that.broadcast(recipients, EventRoomJoined, payload)

	log.Info("player joined", "playerID", playerID)
}

// SetSecret commits the player's secret. Once both players are ready the
// room starts: turn order is decided by coin flip and the turn timer is
// armed. Malformed or misaddressed commits are dropped without a reply.
func (that *RoomManager) SetSecret(_ context.Context, playerID, roomID, secret string) {
	log := that.logger.With("method", "SetSecret", "roomID", roomID)

	sess := that.session(roomID)
	if sess == nil {
		return
	}

	sess.mu.Lock()

	room := sess.room
	if err := room.CommitSecret(playerID, secret); err != nil {
		sess.mu.Unlock()
		return
	}

	readyPayload := PlayerReadyPayload{
		PlayerID: playerID,
		Name:     room.PlayerByID(playerID).Name,
		AllReady: room.AllReady(),
	}
	recipients := playerIDs(room)

	var startedPayload *GameStartedPayload
	if room.AllReady() && room.IsLobby() {
		room.Start()
		startedPayload = &GameStartedPayload{RoomID: roomID, CurrentTurn: room.Turn}
		that.scheduleTurnTimer(sess)
	}

	sess.mu.Unlock()

	that.broadcast(recipients, EventPlayerReady, readyPayload)

	if startedPayload != nil {
		that.broadcast(recipients, EventGameStarted, *startedPayload)
		log.Info("game started", "currentTurn", startedPayload.CurrentTurn)
	}
}

// Guess scores the active player's guess against the opponent's secret. A
// full match ends the game; anything else hands the turn over and re-arms
// the timer. Only a wrong-turn guess is answered with an error, every other
// invalid guess is dropped silently.
func (that *RoomManager) Guess(ctx context.Context, playerID, roomID, value string) {
	log := that.logger.With("method", "Guess", "roomID", roomID)

	sess := that.session(roomID)
	if sess == nil {
		return
	}

	sess.mu.Lock()

	room := sess.room
	correct, err := room.ApplyGuess(playerID, value)

	if errors.Is(err, apperror.ErrNotYourTurn) {
		sess.mu.Unlock()
		that.sendError(playerID, err)
		return
	}

	if err != nil {
		sess.mu.Unlock()
		return
	}

	resultPayload := GuessResultPayload{From: playerID, Guess: value, Correct: correct}
	recipients := playerIDs(room)

	if room.IsFinished() {
		that.cancelTurnTimer(sess)

		loser := room.OpponentOf(room.Winner)
		overPayload := GameOverPayload{
			Winner:     room.Winner,
			WinnerName: room.PlayerByID(room.Winner).Name,
			LoserID:    loser.ID,
			LoserName:  loser.Name,
		}
		match := &entity.Match{
			RoomID:     roomID,
			WinnerID:   overPayload.Winner,
			WinnerName: overPayload.WinnerName,
			LoserID:    overPayload.LoserID,
			LoserName:  overPayload.LoserName,
			CodeLength: room.CodeLength,
			Guesses:    room.Guesses,
			StartedAt:  room.StartedAt,
			FinishedAt: time.Now(),
		}

		sess.mu.Unlock()

		that.broadcast(recipients, EventGuessResult, resultPayload)
		that.broadcast(recipients, EventGameOver, overPayload)

		if err = that.matches.Record(ctx, match); err != nil {
			log.Error("failed to record match", "error", err)
		}

		log.Info("game over", "winner", overPayload.Winner)

		return
	}

	turnPayload := TurnChangedPayload{RoomID: roomID, CurrentTurn: room.Turn}
	that.scheduleTurnTimer(sess)

	sess.mu.Unlock()

	that.broadcast(recipients, EventGuessResult, resultPayload)
	that.broadcast(recipients, EventTurnChanged, turnPayload)
}

// SkipTurn hands the turn to the opponent without a guess. The timer is
// deliberately left running: a skip spends the remainder of the turn window
// rather than granting the opponent a fresh one.
func (that *RoomManager) SkipTurn(_ context.Context, playerID, roomID string) {
	sess := that.session(roomID)
	if sess == nil {
		return
	}

	sess.mu.Lock()

	if err := sess.room.SkipTurn(playerID); err != nil {
		sess.mu.Unlock()
		return
	}

	payload := TurnSkippedPayload{From: playerID, Next: sess.room.Turn}
	recipients := playerIDs(sess.room)

	sess.mu.Unlock()

	that.broadcast(recipients, EventTurnSkipped, payload)
}

// RemoveParticipant pulls the player out of every room that holds it,
// notifies the remaining occupant and tears the room down once it is empty.
// Safe to call for ids that were never, or are no longer, in any room.
func (that *RoomManager) RemoveParticipant(_ context.Context, playerID string) {
	log := that.logger.With("method", "RemoveParticipant", "playerID", playerID)

	type departure struct {
		recipients []string
		payload    OpponentLeftPayload
	}

	var departures []departure

	that.mu.Lock()

	for roomID, sess := range that.rooms {
		sess.mu.Lock()

		if removed := sess.room.RemovePlayer(playerID); removed == nil {
			sess.mu.Unlock()
			continue
		}

		if sess.room.IsEmpty() {
			// Cancel before delete, so a late expiry cannot touch a room
			// that is no longer in the table.
			that.cancelTurnTimer(sess)
			delete(that.rooms, roomID)
			sess.mu.Unlock()

			log.Info("room deleted", "roomID", roomID)
			continue
		}

		departures = append(departures, departure{
			recipients: playerIDs(sess.room),
			payload:    OpponentLeftPayload{PlayerID: playerID},
		})
		sess.mu.Unlock()
	}

	that.mu.Unlock()

	for _, d := range departures {
		that.broadcast(d.recipients, EventOpponentLeft, d.payload)
	}
}

// scheduleTurnTimer (re)arms the session's single turn timer. The caller
// must hold sess.mu. Bumping timerGen invalidates any expiry already in
// flight for the previous timer.
func (that *RoomManager) scheduleTurnTimer(sess *session) {
	if sess.timer != nil {
		sess.timer.Stop()
	}

	sess.timerGen++
	gen := sess.timerGen
	roomID := sess.room.ID

	sess.timer = time.AfterFunc(that.turnTimeout, func() {
		that.onTurnExpired(roomID, gen)
	})
}

// cancelTurnTimer stops the session's timer. The caller must hold sess.mu.
// Idempotent.
func (that *RoomManager) cancelTurnTimer(sess *session) {
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}

	sess.timerGen++
}

// onTurnExpired is the timer callback: the active player forfeits the turn
// and a fresh timer starts for the opponent. A stale generation means the
// timer was canceled or replaced after this callback was already scheduled.
func (that *RoomManager) onTurnExpired(roomID string, gen uint64) {
	log := that.logger.With("method", "onTurnExpired", "roomID", roomID)

	sess := that.session(roomID)
	if sess == nil {
		return
	}

	sess.mu.Lock()

	if sess.timerGen != gen {
		sess.mu.Unlock()
		return
	}

	expiredID, nextID, ok := sess.room.ExpireTurn()
	if !ok {
		sess.mu.Unlock()
		return
	}

	payload := TurnTimeoutPayload{RoomID: roomID, ExpiredPlayerID: expiredID, NextPlayerID: nextID}
	recipients := playerIDs(sess.room)
	that.scheduleTurnTimer(sess)

	sess.mu.Unlock()

	that.broadcast(recipients, EventTurnTimeout, payload)

	log.Info("turn forfeited", "expired", expiredID, "next", nextID)
}

func (that *RoomManager) session(roomID string) *session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.rooms[roomID]
}

func (that *RoomManager) send(playerID, action string, payload any) {
	if err := that.sender.Send(playerID, action, payload); err != nil {
		that.logger.Error("failed to send event", "playerID", playerID, "action", action, "error", err)
	}
}

func (that *RoomManager) sendError(playerID string, err error) {
	that.send(playerID, EventError, ErrorPayload{Message: err.Error()})
}

func (that *RoomManager) broadcast(playerIDs []string, action string, payload any) {
	for _, id := range playerIDs {
		that.send(id, action, payload)
	}
}

func playerIDs(room *entity.Room) []string {
	ids := make([]string, 0, len(room.Players))
	for _, player := range room.Players {
		ids = append(ids, player.ID)
	}

	return ids
}

func roster(room *entity.Room) []RosterEntry {
	entries := make([]RosterEntry, 0, len(room.Players))
	for _, player := range room.Players {
		entries = append(entries, RosterEntry{SocketID: player.ID, Name: player.Name})
	}

	return entries
}
