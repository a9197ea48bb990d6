package websocket

import (
	"context"
	"encoding/json"
)

// Inbound payloads. Field names are the client protocol.
type createRoomPayload struct {
	Name       string `json:"name"`
	CodeLength int    `json:"codeLength"`
}

type joinRoomPayload struct {
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

type setSecretPayload struct {
	RoomID string `json:"roomId"`
	Secret string `json:"secret"`
}

type guessPayload struct {
	RoomID string `json:"roomId"`
	Value  string `json:"value"`
}

type skipTurnPayload struct {
	RoomID string `json:"roomId"`
}

// The handlers only translate the wire payload into a room manager call;
// validation, replies and silent drops are all decided by the manager.

func (that *Server) handleCreateRoom(ctx context.Context, playerID string, raw json.RawMessage) {
	var payload createRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Error("failed to unmarshal createRoom payload", "error", err)
		return
	}

	that.game.CreateRoom(ctx, playerID, payload.Name, payload.CodeLength)
}

func (that *Server) handleJoinRoom(ctx context.Context, playerID string, raw json.RawMessage) {
	var payload joinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Error("failed to unmarshal joinRoom payload", "error", err)
		return
	}

	that.game.JoinRoom(ctx, playerID, payload.Name, payload.RoomID)
}

func (that *Server) handleSetSecret(ctx context.Context, playerID string, raw json.RawMessage) {
	var payload setSecretPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Error("failed to unmarshal setSecret payload", "error", err)
		return
	}

	that.game.SetSecret(ctx, playerID, payload.RoomID, payload.Secret)
}

func (that *Server) handleGuess(ctx context.Context, playerID string, raw json.RawMessage) {
	var payload guessPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Error("failed to unmarshal guess payload", "error", err)
		return
	}

	that.game.Guess(ctx, playerID, payload.RoomID, payload.Value)
}

func (that *Server) handleSkipTurn(ctx context.Context, playerID string, raw json.RawMessage) {
	var payload skipTurnPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.logger.Error("failed to unmarshal skipTurn payload", "error", err)
		return
	}

	that.game.SkipTurn(ctx, playerID, payload.RoomID)
}
