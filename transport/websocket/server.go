package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/codeduelhq/codeduel-backend/internal/pkg"
)

type game interface {
	CreateRoom(ctx context.Context, playerID, name string, codeLength int)
	JoinRoom(ctx context.Context, playerID, name, roomID string)
	SetSecret(ctx context.Context, playerID, roomID, secret string)
	Guess(ctx context.Context, playerID, roomID, value string)
	SkipTurn(ctx context.Context, playerID, roomID string)
	RemoveParticipant(ctx context.Context, playerID string)
}

type Server struct {
	logger *slog.Logger
	hub    *Hub
	game   game

	handlers map[string]func(ctx context.Context, playerID string, payload json.RawMessage)
}

func New(logger *slog.Logger, hub *Hub, game game) *Server {
	server := &Server{
		logger: logger,
		hub:    hub,
		game:   game,

		handlers: make(map[string]func(context.Context, string, json.RawMessage)),
	}

	server.handlers["createRoom"] = server.handleCreateRoom
	server.handlers["joinRoom"] = server.handleJoinRoom
	server.handlers["setSecret"] = server.handleSetSecret
	server.handlers["guess"] = server.handleGuess
	server.handlers["skipTurn"] = server.handleSkipTurn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived; the read loop owns them
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and runs the
// read loop until the client goes away.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	// The participant id lives exactly as long as this connection.
	playerID := uuid.NewString()
	that.hub.Register(playerID, bufrw)

	defer func() {
		that.hub.Unregister(playerID)
		that.game.RemoveParticipant(ctx, playerID)
		log.Info("player disconnected", "playerID", playerID)
	}()

	log.Info("WebSocket connection established", "playerID", playerID)

	if err = that.handleMessages(ctx, playerID, bufrw); err != nil {
		log.Debug("connection closed", "playerID", playerID, "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, playerID string, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMessages", "playerID", playerID)

	for {
		reqBody, err := readRequest(bufrw)
		if err != nil {
			return err
		}

		if len(reqBody) == 0 {
			continue
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		handler(ctx, playerID, message.Payload)
	}
}
