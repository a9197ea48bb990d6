package websocket

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrConnectionNotFound = errors.New("connection not found")

// conn serializes frame writes per connection; room broadcasts and timer
// events come from different goroutines and must not interleave frames.
type conn struct {
	mu    sync.Mutex
	bufrw *bufio.ReadWriter
}

// Hub tracks the live connection for every participant id and writes
// outbound events to them. It is the delivery half of the transport; who
// receives what is decided by the room manager.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*conn
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[string]*conn),
	}
}

func (that *Hub) Register(playerID string, bufrw *bufio.ReadWriter) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[playerID] = &conn{bufrw: bufrw}

	that.logger.Debug("connection registered", "playerID", playerID)
}

// Unregister drops the participant's connection. Idempotent.
func (that *Hub) Unregister(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, playerID)
}

// Send wraps the payload in the wire envelope and writes it as one text
// frame to the participant's connection.
func (that *Hub) Send(playerID, action string, payload any) error {
	that.mu.RLock()
	connection, ok := that.conns[playerID]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, playerID)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	messageBytes, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	connection.mu.Lock()
	defer connection.mu.Unlock()

	if err = writeFrame(connection.bufrw, frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(messageBytes)),
		payload: messageBytes,
	}); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
