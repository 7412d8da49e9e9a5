package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const maxPayloadSize = 64 << 10

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TurnPayload - row and column are both required.
type TurnPayload struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type ResponsePayload struct {
	Game  *entity.GameState `json:"game,omitempty"`
	Error string            `json:"error,omitempty"`
}

// client is one upgraded connection. Broadcasts from other connections' goroutines
// share it, so writes go through mu and each carries a deadline.
type client struct {
	sessionID    string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex
}

func newClient(sessionID string, conn *websocket.Conn, writeTimeout time.Duration) *client {
	conn.MaxPayloadBytes = maxPayloadSize

	return &client{
		sessionID:    sessionID,
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// receive - reads the next message. Malformed or oversized messages are reported
// with ErrInvalidMessage and leave the connection usable.
func (that *client) receive(message *Message) error {
	err := websocket.JSON.Receive(that.conn, message)

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, websocket.ErrFrameTooLarge):
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	default:
		return err
	}
}

func (that *client) send(action string, payload ResponsePayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = websocket.JSON.Send(that.conn, Message{Action: action, Payload: payloadBytes}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
