package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/datadash/backend/internal/session"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WebSocket message types for the snapshot stream
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeSnapshot = "snapshot"
	MsgTypePong     = "pong"
	MsgTypeError    = "error"
)

const wsWriteWait = 10 * time.Second

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler streams session snapshots to the browser
type WebSocketHandler struct {
	sessions SessionStore
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWebSocketHandler creates a new snapshot stream handler
func NewWebSocketHandler(sessions SessionStore, log *zap.Logger) *WebSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		log: log,
	}
}

// HandleWebSocket upgrades the connection, sends the current snapshot and
// then a fresh one after every change until either side goes away
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	s, err := lookupSession(wsh.sessions, c)
	if err != nil {
		return err
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	// Server timeouts set on the raw connection would otherwise apply here
	ws.SetReadDeadline(time.Time{})

	log := wsh.log.With(zap.String("session", s.ID))
	log.Debug("client connected")

	updates, cancel := s.Subscribe()
	defer cancel()

	conn := &wsConn{ws: ws, log: log}
	if !conn.sendSnapshot(s) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wsh.readLoop(conn)
	}()

	for {
		select {
		case <-done:
			log.Debug("client disconnected")
			return nil
		case _, ok := <-updates:
			if !ok {
				conn.send(WSMessage{
					Type:      MsgTypeError,
					ID:        s.ID,
					Timestamp: time.Now().UnixMilli(),
					Payload:   mustJSON(WSErrorResponse{Message: "session expired", Code: "SESSION_EXPIRED"}),
				})
				return nil
			}
			if !conn.sendSnapshot(s) {
				return nil
			}
		}
	}
}

// readLoop answers pings until the client closes the connection
func (wsh *WebSocketHandler) readLoop(conn *wsConn) {
	for {
		var msg WSMessage
		if err := conn.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				conn.log.Warn("connection error", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case MsgTypePing:
			conn.send(WSMessage{Type: MsgTypePong, ID: msg.ID, Timestamp: time.Now().UnixMilli()})
		default:
			conn.send(WSMessage{
				Type:      MsgTypeError,
				Timestamp: time.Now().UnixMilli(),
				Payload:   mustJSON(WSErrorResponse{Message: "Unknown message type: " + msg.Type, Code: "INVALID_TYPE"}),
			})
		}
	}
}

// wsConn serializes writes; gorilla allows one concurrent writer
type wsConn struct {
	mu  sync.Mutex
	ws  *websocket.Conn
	log *zap.Logger
}

func (c *wsConn) send(msg WSMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := c.ws.WriteJSON(msg); err != nil {
		c.log.Debug("failed to send message", zap.String("type", msg.Type), zap.Error(err))
		return false
	}
	return true
}

func (c *wsConn) sendSnapshot(s *session.Session) bool {
	return c.send(WSMessage{
		Type:      MsgTypeSnapshot,
		ID:        s.ID,
		Timestamp: time.Now().UnixMilli(),
		Payload:   mustJSON(s.Snapshot()),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
