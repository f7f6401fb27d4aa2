package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/hub"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
)

const (
	maxMessageSize = 512 * 1024
	sendBuffer     = 256

	// SessionParam carries the page session id on the upgrade request.
	SessionParam = "session"
)

type ClientAdapter struct {
	conn      net.Conn
	hub       *hub.Hub
	send      chan []byte
	logger    *zap.Logger
	sessionID string

	closed bool
	mu     sync.Mutex

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClient(conn net.Conn, h *hub.Hub, logger *zap.Logger, sessionID string) *ClientAdapter {
	return &ClientAdapter{
		conn:       conn,
		hub:        h,
		send:       make(chan []byte, sendBuffer),
		logger:     logger.With(zap.String("session", sessionID)),
		sessionID:  sessionID,
		writeWait:  5 * time.Second,
		pongWait:   60 * time.Second,
		pingPeriod: 50 * time.Second,
	}
}

// Start registers the session with the hub and begins pumping frames.
func (c *ClientAdapter) Start() {
	go c.writePump()
	c.hub.Register(c, c.sessionID)
	go c.readPump()
}

func (c *ClientAdapter) ID() string { return c.conn.RemoteAddr().String() }

// Close stops the write pump, which then closes the connection.
func (c *ClientAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientAdapter) SendJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Encode failed", zap.Error(err))
		return
	}
	c.SendBytes(b)
}

func (c *ClientAdapter) SendBytes(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
		c.logger.Debug("Send buffer full, frame dropped")
	}
}

func (c *ClientAdapter) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			break
		}

		if header.Length > int64(maxMessageSize) {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			break
		}

		if !header.Fin {
			c.logger.Warn("Client sent fragmented message (not supported)")
			break
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			break
		}

		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

		switch header.OpCode {
		case ws.OpClose:
			return
		case ws.OpText:
			var req protocol.WSRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				c.SendJSON(protocol.WSResponse{Type: protocol.FrameError, Status: "error", Message: "Invalid JSON"})
				continue
			}
			c.hub.HandleCommand(c, req)
		}
	}
}

func (c *ClientAdapter) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.Write(ws.CompiledClose)
				return
			}
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				return
			}
		}
	}
}

// SessionID returns the session named in the request, or a fresh one when it
// is missing or not a uuid.
func SessionID(r *http.Request) string {
	if id, err := uuid.Parse(r.URL.Query().Get(SessionParam)); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

// Handler upgrades /ws requests and attaches them to the hub.
func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := SessionID(r)

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			logger.Debug("Upgrade failed", zap.Error(err))
			return
		}

		NewClient(conn, h, logger, sessionID).Start()
	}
}
