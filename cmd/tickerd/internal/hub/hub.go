package hub

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/nav"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
)

type ClientInterface interface {
	ID() string
	SendJSON(v interface{})
	SendBytes(b []byte)
	Close()
}

// Page is the per-tab widget set the hub drives.
type Page interface {
	ID() string
	Start()
	Stop()
	HandleKey(key string, typing bool) nav.Shortcut
	Navigate(route string) bool
	Preview(route string) bool
	RestoreContext()
}

// PageFactory builds the page for a session, drawing into sink.
type PageFactory func(sessionID string, sink view.Sink) Page

// Hub maps connections to their pages. A session id is owned by at most one
// connection: a newer connection for the same id (a reload) evicts the older.
type Hub struct {
	pages     map[ClientInterface]Page
	bySession map[string]ClientInterface
	claims    map[string]*claim

	factory PageFactory
	logger  *zap.Logger
	mu      sync.RWMutex
}

func NewHub(factory PageFactory, logger *zap.Logger) *Hub {
	return &Hub{
		pages:     make(map[ClientInterface]Page),
		bySession: make(map[string]ClientInterface),
		claims:    make(map[string]*claim),
		factory:   factory,
		logger:    logger,
	}
}

// claim serialises registrations of one session id.
type claim struct {
	mu   sync.Mutex
	refs int
}

func (h *Hub) lockSession(sessionID string) func() {
	h.mu.Lock()
	c := h.claims[sessionID]
	if c == nil {
		c = &claim{}
		h.claims[sessionID] = c
	}
	c.refs++
	h.mu.Unlock()

	c.mu.Lock()
	return func() {
		c.mu.Unlock()
		h.mu.Lock()
		if c.refs--; c.refs == 0 {
			delete(h.claims, sessionID)
		}
		h.mu.Unlock()
	}
}

// Register announces the session to the client and starts its page. Eviction
// of the previous owner and start of the new page happen under the session's
// claim, so concurrent reconnects end with exactly one running page.
func (h *Hub) Register(client ClientInterface, sessionID string) {
	unlock := h.lockSession(sessionID)
	defer unlock()

	h.mu.RLock()
	prev := h.bySession[sessionID]
	h.mu.RUnlock()

	if prev != nil && prev != client {
		h.logger.Info("Session taken over by new connection", zap.String("session", sessionID), zap.String("previous", prev.ID()))
		h.Unregister(prev)
	}

	client.SendJSON(protocol.WSResponse{Type: protocol.FrameSession, ID: sessionID})

	p := h.factory(sessionID, client)
	p.Start()

	h.mu.Lock()
	h.pages[client] = p
	h.bySession[sessionID] = client
	h.mu.Unlock()
}

func (h *Hub) HandleCommand(client ClientInterface, req protocol.WSRequest) {
	h.mu.RLock()
	p, ok := h.pages[client]
	h.mu.RUnlock()

	if !ok {
		h.sendError(client, req.ID, "No active session")
		return
	}

	switch req.Action {
	case protocol.ActionKey:
		h.handleKey(client, p, req)
	case protocol.ActionNavigate:
		if p.Navigate(req.Payload.Route) {
			h.sendAck(client, req.ID, "Navigated to "+req.Payload.Route)
		} else {
			h.sendError(client, req.ID, "Unknown route: "+req.Payload.Route)
		}
	case protocol.ActionPreview:
		if p.Preview(req.Payload.Route) {
			h.sendAck(client, req.ID, "Previewing "+req.Payload.Route)
		} else {
			h.sendError(client, req.ID, "Unknown route: "+req.Payload.Route)
		}
	case protocol.ActionRestore:
		p.RestoreContext()
		h.sendAck(client, req.ID, "Context restored")
	default:
		h.sendError(client, req.ID, "Unknown action: "+req.Action)
	}
}

func (h *Hub) handleKey(client ClientInterface, p Page, req protocol.WSRequest) {
	sc := p.HandleKey(req.Payload.Key, req.Payload.Typing)
	switch sc.Command {
	case nav.CommandScrollTop:
		h.sendAck(client, req.ID, "Scrolled to top")
	case nav.CommandTick:
		h.sendAck(client, req.ID, "Ticker advanced")
	case nav.CommandNavigate:
		h.sendAck(client, req.ID, fmt.Sprintf("Navigated to %s", sc.Route))
	default:
		h.sendAck(client, req.ID, "Ignored")
	}
}

// Unregister stops the client's page and closes the client. Safe to call twice.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	p, ok := h.pages[client]
	if ok {
		delete(h.pages, client)
		if h.bySession[p.ID()] == client {
			delete(h.bySession, p.ID())
		}
	}
	h.mu.Unlock()

	if ok {
		p.Stop()
	}
	client.Close()
}

// Sessions reports how many pages are live.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}

// Shutdown stops every page.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.pages))
	for c := range h.pages {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}

func (h *Hub) sendAck(c ClientInterface, id, msg string) {
	c.SendJSON(protocol.WSResponse{Type: protocol.FrameAck, ID: id, Status: "success", Message: msg})
}

func (h *Hub) sendError(c ClientInterface, id, msg string) {
	c.SendJSON(protocol.WSResponse{Type: protocol.FrameError, ID: id, Status: "error", Message: msg})
}
