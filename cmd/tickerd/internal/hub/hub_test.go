package hub_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/hub"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/nav"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/testutils"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
)

type fakePage struct {
	id       string
	delay    time.Duration
	running  *int32
	started  int
	stopped  int
	restored int
	ticks    int
	routes   []string
	mu       sync.Mutex
}

func (p *fakePage) ID() string { return p.id }
func (p *fakePage) Start() {
	time.Sleep(p.delay)
	p.mu.Lock()
	p.started++
	p.mu.Unlock()
	atomic.AddInt32(p.running, 1)
}

func (p *fakePage) Stop() {
	p.mu.Lock()
	p.stopped++
	p.mu.Unlock()
	atomic.AddInt32(p.running, -1)
}

func (p *fakePage) HandleKey(key string, typing bool) nav.Shortcut {
	sc := nav.NewShortcuts(nav.DefaultRoutes()).Dispatch(key, typing)
	if sc.Command == nav.CommandTick {
		p.ticks++
	}
	if sc.Command == nav.CommandNavigate {
		p.routes = append(p.routes, sc.Route)
	}
	return sc
}

func (p *fakePage) Navigate(route string) bool {
	if route == "ghost" {
		return false
	}
	p.routes = append(p.routes, route)
	return true
}

func (p *fakePage) Preview(route string) bool { return route != "ghost" }
func (p *fakePage) RestoreContext()          { p.restored++ }

type factory struct {
	pages   map[string][]*fakePage
	delay   time.Duration
	running int32
	mu      sync.Mutex
}

func (f *factory) build(id string, sink view.Sink) hub.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &fakePage{id: id, delay: f.delay, running: &f.running}
	f.pages[id] = append(f.pages[id], p)
	return p
}

func setup() (*hub.Hub, *factory) {
	f := &factory{pages: make(map[string][]*fakePage)}
	return hub.NewHub(f.build, zap.NewNop()), f
}

func TestHub_Register_AnnouncesSessionAndStarts(t *testing.T) {
	h, f := setup()
	client := testutils.NewMockClient("c1")

	h.Register(client, "s-1")

	frames := client.Frames(protocol.FrameSession, "")
	require.Len(t, frames, 1)
	assert.Equal(t, "s-1", frames[0].ID)
	require.Len(t, f.pages["s-1"], 1)
	assert.Equal(t, 1, f.pages["s-1"][0].started)
	assert.Equal(t, 1, h.Sessions())
}

func TestHub_Register_SameSessionEvictsOlder(t *testing.T) {
	h, f := setup()
	first := testutils.NewMockClient("c1")
	second := testutils.NewMockClient("c2")

	h.Register(first, "s-1")
	h.Register(second, "s-1")

	assert.True(t, first.Closed)
	assert.False(t, second.Closed)
	require.Len(t, f.pages["s-1"], 2)
	assert.Equal(t, 1, f.pages["s-1"][0].stopped)
	assert.Equal(t, 0, f.pages["s-1"][1].stopped)
	assert.Equal(t, 1, h.Sessions())

	// the evicted client's late commands find no page
	h.HandleCommand(first, protocol.WSRequest{Action: protocol.ActionRestore, ID: "late"})
	assert.Equal(t, protocol.FrameError, first.LastMsgType())
}

func TestHub_KeyCommands(t *testing.T) {
	h, f := setup()
	client := testutils.NewMockClient("c1")
	h.Register(client, "s-1")
	p := f.pages["s-1"][0]

	tests := []struct {
		key     string
		typing  bool
		message string
	}{
		{"g", false, "Scrolled to top"},
		{"M", false, "Ticker advanced"},
		{"3", false, "Navigated to resources"},
		{"m", true, "Ignored"},
		{"x", false, "Ignored"},
	}

	for _, tt := range tests {
		h.HandleCommand(client, protocol.WSRequest{
			Action:  protocol.ActionKey,
			Payload: protocol.RequestPayload{Key: tt.key, Typing: tt.typing},
			ID:      "k-" + tt.key,
		})
		acks := client.Frames(protocol.FrameAck, "k-"+tt.key)
		require.NotEmpty(t, acks, tt.key)
		assert.Equal(t, tt.message, acks[len(acks)-1].Message, tt.key)
	}

	assert.Equal(t, 1, p.ticks)
	assert.Equal(t, []string{"resources"}, p.routes)
}

func TestHub_NavigateAndPreview(t *testing.T) {
	h, f := setup()
	client := testutils.NewMockClient("c1")
	h.Register(client, "s-1")

	h.HandleCommand(client, protocol.WSRequest{Action: protocol.ActionNavigate, Payload: protocol.RequestPayload{Route: "events"}, ID: "n1"})
	assert.Equal(t, protocol.FrameAck, client.LastMsgType())

	h.HandleCommand(client, protocol.WSRequest{Action: protocol.ActionNavigate, Payload: protocol.RequestPayload{Route: "ghost"}, ID: "n2"})
	assert.Equal(t, protocol.FrameError, client.LastMsgType())

	h.HandleCommand(client, protocol.WSRequest{Action: protocol.ActionPreview, Payload: protocol.RequestPayload{Route: "contact"}, ID: "p1"})
	assert.Equal(t, protocol.FrameAck, client.LastMsgType())

	h.HandleCommand(client, protocol.WSRequest{Action: protocol.ActionRestore, ID: "r1"})
	assert.Equal(t, protocol.FrameAck, client.LastMsgType())

	assert.Equal(t, []string{"events"}, f.pages["s-1"][0].routes)
	assert.Equal(t, 1, f.pages["s-1"][0].restored)
}

func TestHub_UnknownAction(t *testing.T) {
	h, _ := setup()
	client := testutils.NewMockClient("c1")
	h.Register(client, "s-1")

	h.HandleCommand(client, protocol.WSRequest{Action: "subscribe", ID: "u1"})

	errs := client.Frames(protocol.FrameError, "u1")
	require.Len(t, errs, 1)
	assert.Equal(t, "Unknown action: subscribe", errs[0].Message)
}

func TestHub_CommandWithoutSession(t *testing.T) {
	h, _ := setup()
	client := testutils.NewMockClient("c1")

	h.HandleCommand(client, protocol.WSRequest{Action: protocol.ActionRestore, ID: "x"})

	assert.Equal(t, protocol.FrameError, client.LastMsgType())
}

func TestHub_Unregister_StopsPageOnce(t *testing.T) {
	h, f := setup()
	client := testutils.NewMockClient("c1")
	h.Register(client, "s-1")

	h.Unregister(client)
	h.Unregister(client)

	assert.Equal(t, 1, f.pages["s-1"][0].stopped)
	assert.True(t, client.Closed)
	assert.Equal(t, 0, h.Sessions())
}

func TestHub_Shutdown(t *testing.T) {
	h, f := setup()
	a := testutils.NewMockClient("a")
	b := testutils.NewMockClient("b")
	h.Register(a, "s-a")
	h.Register(b, "s-b")

	h.Shutdown()

	assert.Equal(t, 0, h.Sessions())
	assert.True(t, a.Closed)
	assert.True(t, b.Closed)
	assert.Equal(t, 1, f.pages["s-a"][0].stopped)
	assert.Equal(t, 1, f.pages["s-b"][0].stopped)
}

func TestHub_Register_ConcurrentSameSession(t *testing.T) {
	f := &factory{pages: make(map[string][]*fakePage), delay: 20 * time.Millisecond}
	h := hub.NewHub(f.build, zap.NewNop())

	const n = 4
	clients := make([]*testutils.MockClient, n)
	var wg sync.WaitGroup
	for i := range clients {
		clients[i] = testutils.NewMockClient(string(rune('a' + i)))
		wg.Add(1)
		go func(c *testutils.MockClient) {
			defer wg.Done()
			h.Register(c, "s-1")
		}(clients[i])
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.running), "one running page per session")
	assert.Equal(t, 1, h.Sessions())

	open := 0
	for _, c := range clients {
		c.Mu.Lock()
		if !c.Closed {
			open++
		}
		c.Mu.Unlock()
	}
	assert.Equal(t, 1, open)
}

func TestHub_Register_DifferentSessionsDoNotBlock(t *testing.T) {
	f := &factory{pages: make(map[string][]*fakePage), delay: 50 * time.Millisecond}
	h := hub.NewHub(f.build, zap.NewNop())

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Register(testutils.NewMockClient(string(rune('a'+i))), string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	assert.Less(t, time.Since(start), 180*time.Millisecond)
	assert.Equal(t, 4, h.Sessions())
	assert.Equal(t, int32(4), atomic.LoadInt32(&f.running))
}
