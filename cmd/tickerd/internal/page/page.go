// Package page assembles the widgets of one browser tab: ticker board, live
// marquee, clock and route navigation, all driven by a single scheduler so
// that no two callbacks of a tab ever run at once.
package page

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/clock"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/livephase"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/nav"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/scheduler"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/simulator"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
	"github.com/shubham-shewale/afs-ticker/pkg/config"
)

type Rand interface {
	Float64() float64
}

type Clock interface {
	Now() time.Time
}

// Deps is everything a page needs besides its session id and sink.
type Deps struct {
	Logger      *zap.Logger
	Store       session.Store
	Rand        Rand
	Clock       Clock
	Instruments config.InstrumentSets
	Routes      []nav.Route
	Config      *config.Config

	// Mirror returns extra ports for a board (e.g. the kafka feed). Optional.
	Mirror func(board string) []view.Port
}

type Page struct {
	id     string
	logger *zap.Logger
	sink   view.Sink
	sched  *scheduler.Scheduler

	ticker   *simulator.Simulator
	live     *livephase.PhaseStore
	clock    *clock.Clock
	nav      *nav.Navigator
	keys     *nav.Shortcuts
	navBoard *view.Board

	intervals struct{ clock, ticker, live time.Duration }

	ctx    context.Context
	cancel context.CancelFunc
}

func New(id string, sink view.Sink, d Deps) *Page {
	logger := d.Logger.With(zap.String("session", id))
	cfg := d.Config

	p := &Page{
		id:       id,
		logger:   logger,
		sink:     sink,
		sched:    scheduler.New(logger),
		nav:      nav.NewNavigator(d.Routes),
		keys:     nav.NewShortcuts(d.Routes),
		navBoard: view.NewBoard(protocol.BoardNav, sink),
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.intervals.clock = cfg.Clock.Interval
	p.intervals.ticker = cfg.Ticker.Interval
	p.intervals.live = cfg.Live.Interval

	p.ticker = simulator.NewSimulator(logger, mirrored(view.NewBoard(protocol.BoardTicker, sink), protocol.BoardTicker, d.Mirror), d.Rand, d.Instruments.Ticker)
	p.live = livephase.NewPhaseStore(
		logger,
		d.Store,
		mirrored(view.NewBoard(protocol.BoardLive, sink), protocol.BoardLive, d.Mirror),
		d.Rand,
		d.Clock,
		d.Instruments.Live,
		livephase.Options{Cycle: cfg.Live.Cycle, PriceFloor: cfg.Live.PriceFloor},
	)
	p.clock = clock.New(logger, d.Clock, view.NewBoard(protocol.BoardClock, sink), cfg.Clock.Timezone, cfg.Clock.Label)

	return p
}

func mirrored(board view.Port, name string, mirror func(string) []view.Port) view.Port {
	if mirror == nil {
		return board
	}
	extra := mirror(name)
	if len(extra) == 0 {
		return board
	}
	return append(view.Multi{board}, extra...)
}

func (p *Page) ID() string { return p.id }

// Start draws every widget once, then starts the timers.
func (p *Page) Start() {
	p.sched.Do(func() {
		p.ticker.Render()
		p.clock.Refresh()
		p.live.Start(p.ctx)
		p.showNav()
	})

	p.sched.Every("clock", p.intervals.clock, p.clock.Refresh)
	p.sched.Every("ticker", p.intervals.ticker, p.ticker.Tick)
	p.sched.Every("live", p.intervals.live, func() { p.live.Tick(p.ctx) })
	p.sched.Start()

	p.logger.Info("Page started", zap.Int64("epoch_start", p.live.Epoch()))
}

// Stop ends the timers. Persisted state is left for the next load.
func (p *Page) Stop() {
	p.sched.Stop()
	p.cancel()
	p.logger.Info("Page stopped")
}

// HandleKey applies a keyboard shortcut and reports what it did.
func (p *Page) HandleKey(key string, typing bool) nav.Shortcut {
	sc := p.keys.Dispatch(key, typing)
	switch sc.Command {
	case nav.CommandScrollTop:
		p.navBoard.Show(protocol.FrameScroll, "top")
	case nav.CommandTick:
		p.sched.Do(p.ticker.Tick)
	case nav.CommandNavigate:
		p.Navigate(sc.Route)
	}
	return sc
}

func (p *Page) Navigate(route string) bool {
	var ok bool
	p.sched.Do(func() {
		if ok = p.nav.SetActive(route); ok {
			p.showNav()
		}
	})
	return ok
}

func (p *Page) Preview(route string) bool {
	var ok bool
	p.sched.Do(func() {
		if ok = p.nav.Preview(route); ok {
			p.showNav()
		}
	})
	return ok
}

func (p *Page) RestoreContext() {
	p.sched.Do(func() {
		p.nav.RestoreContext()
		p.showNav()
	})
}

func (p *Page) showNav() {
	p.navBoard.Show(protocol.FrameNav, p.nav.State())
}
