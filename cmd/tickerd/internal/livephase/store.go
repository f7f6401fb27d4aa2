// Package livephase keeps the scrolling live board continuous across page
// loads. Instrument values and a fixed animation epoch are persisted in the
// session store; on load the marquee is moved forward to where it would be had
// it never stopped.
//
// Storage is best effort. Read and write failures, and payloads that do not
// decode, fall back to in-memory state without surfacing an error. After a
// failed read the store is never written again by this page.
package livephase

import (
	"context"
	"errors"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

const (
	moveSpan  = 0.9    // move is drawn from [-0.45, 0.45]
	priceSpan = 0.0022 // price steps within ±0.11% of itself
)

type PhaseStore struct {
	logger      *zap.Logger
	store       session.Store
	view        View
	rand        Rand
	clock       Clock
	opts        Options
	instruments []models.Instrument
	index       map[string]int

	epoch    int64 // ms, 0 until established
	rendered map[string]models.DisplayRecord

	// set once a read fails for a reason other than absence; from then on
	// nothing is written so a snapshot or epoch we could not see survives
	memoryOnly bool
}

func NewPhaseStore(
	logger *zap.Logger,
	store session.Store,
	view View,
	rnd Rand,
	clock Clock,
	instruments []models.Instrument,
	opts Options,
) *PhaseStore {
	p := &PhaseStore{
		logger:      logger,
		store:       store,
		view:        view,
		rand:        rnd,
		clock:       clock,
		opts:        opts,
		instruments: models.Clone(instruments),
		index:       make(map[string]int, len(instruments)),
		rendered:    make(map[string]models.DisplayRecord, len(instruments)),
	}
	for i, it := range p.instruments {
		p.index[it.Symbol] = i
	}
	return p
}

// Start runs the load sequence. The order matters: the snapshot is written
// right after the epoch is confirmed so a tab closed before the first tick
// still leaves the latest values behind.
func (p *PhaseStore) Start(ctx context.Context) {
	p.RestoreState(ctx)
	epoch := p.EnsureEpochStart(ctx)
	p.PersistState(ctx)
	p.Render()
	p.ApplyPhase(epoch)
}

// EnsureEpochStart returns the session's animation epoch in ms, creating it
// on first use. Once set it is only ever read.
func (p *PhaseStore) EnsureEpochStart(ctx context.Context) int64 {
	raw, err := p.store.Get(ctx, EpochKey)
	switch {
	case err == nil:
		if v, ok := parseEpoch(raw); ok {
			p.epoch = v
			return v
		}
		p.logger.Debug("Discarding invalid epoch start", zap.String("raw", raw))
	case !errors.Is(err, session.ErrAbsent):
		p.logger.Debug("Epoch start unreadable, keeping it in memory", zap.Error(err))
		p.memoryOnly = true
	}

	if p.epoch <= 0 {
		p.epoch = p.clock.Now().UnixMilli()
	}
	if p.memoryOnly {
		return p.epoch
	}
	if err := p.store.Set(ctx, EpochKey, strconv.FormatInt(p.epoch, 10)); err != nil {
		p.logger.Debug("Epoch start not persisted", zap.Error(err))
	}
	return p.epoch
}

// RestoreState seeds instruments from the last snapshot. Unknown symbols and
// fields that are not finite numbers are skipped one by one.
func (p *PhaseStore) RestoreState(ctx context.Context) {
	raw, err := p.store.Get(ctx, StateKey)
	if err != nil {
		if !errors.Is(err, session.ErrAbsent) {
			p.logger.Debug("Live state unreadable, keeping it in memory", zap.Error(err))
			p.memoryOnly = true
		}
		return
	}

	entries, err := decodeState(raw)
	if err != nil {
		p.logger.Debug("Ignoring malformed live state", zap.Error(err))
		return
	}

	restored := 0
	for _, e := range entries {
		i, ok := p.index[e.Symbol]
		if !ok {
			continue
		}
		it := &p.instruments[i]
		if v, ok := parseFinite(e.Price); ok {
			it.Price = math.Max(p.opts.PriceFloor, v)
		}
		if v, ok := parseFinite(e.Move); ok {
			it.Move = v
		}
		restored++
	}
	p.logger.Debug("Live state restored", zap.Int("instruments", restored))
}

// PersistState overwrites the snapshot with 4-decimal values. It does
// nothing once a read has failed.
func (p *PhaseStore) PersistState(ctx context.Context) {
	if p.memoryOnly {
		return
	}
	payload, err := encodeState(p.instruments)
	if err != nil {
		p.logger.Debug("Live state not encodable", zap.Error(err))
		return
	}
	if err := p.store.Set(ctx, StateKey, string(payload)); err != nil {
		p.logger.Debug("Live state not persisted", zap.Error(err))
	}
}

// Tick walks every instrument, patches what changed on screen and persists.
func (p *PhaseStore) Tick(ctx context.Context) {
	for i := range p.instruments {
		it := &p.instruments[i]
		it.Move = (p.rand.Float64() - 0.5) * moveSpan
		it.Price += (p.rand.Float64() - 0.5) * priceSpan * it.Price
		it.Price = math.Max(p.opts.PriceFloor, it.Price)
	}

	var changed []models.DisplayRecord
	for _, it := range p.instruments {
		rec := it.Display()
		if p.rendered[rec.Symbol] != rec {
			changed = append(changed, rec)
			p.rendered[rec.Symbol] = rec
		}
	}
	if len(changed) > 0 {
		p.view.Patch(changed)
	}

	p.PersistState(ctx)
}

// Render draws the whole board.
func (p *PhaseStore) Render() {
	records := models.DisplayAll(p.instruments)
	for _, rec := range records {
		p.rendered[rec.Symbol] = rec
	}
	p.view.Render(records)
}

// ApplyPhase moves the marquee to its continuous position for now.
func (p *PhaseStore) ApplyPhase(epochStart int64) {
	offset := ComputePhaseOffset(p.clock.Now().UnixMilli(), epochStart, p.opts.Cycle.Seconds())
	p.view.SetPhase(offset, p.opts.Cycle.Seconds())
}

func (p *PhaseStore) Epoch() int64 { return p.epoch }

func (p *PhaseStore) Snapshot() []models.Instrument {
	return models.Clone(p.instruments)
}

// ComputePhaseOffset returns the position in seconds within a cycle, in
// [0, cycleSeconds) even when now is before the epoch.
func ComputePhaseOffset(nowMs, epochStartMs int64, cycleSeconds float64) float64 {
	elapsed := float64(nowMs-epochStartMs) / 1000
	offset := math.Mod(math.Mod(elapsed, cycleSeconds)+cycleSeconds, cycleSeconds)
	if offset >= cycleSeconds {
		return 0
	}
	return offset
}
