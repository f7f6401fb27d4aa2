// Package simulator drives the decorative market ticker: a fixed set of
// instruments advanced by an unbounded random walk and re-rendered in full.
package simulator

import (
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

const (
	moveSpan  = 1.6   // move is drawn from [-0.8, 0.8]
	priceSpan = 0.005 // price steps within ±0.25% of itself
)

type Simulator struct {
	logger      *zap.Logger
	view        View
	rand        Rand
	instruments []models.Instrument
}

func NewSimulator(logger *zap.Logger, view View, rnd Rand, instruments []models.Instrument) *Simulator {
	return &Simulator{
		logger:      logger,
		view:        view,
		rand:        rnd,
		instruments: models.Clone(instruments),
	}
}

// Render pushes the current board to the view. Safe to repeat.
func (s *Simulator) Render() {
	s.view.Render(models.DisplayAll(s.instruments))
}

// Tick redraws every move and nudges every price, then renders. No floor is
// applied here, unlike the live board.
func (s *Simulator) Tick() {
	for i := range s.instruments {
		it := &s.instruments[i]
		it.Move = (s.rand.Float64() - 0.5) * moveSpan
		it.Price += (s.rand.Float64() - 0.5) * priceSpan * it.Price
	}
	s.logger.Debug("Ticker advanced", zap.Int("instruments", len(s.instruments)))
	s.Render()
}

func (s *Simulator) Snapshot() []models.Instrument {
	return models.Clone(s.instruments)
}
