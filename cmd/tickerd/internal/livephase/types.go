package livephase

import (
	"time"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// for deterministic testing
type Clock interface {
	Now() time.Time
}

// for deterministic values
type Rand interface {
	Float64() float64
}

// View draws the marquee. Patch only carries records whose text changed.
type View interface {
	Render(records []models.DisplayRecord)
	Patch(records []models.DisplayRecord)
	SetPhase(offsetSeconds, cycleSeconds float64)
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Options are the tunables of the live board.
type Options struct {
	Cycle      time.Duration // length of one marquee loop
	PriceFloor float64
}

func DefaultOptions() Options {
	return Options{Cycle: 42 * time.Second, PriceFloor: 0.5}
}
