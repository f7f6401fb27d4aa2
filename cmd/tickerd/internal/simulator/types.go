package simulator

import (
	"math/rand"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// for deterministic values
type Rand interface {
	Float64() float64
}

// View receives the full board on every render.
type View interface {
	Render(records []models.DisplayRecord)
}

type RealRand struct{ *rand.Rand }

func (r RealRand) Float64() float64 { return r.Rand.Float64() }
