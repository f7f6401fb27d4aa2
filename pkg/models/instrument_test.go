package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

func TestInstrument_Display(t *testing.T) {
	tests := []struct {
		name string
		in   models.Instrument
		want models.DisplayRecord
	}{
		{
			name: "positive move",
			in:   models.Instrument{Symbol: "NIFTY SENT", Price: 22475.85, Move: 0.86},
			want: models.DisplayRecord{Symbol: "NIFTY SENT", PriceText: "22475.85", MoveText: "▲ 0.86%", Direction: "up"},
		},
		{
			name: "negative move shows absolute value",
			in:   models.Instrument{Symbol: "AFS EQUITY", Price: 348.2149, Move: -0.424},
			want: models.DisplayRecord{Symbol: "AFS EQUITY", PriceText: "348.21", MoveText: "▼ 0.42%", Direction: "down"},
		},
		{
			name: "zero move is up",
			in:   models.Instrument{Symbol: "X", Price: 1, Move: 0},
			want: models.DisplayRecord{Symbol: "X", PriceText: "1.00", MoveText: "▲ 0.00%", Direction: "up"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Display())
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	src := []models.Instrument{{Symbol: "A", Price: 1}}
	cp := models.Clone(src)
	cp[0].Price = 99

	assert.Equal(t, 1.0, src[0].Price)
}
