package models

import (
	"fmt"
	"math"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Instrument is a simulated tradable-looking entity shown on a ticker board.
type Instrument struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Price  float64 `json:"price" yaml:"price"`
	Move   float64 `json:"move" yaml:"move"` // signed percentage
}

// DisplayRecord is what a view port receives for one instrument
type DisplayRecord struct {
	Symbol    string `json:"symbol"`
	PriceText string `json:"price"`
	MoveText  string `json:"move"`
	Direction string `json:"direction"`
}

// Display formats the instrument for rendering. A zero move counts as up.
func (i Instrument) Display() DisplayRecord {
	dir, arrow := DirectionUp, "▲"
	if i.Move < 0 {
		dir, arrow = DirectionDown, "▼"
	}
	return DisplayRecord{
		Symbol:    i.Symbol,
		PriceText: fmt.Sprintf("%.2f", i.Price),
		MoveText:  fmt.Sprintf("%s %.2f%%", arrow, math.Abs(i.Move)),
		Direction: dir,
	}
}

// DisplayAll formats a collection in order.
func DisplayAll(items []Instrument) []DisplayRecord {
	out := make([]DisplayRecord, len(items))
	for idx, it := range items {
		out[idx] = it.Display()
	}
	return out
}

// Clone returns an independent copy so callers can't mutate owned state.
func Clone(items []Instrument) []Instrument {
	out := make([]Instrument, len(items))
	copy(out, items)
	return out
}
