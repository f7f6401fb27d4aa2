package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// InstrumentSets are the seed values for both boards.
type InstrumentSets struct {
	Ticker []models.Instrument `yaml:"ticker"`
	Live   []models.Instrument `yaml:"live"`
}

// DefaultInstruments returns fresh copies of the built-in seed sets.
func DefaultInstruments() InstrumentSets {
	return InstrumentSets{
		Ticker: []models.Instrument{
			{Symbol: "NIFTY SENT", Price: 22475.85, Move: 0.86},
			{Symbol: "AFS EQUITY", Price: 348.21, Move: -0.42},
			{Symbol: "RUPEE INDEX", Price: 83.14, Move: 0.11},
			{Symbol: "CAMPUS ALPHA", Price: 129.72, Move: 1.24},
			{Symbol: "VOL MATRIX", Price: 18.06, Move: -0.67},
			{Symbol: "RISK PREM", Price: 4.32, Move: 0.29},
		},
		Live: []models.Instrument{
			{Symbol: "AFS50", Price: 1842.35, Move: 0.42},
			{Symbol: "NIFTY", Price: 22475.85, Move: 0.86},
			{Symbol: "SENSEX", Price: 73902.12, Move: 0.54},
			{Symbol: "BANKNIFTY", Price: 47812.6, Move: -0.19},
			{Symbol: "USDINR", Price: 83.14, Move: -0.08},
			{Symbol: "GOLD", Price: 62310.0, Move: 0.21},
			{Symbol: "CRUDE", Price: 6534.5, Move: -0.33},
		},
	}
}

// LoadInstruments reads seed sets from a YAML file. An empty path or a missing
// section keeps the built-in set for that board.
func LoadInstruments(path string) (InstrumentSets, error) {
	sets := DefaultInstruments()
	if path == "" {
		return sets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sets, fmt.Errorf("read instruments: %w", err)
	}

	var file InstrumentSets
	if err := yaml.Unmarshal(data, &file); err != nil {
		return sets, fmt.Errorf("parse instruments: %w", err)
	}

	if len(file.Ticker) > 0 {
		sets.Ticker = file.Ticker
	}
	if len(file.Live) > 0 {
		sets.Live = file.Live
	}

	if err := checkUnique("ticker", sets.Ticker); err != nil {
		return sets, err
	}
	if err := checkUnique("live", sets.Live); err != nil {
		return sets, err
	}
	return sets, nil
}

func checkUnique(board string, items []models.Instrument) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Symbol == "" {
			return fmt.Errorf("%s: instrument with empty symbol", board)
		}
		if seen[it.Symbol] {
			return fmt.Errorf("%s: duplicate symbol %q", board, it.Symbol)
		}
		seen[it.Symbol] = true
	}
	return nil
}
