package livephase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// Session keys
const (
	StateKey = "live-ticker:state"
	EpochKey = "live-ticker:epoch-start"
)

// persistedEntry keeps raw fields so each one can be validated on its own.
type persistedEntry struct {
	Symbol string          `json:"symbol"`
	Price  json.RawMessage `json:"price"`
	Move   json.RawMessage `json:"move"`
}

func encodeState(items []models.Instrument) ([]byte, error) {
	out := make([]models.Instrument, len(items))
	for i, it := range items {
		out[i] = models.Instrument{Symbol: it.Symbol, Price: round4(it.Price), Move: round4(it.Move)}
	}
	return json.Marshal(out)
}

// decodeState returns nil for anything that isn't a JSON array.
func decodeState(raw string) ([]persistedEntry, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, err
	}

	entries := make([]persistedEntry, 0, len(elems))
	for _, el := range elems {
		var e persistedEntry
		if err := json.Unmarshal(el, &e); err != nil || e.Symbol == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// parseFinite accepts JSON numbers and numeric strings. Missing, null and
// non-finite values are rejected.
func parseFinite(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		if v, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	}
	return v, isFinite(v)
}

func parseEpoch(raw string) (int64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !isFinite(v) || v <= 0 {
		return 0, false
	}
	return int64(v), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
