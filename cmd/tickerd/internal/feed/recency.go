package feed

import "time"

// recency remembers the newest timestamp per key. Keys not updated within
// horizon of the newest record seen are forgotten, and records that old are
// refused, so memory stays bounded by the keys active inside the horizon.
type recency struct {
	horizon int64 // unix micro
	last    map[string]int64
	newest  int64
	swept   int64
}

func newRecency(horizon time.Duration) *recency {
	return &recency{horizon: horizon.Microseconds(), last: make(map[string]int64)}
}

// admit reports whether ts is not older than what was seen for key, and
// records it if so.
func (r *recency) admit(key string, ts int64) bool {
	if r.horizon > 0 && ts < r.newest-r.horizon {
		return false
	}
	if ts < r.last[key] {
		return false
	}
	r.last[key] = ts
	if ts > r.newest {
		r.newest = ts
	}
	r.sweep()
	return true
}

func (r *recency) sweep() {
	if r.horizon <= 0 || r.newest-r.swept < r.horizon {
		return
	}
	cutoff := r.newest - r.horizon
	for k, ts := range r.last {
		if ts < cutoff {
			delete(r.last, k)
		}
	}
	r.swept = r.newest
}

func (r *recency) size() int { return len(r.last) }
