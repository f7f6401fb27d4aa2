package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecency_OrderPerKey(t *testing.T) {
	r := newRecency(time.Hour)

	assert.True(t, r.admit("a", 10))
	assert.True(t, r.admit("a", 10), "equal timestamps pass: render and patch share one")
	assert.False(t, r.admit("a", 5))
	assert.True(t, r.admit("b", 5), "keys are independent")
	assert.True(t, r.admit("a", 20))
}

func TestRecency_BoundedByHorizon(t *testing.T) {
	second := time.Second.Microseconds()
	r := newRecency(time.Second)

	// a new session every 100ms, each seen once
	for i := 0; i < 1000; i++ {
		assert.True(t, r.admit(fmt.Sprintf("s%d|live|AFS50", i), int64(i)*second/10))
	}

	assert.LessOrEqual(t, r.size(), 21, "only keys inside the horizon (plus one sweep period) are kept")

	// a record older than the horizon is refused even for a forgotten key
	assert.False(t, r.admit("s0|live|AFS50", 0))
}

func TestRecency_NoHorizonKeepsEverything(t *testing.T) {
	r := newRecency(0)
	for i := 0; i < 100; i++ {
		r.admit(fmt.Sprintf("k%d", i), int64(i))
	}
	assert.Equal(t, 100, r.size())
}
