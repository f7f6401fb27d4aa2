package clock

import (
	"time"

	"go.uber.org/zap"
)

const layout = "02 Jan 2006 | 15:04:05"

// fallback when the zone database is missing from the host
var ist = time.FixedZone("IST", 5*60*60+30*60)

type Source interface {
	Now() time.Time
}

type View interface {
	ShowTime(text string)
}

// Clock renders the page's digital clock in a fixed zone.
type Clock struct {
	source Source
	view   View
	loc    *time.Location
	label  string
}

func New(logger *zap.Logger, source Source, view View, timezone, label string) *Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using +05:30", zap.String("timezone", timezone), zap.Error(err))
		loc = ist
	}
	return &Clock{source: source, view: view, loc: loc, label: label}
}

// Format renders t as "16 Oct 2026 | 14:05:09 IST".
func (c *Clock) Format(t time.Time) string {
	s := t.In(c.loc).Format(layout)
	if c.label != "" {
		s += " " + c.label
	}
	return s
}

func (c *Clock) Refresh() {
	c.view.ShowTime(c.Format(c.source.Now()))
}
