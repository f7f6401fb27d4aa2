package view

import (
	"fmt"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// Port is the full set of drawing calls the ticker boards make.
type Port interface {
	Render(records []models.DisplayRecord)
	Patch(records []models.DisplayRecord)
	SetPhase(offsetSeconds, cycleSeconds float64)
}

// Sink is anything that can deliver a frame to the page.
type Sink interface {
	SendJSON(v interface{})
}

// Compile-time checks
var (
	_ Port = Nop{}
	_ Port = (*Board)(nil)
	_ Port = Multi(nil)
)

// Nop is the view of a page that has no such board.
type Nop struct{}

func (Nop) Render([]models.DisplayRecord) {}
func (Nop) Patch([]models.DisplayRecord)  {}
func (Nop) SetPhase(float64, float64)     {}
func (Nop) ShowTime(string)               {}

// Board turns drawing calls into frames for one named board.
type Board struct {
	name string
	sink Sink
}

func NewBoard(name string, sink Sink) *Board {
	return &Board{name: name, sink: sink}
}

func (b *Board) Render(records []models.DisplayRecord) {
	b.send(protocol.FrameRender, records)
}

func (b *Board) Patch(records []models.DisplayRecord) {
	b.send(protocol.FramePatch, records)
}

// SetPhase is applied by the page as a negative animation-delay.
func (b *Board) SetPhase(offsetSeconds, cycleSeconds float64) {
	b.send(protocol.FramePhase, protocol.PhaseData{
		OffsetSeconds: offsetSeconds,
		CycleSeconds:  cycleSeconds,
		Delay:         fmt.Sprintf("%.3fs", -offsetSeconds),
	})
}

func (b *Board) ShowTime(text string) {
	b.send(protocol.FrameClock, text)
}

// Show sends an arbitrary frame for this board.
func (b *Board) Show(frameType string, data interface{}) {
	b.send(frameType, data)
}

func (b *Board) send(frameType string, data interface{}) {
	b.sink.SendJSON(protocol.WSResponse{Type: frameType, ID: b.name, Data: data})
}

// Multi fans every call out to each port in order.
type Multi []Port

func (m Multi) Render(records []models.DisplayRecord) {
	for _, p := range m {
		p.Render(records)
	}
}

func (m Multi) Patch(records []models.DisplayRecord) {
	for _, p := range m {
		p.Patch(records)
	}
}

func (m Multi) SetPhase(offsetSeconds, cycleSeconds float64) {
	for _, p := range m {
		p.SetPhase(offsetSeconds, cycleSeconds)
	}
}
