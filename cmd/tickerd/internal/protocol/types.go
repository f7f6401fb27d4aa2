package protocol

const (
	ActionKey      = "key"
	ActionNavigate = "navigate"
	ActionPreview  = "preview"
	ActionRestore  = "restore"
)

// Outbound frame types
const (
	FrameSession = "session"
	FrameRender  = "render"
	FramePatch   = "patch"
	FramePhase   = "phase"
	FrameClock   = "clock"
	FrameNav     = "nav"
	FrameScroll  = "scroll"
	FrameAck     = "ack"
	FrameError   = "error"
)

// Boards carried in the ID field of view frames
const (
	BoardTicker = "ticker"
	BoardLive   = "live"
	BoardClock  = "clock"
	BoardNav    = "nav"
)

type WSRequest struct {
	Action  string         `json:"action"`
	Payload RequestPayload `json:"payload"`
	ID      string         `json:"id,omitempty"`
}

type RequestPayload struct {
	Key    string `json:"key,omitempty"`
	Typing bool   `json:"typing,omitempty"` // focus is in an input, textarea, select or editable node
	Route  string `json:"route,omitempty"`
}

type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`     // board name or matching request ID
	Status  string      `json:"status,omitempty"` // "success", "error"
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PhaseData tells the client where the marquee should be in its cycle.
type PhaseData struct {
	OffsetSeconds float64 `json:"offset_seconds"`
	CycleSeconds  float64 `json:"cycle_seconds"`
	Delay         string  `json:"animation_delay"` // CSS value, always <= 0
}
