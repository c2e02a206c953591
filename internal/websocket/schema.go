package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing      Action = "ping"
	ActionSubscribe Action = "subscribe"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventViolation Event = "violation"
	EventPong      Event = "pong"
)

// ViolationFrame carries one proctoring event to the monitoring
// dashboard. The payload mirrors what the session service publishes on
// the job's Redis channel.
type ViolationFrame struct {
	Event          Event  `json:"event"`
	AssessmentID   string `json:"assessment_id"`
	SessionID      string `json:"session_id"`
	CandidateName  string `json:"candidate_name"`
	Kind           string `json:"kind"`
	Detail         string `json:"detail,omitempty"`
	ViolationCount int    `json:"violation_count"`
	Terminated     bool   `json:"terminated"`
	Timestamp      int64  `json:"timestamp"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
