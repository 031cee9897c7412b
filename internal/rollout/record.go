// Package rollout parses a Codex-CLI-style rollout log — one JSON object
// per line under a "type" discriminator, payload nested under "payload" —
// into a canonical sequence of Records grouped into alternating user/system
// Turns. Recognized types: session_meta, turn_context, response_item,
// compacted, event_msg.
package rollout

import "encoding/json"

// Kind discriminates the five record variants the pipeline understands,
// plus Other for forward-compatible passthrough of unknown discriminators.
type Kind int

const (
	KindSessionMeta Kind = iota
	KindTurnContext
	KindResponseItem
	KindCompacted
	KindEventMsg
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindSessionMeta:
		return "session_meta"
	case KindTurnContext:
		return "turn_context"
	case KindResponseItem:
		return "response_item"
	case KindCompacted:
		return "compacted"
	case KindEventMsg:
		return "event_msg"
	default:
		return "other"
	}
}

// ResponseItemRole distinguishes the four response_item shapes the spec
// names: a genuine end-user message, assistant text, a tool/function
// invocation, or that invocation's output.
type ResponseItemRole int

const (
	RoleNone ResponseItemRole = iota
	RoleUser
	RoleAssistant
	RoleToolCall
	RoleToolOutput
)

// Record is one parsed line of the rollout log. Raw holds the exact
// original bytes (sans trailing newline) so the Emitter can round-trip a
// kept record byte-for-byte without re-encoding it.
type Record struct {
	Seq        int // position in the full, unfiltered record sequence
	LineNumber int
	Offset     int64
	Kind       Kind
	Type       string // raw discriminator string, preserved for Other records
	Timestamp  string
	Role       ResponseItemRole // only meaningful when Kind == KindResponseItem
	Text       string           // extracted plain text used for scoring/display
	Raw        []byte
}

// envelope is the outer shape shared by every record: a timestamp, a type
// discriminator, and an opaque payload nested underneath it.
type envelope struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// sessionMetaPayload carries the dialect version the Parser checks against
// its own known version; an unrecognized version produces a warning, not a
// failure (per the spec's §6 forward-compatibility rule).
type sessionMetaPayload struct {
	Version string `json:"version"`
}

// KnownDialectVersion is the dialect version this parser was written
// against. A SessionMeta record declaring any other version still parses,
// but the Parser attaches a warning.
const KnownDialectVersion = "1"

// turnContextPayload carries per-turn metadata (cwd, model, policy,
// user_instructions) that precedes the response items it describes.
type turnContextPayload struct {
	Cwd              string `json:"cwd"`
	Model            string `json:"model"`
	UserInstructions string `json:"user_instructions"`
}

// responseItemPayload is the real conversational content: a message
// (user/assistant/developer), a function call, or a function call's
// output.
type responseItemPayload struct {
	Role                    string          `json:"role"`
	Type                    string          `json:"type"`
	Content                 json.RawMessage `json:"content"`
	Name                    string          `json:"name"`
	Arguments               string          `json:"arguments"`
	Output                  string          `json:"output"`
	Summary                 json.RawMessage `json:"summary"`
	Text                    string          `json:"text"`
	SourceToolAssistantUUID string          `json:"sourceToolAssistantUUID"`
}

// contentBlock is one element of a response_item's content array: a text
// block, an output_text/input_text block, or a refusal.
type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Refusal  string `json:"refusal"`
}

// compactedPayload documents a prior compaction pass.
type compactedPayload struct {
	Message string `json:"message"`
}
