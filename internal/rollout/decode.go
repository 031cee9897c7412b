package rollout

import "encoding/json"

// decodeContentBlocks handles the "content is an array of typed blocks"
// shape. The second return value is false when raw isn't a JSON array, so
// callers can fall back to the plain-string shape.
func decodeContentBlocks(raw json.RawMessage) ([]contentBlock, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, false
	}
	return blocks, true
}

// decodeContentString handles the "content is a bare string" shape some
// dialect producers use for simple text messages.
func decodeContentString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
