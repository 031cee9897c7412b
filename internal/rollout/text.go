package rollout

import "strings"

// extractResponseText pulls the plain-text content scorers and emitters operate on
// out of a response_item payload, collapsing the content-block array the
// same way the Codex CLI adapter does: concatenate every text/output_text/
// input_text/refusal block in order, and fall back to the flat Text field
// for dialects that don't nest content in blocks.
func extractResponseText(p responseItemPayload) string {
	if len(p.Content) > 0 {
		if blocks, ok := decodeContentBlocks(p.Content); ok {
			var b strings.Builder
			for _, blk := range blocks {
				switch blk.Type {
				case "text", "output_text", "input_text":
					if b.Len() > 0 && blk.Text != "" {
						b.WriteByte('\n')
					}
					b.WriteString(blk.Text)
				case "refusal":
					if b.Len() > 0 && blk.Refusal != "" {
						b.WriteByte('\n')
					}
					b.WriteString(blk.Refusal)
				}
			}
			if b.Len() > 0 {
				return b.String()
			}
		}
		if s, ok := decodeContentString(p.Content); ok {
			return s
		}
	}
	switch p.Type {
	case "function_call":
		if p.Arguments != "" {
			return p.Name + "(" + p.Arguments + ")"
		}
		return p.Name + "()"
	case "function_call_output":
		return p.Output
	case "reasoning":
		if s, ok := decodeContentString(p.Summary); ok {
			return s
		}
	}
	return p.Text
}

// isUserResponseItem decides whether a response_item is a genuine end-user
// message rather than assistant text, a tool invocation, or a tool's
// output — the latter three all become "system" contributors to a Turn.
// A "user"-role item whose content is entirely tool_result blocks (an
// echoed function_call_output wrapped by a client) does not count as a
// fresh user message, mirroring the Codex-CLI adapter's own rule.
func isUserResponseItem(p responseItemPayload) bool {
	if p.Role != "user" {
		return false
	}
	if p.SourceToolAssistantUUID != "" {
		return false
	}
	if blocks, ok := decodeContentBlocks(p.Content); ok {
		sawText := false
		for _, blk := range blocks {
			if blk.Type != "tool_result" {
				sawText = true
			}
		}
		if !sawText && len(blocks) > 0 {
			return false
		}
	}
	return true
}

func responseRole(p responseItemPayload) ResponseItemRole {
	switch {
	case p.Type == "function_call":
		return RoleToolCall
	case p.Type == "function_call_output":
		return RoleToolOutput
	case isUserResponseItem(p):
		return RoleUser
	default:
		return RoleAssistant
	}
}
