package rollout

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentlog/supercompact/internal/compacterr"
)

// ParseFile opens path and parses it as a rollout log.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &compacterr.IoError{Path: path, Reason: "open", Cause: err}
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a rollout log from r and groups it into a Transcript. Unlike
// a best-effort transcript reader, this parser cannot skip malformed
// lines: the Emitter must be able to reconstruct the untouched portions of
// the file byte-for-byte, so any line that isn't valid framing fails the
// whole pass with a *compacterr.ParseError.
func Parse(r io.Reader) (*Transcript, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	t := &Transcript{}
	g := &grouper{}

	var offset int64
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		lineBytes := scanner.Bytes()
		lineStart := offset
		offset += int64(len(lineBytes)) + 1

		line := strings.TrimSpace(string(lineBytes))
		if line == "" {
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return nil, &compacterr.ParseError{Line: lineNum, Offset: lineStart, Reason: err.Error()}
		}

		rec := &Record{
			Seq:        len(t.Records),
			LineNumber: lineNum,
			Offset:     lineStart,
			Type:       env.Type,
			Timestamp:  env.Timestamp,
			Raw:        append([]byte(nil), lineBytes...),
		}

		switch env.Type {
		case "session_meta":
			rec.Kind = KindSessionMeta
			var p sessionMetaPayload
			if len(env.Payload) > 0 {
				if err := json.Unmarshal(env.Payload, &p); err != nil {
					return nil, &compacterr.ParseError{Line: lineNum, Offset: lineStart, Reason: "malformed session_meta payload: " + err.Error()}
				}
			}
			if p.Version != "" && p.Version != KnownDialectVersion {
				t.Warnings = append(t.Warnings, fmt.Sprintf("line %d: unrecognized dialect version %q, treating session_meta as opaque", lineNum, p.Version))
			}
			if t.SessionMeta == nil {
				t.SessionMeta = rec
			}
		case "turn_context":
			rec.Kind = KindTurnContext
		case "response_item":
			rec.Kind = KindResponseItem
			var p responseItemPayload
			if len(env.Payload) > 0 {
				if err := json.Unmarshal(env.Payload, &p); err != nil {
					return nil, &compacterr.ParseError{Line: lineNum, Offset: lineStart, Reason: "malformed response_item payload: " + err.Error()}
				}
			}
			rec.Role = responseRole(p)
			rec.Text = extractResponseText(p)
		case "compacted":
			rec.Kind = KindCompacted
			var p compactedPayload
			if len(env.Payload) > 0 {
				_ = json.Unmarshal(env.Payload, &p)
			}
			rec.Text = p.Message
		case "event_msg":
			rec.Kind = KindEventMsg
		default:
			rec.Kind = KindOther
		}

		t.Records = append(t.Records, rec)
		g.feed(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &compacterr.IoError{Path: "", Reason: "scan", Cause: err}
	}

	t.Turns = g.finish()
	return t, nil
}
