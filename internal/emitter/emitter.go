// Package emitter renders a Selector's kept-turn set back into one of the
// two output dialects the CLI supports (spec §4.6): the canonical Rollout
// dialect, which round-trips kept records byte-for-byte and appends a
// synthesized Compacted marker, and a plain-text Summary rendering meant
// as a prompt-ready context block.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/agentlog/supercompact/internal/rollout"
)

// PassInfo documents one compaction pass for the synthesized Compacted
// marker that Rollout appends. Every field is caller-supplied — including
// the timestamp — so Emitter itself never reads the wall clock and stays
// a pure function of its inputs (spec P5: identical inputs, identical
// output bytes, forever).
type PassInfo struct {
	Method    string
	Budget    int
	Kept      int
	Dropped   int
	ElapsedMs int64
	Timestamp string
	// PassID identifies this compaction pass (a uuid v4, caller-generated)
	// so repeated compactions of the same log are distinguishable in
	// tooling that greps for Compacted markers. Optional: left empty it
	// is simply omitted from the marker.
	PassID string
}

type markerEnvelope struct {
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Payload   markerPayload `json:"payload"`
}

type markerPayload struct {
	Message string `json:"message"`
	PassID  string `json:"pass_id,omitempty"`
}

type span struct{ first, last int }

func insideAnySpan(spans []span, seq int) bool {
	for _, s := range spans {
		if seq >= s.first && seq <= s.last {
			return true
		}
	}
	return false
}

// Rollout re-serializes tr, keeping only: the first SessionMeta record,
// every record belonging to a kept turn (including any TurnContext the
// parser attached to it), and any Other/EventMsg record that sits inside
// a kept turn's span. A single fresh Compacted marker is appended last,
// after every pre-existing kept record, so a reader can always find the
// most recent compaction pass by scanning from the end of the file rather
// than needing to know where in the stream it was inserted.
func Rollout(tr *rollout.Transcript, kept []int, info PassInfo) ([]byte, error) {
	keptSet := make(map[int]bool, len(kept))
	for _, idx := range kept {
		keptSet[idx] = true
	}

	memberSeq := make(map[int]bool)
	var spans []span
	for _, t := range tr.Turns {
		if !keptSet[t.Index] {
			continue
		}
		spans = append(spans, span{t.FirstSeq, t.LastSeq})
		for _, r := range t.Records {
			memberSeq[r.Seq] = true
		}
	}

	var buf bytes.Buffer
	sessionMetaWritten := false
	for _, r := range tr.Records {
		include := false
		switch r.Kind {
		case rollout.KindSessionMeta:
			if !sessionMetaWritten && tr.SessionMeta != nil && r.Seq == tr.SessionMeta.Seq {
				include = true
				sessionMetaWritten = true
			} else {
				include = insideAnySpan(spans, r.Seq)
			}
		case rollout.KindOther, rollout.KindEventMsg:
			include = insideAnySpan(spans, r.Seq)
		default:
			include = memberSeq[r.Seq]
		}
		if !include {
			continue
		}
		buf.Write(r.Raw)
		buf.WriteByte('\n')
	}

	marker, err := buildMarker(info)
	if err != nil {
		return nil, err
	}
	buf.Write(marker)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func buildMarker(info PassInfo) ([]byte, error) {
	msg := fmt.Sprintf("compacted via %s (budget=%d, kept=%d, dropped=%d, elapsed_ms=%d)",
		info.Method, info.Budget, info.Kept, info.Dropped, info.ElapsedMs)
	env := markerEnvelope{
		Timestamp: info.Timestamp,
		Type:      "compacted",
		Payload:   markerPayload{Message: msg, PassID: info.PassID},
	}
	return json.Marshal(env)
}

// Summary renders kept turns as a plain-text, prompt-ready block, each
// prefixed with a small header naming its turn index, score, and token
// count (spec §4.6). Turns with no entry in scores (user turns, short
// system turns, Compacted markers) show a score of 0.
func Summary(tr *rollout.Transcript, kept []int, scores map[int]float64) []byte {
	keptSet := make(map[int]bool, len(kept))
	for _, idx := range kept {
		keptSet[idx] = true
	}

	var buf bytes.Buffer
	first := true
	for _, t := range tr.Turns {
		if !keptSet[t.Index] {
			continue
		}
		if !first {
			buf.WriteString("\n\n")
		}
		first = false
		fmt.Fprintf(&buf, "[turn %d | score %.3f | tokens %d]\n%s", t.Index, scores[t.Index], t.Tokens, t.Text)
	}
	return buf.Bytes()
}

// ScoresCSV renders one row per turn — index, role, tokens, score, and
// whether it was kept — for the optional --scores-file output (spec §6).
// Grounded on the original's write_scores_csv, minus the text preview
// column: this port keeps the CSV strictly to the fields spec §6 names.
func ScoresCSV(turns []*rollout.Turn, scores map[int]float64, kept []int) []byte {
	keptSet := make(map[int]bool, len(kept))
	for _, idx := range kept {
		keptSet[idx] = true
	}

	var buf bytes.Buffer
	buf.WriteString("turn_index,role,tokens,score,kept\n")
	for _, t := range turns {
		fmt.Fprintf(&buf, "%d,%s,%d,%.4f,%t\n", t.Index, t.Role.String(), t.Tokens, scores[t.Index], keptSet[t.Index])
	}
	return buf.Bytes()
}
