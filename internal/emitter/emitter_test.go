package emitter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentlog/supercompact/internal/rollout"
)

func rawLine(typ, payload string) string {
	if payload == "" {
		payload = "{}"
	}
	return `{"timestamp":"2026-01-01T00:00:00Z","type":"` + typ + `","payload":` + payload + `}`
}

func parseLines(t *testing.T, lines []string) *rollout.Transcript {
	t.Helper()
	tr, err := rollout.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tr
}

func TestRolloutKeepsSessionMetaFirstUserTurnAndSpanEventMsg(t *testing.T) {
	lines := []string{
		rawLine("session_meta", `{"version":"1"}`),
		rawLine("response_item", `{"role":"user","type":"message","content":"a1"}`),
		rawLine("event_msg", `{"note":"inside the user turn's span"}`),
		rawLine("response_item", `{"role":"user","type":"message","content":"a2"}`),
		rawLine("response_item", `{"role":"assistant","type":"message","content":"b"}`),
		rawLine("event_msg", `{"note":"outside any kept span"}`),
		rawLine("response_item", `{"role":"user","type":"message","content":"c"}`),
	}
	tr := parseLines(t, lines)
	if len(tr.Turns) != 3 {
		t.Fatalf("want 3 turns, got %d", len(tr.Turns))
	}
	// Turn 0 spans seq 1..3 (two user messages straddling the in-span
	// event_msg at seq 2). Turn 1 (assistant, seq 4) is dropped. Turn 2
	// (user, seq 6) is kept, but the event_msg at seq 5 sits between the
	// dropped turn 1's own span and turn 2's span, so it stays outside
	// every kept turn's span and must be dropped too.
	kept := []int{tr.Turns[0].Index, tr.Turns[2].Index}
	out, err := Rollout(tr, kept, PassInfo{Method: "eitf", Budget: 1000, Kept: 2, Dropped: 1, ElapsedMs: 5, Timestamp: "2026-01-01T00:00:01Z"})
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `"session_meta"`) {
		t.Error("want SessionMeta preserved")
	}
	if !strings.Contains(got, `"a1"`) || !strings.Contains(got, `"a2"`) {
		t.Error("want both records of the kept first user turn preserved")
	}
	if !strings.Contains(got, `"c"`) {
		t.Error("want kept second user turn preserved")
	}
	if strings.Contains(got, `"b"`) {
		t.Error("want dropped assistant turn absent")
	}
	if !strings.Contains(got, "inside the user turn's span") {
		t.Error("want the event_msg record inside the kept turn's span preserved")
	}
	if strings.Contains(got, "outside any kept span") {
		t.Error("want the event_msg record outside any kept span dropped")
	}
	if !strings.Contains(got, `"compacted"`) {
		t.Error("want a fresh Compacted marker appended")
	}
	if !strings.Contains(got, "kept=2, dropped=1") {
		t.Errorf("want marker message to document pass counts, got %s", got)
	}
}

func TestRolloutMarkerIsLastLine(t *testing.T) {
	lines := []string{
		rawLine("session_meta", `{"version":"1"}`),
		rawLine("response_item", `{"role":"user","type":"message","content":"a"}`),
	}
	tr := parseLines(t, lines)
	kept := []int{tr.Turns[0].Index}
	out, err := Rollout(tr, kept, PassInfo{Method: "dry-run", Budget: 10, Kept: 1, Timestamp: "t"})
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	rawLines := bytes.Split(bytes.TrimRight(out, "\n"), []byte("\n"))
	last := rawLines[len(rawLines)-1]
	if !bytes.Contains(last, []byte(`"compacted"`)) {
		t.Errorf("want the Compacted marker to be the final line, got %s", last)
	}
}

func TestRolloutIsIdempotent(t *testing.T) {
	lines := []string{
		rawLine("session_meta", `{"version":"1"}`),
		rawLine("response_item", `{"role":"user","type":"message","content":"a"}`),
		rawLine("response_item", `{"role":"assistant","type":"message","content":"b"}`),
	}
	tr := parseLines(t, lines)
	kept := []int{tr.Turns[0].Index, tr.Turns[1].Index}
	info := PassInfo{Method: "eitf", Budget: 500, Kept: 2, Timestamp: "2026-01-01T00:00:00Z"}
	out1, err := Rollout(tr, kept, info)
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	out2, err := Rollout(tr, kept, info)
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Error("want byte-identical output for identical inputs")
	}
}

func TestRolloutMarkerCarriesPassID(t *testing.T) {
	lines := []string{
		rawLine("response_item", `{"role":"user","type":"message","content":"a"}`),
	}
	tr := parseLines(t, lines)
	kept := []int{tr.Turns[0].Index}
	out, err := Rollout(tr, kept, PassInfo{Method: "eitf", Budget: 10, Kept: 1, Timestamp: "t", PassID: "11111111-1111-4111-8111-111111111111"})
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	if !strings.Contains(string(out), `"pass_id":"11111111-1111-4111-8111-111111111111"`) {
		t.Errorf("want pass_id in marker payload, got %s", out)
	}
}

func TestRolloutMarkerOmitsEmptyPassID(t *testing.T) {
	lines := []string{
		rawLine("response_item", `{"role":"user","type":"message","content":"a"}`),
	}
	tr := parseLines(t, lines)
	kept := []int{tr.Turns[0].Index}
	out, err := Rollout(tr, kept, PassInfo{Method: "eitf", Budget: 10, Kept: 1, Timestamp: "t"})
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}
	if strings.Contains(string(out), "pass_id") {
		t.Errorf("want no pass_id key when PassID is empty, got %s", out)
	}
}

func TestSummaryRendersHeaderAndText(t *testing.T) {
	lines := []string{
		rawLine("response_item", `{"role":"user","type":"message","content":"hello there"}`),
	}
	tr := parseLines(t, lines)
	kept := []int{tr.Turns[0].Index}
	scores := map[int]float64{tr.Turns[0].Index: 0.75}
	out := Summary(tr, kept, scores)
	got := string(out)
	if !strings.Contains(got, "[turn 0 | score 0.750 | tokens") {
		t.Errorf("want a turn header, got %q", got)
	}
	if !strings.Contains(got, "hello there") {
		t.Errorf("want the turn text included, got %q", got)
	}
}

func TestScoresCSVHasOneRowPerTurn(t *testing.T) {
	lines := []string{
		rawLine("response_item", `{"role":"user","type":"message","content":"a"}`),
		rawLine("response_item", `{"role":"assistant","type":"message","content":"b"}`),
	}
	tr := parseLines(t, lines)
	scores := map[int]float64{tr.Turns[1].Index: 0.5}
	out := ScoresCSV(tr.Turns, scores, []int{tr.Turns[0].Index})
	rows := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(rows) != 3 { // header + 2 turns
		t.Fatalf("want header plus 2 rows, got %d: %v", len(rows), rows)
	}
	if rows[0] != "turn_index,role,tokens,score,kept" {
		t.Errorf("want the spec's exact header, got %q", rows[0])
	}
	if !strings.Contains(rows[1], ",true") {
		t.Errorf("want turn 0 marked kept, got %q", rows[1])
	}
	if !strings.Contains(rows[2], ",false") {
		t.Errorf("want turn 1 marked not kept, got %q", rows[2])
	}
}
