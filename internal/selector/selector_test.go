package selector

import (
	"testing"

	"github.com/agentlog/supercompact/internal/rollout"
)

func turn(idx int, role rollout.TurnRole, tokens int) *rollout.Turn {
	return &rollout.Turn{Index: idx, Role: role, Tokens: tokens}
}

func compactedTurn(idx, tokens int) *rollout.Turn {
	t := turn(idx, rollout.TurnSystem, tokens)
	t.Compacted = true
	return t
}

// Scenario 1: already within budget — every scorable turn fits, nothing
// dropped, nothing over budget.
func TestSelectAlreadyWithinBudget(t *testing.T) {
	turns := []*rollout.Turn{
		turn(0, rollout.TurnUser, 100),
		turn(1, rollout.TurnSystem, 1500),
		turn(2, rollout.TurnUser, 100),
		turn(3, rollout.TurnSystem, 1500),
		turn(4, rollout.TurnUser, 100),
		turn(5, rollout.TurnSystem, 1000),
		turn(6, rollout.TurnUser, 100),
		turn(7, rollout.TurnSystem, 1000),
	}
	scores := map[int]float64{1: 0.2, 3: 0.4, 5: 0.6, 7: 0.8}
	res := Select(turns, scores, 80000, 300)
	if res.OverBudget {
		t.Fatalf("did not expect over-budget, got %+v", res)
	}
	if len(res.DroppedScored) != 0 {
		t.Errorf("want nothing dropped, got %v", res.DroppedScored)
	}
	if len(res.Kept) != len(turns) {
		t.Errorf("want all %d turns kept, got %d: %v", len(turns), len(res.Kept), res.Kept)
	}
}

// Scenario 2: pin-only fit. 3 user turns (200 tok), 1 scorable system turn
// (600 tok), budget 1000. The scorable turn, if force-pinned as "most
// recent", would push pinned tokens to 1200 > 1000 — so it falls back into
// the ordinary candidate pool instead, where it doesn't fit the remaining
// 400 tokens and is dropped. Matches the spec's literal worked example.
func TestSelectPinOnlyFitDropsLoneScorableTurn(t *testing.T) {
	turns := []*rollout.Turn{
		turn(0, rollout.TurnUser, 200),
		turn(1, rollout.TurnUser, 200),
		turn(2, rollout.TurnUser, 200),
		turn(3, rollout.TurnSystem, 600),
	}
	scores := map[int]float64{3: 0.5}
	res := Select(turns, scores, 1000, 300)
	if res.OverBudget {
		t.Fatalf("want exit 0, not over-budget: %+v", res)
	}
	if len(res.DroppedScored) != 1 || res.DroppedScored[0] != 3 {
		t.Errorf("want turn 3 dropped, got %v", res.DroppedScored)
	}
	for _, idx := range []int{0, 1, 2} {
		found := false
		for _, k := range res.Kept {
			if k == idx {
				found = true
			}
		}
		if !found {
			t.Errorf("want user turn %d kept", idx)
		}
	}
}

// Scenario 3: over-budget pinning. 10 user turns totaling 4000 tokens,
// budget 1000 — no scorable system turns at all, so pinning alone blows
// the budget and BudgetTooSmallError fires.
func TestSelectOverBudgetPinning(t *testing.T) {
	var turns []*rollout.Turn
	for i := 0; i < 10; i++ {
		turns = append(turns, turn(i, rollout.TurnUser, 400))
	}
	res := Select(turns, map[int]float64{}, 1000, 300)
	if !res.OverBudget {
		t.Fatalf("want over-budget, got %+v", res)
	}
	if res.BudgetErr == nil || res.BudgetErr.RequiredPinned != 4000 || res.BudgetErr.Budget != 1000 {
		t.Errorf("want BudgetTooSmallError{4000,1000}, got %+v", res.BudgetErr)
	}
	if len(res.Kept) != 10 {
		t.Errorf("want all 10 user turns kept even over budget, got %d", len(res.Kept))
	}
}

// Scenario 4: EITF tie-break. Two scorable turns with identical raw score
// and token count; budget fits exactly one. The later turn wins.
func TestSelectTieBreakPrefersLaterIndex(t *testing.T) {
	turns := []*rollout.Turn{
		turn(0, rollout.TurnUser, 50),
		turn(1, rollout.TurnSystem, 500),
		turn(2, rollout.TurnUser, 50),
		turn(3, rollout.TurnSystem, 500),
	}
	scores := map[int]float64{1: 0.5, 3: 0.5}
	// Pinned: the two user turns (100) plus the most recent scorable turn
	// (3) at 500 tokens — 600 total, within the 600 budget. Remaining is 0,
	// so turn 1 never fits: the later turn wins through the most-recent
	// pin, before the greedy fill's tie rule is reached.
	res := Select(turns, scores, 600, 300)
	wantKept := map[int]bool{0: true, 2: true, 3: true}
	if len(res.Kept) != len(wantKept) {
		t.Fatalf("want 3 turns kept, got %v", res.Kept)
	}
	for _, k := range res.Kept {
		if !wantKept[k] {
			t.Errorf("unexpected turn %d kept", k)
		}
	}
	if len(res.DroppedScored) != 1 || res.DroppedScored[0] != 1 {
		t.Errorf("want turn 1 dropped, got %v", res.DroppedScored)
	}
}

// Among two equally-scored candidates that are neither pinned nor the
// forced most-recent-turn pin (a third, much later and much larger turn
// holds that slot and never fits regardless), the recency term alone
// decides greedy order: the later of the two has the larger adjusted
// score and is tried — and kept — first.
func TestSelectRecencyBreaksGreedyOrderAmongEqualScores(t *testing.T) {
	turns := []*rollout.Turn{
		turn(0, rollout.TurnUser, 50),
		turn(1, rollout.TurnSystem, 500),
		turn(2, rollout.TurnSystem, 500),
		turn(3, rollout.TurnSystem, 5000),
	}
	scores := map[int]float64{1: 0.5, 2: 0.5, 3: 0.0}
	res := Select(turns, scores, 600, 300)
	wantKept := map[int]bool{0: true, 2: true}
	if len(res.Kept) != len(wantKept) {
		t.Fatalf("want turns 0 and 2 kept, got %v", res.Kept)
	}
	for _, k := range res.Kept {
		if !wantKept[k] {
			t.Errorf("unexpected turn %d kept", k)
		}
	}
	wantDropped := map[int]bool{1: true, 3: true}
	if len(res.DroppedScored) != len(wantDropped) {
		t.Fatalf("want turns 1 and 3 dropped, got %v", res.DroppedScored)
	}
	for _, d := range res.DroppedScored {
		if !wantDropped[d] {
			t.Errorf("unexpected turn %d dropped", d)
		}
	}
}

// Compacted markers are always pinned regardless of token count or score.
func TestSelectCompactedAlwaysPinned(t *testing.T) {
	turns := []*rollout.Turn{
		compactedTurn(0, 50),
		turn(1, rollout.TurnUser, 50),
		turn(2, rollout.TurnSystem, 50000),
	}
	res := Select(turns, map[int]float64{2: 0.9}, 100, 300)
	found := false
	for _, k := range res.Pinned {
		if k == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("want Compacted turn 0 in pinned set, got %v", res.Pinned)
	}
}

// Strict descending greedy fill never skips a big miss to pick up a
// smaller later candidate that would have fit (the REDESIGN FLAG
// behavior, as opposed to the Python source's skip-and-continue). Turn 2
// is the forced most-recent pin, leaving turns 0 and 1 to compete: turn
// 0 scores highest and is tried first but doesn't fit the 350 tokens
// left after the forced pin; turn 1 (310 tokens) would fit in that same
// remainder but must still be dropped because the walk already stopped.
func TestSelectStrictDescendingDoesNotBackfillSmallerCandidate(t *testing.T) {
	turns := []*rollout.Turn{
		turn(0, rollout.TurnSystem, 900),
		turn(1, rollout.TurnSystem, 310),
		turn(2, rollout.TurnSystem, 350),
	}
	scores := map[int]float64{0: 0.9, 1: 0.1, 2: 0.2}
	res := Select(turns, scores, 700, 300)
	if len(res.Kept) != 1 || res.Kept[0] != 2 {
		t.Fatalf("want only the forced-pin turn 2 kept, got %v", res.Kept)
	}
	wantDropped := map[int]bool{0: true, 1: true}
	if len(res.DroppedScored) != len(wantDropped) {
		t.Fatalf("want turns 0 and 1 dropped, got %v", res.DroppedScored)
	}
	for _, d := range res.DroppedScored {
		if !wantDropped[d] {
			t.Errorf("unexpected turn %d dropped", d)
		}
	}
}
