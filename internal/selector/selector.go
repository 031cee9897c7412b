// Package selector implements the budget-constrained turn selection pass
// (spec §4.5): pin what must never be dropped, then greedily fill the
// remaining budget with the highest-scoring system turns.
package selector

import (
	"sort"

	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/rollout"
)

// RecencyWeight is the additive recency bonus applied to the raw score
// before ranking (spec §4.5 step 3, flagged in spec §9 as a constant an
// implementer should expose — kept as a named constant here rather than
// hidden inline, so a future config layer has an obvious hook).
const RecencyWeight = 0.15

// Result is the outcome of one selection pass.
type Result struct {
	Kept           []int // all kept turn indices, in original turn order
	Pinned         []int // subset of Kept that was pinned, in original turn order
	DroppedScored  []int // scorable turns that did not make the cut
	PinnedTokens   int
	KeptTokens     int
	OverBudget     bool
	BudgetErr      *compacterr.BudgetTooSmallError // non-nil iff OverBudget
}

// Scorable reports the turn indices eligible for scoring: system turns
// that are not a Compacted marker and exceed shortThreshold tokens. Every
// other turn is either always pinned (user turns, Compacted markers) or
// pinned for being short.
func Scorable(turns []*rollout.Turn, shortThreshold int) []int {
	var out []int
	for _, t := range turns {
		if t.Role == rollout.TurnSystem && !t.Compacted && t.Tokens > shortThreshold {
			out = append(out, t.Index)
		}
	}
	return out
}

// Select runs the full pin/budget/greedy-fill algorithm. scores holds one
// entry per scorable turn index, as produced by a scorer.Scorer.
func Select(turns []*rollout.Turn, scores map[int]float64, budget, shortThreshold int) *Result {
	byIndex := make([]*rollout.Turn, len(turns))
	for _, t := range turns {
		byIndex[t.Index] = t
	}

	pinned := map[int]bool{}
	for _, t := range turns {
		switch {
		case t.Role == rollout.TurnUser:
			pinned[t.Index] = true
		case t.Compacted:
			pinned[t.Index] = true
		case t.Role == rollout.TurnSystem && t.Tokens <= shortThreshold:
			pinned[t.Index] = true
		}
	}

	pinnedTokens := 0
	for idx := range pinned {
		pinnedTokens += byIndex[idx].Tokens
	}

	// The most recent scorable system turn is pinned, but only when doing
	// so still leaves the pinned total within budget. If forcing it in
	// would already overrun the budget on its own, it falls back into the
	// ordinary scorable pool and competes for the remaining room like any
	// other candidate, instead of single-handedly triggering the
	// over-budget branch.
	scorable := Scorable(turns, shortThreshold)
	if len(scorable) > 0 {
		mostRecent := scorable[len(scorable)-1]
		if !pinned[mostRecent] {
			if pinnedTokens+byIndex[mostRecent].Tokens <= budget {
				pinned[mostRecent] = true
				pinnedTokens += byIndex[mostRecent].Tokens
			}
		}
	}

	res := &Result{PinnedTokens: pinnedTokens}
	for idx := range pinned {
		res.Pinned = append(res.Pinned, idx)
	}
	sort.Ints(res.Pinned)

	if pinnedTokens > budget {
		res.OverBudget = true
		res.BudgetErr = &compacterr.BudgetTooSmallError{RequiredPinned: pinnedTokens, Budget: budget}
		res.Kept = append([]int(nil), res.Pinned...)
		res.KeptTokens = pinnedTokens
		for _, idx := range scorable {
			if !pinned[idx] {
				res.DroppedScored = append(res.DroppedScored, idx)
			}
		}
		return res
	}

	n := len(turns)
	type candidate struct {
		index    int
		adjusted float64
	}
	var candidates []candidate
	for _, idx := range scorable {
		if pinned[idx] {
			continue
		}
		recency := 0.0
		if n > 1 {
			recency = float64(idx) / float64(n-1)
		}
		candidates = append(candidates, candidate{index: idx, adjusted: scores[idx] + RecencyWeight*recency})
	}

	// Strict descending by adjusted score; ties broken by higher index
	// (spec P6: later-index turn wins a tie).
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].adjusted != candidates[j].adjusted {
			return candidates[i].adjusted > candidates[j].adjusted
		}
		return candidates[i].index > candidates[j].index
	})

	remaining := budget - pinnedTokens
	kept := map[int]bool{}
	for idx := range pinned {
		kept[idx] = true
	}
	keptTokens := pinnedTokens

	// Strict descending greedy fill (REDESIGN FLAG vs. the Python source,
	// which skips a too-big candidate and keeps scanning for a smaller one
	// that fits). Stop at the first candidate that doesn't fit; everything
	// after it in score order is dropped too, even if it would have fit.
	stopped := false
	for _, c := range candidates {
		if stopped {
			res.DroppedScored = append(res.DroppedScored, c.index)
			continue
		}
		tokens := byIndex[c.index].Tokens
		if tokens <= remaining {
			kept[c.index] = true
			keptTokens += tokens
			remaining -= tokens
		} else {
			stopped = true
			res.DroppedScored = append(res.DroppedScored, c.index)
		}
	}

	for idx := range kept {
		res.Kept = append(res.Kept, idx)
	}
	sort.Ints(res.Kept)
	sort.Ints(res.DroppedScored)
	res.KeptTokens = keptTokens
	return res
}
