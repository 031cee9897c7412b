// Package evalharness implements the entity-coverage evaluation of spec
// §4.7: split a transcript into a prefix and a suffix, compact the prefix
// as if it were the whole conversation, and measure how much of the
// suffix's referenced entities survived into the kept turns.
package evalharness

import (
	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
	"github.com/agentlog/supercompact/internal/scorer"
	"github.com/agentlog/supercompact/internal/selector"
)

// DefaultSplitRatio is spec §4.7's default prefix/suffix boundary.
const DefaultSplitRatio = 0.70

// TypeStat is one row of the per-entity-type coverage breakdown.
type TypeStat struct {
	Type     entity.Type
	Covered  int
	Total    int
	Coverage float64
	Weight   float64
}

// Result is one evaluation run's outcome.
type Result struct {
	Method     string
	Budget     int
	SplitIndex int // turn index where the suffix begins

	Coverage         float64 // unweighted: |E_future ∩ E_kept| / |E_future|
	WeightedCoverage float64
	TypeBreakdown    []TypeStat

	PrefixTokens int
	KeptTokens   int
	Compression  float64 // 1 - KeptTokens/PrefixTokens

	FutureEntityCount  int
	UnrecoverableCount int // in the prefix originally, dropped by compaction
}

// SplitIndex finds the turn index where the suffix begins: ratio of the
// way through the transcript, then advanced to the next user turn so the
// boundary never falls mid-exchange (spec §4.7: "adjust split point to
// next user turn").
func SplitIndex(turns []*rollout.Turn, ratio float64) int {
	if len(turns) == 0 {
		return 0
	}
	if ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		return len(turns)
	}
	point := int(ratio * float64(len(turns)))
	for point < len(turns) && turns[point].Role != rollout.TurnUser {
		point++
	}
	return point
}

// Run splits turns at ratio, compacts the prefix with the named method and
// budget, and scores suffix entity coverage against the compacted prefix's
// kept turns. sets must hold an entity.Set for every turn in turns.
func Run(turns []*rollout.Turn, sets map[int]entity.Set, method string, budget, shortThreshold, minRepeatLen int, ratio float64) (*Result, error) {
	split := SplitIndex(turns, ratio)
	prefix := turns[:split]
	suffix := turns[split:]

	s, ok := scorer.ByName(method, minRepeatLen)
	if !ok {
		return nil, &compacterr.InvalidArgument{Name: "method", Reason: "unknown scoring method: " + method}
	}

	prefixScorable := selector.Scorable(prefix, shortThreshold)
	prefixSets := make(map[int]entity.Set, len(prefixScorable))
	for _, idx := range prefixScorable {
		prefixSets[idx] = sets[idx]
	}
	idx := entity.BuildIndex(prefixSets)
	scores := s.Score(prefix, prefixScorable, prefixSets, idx)

	sel := selector.Select(prefix, scores, budget, shortThreshold)

	prefixTokens := 0
	for _, t := range prefix {
		prefixTokens += t.Tokens
	}

	prefixAll := entity.Set{}
	for _, t := range prefix {
		prefixAll = prefixAll.Union(sets[t.Index])
	}
	kept := entity.Set{}
	for _, ti := range sel.Kept {
		kept = kept.Union(sets[ti])
	}

	future := entity.Set{}
	for _, t := range suffix {
		if t.Role == rollout.TurnSystem && !t.Compacted && t.Tokens > shortThreshold {
			future = future.Union(sets[t.Index])
		}
	}

	res := &Result{
		Method:            method,
		Budget:            budget,
		SplitIndex:        split,
		PrefixTokens:      prefixTokens,
		KeptTokens:        sel.KeptTokens,
		FutureEntityCount: len(future),
	}
	if prefixTokens > 0 {
		res.Compression = 1 - float64(sel.KeptTokens)/float64(prefixTokens)
	}

	if len(future) == 0 {
		res.Coverage = 1
		res.WeightedCoverage = 1
	} else {
		covered := 0
		for e := range future {
			if kept[e] {
				covered++
			}
		}
		res.Coverage = float64(covered) / float64(len(future))

		var totalWeight, coveredWeight float64
		byType := make(map[entity.Type]*TypeStat)
		for _, t := range entity.Types {
			byType[t] = &TypeStat{Type: t, Weight: entity.Weight[t]}
		}
		for e := range future {
			st := byType[e.Type]
			st.Total++
			totalWeight += entity.Weight[e.Type]
			if kept[e] {
				st.Covered++
				coveredWeight += entity.Weight[e.Type]
			}
		}
		for _, t := range entity.Types {
			st := byType[t]
			if st.Total == 0 {
				continue
			}
			st.Coverage = float64(st.Covered) / float64(st.Total)
			res.TypeBreakdown = append(res.TypeBreakdown, *st)
		}
		if totalWeight > 0 {
			res.WeightedCoverage = coveredWeight / totalWeight
		}
	}

	for e := range prefixAll {
		if !kept[e] {
			res.UnrecoverableCount++
		}
	}

	return res, nil
}
