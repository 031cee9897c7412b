package scorer

import (
	"math"

	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
)

// BM25-style length-normalization constants, per spec §4.4.1.
const (
	eitfK1 = 1.5
	eitfB  = 0.75
)

// EITF scores a turn by its entities' frequency × inverse-turn-frequency,
// divided by a BM25-style length-normalization term.
type EITF struct{}

func (EITF) Name() string { return "eitf" }

func (EITF) Score(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) map[int]float64 {
	return rawEITF(turns, scorable, sets, idx).normalize()
}

// rawEITF computes the pre-normalization raw(t) for every scorable turn;
// SetCover reuses this before applying its exclusivity bonus.
func rawEITF(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) scores {
	n := len(scorable)
	out := make(scores, n)
	if n == 0 {
		return out
	}

	avgTokens := avgTokensOf(turns, scorable)

	for _, ti := range scorable {
		set := sets[ti]
		var numerator float64
		for e := range set {
			df := idx.DF(e)
			if df <= 0 {
				df = 1
			}
			numerator += entity.Weight[e.Type] * math.Log(1+float64(n)/float64(df))
		}
		l := eitfK1*(1-eitfB+eitfB*float64(turns[ti].Tokens)/avgTokens) + 1
		if numerator == 0 {
			out[ti] = 0
			continue
		}
		out[ti] = numerator / l
	}
	return out
}

func avgTokensOf(turns []*rollout.Turn, scorable []int) float64 {
	if len(scorable) == 0 {
		return 1
	}
	var total int
	for _, ti := range scorable {
		total += turns[ti].Tokens
	}
	avg := float64(total) / float64(len(scorable))
	if avg <= 0 {
		return 1
	}
	return avg
}
