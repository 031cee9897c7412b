// Package scorer implements the four turn-scoring strategies the
// Selector chooses between: EITF, SetCover, Dedup, and a deterministic
// Dry-run stand-in for testing (spec §4.4). Every scorer shares one
// contract: given all turns, the subset of scorable turn indices (role
// system, tokens > short_threshold), and the global entity index, produce
// a score in [0,1] per scorable turn.
package scorer

import (
	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
)

// Scorer assigns a [0,1] relevance score to every turn named in scorable.
type Scorer interface {
	Name() string
	Score(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) map[int]float64
}

// scores is a raw (possibly un-normalized) per-turn score map with a
// shared min-max normalization helper every scorer finishes with.
type scores map[int]float64

// normalize min-max scales scores into [0,1]. Ties at a flat distribution
// collapse to 0 when every raw score is 0 (spec: "a turn with no entities
// receives raw score 0", and that must survive normalization), or to 1
// when every raw score is equal and positive.
func (s scores) normalize() map[int]float64 {
	out := make(map[int]float64, len(s))
	if len(s) == 0 {
		return out
	}
	min, max := s.minMax()
	if max == min {
		v := 0.0
		if max > 0 {
			v = 1.0
		}
		for k := range s {
			out[k] = v
		}
		return out
	}
	for k, v := range s {
		out[k] = (v - min) / (max - min)
	}
	return out
}

func (s scores) minMax() (float64, float64) {
	first := true
	var min, max float64
	for _, v := range s {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// ByName returns the built-in scorer for a method name, one of the
// --method flag's recognized values. minRepeatLen only affects Dedup.
func ByName(name string, minRepeatLen int) (Scorer, bool) {
	switch name {
	case "eitf":
		return EITF{}, true
	case "setcover":
		return SetCover{}, true
	case "dedup":
		if minRepeatLen <= 0 {
			minRepeatLen = 64
		}
		return Dedup{MinRepeatLen: minRepeatLen}, true
	case "dry-run":
		return DryRun{}, true
	default:
		return nil, false
	}
}
