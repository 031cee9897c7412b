package scorer

import (
	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
)

// DryRun returns a deterministic pseudo-random score seeded only by turn
// index, so the rest of the pipeline — Selector, Emitter, the CLI's exit
// codes — can be exercised in tests without paying for tokenization or
// entity extraction (spec §4.4.4). It never consults sets or idx.
type DryRun struct{}

func (DryRun) Name() string { return "dry-run" }

func (DryRun) Score(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) map[int]float64 {
	out := make(map[int]float64, len(scorable))
	for _, ti := range scorable {
		out[ti] = seededUnit(ti)
	}
	return out
}

// seededUnit maps a turn index to a value in [0,1) via a fixed linear
// congruential step — the exact constants don't matter, only that the
// same index always yields the same value and nearby indices don't
// cluster.
func seededUnit(turnIndex int) float64 {
	x := uint64(turnIndex)*2654435761 + 0x9E3779B97F4A7C15
	x ^= x >> 33
	x *= 0xFF51AFD7ED558CCD
	x ^= x >> 33
	return float64(x%1_000_003) / 1_000_003.0
}
