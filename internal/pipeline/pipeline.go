// Package pipeline wires the core stages (Tokenizer, EntityExtractor,
// Scorer, Selector) into the two calls every caller of the core needs:
// tokenize-and-extract, then score-and-select. It exists so cmd/compact
// and cmd/compact-watch share one path through the pipeline instead of
// each re-deriving it — neither binary holds any pipeline logic cmd/
// doesn't also need.
package pipeline

import (
	"fmt"

	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
	"github.com/agentlog/supercompact/internal/scorer"
	"github.com/agentlog/supercompact/internal/selector"
	"github.com/agentlog/supercompact/internal/tokenizer"
)

// Tokenize fills Tokens on every turn via c, falling back to the
// byte-based estimator on a per-turn tokenizer failure (spec §7). Returns
// one warning string per turn that fell back.
func Tokenize(turns []*rollout.Turn, c tokenizer.Counter) []string {
	var warnings []string
	for _, t := range turns {
		n, tokErr := tokenizer.CountWithFallback(c, t.Text)
		t.Tokens = n
		if tokErr != nil {
			warnings = append(warnings, fmt.Sprintf("turn %d: %v", t.Index, tokErr))
		}
	}
	return warnings
}

// ExtractEntities runs the extractor over every turn's text, keyed by
// turn index.
func ExtractEntities(turns []*rollout.Turn) map[int]entity.Set {
	x := entity.New()
	sets := make(map[int]entity.Set, len(turns))
	for _, t := range turns {
		sets[t.Index] = x.Extract(t.Text)
	}
	return sets
}

// Score runs the named scorer over the scorable subset of turns and
// returns its [0,1] score map, keyed by turn index. ok is false when name
// doesn't name a known scorer.
func Score(turns []*rollout.Turn, sets map[int]entity.Set, name string, minRepeatLen, shortThreshold int) (map[int]float64, bool) {
	s, ok := scorer.ByName(name, minRepeatLen)
	if !ok {
		return nil, false
	}
	scorable := selector.Scorable(turns, shortThreshold)
	scorableSets := make(map[int]entity.Set, len(scorable))
	for _, idx := range scorable {
		scorableSets[idx] = sets[idx]
	}
	idx := entity.BuildIndex(scorableSets)
	return s.Score(turns, scorable, scorableSets, idx), true
}

// Run tokenizes, extracts, scores, and selects in one call — the full
// pipeline short of emitting, which callers dialect-switch on themselves.
func Run(turns []*rollout.Turn, method string, budget, shortThreshold, minRepeatLen int) (res *selector.Result, scores map[int]float64, tokWarnings []string, ok bool) {
	tokWarnings = Tokenize(turns, tokenizer.New())
	sets := ExtractEntities(turns)
	scores, ok = Score(turns, sets, method, minRepeatLen, shortThreshold)
	if !ok {
		return nil, nil, tokWarnings, false
	}
	res = selector.Select(turns, scores, budget, shortThreshold)
	return res, scores, tokWarnings, true
}
