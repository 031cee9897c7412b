package scorer

import (
	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
)

// setCoverDFThreshold and setCoverBonusFactor implement spec §4.4.2's
// exclusivity bonus: entities held by very few turns (df <= 2) reward
// every turn that carries them, so a scarce-but-important reference
// (a one-off stack trace) doesn't get starved by turns with denser but
// less distinctive entity sets.
const (
	setCoverDFThreshold = 2
	setCoverBonusFactor = 0.20
)

// SetCover computes EITF, then adds a capped additive exclusivity bonus
// for entities that are nearly unique to the transcript, before
// re-normalizing.
type SetCover struct{}

func (SetCover) Name() string { return "setcover" }

func (SetCover) Score(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) map[int]float64 {
	return setCoverBonused(turns, scorable, sets, idx).normalize()
}

// setCoverBonused computes the pre-normalization score: EITF's raw score
// plus the capped exclusivity bonus. Split out from Score so tests can
// inspect it directly against rawEITF.
func setCoverBonused(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) scores {
	raw := rawEITF(turns, scorable, sets, idx)
	bonused := make(scores, len(raw))
	for _, ti := range scorable {
		base := raw[ti]
		var bonus float64
		for e := range sets[ti] {
			if idx.DF(e) <= setCoverDFThreshold {
				bonus += setCoverBonusFactor * entity.Weight[e.Type]
			}
		}
		capAt := 2 * base
		v := base + bonus
		if base > 0 && v > capAt {
			v = capAt
		}
		bonused[ti] = v
	}
	return bonused
}
