package scorer

import (
	"index/suffixarray"

	"github.com/agentlog/supercompact/internal/entity"
	"github.com/agentlog/supercompact/internal/rollout"
)

// DedupSizeGate bounds the suffix-array substring search the Dedup scorer
// performs, since it is the pipeline's largest single resource consumer:
// above this size Score returns a zero vector. No warning is emitted when
// the gate trips.
const DedupSizeGate = 1 << 20 // 1 MiB of concatenated scorable text

// Dedup scores each turn by the fraction of its text that was not
// already present in an earlier turn — maximal substrings "first
// introduced" by this turn, per spec §4.4.3. The original design note
// names a Blumer suffix automaton; this implementation gets the same
// answer (longest-previous-factor per position) from a suffix array plus
// binary-searched substring lookups via the stdlib index/suffixarray
// package, which is exact and needs no third-party automaton library.
type Dedup struct {
	MinRepeatLen int
	GatedOut     bool // never set by Score (value receiver); stays false even when the size gate trips
}

func (Dedup) Name() string { return "dedup" }

func (d Dedup) Score(turns []*rollout.Turn, scorable []int, sets map[int]entity.Set, idx *entity.Index) map[int]float64 {
	minRepeat := d.MinRepeatLen
	if minRepeat <= 0 {
		minRepeat = 64
	}

	n := len(scorable)
	out := make(map[int]float64, n)
	if n == 0 {
		return out
	}

	// sentinel separates turns so a match never silently crosses a
	// turn boundary it shouldn't.
	const sentinel = 0x00

	var buf []byte
	turnStart := make(map[int]int, n)
	turnEnd := make(map[int]int, n)
	for _, ti := range scorable {
		turnStart[ti] = len(buf)
		buf = append(buf, turns[ti].Text...)
		turnEnd[ti] = len(buf)
		buf = append(buf, sentinel)
	}

	if len(buf) > DedupSizeGate {
		for _, ti := range scorable {
			out[ti] = 0
		}
		return out
	}

	idxSA := suffixarray.New(buf)
	raw := make(scores, n)

	for _, ti := range scorable {
		start, end := turnStart[ti], turnEnd[ti]
		length := end - start
		if length == 0 {
			raw[ti] = 0
			continue
		}
		covered := make([]bool, length)
		reachEnd := 0
		for pos := start; pos < end; pos++ {
			rel := pos - start
			if rel < reachEnd {
				covered[rel] = true
			}
			if end-pos < minRepeat {
				continue
			}
			matchLen := longestPriorMatch(idxSA, buf, pos, end, start, minRepeat)
			if matchLen >= minRepeat {
				covered[rel] = true
				if pos+matchLen-start > reachEnd {
					reachEnd = pos + matchLen - start
				}
			}
		}
		unique := 0
		for _, c := range covered {
			if !c {
				unique++
			}
		}
		raw[ti] = float64(unique) / float64(length)
	}

	return raw.normalize()
}

// longestPriorMatch finds the longest L such that buf[pos:pos+L] also
// occurs starting at some offset strictly before turnStart — i.e. in an
// earlier turn — via binary search over L using the suffix array's exact
// substring lookup.
func longestPriorMatch(idxSA *suffixarray.Index, buf []byte, pos, end, turnStart, minRepeat int) int {
	maxLen := end - pos
	lo, hi := 0, maxLen
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if mid == 0 {
			lo = mid + 1
			continue
		}
		if hasPriorOccurrence(idxSA, buf[pos:pos+mid], turnStart) {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

func hasPriorOccurrence(idxSA *suffixarray.Index, substr []byte, turnStart int) bool {
	for _, off := range idxSA.Lookup(substr, -1) {
		if off < turnStart {
			return true
		}
	}
	return false
}
