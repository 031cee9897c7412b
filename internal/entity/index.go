package entity

// Index is the global entity index I: Entity → {turn indices containing
// it}, built once after extraction and shared read-only by every scorer
// (spec §4.3, §5).
type Index struct {
	turns map[Entity]map[int]bool
}

// BuildIndex builds I from each scorable turn's extracted Set, keyed by
// turn index. The caller decides which population of turns to index —
// the Scorer family only ever calls this with the scorable subset, since
// df(e) and N in the EITF formula must describe the same population.
func BuildIndex(sets map[int]Set) *Index {
	idx := &Index{turns: make(map[Entity]map[int]bool)}
	for turnIdx, set := range sets {
		for e := range set {
			bucket := idx.turns[e]
			if bucket == nil {
				bucket = make(map[int]bool)
				idx.turns[e] = bucket
			}
			bucket[turnIdx] = true
		}
	}
	return idx
}

// DF returns df(e) = |I[e]|, the number of turns containing e.
func (idx *Index) DF(e Entity) int {
	return len(idx.turns[e])
}

// TurnsWith returns the set of turn indices containing e.
func (idx *Index) TurnsWith(e Entity) map[int]bool {
	return idx.turns[e]
}
