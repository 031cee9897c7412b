package rollout

// grouper implements the Parser's turn-grouping pass (spec §4.1): a maximal
// run of same-role records becomes one Turn, TurnContext records attach
// forward to the next response_item's turn, a Compacted record always
// closes whatever is open and stands alone as a pinned one-record system
// turn, and SessionMeta/EventMsg/Other records never join or split a turn.
type grouper struct {
	turns    []*Turn
	current  *Turn
	pending  []*Record // TurnContext records waiting to attach forward
	nextIdx  int
}

func (g *grouper) flush() {
	if g.current != nil && len(g.current.Records) > 0 {
		g.current.Index = g.nextIdx
		g.nextIdx++
		g.current.FirstSeq = g.current.Records[0].Seq
		g.current.LastSeq = g.current.Records[len(g.current.Records)-1].Seq
		for _, r := range g.current.Records {
			g.current.Text = appendText(g.current.Text, r.Text)
		}
		g.turns = append(g.turns, g.current)
	}
	g.current = nil
}

func appendText(existing, add string) string {
	if add == "" {
		return existing
	}
	if existing == "" {
		return add
	}
	return existing + "\n" + add
}

func (g *grouper) attachPending(t *Turn) {
	if len(g.pending) == 0 {
		return
	}
	t.Records = append(t.Records, g.pending...)
	g.pending = nil
}

func (g *grouper) feed(rec *Record) {
	switch rec.Kind {
	case KindSessionMeta, KindEventMsg, KindOther:
		// Invisible to grouping; SessionMeta/EventMsg never join a turn,
		// and Other neither creates nor splits one. Its eventual inclusion
		// in the emitted output is decided later, by span membership.
		return

	case KindTurnContext:
		g.pending = append(g.pending, rec)
		return

	case KindCompacted:
		g.flush()
		ct := &Turn{Role: TurnSystem, Compacted: true}
		g.attachPending(ct)
		ct.Records = append(ct.Records, rec)
		ct.Index = g.nextIdx
		g.nextIdx++
		ct.FirstSeq = ct.Records[0].Seq
		ct.LastSeq = ct.Records[len(ct.Records)-1].Seq
		for _, r := range ct.Records {
			ct.Text = appendText(ct.Text, r.Text)
		}
		g.turns = append(g.turns, ct)
		g.current = nil
		return

	case KindResponseItem:
		if rec.Role == RoleUser {
			if g.current != nil && g.current.Role != TurnUser {
				g.flush()
			}
			if g.current == nil {
				g.current = &Turn{Role: TurnUser}
				g.attachPending(g.current)
			} else if len(g.pending) > 0 {
				g.attachPending(g.current)
			}
			g.current.Records = append(g.current.Records, rec)
			return
		}
		// Assistant text, tool call, or tool output: a "system" contributor.
		if g.current != nil && g.current.Role != TurnSystem {
			g.flush()
		}
		if g.current == nil {
			g.current = &Turn{Role: TurnSystem}
			g.attachPending(g.current)
		} else if len(g.pending) > 0 {
			g.attachPending(g.current)
		}
		g.current.Records = append(g.current.Records, rec)
		return
	}
}

// finish flushes any open turn, including a trailing turn made up solely
// of TurnContext records that never saw a following response_item — an
// edge case (a transcript truncated mid-turn) the spec allows but doesn't
// otherwise constrain; retaining the records here keeps the byte-accounting
// total honest instead of silently discarding input.
func (g *grouper) finish() []*Turn {
	g.flush()
	if len(g.pending) > 0 {
		trailing := &Turn{Role: TurnSystem}
		g.attachPending(trailing)
		trailing.Index = g.nextIdx
		g.nextIdx++
		trailing.FirstSeq = trailing.Records[0].Seq
		trailing.LastSeq = trailing.Records[len(trailing.Records)-1].Seq
		g.turns = append(g.turns, trailing)
	}
	return g.turns
}
