// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import (
	"sort"
	"strconv"
	"strings"
)

// macroState is an ordered sequence of states without duplicates. Equal
// sequences (as sets) are shared: macroCache interns them so that two
// callers asking for {3,1,3} and {1,3} both get back the same *macroState.
type macroState struct {
	states []State // canonical: sorted ascending, deduplicated
	serial uint64  // assignment order at intern time; used as the pending-set tie-breaker
}

// Len returns the number of states in the macro-state.
func (m *macroState) Len() int { return len(m.states) }

// States returns the macro-state's states in canonical (sorted) order. The
// returned slice must not be mutated.
func (m *macroState) States() []State { return m.states }

// lessEqual tests X ⊑ Y under the pointwise lift of R: every state in X is
// R-dominated by some state in Y. This is the ⊑ used throughout both
// inclusion checkers.
func lessEqual(x, y *macroState, r *BinaryRelation) bool {
	for _, xs := range x.states {
		covered := false
		for _, ys := range y.states {
			if r.Get(xs, ys) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func canonicalKey(states []State) string {
	sorted := append([]State(nil), states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	deduped := sorted[:0:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			deduped = append(deduped, s)
		}
	}
	var b strings.Builder
	for i, s := range deduped {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(s)))
	}
	return b.String()
}

// macroCache interns macro-states so that equal sequences share identity
// for the duration of one inclusion run: every *macroState it has ever
// handed out stays alive and reachable by signature until the whole cache
// is dropped with its owning checker. Entries are never evicted mid-run —
// the two antichains (`proved`/`refuted`, or `processed`) already decide
// which macro-states still matter, so a second, separate liveness
// mechanism inside the cache would just track the same thing twice.
type macroCache struct {
	bySig      map[string]*macroState
	nextSerial uint64
}

func newMacroCache() *macroCache {
	return &macroCache{bySig: make(map[string]*macroState)}
}

// intern returns the shared macro-state for states, creating it (with a
// fresh serial number) on first use.
func (c *macroCache) intern(states []State) *macroState {
	key := canonicalKey(states)
	if m, ok := c.bySig[key]; ok {
		return m
	}
	sorted := append([]State(nil), states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	deduped := sorted[:0:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			deduped = append(deduped, s)
		}
	}
	m := &macroState{states: deduped, serial: c.nextSerial}
	c.nextSerial++
	c.bySig[key] = m
	return m
}
