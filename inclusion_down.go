// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// CheckDownwardInclusion decides L(small) ⊆ L(big) by a workset search on
// pairs (p, S): p a state of small, S a macro-state of big, with the
// invariant "every tree small can derive top-down from p, big can also
// derive top-down from some state in S". The overall verdict
// is the conjunction of this check over every final state of small against
// S = Finals(big), since a tree is accepted bottom-up from a final state
// iff it has a top-down derivation starting there.
//
// r prunes the search as in CheckUpwardInclusion. A non-nil r is also read
// between a state p of small and a state s of big by their numbers: p R s
// for some s in S makes (p, S) succeed at once, so such an r relates the
// two automata's states in one shared numbering. A nil r uses Identity for
// the comparisons within each automaton and relates no state of small to
// any state of big. CheckDownwardInclusion does not prune useless states out
// of either automaton first (see DESIGN.md, "Downward checker and useless
// states") — callers that may be holding one should prune with RemoveState
// or fall back to CheckUpwardInclusion.
func CheckDownwardInclusion(small, big *Automaton, r *BinaryRelation) (bool, string, error) {
	if small == nil || big == nil {
		return false, "", invariantf("CheckDownwardInclusion", "both automata must be non-nil")
	}
	cross := r != nil
	if r == nil {
		r = identityOver(small, big)
	}
	ctx := newDownContext(small, big, r)
	ctx.cross = cross
	bigFinals := ctx.cache.intern(big.Finals())
	for _, p := range small.Finals() {
		if ok, reason := ctx.incl(p, bigFinals); !ok {
			return false, reason, nil
		}
	}
	return true, "", nil
}

type downFrame struct {
	p State
	s *macroState
}

// downContext holds the workspaces of one CheckDownwardInclusion call: the
// macro-state cache and the two antichains — the "children cache" (proved
// pairs) and "non-inclusion cache" (refuted pairs) — plus the explicit
// call stack used by the workset-antichain cycle guard.
type downContext struct {
	small, big *Automaton
	r          *BinaryRelation
	cross      bool // r also relates small's states to big's; false for a nil r

	cache           *macroCache
	proved, refuted *Antichain2C
	stack           []downFrame
}

func newDownContext(small, big *Automaton, r *BinaryRelation) *downContext {
	return &downContext{
		small:   small,
		big:     big,
		r:       r,
		cache:   newMacroCache(),
		proved:  NewAntichain2C(),
		refuted: NewAntichain2C(),
	}
}

// weaker reports a ⊑ b. Used as the proved-cache comparer: a stored,
// weaker witness set already implies inclusion against any candidate it
// dominates (monotonicity: a bigger witness set can only help).
func (c *downContext) weaker(a, b *macroState) bool { return lessEqual(a, b, c.r) }

// dominates reports b ⊑ a. Used as the refuted-cache comparer: a stored,
// stronger failing witness set already implies refutation of any candidate
// dominated by it (monotonicity: a smaller witness set can only hurt).
func (c *downContext) dominates(a, b *macroState) bool { return lessEqual(b, a, c.r) }

// incl implements the (p, S) pair check: the preorder
// shortcut, the two caches, the workset cycle guard, and — on a cache miss
// — the recursive expansion over small's down-transitions from p.
//
// The two cache lookups are keyed by more than p alone: a proved pair
// (p', S') also proves (p, S) whenever p' is no harder to satisfy than p
// (p' ∈ Ind(p)) and S' is no stronger a witness than S; symmetrically a
// refuted pair (p', S') also refutes (p, S) whenever p is no easier to
// satisfy than p' (p' ∈ Inv(p)) and S is no weaker a witness than S'.
// Looking up only the bucket for p itself would miss every one of those
// cross-state hits.
func (c *downContext) incl(p State, S *macroState) (bool, string) {
	for _, s := range S.States() {
		if c.cross && c.r.Get(p, s) {
			return true, ""
		}
	}
	if c.proved.Contains(c.r.Ind(p), S, c.weaker) {
		return true, ""
	}
	if c.refuted.Contains(c.r.Inv(p), S, c.dominates) {
		return false, ReasonNoCoveringChoice
	}
	for _, f := range c.stack {
		if c.r.Get(p, f.p) && lessEqual(f.s, S, c.r) {
			return true, ""
		}
	}

	c.stack = append(c.stack, downFrame{p, S})
	ok, reason := c.expand(p, S)
	c.stack = c.stack[:len(c.stack)-1]

	// Refine evicts stale entries from the opposite index of the one its
	// cache's Contains call searches: a freshly proved (p, S) can make a
	// stored (p', S') redundant for any p' related downward to p (p' ∈
	// Inv(p)), and a freshly refuted (p, S) for any p' related upward to
	// p (p' ∈ Ind(p)).
	if ok {
		c.proved.Refine(c.r.Inv(p), S, c.weaker, nil)
		c.proved.Insert(p, S)
	} else {
		c.refuted.Refine(c.r.Ind(p), S, c.dominates, nil)
		c.refuted.Insert(p, S)
	}
	return ok, reason
}

// expand requires every down-transition of small from p to be covered by
// some tuple (or combination of tuples) reachable from S under the same
// symbol.
func (c *downContext) expand(p State, S *macroState) (bool, string) {
	for _, sym := range c.small.DownSymbols(p) {
		for _, kids := range c.small.DownChildren(p, sym) {
			if ok, reason := c.coversTuple(sym, kids, S); !ok {
				return false, reason
			}
		}
	}
	return true, ""
}

// coversTuple decides whether one small-side transition p -> sym(kids...)
// is covered from S. It first looks for a single big-side tuple that
// covers kids pointwise by full recursive inclusion (the strong, cheap-to-
// verify case). If none exists, every way of distributing the rsigma
// tuples across kids' positions must still leave some position whose
// assigned states — unioned, then checked by recursive inclusion rather
// than a bare preorder lookup — cover that position's small-side state:
// a single choice function with no covering position refutes the whole
// tuple. This is the choice-function/union/recursive-expand shape the
// enumerator in choice.go was built for; see DESIGN.md.
func (c *downContext) coversTuple(sym Symbol, kids []State, S *macroState) (bool, string) {
	var rsigma [][]State
	for _, s := range S.States() {
		rsigma = append(rsigma, c.big.DownChildren(s, sym)...)
	}
	if len(kids) == 0 {
		if len(rsigma) > 0 {
			return true, ""
		}
		return false, ReasonNoTransitionForSymbol
	}
	if len(rsigma) == 0 {
		return false, ReasonNoTransitionForSymbol
	}

	for _, b := range rsigma {
		covered := true
		for i, pi := range kids {
			witness := c.cache.intern([]State{b[i]})
			if ok, _ := c.incl(pi, witness); !ok {
				covered = false
				break
			}
		}
		if covered {
			return true, ""
		}
	}

	// dims[i] ranges over which position of kids the i-th rsigma tuple is
	// assigned to; a choice vector is therefore a function from rsigma
	// index to kids position, matching down_tree_incl_fctor.hh's cfGen.
	dims := make([]int, len(rsigma))
	for i := range dims {
		dims[i] = len(kids)
	}
	cf := newChoiceFunction(dims)
	for cf.Next() {
		choice := cf.Value()
		found := false
		for pos := range kids {
			var assigned []State
			seen := make(map[State]bool)
			for i, tp := range choice {
				if tp != pos {
					continue
				}
				s := rsigma[i][pos]
				if !seen[s] {
					seen[s] = true
					assigned = append(assigned, s)
				}
			}
			if len(assigned) == 0 {
				continue
			}
			witness := c.cache.intern(assigned)
			if ok, _ := c.incl(kids[pos], witness); ok {
				found = true
				break
			}
		}
		if !found {
			return false, ReasonNoCoveringChoice
		}
	}
	return true, ""
}
