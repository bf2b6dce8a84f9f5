// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import (
	"sort"
	"strconv"
	"strings"
)

// CheckUpwardInclusion decides L(small) ⊆ L(big) by an antichain fixpoint
// over macro-states of big. r prunes the search: a
// nil r behaves like Identity (plain subset-construction inclusion, no
// pruning). On refutation it returns a short, stable reason string drawn
// from the Reason* constants in errors.go; err is non-nil only for
// malformed input (e.g. a nil automaton), never for a refutation.
func CheckUpwardInclusion(small, big *Automaton, r *BinaryRelation) (bool, string, error) {
	if small == nil || big == nil {
		return false, "", invariantf("CheckUpwardInclusion", "both automata must be non-nil")
	}
	if r == nil {
		r = identityOver(small, big)
	}
	ctx := newUpContext(small, big, r)
	if refuted, reason := ctx.seedLeaves(); refuted {
		return false, reason, nil
	}
	for {
		item, ok := ctx.next.popMin()
		if !ok {
			break
		}
		if refuted, reason := ctx.expand(item.q, item.qs); refuted {
			return false, reason, nil
		}
	}
	return true, "", nil
}

// leafSymbols returns the set of distinct leaf (arity-0) symbols a uses.
// CheckUpwardInclusion refuses to even attempt the per-symbol seeding pass
// when big has fewer distinct leaf symbols than small: no assignment of
// big-side leaves can possibly cover every one of small's leaf symbols.
func leafSymbols(a *Automaton) map[Symbol]bool {
	out := make(map[Symbol]bool)
	for _, lbl := range a.Symbols() {
		if lbl.IsLeaf() {
			out[lbl.Sym] = true
		}
	}
	return out
}

func identityOver(small, big *Automaton) *BinaryRelation {
	max := State(-1)
	for _, s := range small.States() {
		if s > max {
			max = s
		}
	}
	for _, s := range big.States() {
		if s > max {
			max = s
		}
	}
	return Identity(int(max) + 1)
}

type evalKey struct {
	sym  Symbol
	slot int
	q    uint64
}

type lteKey struct{ x, y uint64 }

// upContext holds the workspaces of one CheckUpwardInclusion call: the
// antichains (`processed`, `next`), the macro-state cache, and the two
// memoization tables (`lte`, `eval`). It is scoped to
// a single call; a checker holds exclusive access to its workspaces for
// the duration of a call.
type upContext struct {
	small, big *Automaton
	r          *BinaryRelation

	cache     *macroCache
	processed *Antichain2C
	next      *pendingSet

	lte  map[lteKey]bool
	eval map[evalKey]map[string]Transition
}

func newUpContext(small, big *Automaton, r *BinaryRelation) *upContext {
	return &upContext{
		small:     small,
		big:       big,
		r:         r,
		cache:     newMacroCache(),
		processed: NewAntichain2C(),
		next:      newPendingSet(),
		lte:       make(map[lteKey]bool),
		eval:      make(map[evalKey]map[string]Transition),
	}
}

// leq memoizes X ⊑ Y. The result is a pure function of
// the two macro-states and r, so once computed it never needs
// invalidation, even if x or y is later evicted from an antichain.
func (c *upContext) leq(x, y *macroState) bool {
	if x == y {
		return true
	}
	k := lteKey{x.serial, y.serial}
	if v, ok := c.lte[k]; ok {
		return v
	}
	v := lessEqual(x, y, c.r)
	c.lte[k] = v
	return v
}

// dominates reports whether a dominates b, i.e. b ⊑ a. It is the single
// ac2Comparer shared by every Contains/Refine call in this file — a plain
// function value, not a shared interface.
func (c *upContext) dominates(a, b *macroState) bool { return c.leq(b, a) }

// insertMaximal adds s to ac unless some stored state already dominates
// it, and evicts any stored state s now dominates: a preorder-maximal
// filter built from Antichain1C, refining by inv[s] before inserting s.
func insertMaximal(ac *Antichain1C, r *BinaryRelation, s State) {
	if ac.Contains(r.Ind(s)) {
		return
	}
	ac.Refine(r.Inv(s))
	ac.Insert(s)
}

// tryAdd is the antichain filter shared by leaf seeding and the inductive
// step's promotion: skip if some processed pair already dominates (q, Q);
// otherwise evict dominated processed pairs (propagating eviction into
// `next` via the Eraser) and insert (q, Q) into both.
func (c *upContext) tryAdd(q State, Q *macroState) {
	if c.processed.Contains([]State{q}, Q, c.dominates) {
		return
	}
	c.processed.Refine([]State{q}, Q, c.dominates, func(key State, removed *acHandle) {
		c.next.remove(key, removed.val)
	})
	c.processed.Insert(q, Q)
	c.next.insert(q, Q)
}

// seedLeaves implements the leaf seeding step.
func (c *upContext) seedLeaves() (refuted bool, reason string) {
	smallLeafSyms := leafSymbols(c.small)
	bigLeafSyms := leafSymbols(c.big)
	if len(bigLeafSyms) < len(smallLeafSyms) {
		return true, ReasonLeafSetSizeIncompat
	}

	present := make(map[Symbol]bool, len(smallLeafSyms)+len(bigLeafSyms))
	for sym := range smallLeafSyms {
		present[sym] = true
	}
	for sym := range bigLeafSyms {
		present[sym] = true
	}
	syms := make([]Symbol, 0, len(present))
	for s := range present {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	for _, sym := range syms {
		smallLeaves := c.small.Leaves(sym)
		bigLeaves := c.big.Leaves(sym)
		if len(smallLeaves) == 0 {
			continue
		}
		if len(bigLeaves) == 0 {
			return true, ReasonNoTransitionForSymbol
		}
		ac := NewAntichain1C()
		for _, t := range bigLeaves {
			insertMaximal(ac, c.r, t.Parent)
		}
		Qsigma := c.cache.intern(ac.Elements())
		for _, t := range smallLeaves {
			if c.small.IsFinal(t.Parent) && !c.big.HasAnyFinal(Qsigma.States()) {
				return true, ReasonSmallerAcceptsBiggerNo
			}
			c.tryAdd(t.Parent, Qsigma)
		}
	}
	return false, ""
}

// expand implements the inductive step for one popped (q, Q).
func (c *upContext) expand(q State, Q *macroState) (refuted bool, reason string) {
	for _, lbl := range c.small.Symbols() {
		if lbl.IsLeaf() {
			continue
		}
		for j := 0; j < lbl.Arity; j++ {
			for _, t := range c.small.UpTransitionsWithChildAt(lbl.Sym, j, q) {
				if ref, rs := c.expandTransition(t, lbl.Sym, j, Q); ref {
					return true, rs
				}
			}
		}
	}
	return false, ""
}

func (c *upContext) expandTransition(t Transition, sym Symbol, j int, Q *macroState) (bool, string) {
	k := len(t.Children)
	candidates := make([][]*macroState, k)
	for i := 0; i < k; i++ {
		if i == j {
			candidates[i] = []*macroState{Q}
			continue
		}
		cs := c.processed.Lookup(t.Children[i])
		if len(cs) == 0 {
			return false, ""
		}
		candidates[i] = cs
	}
	dims := make([]int, k)
	for i := range dims {
		dims[i] = len(candidates[i])
	}

	temp := NewAntichain2C()
	cf := newChoiceFunction(dims)
	for cf.Next() {
		choice := cf.Value()
		Qi := make([]*macroState, k)
		for i := range Qi {
			Qi[i] = candidates[i][choice[i]]
		}
		bigSet := c.evalIntersect(sym, Qi)
		if len(bigSet) == 0 {
			continue
		}
		Qp := c.foldMaximal(distinctParents(bigSet))

		smallFinal := c.small.IsFinal(t.Parent)
		if Qp.Len() == 0 {
			if smallFinal {
				return true, ReasonLeavesNotCovered
			}
			continue
		}
		if smallFinal && !c.big.HasAnyFinal(Qp.States()) {
			return true, ReasonSmallerAcceptsBiggerNo
		}
		if temp.Contains([]State{t.Parent}, Qp, c.dominates) {
			continue
		}
		temp.Refine([]State{t.Parent}, Qp, c.dominates, nil)
		temp.Insert(t.Parent, Qp)
	}
	for _, Qp := range temp.Lookup(t.Parent) {
		c.tryAdd(t.Parent, Qp)
	}
	return false, ""
}

// evalTransitions memoizes, for (sym, slot, Q), the set of big-side
// transitions whose slot-th child lies in Q, keyed by a structural
// signature so that
// evalIntersect can intersect several per-slot sets without relying on Go
// pointer identity between Transition values retrieved at different
// times.
func (c *upContext) evalTransitions(sym Symbol, slot int, q *macroState) map[string]Transition {
	key := evalKey{sym: sym, slot: slot, q: q.serial}
	if m, ok := c.eval[key]; ok {
		return m
	}
	m := make(map[string]Transition)
	for _, child := range q.States() {
		for _, t := range c.big.UpTransitionsWithChildAt(sym, slot, child) {
			m[transSig(t)] = t
		}
	}
	c.eval[key] = m
	return m
}

// evalIntersect computes big_set: the intersection, over every slot i, of
// evalTransitions(sym, i, Qs[i]).
func (c *upContext) evalIntersect(sym Symbol, qs []*macroState) []Transition {
	if len(qs) == 0 {
		return nil
	}
	base := c.evalTransitions(sym, 0, qs[0])
	out := make([]Transition, 0, len(base))
	for sig, t := range base {
		ok := true
		for i := 1; i < len(qs); i++ {
			if _, present := c.evalTransitions(sym, i, qs[i])[sig]; !present {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

func (c *upContext) foldMaximal(states []State) *macroState {
	ac := NewAntichain1C()
	for _, s := range states {
		insertMaximal(ac, c.r, s)
	}
	return c.cache.intern(ac.Elements())
}

func distinctParents(ts []Transition) []State {
	seen := make(map[State]bool, len(ts))
	out := make([]State, 0, len(ts))
	for _, t := range ts {
		if !seen[t.Parent] {
			seen[t.Parent] = true
			out = append(out, t.Parent)
		}
	}
	return out
}

// transSig is a structural identity for a transition — its parent and
// child tuple, with the symbol implicit in whatever index produced it —
// used as a map key where the algorithm needs set operations (membership,
// intersection) over transitions rather than over states.
func transSig(t Transition) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(t.Parent)))
	for _, ch := range t.Children {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(ch)))
	}
	return b.String()
}
