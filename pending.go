// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "github.com/google/btree"

// pendingItem is one entry of the upward checker's `next` antichain: a
// pair (q, Q) with q a state of the smaller automaton and Q a macro-state
// of the bigger one. Items are ordered by (|Q|, q, serial) so that
// smaller macro-states — more likely to be pruned by the preorder — are
// explored first, and so that pop order is fully deterministic: the
// choice of which (q, Q) to pop first must be reproducible. serial is the
// macro-state's interning order, standing in for a memory-identity
// tie-breaker; any deterministic total order suffices.
type pendingItem struct {
	q  State
	qs *macroState
}

func pendingLess(a, b pendingItem) bool {
	if la, lb := a.qs.Len(), b.qs.Len(); la != lb {
		return la < lb
	}
	if a.q != b.q {
		return a.q < b.q
	}
	return a.qs.serial < b.qs.serial
}

// pendingSet is the ordered workset backing `next`. It is implemented with
// github.com/google/btree so that insert and pop-minimum are both
// O(log n) and fully deterministic, rather than scanning an unordered
// map for the minimum key on every iteration of the fixpoint.
type pendingSet struct {
	tree *btree.BTreeG[pendingItem]
}

func newPendingSet() *pendingSet {
	return &pendingSet{tree: btree.NewG(32, pendingLess)}
}

func (p *pendingSet) insert(q State, qs *macroState) {
	p.tree.ReplaceOrInsert(pendingItem{q: q, qs: qs})
}

// remove deletes the (q, qs) entry if present; used when Refine on the
// processed antichain evicts an entry that is also sitting in `next`.
func (p *pendingSet) remove(q State, qs *macroState) {
	p.tree.Delete(pendingItem{q: q, qs: qs})
}

func (p *pendingSet) popMin() (pendingItem, bool) {
	return p.tree.DeleteMin()
}

func (p *pendingSet) empty() bool {
	return p.tree.Len() == 0
}
