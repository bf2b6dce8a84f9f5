// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "sort"

// indexSet bundles the two derived views over an automaton's transition
// set: the top-down index (state -> symbol -> child tuples) and the
// bottom-up index (symbol -> transitions), further split per symbol into
// a positional index (slot -> child state -> transitions whose slot-th
// child is that state). Both are rebuilt together from the same
// transition slice, so they cannot disagree with one another once built.
type indexSet struct {
	topDown map[State]map[Symbol][][]State
	leaves  map[Symbol][]Transition
	upIndex map[Symbol][]Transition            // all transitions for a symbol, arity >= 1
	posIdx  map[Symbol][]map[State][]Transition // posIdx[sym][slot][childState]
}

func (a *Automaton) index() *indexSet {
	if a.idx != nil {
		return a.idx
	}
	idx := &indexSet{
		topDown: make(map[State]map[Symbol][][]State),
		leaves:  make(map[Symbol][]Transition),
		upIndex: make(map[Symbol][]Transition),
		posIdx:  make(map[Symbol][]map[State][]Transition),
	}
	for _, t := range a.transitions {
		bySym := idx.topDown[t.Parent]
		if bySym == nil {
			bySym = make(map[Symbol][][]State)
			idx.topDown[t.Parent] = bySym
		}
		bySym[t.Sym] = append(bySym[t.Sym], t.Children)

		if t.Arity() == 0 {
			idx.leaves[t.Sym] = append(idx.leaves[t.Sym], t)
			continue
		}
		idx.upIndex[t.Sym] = append(idx.upIndex[t.Sym], t)
		slots := idx.posIdx[t.Sym]
		if slots == nil {
			slots = make([]map[State][]Transition, t.Arity())
			for i := range slots {
				slots[i] = make(map[State][]Transition)
			}
			idx.posIdx[t.Sym] = slots
		}
		for i, c := range t.Children {
			slots[i][c] = append(slots[i][c], t)
		}
	}
	a.idx = idx
	return idx
}

// Leaves returns every leaf (arity-0) transition for sym.
func (a *Automaton) Leaves(sym Symbol) []Transition {
	return a.index().leaves[sym]
}

// UpTransitions returns every transition for sym with arity >= 1.
func (a *Automaton) UpTransitions(sym Symbol) []Transition {
	return a.index().upIndex[sym]
}

// UpTransitionsWithChildAt returns every arity>=1 transition for sym whose
// slot-th child is exactly child. This is the positional bottom-up index
// used by the upward inclusion checker to evaluate
// evalTransitions(symbol, slot, macro-state).
func (a *Automaton) UpTransitionsWithChildAt(sym Symbol, slot int, child State) []Transition {
	slots := a.index().posIdx[sym]
	if slot >= len(slots) {
		return nil
	}
	return slots[slot][child]
}

// DownChildren returns every child-tuple reachable from state under sym
// (the top-down index).
func (a *Automaton) DownChildren(state State, sym Symbol) [][]State {
	return a.index().topDown[state][sym]
}

// DownSymbols returns every symbol that has at least one down-transition
// from state.
func (a *Automaton) DownSymbols(state State) []Symbol {
	bySym := a.index().topDown[state]
	out := make([]Symbol, 0, len(bySym))
	for sym := range bySym {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
