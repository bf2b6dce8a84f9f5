// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// Union returns the disjoint union of a and b: every state, final marking
// and transition of both is copied into a fresh automaton under freshly
// minted state numbers, so that a and b's numberings (which may themselves
// overlap) never collide. The two returned maps translate an original
// state, from a and from b respectively, into its state in the result;
// ComputeCrossSimulation and the CLI's union command go through Union
// first and keep the translation maps around.
func Union(a, b *Automaton) (*Automaton, map[State]State, map[State]State) {
	u := New()
	mapA := translate(u, a)
	mapB := translate(u, b)
	copyFinalsAndTransitions(u, a, mapA)
	copyFinalsAndTransitions(u, b, mapB)
	return u, mapA, mapB
}

// translate copies src's state domain into dst under fresh numbers and
// returns the src -> dst mapping. It does not copy finals or transitions;
// callers do that once both sides' mappings exist, so that a transition's
// children always resolve to already-mapped states.
func translate(dst *Automaton, src *Automaton) map[State]State {
	m := make(map[State]State, len(src.states))
	for _, s := range src.States() {
		m[s] = dst.AddState()
	}
	return m
}

func copyFinalsAndTransitions(dst *Automaton, src *Automaton, m map[State]State) {
	for _, s := range src.Finals() {
		_ = dst.AddFinal(m[s])
	}
	for _, t := range src.Transitions() {
		children := make([]State, len(t.Children))
		for i, c := range t.Children {
			children[i] = m[c]
		}
		_ = dst.AddTransition(t.Sym, children, m[t.Parent])
	}
}

// Intersection returns the product automaton for a and b: its
// states are pairs (sa, sb), reachable by a worklist over matching
// transitions, and a pair is final iff both of its components are. Product
// states are flattened into fresh, dense State numbers in discovery order,
// which keeps the result usable by every other component in this package
// without a pair-valued State type.
//
// Intersection only ever builds the reachable part of the product: a
// leaf-up worklist seeded from matching leaf pairs, then repeatedly
// extended by matching same-symbol, same-arity transitions whose children
// are all already-discovered pairs. Product states unreachable from any
// leaf pair are never created.
func Intersection(a, b *Automaton) *Automaton {
	p := New()
	ids := make(map[[2]State]State)
	visited := make(map[[2]State]bool)
	id := func(sa, sb State) State {
		key := [2]State{sa, sb}
		if s, ok := ids[key]; ok {
			return s
		}
		s := p.AddState()
		ids[key] = s
		return s
	}

	var worklist [][2]State
	enqueue := func(sa, sb State) {
		key := [2]State{sa, sb}
		id(sa, sb)
		if visited[key] {
			return
		}
		visited[key] = true
		worklist = append(worklist, key)
	}

	for _, sym := range distinctSymbols(a, b) {
		for _, ta := range a.Leaves(sym) {
			for _, tb := range b.Leaves(sym) {
				enqueue(ta.Parent, tb.Parent)
				_ = p.AddTransition(sym, nil, id(ta.Parent, tb.Parent))
			}
		}
	}

	for len(worklist) > 0 {
		pair := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		sa, sb := pair[0], pair[1]

		for _, sym := range a.DownSymbols(sa) {
			for _, ca := range a.DownChildren(sa, sym) {
				for _, cb := range b.DownChildren(sb, sym) {
					if len(ca) != len(cb) {
						continue
					}
					children := make([]State, len(ca))
					for i := range ca {
						enqueue(ca[i], cb[i])
						children[i] = id(ca[i], cb[i])
					}
					_ = p.AddTransition(sym, children, id(sa, sb))
				}
			}
		}
	}

	for key, s := range ids {
		if a.IsFinal(key[0]) && b.IsFinal(key[1]) {
			_ = p.AddFinal(s)
		}
	}
	return p
}

func distinctSymbols(a, b *Automaton) []Symbol {
	seen := make(map[Symbol]bool)
	var out []Symbol
	for _, lbl := range a.Symbols() {
		if !seen[lbl.Sym] {
			seen[lbl.Sym] = true
			out = append(out, lbl.Sym)
		}
	}
	for _, lbl := range b.Symbols() {
		if !seen[lbl.Sym] {
			seen[lbl.Sym] = true
			out = append(out, lbl.Sym)
		}
	}
	return out
}
