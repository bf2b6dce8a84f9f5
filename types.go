// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// State is an opaque integer identity, dense within one automaton. The
// zero value is a valid state (the first one created).
type State int

// Symbol is an integer identity for a ranked-alphabet symbol. An
// Automaton fixes each symbol's arity at the first transition that uses
// it (see Automaton.Arity); a Label pairs a symbol with that arity.
type Symbol int

// Label pairs a Symbol with its arity, exactly as declared in the ranked
// alphabet. Arity-0 labels are leaves.
type Label struct {
	Sym   Symbol
	Arity int
}

// IsLeaf reports whether l has arity zero.
func (l Label) IsLeaf() bool { return l.Arity == 0 }

// Transition is (symbol, (child_1,...,child_arity), parent). The length of
// Children must equal the arity of Sym; this invariant is enforced by
// Automaton.AddTransition and never by the Transition type itself.
type Transition struct {
	Sym      Symbol
	Children []State
	Parent   State
}

// Arity returns len(t.Children), the effective arity of this transition.
func (t Transition) Arity() int { return len(t.Children) }
