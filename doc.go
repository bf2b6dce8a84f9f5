// Copyright (c) 2024 The taa authors
//
// MIT License

/*
Package taa implements finite tree automata over ranked alphabets:
construction, the disjoint-union and product-intersection combinators, and
language inclusion between two automata.

Basics

A Symbol has a fixed arity; a Transition maps a tuple of child states and a
symbol to a parent state. An Automaton (see New) is a state domain, a set
of final states and a transition set, together with two indexes rebuilt
lazily on demand: a top-down index (state, symbol -> child tuples) and a
bottom-up index (symbol, slot, child state -> transitions).

Inclusion

The package offers two independent decision procedures for L(A) ⊆ L(B):

  - CheckUpwardInclusion evaluates bottom-up, maintaining an antichain of
    macro-states of B;
  - CheckDownwardInclusion evaluates top-down, maintaining a workset of
    pairs (state of A, state set of B).

Both accept an optional simulation preorder (see ComputeSimulation) used to
prune the search; passing nil makes either procedure equivalent to plain
subset-construction inclusion, just slower. For CheckUpwardInclusion,
Identity has the same effect as nil; CheckDownwardInclusion also reads a
supplied relation between the two automata's states by number.

Simulation

ComputeSimulation computes the coarsest simulation preorder on the states
of a labelled transition system via Optimal-time, Linear-space partition
refinement (OLRT): a doubly linked ring of state-list elements, grouped
into blocks, refined by a worklist of (block, label) pairs until no block
can be split further.
*/
package taa
