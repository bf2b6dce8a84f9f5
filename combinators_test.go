// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

// buildSingleLeaf builds a 1-state automaton accepting only the single
// leaf tree sym, via sym -> q0 with q0 final.
func buildSingleLeaf(sym Symbol) *Automaton {
	a := New()
	q0 := a.AddState()
	_ = a.AddTransition(sym, nil, q0)
	_ = a.AddFinal(q0)
	return a
}

//********************************************************************************************

func TestUnionIsDisjointAndPreservesLanguageMembership(t *testing.T) {
	a := buildSingleLeaf(0)
	b := buildSingleLeaf(1)

	u, mapA, mapB := Union(a, b)

	if len(u.States()) != len(a.States())+len(b.States()) {
		t.Fatalf("union should have one state per original state: got %d, want %d",
			len(u.States()), len(a.States())+len(b.States()))
	}
	if mapA[a.States()[0]] == mapB[b.States()[0]] {
		t.Fatalf("translated states from a and b must not collide")
	}
	if !u.IsFinal(mapA[a.States()[0]]) {
		t.Fatalf("a's final state should remain final after translation")
	}
	if !u.IsFinal(mapB[b.States()[0]]) {
		t.Fatalf("b's final state should remain final after translation")
	}
	if len(u.Leaves(0)) != 1 || len(u.Leaves(1)) != 1 {
		t.Fatalf("union should keep exactly one leaf transition per original symbol")
	}
}

//********************************************************************************************

func TestIntersectionOfDisjointLanguagesIsEmpty(t *testing.T) {
	a := buildSingleLeaf(0) // accepts {a}
	b := buildSingleLeaf(1) // accepts {b}, disjoint alphabet use at the leaf
	p := Intersection(a, b)
	if len(p.Finals()) != 0 {
		t.Fatalf("intersection of automata with no matching leaf symbol should have no final product state")
	}
}

//********************************************************************************************

func TestIntersectionOfIdenticalLanguageIsNonEmpty(t *testing.T) {
	a := buildSingleLeaf(0)
	b := buildSingleLeaf(0)
	p := Intersection(a, b)
	if len(p.Finals()) == 0 {
		t.Fatalf("intersection of two automata accepting {a} should accept {a}")
	}
	holds, reason, err := CheckUpwardInclusion(p, a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holds {
		t.Fatalf("L(intersection) should be included in L(a): %s", reason)
	}
}

//********************************************************************************************

func TestIntersectionOverBinarySymbol(t *testing.T) {
	// A: a -> q0; f(q0,q0) -> q1; final {q1}. Accepts {f(a,a)}.
	a := New()
	aq0 := a.AddState()
	aq1 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)
	_ = a.AddTransition(2, []State{aq0, aq0}, aq1)
	_ = a.AddFinal(aq1)

	// B: a -> r0; f(r0,r0) -> r1; final {r1}. Accepts the same tree.
	b := New()
	br0 := b.AddState()
	br1 := b.AddState()
	_ = b.AddTransition(0, nil, br0)
	_ = b.AddTransition(2, []State{br0, br0}, br1)
	_ = b.AddFinal(br1)

	p := Intersection(a, b)
	if len(p.Finals()) == 0 {
		t.Fatalf("expected a non-empty intersection")
	}
	holds, reason, err := CheckUpwardInclusion(p, a, nil)
	if err != nil || !holds {
		t.Fatalf("L(intersection) should be included in L(a): holds=%v reason=%s err=%v", holds, reason, err)
	}
}
