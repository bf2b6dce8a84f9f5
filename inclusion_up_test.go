// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

//********************************************************************************************

func TestCheckUpwardInclusionHoldsForEqualLanguages(t *testing.T) {
	// A: a -> q0; b(q0,q0) -> q1; final {q1}. Accepts {b(a,a)}.
	a := New()
	aq0 := a.AddState()
	aq1 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)
	_ = a.AddTransition(1, []State{aq0, aq0}, aq1)
	_ = a.AddFinal(aq1)

	// B: a -> r0; a -> r1; b(r0,r1) -> r2; final {r2}. Also accepts only
	// b(a,a), with two states offering 'a', so L(B) = L(A).
	b := New()
	br0 := b.AddState()
	br1 := b.AddState()
	br2 := b.AddState()
	_ = b.AddTransition(0, nil, br0)
	_ = b.AddTransition(0, nil, br1)
	_ = b.AddTransition(1, []State{br0, br1}, br2)
	_ = b.AddFinal(br2)

	holds, reason, err := CheckUpwardInclusion(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holds {
		t.Fatalf("L(a) should be included in L(b): %s", reason)
	}
}

//********************************************************************************************

func TestCheckUpwardInclusionFailsWhenBigMissingFinal(t *testing.T) {
	a := New()
	aq0 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)
	_ = a.AddFinal(aq0)

	b := New()
	bq0 := b.AddState()
	_ = b.AddTransition(0, nil, bq0)
	// bq0 is deliberately not final: b accepts nothing, a accepts {a}.

	holds, reason, err := CheckUpwardInclusion(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holds {
		t.Fatalf("L(a) should not be included in L(b), which has no final states")
	}
	if reason == "" {
		t.Fatalf("expected a non-empty refutation reason")
	}
}

//********************************************************************************************

func TestCheckUpwardInclusionFailsOnMissingLeafSymbol(t *testing.T) {
	a := New()
	aq0 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)
	_ = a.AddFinal(aq0)

	b := New()
	bq0 := b.AddState()
	_ = b.AddTransition(1, nil, bq0) // offers only symbol 1, not 0
	_ = b.AddFinal(bq0)

	holds, reason, err := CheckUpwardInclusion(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holds {
		t.Fatalf("L(a) = {leaf 0} should not be included in L(b) = {leaf 1}")
	}
	if reason != ReasonNoTransitionForSymbol {
		t.Fatalf("expected reason %q, got %q", ReasonNoTransitionForSymbol, reason)
	}
}

//********************************************************************************************

func TestCheckUpwardInclusionFailsOnIncompatibleLeafSetSizes(t *testing.T) {
	// a offers two distinct leaf symbols; b offers only one. No assignment
	// of b's leaves can possibly cover both of a's, so the leaf-count
	// pre-check must refuse before even looking at which symbols they are.
	a := New()
	aq0 := a.AddState()
	aq1 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)
	_ = a.AddTransition(1, nil, aq1)
	_ = a.AddFinal(aq0)
	_ = a.AddFinal(aq1)

	b := New()
	bq0 := b.AddState()
	_ = b.AddTransition(0, nil, bq0)
	_ = b.AddFinal(bq0)

	holds, reason, err := CheckUpwardInclusion(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holds {
		t.Fatalf("L(a) offers two leaf symbols, L(b) only one: inclusion cannot hold")
	}
	if reason != ReasonLeafSetSizeIncompat {
		t.Fatalf("expected reason %q, got %q", ReasonLeafSetSizeIncompat, reason)
	}
}

//********************************************************************************************

func TestCheckUpwardInclusionNilAutomatonErrors(t *testing.T) {
	a := New()
	if _, _, err := CheckUpwardInclusion(nil, a, nil); err == nil {
		t.Fatalf("expected an error for a nil small automaton")
	}
	if _, _, err := CheckUpwardInclusion(a, nil, nil); err == nil {
		t.Fatalf("expected an error for a nil big automaton")
	}
}

//********************************************************************************************

func TestCheckUpwardInclusionReflexive(t *testing.T) {
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	_ = a.AddTransition(1, []State{q0, q0}, q1)
	_ = a.AddFinal(q1)

	holds, reason, err := CheckUpwardInclusion(a, a, nil)
	if err != nil || !holds {
		t.Fatalf("L(a) should always be included in itself: holds=%v reason=%s err=%v", holds, reason, err)
	}
}
