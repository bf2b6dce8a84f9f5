// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

//********************************************************************************************

func TestComputeSimulationIsReflexive(t *testing.T) {
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	q2 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	_ = a.AddTransition(1, []State{q0}, q1)
	_ = a.AddTransition(1, []State{q1}, q2)

	r := ComputeSimulation(a, nil, nil)
	for _, s := range a.States() {
		if !r.Get(s, s) {
			t.Fatalf("simulation preorder must be reflexive, got !R(%d,%d)", s, s)
		}
	}
}

//********************************************************************************************

func TestComputeSimulationDistinguishesDifferentBehavior(t *testing.T) {
	// q0 has an 'a' leaf transition; q1 has a 'b' leaf transition. Neither
	// can simulate the other: they offer different labels.
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	_ = a.AddTransition(1, nil, q1)

	r := ComputeSimulation(a, nil, nil)
	if r.Get(q0, q1) {
		t.Fatalf("q1 (only 'b') should not simulate q0 (only 'a')")
	}
	if r.Get(q1, q0) {
		t.Fatalf("q0 (only 'a') should not simulate q1 (only 'b')")
	}
}

//********************************************************************************************

func TestComputeSimulationOfferingExtraLabelSimulates(t *testing.T) {
	// q0 offers only 'a'. q1 offers both 'a' and 'b'. Every (sym,slot)-edge
	// from q0 (just 'a') is matched by q1, so q0 R q1. The converse need not
	// hold since q1 additionally offers 'b', which q0 cannot match.
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	_ = a.AddTransition(0, nil, q1)
	_ = a.AddTransition(1, nil, q1)

	r := ComputeSimulation(a, nil, nil)
	if !r.Get(q0, q1) {
		t.Fatalf("q0 should be simulated by q1, which offers every label q0 does and more")
	}
	if r.Get(q1, q0) {
		t.Fatalf("q1 should not be simulated by q0, which lacks q1's 'b' label")
	}
}

//********************************************************************************************

func TestComputeCrossSimulationTranslatesBothSides(t *testing.T) {
	a := New()
	aq0 := a.AddState()
	_ = a.AddTransition(0, nil, aq0)

	b := New()
	bq0 := b.AddState()
	bq1 := b.AddState()
	_ = b.AddTransition(0, nil, bq0)
	_ = b.AddTransition(1, nil, bq1)

	r, mapA, mapB := ComputeCrossSimulation(a, b)
	if !r.Get(mapA[aq0], mapB[bq0]) {
		t.Fatalf("a's only state (offering 'a') should be simulated by b's 'a'-offering state")
	}
	if r.Get(mapA[aq0], mapB[bq1]) {
		t.Fatalf("a's 'a'-offering state should not be simulated by b's 'b'-offering state")
	}
}
