// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

//********************************************************************************************

func TestAddTransitionArityMismatch(t *testing.T) {
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	sym := Symbol(0)
	if err := a.AddTransition(sym, []State{q0}, q1); err != nil {
		t.Fatalf("first use of symbol should succeed, got %v", err)
	}
	if err := a.AddTransition(sym, []State{q0, q1}, q1); err == nil {
		t.Fatalf("second use with a different arity should fail")
	}
}

//********************************************************************************************

func TestAddTransitionUnknownState(t *testing.T) {
	a := New()
	q0 := a.AddState()
	ghost := State(999)
	if err := a.AddTransition(0, []State{ghost}, q0); err == nil {
		t.Fatalf("transition referencing an unknown child state should fail")
	}
	if err := a.AddTransition(0, nil, ghost); err == nil {
		t.Fatalf("transition referencing an unknown parent state should fail")
	}
}

//********************************************************************************************

func TestAddFinalUnknownState(t *testing.T) {
	a := New()
	if err := a.AddFinal(State(42)); err == nil {
		t.Fatalf("AddFinal on a state outside the domain should fail")
	}
}

//********************************************************************************************

func TestRemoveStateDropsDanglingTransitions(t *testing.T) {
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	q2 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	_ = a.AddTransition(1, []State{q0, q0}, q1)
	_ = a.AddTransition(1, []State{q1, q2}, q2)
	_ = a.AddFinal(q2)

	a.RemoveState(q0)

	for _, tr := range a.Transitions() {
		if tr.Parent == q0 {
			t.Fatalf("transition with removed parent survived: %+v", tr)
		}
		for _, c := range tr.Children {
			if c == q0 {
				t.Fatalf("transition with removed child survived: %+v", tr)
			}
		}
	}
	if len(a.Transitions()) != 1 {
		t.Fatalf("expected exactly one surviving transition, got %d", len(a.Transitions()))
	}
}

//********************************************************************************************

func TestStatesFinalsSymbolsAreDeterministic(t *testing.T) {
	a := New()
	var states []State
	for i := 0; i < 20; i++ {
		states = append(states, a.AddState())
	}
	for i, s := range states {
		if i%3 == 0 {
			_ = a.AddFinal(s)
		}
	}
	for i := 0; i < len(states)-1; i++ {
		_ = a.AddTransition(Symbol(i%5), []State{states[i]}, states[i+1])
	}

	for i := 0; i < 10; i++ {
		s1 := a.States()
		f1 := a.Finals()
		y1 := a.Symbols()
		s2 := a.States()
		f2 := a.Finals()
		y2 := a.Symbols()
		if !sameStates(s1, s2) {
			t.Fatalf("States() order is not stable across calls")
		}
		if !sameStates(f1, f2) {
			t.Fatalf("Finals() order is not stable across calls")
		}
		if len(y1) != len(y2) {
			t.Fatalf("Symbols() length is not stable across calls")
		}
		for i := range y1 {
			if y1[i] != y2[i] {
				t.Fatalf("Symbols() order is not stable across calls")
			}
		}
	}
	for i := 1; i < len(a.States()); i++ {
		if a.States()[i-1] > a.States()[i] {
			t.Fatalf("States() is not sorted ascending")
		}
	}
}

func sameStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

//********************************************************************************************

func TestIndexesRebuildAfterMutation(t *testing.T) {
	a := New()
	q0 := a.AddState()
	q1 := a.AddState()
	_ = a.AddTransition(0, nil, q0)
	if got := len(a.Leaves(0)); got != 1 {
		t.Fatalf("expected 1 leaf transition, got %d", got)
	}
	_ = a.AddTransition(0, nil, q1)
	if got := len(a.Leaves(0)); got != 2 {
		t.Fatalf("index did not rebuild after AddTransition: expected 2 leaves, got %d", got)
	}
	a.RemoveState(q1)
	if got := len(a.Leaves(0)); got != 1 {
		t.Fatalf("index did not rebuild after RemoveState: expected 1 leaf, got %d", got)
	}
}
