// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

//********************************************************************************************

func TestIdentityIsReflexiveAndTransitive(t *testing.T) {
	r := Identity(5)
	for i := State(0); i < 5; i++ {
		if !r.Get(i, i) {
			t.Fatalf("Identity should relate %d to itself", i)
		}
	}
	if !r.IsReflexive() {
		t.Fatalf("Identity should report itself reflexive")
	}
	if !r.IsTransitive() {
		t.Fatalf("Identity should report itself transitive")
	}
}

//********************************************************************************************

func TestSetGetRoundTrip(t *testing.T) {
	r := newRelationForTest(4)
	r.Set(0, 3, true)
	if !r.Get(0, 3) {
		t.Fatalf("expected Get(0,3) to report true after Set")
	}
	if r.Get(3, 0) {
		t.Fatalf("Set(0,3) should not also set the symmetric pair")
	}
	r.Set(0, 3, false)
	if r.Get(0, 3) {
		t.Fatalf("expected Get(0,3) to report false after unsetting")
	}
}

//********************************************************************************************

func TestIndAndInv(t *testing.T) {
	r := newRelationForTest(4)
	r.Set(0, 1, true)
	r.Set(0, 2, true)
	r.Set(3, 2, true)

	ind := r.Ind(0)
	if len(ind) != 2 {
		t.Fatalf("expected Ind(0) to have 2 members, got %v", ind)
	}
	inv := r.Inv(2)
	if len(inv) != 2 {
		t.Fatalf("expected Inv(2) to have 2 members, got %v", inv)
	}
}

func newRelationForTest(size int) *BinaryRelation {
	return newRelation(size)
}
