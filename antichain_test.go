// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "testing"

//********************************************************************************************

func TestAntichain1CRefineInsertContains(t *testing.T) {
	ac := NewAntichain1C()
	ac.Insert(1)
	ac.Insert(2)
	ac.Insert(3)
	if !ac.Contains([]State{2, 5}) {
		t.Fatalf("expected Contains to find 2")
	}
	if ac.Contains([]State{5, 6}) {
		t.Fatalf("Contains should not find states never inserted")
	}
	ac.Refine([]State{2, 3})
	if ac.Contains([]State{2}) || ac.Contains([]State{3}) {
		t.Fatalf("Refine should have removed 2 and 3")
	}
	if !ac.Contains([]State{1}) {
		t.Fatalf("Refine should not have removed 1")
	}
	if ac.Len() != 1 {
		t.Fatalf("expected Len 1, got %d", ac.Len())
	}
}

//********************************************************************************************

func TestAntichain2CRefineEvictsDominated(t *testing.T) {
	cache := newMacroCache()
	small := cache.intern([]State{1})
	big := cache.intern([]State{1, 2})
	r := Identity(3)
	r.Set(1, 2, true) // {1} ⊑ {1,2}

	dominates := func(a, b *macroState) bool { return lessEqual(b, a, r) }

	ac := NewAntichain2C()
	ac.Insert(0, small)

	if !ac.Contains([]State{0}, small, dominates) {
		t.Fatalf("a pair should dominate an identical candidate")
	}

	var erased []State
	ac.Refine([]State{0}, big, dominates, func(key State, removed *acHandle) {
		erased = append(erased, removed.val.States()...)
	})
	if len(erased) != 1 {
		t.Fatalf("expected Refine(big) to evict the dominated 'small' entry, erased=%v", erased)
	}
	if ac.Contains([]State{0}, small, dominates) {
		t.Fatalf("small entry should have been evicted")
	}
}

//********************************************************************************************

func TestMacroStateLessEqual(t *testing.T) {
	r := Identity(4)
	r.Set(1, 2, true)
	cache := newMacroCache()
	x := cache.intern([]State{1, 3})
	y := cache.intern([]State{2, 3})
	if !lessEqual(x, y, r) {
		t.Fatalf("{1,3} should be ⊑ {2,3} under 1 R 2 and reflexivity")
	}
	z := cache.intern([]State{0})
	if lessEqual(x, z, r) {
		t.Fatalf("{1,3} should not be ⊑ {0}")
	}
}

//********************************************************************************************

func TestMacroCacheInterns(t *testing.T) {
	cache := newMacroCache()
	a := cache.intern([]State{3, 1, 3})
	b := cache.intern([]State{1, 3})
	if a != b {
		t.Fatalf("equal sets (up to order/duplicates) should intern to the same macro-state")
	}
	if a.Len() != 2 {
		t.Fatalf("expected canonical set of size 2, got %d", a.Len())
	}
}
