// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// Antichain1C is a flat set of states, used as the post-image workspace in
// the upward inclusion checker and in leaf seeding: Refine removes every
// state present in the argument set, Insert adds one state, and Contains
// tests for a non-empty intersection. It is a thin wrapper over a Go map —
// a plain runtime hashmap used as a unicity table — rather than a bespoke
// set type, since a flat set of small integers needs nothing more
// specialized.
type Antichain1C struct {
	set map[State]struct{}
}

// NewAntichain1C returns an empty Antichain1C.
func NewAntichain1C() *Antichain1C {
	return &Antichain1C{set: make(map[State]struct{})}
}

// Refine removes every state of s that is currently stored.
func (a *Antichain1C) Refine(s []State) {
	for _, x := range s {
		delete(a.set, x)
	}
}

// Insert adds s to the antichain.
func (a *Antichain1C) Insert(s State) {
	a.set[s] = struct{}{}
}

// Contains reports whether any state of s is currently stored.
func (a *Antichain1C) Contains(s []State) bool {
	for _, x := range s {
		if _, ok := a.set[x]; ok {
			return true
		}
	}
	return false
}

// Elements returns every state currently stored, in no particular order.
func (a *Antichain1C) Elements() []State {
	out := make([]State, 0, len(a.set))
	for x := range a.set {
		out = append(out, x)
	}
	return out
}

// Len returns the number of states currently stored.
func (a *Antichain1C) Len() int { return len(a.set) }

// ************************************************************

// ac2Comparer compares two macro-states; used as both the "smaller
// dominates" and "bigger dominates" relations of the upward and downward
// inclusion checkers. These are passed around as plain function values,
// never as a shared interface with subtypes, since the two directions are
// not subtypes of one another — just arguments swapped.
type ac2Comparer func(a, b *macroState) bool

// acHandle is the stable handle returned by Antichain2C.Insert: a pointer
// into the doubly linked list backing one key's bucket. It stays valid
// (nameable, not reused) until the corresponding entry is erased by
// Refine.
type acHandle struct {
	key  State
	val  *macroState
	prev *acHandle
	next *acHandle
}

// Antichain2C maps each key (a state) to a list of macro-states:
// Insert appends under a key and returns a stable handle; Refine
// removes every stored pair dominated by a new one and reports each
// erased (key, handle) pair to an Eraser callback; Contains tests whether
// some stored pair already dominates a candidate; Lookup returns the
// macro-states stored under one key.
type Antichain2C struct {
	buckets map[State]*acHandle // head of the bucket's list, or nil
}

// NewAntichain2C returns an empty Antichain2C.
func NewAntichain2C() *Antichain2C {
	return &Antichain2C{buckets: make(map[State]*acHandle)}
}

// Insert appends v under key and returns a handle to the new entry.
// Contract: after Insert(k, v) without a subsequent Refine,
// Contains([]State{k}, v, cmp) is true for any reflexive cmp, such as one
// built on lessEqual.
func (a *Antichain2C) Insert(key State, v *macroState) *acHandle {
	h := &acHandle{key: key, val: v}
	tail := a.buckets[key]
	if tail == nil {
		a.buckets[key] = h
		return h
	}
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = h
	h.prev = tail
	return h
}

// Lookup returns every macro-state stored under key.
func (a *Antichain2C) Lookup(key State) []*macroState {
	var out []*macroState
	for h := a.buckets[key]; h != nil; h = h.next {
		out = append(out, h.val)
	}
	return out
}

// Eraser is called by Refine for every (key, handle) pair it removes, so
// that a caller maintaining a parallel "pending" structure (the `next`
// antichain of the upward inclusion checker) can evict the corresponding
// entry there too.
type Eraser func(key State, removed *acHandle)

// Refine removes every pair (k', v') with k' in keys such that cmp(v, v')
// holds — i.e. the new candidate v dominates the stored v' — and reports
// each removal to erase.
func (a *Antichain2C) Refine(keys []State, v *macroState, cmp ac2Comparer, erase Eraser) {
	for _, k := range keys {
		h := a.buckets[k]
		for h != nil {
			next := h.next
			if cmp(v, h.val) {
				a.unlink(k, h)
				if erase != nil {
					erase(k, h)
				}
			}
			h = next
		}
	}
}

func (a *Antichain2C) unlink(key State, h *acHandle) {
	if h.prev != nil {
		h.prev.next = h.next
	} else {
		a.buckets[key] = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
}

// Contains reports whether some stored pair (k', v') with k' in keys
// already dominates v under cmp, i.e. cmp(v', v) holds.
func (a *Antichain2C) Contains(keys []State, v *macroState, cmp ac2Comparer) bool {
	for _, k := range keys {
		for h := a.buckets[k]; h != nil; h = h.next {
			if cmp(h.val, v) {
				return true
			}
		}
	}
	return false
}
