// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// BinaryRelation is a reflexive, transitive relation on a dense range of
// states [0, Size), stored as a packed bitset. The simulation engine
// returns a BinaryRelation sized to the caller-specified output size;
// index (i,j) is true iff state i is simulated by state j.
//
// Two derived index views, Ind and Inv, are exposed because the upward
// inclusion checker and the OLRT engine both need, for a given state s,
// the set of states related upward to s (ind[s] = {t : s R t}) and
// downward (inv[s] = {t : t R s}); recomputing them from the bitset on
// every call would make the hot loops in the simulation engine and
// inclusion checkers quadratic for no reason, so they are cached and
// invalidated together with the bitset.
type BinaryRelation struct {
	size int
	bits []uint64

	indCache [][]State
	invCache [][]State
}

const wordBits = 64

func newRelation(size int) *BinaryRelation {
	words := (size*size + wordBits - 1) / wordBits
	return &BinaryRelation{size: size, bits: make([]uint64, words)}
}

// Identity returns the identity relation on [0, size): s R t iff s == t.
// Passing Identity to CheckUpwardInclusion makes it behave like plain
// subset-construction inclusion (no pruning), the same as passing nil,
// which is the baseline that pruning by a computed simulation is checked
// against. CheckDownwardInclusion also reads a supplied relation between
// its two automata's states, so there Identity relates equal-numbered
// states of the two; a nil relation gives it the no-pruning baseline.
func Identity(size int) *BinaryRelation {
	r := newRelation(size)
	for s := 0; s < size; s++ {
		r.set(State(s), State(s), true)
	}
	return r
}

// Size returns the number of states this relation is defined over.
func (r *BinaryRelation) Size() int { return r.size }

func (r *BinaryRelation) bitIndex(i, j State) int { return int(i)*r.size + int(j) }

func (r *BinaryRelation) Get(i, j State) bool {
	idx := r.bitIndex(i, j)
	return r.bits[idx/wordBits]&(1<<uint(idx%wordBits)) != 0
}

func (r *BinaryRelation) set(i, j State, v bool) {
	idx := r.bitIndex(i, j)
	w, b := idx/wordBits, uint(idx%wordBits)
	if v {
		r.bits[w] |= 1 << b
	} else {
		r.bits[w] &^= 1 << b
	}
	r.indCache = nil
	r.invCache = nil
}

// Set records i R j (or clears it). Exported so that ComputeSimulation
// and tests can populate a relation directly.
func (r *BinaryRelation) Set(i, j State, v bool) { r.set(i, j, v) }

func (r *BinaryRelation) buildIndexes() {
	if r.indCache != nil {
		return
	}
	ind := make([][]State, r.size)
	inv := make([][]State, r.size)
	for i := 0; i < r.size; i++ {
		for j := 0; j < r.size; j++ {
			if r.Get(State(i), State(j)) {
				ind[i] = append(ind[i], State(j))
				inv[j] = append(inv[j], State(i))
			}
		}
	}
	r.indCache = ind
	r.invCache = inv
}

// Ind returns {t : s R t}, the states s is related upward to.
func (r *BinaryRelation) Ind(s State) []State {
	r.buildIndexes()
	if int(s) >= len(r.indCache) {
		return nil
	}
	return r.indCache[s]
}

// Inv returns {t : t R s}, the states related downward to s.
func (r *BinaryRelation) Inv(s State) []State {
	r.buildIndexes()
	if int(s) >= len(r.invCache) {
		return nil
	}
	return r.invCache[s]
}

// IsReflexive reports whether s R s holds for every s in [0, Size). It is
// used by tests asserting that the preorder returned by the simulation
// engine is reflexive and transitive.
func (r *BinaryRelation) IsReflexive() bool {
	for s := 0; s < r.size; s++ {
		if !r.Get(State(s), State(s)) {
			return false
		}
	}
	return true
}

// IsTransitive reports whether s R t and t R u together imply s R u for
// every triple in [0, Size).
func (r *BinaryRelation) IsTransitive() bool {
	for s := 0; s < r.size; s++ {
		for t := 0; t < r.size; t++ {
			if !r.Get(State(s), State(t)) {
				continue
			}
			for u := 0; u < r.size; u++ {
				if r.Get(State(t), State(u)) && !r.Get(State(s), State(u)) {
					return false
				}
			}
		}
	}
	return true
}
