// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import (
	"sort"
	"strconv"
	"strings"
)

// This file computes the maximal simulation preorder on the states of an
// automaton, viewed as a labelled transition system. The LTS is derived
// by viewing each transition's child slot as a labelled edge: a
// transition sym(c0,...,ck-1) -> p contributes, for every slot i, an edge
// p --(sym,i)--> c_i. The relation R produced is exactly the coarsest
// preorder consistent with the caller's initial over-approximation R0
// such that p R q implies: for every (sym,i)-edge p -> c, there is a
// (sym,i)-edge q -> c' with c R c'. That is the downward simulation the
// upward and downward inclusion checkers use to prune macro-state
// comparisons.
//
// The engine below follows an OLRT partition-refinement shape: blocks
// realized as rings (ring.go), shared copy-on-write per-label counters
// (counter.go), a worklist of (block, label) pairs, and remove lists.
// Removal is driven by a directly computed witness count (see
// (*olrt).relatedSuccessorCount), which the counters cache and the
// worklist invalidates incrementally; see DESIGN.md for the trade-off.

type label struct {
	sym  Symbol
	slot int
}

// lts is the labelled transition system derived from an automaton's
// transitions for the purpose of simulation.
type lts struct {
	n      int // number of states
	labels []label
	succ   [][][]int // succ[label][state] -> successor state indices
	pred   [][][]int // pred[label][state] -> predecessor state indices
}

func deriveLTS(n int, index map[State]int, transitions []Transition) *lts {
	labelID := make(map[label]int)
	l := &lts{n: n}
	ensureLabel := func(lb label) int {
		if id, ok := labelID[lb]; ok {
			return id
		}
		id := len(l.labels)
		labelID[lb] = id
		l.labels = append(l.labels, lb)
		l.succ = append(l.succ, make([][]int, n))
		l.pred = append(l.pred, make([][]int, n))
		return id
	}
	for _, t := range transitions {
		p := index[t.Parent]
		for i, c := range t.Children {
			id := ensureLabel(label{sym: t.Sym, slot: i})
			ci := index[c]
			l.succ[id][p] = append(l.succ[id][p], ci)
			l.pred[id][ci] = append(l.pred[id][ci], p)
		}
	}
	return l
}

// leafProfile returns, per state index, the set of leaf symbols that state
// produces. A leaf transition sym -> p is a move just like any other, and
// simulation requires every move from p to be matched by a move from q —
// but a leaf move has no child state for deriveLTS to hang an edge off of,
// so it cannot be discovered through succ/pred alone; the initial
// partition has to carry it instead.
func leafProfile(n int, index map[State]int, transitions []Transition) []map[Symbol]bool {
	profiles := make([]map[Symbol]bool, n)
	for _, t := range transitions {
		if len(t.Children) != 0 {
			continue
		}
		p := index[t.Parent]
		if profiles[p] == nil {
			profiles[p] = make(map[Symbol]bool)
		}
		profiles[p][t.Sym] = true
	}
	return profiles
}

func profileSubset(a, b map[Symbol]bool) bool {
	for sym := range a {
		if !b[sym] {
			return false
		}
	}
	return true
}

func profileKey(p map[Symbol]bool) string {
	syms := make([]Symbol, 0, len(p))
	for sym := range p {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	var b strings.Builder
	for i, sym := range syms {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(sym)))
	}
	return b.String()
}

// refineByLeafProfile splits part (or the trivial single-block partition,
// if part is nil) so that no block mixes two states with different leaf
// profiles, returning the refined partition together with each resulting
// block's (uniform, by construction) profile. Later splits never need to
// consult profiles again: split only ever separates states that were
// already profile-uniform within their shared block.
func refineByLeafProfile(n int, part Partition, profiles []map[Symbol]bool) (Partition, map[int]map[Symbol]bool) {
	type key struct {
		caller int
		prof   string
	}
	ids := make(map[key]int)
	out := make(Partition, n)
	blockProfile := make(map[int]map[Symbol]bool)
	next := 0
	for i := 0; i < n; i++ {
		caller := 0
		if part != nil {
			caller = part[i]
		}
		k := key{caller: caller, prof: profileKey(profiles[i])}
		id, ok := ids[k]
		if !ok {
			id = next
			next++
			ids[k] = id
			blockProfile[id] = profiles[i]
		}
		out[i] = id
	}
	return out, blockProfile
}

// block is one class of the current partition.
type block struct {
	id    int
	head  int // a member state index, or -1 if empty
	size  int
	inset map[int]bool // labels a such that some member has an a-predecessor
	outs  map[int]bool // labels a such that some member has an a-successor

	counters   map[int]*counterRow // per label, count of successors landing in related blocks
	removeList map[int][]int       // per label, predecessor states pending re-examination
}

func newBlock(id int) *block {
	return &block{
		id:         id,
		head:       -1,
		inset:      make(map[int]bool),
		outs:       make(map[int]bool),
		counters:   make(map[int]*counterRow),
		removeList: make(map[int][]int),
	}
}

// blockRel is the relation-on-blocks R: a pair (b1, b2) present means
// "every state of b1 is currently believed simulated by every state of
// b2." It starts as the caller's R0 and only ever shrinks.
type blockRel struct {
	out map[int]map[int]bool
	in  map[int]map[int]bool
}

func newBlockRel() *blockRel {
	return &blockRel{out: make(map[int]map[int]bool), in: make(map[int]map[int]bool)}
}

func (r *blockRel) related(b1, b2 int) bool { return r.out[b1][b2] }

func (r *blockRel) add(b1, b2 int) {
	if r.out[b1] == nil {
		r.out[b1] = make(map[int]bool)
	}
	r.out[b1][b2] = true
	if r.in[b2] == nil {
		r.in[b2] = make(map[int]bool)
	}
	r.in[b2][b1] = true
}

func (r *blockRel) clear(b1, b2 int) {
	delete(r.out[b1], b2)
	delete(r.in[b2], b1)
}

func (r *blockRel) outOf(b int) []int {
	out := make([]int, 0, len(r.out[b]))
	for x := range r.out[b] {
		out = append(out, x)
	}
	return out
}

func (r *blockRel) inOf(b int) []int {
	out := make([]int, 0, len(r.in[b]))
	for x := range r.in[b] {
		out = append(out, x)
	}
	return out
}

// worklist is the OLRT stack of (block, label) pairs awaiting
// processRemove, deduplicated so a pair already queued is not pushed
// twice.
type worklist struct {
	stack  []olrtItem
	queued map[olrtItem]bool
}

type olrtItem struct {
	block int
	label int
}

func newWorklist() *worklist {
	return &worklist{queued: make(map[olrtItem]bool)}
}

func (w *worklist) push(item olrtItem) {
	if w.queued[item] {
		return
	}
	w.queued[item] = true
	w.stack = append(w.stack, item)
}

func (w *worklist) pop() (olrtItem, bool) {
	if len(w.stack) == 0 {
		return olrtItem{}, false
	}
	item := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	delete(w.queued, item)
	return item, true
}

// olrt holds all the mutable state of one simulation computation.
type olrt struct {
	l          *lts
	ring       *ring
	blockOf    []int
	blocks     map[int]*block
	nextBlock  int
	rel        *blockRel
	pool       *vecPool
	work       *worklist
}

// Partition assigns each state, by dense index (the order returned by
// (*Automaton).States), to an initial block. A nil Partition means "one
// block containing every state."
type Partition []int

func newOLRT(l *lts, part Partition) *olrt {
	n := l.n
	o := &olrt{
		l:       l,
		ring:    newRing(n),
		blockOf: make([]int, n),
		blocks:  make(map[int]*block),
		rel:     newBlockRel(),
		pool:    newVecPool(),
		work:    newWorklist(),
	}
	if part == nil {
		part = make(Partition, n)
	}
	maxID := -1
	for _, b := range part {
		if b > maxID {
			maxID = b
		}
	}
	for id := 0; id <= maxID; id++ {
		o.blocks[id] = newBlock(id)
	}
	if _, ok := o.blocks[0]; !ok && n > 0 {
		o.blocks[0] = newBlock(0)
	}
	o.nextBlock = maxID + 1
	for i := 0; i < n; i++ {
		id := part[i]
		b := o.blocks[id]
		o.blockOf[i] = id
		if b.head < 0 {
			b.head = i
		} else {
			o.ring.spliceAfter(b.head, i)
		}
		b.size++
	}
	return o
}

// buildInOut computes, for every block, the set of labels with a member
// having a predecessor (inset) and the set of labels with a member having
// a successor (outset).
func (o *olrt) buildInOut() {
	for a := range o.l.labels {
		for s := 0; s < o.l.n; s++ {
			if len(o.l.pred[a][s]) > 0 {
				o.blocks[o.blockOf[s]].inset[a] = true
			}
			if len(o.l.succ[a][s]) > 0 {
				o.blocks[o.blockOf[s]].outs[a] = true
			}
		}
	}
}

// relatedSuccessorCount returns the number of a-successors of state q
// that currently lie in a block related (by rel) to block b. This is the
// ground truth that the per-block counter rows cache and that
// processRemove keeps in sync incrementally.
func (o *olrt) relatedSuccessorCount(a, q, b int) int32 {
	var n int32
	for _, s := range o.l.succ[a][q] {
		if o.rel.related(o.blockOf[s], b) {
			n++
		}
	}
	return n
}

func (o *olrt) counterFor(b *block, a int) *counterRow {
	if c, ok := b.counters[a]; ok {
		return c
	}
	c := newCounterRow(o.l.n, o.pool)
	b.counters[a] = c
	return c
}

// initialize seeds R0 across every pair of (initial) blocks — by default
// the top relation, restricted by the caller's r0 if given — then
// pre-prunes R by reachability on outgoing labels: remove R(B1, B2)
// whenever B1 has an outgoing label that B2 has no matching outgoing
// label for at all, since no choice of successor can ever exist. Only
// after both pre-prunes does it build the per-block counters and seed the
// initial remove lists.
//
// blockProfile supplies each initial block's (uniform) leaf-symbol
// profile; R(B1, B2) is pruned the same way whenever B1's profile is not a
// subset of B2's — a leaf move is a move like any other, it is just one
// deriveLTS cannot represent as a real edge, so the initial partition and
// this second pre-prune carry it instead.
func (o *olrt) initialize(r0 *BinaryRelation, blockProfile map[int]map[Symbol]bool) {
	o.buildInOut()
	ids := make([]int, 0, len(o.blocks))
	for id := range o.blocks {
		ids = append(ids, id)
	}
	for _, b1 := range ids {
		for _, b2 := range ids {
			related := r0 == nil
			if r0 != nil && b1 < r0.Size() && b2 < r0.Size() && r0.Get(State(b1), State(b2)) {
				related = true
			}
			if related {
				o.rel.add(b1, b2)
			}
		}
	}

	// pre-prune: B1 -/-> B2 if B1 needs label a outgoing and B2 has none.
	for _, b1 := range ids {
		for _, b2 := range ids {
			if !o.rel.related(b1, b2) {
				continue
			}
			for a := range o.blocks[b1].outs {
				if !o.blocks[b2].outs[a] {
					o.rel.clear(b1, b2)
					break
				}
			}
		}
	}

	// pre-prune on leaf profiles: B1 -/-> B2 if B1 offers a leaf symbol B2
	// does not.
	for _, b1 := range ids {
		for _, b2 := range ids {
			if !o.rel.related(b1, b2) {
				continue
			}
			if !profileSubset(blockProfile[b1], blockProfile[b2]) {
				o.rel.clear(b1, b2)
			}
		}
	}

	// initial counters and remove lists, one per (block, label in inset).
	for _, bid := range ids {
		b := o.blocks[bid]
		for a := range b.inset {
			row := o.counterFor(b, a)
			preds := o.predecessorsOfBlock(b, a)
			for _, q := range preds {
				n := o.relatedSuccessorCount(a, q, bid)
				row.values[q] = n
				if n == 0 {
					b.removeList[a] = append(b.removeList[a], q)
				}
			}
			if len(b.removeList[a]) > 0 {
				o.work.push(olrtItem{block: bid, label: a})
			}
		}
	}
}

// predecessorsOfBlock returns, deduplicated, every a-predecessor of any
// current member of b.
func (o *olrt) predecessorsOfBlock(b *block, a int) []int {
	seen := make(map[int]bool)
	var out []int
	o.ring.members(b.head, func(s int) {
		for _, q := range o.l.pred[a][s] {
			if !seen[q] {
				seen[q] = true
				out = append(out, q)
			}
		}
	})
	return out
}

// run drains the worklist until a fixpoint is reached.
func (o *olrt) run() {
	for {
		item, ok := o.work.pop()
		if !ok {
			return
		}
		o.processRemove(item.block, item.label)
	}
}

// processRemove implements the worklist step. b.removeList[a]
// holds predecessor states q that, per b's own counter for label a, no
// longer have any a-successor in a block related to b: R(block(q), b)
// must be severed for exactly those q. Since other members of block(q)
// may still be fine, block(q) is split first so only the failing states
// move; R(new block, b) is then cleared, and every a-predecessor of the
// newly-unrelated states has b's own counter decremented, cascading
// further removals onto b's own remove list.
func (o *olrt) processRemove(bid, a int) {
	b := o.blocks[bid]
	removeStates := b.removeList[a]
	delete(b.removeList, a)
	if len(removeStates) == 0 {
		return
	}

	// group the states actually being removed by their CURRENT block (a
	// state may have moved since it was enqueued).
	byBlock := make(map[int][]int)
	for _, s := range removeStates {
		byBlock[o.blockOf[s]] = append(byBlock[o.blockOf[s]], s)
	}

	for oldID, states := range byBlock {
		old := o.blocks[oldID]
		affected := old
		if len(states) != old.size {
			affected = o.split(old, states)
		}
		if !o.rel.related(affected.id, bid) {
			continue
		}
		o.rel.clear(affected.id, bid)
		o.cascade(affected, b, a)
	}
}

// cascade decrements b's own counter for label a at every a-predecessor
// of affected's members, now that affected lost its relation to b, and
// re-queues b for further processing if any predecessor's count reaches
// zero.
func (o *olrt) cascade(affected, b *block, a int) {
	row := o.counterFor(b, a)
	o.ring.members(affected.head, func(s int) {
		for _, q := range o.l.pred[a][s] {
			if row.decr(o.pool, q) == 0 {
				b.removeList[a] = append(b.removeList[a], q)
			}
		}
	})
	if len(b.removeList[a]) > 0 {
		o.work.push(olrtItem{block: b.id, label: a})
	}
}

// split carves the given member states of old out into a brand new block,
// splicing the ring, copying the label bookkeeping, and sharing (COW)
// every counter row: the clone inherits shared counter rows and a copy
// of each remove list, re-enqueuing each copy.
func (o *olrt) split(old *block, states []int) *block {
	nb := newBlock(o.nextBlock)
	o.nextBlock++
	o.blocks[nb.id] = nb

	move := make(map[int]bool, len(states))
	for _, s := range states {
		move[s] = true
	}

	// if old's head is among the movers, find a surviving member to
	// retarget the head to before any ring surgery, since isolating the
	// head first would leave no way to reach the rest of the ring.
	newOldHead := -1
	if move[old.head] && old.size-len(states) > 0 {
		o.ring.members(old.head, func(s int) {
			if newOldHead < 0 && !move[s] {
				newOldHead = s
			}
		})
	}

	for _, s := range states {
		o.ring.isolate(s)
		o.blockOf[s] = nb.id
		if nb.head < 0 {
			nb.head = s
		} else {
			o.ring.spliceAfter(nb.head, s)
		}
		nb.size++
	}
	old.size -= nb.size
	if move[old.head] {
		old.head = newOldHead
	}

	for a := range old.inset {
		nb.inset[a] = true
	}
	for a := range old.outs {
		nb.outs[a] = true
	}
	for a, row := range old.counters {
		nb.counters[a] = row.share()
	}
	for a, rl := range old.removeList {
		keepOld, keepNew := rl, append([]int(nil), rl...)
		if len(keepOld) > 0 {
			old.removeList[a] = keepOld
			o.work.push(olrtItem{block: old.id, label: a})
		} else {
			delete(old.removeList, a)
		}
		if len(keepNew) > 0 {
			nb.removeList[a] = keepNew
			o.work.push(olrtItem{block: nb.id, label: a})
		}
	}

	for _, x := range o.rel.outOf(old.id) {
		o.rel.add(nb.id, x)
	}
	for _, x := range o.rel.inOf(old.id) {
		o.rel.add(x, nb.id)
	}
	if o.rel.related(old.id, old.id) {
		o.rel.add(nb.id, nb.id)
		o.rel.add(old.id, nb.id)
		o.rel.add(nb.id, old.id)
	}
	return nb
}

// closure enforces that the output relation is reflexive and transitive,
// guarding against any residual drift between the incremental counters and
// the direct ground truth. The partition-refinement fixpoint is a preorder by
// construction when R0 is; this pass makes that guarantee explicit rather
// than implicit in the bookkeeping above.
func (o *olrt) closure() {
	ids := make([]int, 0, len(o.blocks))
	for id := range o.blocks {
		ids = append(ids, id)
	}
	for _, id := range ids {
		o.rel.add(id, id)
	}
	for _, k := range ids {
		for _, i := range ids {
			if !o.rel.related(i, k) {
				continue
			}
			for _, j := range ids {
				if o.rel.related(k, j) {
					o.rel.add(i, j)
				}
			}
		}
	}
}

// ComputeSimulation computes the maximal simulation preorder over aut's
// states. The result is a *BinaryRelation indexed directly by State
// values appearing in aut; a nil Partition starts every state in a
// single block except where leaf-symbol profiles differ — those states
// are split into separate blocks before refinement begins, since a leaf
// production is a move the simulation law must account for just like any
// other, and a nil r0 starts from the top relation (every block related
// to every other, subject to that same leaf-profile split). Passing a
// non-trivial part/r0 lets a caller seed the computation from coarser
// information already known to hold (e.g. language-equivalence classes
// from an earlier pass); leaf profiles still refine it further.
func ComputeSimulation(aut *Automaton, part Partition, r0 *BinaryRelation) *BinaryRelation {
	states := aut.States()
	n := len(states)
	index := make(map[State]int, n)
	maxState := State(-1)
	for i, s := range states {
		index[s] = i
		if s > maxState {
			maxState = s
		}
	}
	transitions := aut.Transitions()
	l := deriveLTS(n, index, transitions)
	profiles := leafProfile(n, index, transitions)
	refinedPart, blockProfile := refineByLeafProfile(n, part, profiles)

	o := newOLRT(l, refinedPart)
	o.initialize(r0, blockProfile)
	o.run()
	o.closure()

	out := newRelation(int(maxState) + 1)
	for i, si := range states {
		bi := o.blockOf[i]
		for j, sj := range states {
			bj := o.blockOf[j]
			if o.rel.related(bi, bj) {
				out.Set(si, sj, true)
			}
		}
	}
	return out
}

// ComputeCrossSimulation computes a simulation preorder shared by the
// states of two automata, by running ComputeSimulation over their
// disjoint union: union first, then a whole-automaton pass, the same
// shape the binary combinators are built from. It returns the relation
// together with the two translation maps from the originals' states into
// the union's, so a caller can look up R(a-side state, b-side
// state) directly.
func ComputeCrossSimulation(a, b *Automaton) (*BinaryRelation, map[State]State, map[State]State) {
	u, mapA, mapB := Union(a, b)
	r := ComputeSimulation(u, nil, nil)
	return r, mapA, mapB
}
