// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

// counterRow is the reference-counted, copy-on-write per-(block,label)
// counter: when a block splits, the child receives a shared row; the
// first mutation on the shared row triggers a clone. The row is an
// explicit header {refcount, master, values[]} rather than a language
// shared pointer, because the mutation protocol is bespoke: the first
// field is the refcount, the second is a generation counter ("master"),
// the rest are the per-predecessor-state counts.
type counterRow struct {
	refcount *int32
	master   *int32
	values   []int32
}

// vecPool recycles counter-row backing arrays instead of letting every
// clone allocate a fresh one: a stack of integer vectors (counter rows);
// get pops the most recently returned vector and reuses it when its
// capacity suffices, and otherwise allocates a new one.
type vecPool struct {
	free [][]int32
}

func newVecPool() *vecPool { return &vecPool{} }

func (p *vecPool) get(n int) []int32 {
	if l := len(p.free); l > 0 {
		v := p.free[l-1]
		p.free = p.free[:l-1]
		if cap(v) >= n {
			v = v[:n]
			for i := range v {
				v[i] = 0
			}
			return v
		}
	}
	return make([]int32, n)
}

func (p *vecPool) put(v []int32) {
	p.free = append(p.free, v)
}

// newCounterRow allocates a fresh, uniquely owned row of size n.
func newCounterRow(n int, pool *vecPool) *counterRow {
	refcount := int32(1)
	master := int32(0)
	return &counterRow{refcount: &refcount, master: &master, values: pool.get(n)}
}

// share returns a new header pointing at the same backing array as c,
// bumping the shared refcount. Used when a block splits: both children
// start out pointing at the parent's row for a given label.
func (c *counterRow) share() *counterRow {
	*c.refcount++
	return &counterRow{refcount: c.refcount, master: c.master, values: c.values}
}

// cow ensures c privately owns its backing array, cloning it (from pool)
// on the first write after a share. Must be called before any mutation.
func (c *counterRow) cow(pool *vecPool) {
	if *c.refcount == 1 {
		return
	}
	*c.refcount--
	fresh := pool.get(len(c.values))
	copy(fresh, c.values)
	refcount := int32(1)
	master := *c.master + 1
	c.refcount = &refcount
	c.master = &master
	c.values = fresh
}

func (c *counterRow) get(i int) int32 { return c.values[i] }

// decr decrements slot i (copy-on-write first) and returns the new value.
func (c *counterRow) decr(pool *vecPool, i int) int32 {
	c.cow(pool)
	c.values[i]--
	return c.values[i]
}

func (c *counterRow) release(pool *vecPool) {
	*c.refcount--
	if *c.refcount == 0 {
		pool.put(c.values)
	}
}
