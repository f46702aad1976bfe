// Package symtab is a small open-addressing string-keyed table, used by
// the runtime environment's frames (pvm.Environment) to map variable
// names to their bound values.
//
// Grounded on buf.build/go/hyperpb's internal/swiss package, which backs
// field-tag lookup during parsing with a SIMD-probed swiss table. That
// package's control-byte/group-probing machinery is built on unsafe byte
// scanning tuned for tables with thousands of entries probed billions of
// times a second; Poke's tables (a struct's fields, the set of open IO
// spaces) are small — tens of entries, looked up at compile time or a few
// times per statement — so this port keeps the open-addressing/tombstone
// shape of swiss.Table but drops the SIMD control-byte layer in favor of
// plain linear probing over a power-of-two bucket array.
package symtab

import "hash/maphash"

var seed = maphash.MakeSeed()

type entry[V any] struct {
	key  string
	val  V
	used bool
	dead bool
}

// Table is a string-keyed hash table with stable iteration order equal to
// insertion order (DeclMap, through the environment's frame names,
// relies on declaration order being preserved).
type Table[V any] struct {
	buckets []entry[V]
	order   []string
	count   int
}

// New returns an empty table with room for at least hint entries before
// its first grow.
func New[V any](hint int) *Table[V] {
	n := 8
	for n < hint*2 {
		n *= 2
	}
	return &Table[V]{buckets: make([]entry[V], n)}
}

func (t *Table[V]) hash(key string) uint64 {
	return maphash.String(seed, key)
}

// Get returns the value stored for key, if any.
func (t *Table[V]) Get(key string) (V, bool) {
	var zero V
	if len(t.buckets) == 0 {
		return zero, false
	}
	mask := uint64(len(t.buckets) - 1)
	i := t.hash(key) & mask
	for probe := uint64(0); probe < uint64(len(t.buckets)); probe++ {
		e := &t.buckets[(i+probe)&mask]
		if !e.used && !e.dead {
			return zero, false
		}
		if e.used && e.key == key {
			return e.val, true
		}
	}
	return zero, false
}

// Put inserts or overwrites the value for key, preserving the insertion
// position of key on overwrite.
func (t *Table[V]) Put(key string, val V) {
	if len(t.buckets) == 0 {
		t.buckets = make([]entry[V], 8)
	}
	if (t.count+1)*2 > len(t.buckets) {
		t.grow()
	}
	mask := uint64(len(t.buckets) - 1)
	i := t.hash(key) & mask
	var firstDead = -1
	for probe := uint64(0); probe < uint64(len(t.buckets)); probe++ {
		idx := (i + probe) & mask
		e := &t.buckets[idx]
		if e.used && e.key == key {
			e.val = val
			return
		}
		if e.dead && firstDead < 0 {
			firstDead = int(idx)
		}
		if !e.used && !e.dead {
			slot := idx
			if firstDead >= 0 {
				slot = uint64(firstDead)
			}
			t.buckets[slot] = entry[V]{key: key, val: val, used: true}
			t.order = append(t.order, key)
			t.count++
			return
		}
	}
}

// Delete removes key from the table, if present.
func (t *Table[V]) Delete(key string) {
	if len(t.buckets) == 0 {
		return
	}
	mask := uint64(len(t.buckets) - 1)
	i := t.hash(key) & mask
	for probe := uint64(0); probe < uint64(len(t.buckets)); probe++ {
		e := &t.buckets[(i+probe)&mask]
		if !e.used && !e.dead {
			return
		}
		if e.used && e.key == key {
			e.used = false
			e.dead = true
			t.count--
			for j, k := range t.order {
				if k == key {
					t.order = append(t.order[:j], t.order[j+1:]...)
					break
				}
			}
			return
		}
	}
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int { return t.count }

// Keys returns the live keys in insertion order.
func (t *Table[V]) Keys() []string { return t.order }

func (t *Table[V]) grow() {
	old := t.buckets
	t.buckets = make([]entry[V], len(old)*2)
	order := t.order
	t.order = nil
	t.count = 0
	for _, k := range order {
		for _, e := range old {
			if e.used && e.key == k {
				t.Put(k, e.val)
				break
			}
		}
	}
}
