package swarhood

import (
	"fmt"

	"github.com/tetratelabs/swarhood/internal/metadata"
	"github.com/tetratelabs/swarhood/internal/reduce"
	"github.com/tetratelabs/swarhood/internal/swar"
)

// entry holds one slot's payload. A slot with PSL 0 in the metadata word
// has an unspecified (zero-valued) entry; it is never read without first
// checking the PSL.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Table is an open-addressed Robin Hood hash table whose metadata is
// packed into sub-laned SWAR words, searched and advanced a whole word at
// a time via the internal/metadata engine.
//
// A Table is not safe for concurrent use by multiple goroutines without
// external synchronization.
type Table[K comparable, V any] struct {
	capacity   int
	totalSlots int // capacity + Skarupke tail (MaxPSL lanes)
	layout     metadata.Layout
	maxPSL     int

	words []uint64
	slots []entry[K, V]
	count int

	hash  func(K) uint64
	equal func(a, b K) bool
}

// New builds a Table from the given options. WithCapacity and WithHash
// are required; see Config for the rest.
func New[K comparable, V any](opts ...Option[K]) (*Table[K, V], error) {
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newTable[K, V](cfg), nil
}

func newTable[K comparable, V any](cfg Config[K]) *Table[K, V] {
	layout := metadata.New(wordBits, cfg.LeastBits, cfg.MostBits)
	maxPSL := metadata.MaxPSL[uint64](layout)
	totalSlots := cfg.Capacity + maxPSL

	wordCount := (totalSlots + layout.Lanes - 1) / layout.Lanes
	return &Table[K, V]{
		capacity:   cfg.Capacity,
		totalSlots: totalSlots,
		layout:     layout,
		maxPSL:     maxPSL,
		words:      make([]uint64, wordCount),
		slots:      make([]entry[K, V], totalSlots),
		hash:       cfg.Hash,
		equal:      cfg.Equal,
	}
}

// Len returns the number of keys currently stored.
func (t *Table[K, V]) Len() int { return t.count }

// IsEmpty reports whether the table holds no keys.
func (t *Table[K, V]) IsEmpty() bool { return t.count == 0 }

// Capacity returns the table's logical capacity (home slots, excluding
// the Skarupke overflow tail).
func (t *Table[K, V]) Capacity() int { return t.capacity }

// LoadFactor returns Len()/Capacity().
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(t.capacity)
}

// MaxPSL returns the largest probe sequence length currently in use
// across all occupied slots, an empty-table-safe 0 if none.
func (t *Table[K, V]) MaxPSL() int {
	max := 0
	for i := 0; i < t.totalSlots; i++ {
		if psl := t.pslAt(i); psl > max {
			max = psl
		}
	}
	return max
}

func (t *Table[K, V]) pslAt(i int) int {
	w, m := i/t.layout.Lanes, i%t.layout.Lanes
	return int(swar.LeastAt[uint64](t.layout, t.words[w], m))
}

func (t *Table[K, V]) hashAt(i int) uint64 {
	w, m := i/t.layout.Lanes, i%t.layout.Lanes
	return swar.MostAt[uint64](t.layout, t.words[w], m)
}

func (t *Table[K, V]) setLane(i, psl int, hash uint64) {
	w, m := i/t.layout.Lanes, i%t.layout.Lanes
	t.words[w] = swar.SetLeast[uint64](t.layout, t.words[w], m, uint64(psl))
	t.words[w] = swar.SetMost[uint64](t.layout, t.words[w], m, hash)
}

func (t *Table[K, V]) clearLane(i int) {
	t.setLane(i, 0, 0)
}

// probeResult is the outcome of walking the metadata engine for a key,
// shared by Find, Insert and Erase so each only runs the search once.
type probeResult struct {
	home           int
	hoisted        uint64
	found          bool
	slot           int // valid iff found
	insertionPoint int // valid iff !found: first slot whose occupant is poorer than the needle
}

func (t *Table[K, V]) probe(key K) probeResult {
	rawHash := t.hash(key)
	home := reduce.Home64(rawHash, t.capacity)
	hoisted := reduce.HoistedHash64(rawHash, t.layout.MostBits)

	reader := metadata.NewReader[uint64](t.layout, t.words)
	needle := metadata.MakeNeedle[uint64](t.layout, 0, hoisted)
	current := home

	for current < t.totalSlots {
		haystack := reader.WordAt(current)
		deadline, matches := metadata.PotentialMatches[uint64](t.layout, needle, haystack)

		for matches != 0 {
			lane := swar.LSBLaneIndex[uint64](t.layout.Layout, matches)
			idx := current + lane
			if idx < t.totalSlots && t.equal(t.slots[idx].key, key) {
				return probeResult{home: home, hoisted: hoisted, found: true, slot: idx}
			}
			matches = swar.ClearLSB(matches)
		}

		if deadline != 0 {
			lane := swar.LSBLaneIndex[uint64](t.layout.Layout, deadline)
			return probeResult{home: home, hoisted: hoisted, found: false, insertionPoint: current + lane}
		}

		current += t.layout.Lanes
		needle = metadata.AdvanceNeedle[uint64](t.layout, needle)
	}

	// The Skarupke tail guarantees a deadline is always hit before the
	// metadata array runs out for any table respecting MaxPSL; reaching
	// here means the table is already as full as it can get.
	return probeResult{home: home, hoisted: hoisted, found: false, insertionPoint: t.totalSlots}
}

// Find returns the value stored for key, if any.
func (t *Table[K, V]) Find(key K) (V, bool) {
	p := t.probe(key)
	if !p.found {
		var zero V
		return zero, false
	}
	return t.slots[p.slot].value, true
}

// InsertResult reports what Insert did.
type InsertResult[V any] struct {
	// Replaced is true if key already existed and its value was
	// overwritten; Previous then holds the value it had before.
	Replaced bool
	Previous V
}

// Insert stores value under key, overwriting and returning any previous
// value. If key is new, it is placed by Robin Hood displacement starting
// at its insertion point, evicting and re-homing poorer occupants along
// the way. Insert fails with ErrTableFull if doing so would need a probe
// sequence length the metadata layout cannot represent; the table is then
// left unchanged.
func (t *Table[K, V]) Insert(key K, value V) (InsertResult[V], error) {
	p := t.probe(key)
	if p.found {
		prev := t.slots[p.slot].value
		t.slots[p.slot].value = value
		return InsertResult[V]{Replaced: true, Previous: prev}, nil
	}

	newPSL := p.insertionPoint - p.home + 1
	newHash := p.hoisted
	traveling := entry[K, V]{key: key, value: value}
	cur := p.insertionPoint

	// Dry-run the displacement chain first, so a chain that would overflow
	// MaxPSL fails before any slot is touched.
	for psl, c := newPSL, cur; ; c++ {
		if psl > t.maxPSL || c >= t.totalSlots {
			return InsertResult[V]{}, fmt.Errorf("%w: capacity=%d maxPSL=%d", ErrTableFull, t.capacity, t.maxPSL)
		}
		occupant := t.pslAt(c)
		if occupant == 0 {
			break
		}
		if occupant < psl {
			psl = occupant
		}
		psl++
	}

	for {
		if newPSL > t.maxPSL || cur >= t.totalSlots {
			return InsertResult[V]{}, fmt.Errorf("%w: capacity=%d maxPSL=%d", ErrTableFull, t.capacity, t.maxPSL)
		}
		psl := t.pslAt(cur)
		if psl == 0 {
			t.setLane(cur, newPSL, newHash)
			t.slots[cur] = traveling
			t.count++
			return InsertResult[V]{}, nil
		}
		if psl < newPSL {
			evictedHash := t.hashAt(cur)
			evicted := t.slots[cur]
			t.setLane(cur, newPSL, newHash)
			t.slots[cur] = traveling
			newPSL = psl + 1
			newHash = evictedHash
			traveling = evicted
		} else {
			newPSL++
		}
		cur++
	}
}

// Erase removes key, returning its value if present.
//
// After clearing the slot, occupants past it are shifted backward one
// position (and their PSL decremented) for as long as they are displaced
// from their own home — this is what keeps the PSL-monotonicity invariant
// intact without a full rehash.
func (t *Table[K, V]) Erase(key K) (V, bool) {
	p := t.probe(key)
	if !p.found {
		var zero V
		return zero, false
	}
	old := t.slots[p.slot].value

	cur := p.slot
	for {
		next := cur + 1
		if next >= t.totalSlots {
			break
		}
		nextPSL := t.pslAt(next)
		if nextPSL <= 1 {
			break
		}
		t.setLane(cur, nextPSL-1, t.hashAt(next))
		t.slots[cur] = t.slots[next]
		cur = next
	}
	t.clearLane(cur)
	var zero entry[K, V]
	t.slots[cur] = zero
	t.count--
	return old, true
}

// ForEach calls fn for every stored key/value pair in slot order (not
// insertion or hash order). Iteration stops early if fn returns false.
func (t *Table[K, V]) ForEach(fn func(K, V) bool) {
	for i := 0; i < t.totalSlots; i++ {
		if t.pslAt(i) == 0 {
			continue
		}
		if !fn(t.slots[i].key, t.slots[i].value) {
			return
		}
	}
}

// Rehash rebuilds the table at newCapacity, reinserting every key under
// the same Hash/Equal/LeastBits/MostBits. It fails without modifying the
// receiver if newCapacity is invalid or the new table cannot hold an
// existing key within the metadata layout's MaxPSL.
func (t *Table[K, V]) Rehash(newCapacity int) error {
	if newCapacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidParameter, newCapacity)
	}
	if newCapacity >= 1<<32 {
		return fmt.Errorf("%w: capacity %d must be less than 2^32", ErrInvalidParameter, newCapacity)
	}
	fresh := newTable[K, V](Config[K]{
		Capacity:  newCapacity,
		LeastBits: t.layout.LeastBits,
		MostBits:  t.layout.MostBits,
		Hash:      t.hash,
		Equal:     t.equal,
	})

	var insertErr error
	t.ForEach(func(k K, v V) bool {
		if _, err := fresh.Insert(k, v); err != nil {
			insertErr = err
			return false
		}
		return true
	})
	if insertErr != nil {
		return insertErr
	}
	*t = *fresh
	return nil
}
