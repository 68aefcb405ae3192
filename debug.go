package swarhood

import (
	"fmt"
	"io"
)

// SatisfiesInvariant checks the PSL-monotonicity invariant that the whole
// search algorithm depends on: scanning slots left to right, a slot's PSL
// must never exceed its predecessor's by more than one. It returns the
// index of the first violation, or -1 if none was found.
//
// This is a diagnostic for tests and debugging, not part of the hot path.
func (t *Table[K, V]) SatisfiesInvariant() (ok bool, violation int) {
	prev := 0
	for i := 0; i < t.totalSlots; i++ {
		psl := t.pslAt(i)
		if psl > prev+1 {
			return false, i
		}
		prev = psl
	}
	return true, -1
}

// Display writes one line per occupied slot to w: slot index, PSL,
// hoisted hash, key and value. Intended for interactive debugging
// (see cmd/swarhoodcheck), not for production logging.
func (t *Table[K, V]) Display(w io.Writer) error {
	for i := 0; i < t.totalSlots; i++ {
		psl := t.pslAt(i)
		if psl == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d\tpsl=%d\thash=%d\tkey=%v\tvalue=%v\n",
			i, psl, t.hashAt(i), t.slots[i].key, t.slots[i].value); err != nil {
			return err
		}
	}
	return nil
}
