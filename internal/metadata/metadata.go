// Package metadata implements the Robin Hood metadata engine: a contiguous
// array of SWAR words, one lane per slot, where the low sub-lane carries a
// probe sequence length (PSL) and the high sub-lane carries a hoisted
// sub-hash. PotentialMatches is the core primitive that drives both search
// and insertion in the table front end.
package metadata

import "github.com/tetratelabs/swarhood/internal/swar"

// Layout is the sub-laned SWAR layout of one metadata word: PSL in the low
// sub-lane, hoisted hash in the high sub-lane.
type Layout = swar.SubLayout

// New builds the metadata Layout for a wordBits-wide word whose PSL field
// is leastBits bits wide and whose hoisted-hash field is mostBits bits
// wide.
func New(wordBits, leastBits, mostBits int) Layout {
	return swar.NewSubLayout(wordBits, leastBits, mostBits)
}

// MaxPSL returns the largest PSL value the layout's least sub-lane can
// encode (2^LeastBits - 1). This is also the Skarupke tail length: the
// spec's M_lo - 1 where M_lo = 2^L_lo.
func MaxPSL[W swar.Word](l Layout) int {
	return int(swar.LeastMask[W](l))
}

// MakeNeedle constructs the needle SWAR for a scan starting at PSL p0 with
// hoisted hash h: lane i carries PSL (p0+i+1), clamped to MaxPSL(l), and
// hash h. The +1 is what makes an empty haystack lane (PSL 0) always
// strictly less rich than any needle lane, with no special-casing
// required in PotentialMatches.
//
// The clamp matters at the canonical L_lo=3, Lanes=8 configuration (and
// any config where p0+Lanes reaches 2^LeastBits): the unclamped PSL
// p0+i+1 can equal 2^LeastBits exactly, which does not fit the PSL
// sub-lane and would otherwise silently wrap to 0 — indistinguishable
// from an empty slot. Clamping to MaxPSL instead keeps that lane's PSL
// the largest value the sub-lane can represent, which is still greater
// than or equal to every real occupant PSL (occupant PSLs never exceed
// MaxPSL either, by construction in Table.Insert).
func MakeNeedle[W swar.Word](l Layout, p0 int, h W) W {
	maxPSL := W(MaxPSL[W](l))
	var needle W
	for i := 0; i < l.Lanes; i++ {
		psl := W(p0 + i + 1)
		if psl > maxPSL {
			psl = maxPSL
		}
		lane := swar.MakeLane[W](l, psl, h)
		needle |= lane << uint(i*l.LaneBits)
	}
	return needle
}

// AdvanceNeedle bumps a needle produced by MakeNeedle forward by one
// metadata word's worth of lanes (Lanes), for continuing a scan into the
// next word without reconstructing the needle from scratch.
//
// The bump touches only each lane's PSL sub-lane, and saturates at
// MaxPSL rather than adding Lanes across the whole lane: at the
// canonical L_lo=3, Lanes=8 configuration, Lanes equals 2^LeastBits, so
// adding it directly (even lane-wise) would carry straight out of the
// PSL sub-lane and corrupt the adjacent hoisted-hash sub-lane instead of
// leaving it untouched.
func AdvanceNeedle[W swar.Word](l Layout, needle W) W {
	maxPSL := W(MaxPSL[W](l))
	most := swar.Most[W](l, needle)
	var least W
	for i := 0; i < l.Lanes; i++ {
		next := swar.LeastAt[W](l, needle, i) + W(l.Lanes)
		if next > maxPSL {
			next = maxPSL
		}
		least = swar.SetLeast[W](l, least, i, next)
	}
	return least | most
}

// PotentialMatches is the core search/insert primitive. Given a needle (the
// PSLs the caller would have at each lane if it kept probing, plus the
// target hoisted hash) and a haystack (the actual stored metadata word), it
// returns:
//
//   - matches: a Boolean SWAR with a lane's MSB set iff that lane's PSL and
//     hoisted hash both equal the needle's — a candidate worth a deep key
//     comparison.
//   - deadline: zero if the search must continue into the next word, or
//     the isolated low bit of the first lane where the haystack's PSL is
//     strictly less than the needle's PSL. By Robin Hood monotonicity, the
//     sought key (if present) cannot be beyond that lane, so the caller may
//     stop; an inserting caller uses the deadline lane as its insertion
//     point.
func PotentialMatches[W swar.Word](l Layout, needle, haystack W) (deadline, matches W) {
	sames := swar.Equals[W](l.Layout, needle, haystack)

	np := swar.Least[W](l, needle)
	hp := swar.Least[W](l, haystack)
	// richer: lanes where the haystack's actual PSL is strictly less than
	// the needle's. Both np and hp already have their full-lane MSB clear
	// (Least masks away the most sub-lane, which owns that bit as long as
	// MostBits >= 1), so either operand order satisfies the MSB-off
	// precondition; we compare hp>=np and negate to land on "hp < np"
	// directly, matching the deadline definition in the invariant.
	hpGEnp := swar.GreaterEqualMSBOff[W](l.Layout, hp, np)
	richer := ^hpGEnp & swar.MSBs[W](l.Layout)

	if richer == 0 {
		return 0, sames
	}
	deadlineBit := swar.IsolateLSB(richer)
	deadlineMask := deadlineBit - 1
	return deadlineBit, sames & deadlineMask
}
