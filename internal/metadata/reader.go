package metadata

import "github.com/tetratelabs/swarhood/internal/swar"

// Reader produces the logical metadata word starting at an arbitrary lane
// offset, by combining two adjacent words of the backing array. The home
// slot of a key is in general not a multiple of Lanes, so a scan's reads
// generally straddle a word boundary; Reader hides that arithmetic behind
// a simple "give me the word starting at lane X" call.
//
// The metadata array is over-allocated by a Skarupke tail of MaxPSL lanes
// past the logical capacity, so no scan needs to wrap around. A read that
// reaches past the end of the backing array sees zero words there, i.e.
// empty slots.
type Reader[W swar.Word] struct {
	layout Layout
	words  []W
}

// NewReader builds a Reader over words using l's lane layout.
func NewReader[W swar.Word](l Layout, words []W) Reader[W] {
	return Reader[W]{layout: l, words: words}
}

// WordAt reads the logical metadata word whose lane 0 is slot index
// `slot`. wordIndex = slot/Lanes and m = slot%Lanes are the aligned word
// index and the lane misalignment within it.
func (r Reader[W]) WordAt(slot int) W {
	wordIndex := slot / r.layout.Lanes
	m := slot % r.layout.Lanes
	return r.misaligned(wordIndex, m)
}

// misaligned combines the two words starting at wordIndex into the
// logical word whose lane 0 is lane m of words[wordIndex]:
//
//	out = (w0 >> (m*LaneBits)) | (w1 << ((Lanes-m)*LaneBits))
//
// m=0 needs special handling: shifting a word by its full bit width is
// undefined behavior in most systems languages, and while Go defines
// shifts of a same-width unsigned type by its bit width as producing
// zero, we still special-case m=0 to avoid ever computing that shift
// amount and to make the aligned case a single, cheap load.
func (r Reader[W]) misaligned(wordIndex, m int) W {
	w0 := r.wordAt(wordIndex)
	if m == 0 {
		return w0
	}
	// m is in [1, Lanes-1] here (m==0 returned above), so the shift below
	// is always by fewer than WordBits bits — the full-word-width shift
	// this technique must otherwise guard against never arises.
	w1 := r.wordAt(wordIndex + 1)
	lo := w0 >> uint(m*r.layout.LaneBits)
	hi := w1 << uint((r.layout.Lanes-m)*r.layout.LaneBits)
	return lo | hi
}

func (r Reader[W]) wordAt(i int) W {
	if i < len(r.words) {
		return r.words[i]
	}
	return 0
}
