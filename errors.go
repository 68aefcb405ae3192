package swarhood

import "errors"

// ErrTableFull is returned by Insert and Rehash when an insertion would
// need a probe sequence length longer than the metadata layout can
// represent. It means the Skarupke overflow tail — sized from LeastBits —
// has been exhausted; the fix is a larger capacity, a larger LeastBits, or
// a better hash function, not a retry.
var ErrTableFull = errors.New("swarhood: table full")

// ErrInvalidParameter is returned by New and Rehash when a Config value is
// out of range: non-positive capacity, a lane split that doesn't divide
// the backing word, or a missing hash function.
var ErrInvalidParameter = errors.New("swarhood: invalid parameter")
