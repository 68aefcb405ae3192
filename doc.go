// Package swarhood implements a performance-oriented, open-addressed hash
// table using Robin Hood hashing accelerated by a SWAR (SIMD-within-a-
// register) metadata lane.
//
// Every slot's metadata — a probe sequence length (PSL) plus a hoisted
// sub-hash — is packed into a sub-laned SWAR word, so a single machine
// word's worth of slots can be searched with ordinary integer arithmetic
// instead of a loop over individual slots. The three layers involved are:
//
//   - internal/swar: the lane-partitioned word algebra (broadcast,
//     lane-wise equals/greater-equal, isolate/clear lowest set bit) and
//     its sub-laned extension (splitting a lane into a PSL sub-lane and a
//     hoisted-hash sub-lane).
//   - internal/metadata: the Robin Hood metadata engine built on that
//     algebra — PotentialMatches, needle construction, and the misaligned
//     word reader that lets a scan start at any slot, not just a word
//     boundary.
//   - internal/reduce: the hash-mapping pipeline — Fibonacci scatter,
//     Lemire range reduction to the table's capacity, and the top-bits
//     fold that derives the hoisted sub-hash.
//
// This package itself is the table front end: open-addressed slot
// storage with a Skarupke overflow tail (so the inner probe loop never
// needs a modulo), wired to the three layers above.
//
// The table is not safe for concurrent use; see Config for construction
// options.
package swarhood
