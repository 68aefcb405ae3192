// Command swarhoodcheck drives a Table through a sequence of random
// insert/find/erase operations and reports whether the PSL-monotonicity
// invariant held throughout, printing the final table layout on failure.
// It is the interactive equivalent of the table's property tests: a
// hand-runnable harness for poking at a specific capacity/lane-split
// combination.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/tetratelabs/swarhood"
	"github.com/tetratelabs/swarhood/hashfn"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var capacity int
	flag.IntVar(&capacity, "capacity", 64, "table capacity")

	var leastBits int
	flag.IntVar(&leastBits, "least-bits", 3, "PSL sub-lane width")

	var mostBits int
	flag.IntVar(&mostBits, "most-bits", 5, "hoisted-hash sub-lane width")

	var ops int
	flag.IntVar(&ops, "ops", 10000, "number of random operations to run")

	var seed int64
	flag.Int64Var(&seed, "seed", 1, "random seed")

	flag.Parse()

	tbl, err := swarhood.New[uint64, uint64](
		swarhood.WithCapacity[uint64](capacity),
		swarhood.WithLeastBits[uint64](leastBits),
		swarhood.WithMostBits[uint64](mostBits),
		swarhood.WithHash[uint64](hashfn.Uint64),
	)
	if err != nil {
		fmt.Fprintln(stdErr, "building table:", err)
		return 1
	}

	rng := rand.New(rand.NewSource(seed))
	reference := make(map[uint64]uint64)
	keyDomain := int64(capacity) * 4

	var inserts, finds, erases, tableFulls int
	for i := 0; i < ops; i++ {
		key := uint64(rng.Int63n(keyDomain))
		switch rng.Intn(3) {
		case 0:
			inserts++
			if _, err := tbl.Insert(key, key); err != nil {
				tableFulls++
				continue
			}
			reference[key] = key
		case 1:
			finds++
			_, gotOK := tbl.Find(key)
			_, wantOK := reference[key]
			if gotOK != wantOK {
				fmt.Fprintf(stdErr, "find(%d) mismatch: got ok=%v, want ok=%v\n", key, gotOK, wantOK)
				tbl.Display(stdErr)
				return 1
			}
		case 2:
			erases++
			_, gotOK := tbl.Erase(key)
			_, wantOK := reference[key]
			if gotOK != wantOK {
				fmt.Fprintf(stdErr, "erase(%d) mismatch: got ok=%v, want ok=%v\n", key, gotOK, wantOK)
				tbl.Display(stdErr)
				return 1
			}
			delete(reference, key)
		}

		if ok, violation := tbl.SatisfiesInvariant(); !ok {
			fmt.Fprintf(stdErr, "invariant violated at slot %d after %d ops\n", violation, i+1)
			tbl.Display(stdErr)
			return 1
		}
	}

	if tbl.Len() != len(reference) {
		fmt.Fprintf(stdErr, "len mismatch: table has %d, reference has %d\n", tbl.Len(), len(reference))
		return 1
	}

	fmt.Fprintf(stdOut, "ok: %d ops (%d inserts, %d finds, %d erases, %d table-full), %d keys, load factor %.3f, max PSL %d\n",
		ops, inserts, finds, erases, tableFulls, tbl.Len(), tbl.LoadFactor(), tbl.MaxPSL())
	return 0
}
