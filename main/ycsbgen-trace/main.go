package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/mit-pdos/gokv/grove_ffi"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	"github.com/mit-pdos/ycsbgen/trace"
	"github.com/mit-pdos/ycsbgen/workload"
)

type keyCount struct {
	key string
	n   uint64
}

func main() {
	var ntop int
	flag.IntVar(&ntop, "top", 10, "number of hottest keys to show")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-top n] trace... (names relative to %s)\n", os.Args[0], grove_ffi.DataDir)
		os.Exit(1)
	}

	var counts [workload.N_OP_KINDS]uint64
	// Accesses per key, inserts excluded.
	hits := make(map[string]uint64)
	inserted := make(map[string]bool)
	var n uint64
	for _, fname := range flag.Args() {
		ops, err := trace.Read(fname)
		if err != nil {
			log.Fatal().Err(err).Str("trace", fname).Msg("cannot read trace")
		}
		log.Info().Str("trace", fname).Int("operations", len(ops)).Msg("read")
		for _, op := range ops {
			counts[op.Kind]++
			n++
			if op.Kind == workload.OP_INSERT {
				if inserted[op.Key] {
					log.Warn().Str("key", op.Key).Msg("key inserted twice")
				}
				inserted[op.Key] = true
				continue
			}
			hits[op.Key]++
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Count"})
	for k, c := range counts {
		table.Append([]string{workload.OpKind(k).String(), strconv.FormatUint(c, 10)})
	}
	table.SetFooter([]string{"Total", strconv.FormatUint(n, 10)})
	table.Render()
	fmt.Printf("distinct keys inserted = %d, accessed = %d.\n", len(inserted), len(hits))

	top := make([]keyCount, 0, len(hits))
	for k, c := range hits {
		top = append(top, keyCount{key: k, n: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].n != top[j].n {
			return top[i].n > top[j].n
		}
		return top[i].key < top[j].key
	})
	if len(top) > ntop {
		top = top[:ntop]
	}

	naccess := n - counts[workload.OP_INSERT]
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Accesses", "Share"})
	for _, kc := range top {
		table.Append([]string{
			kc.key,
			strconv.FormatUint(kc.n, 10),
			fmt.Sprintf("%.4f", float64(kc.n)/float64(naccess)),
		})
	}
	table.Render()
}
