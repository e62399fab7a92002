package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goose-lang/primitive"
	"github.com/mit-pdos/gokv/grove_ffi"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mit-pdos/ycsbgen/options"
	"github.com/mit-pdos/ycsbgen/trace"
	"github.com/mit-pdos/ycsbgen/workload"
)

// Operations buffered per worker before being appended to its trace file.
const szbatch = 4096

type Result struct {
	counts [workload.N_OP_KINDS]uint64
	nbytes uint64
}

var rchannel = make(chan Result)

func appendTrace(tracefile string, ops []workload.Operation) {
	if err := trace.Append(tracefile, ops); err != nil {
		log.Fatal().Err(err).Str("trace", trace.Path(tracefile)).Msg("cannot write trace")
	}
}

func worker(id int, gen *workload.Generator, seed uint64, tracefile string) {
	r := workload.NewRand(seed, id)
	var res Result
	var batch []workload.Operation

	for {
		op, ok := gen.TryNext(r)
		if !ok {
			break
		}
		res.counts[op.Kind]++
		res.nbytes += uint64(len(op.Key) + len(op.Value))
		if tracefile == "" {
			continue
		}
		batch = append(batch, op)
		if len(batch) == szbatch {
			appendTrace(tracefile, batch)
			batch = batch[:0]
		}
	}
	if tracefile != "" && len(batch) != 0 {
		appendTrace(tracefile, batch)
	}

	rchannel <- res
}

func main() {
	var conffile string
	var nthrds int
	var tracepfx string
	var loadsleep int64
	var randseed bool
	var debug bool
	var exp bool
	flag.StringVar(&conffile, "conf", "", "location of workload file (defaults if empty)")
	flag.IntVar(&nthrds, "nthrds", 1, "number of threads")
	flag.StringVar(&tracepfx, "trace", "", "write the operations of thread i to trace <trace>.i (under "+grove_ffi.DataDir+")")
	flag.Int64Var(&loadsleep, "loadsleep", -1, "pause between load and run (seconds; -1 for the workload file's)")
	flag.BoolVar(&randseed, "randseed", false, "ignore the workload's base seed and pick a random one")
	flag.BoolVar(&debug, "debug", false, "verbose logging")
	flag.BoolVar(&exp, "exp", false, "print only experimental data")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if exp {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	opts := options.Default()
	if conffile != "" {
		var err error
		opts, err = options.LoadFile(conffile)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load workload")
		}
	}
	if loadsleep >= 0 {
		opts.LoadSleep = time.Duration(loadsleep) * time.Second
	}
	if randseed {
		opts.BaseSeed = primitive.RandomUint64()
	}
	if nthrds < 1 {
		log.Fatal().Int("nthrds", nthrds).Msg("need at least one thread")
	}
	log.Debug().Msgf("workload:\n%s", opts.String())

	gen, err := workload.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid workload")
	}
	log.Info().
		Uint64("records", opts.RecordCount).
		Uint64("operations", opts.OperationCount).
		Str("distribution", opts.RequestDistribution).
		Uint64("estimated_keys", gen.EstimatedKeys()).
		Int("nthrds", nthrds).
		Msg("generating")

	begin := time.Now()
	for i := 0; i < nthrds; i++ {
		var tracefile string
		if tracepfx != "" {
			tracefile = tracepfx + "." + strconv.Itoa(i)
			// Start every trace from scratch.
			if err := trace.Remove(tracefile); err != nil {
				log.Fatal().Err(err).Str("trace", trace.Path(tracefile)).Msg("cannot truncate trace")
			}
		}
		go worker(i, gen, opts.BaseSeed, tracefile)
	}

	var total Result
	for i := 0; i < nthrds; i++ {
		r := <-rchannel
		for k := range total.counts {
			total.counts[k] += r.counts[k]
		}
		total.nbytes += r.nbytes
	}
	elapsed := time.Since(begin)

	var n uint64
	for _, c := range total.counts {
		n += c
	}
	tp := float64(n) / elapsed.Seconds() / 1000.0
	log.Info().
		Uint64("operations", n).
		Uint64("inserted_keys", gen.InsertedKeys()).
		Dur("elapsed", elapsed).
		Msg("done")

	if !exp {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Kind", "Count", "Share"})
		for k, c := range total.counts {
			share := float64(c) / float64(n)
			table.Append([]string{
				workload.OpKind(k).String(),
				strconv.FormatUint(c, 10),
				fmt.Sprintf("%.4f", share),
			})
		}
		table.SetFooter([]string{"Total", strconv.FormatUint(n, 10), ""})
		table.Render()
		fmt.Printf("inserted keys = %d (estimate %d).\n", gen.InsertedKeys(), gen.EstimatedKeys())
		fmt.Printf("tp = %f (K ops/s).\n", tp)
	}
	fmt.Printf("%d, %d, %d, %s, %.2f, %d, %d, %d, %d, %d, %f\n",
		nthrds, opts.RecordCount, opts.OperationCount, opts.RequestDistribution,
		opts.ZipfianConstant, total.counts[workload.OP_INSERT], total.counts[workload.OP_READ],
		total.counts[workload.OP_UPDATE], total.counts[workload.OP_RMW], total.nbytes, tp)
}
