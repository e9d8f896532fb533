package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/storeparty/observable"
	"github.com/delaneyj/storeparty/tick"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

var (
	subCounts  = []int{1, 10, 100, 1_000}
	burstSizes = []int{1, 10, 100, 1_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark debounced vs immediate commits",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Iterations per grid cell",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "CPU profile output path",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	f, err := os.Create(cmd.String(profileKey))
	if err != nil {
		return err
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	iters := int(cmd.Int(itersKey))

	log.Printf("warming up")
	benchmarkCoalesced(iters, true)
	benchmarkImmediate(iters, true)
	return nil
}

// benchmarkCoalesced times a burst of debounced writes plus the single
// commit that flushes them.
func benchmarkCoalesced(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Coalesced Commits")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, subs := range subCounts {
		for _, writes := range burstSizes {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sched := tick.NewManualScheduler()
			o := observable.New(0, observable.WithScheduler[int](sched))

			notifies := 0
			for i := 0; i < subs; i++ {
				o.Subscribe(func(next, prev int) { notifies++ })
			}

			for i := 0; i < iters; i++ {
				base := o.Get()
				start := time.Now()
				for w := 1; w <= writes; w++ {
					o.Set(base + w)
				}
				sched.Flush()
				tach.AddTime(time.Since(start))
			}

			if notifies != iters*subs {
				log.Panicf("expected %d notifications, got %d", iters*subs, notifies)
			}

			appendCalc(tbl, fmt.Sprintf("coalesce: %d subs * %d writes", subs, writes), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkImmediate times the same bursts with every write forcing a
// synchronous out-of-band commit.
func benchmarkImmediate(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Immediate Commits")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, subs := range subCounts {
		for _, writes := range burstSizes {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			o := observable.New(0,
				observable.WithScheduler[int](tick.NewManualScheduler()))

			notifies := 0
			for i := 0; i < subs; i++ {
				o.Subscribe(func(next, prev int) { notifies++ })
			}

			for i := 0; i < iters; i++ {
				base := o.Get()
				start := time.Now()
				for w := 1; w <= writes; w++ {
					o.SetNow(base + w)
				}
				tach.AddTime(time.Since(start))
			}

			if notifies != iters*subs*writes {
				log.Panicf("expected %d notifications, got %d", iters*subs*writes, notifies)
			}

			appendCalc(tbl, fmt.Sprintf("immediate: %d subs * %d writes", subs, writes), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}
