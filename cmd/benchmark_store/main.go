package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/storeparty/observable"
	"github.com/delaneyj/storeparty/store"
	"github.com/delaneyj/storeparty/tick"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type scenarioConfig struct {
	name             string // friendly name for the scenario, should be unique
	subscribers      int    // listeners registered before the run
	writesPerBatch   int64  // debounced writes coalesced into each commit
	batches          int64  // commits driven per run
	expectedCommits  int64  // one per batch, for verification
	expectedNotifies int64  // commits * subscribers, for verification
}

func main() {
	log.Print("Starting storeparty scenario run, please wait...")
	defer log.Print("Finished storeparty scenario run")

	cfgs := []scenarioConfig{
		{
			name:             "single subscriber",
			subscribers:      1,
			writesPerBatch:   1,
			batches:          200_000,
			expectedCommits:  200_000,
			expectedNotifies: 200_000,
		},
		{
			name:             "chatty writer",
			subscribers:      1,
			writesPerBatch:   100,
			batches:          20_000,
			expectedCommits:  20_000,
			expectedNotifies: 20_000,
		},
		{
			name:             "fan out",
			subscribers:      100,
			writesPerBatch:   1,
			batches:          20_000,
			expectedCommits:  20_000,
			expectedNotifies: 2_000_000,
		},
		{
			name:             "chatty fan out",
			subscribers:      100,
			writesPerBatch:   100,
			batches:          5_000,
			expectedCommits:  5_000,
			expectedNotifies: 500_000,
		},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"scenario", "subs", "writes/batch", "batches",
		"writes", "commits", "notifies", "time", "commitRate",
	})

	testRepeats := 5
	for _, cfg := range cfgs {
		log.Printf("Running '%s' scenario", cfg.name)

		best := time.Hour
		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' scenario, iteration %d/%d", cfg.name, i+1, testRepeats)
			duration := runScenario(cfg)
			if duration < best {
				best = duration
			}
		}

		totalWrites := cfg.batches * cfg.writesPerBatch
		commitRate := float64(cfg.expectedCommits) / (float64(best) / float64(time.Millisecond))

		table.Append([]string{
			cfg.name,
			fmt.Sprint(cfg.subscribers),
			humanize.Comma(cfg.writesPerBatch),
			humanize.Comma(cfg.batches),
			humanize.Comma(totalWrites),
			humanize.Comma(cfg.expectedCommits),
			humanize.Comma(cfg.expectedNotifies),
			fmt.Sprint(best),
			humanize.Comma(int64(commitRate)),
		})
	}
	table.Render() // Send output
}

type tallyState struct {
	Total int64
}

type tallyActions struct {
	Bump func(n int64)
}

func runScenario(cfg scenarioConfig) time.Duration {
	sched := tick.NewManualScheduler()
	s := store.New(tallyState{},
		func(o *observable.Observable[tallyState]) tallyActions {
			return tallyActions{
				Bump: func(n int64) {
					o.Update(func(st tallyState) tallyState {
						st.Total += n
						return st
					})
				},
			}
		},
		observable.WithScheduler[tallyState](sched),
		observable.WithName[tallyState](cfg.name),
	)

	var commits, notifies int64
	for i := 0; i < cfg.subscribers; i++ {
		s.Subscribe(func(next, prev tallyState) { notifies++ })
	}
	s.Subscribe(func(next, prev tallyState) { commits++ })

	start := time.Now()
	for b := int64(0); b < cfg.batches; b++ {
		for w := int64(0); w < cfg.writesPerBatch; w++ {
			s.Actions.Bump(1)
		}
		sched.Flush()
	}
	duration := time.Since(start)

	if commits != cfg.expectedCommits {
		log.Fatalf("'%s': expected %d commits, got %d", cfg.name, cfg.expectedCommits, commits)
	}
	if notifies != cfg.expectedNotifies {
		log.Fatalf("'%s': expected %d notifications, got %d", cfg.name, cfg.expectedNotifies, notifies)
	}
	// resolvers read the committed value, so every batch commits exactly
	// one increment no matter how many writes it coalesced
	if want := cfg.batches; s.Get().Total != want {
		log.Fatalf("'%s': expected total %d, got %d", cfg.name, want, s.Get().Total)
	}

	return duration
}
