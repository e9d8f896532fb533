// Command demo is a small terminal counter driven by a store whose commits
// are aligned to a frame loop. Debounced writes land on the next frame;
// immediate writes repaint before the key handler returns.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/delaneyj/storeparty/observable"
	"github.com/delaneyj/storeparty/store"
	"github.com/delaneyj/storeparty/tick"
	"github.com/gdamore/tcell/v2"
)

type counterState struct {
	Count int
}

type counterActions struct {
	Inc   func()
	Dec   func()
	Reset func()
}

func main() {
	frame := tick.NewFrameScheduler(time.Second / 30)
	tick.SetDefault(frame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go frame.Run(ctx)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	s := store.New(counterState{},
		func(o *observable.Observable[counterState]) counterActions {
			bump := func(delta int) func() {
				return func() {
					o.Update(func(st counterState) counterState {
						st.Count += delta
						return st
					})
				}
			}
			return counterActions{
				Inc: bump(1),
				Dec: bump(-1),
				Reset: func() {
					o.SetNow(counterState{})
				},
			}
		},
		observable.WithName[counterState]("demo-counter"),
	)

	commits := 0
	s.Subscribe(func(next, prev counterState) {
		commits++
		draw(screen, next, commits, s.Pending())
	})
	draw(screen, s.Get(), commits, false)

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw(screen, s.Get(), commits, s.Pending())
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			switch ev.Rune() {
			case 'q':
				return
			case '+', '=':
				s.Actions.Inc()
			case '-':
				s.Actions.Dec()
			case 'r':
				s.Actions.Reset()
			case 'f':
				s.Flush()
			}
			draw(screen, s.Get(), commits, s.Pending())
		}
	}
}

func draw(screen tcell.Screen, st counterState, commits int, pending bool) {
	screen.Clear()

	status := "idle"
	if pending {
		status = "commit pending"
	}
	lines := []string{
		"storeparty demo",
		"",
		fmt.Sprintf("Count:   %d", st.Count),
		fmt.Sprintf("Commits: %d", commits),
		fmt.Sprintf("Status:  %s", status),
		"",
		"Keys: +/- change (debounced), f flush, r reset (immediate), q quit",
	}

	style := tcell.StyleDefault
	for y, line := range lines {
		for x, r := range line {
			screen.SetContent(x, y, r, nil, style)
		}
	}
	screen.Show()
}
