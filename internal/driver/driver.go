// Package driver runs the two from_below planner variants spec.md
// calls for and keeps whichever scores higher.
package driver

import (
	"sync/atomic"

	channerics "github.com/niceyeti/channerics/channels"

	"lambdalift/internal/cave"
	"lambdalift/internal/planner"
)

// Result is one planner variant's outcome.
type Result struct {
	FromBelow bool
	Score     int
	Moves     string
	End       cave.EndState
}

// Run drives start through both planner heuristics and returns the
// higher-scoring Result. cancel, if non-nil, is closed to raise a
// cooperative cancellation signal observed between planner moves; both
// variants share it, since an external interrupt should abort the
// whole run, not just whichever variant happens to be mid-flight.
//
// tuning, if non-nil, overrides the replan/panic-move knobs each
// variant starts from (loaded via planner.FromYaml); only FromBelow is
// ever varied between the two runs, since that is the one axis the two
// variants are defined to differ on. A nil tuning falls back to
// planner.DefaultConfig for both.
func Run(start *cave.Cave, cancel <-chan struct{}, tuning *planner.Config) Result {
	interrupted := watch(cancel)

	first := runVariant(start, true, tuning, interrupted)
	if first.End == cave.Abort && interrupted() {
		// The interrupt fired mid-run: honour spec.md 4.5's "do not
		// start the second variant" rule rather than racing a fresh
		// planner against a signal that has already landed.
		return first
	}

	second := runVariant(start, false, tuning, interrupted)
	if second.Score > first.Score {
		return second
	}
	return first
}

func runVariant(start *cave.Cave, fromBelow bool, tuning *planner.Config, interrupted func() bool) Result {
	cfg := planner.DefaultConfig(fromBelow)
	if tuning != nil {
		cfg = *tuning
		cfg.FromBelow = fromBelow
	}

	p := planner.New(cfg, interrupted)
	final, moves := p.Run(start)
	return Result{
		FromBelow: fromBelow,
		Score:     final.Score,
		Moves:     moves,
		End:       final.End,
	}
}

// watch folds an external cancel signal into a flag the planner polls
// between moves. A cancel that is already closed is flagged before
// watch returns; one closed later is picked up by a goroutine waiting
// on channerics.OrDone. done never closes on its own here; it exists
// only so channerics.OrDone has a way to stop listening once flagged
// is set.
func watch(cancel <-chan struct{}) func() bool {
	var flagged atomic.Bool
	if cancel == nil {
		return flagged.Load
	}

	select {
	case <-cancel:
		flagged.Store(true)
		return flagged.Load
	default:
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-channerics.OrDone(done, cancel)
		flagged.Store(true)
	}()

	return flagged.Load
}
