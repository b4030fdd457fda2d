// Package planner implements the greedy target-directed planner: it
// repeatedly picks a target cell, paths to it with the pathfind
// package, and drives a Cave along that path one move at a time,
// replanning when a rock avalanche invalidates the current route.
package planner

import (
	"sort"

	"lambdalift/internal/cave"
	"lambdalift/internal/grid"
	"lambdalift/internal/pathfind"
)

const (
	costBlocked    = -1
	costEnter      = 1
	costPushRock   = 3
	costBlocksLift = 1000
)

// targetKind distinguishes the handful of target shapes selectTargets
// can produce. Only targetWait skips pathfinding entirely.
type targetKind int

const (
	targetLambda targetKind = iota
	targetClearRock
	targetLambdaRockLanding
	targetWait
	targetTrampoline
	targetLift
)

type target struct {
	kind targetKind
	pos  grid.Point
}

// Planner drives one Cave to a terminal state using the heuristic
// selected by Config.FromBelow. interrupted is polled between moves;
// once it reports true the planner commits a single ABORT and stops.
type Planner struct {
	Config      Config
	interrupted func() bool
}

// New returns a Planner tuned by cfg. interrupted may be nil, meaning
// the planner never observes an external cancellation.
func New(cfg Config, interrupted func() bool) *Planner {
	if interrupted == nil {
		interrupted = func() bool { return false }
	}
	return &Planner{Config: cfg, interrupted: interrupted}
}

// Run drives start to a terminal Cave, returning the final state and
// the move string that produced it. A panic move making progress
// (e.g. wandering into open dirt) still counts as a step even when it
// does not advance any real target, so the planner caps how many
// panic moves in total it will tolerate over the run before giving up: without
// that cap a cave with an unreachable lambda and nowhere useful to go
// would wander forever instead of aborting.
func (p *Planner) Run(start *cave.Cave) (*cave.Cave, string) {
	c := start
	var moves []byte
	panicBudget := (c.Grid.W + 1) * (c.Grid.H + 1) * 4

	for !c.IsTerminal() {
		if p.interrupted() {
			c, moves = p.commitAbort(c, moves)
			break
		}

		targets := p.selectTargets(c)
		if len(targets) == 0 {
			c, moves = p.commitAbort(c, moves)
			break
		}

		progressed := false
		for _, t := range targets {
			nc, executed, ok := p.attemptTarget(c, t)
			c = nc
			moves = append(moves, executed...)
			if c.IsTerminal() {
				progressed = true
				break
			}
			if ok {
				progressed = true
				break
			}
		}
		// An interrupt seen inside attemptTarget is committed as ABORT at
		// the top of the loop, not after a panic move.
		if progressed || p.interrupted() {
			continue
		}

		if panicBudget <= 0 {
			c, moves = p.commitAbort(c, moves)
			break
		}
		panicBudget--

		nc, executed, ok := p.panicMove(c)
		c = nc
		moves = append(moves, executed...)
		if c.IsTerminal() {
			continue
		}
		if !ok {
			c, moves = p.commitAbort(c, moves)
			break
		}
	}

	return c, string(moves)
}

func (p *Planner) commitAbort(c *cave.Cave, moves []byte) (*cave.Cave, []byte) {
	c = c.Move(cave.ActionAbort)
	return c, append(moves, byte(cave.ActionAbort))
}

// attemptTarget paths to t and executes the route, replanning on rock
// movement up to Config.MaxReplan times. ok is false when no path
// exists, or the replan budget is exhausted, and the target should be
// considered failed.
func (p *Planner) attemptTarget(c *cave.Cave, t target) (*cave.Cave, []byte, bool) {
	if t.kind == targetWait {
		nc := c.Move(cave.ActionWait)
		return nc, []byte{byte(cave.ActionWait)}, true
	}

	path := pathfind.Find(c.RobotPos, t.pos, p.costFn(c))
	if len(path) == 0 {
		return c, nil, false
	}

	var moves []byte
	cur := c
	replans := 0

	for i := 1; i < len(path); {
		if p.interrupted() {
			return cur, moves, false
		}

		next := path[i]
		if cur.Grid.AtPoint(next) == grid.Beard {
			cur = cur.Move(cave.ActionShave)
			moves = append(moves, byte(cave.ActionShave))
			if cur.IsTerminal() {
				return cur, moves, true
			}
		}
		// The lift only turns visibly OPEN on the tick after lift_open
		// flips true; if the very first move of the run would otherwise
		// step onto a still-CLOSED lift, wait one tick so the step lands
		// on an actual OPEN_LIFT and triggers the win.
		if next == t.pos && cur.Grid.AtPoint(next) == grid.ClosedLift && cur.LiftOpen {
			cur = cur.Move(cave.ActionWait)
			moves = append(moves, byte(cave.ActionWait))
			if cur.IsTerminal() {
				return cur, moves, true
			}
		}

		action := directionOf(cur.RobotPos, next)
		cur = cur.Move(action)
		moves = append(moves, byte(action))
		if cur.IsTerminal() {
			return cur, moves, true
		}

		if cur.RockMovement {
			replans++
			if replans > p.Config.MaxReplan {
				return cur, moves, false
			}
			rest := pathfind.Find(cur.RobotPos, t.pos, p.costFn(cur))
			if len(rest) == 0 {
				return cur, moves, false
			}
			path = rest
			i = 1
			continue
		}
		i++
	}

	return cur, moves, true
}

// panicMove tries Config.PanicMoves in order, taking the first whose
// pre-cost is non-negative and whose result is not an immediate LOSE.
func (p *Planner) panicMove(c *cave.Cave) (*cave.Cave, []byte, bool) {
	cost := p.costFn(c)
	for _, a := range p.Config.PanicMoves {
		d := cave.Delta(a)
		if d != (grid.Point{}) {
			dest := c.RobotPos.Add(d.X, d.Y)
			if _, ok := cost(c.RobotPos, dest); !ok {
				continue
			}
		}
		nc := c.Move(a)
		if nc.End == cave.Lose {
			continue
		}
		return nc, []byte{byte(a)}, true
	}
	return c, nil, false
}

func directionOf(from, to grid.Point) cave.Action {
	switch {
	case to == from:
		return cave.ActionWait
	case to.X == from.X+1:
		return cave.ActionRight
	case to.X == from.X-1:
		return cave.ActionLeft
	case to.Y == from.Y+1:
		return cave.ActionUp
	default:
		return cave.ActionDown
	}
}

// costFn returns the robot-move-cost function pathfind.Find needs,
// reflecting which neighbours are legally enterable from the current
// cave's perspective: a rock push costs more than a plain step, a push
// that would bury the lift costs a great deal more, and cells that
// cannot be entered by any single action are impossible.
func (p *Planner) costFn(c *cave.Cave) pathfind.Cost {
	return func(from, to grid.Point) (int, bool) {
		cell := c.Grid.AtPoint(to)
		switch {
		case cell == grid.ClosedLift && c.LiftOpen:
			// Visibly still closed, but guaranteed to flip OPEN on the
			// next tick since lift_open never reverts once true.
			return costEnter, true

		case cell == grid.Wall, cell == grid.ClosedLift, grid.IsTarget(cell):
			return costBlocked, false

		case cell == grid.Empty, cell == grid.Dirt, cell == grid.Lambda,
			cell == grid.Razor, cell == grid.OpenLift, cell == grid.Beard,
			grid.IsTrampoline(cell):
			return costEnter, true

		case grid.IsRock(cell):
			// A rock can only be entered by pushing it: the approach
			// must be horizontal, and the cell beyond it empty.
			dy := to.Y - from.Y
			dx := to.X - from.X
			if dy != 0 {
				return costBlocked, false
			}
			beyond := grid.Point{X: to.X + dx, Y: to.Y}
			if c.Grid.AtPoint(beyond) != grid.Empty {
				return costBlocked, false
			}
			if beyond == c.LiftPos {
				return costBlocksLift, true
			}
			return costPushRock, true

		default:
			return costBlocked, false
		}
	}
}

// selectTargets builds the ordered candidate list described by
// target-selection priority: reachable lambdas first (by the
// configured heuristic), then rock-clearing and lambda-rock-landing
// sub-targets, a settle-the-world WAIT if rocks are still falling,
// trampolines, and finally the open lift. Run tries each candidate in
// turn and falls through to the next on failure, so the exact order
// within a tier is a tuning choice, not a contract.
func (p *Planner) selectTargets(c *cave.Cave) []target {
	var targets []target

	lambdas := p.orderedLambdas(c)
	var clears []target
	for _, pos := range lambdas {
		targets = append(targets, target{kind: targetLambda, pos: pos})
		if clear, ok := clearRockTarget(c, pos); ok {
			clears = append(clears, target{kind: targetClearRock, pos: clear})
		}
	}
	targets = append(targets, clears...)

	for pos := range c.LambdaRocks {
		if landing, ok := lambdaRockLanding(c, pos); ok {
			targets = append(targets, target{kind: targetLambdaRockLanding, pos: landing})
		}
	}

	if len(targets) == 0 && c.RockMovement {
		targets = append(targets, target{kind: targetWait})
	}

	for letter, pos := range c.TrampPos {
		if _, ok := c.TrampolineToTarget[letter]; ok {
			targets = append(targets, target{kind: targetTrampoline, pos: pos})
		}
	}

	if c.LiftOpen {
		targets = append(targets, target{kind: targetLift, pos: c.LiftPos})
	}

	return targets
}

// orderedLambdas sorts remaining lambda positions by the configured
// heuristic: from_below prefers low-y lambdas first, otherwise plain
// Manhattan distance from the robot leads. from_below breaks y ties by
// Manhattan distance from the robot; the other heuristic breaks
// distance ties by |Δy|. Both then fall back to distance-from-lift,
// preferring lambdas farther from the lift so near-lift lambdas are
// saved for last.
func (p *Planner) orderedLambdas(c *cave.Cave) []grid.Point {
	lambdas := make([]grid.Point, 0, len(c.Lambdas))
	for pos := range c.Lambdas {
		lambdas = append(lambdas, pos)
	}

	sort.Slice(lambdas, func(i, j int) bool {
		a, b := lambdas[i], lambdas[j]

		if p.Config.FromBelow {
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			if da, db := grid.Manhattan(a, c.RobotPos), grid.Manhattan(b, c.RobotPos); da != db {
				return da < db
			}
		} else {
			if da, db := grid.Manhattan(a, c.RobotPos), grid.Manhattan(b, c.RobotPos); da != db {
				return da < db
			}
			if dya, dyb := abs(a.Y-c.RobotPos.Y), abs(b.Y-c.RobotPos.Y); dya != dyb {
				return dya < dyb
			}
		}

		return grid.Manhattan(a, c.LiftPos) > grid.Manhattan(b, c.LiftPos)
	})

	return lambdas
}

// clearRockTarget looks for a single rock orthogonally adjacent to
// lambdaPos that itself has an empty or removable neighbour (dirt,
// lambda or razor) the robot could stand on to push it out of the way.
func clearRockTarget(c *cave.Cave, lambdaPos grid.Point) (grid.Point, bool) {
	for _, rockPos := range grid.Neighbors4(lambdaPos) {
		if !grid.IsRock(c.Grid.AtPoint(rockPos)) {
			continue
		}
		for _, approach := range grid.Neighbors4(rockPos) {
			if approach == lambdaPos {
				continue
			}
			switch c.Grid.AtPoint(approach) {
			case grid.Dirt, grid.Lambda, grid.Razor, grid.Empty:
				return approach, true
			}
		}
	}
	return grid.Point{}, false
}

// lambdaRockLanding finds a DIRT or RAZOR cell beside rockPos such
// that pushing the lambda-rock from there would drop it onto solid
// ground and crack it into a lambda.
func lambdaRockLanding(c *cave.Cave, rockPos grid.Point) (grid.Point, bool) {
	for _, dx := range [...]int{-1, 1} {
		approach := grid.Point{X: rockPos.X - dx, Y: rockPos.Y}
		switch c.Grid.AtPoint(approach) {
		case grid.Dirt, grid.Razor:
		default:
			continue
		}
		beyond := grid.Point{X: rockPos.X + dx, Y: rockPos.Y}
		if c.Grid.AtPoint(beyond) != grid.Empty {
			continue
		}
		if c.Grid.At(beyond.X, beyond.Y-1) != grid.Empty {
			return approach, true
		}
	}
	return grid.Point{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
