package cave

import "lambdalift/internal/grid"

// Move resolves action against the current cave and returns the next
// Cave: one robot action plus one world-update tick. The receiver is
// never mutated. A terminal cave returns itself unchanged.
func (c *Cave) Move(a Action) *Cave {
	if c.IsTerminal() {
		return c
	}

	if a == ActionAbort {
		next := c.Clone()
		next.End = Abort
		next.Score += ScoreAbortPerLambda * next.LambdasCollected
		return next
	}

	next := c.Clone()
	next.Score += ScoreMove
	next.RockMovement = false

	d := delta[a]
	from := next.RobotPos
	to := from.Add(d.X, d.Y)
	target := next.Grid.AtPoint(to)

	switch {
	case target == grid.Empty || target == grid.Dirt:
		next.moveRobotTo(to)

	case target == grid.Lambda:
		next.moveRobotTo(to)
		next.collectLambda(to)

	case target == grid.Razor:
		next.moveRobotTo(to)
		next.RazorsCarried++

	case target == grid.OpenLift:
		next.moveRobotTo(to)
		next.End = Win
		next.Score += ScoreWinPerLambda * next.LambdasCollected
		return next

	case grid.IsRock(target) && d.Y == 0 && next.Grid.At(to.X+d.X, to.Y) == grid.Empty:
		next.pushRock(to, d.X, target)
		next.moveRobotTo(to)

	case grid.IsTrampoline(target):
		next.jumpTrampoline(from, target)

	default:
		// WALL, blocked rock, CLOSED_LIFT, BEARD, a target digit
		// entered directly, or a trampoline with no declared
		// mapping: the robot stays put but the move is consumed.
	}

	if a == ActionShave && next.RazorsCarried > 0 {
		next.RazorsCarried--
		next.shave(next.RobotPos)
	}

	next.tick()
	return next
}

// collectLambda removes the lambda at p, credits score, and opens the
// lift once no lambdas or lambda-rocks remain.
func (c *Cave) collectLambda(p grid.Point) {
	c.LambdasCollected++
	delete(c.Lambdas, p)
	c.Score += ScoreLambda
	if len(c.Lambdas)+len(c.LambdaRocks) == 0 {
		c.LiftOpen = true
	}
}

// pushRock slides the rock or lambda-rock at src one cell in direction
// dx, updating the lambda-rock index if needed. The caller has already
// verified the destination is empty.
func (c *Cave) pushRock(src grid.Point, dx int, kind grid.Cell) {
	dst := grid.Point{X: src.X + dx, Y: src.Y}
	c.Grid.SetPoint(dst, kind)
	if kind == grid.LambdaRock {
		delete(c.LambdaRocks, src)
		c.LambdaRocks[dst] = struct{}{}
	}
}

// jumpTrampoline teleports the robot from its current cell to the
// target digit the trampoline letter maps to, then erases every
// trampoline letter sharing that target.
func (c *Cave) jumpTrampoline(from grid.Point, letter grid.Cell) {
	target, ok := c.TrampolineToTarget[letter]
	if !ok {
		return
	}
	dest, ok := c.TargetPos[target]
	if !ok {
		return
	}

	c.Grid.SetPoint(from, grid.Empty)
	c.Grid.SetPoint(dest, grid.Robot)
	c.RobotPos = dest

	for _, other := range c.TargetToTrampolines[target] {
		c.Grid.SetPoint(c.TrampPos[other], grid.Empty)
	}
}

// shave clears every BEARD cell in the 8-neighbourhood of p.
func (c *Cave) shave(p grid.Point) {
	for _, n := range grid.Neighbors8(p) {
		if c.Grid.AtPoint(n) == grid.Beard {
			c.Grid.SetPoint(n, grid.Empty)
		}
	}
}
