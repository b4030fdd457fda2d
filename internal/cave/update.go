package cave

import "lambdalift/internal/grid"

// rockMove describes one rock (or lambda-rock) relocation decided
// against a frozen snapshot of the grid. rule is the 1-based priority
// of the fall/slide rule that produced dst, used to arbitrate when two
// rocks claim the same destination in one tick.
type rockMove struct {
	src, dst      grid.Point
	kind          grid.Cell
	becomesLambda bool
	rule          int
}

// tick runs the world-update phase: water, beard growth, lift opening
// and rock movement, all decided from the same frozen pre-update grid
// (snapshot semantics) and written into a fresh grid. It is called once
// per non-terminal, non-WIN Move.
func (c *Cave) tick() {
	c.waterTick()

	growthTick := c.beardTick()

	snapshot := c.Grid
	result := snapshot.Clone()

	if growthTick {
		growBeards(snapshot, result)
	}

	if snapshot.AtPoint(c.LiftPos) == grid.ClosedLift && c.LiftOpen {
		result.SetPoint(c.LiftPos, grid.OpenLift)
	}

	moves := computeRockMoves(snapshot)
	c.applyRockMoves(result, moves)
	c.Grid = result

	for _, m := range moves {
		if m.dst.X == c.RobotPos.X && m.dst.Y == c.RobotPos.Y+1 {
			c.End = Lose
		}
	}
}

// waterTick advances the flood clock and drowns the robot once it has
// spent more than water_resistance consecutive steps submerged.
func (c *Cave) waterTick() {
	robotY := c.RobotPos.Y

	if robotY > c.WaterLevel {
		c.WaterStep = 0
	}

	if c.FloodRate > 0 {
		c.FloodStep++
		if c.FloodStep >= c.FloodRate {
			c.FloodStep = 0
			c.WaterLevel++
		}
	}

	if robotY <= c.WaterLevel {
		c.WaterStep++
	}

	if c.WaterStep > c.WaterResistance {
		c.End = Lose
	}
}

// beardTick advances the growth countdown and reports whether beards
// grow this tick. The countdown starts at growth_rate-1 at load time;
// growth happens on the tick after it reaches zero, and the countdown
// then resets.
func (c *Cave) beardTick() (growthTick bool) {
	if c.BeardCountdown == 0 {
		growthTick = true
		c.BeardCountdown = c.GrowthRate - 1
		return
	}
	c.BeardCountdown--
	return
}

// growBeards turns every Empty cell in the 8-neighbourhood of a Beard
// cell (read from snapshot) into Beard in result.
func growBeards(snapshot, result *grid.Grid) {
	for y := 0; y < snapshot.H; y++ {
		for x := 0; x < snapshot.W; x++ {
			if snapshot.At(x, y) != grid.Beard {
				continue
			}
			for _, n := range grid.Neighbors8(grid.Point{X: x, Y: y}) {
				if snapshot.AtPoint(n) == grid.Empty {
					result.SetPoint(n, grid.Beard)
				}
			}
		}
	}
}

// computeRockMoves decides, for every rock in snapshot, whether and
// where it falls or slides this tick. Bottom-to-top, left-to-right
// iteration order is used for readability; because every decision reads
// only from snapshot, and resolveRockMoveConflicts breaks destination
// ties by rule priority rather than by arrival order, the result is
// independent of iteration order.
func computeRockMoves(snapshot *grid.Grid) []rockMove {
	var moves []rockMove
	for y := 0; y < snapshot.H; y++ {
		for x := 0; x < snapshot.W; x++ {
			cell := snapshot.At(x, y)
			if !grid.IsRock(cell) {
				continue
			}
			src := grid.Point{X: x, Y: y}
			dst, rule, ok := rockDestination(snapshot, src)
			if !ok {
				continue
			}
			becomesLambda := cell == grid.LambdaRock && snapshot.At(dst.X, dst.Y-1) != grid.Empty
			moves = append(moves, rockMove{src: src, dst: dst, kind: cell, becomesLambda: becomesLambda, rule: rule})
		}
	}
	return resolveRockMoveConflicts(moves)
}

// resolveRockMoveConflicts keeps only the highest-priority (lowest
// rule number) move for each contested destination cell. Two rocks can
// legitimately compute the same destination from the same snapshot —
// e.g. two rocks each resting on a support rock with a one-cell gap
// between them, both sliding diagonally into that gap — and without
// this, whichever move happened to be applied last would silently
// erase the other rock instead of leaving it in place. The filter is
// done in place over moves, so the surviving entries keep their
// original relative order.
func resolveRockMoveConflicts(moves []rockMove) []rockMove {
	bestRule := make(map[grid.Point]int, len(moves))
	for _, m := range moves {
		if r, claimed := bestRule[m.dst]; !claimed || m.rule < r {
			bestRule[m.dst] = m.rule
		}
	}

	resolved := moves[:0]
	for _, m := range moves {
		if bestRule[m.dst] == m.rule {
			resolved = append(resolved, m)
		}
	}
	return resolved
}

// rockDestination applies spec.md section 4.2's four fall/slide rules,
// in priority order, against the frozen grid g, returning the 1-based
// rule that matched alongside the destination.
func rockDestination(g *grid.Grid, p grid.Point) (grid.Point, int, bool) {
	x, y := p.X, p.Y

	if g.At(x, y-1) == grid.Empty {
		return grid.Point{X: x, Y: y - 1}, 1, true
	}
	if grid.IsRock(g.At(x, y-1)) && g.At(x+1, y) == grid.Empty && g.At(x+1, y-1) == grid.Empty {
		return grid.Point{X: x + 1, Y: y - 1}, 2, true
	}
	if grid.IsRock(g.At(x, y-1)) && g.At(x-1, y) == grid.Empty && g.At(x-1, y-1) == grid.Empty {
		return grid.Point{X: x - 1, Y: y - 1}, 3, true
	}
	if g.At(x, y-1) == grid.Lambda && g.At(x+1, y) == grid.Empty && g.At(x+1, y-1) == grid.Empty {
		return grid.Point{X: x + 1, Y: y - 1}, 4, true
	}
	return grid.Point{}, 0, false
}

// applyRockMoves writes the decided moves into result and keeps the
// lambda/lambda-rock indices in sync, including the crack-to-lambda
// conversion.
func (c *Cave) applyRockMoves(result *grid.Grid, moves []rockMove) {
	for _, m := range moves {
		result.SetPoint(m.src, grid.Empty)
		if m.becomesLambda {
			result.SetPoint(m.dst, grid.Lambda)
			delete(c.LambdaRocks, m.src)
			c.Lambdas[m.dst] = struct{}{}
			continue
		}
		result.SetPoint(m.dst, m.kind)
		if m.kind == grid.LambdaRock {
			delete(c.LambdaRocks, m.src)
			c.LambdaRocks[m.dst] = struct{}{}
		}
	}
	if len(moves) > 0 {
		c.RockMovement = true
	}
}
