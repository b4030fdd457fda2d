// Package cave implements the Lambda Lift cave simulation: an immutable-
// per-step world state plus the deterministic update rule that advances
// it one robot action at a time. Cave.Move is the only mutator in the
// public surface, and it never mutates its receiver — it returns a fresh
// Cave, so a planner can hold many speculative clones safely.
package cave

import "lambdalift/internal/grid"

// EndState is the terminal status of a Cave. It is monotonic: once set
// to anything but None it never changes again.
type EndState int

const (
	None EndState = iota
	Win
	Lose
	Abort
)

func (e EndState) String() string {
	switch e {
	case Win:
		return "WIN"
	case Lose:
		return "LOSE"
	case Abort:
		return "ABORT"
	default:
		return "NONE"
	}
}

// Scoring constants, spec.md section 3.
const (
	ScoreMove           = -1
	ScoreLambda         = 25
	ScoreAbortPerLambda = 25
	ScoreWinPerLambda   = 50
)

// DefaultWaterResistance and DefaultGrowthRate are applied when the map
// file omits the corresponding metadata line.
const (
	DefaultWaterResistance = 10
	DefaultGrowthRate      = 25
)

// Cave is one discrete time-step of the simulated world. Every field
// that is "constant after load" in spec.md's invariant table is never
// reassigned by Move; every other field is copied into the next Cave
// and updated there.
type Cave struct {
	Grid     *grid.Grid
	RobotPos grid.Point

	LiftPos  grid.Point
	LiftOpen bool

	Lambdas     map[grid.Point]struct{}
	LambdaRocks map[grid.Point]struct{}

	LambdasCollected int
	Score            int
	End              EndState

	WaterLevel      int
	WaterStep       int
	FloodStep       int
	FloodRate       int
	WaterResistance int

	BeardCountdown int
	GrowthRate     int

	RazorsCarried int
	RockMovement  bool

	// TrampolineToTarget maps a trampoline letter ('A'..'I') to the
	// target digit ('1'..'9') it teleports to.
	TrampolineToTarget map[grid.Cell]grid.Cell
	// TargetToTrampolines is the inverse mapping: every trampoline
	// letter that shares a target digit.
	TargetToTrampolines map[grid.Cell][]grid.Cell
	// TrampPos and TargetPos record where each letter/digit sits on
	// the grid, constant after load.
	TrampPos  map[grid.Cell]grid.Point
	TargetPos map[grid.Cell]grid.Point
}

// IsTerminal reports whether the cave has reached WIN, LOSE or ABORT.
func (c *Cave) IsTerminal() bool {
	return c.End != None
}

// Clone deep-copies everything Move might mutate. Grid cloning dominates
// the cost; the derived maps are small by comparison.
func (c *Cave) Clone() *Cave {
	next := &Cave{
		Grid:                c.Grid.Clone(),
		RobotPos:            c.RobotPos,
		LiftPos:             c.LiftPos,
		LiftOpen:            c.LiftOpen,
		Lambdas:             cloneSet(c.Lambdas),
		LambdaRocks:         cloneSet(c.LambdaRocks),
		LambdasCollected:    c.LambdasCollected,
		Score:               c.Score,
		End:                 c.End,
		WaterLevel:          c.WaterLevel,
		WaterStep:           c.WaterStep,
		FloodStep:           c.FloodStep,
		FloodRate:           c.FloodRate,
		WaterResistance:     c.WaterResistance,
		BeardCountdown:      c.BeardCountdown,
		GrowthRate:          c.GrowthRate,
		RazorsCarried:       c.RazorsCarried,
		RockMovement:        false,
		TrampolineToTarget:  c.TrampolineToTarget,
		TargetToTrampolines: c.TargetToTrampolines,
		TrampPos:            c.TrampPos,
		TargetPos:           c.TargetPos,
	}
	return next
}

func cloneSet(src map[grid.Point]struct{}) map[grid.Point]struct{} {
	dst := make(map[grid.Point]struct{}, len(src))
	for p := range src {
		dst[p] = struct{}{}
	}
	return dst
}

// moveRobotTo vacates the robot's current cell and occupies dest,
// without interpreting dest's prior contents; callers are expected to
// have already consumed whatever was there (collected a lambda, pushed
// a rock, etc).
func (c *Cave) moveRobotTo(dest grid.Point) {
	c.Grid.SetPoint(c.RobotPos, grid.Empty)
	c.Grid.SetPoint(dest, grid.Robot)
	c.RobotPos = dest
}
