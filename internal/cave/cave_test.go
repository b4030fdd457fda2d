package cave

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lambdalift/internal/grid"
)

func mustParse(t *testing.T, text string) *Cave {
	t.Helper()
	c, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return c
}

const winMap = "" +
	"#####\n" +
	"#.\\L#\n" +
	"#...#\n" +
	"#R..#"

func TestCaveWinPath(t *testing.T) {
	Convey("Given a cave with one reachable lambda and a lift", t, func() {
		c := mustParse(t, winMap)
		So(c.RobotPos, ShouldResemble, grid.Point{X: 1, Y: 0})
		So(len(c.Lambdas), ShouldEqual, 1)
		So(c.LiftOpen, ShouldBeFalse)

		Convey("Walking up, up, right, right collects the lambda and wins", func() {
			c = c.Move(ActionUp)
			c = c.Move(ActionUp)
			c = c.Move(ActionRight)
			So(c.LambdasCollected, ShouldEqual, 1)
			So(c.LiftOpen, ShouldBeTrue)
			So(c.Score, ShouldEqual, 22)

			c = c.Move(ActionRight)
			So(c.End, ShouldEqual, Win)
			So(c.RobotPos, ShouldResemble, grid.Point{X: 3, Y: 2})
			// -1 move cost plus 50 per collected lambda on top of the 22 banked so far.
			So(c.Score, ShouldEqual, 22-1+50*1)

			Convey("A terminal cave ignores further moves", func() {
				after := c.Move(ActionWait)
				So(after, ShouldEqual, c)
			})
		})
	})
}

func TestWaitIsIdempotentOnAnEmptyCave(t *testing.T) {
	Convey("Given a cave with no rocks or beards", t, func() {
		c := mustParse(t, winMap)

		Convey("Waiting once leaves the grid unchanged", func() {
			next := c.Move(ActionWait)
			So(next.Grid.String(), ShouldEqual, c.Grid.String())
			So(next.Score, ShouldEqual, c.Score-1)
		})
	})
}

func TestAbortScoringIdentity(t *testing.T) {
	Convey("Given a fresh cave", t, func() {
		c := mustParse(t, winMap)

		Convey("Aborting with zero lambdas collected adds nothing beyond the identity", func() {
			next := c.Move(ActionAbort)
			So(next.End, ShouldEqual, Abort)
			So(next.Score, ShouldEqual, c.Score+ScoreAbortPerLambda*c.LambdasCollected)
		})

		Convey("Aborting after collecting a lambda credits 25 per lambda", func() {
			c = c.Move(ActionUp).Move(ActionUp).Move(ActionRight)
			scoreBeforeAbort := c.Score
			next := c.Move(ActionAbort)
			So(next.End, ShouldEqual, Abort)
			So(next.Score, ShouldEqual, scoreBeforeAbort+ScoreAbortPerLambda*1)
		})
	})
}

func TestLambdasCollectedIsMonotonic(t *testing.T) {
	Convey("Given the win-path cave", t, func() {
		c := mustParse(t, winMap)
		last := c.LambdasCollected
		for _, a := range []Action{ActionUp, ActionUp, ActionRight, ActionRight} {
			c = c.Move(a)
			So(c.LambdasCollected, ShouldBeGreaterThanOrEqualTo, last)
			last = c.LambdasCollected
		}
	})
}

const pushMap = "" +
	"#####\n" +
	"#R* #\n" +
	"#####"

func TestRockPush(t *testing.T) {
	Convey("Given a rock with room to slide", t, func() {
		c := mustParse(t, pushMap)

		Convey("Pushing it right relocates the rock and the robot", func() {
			next := c.Move(ActionRight)
			So(next.RobotPos, ShouldResemble, grid.Point{X: 2, Y: 1})
			So(next.Grid.At(3, 1), ShouldEqual, grid.Rock)
			So(next.Grid.At(2, 1), ShouldEqual, grid.Robot)
			So(next.RockMovement, ShouldBeFalse) // the push is a robot action, not a tick-phase move
		})
	})
}

const crackMap = "" +
	"#@#\n" +
	"# #\n" +
	"#*#\n" +
	"#R#"

func TestLambdaRockCracksOnLanding(t *testing.T) {
	Convey("Given a lambda-rock poised to fall onto a solid rock", t, func() {
		c := mustParse(t, crackMap)
		So(len(c.LambdaRocks), ShouldEqual, 1)

		Convey("Waiting one tick drops it and cracks it into a lambda", func() {
			next := c.Move(ActionWait)
			So(next.RockMovement, ShouldBeTrue)
			So(len(next.LambdaRocks), ShouldEqual, 0)
			So(len(next.Lambdas), ShouldEqual, 1)
			So(next.Grid.At(1, 2), ShouldEqual, grid.Lambda)
			So(next.Grid.At(1, 3), ShouldEqual, grid.Empty)
		})
	})
}

// raceMap has two rocks each resting on its own support rock, with a
// one-cell gap between them at both rows: rock A (left) can only slide
// right into the gap, rock B (right) can only slide left into the same
// gap. Both compute that same destination from the one frozen
// snapshot, so only the higher-priority slide (A's rule 2, over B's
// rule 3) may actually land there.
const raceMap = "" +
	"#R..#\n" +
	"#*.*#\n" +
	"#*.*#"

func TestRockMoveConflictLeavesExactlyOneWinner(t *testing.T) {
	Convey("Given two rocks that both compute the same slide destination", t, func() {
		c := mustParse(t, raceMap)
		So(c.Grid.At(1, 1), ShouldEqual, grid.Rock)
		So(c.Grid.At(3, 1), ShouldEqual, grid.Rock)

		Convey("Waiting one tick lets only the higher-priority rule win, and neither rock vanishes", func() {
			next := c.Move(ActionWait)
			So(next.RockMovement, ShouldBeTrue)

			// A (rule 2, slide down-right) wins the race into (2,0).
			So(next.Grid.At(1, 1), ShouldEqual, grid.Empty)
			So(next.Grid.At(2, 0), ShouldEqual, grid.Rock)

			// B (rule 3, slide down-left) loses the race and stays put,
			// rather than being silently erased by A's write to (2,0).
			So(next.Grid.At(3, 1), ShouldEqual, grid.Rock)

			// Both support rocks are undisturbed.
			So(next.Grid.At(1, 0), ShouldEqual, grid.Rock)
			So(next.Grid.At(3, 0), ShouldEqual, grid.Rock)
		})
	})
}

const floodMap = "" +
	"#R#\n" +
	"###\n" +
	"Water 1\n" +
	"Flooding 8"

func TestFloodingCadence(t *testing.T) {
	Convey("Given Water 1, Flooding 8", t, func() {
		c := mustParse(t, floodMap)
		So(c.WaterLevel, ShouldEqual, 0)

		Convey("Seven waits leave the water level unchanged", func() {
			for i := 0; i < 7; i++ {
				c = c.Move(ActionWait)
			}
			So(c.WaterLevel, ShouldEqual, 0)

			Convey("The eighth wait raises it by one", func() {
				c = c.Move(ActionWait)
				So(c.WaterLevel, ShouldEqual, 1)
			})
		})
	})
}

const drownMap = "" +
	"#R#\n" +
	"###\n" +
	"Water 2\n" +
	"Waterproof 5"

func TestDrowning(t *testing.T) {
	Convey("Given a robot already submerged, with Waterproof 5", t, func() {
		c := mustParse(t, drownMap)
		So(c.WaterLevel, ShouldEqual, 1)

		Convey("Five waits leave the cave alive", func() {
			for i := 0; i < 5; i++ {
				c = c.Move(ActionWait)
			}
			So(c.IsTerminal(), ShouldBeFalse)

			Convey("The sixth wait drowns the robot", func() {
				c = c.Move(ActionWait)
				So(c.End, ShouldEqual, Lose)
			})
		})
	})
}

const beardMap = "" +
	"#####\n" +
	"#. .#\n" +
	"#.W.#\n" +
	"#R..#\n" +
	"Growth 3"

func TestBeardGrowthTiming(t *testing.T) {
	Convey("Given Growth 3 and a beard with exactly one empty neighbour", t, func() {
		c := mustParse(t, beardMap)
		So(c.BeardCountdown, ShouldEqual, 2)
		So(c.Grid.At(2, 2), ShouldEqual, grid.Empty)

		Convey("Growth happens on the third wait, not sooner", func() {
			c = c.Move(ActionWait)
			So(c.Grid.At(2, 2), ShouldEqual, grid.Empty)
			c = c.Move(ActionWait)
			So(c.Grid.At(2, 2), ShouldEqual, grid.Empty)
			c = c.Move(ActionWait)
			So(c.Grid.At(2, 2), ShouldEqual, grid.Beard)
		})
	})
}

const shaveMap = "" +
	"#####\n" +
	"#RW.#\n" +
	"#...#\n" +
	"Razors 1"

func TestShaveClearsAdjacentBeards(t *testing.T) {
	Convey("Given a razor and an adjacent beard", t, func() {
		c := mustParse(t, shaveMap)
		So(c.RazorsCarried, ShouldEqual, 1)

		Convey("Shaving clears the beard and spends the razor", func() {
			next := c.Move(ActionShave)
			So(next.Grid.At(2, 1), ShouldEqual, grid.Empty)
			So(next.RazorsCarried, ShouldEqual, 0)
		})

		Convey("Shaving with no razor left is a no-op", func() {
			c.RazorsCarried = 0
			next := c.Move(ActionShave)
			So(next.Grid.At(2, 1), ShouldEqual, grid.Beard)
		})
	})
}

const trampolineMap = "" +
	"#1...#\n" +
	"#RAB.#\n" +
	"######\n" +
	"Trampoline A targets 1\n" +
	"Trampoline B targets 1"

func TestTrampolineConsolidation(t *testing.T) {
	Convey("Given two trampolines sharing a target", t, func() {
		c := mustParse(t, trampolineMap)

		Convey("Stepping onto one teleports the robot and erases both", func() {
			next := c.Move(ActionRight)
			So(next.RobotPos, ShouldResemble, grid.Point{X: 1, Y: 2})
			So(next.Grid.At(1, 2), ShouldEqual, grid.Robot)
			So(next.Grid.At(2, 1), ShouldEqual, grid.Empty)
			So(next.Grid.At(3, 1), ShouldEqual, grid.Empty)
		})
	})
}

func TestOutOfBoundsReadsAreWalls(t *testing.T) {
	Convey("Given any cave", t, func() {
		c := mustParse(t, winMap)
		So(c.Grid.At(-1, -1), ShouldEqual, grid.Wall)
		So(c.Grid.At(c.Grid.W, c.Grid.H), ShouldEqual, grid.Wall)
	})
}

func TestParseRejectsMalformedMaps(t *testing.T) {
	Convey("A map with no grid lines fails to load", t, func() {
		_, err := Parse(strings.NewReader("Water 1\n"))
		So(err, ShouldEqual, ErrEmptyGrid)
	})

	Convey("A map with no robot fails to load", t, func() {
		_, err := Parse(strings.NewReader("#####\n#...#\n#####"))
		So(err, ShouldEqual, ErrNoRobot)
	})
}
