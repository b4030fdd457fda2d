package cave

import "lambdalift/internal/grid"

// Action is one of the seven moves a robot may issue in a single tick.
type Action byte

const (
	ActionLeft  Action = 'L'
	ActionRight Action = 'R'
	ActionUp    Action = 'U'
	ActionDown  Action = 'D'
	ActionWait  Action = 'W'
	ActionShave Action = 'S'
	ActionAbort Action = 'A'
)

// delta is the dispatch table mapping each action to the displacement
// it proposes for the robot. Wait, Shave and Abort propose no
// displacement: Abort never reaches the robot-movement phase at all,
// and Wait/Shave resolve against the robot's own cell, which never
// matches any of the move targets in Cave.Move's switch.
var delta = map[Action]grid.Point{
	ActionLeft:  {X: -1, Y: 0},
	ActionRight: {X: 1, Y: 0},
	ActionUp:    {X: 0, Y: 1},
	ActionDown:  {X: 0, Y: -1},
	ActionWait:  {X: 0, Y: 0},
	ActionShave: {X: 0, Y: 0},
}

// Delta returns the displacement a proposes for the robot. Wait,
// Shave and Abort all propose the zero displacement.
func Delta(a Action) grid.Point {
	return delta[a]
}

// IsValid reports whether a is one of the seven defined actions.
func IsValid(a Action) bool {
	switch a {
	case ActionLeft, ActionRight, ActionUp, ActionDown, ActionWait, ActionShave, ActionAbort:
		return true
	default:
		return false
	}
}
