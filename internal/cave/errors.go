package cave

import "errors"

// Load-time failures. Both are instances of the MapMalformed error kind:
// a cave that cannot be played fails fast rather than limping along with
// an invalid robot position.
var (
	ErrEmptyGrid = errors.New("cave: map has no grid lines")
	ErrNoRobot   = errors.New("cave: map has no robot")
)
