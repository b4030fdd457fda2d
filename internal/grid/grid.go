// Package grid implements the two-dimensional cell buffer the cave
// simulation is built on: a flat, bounds-safe, cheaply-cloned array of
// cells. Coordinates grow right (x) and up (y); row 0 is the bottom of
// the cave, matching the orientation used throughout the cave and
// planner packages.
package grid

// Cell is one symbol from the closed Lambda Lift cave alphabet.
type Cell byte

const (
	Wall        Cell = '#'
	Empty       Cell = ' '
	Dirt        Cell = '.'
	Rock        Cell = '*'
	LambdaRock  Cell = '@'
	Lambda      Cell = '\\'
	ClosedLift  Cell = 'L'
	OpenLift    Cell = 'O'
	Robot       Cell = 'R'
	Beard       Cell = 'W'
	Razor       Cell = '!'
	trampFirst  Cell = 'A'
	trampLast   Cell = 'I'
	targetFirst Cell = '1'
	targetLast  Cell = '9'
)

// IsTrampoline reports whether c is one of the trampoline letters A..I.
func IsTrampoline(c Cell) bool {
	return c >= trampFirst && c <= trampLast
}

// IsTarget reports whether c is one of the target digits 1..9.
func IsTarget(c Cell) bool {
	return c >= targetFirst && c <= targetLast
}

// IsRock reports whether c is a plain rock or a lambda-rock; both obey
// the same fall/slide rules.
func IsRock(c Cell) bool {
	return c == Rock || c == LambdaRock
}

// Point is a grid coordinate, (0,0) at the bottom-left.
type Point struct {
	X, Y int
}

// Add returns p shifted by dx,dy.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Grid is a W x H array of cells stored row-major, bottom row first.
// Reads outside [0,W)x[0,H) are well defined and return Wall: this lets
// every neighbour-inspection rule in the cave and pathfinder packages
// skip explicit bounds checks.
type Grid struct {
	W, H  int
	cells []Cell
}

// New returns a W x H grid with every cell set to Empty.
func New(w, h int) *Grid {
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{W: w, H: h, cells: cells}
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

func (g *Grid) index(x, y int) int {
	return y*g.W + x
}

// At returns the cell at (x,y), or Wall if the coordinate is out of
// bounds.
func (g *Grid) At(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Wall
	}
	return g.cells[g.index(x, y)]
}

// AtPoint is At for a Point.
func (g *Grid) AtPoint(p Point) Cell {
	return g.At(p.X, p.Y)
}

// Set writes c at (x,y). Writes outside bounds are silently dropped,
// mirroring At's bounds-safe read.
func (g *Grid) Set(x, y int, c Cell) {
	if g.inBounds(x, y) {
		g.cells[g.index(x, y)] = c
	}
}

// SetPoint is Set for a Point.
func (g *Grid) SetPoint(p Point, c Cell) {
	g.Set(p.X, p.Y, c)
}

// Clone deep-copies the grid. Cave.Move relies on this being cheap:
// it is one allocation and one copy of a flat byte slice.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{W: g.W, H: g.H, cells: cells}
}

// Neighbors8 returns the eight cells surrounding p, in bounds or not
// (callers read through At/AtPoint which already handles that).
func Neighbors8(p Point) []Point {
	return []Point{
		{p.X - 1, p.Y - 1}, {p.X, p.Y - 1}, {p.X + 1, p.Y - 1},
		{p.X - 1, p.Y}, {p.X + 1, p.Y},
		{p.X - 1, p.Y + 1}, {p.X, p.Y + 1}, {p.X + 1, p.Y + 1},
	}
}

// Manhattan returns the L1 distance between a and b.
func Manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Neighbors4 returns the four orthogonal cells surrounding p, in bounds
// or not.
func Neighbors4(p Point) []Point {
	return []Point{
		{p.X, p.Y - 1}, {p.X, p.Y + 1},
		{p.X - 1, p.Y}, {p.X + 1, p.Y},
	}
}

// String renders the grid as text, highest row first, matching the map
// file convention so a round-tripped cave compares equal to its source.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.W+1)*g.H)
	for y := g.H - 1; y >= 0; y-- {
		for x := 0; x < g.W; x++ {
			buf = append(buf, byte(g.At(x, y)))
		}
		if y > 0 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}
