package cave

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"lambdalift/internal/grid"
)

var (
	reWater      = regexp.MustCompile(`^Water (\d+)$`)
	reFlooding   = regexp.MustCompile(`^Flooding (\d+)$`)
	reWaterproof = regexp.MustCompile(`^Waterproof (\d+)$`)
	reGrowth     = regexp.MustCompile(`^Growth (\d+)$`)
	reRazors     = regexp.MustCompile(`^Razors (\d+)$`)
	reTrampoline = regexp.MustCompile(`^Trampoline ([A-I]) targets ([1-9])$`)
)

// Parse reads a Lambda Lift map file and returns the loaded Cave. It is
// the one concrete tokeniser this module owns: spec.md treats map-file
// tokenisation as an external collaborator's concern in the general
// case, but something has to turn text into a Cave to drive the engine
// end to end, so this follows spec.md section 6's grammar directly.
func Parse(r io.Reader) (*Cave, error) {
	var gridLines []string
	var metaLines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case isDirective(line):
			metaLines = append(metaLines, line)
		case isGridLine(line):
			gridLines = append(gridLines, line)
		default:
			// Not a recognised directive or a valid grid line: ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cave: reading map: %w", err)
	}

	if len(gridLines) == 0 {
		return nil, ErrEmptyGrid
	}

	c, err := buildGrid(gridLines)
	if err != nil {
		return nil, err
	}

	applyDefaults(c)
	for _, line := range metaLines {
		applyDirective(c, line)
	}
	c.BeardCountdown = c.GrowthRate - 1
	c.LiftOpen = c.Grid.AtPoint(c.LiftPos) == grid.OpenLift || (len(c.Lambdas)+len(c.LambdaRocks) == 0)

	return c, nil
}

func isDirective(line string) bool {
	return reWater.MatchString(line) ||
		reFlooding.MatchString(line) ||
		reWaterproof.MatchString(line) ||
		reGrowth.MatchString(line) ||
		reRazors.MatchString(line) ||
		reTrampoline.MatchString(line)
}

func isGridLine(line string) bool {
	for i := 0; i < len(line); i++ {
		if !isCellByte(line[i]) {
			return false
		}
	}
	return true
}

func isCellByte(b byte) bool {
	c := grid.Cell(b)
	switch c {
	case grid.Wall, grid.Empty, grid.Dirt, grid.Rock, grid.LambdaRock,
		grid.Lambda, grid.ClosedLift, grid.OpenLift, grid.Robot,
		grid.Beard, grid.Razor:
		return true
	}
	return grid.IsTrampoline(c) || grid.IsTarget(c)
}

// buildGrid lays out gridLines into a Cave's grid: the first line in
// the file is the highest row, shorter lines are right-padded with
// Empty, and the derived position indices (robot, lift, lambdas,
// lambda-rocks, trampolines, targets) are collected in the same pass.
func buildGrid(lines []string) (*Cave, error) {
	width := 0
	for _, l := range lines {
		if len(l) > width {
			width = len(l)
		}
	}
	height := len(lines)

	g := grid.New(width, height)
	c := &Cave{
		Grid:                g,
		Lambdas:             map[grid.Point]struct{}{},
		LambdaRocks:         map[grid.Point]struct{}{},
		TrampolineToTarget:  map[grid.Cell]grid.Cell{},
		TargetToTrampolines: map[grid.Cell][]grid.Cell{},
		TrampPos:            map[grid.Cell]grid.Point{},
		TargetPos:           map[grid.Cell]grid.Point{},
	}

	haveRobot := false
	for i, line := range lines {
		y := height - 1 - i
		for x := 0; x < width; x++ {
			cell := grid.Cell(' ')
			if x < len(line) {
				cell = grid.Cell(line[x])
			}
			g.Set(x, y, cell)

			p := grid.Point{X: x, Y: y}
			switch {
			case cell == grid.Robot:
				c.RobotPos = p
				haveRobot = true
			case cell == grid.ClosedLift || cell == grid.OpenLift:
				c.LiftPos = p
			case cell == grid.Lambda:
				c.Lambdas[p] = struct{}{}
			case cell == grid.LambdaRock:
				c.LambdaRocks[p] = struct{}{}
			case grid.IsTrampoline(cell):
				c.TrampPos[cell] = p
			case grid.IsTarget(cell):
				c.TargetPos[cell] = p
			}
		}
	}

	if !haveRobot {
		return nil, ErrNoRobot
	}

	return c, nil
}

func applyDefaults(c *Cave) {
	c.WaterLevel = -1
	c.FloodRate = 0
	c.WaterResistance = DefaultWaterResistance
	c.GrowthRate = DefaultGrowthRate
	c.RazorsCarried = 0
}

func applyDirective(c *Cave, line string) {
	switch {
	case reWater.MatchString(line):
		n := atoi(reWater.FindStringSubmatch(line)[1])
		c.WaterLevel = n - 1
	case reFlooding.MatchString(line):
		c.FloodRate = atoi(reFlooding.FindStringSubmatch(line)[1])
	case reWaterproof.MatchString(line):
		c.WaterResistance = atoi(reWaterproof.FindStringSubmatch(line)[1])
	case reGrowth.MatchString(line):
		c.GrowthRate = atoi(reGrowth.FindStringSubmatch(line)[1])
	case reRazors.MatchString(line):
		c.RazorsCarried = atoi(reRazors.FindStringSubmatch(line)[1])
	case reTrampoline.MatchString(line):
		m := reTrampoline.FindStringSubmatch(line)
		letter := grid.Cell(m[1][0])
		target := grid.Cell(m[2][0])
		c.TrampolineToTarget[letter] = target
		c.TargetToTrampolines[target] = append(c.TargetToTrampolines[target], letter)
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
