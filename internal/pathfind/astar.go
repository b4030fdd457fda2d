// Package pathfind implements a single-threaded A* search over a cave
// grid. It knows nothing about lambdas or scoring: callers supply a
// Cost function describing which cells are enterable and at what
// price, and Find returns the cheapest sequence of points from start
// to goal.
package pathfind

import (
	"container/heap"

	"lambdalift/internal/grid"
)

// Cost reports the price of moving from one cell directly into an
// adjacent cell to, and whether that move is legal at all. Direction
// matters: a cave rock can be entered by pushing it, but only from the
// correct side, so the function is given both endpoints rather than
// just the destination.
type Cost func(from, to grid.Point) (cost int, ok bool)

// node is one entry in the search frontier.
type node struct {
	p      grid.Point
	g      int
	f      int
	parent *node
	index  int
}

type openHeap []*node

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Find runs A* from start to goal using cost to price and filter
// neighbours. It returns the path including both start and goal, or
// nil if goal is unreachable. start is never priced; cost is consulted
// for every step, including the final step into goal, so a goal that
// cost refuses is unreachable.
func Find(start, goal grid.Point, cost Cost) []grid.Point {
	if start == goal {
		return []grid.Point{start}
	}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &node{p: start, g: 0, f: grid.Manhattan(start, goal)})

	best := map[grid.Point]int{start: 0}
	closed := map[grid.Point]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)

		if closed[cur.p] {
			continue
		}
		closed[cur.p] = true

		if cur.p == goal {
			return reconstruct(cur)
		}

		for _, n := range grid.Neighbors4(cur.p) {
			if closed[n] {
				continue
			}
			step, ok := cost(cur.p, n)
			if !ok {
				continue
			}
			g := cur.g + step
			if prev, seen := best[n]; seen && prev <= g {
				continue
			}
			best[n] = g
			heap.Push(open, &node{p: n, g: g, f: g + grid.Manhattan(n, goal), parent: cur})
		}
	}

	return nil
}

func reconstruct(n *node) []grid.Point {
	var path []grid.Point
	for cur := n; cur != nil; cur = cur.parent {
		path = append([]grid.Point{cur.p}, path...)
	}
	return path
}
