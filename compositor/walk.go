package compositor

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gramwalk/walker"
)

// Walk computes the best path through the grid, stores it together with the
// cursor region table and returns it. An empty composition yields an empty
// path. Walk is idempotent while the grid is unchanged.
func (c *Compositor) Walk() (WalkedPath, error) {
	// 1) Flatten the grid into arcs; Ref indexes the parallel nodes slice.
	var (
		arcs  []walker.Arc
		nodes []*Node
	)
	for p := range c.spans {
		for _, n := range c.spans[p].Nodes() {
			arcs = append(arcs, walker.Arc{
				From:   p,
				Len:    n.spanLength,
				Score:  n.Score(),
				Text:   n.Value(),
				Pinned: n.kind == OverrideFixed,
				Ref:    len(nodes),
			})
			nodes = append(nodes, n)
		}
	}

	// 2) Search.
	res, err := walker.Walk(len(c.readings), arcs, c.options.Walker...)
	if err != nil {
		c.path, c.regions = nil, nil
		if errors.Is(err, walker.ErrUnreachable) {
			c.log.Warn("walk failed: uncovered position", "readings", len(c.readings), "err", err)
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("compositor: walk: %w", err)
	}

	// 3) Map arcs back to path entries holding node clones.
	path := make(WalkedPath, 0, len(res.Arcs))
	for _, a := range res.Arcs {
		path = append(path, GramInPath{
			Node:       nodes[a.Ref].clone(),
			Location:   a.From,
			SpanLength: a.Len,
		})
	}

	// 4) Cursor region table: positions 0..len, len maps to the last entry.
	regions := make([]int, len(c.readings)+1)
	for i, e := range path {
		for pos := e.Location; pos < e.Location+e.SpanLength; pos++ {
			regions[pos] = i
		}
	}
	if len(path) > 0 {
		regions[len(c.readings)] = len(path) - 1
	}

	c.path, c.regions = path, regions
	c.log.Debug("walked", "readings", len(c.readings), "arcs", len(arcs),
		"vertices", res.Vertices, "entries", len(path), "score", res.Score)

	return path.clone(), nil
}

// Path returns the result of the last successful Walk.
func (c *Compositor) Path() WalkedPath { return c.path.clone() }

// CursorRegionMap maps every cursor position 0..Len() to the index of the
// path entry covering it, as of the last successful Walk. The position Len()
// maps to the last entry. Empty before the first walk or on an empty buffer.
func (c *Compositor) CursorRegionMap() map[int]int {
	out := make(map[int]int, len(c.regions))
	if len(c.path) == 0 {
		return out
	}
	for pos, idx := range c.regions {
		out[pos] = idx
	}

	return out
}
