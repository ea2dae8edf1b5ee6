package compositor

// Candidate is one selectable value at a position, with the node it comes from.
type Candidate struct {
	Key        string
	Value      string
	Score      float64
	Location   int
	SpanLength int
}

// located is a node together with its grid address.
type located struct {
	node *Node
	p    int
}

// overlapping returns the nodes covering location, longest span first and,
// within a length, leftmost start first.
func (c *Compositor) overlapping(location int) []located {
	var out []located
	for q := MaxSpan; q >= 1; q-- {
		for p := location - q + 1; p <= location; p++ {
			if n := c.NodeAt(p, q); n != nil {
				out = append(out, located{node: n, p: p})
			}
		}
	}

	return out
}

// clampLocation maps a cursor-like location onto a reading index.
func (c *Compositor) clampLocation(location int) (int, bool) {
	if len(c.readings) == 0 {
		return 0, false
	}

	return clamp(location, 0, len(c.readings)-1), true
}

// FixNodeSelectedCandidate pins value on the first node covering location
// that offers it. Every other node overlapping the pinned one is reset.
// location is clamped like a cursor. Returns false when no covering node has
// value.
func (c *Compositor) FixNodeSelectedCandidate(location int, value string) bool {
	return c.overrideAt(location, value, OverrideFixed, SelectedScore)
}

// OverrideNodeScore selects value on the first node covering location that
// offers it and gives that node score, letting it compete normally in the
// walk. Overlapping nodes are reset as in FixNodeSelectedCandidate.
func (c *Compositor) OverrideNodeScore(location int, value string, score float64) bool {
	return c.overrideAt(location, value, OverrideFloating, score)
}

// FixCandidate pins exactly the node a Candidate came from.
func (c *Compositor) FixCandidate(cand Candidate) bool {
	n := c.NodeAt(cand.Location, cand.SpanLength)
	if n == nil || n.key != cand.Key {
		return false
	}
	if !n.selectValue(cand.Value, OverrideFixed, SelectedScore) {
		return false
	}
	c.resetOverlapping(n, cand.Location)

	return true
}

func (c *Compositor) overrideAt(location int, value string, kind OverrideKind, score float64) bool {
	loc, ok := c.clampLocation(location)
	if !ok || value == "" {
		return false
	}
	for _, l := range c.overlapping(loc) {
		if l.node.selectValue(value, kind, score) {
			c.resetOverlapping(l.node, l.p)
			c.log.Debug("node overridden", "kind", kind.String(), "location", l.p,
				"span", l.node.spanLength, "value", value)
			return true
		}
	}

	return false
}

// resetOverlapping clears overrides on every node other than keep that shares
// a reading with [p, p+keep.spanLength).
func (c *Compositor) resetOverlapping(keep *Node, p int) {
	seen := make(map[*Node]bool)
	for loc := p; loc < p+keep.spanLength && loc < len(c.readings); loc++ {
		for _, l := range c.overlapping(loc) {
			if l.node == keep || seen[l.node] {
				continue
			}
			seen[l.node] = true
			l.node.reset()
		}
	}
}

// Candidates lists the values offered by nodes covering location, longest
// span first, each value once (its first occurrence wins). location is
// clamped like a cursor.
func (c *Compositor) Candidates(location int) []Candidate {
	loc, ok := c.clampLocation(location)
	if !ok {
		return nil
	}
	var (
		out  []Candidate
		seen = make(map[string]bool)
	)
	for _, l := range c.overlapping(loc) {
		for _, g := range l.node.grams {
			if seen[g.Value] {
				continue
			}
			seen[g.Value] = true
			out = append(out, Candidate{
				Key:        l.node.key,
				Value:      g.Value,
				Score:      g.Score,
				Location:   l.p,
				SpanLength: l.node.spanLength,
			})
		}
	}

	return out
}
