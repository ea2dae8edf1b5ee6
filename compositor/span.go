package compositor

// Span holds the nodes anchored at one grid position, indexed by length.
// slots[q-1] is the node of length q, or nil.
type Span struct {
	slots [MaxSpan]*Node
}

// NodeOf returns the node of length q, or nil.
func (s *Span) NodeOf(q int) *Node {
	if q < 1 || q > MaxSpan {
		return nil
	}

	return s.slots[q-1]
}

// Nodes returns the non-nil nodes in ascending length order.
func (s *Span) Nodes() []*Node {
	var out []*Node
	for _, n := range s.slots {
		if n != nil {
			out = append(out, n)
		}
	}

	return out
}

// put stores n at its own length, replacing whatever was there.
func (s *Span) put(n *Node) {
	if n == nil || n.spanLength < 1 || n.spanLength > MaxSpan {
		return
	}
	s.slots[n.spanLength-1] = n
}

// remove clears the slot of length q.
func (s *Span) remove(q int) {
	if q >= 1 && q <= MaxSpan {
		s.slots[q-1] = nil
	}
}

// dropLongerThan clears every node whose length exceeds q.
func (s *Span) dropLongerThan(q int) {
	if q < 0 {
		q = 0
	}
	for l := q + 1; l <= MaxSpan; l++ {
		s.slots[l-1] = nil
	}
}
