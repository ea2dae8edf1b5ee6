package compositor

import (
	"github.com/katalvlaran/gramwalk/gram"
)

// OverrideKind is the override state of a Node.
type OverrideKind int

const (
	// OverrideNone: the node scores as its top gram.
	OverrideNone OverrideKind = iota

	// OverrideFixed: the user pinned a gram; the node scores SelectedScore
	// and every walk is forced through it.
	OverrideFixed

	// OverrideFloating: a gram was chosen with a custom score that still
	// competes normally with other nodes.
	OverrideFloating
)

// String names the kind.
func (k OverrideKind) String() string {
	switch k {
	case OverrideFixed:
		return "fixed"
	case OverrideFloating:
		return "floating"
	default:
		return "none"
	}
}

// Node is a candidate covering SpanLength consecutive readings.
// Invariant: grams is never empty and is sorted by descending score.
type Node struct {
	key        string
	spanLength int
	grams      []gram.Gram

	kind          OverrideKind
	selected      int     // index into grams; 0 unless overridden
	overrideScore float64 // used when kind == OverrideFloating
}

// newNode copies and sorts grams. Returns nil when grams is empty.
func newNode(key string, spanLength int, grams []gram.Gram) *Node {
	if len(grams) == 0 {
		return nil
	}
	list := make([]gram.Gram, len(grams))
	copy(list, grams)
	gram.SortByScore(list)

	return &Node{key: key, spanLength: spanLength, grams: list}
}

// Key returns the joined reading key.
func (n *Node) Key() string { return n.key }

// SpanLength returns the number of readings covered.
func (n *Node) SpanLength() int { return n.spanLength }

// Grams returns a copy of the node's grams in descending score order.
func (n *Node) Grams() []gram.Gram {
	out := make([]gram.Gram, len(n.grams))
	copy(out, n.grams)

	return out
}

// Override returns the override kind and the selected gram index.
func (n *Node) Override() (OverrideKind, int) { return n.kind, n.selected }

// IsOverridden reports whether the node carries any override.
func (n *Node) IsOverridden() bool { return n.kind != OverrideNone }

// CurrentGram returns the selected gram (the top gram when not overridden).
func (n *Node) CurrentGram() gram.Gram { return n.grams[n.selected] }

// Value returns the surface text of the selected gram.
func (n *Node) Value() string { return n.grams[n.selected].Value }

// TopScore returns the best natural score among the node's grams.
func (n *Node) TopScore() float64 { return n.grams[0].Score }

// Score returns the effective score used by the walk:
// SelectedScore when fixed, the custom score when floating, else the top gram score.
func (n *Node) Score() float64 {
	switch n.kind {
	case OverrideFixed:
		return SelectedScore
	case OverrideFloating:
		return n.overrideScore
	default:
		return n.grams[0].Score
	}
}

// IndexOf returns the index of the first gram with value, or -1.
func (n *Node) IndexOf(value string) int {
	for i, g := range n.grams {
		if g.Value == value {
			return i
		}
	}

	return -1
}

// selectValue applies an override for value. Returns false when the node has
// no gram with that value.
func (n *Node) selectValue(value string, kind OverrideKind, score float64) bool {
	idx := n.IndexOf(value)
	if idx < 0 {
		return false
	}
	n.selected = idx
	n.kind = kind
	n.overrideScore = score

	return true
}

// reset clears any override.
func (n *Node) reset() {
	n.kind = OverrideNone
	n.selected = 0
	n.overrideScore = 0
}

// clone returns an independent copy. Grams are immutable and shared.
func (n *Node) clone() *Node {
	c := *n

	return &c
}
