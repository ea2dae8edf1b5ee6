package compositor

import (
	"strings"

	"github.com/katalvlaran/gramwalk/override"
)

// GramInPath is one entry of a walked path: the chosen node and the readings
// [Location, Location+SpanLength) it covers.
type GramInPath struct {
	Node       *Node
	Location   int
	SpanLength int
}

// Value returns the selected surface text.
func (g GramInPath) Value() string { return g.Node.Value() }

// Key returns the joined reading key.
func (g GramInPath) Key() string { return g.Node.Key() }

// End returns the position just past the entry.
func (g GramInPath) End() int { return g.Location + g.SpanLength }

// WalkedPath is a contiguous, gapless sequence of entries from position 0.
type WalkedPath []GramInPath

// Values returns each entry's surface text.
func (p WalkedPath) Values() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Value()
	}

	return out
}

// Keys returns each entry's reading key.
func (p WalkedPath) Keys() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Key()
	}

	return out
}

// Text concatenates all values.
func (p WalkedPath) Text() string {
	var sb strings.Builder
	for _, e := range p {
		sb.WriteString(e.Value())
	}

	return sb.String()
}

// TotalLength returns the number of readings covered.
func (p WalkedPath) TotalLength() int {
	total := 0
	for _, e := range p {
		total += e.SpanLength
	}

	return total
}

// EntryAt returns the index of the entry covering cursor. A cursor at the
// end maps to the last entry. Returns -1 for an empty path or a cursor out
// of range.
func (p WalkedPath) EntryAt(cursor int) int {
	if len(p) == 0 || cursor < 0 {
		return -1
	}
	for i, e := range p {
		if cursor < e.End() {
			return i
		}
	}
	if cursor == p.TotalLength() {
		return len(p) - 1
	}

	return -1
}

// NextBoundary returns the first entry end strictly after cursor, or the
// total length when cursor is already at the end.
func (p WalkedPath) NextBoundary(cursor int) int {
	for _, e := range p {
		if e.End() > cursor {
			return e.End()
		}
	}

	return p.TotalLength()
}

// PreviousBoundary returns the last entry start strictly before cursor, or 0.
func (p WalkedPath) PreviousBoundary(cursor int) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Location < cursor {
			return p[i].Location
		}
	}

	return 0
}

func (p WalkedPath) clone() WalkedPath {
	if p == nil {
		return nil
	}
	out := make(WalkedPath, len(p))
	for i, e := range p {
		out[i] = GramInPath{Node: e.Node.clone(), Location: e.Location, SpanLength: e.SpanLength}
	}

	return out
}

// ContextFingerprint builds the override-model fingerprint for the entries
// ending at or before cursor. The last such entry is the current slot and
// contributes its key only, since its value is what gets predicted; the two
// before it contribute key and value. Missing slots are empty pairs.
func ContextFingerprint(path WalkedPath, cursor int) string {
	last := -1
	for i, e := range path {
		if e.End() > cursor {
			break
		}
		last = i
	}
	if last < 0 {
		return ""
	}

	slot := func(i int) override.Pair {
		if i < 0 {
			return override.EmptyPair
		}
		return override.Pair{Key: path[i].Key(), Value: path[i].Value()}
	}
	current := override.Pair{Key: path[last].Key()}

	return override.Fingerprint(slot(last-2), slot(last-1), current)
}
