package compositor

import (
	"log/slog"
	"strings"

	"github.com/katalvlaran/gramwalk/gram"
)

// Compositor holds the readings, the cursor and the candidate grid of one
// composition. Create it with New.
type Compositor struct {
	model   gram.Model
	options Options
	log     *slog.Logger

	readings []string
	spans    []Span // len(spans) == len(readings)
	cursor   int

	path    WalkedPath
	regions []int // cursor position → path index, len(readings)+1 entries
}

// New returns an empty Compositor backed by model.
//
// A nil model is a programming error, not a runtime condition: New panics
// with ErrNilModel, the same contract walker.WithEpsilon keeps for a
// negative tolerance.
func New(model gram.Model, opts ...Option) *Compositor {
	if model == nil {
		panic(ErrNilModel)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Compositor{
		model:   model,
		options: o,
		log:     o.Logger,
	}
}

// Len returns the number of readings.
func (c *Compositor) Len() int { return len(c.readings) }

// Readings returns a copy of the reading sequence.
func (c *Compositor) Readings() []string {
	out := make([]string, len(c.readings))
	copy(out, c.readings)

	return out
}

// Separator returns the string that joins readings into model keys.
func (c *Compositor) Separator() string { return c.options.Separator }

// Cursor returns the insertion point in [0, Len()].
func (c *Compositor) Cursor() int { return c.cursor }

// SetCursor moves the insertion point, clamped to [0, Len()].
func (c *Compositor) SetCursor(index int) {
	c.cursor = clamp(index, 0, len(c.readings))
}

// NodeAt returns the node of length q anchored at position p, or nil.
func (c *Compositor) NodeAt(p, q int) *Node {
	if p < 0 || p >= len(c.spans) {
		return nil
	}

	return c.spans[p].NodeOf(q)
}

// NodesAt returns the nodes anchored at position p, shortest first.
func (c *Compositor) NodesAt(p int) []*Node {
	if p < 0 || p >= len(c.spans) {
		return nil
	}

	return c.spans[p].Nodes()
}

// InsertReading inserts token at the cursor and advances the cursor.
// Returns false, leaving the state untouched, for an empty token or, unless
// WithLenientInsert is set, a token the model has no grams for.
func (c *Compositor) InsertReading(token string) bool {
	if token == "" {
		return false
	}
	if !c.options.LenientInsert && !c.model.HasUnigramsFor(token) {
		c.log.Debug("reading rejected", "reading", token)
		return false
	}

	at := c.cursor
	c.readings = append(c.readings, "")
	copy(c.readings[at+1:], c.readings[at:])
	c.readings[at] = token
	c.expandGrid(at)
	c.cursor++
	c.build()

	return true
}

// DropReading removes the reading before (Backward) or after (Forward) the
// cursor. Returns false when there is nothing in that direction.
func (c *Compositor) DropReading(dir Direction) bool {
	at := c.cursor
	if dir == Backward {
		if c.cursor == 0 {
			return false
		}
		at = c.cursor - 1
	} else if c.cursor == len(c.readings) {
		return false
	}

	c.readings = append(c.readings[:at], c.readings[at+1:]...)
	c.shrinkGrid(at)
	if dir == Backward {
		c.cursor--
	}
	c.build()

	return true
}

// RemoveHeadReadings removes count readings from the front. The cursor moves
// back by one per removed reading, never below 0. Returns false when count is
// negative or exceeds Len().
func (c *Compositor) RemoveHeadReadings(count int) bool {
	if count < 0 || count > len(c.readings) {
		return false
	}
	for i := 0; i < count; i++ {
		c.readings = c.readings[1:]
		c.shrinkGrid(0)
		if c.cursor > 0 {
			c.cursor--
		}
	}
	if count > 0 {
		c.build()
	}

	return true
}

// Clear drops every reading, node and walk result.
func (c *Compositor) Clear() {
	c.readings = nil
	c.spans = nil
	c.cursor = 0
	c.path = nil
	c.regions = nil
}

// expandGrid opens an empty span at loc and drops nodes that now straddle it.
func (c *Compositor) expandGrid(loc int) {
	c.spans = append(c.spans, Span{})
	copy(c.spans[loc+1:], c.spans[loc:])
	c.spans[loc] = Span{}
	c.pruneCrossing(loc)
}

// shrinkGrid removes the span at loc and drops nodes that covered it.
func (c *Compositor) shrinkGrid(loc int) {
	c.spans = append(c.spans[:loc], c.spans[loc+1:]...)
	c.pruneCrossing(loc)
}

// pruneCrossing enforces that no node anchored before loc reaches past it.
func (c *Compositor) pruneCrossing(loc int) {
	begin := loc - MaxSpan
	if begin < 0 {
		begin = 0
	}
	for i := begin; i < loc && i < len(c.spans); i++ {
		c.spans[i].dropLongerThan(loc - i)
	}
}

// joinedKey joins readings[p:p+q].
func (c *Compositor) joinedKey(p, q int) string {
	return strings.Join(c.readings[p:p+q], c.options.Separator)
}

// build (re)creates nodes inside the window [cursor-MaxSpan, cursor+MaxSpan].
// A (p, q) whose node already carries the same joined key is left alone, so
// overrides survive unrelated edits.
func (c *Compositor) build() {
	if len(c.readings) == 0 {
		return
	}
	begin := clamp(c.cursor-MaxSpan, 0, len(c.readings))
	end := clamp(c.cursor+MaxSpan, 0, len(c.readings))

	var queried, created int
	for p := begin; p < end; p++ {
		for q := 1; q <= MaxSpan && p+q <= end; q++ {
			key := c.joinedKey(p, q)
			if n := c.spans[p].NodeOf(q); n != nil && n.key == key {
				continue
			}
			queried++
			n := newNode(key, q, c.model.UnigramsFor(key))
			if n == nil {
				c.spans[p].remove(q)
				continue
			}
			c.spans[p].put(n)
			created++
		}
	}
	c.log.Debug("grid rebuilt",
		"window_begin", begin, "window_end", end,
		"queried", queried, "created", created)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
