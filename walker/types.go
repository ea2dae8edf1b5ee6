package walker

import "errors"

// Sentinel errors returned by Walk.
var (
	// ErrNegativeSize indicates a negative vertex count was passed to Walk.
	ErrNegativeSize = errors.New("walker: lattice size is negative")

	// ErrBadArc indicates an arc that starts before 0, spans nothing,
	// or ends beyond the sink.
	ErrBadArc = errors.New("walker: arc out of range")

	// ErrPinConflict indicates two pinned arcs cover overlapping ranges.
	ErrPinConflict = errors.New("walker: overlapping pinned arcs")

	// ErrUnreachable indicates that no sequence of arcs connects source to sink.
	ErrUnreachable = errors.New("walker: sink is unreachable")
)

// DefaultEpsilon is the default tolerance under which two path scores are equal.
const DefaultEpsilon = 1e-9

// Arc is a candidate edge in the lattice.
type Arc struct {
	// From is the start vertex (token boundary).
	From int

	// Len is the number of tokens spanned; the arc ends at From+Len.
	Len int

	// Score is the arc weight; the walker maximizes the sum along the path.
	Score float64

	// Text is the surface text of the arc, compared by the phrase rule.
	Text string

	// Pinned forces every complete path through this arc.
	Pinned bool

	// Ref is an opaque caller reference carried through to the Result.
	Ref int
}

// To returns the end vertex of the arc.
func (a Arc) To() int { return a.From + a.Len }

// overlaps reports whether a and b share at least one token.
func (a Arc) overlaps(b Arc) bool {
	return a.From < b.To() && b.From < a.To()
}

// Result is the outcome of a walk.
type Result struct {
	// Arcs lists the chosen arcs from source to sink, contiguous and gapless.
	Arcs []Arc

	// Score is the summed score of Arcs.
	Score float64

	// Vertices is the number of vertices the walk reached, including the source.
	Vertices int
}

// Options configures Walk.
//
// Epsilon – scores closer than Epsilon are treated as equal (rule 3).
type Options struct {
	Epsilon float64
}

// Option is a functional option for Walk.
type Option func(*Options)

// WithEpsilon sets the equality tolerance used when comparing path scores.
// Negative values panic: an invalid tolerance is a programming error.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps < 0 {
			panic("walker: epsilon must be non-negative")
		}
		o.Epsilon = eps
	}
}

// DefaultOptions returns Options with Epsilon = DefaultEpsilon.
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon}
}
