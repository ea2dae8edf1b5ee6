package compositor

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/gramwalk/walker"
)

const (
	// MaxSpan is the longest run of readings a single node may cover.
	MaxSpan = 10

	// DefaultSeparator joins readings into language-model keys.
	DefaultSeparator = "-"

	// SelectedScore is the effective score of a fixed node. Natural scores
	// are log-probabilities and never positive, so it outranks all of them.
	SelectedScore = 99.0
)

// Sentinel errors.
var (
	// ErrUnreachable indicates that the grid cannot be walked end to end.
	ErrUnreachable = errors.New("compositor: grid has an uncovered position")

	// ErrNilModel indicates New was called without a language model.
	ErrNilModel = errors.New("compositor: language model is nil")
)

// Direction selects which neighbour of the cursor DropReading removes.
type Direction int

const (
	// Backward removes the reading before the cursor (backspace).
	Backward Direction = iota

	// Forward removes the reading after the cursor (delete).
	Forward
)

// String returns "backward" or "forward".
func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}

	return "backward"
}

// Options configures a Compositor.
//
// Separator     – joins readings into model keys (default "-").
// LenientInsert – accept readings whose singleton key has no grams.
// Logger        – receives Debug-level rebuild and walk diagnostics.
// Walker        – options passed to every walker.Walk call.
type Options struct {
	Separator     string
	LenientInsert bool
	Logger        *slog.Logger
	Walker        []walker.Option
}

// Option is a functional option for New.
type Option func(*Options)

// WithSeparator sets the reading separator. An empty separator is ignored.
func WithSeparator(sep string) Option {
	return func(o *Options) {
		if sep != "" {
			o.Separator = sep
		}
	}
}

// WithLenientInsert disables the singleton fast-reject check in InsertReading,
// for readings that only become valid in combination with their neighbours.
func WithLenientInsert() Option {
	return func(o *Options) {
		o.LenientInsert = true
	}
}

// WithLogger sets the diagnostics logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithWalkerOptions appends options for the underlying path search,
// e.g. walker.WithEpsilon.
func WithWalkerOptions(opts ...walker.Option) Option {
	return func(o *Options) {
		o.Walker = append(o.Walker, opts...)
	}
}

// DefaultOptions returns the default separator, strict insert and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		Separator: DefaultSeparator,
		Logger:    slog.New(slog.DiscardHandler),
	}
}
