package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/katalvlaran/gramwalk/compositor"
	"github.com/katalvlaran/gramwalk/metrics"
)

// DefaultMaxBufferLength is the number of readings kept before the head of
// the composition is committed automatically.
const DefaultMaxBufferLength = 20

// Sentinel errors.
var (
	// ErrReadingRejected indicates a reading the language model does not know.
	ErrReadingRejected = errors.New("session: reading rejected")

	// ErrUnknownCandidate indicates a value not offered at the cursor.
	ErrUnknownCandidate = errors.New("session: no such candidate at cursor")
)

// Options configures a Session.
type Options struct {
	MaxBufferLength int
	Separator       string
	LenientInsert   bool
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	Clock           func() time.Time
}

// Option is a functional option for New.
type Option func(*Options)

// WithMaxBufferLength bounds the composition. Values below 1 panic.
func WithMaxBufferLength(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("session: max buffer length must be positive")
		}
		o.MaxBufferLength = n
	}
}

// WithSeparator sets the reading separator passed to the compositor.
func WithSeparator(sep string) Option {
	return func(o *Options) { o.Separator = sep }
}

// WithLenientInsert accepts readings without singleton grams.
func WithLenientInsert() Option {
	return func(o *Options) { o.LenientInsert = true }
}

// WithMetrics records session activity into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithClock sets the time source used to timestamp override observations.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Clock = now
		}
	}
}

// DefaultOptions returns the defaults: 20 readings, "-" separator, no
// metrics, a discarding logger and time.Now.
func DefaultOptions() Options {
	return Options{
		MaxBufferLength: DefaultMaxBufferLength,
		Separator:       compositor.DefaultSeparator,
		Logger:          slog.New(slog.DiscardHandler),
		Clock:           time.Now,
	}
}
