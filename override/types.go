package override

import (
	"errors"
	"log/slog"
	"math"
	"time"
)

const (
	// DefaultCapacity is the default number of resident fingerprints.
	DefaultCapacity = 500

	// DefaultHalfLife is the default decay half-life (90 minutes).
	DefaultHalfLife = 5400 * time.Second

	// DecayThreshold is the score under which a candidate is not suggested.
	DecayThreshold = 1.0 / 1048576.0
)

// Sentinel errors.
var (
	// ErrBadCapacity indicates a non-positive capacity.
	ErrBadCapacity = errors.New("override: capacity must be positive")

	// ErrBadHalfLife indicates a non-positive half-life.
	ErrBadHalfLife = errors.New("override: half-life must be positive")

	// ErrMalformedRecord indicates a persisted line that cannot be decoded.
	ErrMalformedRecord = errors.New("override: malformed record")
)

// Pair is one walked entry as seen by the fingerprint: its joined reading
// key and its surface value.
type Pair struct {
	Key   string
	Value string
}

// Candidate is the per-candidate part of an observation.
type Candidate struct {
	Value     string
	Count     int
	Timestamp float64
}

// Entry is the persisted form of one fingerprint and its observations.
type Entry struct {
	Fingerprint string
	Count       int
	Candidates  []Candidate
}

// Options configures a Model.
type Options struct {
	Capacity int
	HalfLife time.Duration
	Logger   *slog.Logger
}

// Option is a functional option for New.
type Option func(*Options)

// WithCapacity sets the number of resident fingerprints. Panics when n <= 0.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic(ErrBadCapacity.Error())
		}
		o.Capacity = n
	}
}

// WithHalfLife sets the decay half-life. Panics when d <= 0.
func WithHalfLife(d time.Duration) Option {
	return func(o *Options) {
		if d <= 0 {
			panic(ErrBadHalfLife.Error())
		}
		o.HalfLife = d
	}
}

// WithLogger sets the logger used for eviction and restore diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns capacity 500, half-life 90 minutes, and a logger
// that discards everything.
func DefaultOptions() Options {
	return Options{
		Capacity: DefaultCapacity,
		HalfLife: DefaultHalfLife,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Lambda returns the decay constant ln(0.5)/halfLife in 1/seconds.
func Lambda(halfLife time.Duration) float64 {
	return math.Log(0.5) / halfLife.Seconds()
}

// Score is the decayed confidence of one candidate:
// (eventCount/totalCount) × exp((timestamp − eventTimestamp) × λ).
// Timestamps are in seconds. A zero totalCount yields 0.
func Score(eventCount, totalCount int, eventTimestamp, timestamp float64, halfLife time.Duration) float64 {
	if totalCount <= 0 {
		return 0
	}
	prob := float64(eventCount) / float64(totalCount)

	return prob * math.Exp((timestamp-eventTimestamp)*Lambda(halfLife))
}
