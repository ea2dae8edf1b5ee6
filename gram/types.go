package gram

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors returned by MapModel.
var (
	// ErrEmptyKey indicates that a Gram with an empty reading key was supplied.
	ErrEmptyKey = errors.New("gram: key is empty")

	// ErrEmptyValue indicates that a Gram with an empty surface value was supplied.
	ErrEmptyValue = errors.New("gram: value is empty")
)

// Gram is one scored candidate for a joined reading key.
// Grams are values; once returned by a Model they are never mutated.
type Gram struct {
	// Key is the joined reading key, e.g. "he2-shi4".
	Key string

	// Value is the surface text proposed for Key.
	Value string

	// Score is a log-probability-like score; higher is better.
	Score float64
}

// String renders the gram as key:value:score for diagnostics.
func (g Gram) String() string {
	return fmt.Sprintf("%s:%s:%g", g.Key, g.Value, g.Score)
}

// Model is the language-model port consumed by the compositor.
//
// Implementations must be safe to call repeatedly with the same key and
// should return grams in a stable order; the compositor sorts them again by
// descending score using a stable sort, so order only matters among equal scores.
type Model interface {
	// UnigramsFor returns every gram known for key. An unknown key yields nil.
	UnigramsFor(key string) []Gram

	// HasUnigramsFor reports whether UnigramsFor(key) would be non-empty.
	HasUnigramsFor(key string) bool
}

// SortByScore sorts grams by descending score in place.
// The sort is stable: grams with equal scores keep their original order.
func SortByScore(grams []Gram) {
	sort.SliceStable(grams, func(i, j int) bool {
		return grams[i].Score > grams[j].Score
	})
}
