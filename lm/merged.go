package lm

import (
	"github.com/katalvlaran/gramwalk/gram"
)

// Merged layers user phrases over a base model. For a key present in both,
// user grams come first and are lifted to at least the base model's top score
// plus Boost, so a user phrase always ranks at or above the base candidates.
// Base grams repeating a user value are dropped.
type Merged struct {
	Base  gram.Model
	User  gram.Model
	Boost float64
}

// NewMerged returns a Merged model. A nil user model behaves as empty.
func NewMerged(base, user gram.Model, boost float64) *Merged {
	return &Merged{Base: base, User: user, Boost: boost}
}

// UnigramsFor implements gram.Model.
func (m *Merged) UnigramsFor(key string) []gram.Gram {
	base := m.Base.UnigramsFor(key)
	if m.User == nil {
		return base
	}
	user := m.User.UnigramsFor(key)
	if len(user) == 0 {
		return base
	}

	floor := user[0].Score
	if len(base) > 0 && base[0].Score > floor {
		floor = base[0].Score
	}

	out := make([]gram.Gram, 0, len(user)+len(base))
	seen := make(map[string]bool, len(user))
	for _, g := range user {
		if seen[g.Value] {
			continue
		}
		seen[g.Value] = true
		score := g.Score
		if score < floor {
			score = floor
		}
		out = append(out, gram.Gram{Key: key, Value: g.Value, Score: score + m.Boost})
	}
	for _, g := range base {
		if !seen[g.Value] {
			out = append(out, g)
		}
	}
	gram.SortByScore(out)

	return out
}

// HasUnigramsFor implements gram.Model.
func (m *Merged) HasUnigramsFor(key string) bool {
	if m.User != nil && m.User.HasUnigramsFor(key) {
		return true
	}

	return m.Base.HasUnigramsFor(key)
}
