package gram

import "sort"

// MapModel is an in-memory Model keyed by joined reading key.
//
// MapModel is not safe for concurrent mutation; build it first, then share it
// read-only (or wrap it in lm.Reloadable when the data must be swapped live).
type MapModel struct {
	grams map[string][]Gram
}

// NewMapModel creates a MapModel seeded from src. Each slice is copied and
// sorted by descending score; entries with empty keys or values are skipped.
// Complexity: O(N log N) over all grams in src.
func NewMapModel(src map[string][]Gram) *MapModel {
	m := &MapModel{grams: make(map[string][]Gram, len(src))}
	for key, list := range src {
		for _, g := range list {
			// The map key is authoritative; callers often omit Gram.Key.
			_ = m.Add(key, g.Value, g.Score)
		}
	}

	return m
}

// Add appends a gram for key, keeping the per-key slice sorted by score.
// Returns ErrEmptyKey or ErrEmptyValue for empty inputs.
func (m *MapModel) Add(key, value string, score float64) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}
	if m.grams == nil {
		m.grams = make(map[string][]Gram)
	}
	list := append(m.grams[key], Gram{Key: key, Value: value, Score: score})
	SortByScore(list)
	m.grams[key] = list

	return nil
}

// Merge copies every gram of other into m, after the grams m already holds.
func (m *MapModel) Merge(other *MapModel) {
	if other == nil {
		return
	}
	for _, key := range other.Keys() {
		for _, g := range other.grams[key] {
			_ = m.Add(key, g.Value, g.Score)
		}
	}
}

// UnigramsFor returns a copy of the grams stored for key.
func (m *MapModel) UnigramsFor(key string) []Gram {
	list := m.grams[key]
	if len(list) == 0 {
		return nil
	}
	out := make([]Gram, len(list))
	copy(out, list)

	return out
}

// HasUnigramsFor reports whether any gram is stored for key.
func (m *MapModel) HasUnigramsFor(key string) bool {
	return len(m.grams[key]) > 0
}

// Len returns the number of distinct keys.
func (m *MapModel) Len() int { return len(m.grams) }

// Keys returns all keys in sorted order.
func (m *MapModel) Keys() []string {
	keys := make([]string, 0, len(m.grams))
	for k := range m.grams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
