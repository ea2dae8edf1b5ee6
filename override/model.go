package override

import (
	"container/list"
	"sync"
)

// observation is the resident record for one fingerprint.
type observation struct {
	fingerprint string
	count       int
	order       []string              // candidate values in first-seen order
	candidates  map[string]*Candidate // value → counts
}

func newObservation(fp string) *observation {
	return &observation{fingerprint: fp, candidates: make(map[string]*Candidate)}
}

func (o *observation) update(value string, ts float64) {
	o.count++
	c, ok := o.candidates[value]
	if !ok {
		c = &Candidate{Value: value}
		o.candidates[value] = c
		o.order = append(o.order, value)
	}
	c.Count++
	c.Timestamp = ts
}

// Model is the user override model.
type Model struct {
	mu      sync.Mutex
	options Options
	lru     *list.List               // front = most recently observed
	index   map[string]*list.Element // fingerprint → element holding *observation
}

// New creates an empty Model.
func New(opts ...Option) *Model {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Model{
		options: cfg,
		lru:     list.New(),
		index:   make(map[string]*list.Element, cfg.Capacity+1),
	}
}

// Capacity returns the maximum number of resident fingerprints.
func (m *Model) Capacity() int { return m.options.Capacity }

// Len returns the number of resident fingerprints.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lru.Len()
}

// Observe records that candidate was chosen in the context fingerprint at
// timestamp (seconds). Empty fingerprints or candidates are ignored.
// Complexity: O(1) amortized.
func (m *Model) Observe(fingerprint, candidate string, timestamp float64) {
	if fingerprint == "" || candidate == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// 1) Touch or create the entry at the head of the LRU list.
	var obs *observation
	if el, ok := m.index[fingerprint]; ok {
		m.lru.MoveToFront(el)
		obs = el.Value.(*observation)
	} else {
		obs = newObservation(fingerprint)
		m.index[fingerprint] = m.lru.PushFront(obs)
	}

	// 2) Count the event.
	obs.update(candidate, timestamp)

	// 3) Evict from the tail until within capacity.
	m.evict()
}

// evict drops least recently observed entries beyond capacity.
// Caller must hold m.mu.
func (m *Model) evict() {
	for m.lru.Len() > m.options.Capacity {
		tail := m.lru.Back()
		obs := tail.Value.(*observation)
		m.lru.Remove(tail)
		delete(m.index, obs.fingerprint)
		m.options.Logger.Debug("override entry evicted", "fingerprint", obs.fingerprint)
	}
}

// Suggest returns the best surviving candidate for fingerprint at timestamp.
// The second result is false when the fingerprint is unknown or every
// candidate decayed below DecayThreshold. Equal scores keep the candidate
// observed first.
func (m *Model) Suggest(fingerprint string, timestamp float64) (string, bool) {
	if fingerprint == "" {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.index[fingerprint]
	if !ok {
		return "", false
	}
	obs := el.Value.(*observation)

	best, bestScore := "", 0.0
	for _, value := range obs.order {
		c := obs.candidates[value]
		s := Score(c.Count, obs.count, c.Timestamp, timestamp, m.options.HalfLife)
		if s < DecayThreshold {
			continue
		}
		if best == "" || s > bestScore {
			best, bestScore = value, s
		}
	}

	return best, best != ""
}

// Contains reports whether fingerprint is resident, without touching it.
func (m *Model) Contains(fingerprint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.index[fingerprint]

	return ok
}

// Fingerprints returns resident fingerprints, most recently observed first.
func (m *Model) Fingerprints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, m.lru.Len())
	for el := m.lru.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*observation).fingerprint)
	}

	return out
}

// Reset drops every entry.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Init()
	m.index = make(map[string]*list.Element, m.options.Capacity+1)
}
