package walker

import (
	"fmt"
	"sort"
	"strings"
)

// Walk computes the maximum-score path from vertex 0 to vertex n over arcs.
//
// Preconditions and validation (in order):
//  1. n must be non-negative (ErrNegativeSize).
//  2. Every arc must satisfy From >= 0, Len >= 1, From+Len <= n (ErrBadArc).
//  3. Pinned arcs must not overlap each other (ErrPinConflict).
//
// Returns:
//
//   - Result with the chosen arcs in source→sink order and their summed score.
//   - ErrUnreachable (wrapped with the first unreached vertex) when no
//     complete path exists.
//
// Complexity:
//
//   - Time:  O(V + E log E + Σ k_v²·L), k_v = arcs into v
//   - Space: O(V + E)
func Walk(n int, arcs []Arc, opts ...Option) (Result, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate size; an empty lattice is a valid, empty walk.
	if n < 0 {
		return Result{}, ErrNegativeSize
	}
	if n == 0 {
		return Result{Vertices: 1}, nil
	}

	// 3) Validate arcs and apply the pin rule.
	kept, err := filterPinned(n, arcs)
	if err != nil {
		return Result{}, err
	}

	// 4) Run the forward pass.
	r := &runner{n: n, options: cfg}
	r.init(kept)
	r.process()

	// 5) Report the first vertex nobody reached when the sink is unreachable.
	if !r.reached[n] {
		return Result{}, fmt.Errorf("%w: no arc reaches vertex %d", ErrUnreachable, r.firstUnreached())
	}

	return r.result(), nil
}

// filterPinned validates arcs and drops every unpinned arc that intersects
// a pinned one. Input order is preserved among kept arcs.
func filterPinned(n int, arcs []Arc) ([]Arc, error) {
	var pins []Arc
	for _, a := range arcs {
		if a.From < 0 || a.Len < 1 || a.To() > n {
			return nil, fmt.Errorf("%w: from=%d len=%d size=%d", ErrBadArc, a.From, a.Len, n)
		}
		if !a.Pinned {
			continue
		}
		for _, p := range pins {
			if p.overlaps(a) {
				return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrPinConflict, p.From, p.To(), a.From, a.To())
			}
		}
		pins = append(pins, a)
	}
	if len(pins) == 0 {
		return arcs, nil
	}

	kept := make([]Arc, 0, len(arcs))
	for _, a := range arcs {
		if !a.Pinned && intersectsAny(a, pins) {
			continue
		}
		kept = append(kept, a)
	}

	return kept, nil
}

func intersectsAny(a Arc, pins []Arc) bool {
	for _, p := range pins {
		if p.overlaps(a) {
			return true
		}
	}

	return false
}

// runner holds the mutable state for a single walk.
type runner struct {
	n        int
	options  Options
	incoming [][]Arc   // incoming[v] = arcs ending at v, sorted by descending score
	best     []float64 // best[v] = best score of any path 0 → v
	prev     []Arc     // prev[v] = last arc of the best path to v
	reached  []bool    // reached[v] = some path 0 → v exists
}

// init buckets arcs by end vertex and sorts each bucket.
func (r *runner) init(arcs []Arc) {
	r.incoming = make([][]Arc, r.n+1)
	r.best = make([]float64, r.n+1)
	r.prev = make([]Arc, r.n+1)
	r.reached = make([]bool, r.n+1)

	// 1) Bucket in input order so stability preserves the caller's order.
	for _, a := range arcs {
		r.incoming[a.To()] = append(r.incoming[a.To()], a)
	}

	// 2) Stable sort by descending score (rule 3).
	for v := range r.incoming {
		bucket := r.incoming[v]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Score > bucket[j].Score
		})
	}

	// 3) The source is reached with score 0.
	r.reached[0] = true
}

// process visits vertices in topological (increasing) order.
func (r *runner) process() {
	for v := 1; v <= r.n; v++ {
		r.settle(v)
	}
}

// settle chooses the last arc of the best path to v.
//
// Every arc ending at v whose start is reached is a candidate path. A
// candidate is disqualified when another candidate spells the same text over
// their diverging segments with fewer arcs (rule 2). The best surviving
// candidate by score wins, earlier arcs winning ties (rule 3).
func (r *runner) settle(v int) {
	// 1) Arcs from unreached vertices cannot extend any path.
	var cands []Arc
	for _, a := range r.incoming[v] {
		if r.reached[a.From] {
			cands = append(cands, a)
		}
	}
	if len(cands) == 0 {
		return
	}

	// 2) Disqualify decompositions of an equivalent phrase.
	out := make([]bool, len(cands))
	for i := range cands {
		for j := range cands {
			if i != j && r.decomposes(cands[i], cands[j]) {
				out[i] = true
				break
			}
		}
	}

	// 3) Pick by score among the survivors.
	pick := r.pick(cands, out)
	if pick < 0 {
		// Disqualification went round in a circle; fall back to score alone.
		pick = r.pick(cands, nil)
	}
	a := cands[pick]
	r.reached[v] = true
	r.best[v] = r.best[a.From] + a.Score
	r.prev[v] = a
}

// pick returns the index of the highest-scoring candidate not marked out,
// or -1 when every candidate is out. A later candidate must be better by
// more than Epsilon to displace an earlier one.
func (r *runner) pick(cands []Arc, out []bool) int {
	pick, best := -1, 0.0
	for i, a := range cands {
		if out != nil && out[i] {
			continue
		}
		score := r.best[a.From] + a.Score
		if pick < 0 || score > best+r.options.Epsilon {
			pick, best = i, score
		}
	}

	return pick
}

// decomposes reports whether the path ending with a is a decomposition of
// the path ending with b: both are walked back to the last vertex they share,
// and the segments after it spell the same text with more arcs on a's side.
func (r *runner) decomposes(a, b Arc) bool {
	aSeg := []Arc{a}
	bSeg := []Arc{b}
	x, y := a.From, b.From
	for x != y {
		if x > y {
			aSeg = append(aSeg, r.prev[x])
			x = r.prev[x].From
		} else {
			bSeg = append(bSeg, r.prev[y])
			y = r.prev[y].From
		}
	}

	return len(aSeg) > len(bSeg) && segmentText(aSeg) == segmentText(bSeg)
}

// segmentText concatenates the text of arcs collected back-to-front.
func segmentText(seg []Arc) string {
	var sb strings.Builder
	for i := len(seg) - 1; i >= 0; i-- {
		sb.WriteString(seg[i].Text)
	}

	return sb.String()
}

func (r *runner) firstUnreached() int {
	for v := 1; v <= r.n; v++ {
		if !r.reached[v] {
			return v
		}
	}

	return r.n
}

// result rebuilds the path by following prev from the sink.
func (r *runner) result() Result {
	var path []Arc
	for v := r.n; v > 0; v = r.prev[v].From {
		path = append(path, r.prev[v])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	reached := 0
	for _, ok := range r.reached {
		if ok {
			reached++
		}
	}

	return Result{Arcs: path, Score: r.best[r.n], Vertices: reached}
}
