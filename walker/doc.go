// Package walker computes the maximum-score path through a composition
// lattice: a directed acyclic graph whose vertices are the boundaries
// 0..n between reading tokens and whose arcs are candidate nodes.
//
// Overview:
//
//   - Vertex 0 is the source, vertex n the sink. An Arc{From, Len} is a
//     directed edge From → From+Len weighted by the candidate's score.
//   - Because every arc points forward, vertex order is already a topological
//     order, so a single forward dynamic-programming pass is enough:
//     best[0] = 0, best[v] = max over arcs (u→v) of best[u] + score.
//     This is the same relaxation Dijkstra performs, without the heap.
//   - The path is rebuilt by following predecessor arcs from n back to 0.
//
// Selection rules (applied in this order):
//
//  1. Pinned arcs. An arc marked Pinned removes every other arc whose range
//     intersects it, so any complete path is forced through the pinned arc.
//  2. Longest equivalent phrase. When two competing paths to the same vertex
//     spell identical text since their last shared vertex, the one using
//     more arcs is disqualified whatever its score. The remaining candidates,
//     including paths with different text, then compete on score alone.
//  3. Stable ties. Arcs into a vertex are stably sorted by descending score
//     and a later candidate only wins when strictly better, so equal inputs
//     always yield the same path.
//
// Complexity:
//
//   - Time:  O(V + E log E) for bucketing and sorting, plus O(Σ k_v²·L) for
//     rule 2, where k_v is the number of arcs into v and L the path length
//     walked back to a shared vertex. A composition grid has one arc per
//     length into each vertex, so k_v stays small.
//   - Space: O(V + E).
//
// Errors:
//
//   - ErrNegativeSize: n < 0.
//   - ErrBadArc:       an arc has From < 0, Len < 1 or ends beyond n.
//   - ErrPinConflict:  two pinned arcs overlap.
//   - ErrUnreachable:  the sink cannot be reached; wrapped with the first
//     vertex no arc reaches.
//
// An empty lattice (n == 0) yields an empty Result and no error.
package walker
