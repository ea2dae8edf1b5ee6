// Package compositor owns the reading sequence and the candidate grid of one
// composition session, and turns them into the best walked path.
//
// What:
//
//   - The grid holds one Span per reading position. A Span keeps at most one
//     Node per spanning length 1..MaxSpan; a Node at (p, q) covers readings
//     p..p+q-1 and carries every Gram the language model returned for their
//     joined key, sorted by descending score.
//   - InsertReading / DropReading / RemoveHeadReadings edit the sequence at the
//     cursor, prune nodes that would cross the edit point and rebuild only a
//     window of MaxSpan positions around the cursor.
//   - Walk hands the grid to the walker package as a DAG and maps the chosen
//     arcs back to GramInPath entries.
//   - FixNodeSelectedCandidate pins a candidate; OverrideNodeScore floats it
//     with a custom score. Both reset every other node overlapping the chosen one.
//
// Addressing:
//
//	Nodes are addressed by (position, length) and never point back into their
//	Span or the Compositor. GramInPath entries carry clones, so a returned path
//	stays valid after further edits.
//
// Complexity:
//
//   - Each edit: O(MaxSpan²) model queries at most (window rebuild).
//   - Walk:      O(V + E log E), E ≤ MaxSpan·V.
//
// Errors:
//
//   - Mutators report user-input edge cases (boundary cursor, empty buffer,
//     unknown reading) as false, never as errors.
//   - Walk returns ErrUnreachable when some position has no covering node,
//     which means the language model lacks single-reading coverage.
//
// Thread safety:
//
//	A Compositor is meant for one session driven by one event loop and is not
//	safe for concurrent use.
package compositor
