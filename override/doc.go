// Package override implements the user override model: a bounded,
// recency-weighted cache that learns which candidate a user confirmed in a
// given local context and suggests it again later.
//
// What:
//
//   - Observe(fingerprint, candidate, ts) counts a confirmation of candidate
//     in the context identified by fingerprint.
//   - Suggest(fingerprint, ts) returns the candidate with the highest decayed
//     score, if any survives the decay threshold.
//   - Fingerprint(anterior, preceding, current) builds the context key from
//     three walked entries; missing entries use the empty pair.
//
// Scoring:
//
//	score = (eventCount / totalCount) × exp((ts − eventTs) × λ)
//	λ     = ln(0.5) / halfLife           (negative)
//
// A candidate whose score falls below DecayThreshold (1/2^20) is ignored.
// With the default half-life of 5400 seconds an observation loses half of its
// weight every 90 minutes.
//
// Memory:
//
//   - At most Capacity fingerprints are resident (default 500).
//   - Observe moves the touched fingerprint to the head of an LRU list; when
//     the list grows past Capacity the tail (least recently observed) is evicted.
//   - Suggest never reorders the list.
//
// Persistence:
//
//   - Snapshot / Restore exchange []Entry in least-recent-first order.
//   - WriteTo / ReadFrom use a line-oriented text form, one fingerprint per line.
//
// Concurrency:
//
//   - A Model is safe for concurrent use; every method takes a single mutex.
package override
