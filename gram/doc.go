// Package gram defines the scored lexical record (Gram) and the language-model
// port (Model) the composition engine queries while building its grid.
//
// What:
//
//   - Gram is an immutable (Key, Value, Score) triple. Key is a joined reading
//     key such as "he2-shi4", Value is the surface text, Score is a
//     log-probability-like number supplied by the language model (higher wins).
//   - Model is the only capability the engine depends on: UnigramsFor(key)
//     and HasUnigramsFor(key). Hosts inject their own implementation.
//   - MapModel is a small in-memory Model, used by tests, examples and the lm
//     package loaders.
//
// Why:
//
//   - Keeping the port tiny lets the compositor stay free of any global
//     dictionary state; everything it reads arrives through the injected Model.
//
// Complexity:
//
//   - MapModel.UnigramsFor: O(1) lookup + O(k) copy, k = grams for the key.
//   - MapModel.Add:         O(k log k) to keep the per-key slice sorted.
//
// Errors:
//
//   - ErrEmptyKey: Add was called with an empty key.
//   - ErrEmptyValue: Add was called with an empty value.
package gram
