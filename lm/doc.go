// Package lm provides language models for hosts embedding the compositor.
//
// What:
//
//   - ParseText / LoadFile / LoadFiles read plain-text dictionaries into a
//     gram.MapModel. One entry per line: "key value score"; '#' starts a
//     comment; blank lines are ignored.
//   - Merged layers user phrases over a base model.
//   - Reloadable lets a Watcher swap the dictionary while sessions keep
//     querying it.
//
// Errors:
//
//   - ErrMalformedLine (wrapped with the line number, and the path when
//     loading files) for lines that are not exactly three fields or whose
//     score is not a number.
package lm
