// Package gramwalk turns a sequence of phonetic readings into the
// best-scoring sequence of words, and learns from the user's corrections.
//
// What is gramwalk?
//
//	A small composition engine for phonetic input methods:
//		• Grid: every run of up to ten readings that the language model knows
//		  becomes a candidate node; edits rebuild only a window around the cursor
//		• Walk: a maximum-score path through the node DAG, with pinned choices
//		  and a preference for whole phrases over their decompositions
//		• Override model: remembers which candidate the user picked in a
//		  three-word context and suggests it again, with exponential decay
//
// Packages:
//
//	gram/           Gram record, Model port, in-memory MapModel
//	walker/         DAG maximum-score walk over abstract arcs
//	compositor/     readings, grid, nodes, overrides, walked path
//	override/       user override model: observe, suggest, LRU, persistence
//	overridestore/  SQLite and Redis stores for the override cache
//	lm/             text dictionaries, user phrases, hot reload
//	session/        host façade: compositor + override model + metrics
//	config/         YAML / TOML configuration
//	logging/        slog setup
//	metrics/        Prometheus collectors
//	cmd/gramwalk/   line-oriented demo
//
// Quick example:
//
//	readings  he2   shi4
//	nodes     何     是
//	          何時──────┘
//
//	何時 (-1.0) beats 何 + 是 (-5.5) and becomes the single walked entry.
package gramwalk
