// Package cstore provides a toy, file-backed implementation of the
// graph.CrateStore oracle (§6): the interface over already-compiled external
// crates that the builder queries to lazily populate external modules. Real
// embedders supply their own graph.CrateStore (backed by a real compiler's
// metadata decoder); this package exists so the builder and its tests have a
// concrete, exercisable one without a real compiler behind it.
package cstore

import "github.com/lowerlang/resolvegraph/graph"

// Aliases kept for readability at call sites that only deal with this
// package's toy store; the canonical definitions live on graph, since
// graph.CrateStore is the interface the builder actually consumes.
type (
	Visibility  = graph.Visibility
	DefLike     = graph.DefLike
	DefLikeKind = graph.DefLikeKind
)

const (
	Private = graph.Private
	Public  = graph.Public
	DlDef   = graph.DlDef
	DlImpl  = graph.DlImpl
	DlField = graph.DlField
)
