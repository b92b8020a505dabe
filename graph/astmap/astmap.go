// Package astmap implements the AstMap collaborator (§6): the bridge from
// parser node ids to both DefIds and the Item a node id names. This is
// ordinary bookkeeping over two maps with no shape a third-party library
// would improve on, so it is built on the standard library only (see
// DESIGN.md's grounding ledger for this justification).
package astmap

import (
	"fmt"

	"github.com/lowerlang/resolvegraph/graph"
	"github.com/lowerlang/resolvegraph/graph/ast"
)

// Map allocates local DefIds for AST node ids and recovers the Item a node id
// names, the two operations graph.AstMap requires.
type Map struct {
	defs  map[ast.NodeId]graph.DefId
	items map[ast.NodeId]*ast.Item
	next  graph.Index
}

// New constructs an empty Map. CrateRootIndex (0) is reserved for the crate
// root, so the first item allocated gets index 1.
func New() *Map {
	return &Map{
		defs:  make(map[ast.NodeId]graph.DefId),
		items: make(map[ast.NodeId]*ast.Item),
		next:  graph.CrateRootIndex + 1,
	}
}

// RegisterItem records id -> item for ExpectItem and allocates id's DefId if
// it doesn't have one yet.
func (m *Map) RegisterItem(id ast.NodeId, item *ast.Item) {
	m.items[id] = item
	m.allocate(id)
}

// LocalDefID returns the DefId allocated for id, allocating one on first use
// so that nodes which don't go through RegisterItem (foreign items, trait
// items, variants, struct ctors) still get one.
func (m *Map) LocalDefID(id ast.NodeId) graph.DefId {
	return m.allocate(id)
}

// ExpectItem returns the Item registered for id, panicking if none was
// registered -- mirroring the teacher's ast_map.expect_item, which is a
// documented "this must exist" lookup, not a fallible query.
func (m *Map) ExpectItem(id ast.NodeId) *ast.Item {
	item, ok := m.items[id]
	if !ok {
		panic(fmt.Sprintf("astmap: no item registered for node %d", id))
	}
	return item
}

func (m *Map) allocate(id ast.NodeId) graph.DefId {
	if did, ok := m.defs[id]; ok {
		return did
	}
	did := graph.DefId{Crate: graph.LocalCrate, Index: m.next}
	m.next++
	m.defs[id] = did
	return did
}
