package graph

import "github.com/lowerlang/resolvegraph/graph/ast"

// fakeAstMap is a minimal AstMap test double, local to this package's tests
// so builder/external tests don't need to pull in graph/astmap (which
// itself imports graph).
type fakeAstMap struct {
	defs map[ast.NodeId]DefId
	next Index
}

func newFakeAstMap() *fakeAstMap {
	return &fakeAstMap{defs: make(map[ast.NodeId]DefId), next: CrateRootIndex + 1}
}

func (m *fakeAstMap) LocalDefID(id ast.NodeId) DefId {
	if did, ok := m.defs[id]; ok {
		return did
	}
	did := DefId{Crate: LocalCrate, Index: m.next}
	m.next++
	m.defs[id] = did
	return did
}

func (m *fakeAstMap) ExpectItem(id ast.NodeId) *ast.Item {
	panic("fakeAstMap: ExpectItem not used by the builder")
}

var _ AstMap = (*fakeAstMap)(nil)
