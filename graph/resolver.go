package graph

import "github.com/lowerlang/resolvegraph/graph/ast"

// AstMap bridges parser node ids to def-ids and the Item a node id names
// (§6). graph/astmap.Map is the concrete implementation; callers may supply
// their own for a real parser/lowering pass.
type AstMap interface {
	LocalDefID(id ast.NodeId) DefId
	ExpectItem(id ast.NodeId) *ast.Item
}

// Resolver bundles the collaborators build_reduced_graph needs (§6): the name
// interner, the diagnostic sink, the ast-to-def bridge, the external-crate
// oracle, the crate's root module, and the mutable side tables the builder
// and a later (out-of-scope) resolver both consult.
type Resolver struct {
	Names     *Interner
	Sink      DiagSink
	AstMap    AstMap
	CStore    CrateStore
	GraphRoot *Module

	// UnresolvedImports is incremented by every build_import_directive call
	// (§4.7.2); it is shared bookkeeping with the out-of-scope resolver.
	UnresolvedImports uint32

	structs         map[DefId][]string
	traitItemMap    map[traitItemKey]DefId
	externalExports map[DefId]bool
}

type traitItemKey struct {
	Name  Name
	Trait DefId
}

// NewResolver constructs a Resolver rooted at graphRoot, a fresh (unpopulated)
// Normal module the caller has already created via NewModule(RootParentLink(), ...).
func NewResolver(names *Interner, sink DiagSink, astMap AstMap, cstore CrateStore, graphRoot *Module) *Resolver {
	return &Resolver{
		Names:           names,
		Sink:            sink,
		AstMap:          astMap,
		CStore:          cstore,
		GraphRoot:       graphRoot,
		structs:         make(map[DefId][]string),
		traitItemMap:    make(map[traitItemKey]DefId),
		externalExports: make(map[DefId]bool),
	}
}

// RecordStructFields records a struct's named fields (or an empty slice for
// a unit struct), for both locally and externally defined structs.
func (r *Resolver) RecordStructFields(id DefId, fields []string) {
	r.structs[id] = fields
}

// StructFields returns the fields recorded for id, if any.
func (r *Resolver) StructFields(id DefId) ([]string, bool) {
	f, ok := r.structs[id]
	return f, ok
}

// RecordTraitItem records (name, trait) -> item_def_id.
func (r *Resolver) RecordTraitItem(name Name, trait DefId, item DefId) {
	r.traitItemMap[traitItemKey{Name: name, Trait: trait}] = item
}

// TraitItem looks up the def-id recorded for (name, trait).
func (r *Resolver) TraitItem(name Name, trait DefId) (DefId, bool) {
	id, ok := r.traitItemMap[traitItemKey{Name: name, Trait: trait}]
	return id, ok
}

// MarkExported adds id to the external-exports set (§4.6 "Exportedness").
func (r *Resolver) MarkExported(id DefId) {
	r.externalExports[id] = true
}

// IsExported reports whether id is in the external-exports set.
func (r *Resolver) IsExported(id DefId) bool {
	return r.externalExports[id]
}
