package graph

// ModuleKind tags what shape of module a Module node is.
type ModuleKind uint8

const (
	// NormalModuleKind is an ordinary `mod` item or a crate root.
	NormalModuleKind ModuleKind = iota
	// TypeModuleKind is the namespace companion of a struct or type alias.
	TypeModuleKind
	// EnumModuleKind is the namespace companion of an enum.
	EnumModuleKind
	// TraitModuleKind holds a trait's items.
	TraitModuleKind
	// AnonymousModuleKind is a block-induced module.
	AnonymousModuleKind
)

// ParentLink is the non-owning handle a Module uses to find its parent. It is
// a relation, never ownership: Module.children/anonymousChildren own their
// entries strongly, and parentLink only ever resolves back up the tree. This
// is the arena/weak-reference pattern §9 calls for ("Parent back-references");
// Go's garbage collector makes an explicit weak pointer unnecessary, but the
// discipline of "children own, parents only point" is enforced by never
// storing a *Module here directly outside ModuleParentLink/BlockParentLink.
type ParentLink struct {
	kind  parentLinkKind
	name  Name    // valid when kind == linkModule
	block NodeId  // valid when kind == linkBlock
	up    *Module // the parent; nil when kind == linkRoot
}

type parentLinkKind uint8

const (
	linkRoot parentLinkKind = iota
	linkModule
	linkBlock
)

// RootParentLink is the ParentLink of a crate's root module.
func RootParentLink() ParentLink { return ParentLink{kind: linkRoot} }

// ModuleParentLink builds the ParentLink of a module nested directly under
// another module, reached as parent.children[name].
func ModuleParentLink(parent *Module, name Name) ParentLink {
	return ParentLink{kind: linkModule, up: parent, name: name}
}

// BlockParentLink builds the ParentLink of an anonymous module induced by an
// item-bearing block.
func BlockParentLink(parent *Module, block NodeId) ParentLink {
	return ParentLink{kind: linkBlock, up: parent, block: block}
}

// Parent returns the linked parent module, or nil at the root.
func (pl ParentLink) Parent() *Module { return pl.up }

// IsRoot reports whether this link names the crate root.
func (pl ParentLink) IsRoot() bool { return pl.kind == linkRoot }

// Module is a node in the reduced graph. Mutating operations are confined to
// the single builder goroutine; fields are unexported and
// reached only through the methods below so that invariant (at most one
// type/value binding per name/namespace pair, glob/pub counters
// non-decreasing, populated monotone false->true) can't be broken from
// outside this package.
type Module struct {
	parentLink ParentLink
	defID      *DefId // nil when this module isn't backed by a definition
	kind       ModuleKind
	isPublic   bool
	isExternal bool
	populated  bool

	children            map[Name]*NameBindings
	anonymousChildren   map[NodeId]*Module
	externalModuleChildren map[Name]*Module

	imports           []*ImportDirective
	importResolutions map[Name]*ImportResolution

	globCount    int
	pubGlobCount int
	pubCount     int
}

// NewModule constructs an empty module. It is exported so that callers
// outside this package (e.g. the CLI driver) can construct the crate's root
// module before building the graph.
func NewModule(link ParentLink, defID *DefId, kind ModuleKind, isExternal, isPublic bool) *Module {
	return &Module{
		parentLink:             link,
		defID:                  defID,
		kind:                   kind,
		isExternal:             isExternal,
		isPublic:               isPublic,
		children:               make(map[Name]*NameBindings),
		anonymousChildren:      make(map[NodeId]*Module),
		externalModuleChildren: make(map[Name]*Module),
		importResolutions:      make(map[Name]*ImportResolution),
	}
}

func (m *Module) ParentLink() ParentLink { return m.parentLink }
func (m *Module) Kind() ModuleKind       { return m.kind }
func (m *Module) IsPublic() bool         { return m.isPublic }
func (m *Module) IsExternal() bool       { return m.isExternal }
func (m *Module) Populated() bool        { return m.populated }

// DefID returns the module's definition id and whether it has one.
func (m *Module) DefID() (DefId, bool) {
	if m.defID == nil {
		return DefId{}, false
	}
	return *m.defID, true
}

// SetDefID overwrites the module's definition id. Used when an external
// module is re-entered via a different path and its def-id needs updating in
// place rather than replacing the module (§4.6).
func (m *Module) SetDefID(id DefId) { m.defID = &id }

// SetPopulated marks an external module as populated. Monotone: callers
// never need to, and must not, set it back to false.
func (m *Module) SetPopulated() { m.populated = true }

// Child looks up a named child's binding cell without creating one.
func (m *Module) Child(name Name) (*NameBindings, bool) {
	nb, ok := m.children[name]
	return nb, ok
}

// Children returns the module's name->bindings map. Callers must treat it as
// read-only; mutation is routed through AddChild.
func (m *Module) Children() map[Name]*NameBindings { return m.children }

// AnonymousChild looks up the anonymous module keyed by a block id.
func (m *Module) AnonymousChild(block NodeId) (*Module, bool) {
	c, ok := m.anonymousChildren[block]
	return c, ok
}

// ExternalModuleChild looks up an `extern crate` child module by name.
func (m *Module) ExternalModuleChild(name Name) (*Module, bool) {
	c, ok := m.externalModuleChildren[name]
	return c, ok
}

// ExternalModuleChildren returns the module's name->external-module map.
func (m *Module) ExternalModuleChildren() map[Name]*Module { return m.externalModuleChildren }

// Imports returns the module's pending import directives, in the order they
// were recorded (source order).
func (m *Module) Imports() []*ImportDirective { return m.imports }

// ImportResolution looks up the bookkeeping cell for a single-import target.
func (m *Module) ImportResolution(target Name) (*ImportResolution, bool) {
	r, ok := m.importResolutions[target]
	return r, ok
}

// GlobCount, PubGlobCount and PubCount report the module's non-decreasing
// import-directive counters (§3, §8).
func (m *Module) GlobCount() int    { return m.globCount }
func (m *Module) PubGlobCount() int { return m.pubGlobCount }
func (m *Module) PubCount() int     { return m.pubCount }

func (m *Module) incPubCount() {
	m.pubCount++
}

func (m *Module) incGlobCount(isPublic bool) {
	m.globCount++
	if isPublic {
		m.pubGlobCount++
	}
}

// setAnonymousChild records a block-induced module, keyed by the block's
// node id. Callers check AnonymousChild first and only call this on a miss.
func (m *Module) setAnonymousChild(block NodeId, child *Module) {
	m.anonymousChildren[block] = child
}

// setExternalModuleChild records an `extern crate` child, reporting whether a
// sibling already occupied name (the collision build_reduced_graph's
// extern-crate lowering diagnoses).
func (m *Module) setExternalModuleChild(name Name, child *Module) (collided bool) {
	if _, exists := m.externalModuleChildren[name]; exists {
		return true
	}
	m.externalModuleChildren[name] = child
	return false
}

// addImport appends a new pending import directive in source order.
func (m *Module) addImport(d *ImportDirective) {
	m.imports = append(m.imports, d)
	if d.IsPublic {
		m.incPubCount()
	}
	if d.Subclass == SubclassGlob {
		m.incGlobCount(d.IsPublic)
	}
}

// recordSingleImport applies §4.7.4's ImportResolution bookkeeping for a
// Single-subclass directive targeting binding.
func (m *Module) recordSingleImport(binding Name, id NodeId, isPublic bool) {
	if r, ok := m.importResolutions[binding]; ok {
		r.OutstandingReferences++
		r.TypeID = id
		r.ValueID = id
		r.IsPublic = isPublic
		return
	}
	m.importResolutions[binding] = NewImportResolution(id, isPublic)
}
