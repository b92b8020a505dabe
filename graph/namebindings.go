package graph

// binding is one occupied slot (type or value) of a NameBindings cell.
type binding struct {
	def       Def
	modifiers DefModifiers
	span      Span
}

// NameBindings is the per-(module, name) cell holding up to one type
// binding and one value binding. It is shared: the same *NameBindings is
// reachable both through its owning module's children map and, once an
// import targeting it resolves (a later pass, out of scope here), through
// import-resolution bookkeeping — hence it lives behind a pointer with no
// single owner, mutated only by the builder.
type NameBindings struct {
	typeDef  *binding
	valueDef *binding
	module   *Module // non-nil when typeDef also opens a namespace
}

// NewNameBindings constructs an empty binding cell.
func NewNameBindings() *NameBindings {
	return &NameBindings{}
}

// DefineType sets the type slot, replacing any binding already there. The
// duplicate policy in AddChild reports a conflicting repeat under a
// forbid-mode, but does not stop the caller from overwriting the slot
// afterwards (the builder always makes progress, §4.4).
func (nb *NameBindings) DefineType(def Def, span Span, modifiers DefModifiers) {
	nb.typeDef = &binding{def: def, modifiers: modifiers, span: span}
}

// DefineValue sets the value slot.
func (nb *NameBindings) DefineValue(def Def, span Span, modifiers DefModifiers) {
	nb.valueDef = &binding{def: def, modifiers: modifiers, span: span}
}

// DefineModule attaches a fresh Module of the given kind to the type slot,
// replacing any module already attached. It does not touch the Def stored in
// typeDef; callers install that separately with DefineType.
func (nb *NameBindings) DefineModule(link ParentLink, defID *DefId, kind ModuleKind, isExternal, isPublic bool) *Module {
	m := NewModule(link, defID, kind, isExternal, isPublic)
	nb.module = m
	return m
}

// SetModuleKind installs a module cell under the existing type binding
// without replacing the Def already stored there -- used for types that are
// also namespaces (traits, enums, type aliases): the Def (e.g. DefTy,
// DefTrait) is written by DefineType, before or after this call; this only
// attaches the companion Module. If a module is already attached, it is kept
// and only its def-id is updated.
func (nb *NameBindings) SetModuleKind(link ParentLink, defID *DefId, kind ModuleKind, isExternal, isPublic bool) *Module {
	if nb.module != nil {
		if defID != nil {
			nb.module.SetDefID(*defID)
		}
		return nb.module
	}
	m := NewModule(link, defID, kind, isExternal, isPublic)
	nb.module = m
	return m
}

// DefinedInNamespace reports whether ns's slot is occupied.
func (nb *NameBindings) DefinedInNamespace(ns Namespace) bool {
	if ns == ValueNS {
		return nb.valueDef != nil
	}
	return nb.typeDef != nil
}

// DefForNamespace returns the Def stored in ns's slot, if any.
func (nb *NameBindings) DefForNamespace(ns Namespace) (Def, bool) {
	b := nb.slot(ns)
	if b == nil {
		return Def{}, false
	}
	return b.def, true
}

// ModifiersForNamespace returns the modifiers stored in ns's slot, if any.
func (nb *NameBindings) ModifiersForNamespace(ns Namespace) (DefModifiers, bool) {
	b := nb.slot(ns)
	if b == nil {
		return 0, false
	}
	return b.modifiers, true
}

// SpanForNamespace returns the span recorded for ns's slot, if any.
func (nb *NameBindings) SpanForNamespace(ns Namespace) (Span, bool) {
	b := nb.slot(ns)
	if b == nil {
		return Span{}, false
	}
	return b.span, true
}

// GetModule returns the companion module, or nil if this cell doesn't open
// one. Named to mirror the teacher corpus's GetModule/GetModuleIfAvailable
// pairing (a present-vs-must-be-present distinction used throughout
// build_reduced_graph.rs).
func (nb *NameBindings) GetModule() *Module { return nb.module }

// GetModuleIfAvailable is an alias of GetModule kept distinct so call sites
// can document that absence is an expected, handled case rather than a bug.
func (nb *NameBindings) GetModuleIfAvailable() *Module { return nb.module }

func (nb *NameBindings) slot(ns Namespace) *binding {
	if ns == ValueNS {
		return nb.valueDef
	}
	return nb.typeDef
}
