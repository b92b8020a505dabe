package graph

import "github.com/lowerlang/resolvegraph/graph/ast"

// BuildReducedGraph is the builder's public entry point (§6): it walks krate
// depth-first, starting at r.GraphRoot as the initial current parent, and
// mutates the graph and Resolver side tables in place. The only errors it can
// return come from eagerly populating an external module reached through an
// `extern crate` item: an InternalInvariantViolation, or an error reported by
// r.CStore. Either one stops the walk; every other diagnosable condition goes
// to r.Sink and never halts the walk (§7).
func BuildReducedGraph(r *Resolver, krate *ast.Crate) error {
	b := &graphBuilder{r: r}
	b.visitItems(krate.Items, r.GraphRoot)
	return b.err
}

// graphBuilder carries the one piece of state the visitor methods thread by
// value everywhere else (the current parent module, passed as an argument):
// the first fatal error encountered, if any. Per §9 "Visitor with a mutable
// current parent", recursion itself threads the parent; nothing here is
// shared mutable aliasing between a builder and a separate visitor object.
type graphBuilder struct {
	r   *Resolver
	err error
}

func (b *graphBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func toSpan(s ast.Span) Span   { return Span{Start: s.Start, End: s.End, File: s.File} }
func toNodeID(id ast.NodeId) NodeId { return NodeId(id) }
func toPublic(v ast.Visibility) bool { return v == ast.Public }

func internPath(names *Interner, segs []string) []Name {
	out := make([]Name, 0, len(segs))
	for _, s := range segs {
		out = append(out, names.Intern(s))
	}
	return out
}

func containsReservedSegment(segs []string) bool {
	for _, s := range segs {
		if s == "self" || s == "mod" {
			return true
		}
	}
	return false
}

// modifiersForContainer computes the default modifiers for a binding made
// directly under parent: PUBLIC follows the item's own visibility; IMPORTABLE
// is set only when parent is a Normal module (§3 "items bound inside
// non-normal containing modules always have IMPORTABLE cleared").
func modifiersForContainer(parent *Module, isPublic bool) DefModifiers {
	var m DefModifiers
	if isPublic {
		m |= ModPublic
	}
	if parent.Kind() == NormalModuleKind {
		m |= ModImportable
	}
	return m
}

func (b *graphBuilder) visitItems(items []*ast.Item, parent *Module) {
	for _, it := range items {
		b.visitItem(it, parent)
	}
}

func (b *graphBuilder) visitItem(it *ast.Item, parent *Module) {
	if b.err != nil {
		return
	}
	switch it.Kind {
	case ast.ItemUse:
		b.lowerUse(it, parent)
	case ast.ItemExternCrate:
		b.lowerExternCrate(it, parent)
	case ast.ItemMod:
		b.lowerMod(it, parent)
	case ast.ItemForeignMod:
		b.lowerForeignMod(it, parent)
	case ast.ItemStatic:
		b.lowerStatic(it, parent)
	case ast.ItemConst:
		b.lowerConst(it, parent)
	case ast.ItemFn:
		b.lowerFn(it, parent)
	case ast.ItemTy:
		b.lowerTy(it, parent)
	case ast.ItemEnum:
		b.lowerEnum(it, parent)
	case ast.ItemStruct:
		b.lowerStruct(it, parent)
	case ast.ItemTrait:
		b.lowerTrait(it, parent)
	case ast.ItemImpl, ast.ItemDefaultImpl:
		// No bindings; impls are not recursed into for graph-building (§4.5).
	}
	if it.Kind == ast.ItemFn && it.Body != nil {
		b.visitBlock(it.Body, parent)
	}
}

// visitBlock induces an anonymous module only when the block declares at
// least one item (§4.5 "Blocks"); a block with no item-declarations never
// creates one, and a block visited twice (e.g. re-entrant traversal) reuses
// the same anonymous module instead of creating a sibling.
func (b *graphBuilder) visitBlock(blk *ast.Block, parent *Module) {
	hasDecl := false
	for _, s := range blk.Stmts {
		if s.IsDecl {
			hasDecl = true
			break
		}
	}
	if !hasDecl {
		return
	}
	blockID := toNodeID(blk.ID)
	target, ok := parent.AnonymousChild(blockID)
	if !ok {
		target = NewModule(BlockParentLink(parent, blockID), nil, AnonymousModuleKind, false, false)
		parent.setAnonymousChild(blockID, target)
	}
	for _, s := range blk.Stmts {
		if s.IsDecl {
			b.visitItem(s.Item, target)
		}
	}
}

func (b *graphBuilder) lowerUse(it *ast.Item, parent *Module) {
	vp := it.ViewPath
	if vp == nil {
		return
	}
	shadow := ShadowableNever
	if it.IsPreludeImport {
		shadow = ShadowableAlways
	}
	isPublic := toPublic(it.Vis)
	sp := toSpan(it.Span)
	nodeID := toNodeID(it.ID)

	switch vp.Kind {
	case ast.ViewPathSimple:
		if containsReservedSegment(vp.FullPath) {
			b.r.Sink.ResolveError(sp, &SelfImportsOnlyAllowedWithinError{})
			return
		}
		path := internPath(b.r.Names, vp.FullPath[:len(vp.FullPath)-1])
		sourceSeg := vp.FullPath[len(vp.FullPath)-1]
		bindingName := vp.Binding
		if bindingName == "" {
			bindingName = sourceSeg
		}
		b.buildImportDirective(parent, path, SubclassSingle,
			b.r.Names.Intern(bindingName), b.r.Names.Intern(sourceSeg), sp, nodeID, isPublic, shadow)

	case ast.ViewPathGlob:
		path := internPath(b.r.Names, vp.ModulePath)
		b.buildImportDirective(parent, path, SubclassGlob, NoName, NoName, sp, nodeID, isPublic, shadow)

	case ast.ViewPathList:
		path := internPath(b.r.Names, vp.ModulePath)
		selfSeen := false
		for _, item := range vp.ListItems {
			itemSpan := toSpan(item.Span)
			itemNode := toNodeID(item.ID)
			if item.Kind == ast.PathListMod {
				if selfSeen {
					b.r.Sink.ResolveError(itemSpan, &SelfImportCanOnlyAppearOnceInTheListError{})
					continue
				}
				selfSeen = true
				if len(vp.ModulePath) == 0 {
					b.r.Sink.ResolveError(itemSpan, &SelfImportOnlyInImportListWithNonEmptyPrefixError{})
					continue
				}
				lastSeg := vp.ModulePath[len(vp.ModulePath)-1]
				bindingName := lastSeg
				if item.Rename != nil {
					bindingName = *item.Rename
				}
				b.buildImportDirective(parent, path[:len(path)-1], SubclassSingle,
					b.r.Names.Intern(bindingName), b.r.Names.Intern(lastSeg), itemSpan, itemNode, isPublic, shadow)
				continue
			}
			bindingName := item.Name
			if item.Rename != nil {
				bindingName = *item.Rename
			}
			b.buildImportDirective(parent, path, SubclassSingle,
				b.r.Names.Intern(bindingName), b.r.Names.Intern(item.Name), itemSpan, itemNode, isPublic, shadow)
		}
	}
}

// buildImportDirective is §4.7's entry point: it is a method on the builder
// (rather than the Resolver) purely so call sites above read uniformly, but
// it only touches r and the target module.
func (b *graphBuilder) buildImportDirective(module *Module, path []Name, subclass ImportSubclassKind, binding, source Name, sp Span, nodeID NodeId, isPublic bool, shadow Shadowable) {
	dir := &ImportDirective{
		ModulePath: path,
		Subclass:   subclass,
		Binding:    binding,
		Source:     source,
		Span:       sp,
		NodeID:     nodeID,
		IsPublic:   isPublic,
		Shadowable: shadow,
	}
	module.addImport(dir)
	b.r.UnresolvedImports++
	if subclass == SubclassSingle {
		module.recordSingleImport(binding, nodeID, isPublic)
	}
}

func (b *graphBuilder) lowerExternCrate(it *ast.Item, parent *Module) {
	nodeID := toNodeID(it.ID)
	cnum, ok := b.r.CStore.FindExternModStmtCnum(nodeID)
	if !ok {
		return
	}
	name := b.r.Names.Intern(it.Name)
	if _, exists := parent.ExternalModuleChild(name); exists {
		b.r.Sink.ResolveError(toSpan(it.Span), &ExternCrateNameCollisionError{Name: it.Name})
		return
	}
	defID := CrateRootDefId(cnum)
	mod := NewModule(ModuleParentLink(parent, name), &defID, NormalModuleKind, true, toPublic(it.Vis))
	parent.setExternalModuleChild(name, mod)
	b.r.MarkExported(defID)
	if err := PopulateModuleIfNecessary(b.r, mod); err != nil {
		b.fail(err)
	}
}

func (b *graphBuilder) lowerMod(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)

	mode, warn := moduleStructMode(parent, name, ForbidDuplicateModules, true)
	nb := AddChild(b.r.Sink, parent, name, mode, sp, b.r.Names)
	if warn {
		b.r.Sink.SpanWarn(sp, "struct `"+it.Name+"` is named the same as this module; this clash is discouraged and will be disallowed in a future release")
	}

	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	mod := nb.GetModuleIfAvailable()
	if mod == nil {
		mod = nb.DefineModule(ModuleParentLink(parent, name), &defID, NormalModuleKind, false, toPublic(it.Vis))
	}
	nb.DefineType(NewDefMod(defID), sp, modifiersForContainer(parent, toPublic(it.Vis)))
	b.visitItems(it.ModItems, mod)
}

// moduleStructMode implements §4.4's module-vs-struct exemption for the two
// item kinds it names: when the item being processed is the opposite kind of
// whatever type binding already occupies name, downgrade from the item's
// normal forbid-mode to Overwrite (so add_child reports no conflict) and ask
// the caller to emit the deprecation warning instead.
func moduleStructMode(parent *Module, name Name, strict DuplicateCheckingMode, processingMod bool) (DuplicateCheckingMode, bool) {
	existing, ok := parent.Child(name)
	if !ok {
		return strict, false
	}
	def, ok := existing.DefForNamespace(TypeNS)
	if !ok {
		return strict, false
	}
	if processingMod && def.Kind == DefStruct {
		return Overwrite, true
	}
	if !processingMod && def.Kind == DefMod {
		return Overwrite, true
	}
	return strict, false
}

func (b *graphBuilder) lowerForeignMod(it *ast.Item, parent *Module) {
	for _, fi := range it.ForeignItems {
		name := b.r.Names.Intern(fi.Name)
		sp := toSpan(fi.Span)
		nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateValues, sp, b.r.Names)
		defID := b.r.AstMap.LocalDefID(toNodeID(fi.ID))
		var def Def
		if fi.IsFn {
			def = NewDefFn(defID, false)
		} else {
			def = NewDefStatic(defID, fi.Mutable)
		}
		nb.DefineValue(def, sp, modifiersForContainer(parent, toPublic(fi.Vis)))
	}
}

func (b *graphBuilder) lowerStatic(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateValues, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineValue(NewDefStatic(defID, it.Mutable), sp, modifiersForContainer(parent, toPublic(it.Vis)))
}

func (b *graphBuilder) lowerConst(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateValues, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineValue(NewDefConst(defID), sp, modifiersForContainer(parent, toPublic(it.Vis)))
}

func (b *graphBuilder) lowerFn(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateValues, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineValue(NewDefFn(defID, false), sp, modifiersForContainer(parent, toPublic(it.Vis)))
}

func (b *graphBuilder) lowerTy(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateTypesAndModules, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineType(NewDefTy(defID, false), sp, modifiersForContainer(parent, toPublic(it.Vis)))
	nb.SetModuleKind(ModuleParentLink(parent, name), &defID, TypeModuleKind, false, toPublic(it.Vis))
}

func (b *graphBuilder) lowerEnum(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateTypesAndModules, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineType(NewDefTy(defID, true), sp, modifiersForContainer(parent, toPublic(it.Vis)))
	mod := nb.SetModuleKind(ModuleParentLink(parent, name), &defID, EnumModuleKind, false, toPublic(it.Vis))
	for _, v := range it.Variants {
		b.lowerVariant(v, defID, mod)
	}
}

func (b *graphBuilder) lowerVariant(v *ast.Variant, enumID DefId, mod *Module) {
	name := b.r.Names.Intern(v.Name)
	sp := toSpan(v.Span)
	nb := AddChild(b.r.Sink, mod, name, ForbidDuplicateTypesAndValues, sp, b.r.Names)
	variantID := b.r.AstMap.LocalDefID(toNodeID(v.DataID))
	def := NewDefVariant(enumID, variantID, v.IsStruct)
	mods := ModPublic | ModImportable
	nb.DefineType(def, sp, mods)
	nb.DefineValue(def, sp, mods)
	if v.IsStruct {
		b.r.RecordStructFields(variantID, nil)
	}
}

func (b *graphBuilder) lowerStruct(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)

	var strict DuplicateCheckingMode
	if it.StructShape == ast.StructWithFields {
		strict = ForbidDuplicateTypesAndModules
	} else {
		strict = ForbidDuplicateTypesAndValues
	}
	mode, warn := moduleStructMode(parent, name, strict, false)
	nb := AddChild(b.r.Sink, parent, name, mode, sp, b.r.Names)
	if warn {
		b.r.Sink.SpanWarn(sp, "module `"+it.Name+"` is named the same as this struct; this clash is discouraged and will be disallowed in a future release")
	}

	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	nb.DefineType(NewDefStruct(defID), sp, modifiersForContainer(parent, toPublic(it.Vis)))

	fieldNames := make([]string, 0, len(it.Fields))
	for _, f := range it.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	b.r.RecordStructFields(defID, fieldNames)

	if it.StructShape == ast.StructTupleOrUnit {
		ctorID := b.r.AstMap.LocalDefID(toNodeID(it.CtorID))
		nb.DefineValue(NewDefStruct(ctorID), sp, modifiersForContainer(parent, toPublic(it.Vis)))
	}
}

func (b *graphBuilder) lowerTrait(it *ast.Item, parent *Module) {
	name := b.r.Names.Intern(it.Name)
	sp := toSpan(it.Span)
	nb := AddChild(b.r.Sink, parent, name, ForbidDuplicateTypesAndModules, sp, b.r.Names)
	defID := b.r.AstMap.LocalDefID(toNodeID(it.ID))
	mod := nb.SetModuleKind(ModuleParentLink(parent, name), &defID, TraitModuleKind, false, toPublic(it.Vis))
	for _, ti := range it.TraitItems {
		b.lowerTraitItem(ti, defID, mod)
	}
	nb.DefineType(NewDefTrait(defID), sp, modifiersForContainer(parent, toPublic(it.Vis)))
}

func (b *graphBuilder) lowerTraitItem(ti *ast.TraitItem, traitID DefId, mod *Module) {
	name := b.r.Names.Intern(ti.Name)
	sp := toSpan(ti.Span)
	nb := AddChild(b.r.Sink, mod, name, ForbidDuplicateTypesAndValues, sp, b.r.Names)
	itemID := b.r.AstMap.LocalDefID(toNodeID(ti.ID))
	const mods = ModPublic // trait items are never importable (§3)
	switch ti.Kind {
	case ast.TraitConst:
		nb.DefineValue(NewDefAssociatedConst(itemID), sp, mods)
	case ast.TraitMethod:
		nb.DefineValue(NewDefMethod(itemID), sp, mods)
	case ast.TraitType:
		nb.DefineType(NewDefAssociatedTy(traitID, itemID), sp, mods)
	}
	b.r.RecordTraitItem(name, traitID, itemID)
}
