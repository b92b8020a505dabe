package graph

import "context"

// PopulateModuleIfNecessary lazily materializes an external module's children
// from the crate store (§4.6), exactly as build_reduced_graph does the first
// time it needs to recurse into one. It is idempotent: calling it again on an
// already-populated module, or on a module with no def-id at all, is a no-op.
// It returns an InternalInvariantViolation for a descendant def the
// vocabulary in §3 doesn't recognize, or an error reported by r.CStore while
// enumerating children; in both cases the module is left unpopulated.
func PopulateModuleIfNecessary(r *Resolver, m *Module) error {
	if m.Populated() {
		return nil
	}
	defID, ok := m.DefID()
	if !ok {
		m.SetPopulated()
		return nil
	}

	var firstErr error
	cb := func(dl DefLike, name string, vis Visibility) {
		if firstErr != nil {
			return
		}
		firstErr = handleExternalChild(r, m, defID, dl, name, vis)
	}

	var err error
	if defID.IsCrateRoot() {
		err = r.CStore.EachTopLevelItemOfCrate(context.Background(), defID.Crate, cb)
	} else {
		err = r.CStore.EachChildOfItem(context.Background(), defID, cb)
	}
	if err != nil {
		return err
	}
	if firstErr != nil {
		return firstErr
	}
	m.SetPopulated()
	return nil
}

// handleExternalChild allocates a binding for one reported child of an
// external module, recursing transparently through foreign-mod defs (which
// have no name of their own at this level, §4.6).
func handleExternalChild(r *Resolver, parentModule *Module, parentDefID DefId, dl DefLike, name string, vis Visibility) error {
	if dl.Kind != DlDef {
		return nil // Impl and Field children are for other subsystems.
	}
	def := dl.Def

	if def.Kind == DefForeignMod {
		var firstErr error
		cb := func(dl2 DefLike, name2 string, vis2 Visibility) {
			if firstErr != nil {
				return
			}
			firstErr = handleExternalChild(r, parentModule, parentDefID, dl2, name2, vis2)
		}
		if err := r.CStore.EachChildOfItem(context.Background(), def.ID, cb); err != nil {
			return err
		}
		return firstErr
	}

	nameID := r.Names.Intern(name)
	nb := AddChild(r.Sink, parentModule, nameID, Overwrite, Span{}, r.Names)
	isExported := vis == Public && (parentDefID.IsCrateRoot() || r.IsExported(parentDefID))
	if isExported {
		r.MarkExported(def.ID)
	}
	return handleExternalDef(r, nb, parentModule, def, nameID, vis, isExported)
}

// ensureCompanionModule attaches (or re-targets) the module cell a
// module-producing external def needs under nb's type slot (§4.6
// "Module-producing defs").
func ensureCompanionModule(nb *NameBindings, parentModule *Module, name Name, def Def, kind ModuleKind, isPublic bool) *Module {
	if existing := nb.GetModuleIfAvailable(); existing != nil {
		existing.SetDefID(def.ID)
		return existing
	}
	id := def.ID
	return nb.DefineModule(ModuleParentLink(parentModule, name), &id, kind, true, isPublic)
}

// bindExternalValue binds def into nb's value slot per §4.6's
// Fn/Static/Const/AssociatedConst/Method bullet: PUBLIC follows vis;
// IMPORTABLE is the existing value binding's bit if one is already there
// (impl methods set theirs first when reached through a different
// child-enumeration order), true by default otherwise, ANDed with the
// containing module being Normal.
func bindExternalValue(nb *NameBindings, parentModule *Module, def Def, isPublic bool) {
	mods := DefModifiers(0)
	if isPublic {
		mods |= ModPublic
	}
	baseImportable := true
	if existing, ok := nb.ModifiersForNamespace(ValueNS); ok {
		baseImportable = existing.Has(ModImportable)
	}
	if baseImportable && parentModule.Kind() == NormalModuleKind {
		mods |= ModImportable
	}
	nb.DefineValue(def, Span{}, mods)
}

// handleExternalDef is §4.6's handle_external_def: it maps one reported
// external Def onto the binding(s) nb should hold.
func handleExternalDef(r *Resolver, nb *NameBindings, parentModule *Module, def Def, name Name, vis Visibility, isExported bool) error {
	isPublic := vis == Public
	mods := DefModifiers(0)
	if isPublic {
		mods |= ModPublic
	}
	if parentModule.Kind() == NormalModuleKind {
		mods |= ModImportable
	}

	switch def.Kind {
	case DefMod, DefForeignMod:
		ensureCompanionModule(nb, parentModule, name, def, NormalModuleKind, isPublic)
		nb.DefineType(def, Span{}, mods)

	case DefTy:
		kind := TypeModuleKind
		if def.IsEnum {
			kind = EnumModuleKind
		}
		ensureCompanionModule(nb, parentModule, name, def, kind, isPublic)
		tyMods := mods
		if parentModule.Kind() != NormalModuleKind {
			tyMods &^= ModImportable
		}
		nb.DefineType(def, Span{}, tyMods)

	case DefAssociatedTy:
		tyMods := mods
		if parentModule.Kind() != NormalModuleKind {
			tyMods &^= ModImportable
		}
		nb.DefineType(def, Span{}, tyMods)

	case DefStruct:
		ensureCompanionModule(nb, parentModule, name, def, TypeModuleKind, isPublic)
		nb.DefineType(def, Span{}, mods)
		fields := r.CStore.GetStructFieldNames(def.ID)
		r.RecordStructFields(def.ID, fields)
		if len(fields) == 0 {
			nb.DefineValue(def, Span{}, mods)
		}

	case DefVariant:
		if def.VariantIsStruct {
			nb.DefineType(def, Span{}, ModPublic|ModImportable)
			r.RecordStructFields(def.ID, nil)
		} else {
			nb.DefineValue(def, Span{}, ModPublic|ModImportable)
		}

	case DefFn:
		if def.IsTupleCtor {
			if sid, ok := r.CStore.GetTupleStructDefinitionIfCtor(def.ID); ok {
				def = NewDefStruct(sid)
			}
		}
		bindExternalValue(nb, parentModule, def, isPublic)

	case DefStatic, DefConst, DefAssociatedConst, DefMethod:
		bindExternalValue(nb, parentModule, def, isPublic)

	case DefTrait:
		for _, itemID := range r.CStore.GetTraitItemDefIDs(def.ID) {
			itemName := r.Names.Intern(r.CStore.GetTraitName(itemID))
			r.RecordTraitItem(itemName, def.ID, itemID)
			if isExported {
				r.MarkExported(itemID)
			}
		}
		ensureCompanionModule(nb, parentModule, name, def, TraitModuleKind, isPublic)
		nb.DefineType(def, Span{}, mods)

	default:
		return &InternalInvariantViolation{Def: def}
	}
	return nil
}
