package graph

import (
	"testing"

	"github.com/lowerlang/resolvegraph/graph/ast"
)

func newTestResolver() (*Resolver, *recordingSink) {
	names := NewInterner()
	sink := &recordingSink{}
	am := newFakeAstMap()
	store := newFakeCrateStore()
	rootID := CrateRootDefId(LocalCrate)
	root := NewModule(RootParentLink(), &rootID, NormalModuleKind, false, true)
	return NewResolver(names, sink, am, store, root), sink
}

func TestBuildReducedGraphEmptyCrate(t *testing.T) {
	r, sink := newTestResolver()
	if err := BuildReducedGraph(r, &ast.Crate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.GraphRoot.Children()) != 0 {
		t.Fatalf("empty crate produced %d children, want 0", len(r.GraphRoot.Children()))
	}
	if len(sink.errors) != 0 {
		t.Fatalf("empty crate produced diagnostics: %v", sink.errors)
	}
}

func TestBuildReducedGraphModFnConst(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "m", Kind: ast.ItemMod, Vis: ast.Public, ModItems: []*ast.Item{
			{ID: 2, Name: "f", Kind: ast.ItemFn, Vis: ast.Public},
			{ID: 3, Name: "C", Kind: ast.ItemConst, Vis: ast.Private},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.errors)
	}

	mName := r.Names.Intern("m")
	modCell, ok := r.GraphRoot.Child(mName)
	if !ok {
		t.Fatal("module `m` was not bound at the root")
	}
	modDef, ok := modCell.DefForNamespace(TypeNS)
	if !ok || modDef.Kind != DefMod {
		t.Fatalf("type binding for `m` = %+v, ok=%v, want a DefMod", modDef, ok)
	}
	mod := modCell.GetModuleIfAvailable()
	if mod == nil {
		t.Fatal("`m` has no companion module")
	}

	fCell, ok := mod.Child(r.Names.Intern("f"))
	if !ok {
		t.Fatal("fn `f` was not bound inside `m`")
	}
	if def, ok := fCell.DefForNamespace(ValueNS); !ok || def.Kind != DefFn {
		t.Fatalf("value binding for `f` = %+v, ok=%v, want a DefFn", def, ok)
	}

	cCell, ok := mod.Child(r.Names.Intern("C"))
	if !ok {
		t.Fatal("const `C` was not bound inside `m`")
	}
	if def, ok := cCell.DefForNamespace(ValueNS); !ok || def.Kind != DefConst {
		t.Fatalf("value binding for `C` = %+v, ok=%v, want a DefConst", def, ok)
	}
}

func TestBuildReducedGraphModStructClashWarns(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "foo", Kind: ast.ItemStruct, Vis: ast.Public, StructShape: ast.StructWithFields,
			Fields: []ast.FieldDef{{Name: "x"}}},
		{ID: 2, Name: "foo", Kind: ast.ItemMod, Vis: ast.Public},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("module-vs-struct clash must warn, not error; got: %v", sink.errors)
	}
	if len(sink.warns) != 1 {
		t.Fatalf("got %d warnings, want 1", len(sink.warns))
	}

	cell, ok := r.GraphRoot.Child(r.Names.Intern("foo"))
	if !ok {
		t.Fatal("`foo` was not bound")
	}
	if def, ok := cell.DefForNamespace(TypeNS); !ok || def.Kind != DefMod {
		t.Fatalf("after the clash, type slot = %+v ok=%v; the later mod item should win (Overwrite)", def, ok)
	}
}

func TestBuildReducedGraphEnumVariantsDualNamespace(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "E", Kind: ast.ItemEnum, Vis: ast.Public, Variants: []*ast.Variant{
			{Name: "A", DataID: 2, IsStruct: false},
			{Name: "B", DataID: 3, IsStruct: true},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.errors)
	}

	enumCell, _ := r.GraphRoot.Child(r.Names.Intern("E"))
	enumMod := enumCell.GetModuleIfAvailable()
	if enumMod == nil {
		t.Fatal("enum `E` has no companion module")
	}
	if enumMod.Kind() != EnumModuleKind {
		t.Fatalf("enum companion module kind = %v, want EnumModuleKind", enumMod.Kind())
	}

	aCell, _ := enumMod.Child(r.Names.Intern("A"))
	if _, ok := aCell.DefForNamespace(TypeNS); !ok {
		t.Fatal("tuple/unit variant `A` must still bind the type namespace")
	}
	if _, ok := aCell.DefForNamespace(ValueNS); !ok {
		t.Fatal("tuple/unit variant `A` must bind the value namespace")
	}

	bCell, _ := enumMod.Child(r.Names.Intern("B"))
	if _, ok := bCell.DefForNamespace(TypeNS); !ok {
		t.Fatal("struct-bodied variant `B` must bind the type namespace")
	}
	if _, ok := bCell.DefForNamespace(ValueNS); !ok {
		t.Fatal("struct-bodied variant `B` must ALSO bind the value namespace (local lowering always binds both)")
	}
}

func TestBuildReducedGraphTraitItems(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "Tr", Kind: ast.ItemTrait, Vis: ast.Public, TraitItems: []*ast.TraitItem{
			{ID: 2, Name: "m", Kind: ast.TraitMethod},
			{ID: 3, Name: "K", Kind: ast.TraitConst},
			{ID: 4, Name: "Out", Kind: ast.TraitType},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.errors)
	}

	trCell, _ := r.GraphRoot.Child(r.Names.Intern("Tr"))
	trDef, ok := trCell.DefForNamespace(TypeNS)
	if !ok || trDef.Kind != DefTrait {
		t.Fatalf("type binding for `Tr` = %+v ok=%v, want DefTrait", trDef, ok)
	}
	traitMod := trCell.GetModuleIfAvailable()
	if traitMod == nil || traitMod.Kind() != TraitModuleKind {
		t.Fatal("trait `Tr` has no TraitModuleKind companion module")
	}

	mCell, _ := traitMod.Child(r.Names.Intern("m"))
	if mods, ok := mCell.ModifiersForNamespace(ValueNS); !ok || mods.Has(ModImportable) {
		t.Fatalf("trait method modifiers = %v ok=%v, want ModPublic only (never importable)", mods, ok)
	}

	if _, ok := r.TraitItem(r.Names.Intern("K"), trDef.ID); !ok {
		t.Fatal("trait const `K` was not recorded in the trait-item map")
	}
	if _, ok := r.TraitItem(r.Names.Intern("Out"), trDef.ID); !ok {
		t.Fatal("associated type `Out` was not recorded in the trait-item map")
	}
}

func TestBuildReducedGraphSelfInListImport(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Kind: ast.ItemUse, Vis: ast.Private, ViewPath: &ast.ViewPath{
			Kind:       ast.ViewPathList,
			ModulePath: []string{"a", "b"},
			ListItems: []ast.PathListItem{
				{ID: 2, Kind: ast.PathListMod},
				{ID: 3, Kind: ast.PathListIdent, Name: "c"},
			},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.errors)
	}
	if len(r.GraphRoot.Imports()) != 2 {
		t.Fatalf("got %d import directives, want 2 (one for `self` => `b`, one for `c`)", len(r.GraphRoot.Imports()))
	}

	bImport := r.GraphRoot.Imports()[0]
	if bImport.Binding != r.Names.Intern("b") || bImport.Source != r.Names.Intern("b") {
		t.Fatalf("`self` entry bound %q, want `b`", r.Names.String(bImport.Binding))
	}
	if len(bImport.ModulePath) != 1 || r.Names.String(bImport.ModulePath[0]) != "a" {
		t.Fatalf("`self` entry module path = %v, want [a]", bImport.ModulePath)
	}

	cImport := r.GraphRoot.Imports()[1]
	if cImport.Binding != r.Names.Intern("c") {
		t.Fatalf("second entry bound %q, want `c`", r.Names.String(cImport.Binding))
	}
	if len(cImport.ModulePath) != 2 {
		t.Fatalf("`c` entry module path = %v, want [a b]", cImport.ModulePath)
	}
}

func TestBuildReducedGraphSelfImportEmptyPrefixErrors(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Kind: ast.ItemUse, Vis: ast.Private, ViewPath: &ast.ViewPath{
			Kind:       ast.ViewPathList,
			ModulePath: nil,
			ListItems: []ast.PathListItem{
				{ID: 2, Kind: ast.PathListMod},
			},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.GraphRoot.Imports()) != 0 {
		t.Fatalf("got %d import directives, want 0 (the malformed self entry records none)", len(r.GraphRoot.Imports()))
	}
	if len(sink.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(sink.errors))
	}
	if _, ok := sink.errors[0].(*SelfImportOnlyInImportListWithNonEmptyPrefixError); !ok {
		t.Fatalf("error type = %T, want *SelfImportOnlyInImportListWithNonEmptyPrefixError", sink.errors[0])
	}
}

func TestBuildReducedGraphDuplicateSelfInListErrors(t *testing.T) {
	r, sink := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Kind: ast.ItemUse, Vis: ast.Private, ViewPath: &ast.ViewPath{
			Kind:       ast.ViewPathList,
			ModulePath: []string{"a"},
			ListItems: []ast.PathListItem{
				{ID: 2, Kind: ast.PathListMod},
				{ID: 3, Kind: ast.PathListMod},
			},
		}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.GraphRoot.Imports()) != 1 {
		t.Fatalf("got %d import directives, want 1 (only the first `self` entry should register)", len(r.GraphRoot.Imports()))
	}
	if len(sink.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(sink.errors))
	}
	if _, ok := sink.errors[0].(*SelfImportCanOnlyAppearOnceInTheListError); !ok {
		t.Fatalf("error type = %T, want *SelfImportCanOnlyAppearOnceInTheListError", sink.errors[0])
	}
}

func TestBuildReducedGraphZeroItemBlockCreatesNoAnonymousModule(t *testing.T) {
	r, _ := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "f", Kind: ast.ItemFn, Vis: ast.Private, Body: &ast.Block{ID: 2, Stmts: []ast.Stmt{
			{IsDecl: false},
		}}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.GraphRoot.AnonymousChild(NodeId(2)); ok {
		t.Fatal("a block with no item declarations must not induce an anonymous module")
	}
}

func TestBuildReducedGraphOneItemBlockCreatesExactlyOneAnonymousModule(t *testing.T) {
	r, _ := newTestResolver()
	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "f", Kind: ast.ItemFn, Vis: ast.Private, Body: &ast.Block{ID: 2, Stmts: []ast.Stmt{
			{IsDecl: true, Item: &ast.Item{ID: 3, Name: "Inner", Kind: ast.ItemConst, Vis: ast.Private}},
		}}},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blockMod, ok := r.GraphRoot.AnonymousChild(NodeId(2))
	if !ok {
		t.Fatal("a block declaring one item should induce exactly one anonymous module")
	}
	if _, ok := blockMod.Child(r.Names.Intern("Inner")); !ok {
		t.Fatal("the block's declared item was not bound inside its anonymous module")
	}
}

func TestBuildReducedGraphExternCrate(t *testing.T) {
	r, sink := newTestResolver()
	store := r.CStore.(*fakeCrateStore)
	const extCrate CrateNum = 7
	store.externCrates[NodeId(1)] = extCrate
	extRoot := CrateRootDefId(extCrate)
	fnID := DefId{Crate: extCrate, Index: 1}
	store.topLevel[extCrate] = []fakeChild{
		{dl: DefLike{Kind: DlDef, Def: NewDefFn(fnID, false)}, name: "helper", vis: Public},
	}

	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "dep", Kind: ast.ItemExternCrate, Vis: ast.Private},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.errors)
	}

	extMod, ok := r.GraphRoot.ExternalModuleChild(r.Names.Intern("dep"))
	if !ok {
		t.Fatal("`extern crate dep` did not register an external module child")
	}
	if !extMod.Populated() {
		t.Fatal("extern crate module should be populated eagerly by lowerExternCrate")
	}
	if got, _ := extMod.DefID(); got != extRoot {
		t.Fatalf("extern module def-id = %+v, want the crate's root def-id %+v", got, extRoot)
	}

	helperCell, ok := extMod.Child(r.Names.Intern("helper"))
	if !ok {
		t.Fatal("`helper` was not bound inside the extern crate module")
	}
	if def, ok := helperCell.DefForNamespace(ValueNS); !ok || def.Kind != DefFn {
		t.Fatalf("value binding for `helper` = %+v ok=%v, want DefFn", def, ok)
	}
}

func TestBuildReducedGraphExternCrateNameCollision(t *testing.T) {
	r, sink := newTestResolver()
	store := r.CStore.(*fakeCrateStore)
	store.externCrates[NodeId(1)] = CrateNum(1)
	store.externCrates[NodeId(2)] = CrateNum(2)

	krate := &ast.Crate{Items: []*ast.Item{
		{ID: 1, Name: "dep", Kind: ast.ItemExternCrate, Vis: ast.Private},
		{ID: 2, Name: "dep", Kind: ast.ItemExternCrate, Vis: ast.Private},
	}}
	if err := BuildReducedGraph(r, krate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(sink.errors))
	}
	if _, ok := sink.errors[0].(*ExternCrateNameCollisionError); !ok {
		t.Fatalf("error type = %T, want *ExternCrateNameCollisionError", sink.errors[0])
	}
}
