package graph

import "testing"

type recordingSink struct {
	errors []ResolutionError
	warns  []string
	notes  []string
}

func (s *recordingSink) ResolveError(sp Span, err ResolutionError) { s.errors = append(s.errors, err) }
func (s *recordingSink) SpanWarn(sp Span, msg string)               { s.warns = append(s.warns, msg) }
func (s *recordingSink) SpanNote(sp Span, msg string)               { s.notes = append(s.notes, msg) }

func TestAddChildCreatesEmptyCellOnFirstUse(t *testing.T) {
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")

	nb := AddChild(sink, m, name, ForbidDuplicateModules, Span{}, names)
	if nb == nil {
		t.Fatal("AddChild returned nil on first use")
	}
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors on first use: %v", sink.errors)
	}
	if got, _ := m.Child(name); got != nb {
		t.Fatal("AddChild did not install the cell under parent.children")
	}
}

func TestAddChildForbidDuplicateModules(t *testing.T) {
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")
	defID := DefId{Crate: LocalCrate, Index: 1}

	nb := AddChild(sink, m, name, ForbidDuplicateModules, Span{}, names)
	nb.DefineModule(ModuleParentLink(m, name), &defID, NormalModuleKind, false, false)
	nb.DefineType(NewDefMod(defID), Span{}, 0)

	// A second mod with the same name conflicts: child already has a module.
	nb2 := AddChild(sink, m, name, ForbidDuplicateModules, Span{}, names)
	if nb2 != nb {
		t.Fatal("AddChild created a second cell instead of reusing the existing one")
	}
	if len(sink.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(sink.errors))
	}
	dup, ok := sink.errors[0].(*DuplicateDefinitionError)
	if !ok {
		t.Fatalf("error type = %T, want *DuplicateDefinitionError", sink.errors[0])
	}
	if dup.Namespace != TypeNS {
		t.Fatalf("Namespace = %v, want TypeNS", dup.Namespace)
	}
}

func TestAddChildForbidDuplicateModulesIgnoresNonModuleType(t *testing.T) {
	// A struct's type binding (no companion module) must not trip
	// ForbidDuplicateModules: only an existing *module* conflicts.
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")
	defID := DefId{Crate: LocalCrate, Index: 1}

	nb := AddChild(sink, m, name, ForbidDuplicateTypesAndModules, Span{}, names)
	nb.DefineType(NewDefStruct(defID), Span{}, 0)

	AddChild(sink, m, name, ForbidDuplicateModules, Span{}, names)
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errors)
	}
}

func TestAddChildForbidDuplicateTypesAndValuesValueWinsReport(t *testing.T) {
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")
	defID := DefId{Crate: LocalCrate, Index: 1}

	nb := AddChild(sink, m, name, ForbidDuplicateTypesAndValues, Span{}, names)
	nb.DefineType(NewDefStruct(defID), Span{}, 0)
	nb.DefineValue(NewDefStruct(defID), Span{}, 0)

	AddChild(sink, m, name, ForbidDuplicateTypesAndValues, Span{}, names)
	if len(sink.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(sink.errors))
	}
	dup := sink.errors[0].(*DuplicateDefinitionError)
	if dup.Namespace != ValueNS {
		t.Fatalf("Namespace = %v, want ValueNS (value conflict should win the report)", dup.Namespace)
	}
}

func TestAddChildForbidDuplicateTypesAndValuesExemptsDefMod(t *testing.T) {
	// A DefMod type binding does not itself count as a type conflict under
	// ForbidDuplicateTypesAndValues (the struct-vs-module asymmetry).
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")
	defID := DefId{Crate: LocalCrate, Index: 1}

	nb := AddChild(sink, m, name, ForbidDuplicateModules, Span{}, names)
	nb.DefineType(NewDefMod(defID), Span{}, 0)

	AddChild(sink, m, name, ForbidDuplicateTypesAndValues, Span{}, names)
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errors)
	}
}

func TestAddChildOverwriteNeverConflicts(t *testing.T) {
	names := NewInterner()
	sink := &recordingSink{}
	m := NewModule(RootParentLink(), nil, NormalModuleKind, false, false)
	name := names.Intern("a")
	defID := DefId{Crate: 1, Index: 1}

	nb := AddChild(sink, m, name, Overwrite, Span{}, names)
	nb.DefineType(NewDefStruct(defID), Span{}, 0)

	nb2 := AddChild(sink, m, name, Overwrite, Span{}, names)
	if nb2 != nb {
		t.Fatal("Overwrite should reuse the existing cell")
	}
	if len(sink.errors) != 0 {
		t.Fatalf("Overwrite mode must never report a conflict, got: %v", sink.errors)
	}
}
