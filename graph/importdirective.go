package graph

// Shadowable reports whether an import directive is permitted to shadow an
// existing binding. Only the prelude import is ShadowableAlways; every
// other import is ShadowableNever (§3).
type Shadowable uint8

const (
	ShadowableNever Shadowable = iota
	ShadowableAlways
)

// ImportSubclassKind tags an ImportDirective's subclass.
type ImportSubclassKind uint8

const (
	// SubclassSingle names one binding: `use a::b::c;` or `use a::b::{c as d};`.
	SubclassSingle ImportSubclassKind = iota
	// SubclassGlob is `use a::b::*;`.
	SubclassGlob
)

// ImportDirective records intent to bring names into scope; nothing about it
// is resolved by this package. A later, out-of-scope pass consumes
// Module.Imports() to do that.
type ImportDirective struct {
	ModulePath []Name
	Subclass   ImportSubclassKind

	// Binding and Source are valid when Subclass == SubclassSingle: Binding
	// is the local name the import introduces, Source is the name as it
	// exists in ModulePath (equal to Binding unless the import renames,
	// `use a::b as c` => Binding=c, Source=b).
	Binding Name
	Source  Name

	Span       Span
	NodeID     NodeId
	IsPublic   bool
	Shadowable Shadowable
}

// ImportResolution is the per-target bookkeeping record for single imports,
// reference-counted across every directive that targets the same name in
// the same module (§4.7, §8). Overwrite-on-repeat of TypeID/ValueID/IsPublic
// is deliberate last-writer-wins bookkeeping preserved verbatim from the
// original per §9's "open questions to preserve as such" note; the resolver
// (out of scope) reconciles it.
type ImportResolution struct {
	OutstandingReferences uint32
	TypeID                NodeId
	ValueID               NodeId
	IsPublic              bool
}

// NewImportResolution constructs the bookkeeping record for a single
// import's first sighting.
func NewImportResolution(id NodeId, isPublic bool) *ImportResolution {
	return &ImportResolution{
		OutstandingReferences: 1,
		TypeID:                id,
		ValueID:               id,
		IsPublic:              isPublic,
	}
}
