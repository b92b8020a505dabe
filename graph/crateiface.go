package graph

import "context"

// Visibility is an external item's declared visibility, as reported by the
// crate store (§6). Kept distinct from the local AST's own visibility
// representation since the crate store is a wholly separate collaborator.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// DefLikeKind tags a DefLike's variant (§4.6).
type DefLikeKind uint8

const (
	DlDef DefLikeKind = iota
	DlImpl
	DlField
)

// DefLike is what the crate store reports for each child of an external
// container item. Impls and fields are reported so implementations mirror
// the shape a real metadata decoder would produce, but the builder ignores
// both -- other subsystems (out of scope here) consume them.
type DefLike struct {
	Kind DefLikeKind
	Def  Def // valid when Kind == DlDef
}

// CrateStore is the oracle over previously compiled crates (§6). The builder
// never constructs one; it is supplied by the embedder (the CLI driver, or a
// test).
type CrateStore interface {
	FindExternModStmtCnum(node NodeId) (CrateNum, bool)
	EachChildOfItem(ctx context.Context, id DefId, fn func(DefLike, string, Visibility)) error
	EachTopLevelItemOfCrate(ctx context.Context, cnum CrateNum, fn func(DefLike, string, Visibility)) error
	GetTupleStructDefinitionIfCtor(id DefId) (DefId, bool)
	GetTraitItemDefIDs(id DefId) []DefId
	GetTraitName(itemID DefId) string
	GetStructFieldNames(id DefId) []string
}
