// Package ast is a concrete stand-in for the parser/AST-lowering pass that
// spec.md places out of scope (§1): a minimal, already-lowered syntax tree
// for one compilation unit. The builder (package graph) consumes values of
// this shape; nothing here resolves anything or knows about bindings.
//
// As with the teacher's own ItemKind/ViewPath modeling, this is a closed sum
// expressed as tagged structs rather than an interface hierarchy (§9).
package ast

// NodeId mirrors graph.NodeId; kept as its own type here so this package has
// no dependency on graph, matching the "parser produces the input tree"
// out-of-scope boundary in spec.md §1.
type NodeId uint32

// Span is an opaque source-location handle, threaded through to graph.Span
// by the builder.
type Span struct {
	Start, End uint32
	File       string
}

// Visibility is an item's declared visibility.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// Crate is the root of a compilation unit's lowered syntax tree.
type Crate struct {
	Items []*Item
}

// ItemKind tags an Item's variant.
type ItemKind uint8

const (
	ItemUse ItemKind = iota
	ItemExternCrate
	ItemMod
	ItemForeignMod
	ItemStatic
	ItemConst
	ItemFn
	ItemTy
	ItemEnum
	ItemStruct
	ItemTrait
	ItemImpl
	ItemDefaultImpl
)

// StructShape distinguishes a struct-with-named-fields from a tuple or unit
// struct, which additionally binds a value-namespace constructor.
type StructShape uint8

const (
	StructWithFields StructShape = iota
	StructTupleOrUnit
)

// FieldDef is one field of a struct-with-fields or a tuple struct.
type FieldDef struct {
	// Name is empty for a tuple struct's positional fields.
	Name string
}

// Item is one top-level or nested declaration. Only the fields relevant to
// Kind are meaningful.
type Item struct {
	ID   NodeId
	Name string
	Span Span
	Vis  Visibility
	Kind ItemKind

	// ItemUse
	ViewPath *ViewPath
	// IsPreludeImport marks a `use` item carrying the prelude attribute,
	// the only case where the resulting directive is shadowable.
	IsPreludeImport bool

	// ItemMod
	ModItems []*Item

	// ItemForeignMod
	ForeignItems []*ForeignItem

	// ItemStatic
	Mutable bool

	// ItemEnum
	Variants []*Variant

	// ItemStruct
	StructShape StructShape
	Fields      []FieldDef
	CtorID      NodeId // valid when StructShape == StructTupleOrUnit

	// ItemTrait
	TraitItems []*TraitItem

	// ItemFn: a function may itself contain a block with nested item
	// declarations.
	Body *Block
}

// Variant is one arm of an enum.
type Variant struct {
	Name     string
	Span     Span
	IsStruct bool   // struct-bodied variant, e.g. `V { x: u8 }`
	DataID   NodeId // the variant's own def-id-bearing node
}

// ForeignItem is a declaration inside `extern { .. }`.
type ForeignItem struct {
	ID      NodeId
	Name    string
	Span    Span
	Vis     Visibility
	IsFn    bool // false => static
	Mutable bool // meaningful when !IsFn
}

// TraitItemKind tags a TraitItem's variant.
type TraitItemKind uint8

const (
	TraitConst TraitItemKind = iota
	TraitMethod
	TraitType
)

// TraitItem is one declaration inside a trait body.
type TraitItem struct {
	ID   NodeId
	Name string
	Span Span
	Kind TraitItemKind
}

// Block is a braced statement sequence that may induce an anonymous module
// if any top-level statement is an item declaration.
type Block struct {
	ID    NodeId
	Stmts []Stmt
}

// Stmt is one statement in a block. Only Item is meaningful when IsDecl.
type Stmt struct {
	IsDecl bool
	Item   *Item
}
