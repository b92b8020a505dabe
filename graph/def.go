package graph

import "fmt"

// DefKind tags the variant stored in a Def. Tagged variants over dynamic
// dispatch: Def is a closed sum and every consumer switches exhaustively on
// Kind rather than type-asserting an interface.
type DefKind uint8

const (
	DefMod DefKind = iota
	DefForeignMod
	DefStruct
	DefTy
	DefTrait
	DefAssociatedTy
	DefVariant
	DefFn
	DefStatic
	DefConst
	DefAssociatedConst
	DefMethod

	// DefUnrecognized names nothing this package understands. A crate store
	// constructs it for an external-item payload outside the vocabulary
	// above (a local, type param, primitive, label or Self type, or simply
	// a malformed descriptor) so that it can be represented long enough to
	// trigger the fatal internal-invariant check in handleExternalDef
	// instead of panicking earlier on an impossible zero value.
	DefUnrecognized
)

func (k DefKind) String() string {
	switch k {
	case DefMod:
		return "mod"
	case DefForeignMod:
		return "foreign mod"
	case DefStruct:
		return "struct"
	case DefTy:
		return "type"
	case DefTrait:
		return "trait"
	case DefAssociatedTy:
		return "associated type"
	case DefVariant:
		return "variant"
	case DefFn:
		return "fn"
	case DefStatic:
		return "static"
	case DefConst:
		return "const"
	case DefAssociatedConst:
		return "associated const"
	case DefMethod:
		return "method"
	case DefUnrecognized:
		return "unrecognized"
	default:
		return "other"
	}
}

// Def names what a binding refers to. It is a tagged union: only the fields
// relevant to Kind are meaningful, mirroring rustc's Def enum and this
// module's Module/NameBindings' preference for tagged structs over
// interfaces (§9 "Tagged variants over dynamic dispatch").
type Def struct {
	Kind DefKind

	ID DefId

	// IsEnum is set for DefTy when the type alias is in fact an enum.
	IsEnum bool

	// EnumID and VariantIsStruct are set for DefVariant: ID is the
	// variant's own def-id, EnumID is its enclosing enum's, and
	// VariantIsStruct marks a struct-bodied variant.
	EnumID          DefId
	VariantIsStruct bool

	// IsTupleCtor is set for DefFn when the function is in fact a
	// tuple-struct constructor.
	IsTupleCtor bool

	// Mutable is set for DefStatic.
	Mutable bool

	// AssocParent is set for DefAssociatedTy: the trait or impl the
	// associated type belongs to. ID is the associated type's own def-id.
	AssocParent DefId
}

func (d Def) String() string {
	return fmt.Sprintf("%s(%v)", d.Kind, d.ID)
}

// NewDefMod constructs a Def naming a module.
func NewDefMod(id DefId) Def { return Def{Kind: DefMod, ID: id} }

// NewDefForeignMod constructs a Def naming a foreign (`extern { .. }`) module.
func NewDefForeignMod(id DefId) Def { return Def{Kind: DefForeignMod, ID: id} }

// NewDefStruct constructs a Def naming a struct (or its tuple/unit ctor).
func NewDefStruct(id DefId) Def { return Def{Kind: DefStruct, ID: id} }

// NewDefTy constructs a Def naming a type: a type alias when isEnum is
// false, or an enum's own type binding when isEnum is true.
func NewDefTy(id DefId, isEnum bool) Def { return Def{Kind: DefTy, ID: id, IsEnum: isEnum} }

// NewDefTrait constructs a Def naming a trait.
func NewDefTrait(id DefId) Def { return Def{Kind: DefTrait, ID: id} }

// NewDefAssociatedTy constructs a Def naming an associated type item.
func NewDefAssociatedTy(parent, item DefId) Def {
	return Def{Kind: DefAssociatedTy, ID: item, AssocParent: parent}
}

// NewDefVariant constructs a Def naming an enum variant.
func NewDefVariant(enumID, variantID DefId, isStruct bool) Def {
	return Def{Kind: DefVariant, ID: variantID, EnumID: enumID, VariantIsStruct: isStruct}
}

// NewDefFn constructs a Def naming a function, or a tuple-struct constructor
// when isTupleCtor is true.
func NewDefFn(id DefId, isTupleCtor bool) Def {
	return Def{Kind: DefFn, ID: id, IsTupleCtor: isTupleCtor}
}

// NewDefStatic constructs a Def naming a static.
func NewDefStatic(id DefId, mutable bool) Def {
	return Def{Kind: DefStatic, ID: id, Mutable: mutable}
}

// NewDefConst constructs a Def naming a const.
func NewDefConst(id DefId) Def { return Def{Kind: DefConst, ID: id} }

// NewDefAssociatedConst constructs a Def naming a trait/impl associated const.
func NewDefAssociatedConst(id DefId) Def { return Def{Kind: DefAssociatedConst, ID: id} }

// NewDefMethod constructs a Def naming a trait/impl method.
func NewDefMethod(id DefId) Def { return Def{Kind: DefMethod, ID: id} }

// opensModule reports whether a Def of this kind may host a companion Module
// under a NameBindings' type slot (modules, traits, enums, and type
// aliases/structs that act as their own namespace).
func (k DefKind) opensModule() bool {
	switch k {
	case DefMod, DefForeignMod, DefStruct, DefTy, DefTrait:
		return true
	default:
		return false
	}
}
