package ast

// ViewPath is the parsed form of a `use` item's path, tagged by Kind.
type ViewPath struct {
	Kind ViewPathKind
	Span Span

	// ViewPathSimple
	Binding  string // local name introduced; equals the last path segment unless renamed
	FullPath []string

	// ViewPathGlob / ViewPathList
	ModulePath []string

	// ViewPathList
	ListItems []PathListItem
}

// ViewPathKind tags a ViewPath's variant.
type ViewPathKind uint8

const (
	ViewPathSimple ViewPathKind = iota
	ViewPathGlob
	ViewPathList
)

// PathListItemKind tags a PathListItem's variant.
type PathListItemKind uint8

const (
	// PathListIdent is an ordinary list entry, `a::b::{c}` or `{c as d}`.
	PathListIdent PathListItemKind = iota
	// PathListMod is the `self` entry in a list, `a::b::{self}` or
	// `a::b::{self as d}`.
	PathListMod
)

// PathListItem is one entry of a `use a::b::{...}` list.
type PathListItem struct {
	ID     NodeId
	Span   Span
	Kind   PathListItemKind
	Name   string  // valid when Kind == PathListIdent
	Rename *string // nil when not renamed
}
