// Package fixture loads a toy ast.Crate from a TOML file, the same
// "real parsing is out of scope" stand-in cstore uses for external crates
// (graph/cstore's crateFile), so the CLI driver has something to feed
// graph.BuildReducedGraph without a real parser/lowering pass. Grounded on
// golang-dep's TOML-manifest convention (pelletier/go-toml).
package fixture

import (
	"os"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/lowerlang/resolvegraph/graph/ast"
)

type crateDoc struct {
	Items []itemDoc `toml:"items"`
}

type itemDoc struct {
	Kind   string `toml:"kind"`
	Name   string `toml:"name"`
	Public bool   `toml:"public"`

	// use
	Use *useDoc `toml:"use"`
	Prelude bool `toml:"prelude"`

	// extern crate: Name is the crate name.

	// mod / foreign_mod
	Items []itemDoc `toml:"items"`

	// static
	Mutable bool `toml:"mutable"`

	// struct
	Tuple  bool     `toml:"tuple"`
	Fields []string `toml:"fields"`

	// enum
	Variants []variantDoc `toml:"variants"`

	// trait
	TraitItems []traitItemDoc `toml:"trait_items"`
}

type useDoc struct {
	Kind   string       `toml:"kind"` // "simple", "glob", "list"
	Path   []string     `toml:"path"`
	Rename string       `toml:"rename"`
	List   []listItemDoc `toml:"list"`
}

type listItemDoc struct {
	Self   bool   `toml:"self"`
	Name   string `toml:"name"`
	Rename string `toml:"rename"`
}

type variantDoc struct {
	Name     string `toml:"name"`
	IsStruct bool   `toml:"is_struct"`
}

type traitItemDoc struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // "const", "method", "type"
}

// Load reads path and lowers it into an ast.Crate, assigning sequential
// NodeIds depth-first as a stand-in for a real parser's node numbering.
func Load(path string) (*ast.Crate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture: reading %q", path)
	}
	var doc crateDoc
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "fixture: decoding %q", path)
	}
	l := &loader{file: path}
	items := make([]*ast.Item, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, l.item(it))
	}
	return &ast.Crate{Items: items}, nil
}

type loader struct {
	file string
	next uint32
}

func (l *loader) id() ast.NodeId {
	l.next++
	return ast.NodeId(l.next)
}

func (l *loader) span() ast.Span {
	return ast.Span{File: l.file}
}

func (l *loader) vis(public bool) ast.Visibility {
	if public {
		return ast.Public
	}
	return ast.Private
}

func (l *loader) item(d itemDoc) *ast.Item {
	it := &ast.Item{
		ID:   l.id(),
		Name: d.Name,
		Span: l.span(),
		Vis:  l.vis(d.Public),
	}
	switch d.Kind {
	case "use":
		it.Kind = ast.ItemUse
		it.IsPreludeImport = d.Prelude
		it.ViewPath = l.viewPath(d.Use)
	case "extern_crate":
		it.Kind = ast.ItemExternCrate
	case "mod":
		it.Kind = ast.ItemMod
		for _, child := range d.Items {
			it.ModItems = append(it.ModItems, l.item(child))
		}
	case "foreign_mod":
		it.Kind = ast.ItemForeignMod
		for _, child := range d.Items {
			fi := &ast.ForeignItem{
				ID:      l.id(),
				Name:    child.Name,
				Span:    l.span(),
				Vis:     l.vis(child.Public),
				IsFn:    child.Kind == "fn",
				Mutable: child.Mutable,
			}
			it.ForeignItems = append(it.ForeignItems, fi)
		}
	case "static":
		it.Kind = ast.ItemStatic
		it.Mutable = d.Mutable
	case "const":
		it.Kind = ast.ItemConst
	case "fn":
		it.Kind = ast.ItemFn
	case "ty":
		it.Kind = ast.ItemTy
	case "enum":
		it.Kind = ast.ItemEnum
		for _, v := range d.Variants {
			it.Variants = append(it.Variants, &ast.Variant{
				Name:     v.Name,
				Span:     l.span(),
				IsStruct: v.IsStruct,
				DataID:   l.id(),
			})
		}
	case "struct":
		it.Kind = ast.ItemStruct
		if d.Tuple {
			it.StructShape = ast.StructTupleOrUnit
			it.CtorID = l.id()
		} else {
			it.StructShape = ast.StructWithFields
			for _, f := range d.Fields {
				it.Fields = append(it.Fields, ast.FieldDef{Name: f})
			}
		}
	case "trait":
		it.Kind = ast.ItemTrait
		for _, ti := range d.TraitItems {
			kind := ast.TraitMethod
			switch ti.Kind {
			case "const":
				kind = ast.TraitConst
			case "type":
				kind = ast.TraitType
			}
			it.TraitItems = append(it.TraitItems, &ast.TraitItem{
				ID:   l.id(),
				Name: ti.Name,
				Span: l.span(),
				Kind: kind,
			})
		}
	case "impl":
		it.Kind = ast.ItemImpl
	}
	return it
}

func (l *loader) viewPath(u *useDoc) *ast.ViewPath {
	if u == nil {
		return nil
	}
	vp := &ast.ViewPath{Span: l.span()}
	switch u.Kind {
	case "glob":
		vp.Kind = ast.ViewPathGlob
		vp.ModulePath = u.Path
	case "list":
		vp.Kind = ast.ViewPathList
		vp.ModulePath = u.Path
		for _, li := range u.List {
			kind := ast.PathListIdent
			if li.Self {
				kind = ast.PathListMod
			}
			item := ast.PathListItem{ID: l.id(), Span: l.span(), Kind: kind, Name: li.Name}
			if li.Rename != "" {
				r := li.Rename
				item.Rename = &r
			}
			vp.ListItems = append(vp.ListItems, item)
		}
	default:
		vp.Kind = ast.ViewPathSimple
		vp.FullPath = u.Path
		vp.Binding = u.Path[len(u.Path)-1]
		if u.Rename != "" {
			vp.Binding = u.Rename
		}
	}
	return vp
}
