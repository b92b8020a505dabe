package cstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver"
	bolt "github.com/boltdb/bolt"
	"github.com/karrick/godirwalk"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sdboyer/constext"
	shutil "github.com/termie/go-shutil"

	"github.com/lowerlang/resolvegraph/graph"
)

// crateFile is the on-disk TOML shape of a compiled crate's metadata, the
// toy stand-in for whatever serialized format a real compiler's metadata
// encoder would emit. One file describes one crate's entire item tree.
type crateFile struct {
	Name    string     `toml:"name"`
	Version string     `toml:"version"`
	Items   []itemDesc `toml:"items"`
}

type itemDesc struct {
	Name        string        `toml:"name"`
	Kind        string        `toml:"kind"`
	Public      bool          `toml:"public"`
	Mutable     bool          `toml:"mutable"`
	IsEnum      bool          `toml:"is_enum"`
	IsTupleCtor bool          `toml:"is_tuple_ctor"`
	Fields      []string      `toml:"fields"`
	Variants    []variantDesc `toml:"variants"`
	TraitItems  []traitDesc   `toml:"trait_items"`
	Children    []itemDesc    `toml:"children"`
}

type variantDesc struct {
	Name     string `toml:"name"`
	IsStruct bool   `toml:"is_struct"`
}

type traitDesc struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // "const", "method", "type"
}

// CrateMeta is what the file store records about a loaded crate beyond the
// graph.CrateStore interface.
type CrateMeta struct {
	Name    string
	Num     graph.CrateNum
	Version *semver.Version // nil if the descriptor didn't declare one
}

type childEntry struct {
	def  DefLike
	name string
	vis  Visibility
}

// FileCrateStore is a toy Store backed by a directory of per-crate TOML
// descriptors, discovered with karrick/godirwalk. The raw descriptor bytes
// can be cached across runs in a boltdb/bolt database so that a later run
// doesn't re-walk the directory; the TOML is decoded again on every load.
// Grounded on golang-dep's toml.go (TOML manifests) and
// internal/gps/source_cache_bolt.go (bolt-backed decode cache).
type FileCrateStore struct {
	root string
	db   *bolt.DB

	mu        sync.Mutex
	byName    map[string]graph.CrateNum
	crates    map[graph.CrateNum]CrateMeta
	rootKids  map[graph.CrateNum][]childEntry
	children  map[graph.DefId][]childEntry
	ctors     map[graph.DefId]graph.DefId   // tuple-ctor def-id -> struct def-id
	traitDefs map[graph.DefId][]graph.DefId // trait def-id -> item def-ids
	traitName map[graph.DefId]string        // item def-id -> item name
	fields    map[graph.DefId][]string
	externs   map[graph.NodeId]graph.CrateNum

	nextNum   graph.CrateNum
	nextIndex map[graph.CrateNum]graph.Index
}

var cacheBucket = []byte("crate-descriptors")

// NewFileCrateStore opens a toy crate store rooted at dir, each crate a
// "<name>.toml" file anywhere in the tree under dir. cachePath, if non-empty,
// is a boltdb file memoizing raw descriptor bytes between runs; pass "" to
// disable caching (every load walks dir and re-reads the file).
func NewFileCrateStore(dir, cachePath string) (*FileCrateStore, error) {
	s := &FileCrateStore{
		root:      dir,
		byName:    make(map[string]graph.CrateNum),
		crates:    make(map[graph.CrateNum]CrateMeta),
		rootKids:  make(map[graph.CrateNum][]childEntry),
		children:  make(map[graph.DefId][]childEntry),
		ctors:     make(map[graph.DefId]graph.DefId),
		traitDefs: make(map[graph.DefId][]graph.DefId),
		traitName: make(map[graph.DefId]string),
		fields:    make(map[graph.DefId][]string),
		externs:   make(map[graph.NodeId]graph.CrateNum),
		nextNum:   1, // 0 is LocalCrate
		nextIndex: make(map[graph.CrateNum]graph.Index),
	}
	if cachePath != "" {
		db, err := bolt.Open(cachePath, 0o600, nil)
		if err != nil {
			return nil, errors.Wrap(err, "cstore: opening descriptor cache")
		}
		if err := db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(cacheBucket)
			return err
		}); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "cstore: preparing descriptor cache bucket")
		}
		s.db = db
	}
	return s, nil
}

// Close releases the store's cache database, if any.
func (s *FileCrateStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RegisterExternCrate records that NodeId node's `extern crate <name>;`
// statement refers to the crate loaded from "<name>.toml", loading it (from
// cache if present) on first reference. This stands in for a real compiler
// resolving a crate name against its search path.
func (s *FileCrateStore) RegisterExternCrate(ctx context.Context, node graph.NodeId, name string) (graph.CrateNum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cnum, ok := s.byName[name]
	if !ok {
		var err error
		cnum, err = s.load(ctx, name)
		if err != nil {
			return 0, err
		}
	}
	s.externs[node] = cnum
	return cnum, nil
}

func (s *FileCrateStore) FindExternModStmtCnum(node graph.NodeId) (graph.CrateNum, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cnum, ok := s.externs[node]
	return cnum, ok
}

func (s *FileCrateStore) load(ctx context.Context, name string) (graph.CrateNum, error) {
	raw, ok, err := s.fromCache(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		raw, err = s.readDescriptor(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := s.toCache(name, raw); err != nil {
			return 0, err
		}
	}

	var cf crateFile
	if err := toml.Unmarshal(raw, &cf); err != nil {
		return 0, errors.Wrapf(err, "cstore: decoding descriptor for %q", name)
	}

	cnum := s.nextNum
	s.nextNum++
	s.nextIndex[cnum] = graph.CrateRootIndex + 1

	var ver *semver.Version
	if cf.Version != "" {
		ver, err = semver.NewVersion(cf.Version)
		if err != nil {
			return 0, errors.Wrapf(err, "cstore: parsing version for %q", name)
		}
	}
	s.byName[name] = cnum
	s.crates[cnum] = CrateMeta{Name: name, Num: cnum, Version: ver}

	var kids []childEntry
	for _, it := range cf.Items {
		kids = append(kids, s.lowerItem(cnum, it))
	}
	s.rootKids[cnum] = kids
	return cnum, nil
}

// lowerItem assigns def-ids depth-first over a crateFile's item tree and
// records every side table a Store consumer (handleExternalDef, §4.6) needs.
func (s *FileCrateStore) lowerItem(cnum graph.CrateNum, it itemDesc) childEntry {
	id := s.allocate(cnum)
	def := descToDef(id, it)

	if it.Kind == "trait" {
		var itemIDs []graph.DefId
		for _, ti := range it.TraitItems {
			tid := s.allocate(cnum)
			itemIDs = append(itemIDs, tid)
			s.traitName[tid] = ti.Name
		}
		s.traitDefs[id] = itemIDs
	}

	if it.Kind == "struct" {
		s.fields[id] = it.Fields
		if it.IsTupleCtor {
			// The toy descriptor format has no separate constructor
			// item: a tuple/unit struct's ctor is recorded under the
			// struct item itself, its def-id doubling as both.
			s.ctors[id] = id
		}
	}

	if (it.Kind == "mod" || it.Kind == "foreignmod") && len(it.Children) > 0 {
		var kids []childEntry
		for _, child := range it.Children {
			kids = append(kids, s.lowerItem(cnum, child))
		}
		s.children[id] = kids
	}

	vis := Private
	if it.Public {
		vis = Public
	}
	return childEntry{def: DefLike{Kind: DlDef, Def: def}, name: it.Name, vis: vis}
}

func descToDef(id graph.DefId, it itemDesc) graph.Def {
	switch it.Kind {
	case "mod":
		return graph.NewDefMod(id)
	case "foreignmod":
		return graph.NewDefForeignMod(id)
	case "struct":
		return graph.NewDefStruct(id)
	case "ty":
		return graph.NewDefTy(id, it.IsEnum)
	case "trait":
		return graph.NewDefTrait(id)
	case "fn":
		return graph.NewDefFn(id, it.IsTupleCtor)
	case "static":
		return graph.NewDefStatic(id, it.Mutable)
	case "const":
		return graph.NewDefConst(id)
	case "assocconst":
		return graph.NewDefAssociatedConst(id)
	case "method":
		return graph.NewDefMethod(id)
	default:
		return graph.Def{Kind: graph.DefUnrecognized, ID: id}
	}
}

func (s *FileCrateStore) allocate(cnum graph.CrateNum) graph.DefId {
	idx := s.nextIndex[cnum]
	s.nextIndex[cnum] = idx + 1
	return graph.DefId{Crate: cnum, Index: idx}
}

func (s *FileCrateStore) EachChildOfItem(ctx context.Context, id graph.DefId, fn func(DefLike, string, Visibility)) error {
	mergedCtx, cancel := constext.Cons(ctx, context.Background())
	defer cancel()
	if err := mergedCtx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	kids := append([]childEntry(nil), s.children[id]...)
	s.mu.Unlock()
	for _, k := range kids {
		fn(k.def, k.name, k.vis)
	}
	return nil
}

func (s *FileCrateStore) EachTopLevelItemOfCrate(ctx context.Context, cnum graph.CrateNum, fn func(DefLike, string, Visibility)) error {
	mergedCtx, cancel := constext.Cons(ctx, context.Background())
	defer cancel()
	if err := mergedCtx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	kids := append([]childEntry(nil), s.rootKids[cnum]...)
	s.mu.Unlock()
	for _, k := range kids {
		fn(k.def, k.name, k.vis)
	}
	return nil
}

func (s *FileCrateStore) GetTupleStructDefinitionIfCtor(id graph.DefId) (graph.DefId, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sid, ok := s.ctors[id]
	return sid, ok
}

func (s *FileCrateStore) GetTraitItemDefIDs(id graph.DefId) []graph.DefId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]graph.DefId(nil), s.traitDefs[id]...)
}

func (s *FileCrateStore) GetTraitName(itemID graph.DefId) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traitName[itemID]
}

func (s *FileCrateStore) GetStructFieldNames(id graph.DefId) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fields[id]...)
}

// CrateMeta returns what's known about a loaded crate.
func (s *FileCrateStore) CrateMeta(cnum graph.CrateNum) (CrateMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.crates[cnum]
	return m, ok
}

// readDescriptor locates "<name>.toml" under root by walking the directory
// tree with godirwalk (rather than assuming a flat layout), so a crate store
// rooted at a multi-level cache directory still resolves by basename.
func (s *FileCrateStore) readDescriptor(ctx context.Context, name string) ([]byte, error) {
	want := name + ".toml"
	var found string
	err := godirwalk.Walk(s.root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if !de.IsDir() && filepath.Base(path) == want {
				found = path
				return filepath.SkipDir
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil && err != filepath.SkipDir {
		return nil, errors.Wrapf(err, "cstore: walking %q for crate %q", s.root, name)
	}
	if found == "" {
		return nil, errors.Errorf("cstore: no descriptor found for crate %q under %q", name, s.root)
	}
	raw, err := os.ReadFile(found)
	if err != nil {
		return nil, errors.Wrapf(err, "cstore: reading %q", found)
	}
	return raw, nil
}

func (s *FileCrateStore) fromCache(name string) ([]byte, bool, error) {
	if s.db == nil {
		return nil, false, nil
	}
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)
		if v := b.Get([]byte(name)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "cstore: reading cache for %q", name)
	}
	return raw, raw != nil, nil
}

func (s *FileCrateStore) toCache(name string, raw []byte) error {
	if s.db == nil {
		return nil
	}
	return errors.Wrapf(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(name), raw)
	}), "cstore: writing cache for %q", name)
}

// Install copies a fixture descriptor file into a scratch crate-store
// directory, used by the CLI driver's "seed" subcommand to set up
// a FileCrateStore root from checked-in fixtures without hand-writing a
// os.ReadFile/os.WriteFile pair -- the same shutil.CopyFile helper
// golang-dep's vcs_source.go uses to materialize a working copy.
func Install(srcDescriptor, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrapf(err, "cstore: preparing %q", destDir)
	}
	dest := filepath.Join(destDir, filepath.Base(srcDescriptor))
	if _, err := shutil.CopyFile(srcDescriptor, dest, false); err != nil {
		return errors.Wrapf(err, "cstore: installing %q into %q", srcDescriptor, destDir)
	}
	if !strings.HasSuffix(dest, ".toml") {
		return errors.Errorf("cstore: descriptor %q is not a .toml file", srcDescriptor)
	}
	return nil
}

var _ graph.CrateStore = (*FileCrateStore)(nil)
