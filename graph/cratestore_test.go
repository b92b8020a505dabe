package graph

import "context"

// fakeCrateStore is an in-memory CrateStore test double: tests populate its
// maps directly instead of going through a real metadata decoder.
type fakeCrateStore struct {
	externCrates map[NodeId]CrateNum
	topLevel     map[CrateNum][]fakeChild
	children     map[DefId][]fakeChild
	ctors        map[DefId]DefId
	traitItems   map[DefId][]DefId
	traitNames   map[DefId]string
	fields       map[DefId][]string
}

type fakeChild struct {
	dl   DefLike
	name string
	vis  Visibility
}

func newFakeCrateStore() *fakeCrateStore {
	return &fakeCrateStore{
		externCrates: make(map[NodeId]CrateNum),
		topLevel:     make(map[CrateNum][]fakeChild),
		children:     make(map[DefId][]fakeChild),
		ctors:        make(map[DefId]DefId),
		traitItems:   make(map[DefId][]DefId),
		traitNames:   make(map[DefId]string),
		fields:       make(map[DefId][]string),
	}
}

func (f *fakeCrateStore) FindExternModStmtCnum(node NodeId) (CrateNum, bool) {
	cnum, ok := f.externCrates[node]
	return cnum, ok
}

func (f *fakeCrateStore) EachChildOfItem(ctx context.Context, id DefId, fn func(DefLike, string, Visibility)) error {
	for _, c := range f.children[id] {
		fn(c.dl, c.name, c.vis)
	}
	return nil
}

func (f *fakeCrateStore) EachTopLevelItemOfCrate(ctx context.Context, cnum CrateNum, fn func(DefLike, string, Visibility)) error {
	for _, c := range f.topLevel[cnum] {
		fn(c.dl, c.name, c.vis)
	}
	return nil
}

func (f *fakeCrateStore) GetTupleStructDefinitionIfCtor(id DefId) (DefId, bool) {
	sid, ok := f.ctors[id]
	return sid, ok
}

func (f *fakeCrateStore) GetTraitItemDefIDs(id DefId) []DefId { return f.traitItems[id] }
func (f *fakeCrateStore) GetTraitName(itemID DefId) string    { return f.traitNames[itemID] }
func (f *fakeCrateStore) GetStructFieldNames(id DefId) []string { return f.fields[id] }

var _ CrateStore = (*fakeCrateStore)(nil)
