package graph

// CrateNum identifies a compilation unit: the local crate being built, or one
// of the external crates reachable through the crate store.
type CrateNum uint32

// LocalCrate is the crate number of the crate currently being built.
const LocalCrate CrateNum = 0

// Index is the intra-crate component of a DefId.
type Index uint32

// CrateRootIndex is the sentinel Index denoting a crate's root module.
const CrateRootIndex Index = 0

// DefId globally identifies a definition: a crate number plus an index that
// is unique within that crate. The builder never mints DefIds itself; they
// are produced by the AstMap (for local items) or reported by the CrateStore
// (for external ones).
type DefId struct {
	Crate CrateNum
	Index Index
}

// IsCrateRoot reports whether id names a crate's root module.
func (id DefId) IsCrateRoot() bool {
	return id.Index == CrateRootIndex
}

// IsLocal reports whether id belongs to the crate currently being built.
func (id DefId) IsLocal() bool {
	return id.Crate == LocalCrate
}

// CrateRootDefId returns the DefId of crate cnum's root module.
func CrateRootDefId(cnum CrateNum) DefId {
	return DefId{Crate: cnum, Index: CrateRootIndex}
}
