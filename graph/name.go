package graph

import (
	"sync"

	radix "github.com/armon/go-radix"
)

// Name is an interned identifier. Two Names compare equal iff the strings
// they were interned from compare equal; comparison is therefore a plain
// integer comparison rather than a string comparison.
type Name int32

// NoName is the zero value of Name and never returned by Intern.
const NoName Name = 0

// Interner maps strings to small dense integers and back, the same wrapper
// shape golang-dep's deducerTrie puts around an armon/go-radix tree (see
// gps/typed_radix.go): a radix tree for the string->id direction (so prefix
// lookups over dotted/namespaced identifiers stay cheap) plus a slice for the
// id->string reverse direction.
type Interner struct {
	mu   sync.RWMutex
	t    *radix.Tree
	strs []string
}

// NewInterner constructs an empty interner. The zero Name is reserved, so the
// first interned string is assigned 1.
func NewInterner() *Interner {
	return &Interner{
		t:    radix.New(),
		strs: make([]string, 1, 64),
	}
}

// Intern returns the Name for s, allocating a new one if s hasn't been seen.
func (in *Interner) Intern(s string) Name {
	in.mu.RLock()
	if v, ok := in.t.Get(s); ok {
		in.mu.RUnlock()
		return v.(Name)
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if v, ok := in.t.Get(s); ok {
		return v.(Name)
	}
	n := Name(len(in.strs))
	in.strs = append(in.strs, s)
	in.t.Insert(s, n)
	return n
}

// String returns the string a Name was interned from, or "" for an unknown
// or zero Name.
func (in *Interner) String(n Name) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(n) <= 0 || int(n) >= len(in.strs) {
		return ""
	}
	return in.strs[n]
}

// Lookup returns the Name for s without interning it, reporting whether s
// has been seen before.
func (in *Interner) Lookup(s string) (Name, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if v, ok := in.t.Get(s); ok {
		return v.(Name), true
	}
	return NoName, false
}
