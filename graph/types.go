package graph

// NodeId identifies a syntax node in the source AST (the parser/lowering
// pass's own numbering; the builder never mints these, only consumes them).
type NodeId uint32

// Span is an opaque source-location handle threaded through diagnostics. The
// builder treats it as opaque data to attach to errors/notes; only the
// session sink (an external collaborator, §1) interprets it.
type Span struct {
	Start, End uint32
	File       string
}
