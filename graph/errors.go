package graph

import "fmt"

// DiagSink is the session/diagnostic collaborator (§1, §6): a sink that
// accepts errors, warnings, and notes keyed by source spans. The builder
// treats it as opaque; graph/session provides the concrete implementation
// this module ships.
type DiagSink interface {
	ResolveError(sp Span, err ResolutionError)
	SpanWarn(sp Span, msg string)
	SpanNote(sp Span, msg string)
}

// ResolutionError is the closed set of diagnosable conditions the builder
// can detect (§7). Each variant is its own tagged struct implementing error,
// matching golang-dep's errors.go convention of one struct type per distinct
// failure shape rather than a single parameterized error type.
type ResolutionError interface {
	error
	isResolutionError()
}

// DuplicateDefinitionError reports that AddChild found an existing binding
// under a forbid-mode that the new item conflicts with.
type DuplicateDefinitionError struct {
	Namespace Namespace
	Name      string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition of %s `%s`", e.Namespace, e.Name)
}
func (*DuplicateDefinitionError) isResolutionError() {}

// SelfImportsOnlyAllowedWithinError reports `use self::..` or `use mod::..`
// used as an import's source name.
type SelfImportsOnlyAllowedWithinError struct{}

func (e *SelfImportsOnlyAllowedWithinError) Error() string {
	return "`self` and `mod` imports are only allowed within a list of items"
}
func (*SelfImportsOnlyAllowedWithinError) isResolutionError() {}

// SelfImportCanOnlyAppearOnceInTheListError reports a list import with more
// than one `self`/`mod` entry.
type SelfImportCanOnlyAppearOnceInTheListError struct{}

func (e *SelfImportCanOnlyAppearOnceInTheListError) Error() string {
	return "`self` import can only appear once in an import list"
}
func (*SelfImportCanOnlyAppearOnceInTheListError) isResolutionError() {}

// SelfImportOnlyInImportListWithNonEmptyPrefixError reports a `self` list
// entry whose module path prefix is empty.
type SelfImportOnlyInImportListWithNonEmptyPrefixError struct{}

func (e *SelfImportOnlyInImportListWithNonEmptyPrefixError) Error() string {
	return "`self` import can only appear in an import list with a non-empty prefix"
}
func (*SelfImportOnlyInImportListWithNonEmptyPrefixError) isResolutionError() {}

// ExternCrateNameCollisionError reports a second `extern crate` statement
// naming a child that already has an external-module sibling.
type ExternCrateNameCollisionError struct {
	Name string
}

func (e *ExternCrateNameCollisionError) Error() string {
	return fmt.Sprintf("a crate named `%s` has already been imported by this crate", e.Name)
}
func (*ExternCrateNameCollisionError) isResolutionError() {}

// InternalInvariantViolation is raised only for a Def variant that must
// never appear at module scope (a local, type parameter, primitive type,
// label, or Self type reported by an external crate). Per §7, this is the
// one class of error that is fatal to the traversal: it is returned to the
// caller rather than sent to the DiagSink, and BuildReducedGraph visits no
// further items once it has occurred.
type InternalInvariantViolation struct {
	Def Def
}

func (e *InternalInvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated: unexpected def at module scope: %s", e.Def)
}
