// Package session provides the diagnostic sink collaborator (§1, §6): a
// concrete implementation of graph.DiagSink. Its shape follows golang-dep's
// own logging idiom rather than a logging framework -- golang-dep vendors no
// logging library for this purpose anywhere in the retrieved pack, instead
// wrapping a plain io.Writer (log/logger.go's Logger, internal/util/log.go's
// package-level Logf/Vlogf gated on a Verbose flag). Logger below follows
// the first shape; Session records and writes every diagnostic whatever its
// Verbose field is set to.
package session

import (
	"fmt"
	"io"

	"github.com/lowerlang/resolvegraph/graph"
)

// Record is one diagnostic emitted by the builder, kept for tests and for
// driving the CLI's exit status.
type Record struct {
	Level Level
	Span  graph.Span
	Msg   string
	Err   graph.ResolutionError // set when Level == LevelError
}

// Level tags a Record's severity.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelNote
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warning"
	default:
		return "note"
	}
}

// Session is a graph.DiagSink that writes human-readable diagnostics to an
// io.Writer (following golang-dep's Logger wrapper) while also retaining the
// full, ordered Record history so tests and the CLI driver can inspect what
// was emitted without scraping text.
type Session struct {
	out     io.Writer
	Verbose bool

	records []Record
}

// New constructs a Session writing to out.
func New(out io.Writer) *Session {
	return &Session{out: out}
}

// Records returns every diagnostic emitted so far, in emission order.
func (s *Session) Records() []Record { return s.records }

// ErrorCount reports how many LevelError records have been emitted.
func (s *Session) ErrorCount() int {
	n := 0
	for _, r := range s.records {
		if r.Level == LevelError {
			n++
		}
	}
	return n
}

// ResolveError implements graph.DiagSink.
func (s *Session) ResolveError(sp graph.Span, err graph.ResolutionError) {
	s.record(Record{Level: LevelError, Span: sp, Msg: err.Error(), Err: err})
}

// SpanWarn implements graph.DiagSink.
func (s *Session) SpanWarn(sp graph.Span, msg string) {
	s.record(Record{Level: LevelWarn, Span: sp, Msg: msg})
}

// SpanNote implements graph.DiagSink.
func (s *Session) SpanNote(sp graph.Span, msg string) {
	s.record(Record{Level: LevelNote, Span: sp, Msg: msg})
}

func (s *Session) record(r Record) {
	s.records = append(s.records, r)
	if s.out == nil {
		return
	}
	fmt.Fprintf(s.out, "%s: %s (%s:%d-%d)\n", r.Level, r.Msg, r.Span.File, r.Span.Start, r.Span.End)
}

// Logln and Logf match golang-dep's log.Logger (log/logger.go) for ambient,
// non-diagnostic trace output -- the builder itself never calls these; the
// CLI driver does, for progress messages that aren't tied to a span.
type Logger struct {
	io.Writer
}

// NewLogger returns a new Logger which writes to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}
