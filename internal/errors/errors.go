// Package errors implements CGB's external error sink (spec.md §6/§7):
// a Reporter interface plus a default in-memory implementation that
// deduplicates by (position, code) the same way the teacher's analyzer
// does.
//
// Grounded on funvibe-funxy/internal/analyzer/analyzer.go's
// `walker.addError` (dedup key `"line:col:code"`, `errorSet
// map[string]*DiagnosticError`) and the `DiagnosticError{File, Token,
// Code}` / `Code string` / `Error() string` shape visible from
// cmd/lsp/diagnostics.go and analyzer_errors_test.go.
package errors

import (
	"fmt"

	"github.com/funvibe/funxy/internal/token"
)

// Code is the closed set of diagnostics CGB can report (spec.md §4.10).
type Code string

const (
	CodeUnknownSymbol          Code = "unknown-symbol"
	CodeDuplicateTypeAlias     Code = "duplicate-type-alias"
	CodeOccursCheckFailed      Code = "occurs-check-failed"
	CodeTooComplex             Code = "code-too-complex"
	CodeNonClassSuperclass     Code = "non-class-superclass"
	CodeOverloadOfNonFunction  Code = "overload-of-non-function"
	CodeGeneric                Code = "generic-error"
)

// Diagnostic is one reported error.
type Diagnostic struct {
	File    string
	Pos     token.Pos
	Code    Code
	Message string
}

// Error satisfies the error interface so a Diagnostic can be handed
// anywhere a plain error is expected (tests, CLI exit-code plumbing).
func (d *Diagnostic) Error() string {
	if d.Message != "" {
		return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Pos.Line, d.Pos.Column, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Pos.Line, d.Pos.Column, d.Code)
}

// New builds a Diagnostic at pos with the given code and message.
func New(pos token.Pos, code Code, message string) *Diagnostic {
	return &Diagnostic{Pos: pos, Code: code, Message: message}
}

// Reporter is the external error sink CGB reports to (spec.md §6). It is
// the same Report-and-continue contract as the teacher's
// `walker.addError`: traversal never aborts on a reported diagnostic, it
// substitutes `errorRecovery` and keeps going.
type Reporter interface {
	Report(d *Diagnostic)
}

// Sink is a Reporter that deduplicates by "line:col:code", exactly the
// key the teacher's `walker.addError` dedups on.
type Sink struct {
	file string
	seen map[string]*Diagnostic
}

// NewSink returns an empty Sink attributing every diagnostic to file
// unless the diagnostic already names one.
func NewSink(file string) *Sink {
	return &Sink{file: file, seen: make(map[string]*Diagnostic)}
}

func (s *Sink) Report(d *Diagnostic) {
	if d.File == "" {
		d.File = s.file
	}
	key := fmt.Sprintf("%d:%d:%s", d.Pos.Line, d.Pos.Column, d.Code)
	s.seen[key] = d
}

// All returns every distinct diagnostic reported so far, in no
// particular order (callers that need a stable order should sort by
// Pos).
func (s *Sink) All() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(s.seen))
	for _, d := range s.seen {
		out = append(out, d)
	}
	return out
}

// Len reports how many distinct diagnostics have been recorded.
func (s *Sink) Len() int { return len(s.seen) }
