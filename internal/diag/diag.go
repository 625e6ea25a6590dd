// Package diag defines the shared diagnostic type used by the scanner,
// parser, resolver and compiler to report lex/parse/compile errors with a
// source position, grounded on github.com/mna/nenuphar's use of
// go/scanner.ErrorList (lang/scanner/scanner.go): a sortable list of
// position-tagged errors that itself implements error via Unwrap() []error
// so callers can use errors.Is/errors.As over the whole batch (spec.md §5
// Error Handling Design).
package diag

import (
	"fmt"
	"sort"

	"github.com/binoyjayan/p2sh/internal/token"
)

// Kind categorizes a Diagnostic per spec.md §7.
type Kind uint8

const (
	Lex Kind = iota
	Parse
	Compile
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Compile:
		return "compile error"
	default:
		return "error"
	}
}

// Diagnostic is a single lex/parse/compile error with its source position.
type Diagnostic struct {
	Kind Kind
	Pos  token.Pos
	Msg  string
}

func (d *Diagnostic) Error() string {
	l, c := d.Pos.LineCol()
	if l == 0 && c == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Msg)
	}
	return fmt.Sprintf("%d:%d: %s: %s", l, c, d.Kind, d.Msg)
}

// List collects diagnostics across one compilation attempt.
type List []*Diagnostic

// Add appends a new diagnostic of the given kind.
func (l *List) Add(kind Kind, pos token.Pos, msg string) {
	*l = append(*l, &Diagnostic{Kind: kind, Pos: pos, Msg: msg})
}

// Addf is like Add but formats msg.
func (l *List) Addf(kind Kind, pos token.Pos, format string, args ...any) {
	l.Add(kind, pos, fmt.Sprintf(format, args...))
}

// Sort orders diagnostics by source position.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Pos < l[j].Pos })
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
