// Package vmerror defines the single fatal-error type shared by the
// scanner, preprocessor, operand decoder and execution engine. Every error
// in this system is fatal: it carries the offending source location and a
// short description, and aborts the run.
package vmerror

import (
	"fmt"

	"github.com/TaichiLi/asm-vm/token"
)

// Kind categorizes where in the pipeline an error originated.
type Kind int

const (
	Lex Kind = iota
	Parse
	Preprocess
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Preprocess:
		return "preprocessor error"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Error is the fatal error carried out of any stage of the pipeline.
type Error struct {
	Pos     token.Position
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Pos, e.Kind, e.Message)
}

// New constructs a fatal error at pos.
func New(pos token.Position, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
