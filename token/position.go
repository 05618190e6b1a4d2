package token

import "fmt"

// Position identifies a location in an assembly source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// String renders the position the way diagnostics expect it: "file:line:col:".
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d:", p.Filename, p.Line, p.Column)
}
