package emit

import (
	"errors"

	"github.com/elevanaltd/octave/ast"
)

// ErrGBNFUnsupported is returned by ToGBNF: the format is named by
// spec.md's external-interface list but grammar compilation to GBNF is
// explicitly out of scope (SPEC_FULL.md Non-goals). The format name is
// still recognized so a caller asking for it gets E_FORMAT_UNSUPPORTED
// rather than "unknown format".
var ErrGBNFUnsupported = errors.New("GBNF projection is recognized but not implemented")

// ToGBNF always fails with ErrGBNFUnsupported (which pipeline.Eject
// reports as ast.CodeEFormatUnsupported); it exists so
// callers that enumerate supported eject formats can include "gbnf" in
// that list and get a structured, on-brand rejection instead of a
// generic unknown-format error.
func ToGBNF(_ ast.Document) (Projection, error) {
	return Projection{}, ErrGBNFUnsupported
}
