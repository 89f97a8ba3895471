package pipeline

import (
	"fmt"
	"os"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/emit"
	"github.com/elevanaltd/octave/schema"
	"github.com/elevanaltd/octave/store"
	"github.com/elevanaltd/octave/token"
)

// WriteInput is strictly XOR on Content vs Changes (spec.md §4.10/§6): a
// content write overwrites the target file outright; a changes write
// amends whatever document currently lives at TargetPath.
type WriteInput struct {
	Content       []byte
	Changes       map[string]any
	TargetPath    string
	SchemaContent []byte
	BaseHash      string
}

// WriteResult is the tool-surface return shape for write: status, the
// new canonical hash, and the diagnostics — a write either succeeds outright or
// fails with the target file untouched (spec.md §4.10 atomicity).
type WriteResult struct {
	Status        Status
	CanonicalHash string
	Diagnostics   ast.Diagnostics
}

// Write applies a content or changes write to TargetPath under CAS and
// atomicity guarantees: the on-disk file is only ever replaced by a
// single rename, and any validation or CAS failure leaves it untouched.
func Write(in WriteInput) WriteResult {
	hasContent := len(in.Content) > 0
	hasChanges := len(in.Changes) > 0
	if hasContent == hasChanges {
		return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{
			ast.NewError(ast.CodeEFile, token.Position{}, "write requires exactly one of content or changes"),
		}}
	}

	if err := store.ValidatePath(in.TargetPath); err != nil {
		return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{err.(ast.AuditRecord)}}
	}

	existing, readErr := os.ReadFile(in.TargetPath)
	fileExists := readErr == nil
	if readErr != nil && !os.IsNotExist(readErr) {
		return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{
			ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("read %q: %v", in.TargetPath, readErr)),
		}}
	}

	if fileExists {
		if err := store.CheckCAS(in.BaseHash, string(existing)); err != nil {
			return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{err.(ast.AuditRecord)}}
		}
	} else if in.BaseHash != "" {
		return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{
			ast.NewError(ast.CodeEHash, token.Position{}, "base_hash supplied but target file does not exist"),
		}}
	}

	var canonical string
	var diags ast.Diagnostics

	if hasContent {
		result := Validate(ValidateInput{Content: in.Content, SchemaContent: in.SchemaContent})
		diags = result.Diagnostics
		if diags.HasErrors() {
			return WriteResult{Status: StatusFailed, Diagnostics: diags}
		}
		canonical = result.Canonical
	} else {
		if !fileExists {
			return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{
				ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("amend requires an existing file at %q", in.TargetPath)),
			}}
		}
		base := Validate(ValidateInput{Content: existing, SchemaContent: in.SchemaContent})
		diags = base.Diagnostics
		if diags.HasErrors() {
			return WriteResult{Status: StatusFailed, Diagnostics: diags}
		}
		amended, adiags := store.Amend(base.Document, base.Schema, in.Changes)
		diags = append(diags, adiags...)
		if diags.HasErrors() {
			return WriteResult{Status: StatusFailed, Diagnostics: diags}
		}
		if base.Schema != nil {
			diags = append(diags, schema.EvaluateDocument(amended, base.Schema)...)
			if diags.HasErrors() {
				return WriteResult{Status: StatusFailed, Diagnostics: diags}
			}
		}
		canonical = emit.Canonical(amended)
	}

	if err := store.WriteAtomic(in.TargetPath, []byte(canonical), 0o644); err != nil {
		return WriteResult{Status: StatusFailed, Diagnostics: ast.Diagnostics{err.(ast.AuditRecord)}}
	}

	return WriteResult{Status: StatusSuccess, CanonicalHash: store.Hash(canonical), Diagnostics: diags}
}
