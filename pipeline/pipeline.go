// Package pipeline composes lexer, parser, normalize, schema, router,
// repair, emit, and store into the three document-layer operations
// spec.md §4.10/§6 exposes to a caller: Validate, Write, Eject. Each
// stage returns its own diagnostics; pipeline concatenates them in the
// order the stages run (lex/parse → normalize → schema extraction →
// repair → constraint and unknown-field policy evaluation → routing), so
// unknown-field policy records come before routing records. Recoverable
// errors in one stage do not stop the later stages; an E_ENCODING failure
// from the lexer ends Validate before any later stage runs, and a panic
// in a stage is not recovered.
package pipeline

import (
	"fmt"
	"os"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/emit"
	"github.com/elevanaltd/octave/lexer"
	"github.com/elevanaltd/octave/normalize"
	"github.com/elevanaltd/octave/parser"
	"github.com/elevanaltd/octave/repair"
	"github.com/elevanaltd/octave/router"
	"github.com/elevanaltd/octave/schema"
	"github.com/elevanaltd/octave/store"
	"github.com/elevanaltd/octave/token"
)

// Status mirrors the tri-state status field the tool surface returns.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// ValidateInput is the argument set for Validate. Exactly one of Content
// or FilePath should be set (FilePath takes a path instead of inline
// bytes); SchemaContent is an optional separate POLICY/FIELDS source. If
// neither SchemaContent nor an embedded POLICY/FIELDS pair is found and
// RequireSchema is true, the result carries E002.
type ValidateInput struct {
	Content       []byte
	FilePath      string
	SchemaContent []byte
	RequireSchema bool
	Fix           bool // opt in to the REPAIR tier, spec.md §4.8
}

// Result is the document-layer return shape shared by validate and write
// (spec.md §6): the canonical text, its content hash, a tri-state status,
// and the full diagnostic list.
type Result struct {
	Document      ast.Document
	Canonical     string
	CanonicalHash string
	Status        Status
	Diagnostics   ast.Diagnostics
	Schema        *ast.Schema
	Manifest      router.Manifest
	Repairs       []repair.Log
}

// Validate runs every read-only stage of the pipeline over the given
// input and returns the canonical document, its hash, and the combined
// diagnostics. It never writes to disk.
func Validate(in ValidateInput) Result {
	content := in.Content
	if in.FilePath != "" {
		if err := store.ValidatePath(in.FilePath); err != nil {
			return Result{Status: StatusFailed, Diagnostics: ast.Diagnostics{err.(ast.AuditRecord)}}
		}
		data, err := os.ReadFile(in.FilePath)
		if err != nil {
			return Result{Status: StatusFailed, Diagnostics: ast.Diagnostics{
				ast.NewError(ast.CodeEFile, token.Position{}, fmt.Sprintf("read %q: %v", in.FilePath, err)),
			}}
		}
		content = data
	}

	doc, diags, ok := lexAndParse(content)
	if !ok {
		return Result{Status: StatusFailed, Diagnostics: diags}
	}

	ndoc, ndiags := normalize.Normalize(doc)
	diags = append(diags, ndiags...)

	sch, sdiags := resolveSchema(ndoc, in.SchemaContent, in.RequireSchema)
	diags = append(diags, sdiags...)

	var repairs []repair.Log
	if sch != nil {
		if in.Fix {
			repaired, logs, rdiags := repair.ApplyDocument(ndoc, sch)
			ndoc = repaired
			repairs = logs
			diags = append(diags, rdiags...)
		}
		diags = append(diags, schema.EvaluateDocument(ndoc, sch)...)
	}

	var manifest router.Manifest
	if sch != nil {
		m, rdiags := router.Resolve(ndoc, sch.Policy)
		manifest = m
		diags = append(diags, rdiags...)
	}

	canonical := emit.Canonical(ndoc)

	return Result{
		Document:      ndoc,
		Canonical:     canonical,
		CanonicalHash: store.Hash(canonical),
		Status:        statusFrom(diags),
		Diagnostics:   diags,
		Schema:        sch,
		Manifest:      manifest,
		Repairs:       repairs,
	}
}

// lexAndParse runs the lexer and parser and reports whether the result
// is usable at all (false only on the catastrophic non-UTF-8 case; a
// parse with recoverable errors still returns ok=true per spec.md §4.2's
// "parse result is always well-typed" guarantee).
func lexAndParse(content []byte) (ast.Document, ast.Diagnostics, bool) {
	res, err := lexer.Tokenize(content)
	if err != nil {
		return ast.Document{}, ast.Diagnostics{
			ast.NewError(ast.CodeEEncoding, token.Position{}, err.Error()),
		}, false
	}

	doc, pdiags := parser.Parse(res.Tokens)
	diags := append(append(ast.Diagnostics{}, res.Diagnostics...), pdiags...)
	return doc, diags, true
}

// resolveSchema compiles a Schema either from an external schema source
// or from the document's own POLICY/FIELDS blocks, in that precedence
// order (an explicitly supplied schema source always wins). E002 is
// raised only when the caller asked for validation against a schema and
// neither source produced one.
func resolveSchema(doc ast.Document, schemaContent []byte, required bool) (*ast.Schema, ast.Diagnostics) {
	if len(schemaContent) > 0 {
		sdoc, diags, ok := lexAndParse(schemaContent)
		if !ok {
			return nil, diags
		}
		ndoc, ndiags := normalize.Normalize(sdoc)
		diags = append(diags, ndiags...)
		sch, exdiags := schema.Extract(ndoc)
		diags = append(diags, exdiags...)
		return sch, diags
	}

	sch, diags := schema.Extract(doc)
	if sch == nil && required {
		diags = append(diags, ast.NewError(ast.CodeE002, token.Position{},
			"validation requested but no schema is declarable: supply a schema or add a POLICY/FIELDS block"))
	}
	return sch, diags
}

// statusFrom classifies a diagnostic list per spec.md §7: any error is at
// least a partial failure; "failed" is reserved for inputs Validate
// itself could not produce a document for (handled earlier, before this
// is reached), so here an error-bearing result is always "partial" — the
// canonical text is still produced for callers to inspect.
func statusFrom(diags ast.Diagnostics) Status {
	if diags.HasErrors() {
		return StatusPartial
	}
	return StatusSuccess
}
