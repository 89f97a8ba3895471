package pipeline

import (
	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/emit"
	"github.com/elevanaltd/octave/token"
)

// Format selects an eject output encoding.
type Format string

const (
	FormatOctave   Format = "octave"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatGBNF     Format = "gbnf"
)

// Mode selects which fields an eject keeps, spec.md §4.10.
type Mode string

const (
	ModeCanonical Mode = "canonical"
	ModeExecutive Mode = "executive"
	ModeDeveloper Mode = "developer"
	ModeAuthoring Mode = "authoring"
	ModeTemplate  Mode = "template"
)

var executiveKeys = map[string]bool{"META": true, "STATUS": true, "RISKS": true, "DECISIONS": true}
var developerKeys = map[string]bool{"META": true, "TESTS": true, "CI": true, "DEPS": true}

// EjectInput is the argument set for Eject.
type EjectInput struct {
	Content       []byte
	SchemaContent []byte
	Format        Format
	Mode          Mode
}

// EjectResult mirrors emit.Projection plus the diagnostics accumulated
// getting from raw content to a validated document.
type EjectResult struct {
	Output        string
	Lossy         bool
	FieldsOmitted []string
	Diagnostics   ast.Diagnostics
}

// Eject validates in.Content, applies a top-level Mode filter (executive/
// developer keep only a named subset of top-level blocks; authoring
// applies no filter beyond lex/parse/normalize; template, like authoring,
// applies no filter and leaves every value as it is), then hands
// the filtered document to the Format projection. Unsupported formats
// fail explicitly per spec.md §6 — no silent fallback to canonical.
func Eject(in EjectInput) EjectResult {
	result := Validate(ValidateInput{Content: in.Content, SchemaContent: in.SchemaContent})
	if result.Diagnostics.HasErrors() && len(result.Document.Envelopes) == 0 {
		return EjectResult{Diagnostics: result.Diagnostics}
	}

	doc := applyMode(result.Document, in.Mode)

	switch in.Format {
	case FormatOctave, "":
		return EjectResult{Output: emit.Canonical(doc), Diagnostics: result.Diagnostics}
	case FormatJSON:
		proj, err := emit.ToJSON(doc)
		if err != nil {
			return failedEject(result.Diagnostics, err)
		}
		return fromProjection(proj, result.Diagnostics)
	case FormatYAML:
		proj, err := emit.ToYAML(doc)
		if err != nil {
			return failedEject(result.Diagnostics, err)
		}
		return fromProjection(proj, result.Diagnostics)
	case FormatMarkdown:
		return fromProjection(emit.ToMarkdown(doc), result.Diagnostics)
	case FormatGBNF:
		_, err := emit.ToGBNF(doc)
		return failedEject(result.Diagnostics, err)
	default:
		return failedEject(result.Diagnostics, errUnsupportedFormat(in.Format))
	}
}

func fromProjection(proj emit.Projection, diags ast.Diagnostics) EjectResult {
	return EjectResult{Output: proj.Output, Lossy: proj.Lossy, FieldsOmitted: proj.FieldsOmitted, Diagnostics: diags}
}

func failedEject(diags ast.Diagnostics, err error) EjectResult {
	return EjectResult{Diagnostics: append(diags, ast.NewError(ast.CodeEFormatUnsupported, token.Position{}, err.Error()))}
}

func errUnsupportedFormat(f Format) error {
	return ast.NewError(ast.CodeEFormatUnsupported, token.Position{}, "unsupported eject format: "+string(f))
}

// applyMode filters an envelope's top-level blocks to the named subset
// for executive/developer modes; canonical/authoring/template keep
// everything (template's value-erasure is a presentation concern left to
// the caller's renderer, since the document layer has no "placeholder"
// value kind of its own).
func applyMode(doc ast.Document, mode Mode) ast.Document {
	if mode != ModeExecutive && mode != ModeDeveloper {
		return doc
	}

	keep := executiveKeys
	if mode == ModeDeveloper {
		keep = developerKeys
	}

	envelopes := make([]ast.Envelope, len(doc.Envelopes))
	for i, env := range doc.Envelopes {
		var kept []ast.Node
		for _, n := range env.Children {
			blk, isBlock := n.(ast.Block)
			if isBlock && !keep[blk.Key] {
				continue
			}
			if a, isAssign := n.(ast.Assignment); isAssign && !keep[a.Key] {
				continue
			}
			kept = append(kept, n)
		}
		envelopes[i] = ast.NewEnvelope(env.Pos(), env.Name, kept)
	}
	return ast.Document{Envelopes: envelopes}
}
