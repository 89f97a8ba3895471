package ast

import "github.com/elevanaltd/octave/token"

// Node is the tagged union of top-level/block-level constructs, spec.md §3.
type Node interface {
	nodeKind()
	Pos() token.Position
}

// Assignment is a `key::value` pair.
type Assignment struct {
	base
	Key   string
	Value Value
}

func (Assignment) nodeKind() {}

// Block is an indentation-structured `key:` with children. Target is the
// block's own annotation (`KEY[→§TARGET]:`), nil if none was given; in
// that case children inherit the nearest ancestor's target (spec.md §4.6).
type Block struct {
	base
	Key      string
	Target   *Target
	Children []Node
	Depth    int
}

func (Block) nodeKind() {}

// SectionMarker is a §N or §NAME marker line with an optional label.
type SectionMarker struct {
	base
	Section string
	Label   string
}

func (SectionMarker) nodeKind() {}

// Comment is a `# ...` or `// ...` line comment, preserved for round-trip.
type Comment struct {
	base
	Text string
}

func (Comment) nodeKind() {}

// LiteralZone is a fenced verbatim region: key, info-tag, raw bytes, and
// the fence width used (so the emitter can reopen with the same width).
type LiteralZone struct {
	base
	Key        string
	InfoTag    string
	Content    string
	FenceWidth int
}

func (LiteralZone) nodeKind() {}

// Envelope is the outer ===NAME===...===END=== delimiter pair.
type Envelope struct {
	base
	Name     string
	Children []Node
}

// Document is an ordered sequence of Envelopes.
type Document struct {
	Envelopes []Envelope
}
