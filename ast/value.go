package ast

import "github.com/elevanaltd/octave/token"

// Value is the tagged union of all RHS value shapes, spec.md §3. Concrete
// kinds implement valueNode as a marker; callers type-switch on the
// concrete type.
type Value interface {
	valueNode()
	Pos() token.Position
}

type base struct {
	At token.Position
}

func (b base) Pos() token.Position { return b.At }

// String is a quoted, triple-quoted, or coalesced-bareword string value.
type String struct {
	base
	Value string
	// Raw preserves the exact source lexeme (including quote style) for
	// round-trip fidelity of NUMBER/STRING tokens (spec.md invariant).
	Raw string
	// Triple records whether the source used """ form.
	Triple bool
}

func (String) valueNode() {}

// Number preserves its source lexeme alongside the parsed value so the
// emitter can re-emit Raw verbatim (spec.md §3/§4.3).
type Number struct {
	base
	Raw   string
	Value float64
	IsInt bool
}

func (Number) valueNode() {}

// Boolean is a lowercase true/false literal.
type Boolean struct {
	base
	Value bool
}

func (Boolean) valueNode() {}

// Null is the `null` literal, distinct from a delete-sentinel at the
// amendment layer (store package).
type Null struct{ base }

func (Null) valueNode() {}

// Version is a semver-shaped literal, e.g. 1.2.3.
type Version struct {
	base
	Raw   string
	Major int
	Minor int
	Patch int
}

func (Version) valueNode() {}

// Variable is a $NAME or $N:role reference.
type Variable struct {
	base
	Name string
	Role string // empty unless $N:role form was used
}

func (Variable) valueNode() {}

// SectionRef is a §NAME or §N reference.
type SectionRef struct {
	base
	Ref string
}

func (SectionRef) valueNode() {}

// ColonPath is an A:B:C dotted-colon reference.
type ColonPath struct {
	base
	Segments []string
}

func (ColonPath) valueNode() {}

// List is an ordered sequence of Values, optionally with a trailing comma
// in the source (TrailingComma is recorded only for diagnostics; it never
// affects canonical emission, which never emits one).
type List struct {
	base
	Items         []Value
	TrailingComma bool
}

func (List) valueNode() {}

// InlineMapEntry is one `key::atom` pair inside an InlineMap.
type InlineMapEntry struct {
	Key   string
	Value Value
}

// InlineMap is an ordered sequence of key::atom entries inside `[ ]`.
type InlineMap struct {
	base
	Entries []InlineMapEntry
}

func (InlineMap) valueNode() {}

// HolographicPattern is a bracketed (example, constraint-chain, target)
// triple, recognized when a CONSTRAINT operator appears at bracket depth 1
// with no depth-1 commas (spec.md §3/§4.2).
type HolographicPattern struct {
	base
	Example    Value
	Constraint *ConstraintChain
	Target     *Target // nil if no →§TARGET suffix
}

func (HolographicPattern) valueNode() {}

// FlowExpression is a binary or unary operator-tree node over the flow
// operator set, spec.md §3.
type FlowExpression struct {
	base
	Op    Operator
	Left  Value
	Right Value // nil for a would-be unary form; AT is always binary in practice
}

func (FlowExpression) valueNode() {}
