package ast

import "github.com/elevanaltd/octave/token"

// Constructors for the Node and Value tagged unions. The embedded base
// struct carries an unexported field, so packages outside ast build nodes
// through these rather than struct literals.

func NewComment(pos token.Position, text string) Comment {
	return Comment{base: base{At: pos}, Text: text}
}

func NewSectionMarker(pos token.Position, section, label string) SectionMarker {
	return SectionMarker{base: base{At: pos}, Section: section, Label: label}
}

func NewAssignment(pos token.Position, key string, value Value) Assignment {
	return Assignment{base: base{At: pos}, Key: key, Value: value}
}

func NewBlock(pos token.Position, key string, target *Target, children []Node, depth int) Block {
	return Block{base: base{At: pos}, Key: key, Target: target, Children: children, Depth: depth}
}

func NewLiteralZone(pos token.Position, key, infoTag, content string, fenceWidth int) LiteralZone {
	return LiteralZone{base: base{At: pos}, Key: key, InfoTag: infoTag, Content: content, FenceWidth: fenceWidth}
}

func NewEnvelope(pos token.Position, name string, children []Node) Envelope {
	return Envelope{base: base{At: pos}, Name: name, Children: children}
}

func NewString(pos token.Position, value, raw string, triple bool) String {
	return String{base: base{At: pos}, Value: value, Raw: raw, Triple: triple}
}

func NewNumber(pos token.Position, raw string, value float64, isInt bool) Number {
	return Number{base: base{At: pos}, Raw: raw, Value: value, IsInt: isInt}
}

func NewBoolean(pos token.Position, value bool) Boolean {
	return Boolean{base: base{At: pos}, Value: value}
}

func NewNull(pos token.Position) Null {
	return Null{base: base{At: pos}}
}

func NewVersion(pos token.Position, raw string, major, minor, patch int) Version {
	return Version{base: base{At: pos}, Raw: raw, Major: major, Minor: minor, Patch: patch}
}

func NewVariable(pos token.Position, name, role string) Variable {
	return Variable{base: base{At: pos}, Name: name, Role: role}
}

func NewSectionRef(pos token.Position, ref string) SectionRef {
	return SectionRef{base: base{At: pos}, Ref: ref}
}

func NewColonPath(pos token.Position, segments []string) ColonPath {
	return ColonPath{base: base{At: pos}, Segments: segments}
}

func NewList(pos token.Position, items []Value, trailingComma bool) List {
	return List{base: base{At: pos}, Items: items, TrailingComma: trailingComma}
}

func NewInlineMap(pos token.Position, entries []InlineMapEntry) InlineMap {
	return InlineMap{base: base{At: pos}, Entries: entries}
}

func NewHolographicPattern(pos token.Position, example Value, constraint *ConstraintChain, target *Target) HolographicPattern {
	return HolographicPattern{base: base{At: pos}, Example: example, Constraint: constraint, Target: target}
}

func NewFlowExpression(pos token.Position, op Operator, left, right Value) FlowExpression {
	return FlowExpression{base: base{At: pos}, Op: op, Left: left, Right: right}
}
