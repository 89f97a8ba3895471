package ast

import "github.com/elevanaltd/octave/token"

// TargetKind classifies a Target, spec.md §3.
type TargetKind int

const (
	TargetBuiltin TargetKind = iota
	TargetFile
	TargetMulti
)

// Builtin target names, spec.md §3.
const (
	TargetSelf         = "SELF"
	TargetMeta         = "META"
	TargetIndexer      = "INDEXER"
	TargetDecisionLog  = "DECISION_LOG"
	TargetRiskLog      = "RISK_LOG"
	TargetKnowledgeBase = "KNOWLEDGE_BASE"
)

var builtinTargets = map[string]bool{
	TargetSelf: true, TargetMeta: true, TargetIndexer: true,
	TargetDecisionLog: true, TargetRiskLog: true, TargetKnowledgeBase: true,
}

// IsBuiltinTarget reports whether name is one of the builtin target names.
func IsBuiltinTarget(name string) bool {
	return builtinTargets[name]
}

// Target is a routing destination: builtin, file-relative, or a
// multi-broadcast set (spec.md §3/§4.6).
type Target struct {
	Kind  TargetKind
	Name  string   // builtin name, or file path for TargetFile
	Multi []Target // populated for TargetMulti
}

// TargetKey is a canonical, comparable form of a Target suitable for use
// as a router.Manifest map key (spec.md Open Question on routing-manifest
// format). Builtins and file paths are their own key; a multi-broadcast
// target's key is the pipe-joined keys of its members.
type TargetKey string

// ConstraintKind tags a single constraint atom, spec.md §3.
type ConstraintKind int

const (
	ConstraintREQ ConstraintKind = iota
	ConstraintOPT
	ConstraintCONST
	ConstraintENUM
	ConstraintTYPE
	ConstraintREGEX
	ConstraintDIR
	ConstraintAPPEND_ONLY
	ConstraintRANGE
	ConstraintMAX_LENGTH
	ConstraintMIN_LENGTH
	ConstraintDATE
	ConstraintISO8601
)

// ValueType is the TYPE[...] constraint's argument domain.
type ValueType int

const (
	TypeString ValueType = iota
	TypeNumber
	TypeList
	TypeBoolean
)

// Constraint is one atom in a constraint chain (spec.md §4.4/§4.5).
type Constraint struct {
	Kind ConstraintKind
	// String args (ENUM values, CONST value, REGEX pattern).
	Strings []string
	// Numeric args (RANGE min/max, MAX_LENGTH/MIN_LENGTH n).
	Numbers []float64
	Type    ValueType
	Pos     token.Position
}

// ConstraintChain is a left-to-right, fail-fast sequence of Constraints
// joined by ∧, spec.md §4.4.
type ConstraintChain struct {
	Constraints []Constraint
}

// FieldDef is one decomposed FIELDS entry: KEY::["example"∧CHAIN→§TARGET].
type FieldDef struct {
	Key        string
	Example    Value
	Constraint ConstraintChain
	Target     *Target
	Pos        token.Position
}

// UnknownFieldPolicy governs undeclared keys under a governed block,
// spec.md §4.7.
type UnknownFieldPolicy int

const (
	UnknownReject UnknownFieldPolicy = iota
	UnknownIgnore
	UnknownWarn
)

// Policy is the decoded POLICY block, spec.md §4.4.
type Policy struct {
	Version        string
	UnknownFields  UnknownFieldPolicy
	Targets        []string
}

// Schema is the compiled FIELDS/POLICY pair, spec.md §3/§4.4.
type Schema struct {
	Policy  Policy
	Fields  []FieldDef
	// Sections maps a nested section/block name to its own field schema,
	// for FIELDS blocks that declare per-section governance.
	Sections map[string]*Schema
}

// FieldByKey looks up a field definition by key.
func (s *Schema) FieldByKey(key string) (FieldDef, bool) {
	if s == nil {
		return FieldDef{}, false
	}
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDef{}, false
}
