package domain

import (
	"fmt"
	"regexp"

	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// Op identifies the predicate applied by a leaf condition node. The
// first six ops are relational and are also used as the size comparison
// of OpSizeOf nodes.
type Op int8

const (
	OpLess Op = iota
	OpLessOrEqual
	OpEqual
	OpNotEqual
	OpGreaterOrEqual
	OpGreater
	OpExists
	OpNotExists
	OpIn
	OpNotIn
	OpTypeOf
	OpNotTypeOf
	OpMatches
	OpNotMatches
	OpLike
	OpNotLike
	OpSizeOf
)

var opNames = map[Op]string{
	OpLess:           "LESS",
	OpLessOrEqual:    "LESS_OR_EQUAL",
	OpEqual:          "EQUAL",
	OpNotEqual:       "NOT_EQUAL",
	OpGreaterOrEqual: "GREATER_OR_EQUAL",
	OpGreater:        "GREATER",
	OpExists:         "EXISTS",
	OpNotExists:      "NOT_EXISTS",
	OpIn:             "IN",
	OpNotIn:          "NOT_IN",
	OpTypeOf:         "TYPE_OF",
	OpNotTypeOf:      "NOT_TYPE_OF",
	OpMatches:        "MATCHES",
	OpNotMatches:     "NOT_MATCHES",
	OpLike:           "LIKE",
	OpNotLike:        "NOT_LIKE",
	OpSizeOf:         "SIZE_OF",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int8(op))
}

// Relational reports whether the op is one of the six ordering
// comparisons.
func (op Op) Relational() bool { return op >= OpLess && op <= OpGreater }

// CompoundOp is the boolean operator of a compound condition node.
type CompoundOp int8

const (
	CompoundAnd CompoundOp = iota
	CompoundOr
)

func (op CompoundOp) String() string {
	if op == CompoundOr {
		return "OR"
	}
	return "AND"
}

// ConditionNode is one node of a built condition expression tree.
// Compound nodes carry a boolean operator and ordered children; leaf
// nodes carry a field path, an Op and the operand fields that Op uses.
// A built tree is immutable and safe to traverse from any goroutine.
type ConditionNode struct {
	// Compound distinguishes AND/OR grouping nodes from leaves.
	Compound bool
	BoolOp   CompoundOp
	Children []*ConditionNode

	Path fieldpath.FieldPath
	Op   Op
	// Operand is the reference value of relational and equality ops.
	Operand value.Value
	// Operands is the reference list of IN and NOT_IN.
	Operands []value.Value
	// Pattern is the compiled expression of MATCHES, NOT_MATCHES, LIKE
	// and NOT_LIKE; PatternText keeps the text it was compiled from.
	Pattern     *regexp.Regexp
	PatternText string
	// ValueType is the reference type of TYPE_OF and NOT_TYPE_OF.
	ValueType value.Type
	// SizeOp and Size parameterize SIZE_OF.
	SizeOp Op
	Size   int64
}

// MutationKind identifies the semantics of a recorded mutation
// operation.
type MutationKind int8

const (
	MutationSetNull MutationKind = iota
	MutationSet
	MutationSetOrReplaceNull
	MutationSetOrReplace
	MutationAppend
	MutationMerge
	MutationIncrement
	MutationDelete
)

var mutationNames = map[MutationKind]string{
	MutationSetNull:          "SET_NULL",
	MutationSet:              "SET",
	MutationSetOrReplaceNull: "SET_OR_REPLACE_NULL",
	MutationSetOrReplace:     "SET_OR_REPLACE",
	MutationAppend:           "APPEND",
	MutationMerge:            "MERGE",
	MutationIncrement:        "INCREMENT",
	MutationDelete:           "DELETE",
}

func (k MutationKind) String() string {
	if s, ok := mutationNames[k]; ok {
		return s
	}
	return fmt.Sprintf("MutationKind(%d)", int8(k))
}

// MutationOp is a single recorded mutation operation. Value is the
// operation payload; DELETE and the NULL-setting kinds carry the NULL
// value.
type MutationOp struct {
	Path  fieldpath.FieldPath
	Kind  MutationKind
	Value value.Value
}

// Document pairs a document id with its root MAP value.
type Document struct {
	ID   string
	Root value.Value
}
