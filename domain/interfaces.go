// Package domain contains the interfaces, entity types, typed errors
// and functional options of the finch document core.
//
// The core produces two artifacts for a storage-execution collaborator:
// a built, immutable condition expression tree and an ordered,
// restartable sequence of mutation operations. Neither touches storage;
// both are pure in-memory construction protocols.
package domain

import (
	"context"
	"io"
	"iter"

	"github.com/finchdb/finch/pkg/value"
)

// Condition builds a nested boolean predicate tree over document
// fields. Calls chain; the first failure is recorded and every later
// mutating call is ignored, so check Err after Build. A Condition is
// not safe for concurrent mutation; once built it is immutable and
// freely shareable.
//
// Path arguments accept either a path text (parsed with
// fieldpath.Parse) or a fieldpath.FieldPath. Operand arguments accept
// either a value.Value or anything value.Of converts.
type Condition interface {
	// IsEmpty reports whether no leaf predicate has been added anywhere
	// in the tree.
	IsEmpty() bool
	// IsBuilt reports whether Build has executed.
	IsBuilt() bool

	// And opens a new AND compound block.
	And() Condition
	// Or opens a new OR compound block.
	Or() Condition
	// Close closes the innermost open compound block. Closing with no
	// open block is an error.
	Close() Condition
	// Build closes every still-open block innermost-first and freezes
	// the tree. Building twice is a no-op.
	Build() Condition
	// Condition splices the root of an already-built condition into the
	// current block.
	Condition(other Condition) Condition

	// Exists tests that a value exists at path.
	Exists(path any) Condition
	// NotExists tests that no value exists at path.
	NotExists(path any) Condition
	// In tests that the value at path equals at least one element of
	// values.
	In(path any, values []any) Condition
	// NotIn tests that the value at path equals no element of values.
	NotIn(path any, values []any) Condition
	// TypeOf tests that the value at path has the given type.
	TypeOf(path any, t value.Type) Condition
	// NotTypeOf tests that the value at path does not have the given
	// type.
	NotTypeOf(path any, t value.Type) Condition
	// Matches tests that the value at path is a string matching the
	// regular expression. The expression is compiled eagerly.
	Matches(path any, expr string) Condition
	// NotMatches tests that the value at path is a string not matching
	// the regular expression.
	NotMatches(path any, expr string) Condition
	// Like tests that the value at path is a string matching the SQL
	// LIKE pattern ('%' and '_' wildcards).
	Like(path any, pattern string) Condition
	// LikeEscaped is Like with a custom escape character.
	LikeEscaped(path any, pattern string, escape rune) Condition
	// NotLike tests that the value at path is a string not matching the
	// SQL LIKE pattern.
	NotLike(path any, pattern string) Condition
	// NotLikeEscaped is NotLike with a custom escape character.
	NotLikeEscaped(path any, pattern string, escape rune) Condition
	// Is tests the value at path against v with a relational op.
	Is(path any, op Op, v any) Condition
	// Equals tests the value at path for equality with v.
	Equals(path any, v any) Condition
	// NotEquals tests the value at path for inequality with v.
	NotEquals(path any, v any) Condition
	// SizeOf tests the size of the string, binary, map or array at path
	// against size with a relational op.
	SizeOf(path any, op Op, size int64) Condition

	// Root returns the root of the built tree, nil before Build or for
	// an empty condition.
	Root() *ConditionNode
	// Err returns the first construction error, if any.
	Err() error
}

// Mutation accumulates an ordered list of field-level mutation
// operations against a single logical document. Operations are applied
// in insertion order; duplicate and overlapping paths are legal and
// resolved by apply order at execution time. Calls chain with the same
// sticky-error convention as Condition.
type Mutation interface {
	// Empty clears the recorded operations and any recorded error; it
	// is the only supported undo.
	Empty() Mutation

	// SetNull records a type-checked set of NULL at path.
	SetNull(path any) Mutation
	// Set records a type-checked set. At apply time it fails if the
	// existing field holds a different variant; absent fields are
	// created.
	Set(path any, v any) Mutation
	// SetOrReplaceNull records a destructive set of NULL at path.
	SetOrReplaceNull(path any) Mutation
	// SetOrReplace records a destructive set: no type validation,
	// mismatching segments are deleted and replaced at apply time.
	SetOrReplace(path any, v any) Mutation
	// Append records an append of an array, string or binary payload to
	// a field of the same family, creating it when absent.
	Append(path any, v any) Mutation
	// AppendBinaryRange appends only the addressed byte range of b; b is
	// read, never modified.
	AppendBinaryRange(path any, b []byte, offset, n int) Mutation
	// Merge records a recursive merge of a MAP payload into a MAP
	// field, creating it when absent.
	Merge(path any, m any) Mutation
	// Increment records a numeric increment. At apply time the sum is
	// coerced back to the stored field's numeric type; absent fields
	// take the increment's own type and value.
	Increment(path any, inc any) Mutation
	// Delete records a removal of the field at path. Applying a delete
	// of an absent or unreachable path is a silent no-op.
	Delete(path any) Mutation

	// Len returns the number of recorded operations.
	Len() int
	// Ops returns a lazy, restartable iterator over the recorded
	// operations in insertion order. Iterating does not consume the
	// list.
	Ops() iter.Seq[MutationOp]
	// Err returns the first construction error, if any.
	Err() error
}

// Comparer provides equality and ordering for document values.
type Comparer interface {
	// Compare returns -1, 0 or 1. Values of different non-numeric types
	// order by a fixed type rank, so Compare is total and usable for
	// index keys.
	Compare(a, b value.Value) int
	// Comparable reports whether a relational comparison of the two
	// values is meaningful for filter predicates.
	Comparable(a, b value.Value) bool
}

// Matcher evaluates a built condition against a document root value.
type Matcher interface {
	// Match returns true if the document satisfies the condition. The
	// condition must be built; a nil or empty condition matches
	// everything.
	Match(doc value.Value, cond Condition) (bool, error)
}

// Applier applies a mutation's operations, in insertion order, to a
// document root value and returns the resulting root. Values are
// immutable, so the input root is never modified.
type Applier interface {
	Apply(doc value.Value, mut Mutation) (value.Value, error)
}

// IDGenerator creates identifiers for documents inserted without one.
type IDGenerator interface {
	GenerateID() (string, error)
}

// Decoder converts document values into user-defined Go types.
type Decoder interface {
	Decode(src value.Value, target any) error
}

// DocumentStore is an in-memory execution collaborator that consumes
// built conditions and mutation op lists. It exists as the reference
// implementation of the apply-time contracts; it is not a persistence
// layer.
type DocumentStore interface {
	// Insert stores document roots, assigning an _id when absent, and
	// returns the stored documents.
	Insert(ctx context.Context, roots ...value.Value) ([]Document, error)
	// Find returns documents matching the built condition in insertion
	// order. A nil condition matches everything.
	Find(ctx context.Context, cond Condition) ([]Document, error)
	// Update applies the mutation to every document matching the
	// condition and returns the number updated.
	Update(ctx context.Context, cond Condition, mut Mutation) (int, error)
	// Delete removes every document matching the condition and returns
	// the number removed.
	Delete(ctx context.Context, cond Condition) (int, error)
	// EnsureIndex builds a secondary index over the given field path.
	EnsureIndex(ctx context.Context, path any) error
	// Dump writes every stored document as one JSON line.
	Dump(ctx context.Context, w io.Writer) error
	// Load inserts one document per JSON line read from r.
	Load(ctx context.Context, r io.Reader) error
	// Len returns the number of stored documents.
	Len() int
}
