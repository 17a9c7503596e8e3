// Package finch provides a storage-engine-agnostic document client
// core: a typed value model, field path addressing, a nested boolean
// condition builder and an ordered mutation builder.
//
// Conditions and mutations are pure in-memory construction protocols.
// A built [Condition] and a [Mutation] op list are the two artifacts
// handed to an execution collaborator; [NewDocumentStore] creates the
// bundled in-memory reference implementation of one.
package finch

import (
	"io"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/internal/adapter/applier"
	"github.com/finchdb/finch/internal/adapter/comparer"
	"github.com/finchdb/finch/internal/adapter/condition"
	"github.com/finchdb/finch/internal/adapter/decoder"
	"github.com/finchdb/finch/internal/adapter/docstore"
	"github.com/finchdb/finch/internal/adapter/document"
	"github.com/finchdb/finch/internal/adapter/idgenerator"
	"github.com/finchdb/finch/internal/adapter/matcher"
	"github.com/finchdb/finch/internal/adapter/mutation"
	"github.com/finchdb/finch/pkg/value"
)

// Condition builds a nested boolean predicate tree over document
// fields. See [domain.Condition].
type Condition = domain.Condition

// Mutation accumulates an ordered list of field-level mutation
// operations. See [domain.Mutation].
type Mutation = domain.Mutation

// Comparer provides equality and ordering for document values.
type Comparer = domain.Comparer

// Matcher evaluates a built condition against a document root value.
type Matcher = domain.Matcher

// Applier executes a mutation's operations against a document root
// value.
type Applier = domain.Applier

// Decoder converts document values into user-defined Go types.
type Decoder = domain.Decoder

// IDGenerator creates identifiers for documents inserted without one.
type IDGenerator = domain.IDGenerator

// DocumentStore is the in-memory reference execution collaborator.
type DocumentStore = domain.DocumentStore

// Document is a stored document root together with its _id.
type Document = domain.Document

// Op identifies a leaf predicate operation.
type Op = domain.Op

// ErrConditionBuilt is returned when a built condition receives another
// mutating call.
type ErrConditionBuilt = domain.ErrConditionBuilt

// ErrConditionNotBuilt is returned when an unbuilt condition is spliced
// into another condition or handed to an execution collaborator.
type ErrConditionNotBuilt = domain.ErrConditionNotBuilt

// ErrNoOpenBlock is returned by [Condition.Close] when no compound
// block is open.
type ErrNoOpenBlock = domain.ErrNoOpenBlock

// ErrLeafOutsideBlock is returned when a node is added after the root
// slot is taken and no compound block is open to receive it.
type ErrLeafOutsideBlock = domain.ErrLeafOutsideBlock

// ErrNotRelational is returned when an op that is not one of the six
// ordering comparisons is passed where a relational op is required.
type ErrNotRelational = domain.ErrNotRelational

// ErrInvalidPattern is returned when a regular expression or LIKE
// pattern cannot be compiled.
type ErrInvalidPattern = domain.ErrInvalidPattern

// ErrInvalidPayload is returned when a mutation payload type cannot be
// valid for the operation kind.
type ErrInvalidPayload = domain.ErrInvalidPayload

// ErrUnknownMutation is returned when a mutation op carries a kind the
// applier does not know how to apply.
type ErrUnknownMutation = domain.ErrUnknownMutation

// ErrTypeMismatch is returned when an operation payload conflicts with
// the type already stored at the path.
type ErrTypeMismatch = domain.ErrTypeMismatch

// ErrNotADocument is returned when a document root is not a MAP value.
type ErrNotADocument = domain.ErrNotADocument

// ErrDuplicateID is returned when an inserted document carries an _id
// that is already stored.
type ErrDuplicateID = domain.ErrDuplicateID

// NewCondition creates a new, empty condition builder.
func NewCondition() Condition {
	return condition.NewCondition()
}

// NewMutation creates a new, empty mutation builder.
func NewMutation() Mutation {
	return mutation.NewMutation()
}

// NewComparer creates the default comparer over document values.
func NewComparer() Comparer {
	return comparer.NewComparer()
}

// NewMatcher creates a matcher with the provided configuration options:
//
// - [WithMatcherComparer]: sets the comparer used for relational and
// equality predicates.
func NewMatcher(options ...domain.MatcherOption) Matcher {
	return matcher.NewMatcher(options...)
}

// NewApplier creates the default mutation applier.
func NewApplier() Applier {
	return applier.NewApplier()
}

// NewDecoder creates a decoder with the provided configuration options:
//
// - [WithDecoderTagName]: overrides the struct tag consulted for field
// names.
func NewDecoder(options ...domain.DecoderOption) Decoder {
	return decoder.NewDecoder(options...)
}

// NewIDGenerator creates an id generator with the provided
// configuration options:
//
// - [WithIDGeneratorReader]: sets the entropy source.
func NewIDGenerator(options ...domain.IDGeneratorOption) IDGenerator {
	return idgenerator.NewIDGenerator(options...)
}

// NewDocumentStore creates an in-memory document store with the
// provided configuration options:
//
// - [WithStoreIDGenerator]: sets the id generator for documents
// inserted without an _id.
//
// - [WithStoreComparer]: sets the comparer used for index key ordering.
//
// - [WithStoreMatcher]: sets the matcher used to evaluate conditions.
//
// - [WithStoreApplier]: sets the applier used to execute mutations.
func NewDocumentStore(options ...domain.StoreOption) DocumentStore {
	return docstore.NewDocumentStore(options...)
}

// FromJSON parses a JSON document into a MAP value, preserving field
// order. Comments and trailing commas are tolerated.
func FromJSON(data []byte) (value.Value, error) {
	return document.FromJSON(data)
}

// ToJSON renders a value as compact JSON with deterministic output.
func ToJSON(v value.Value) ([]byte, error) {
	return document.ToJSON(v)
}

// MatcherOption configures matcher construction through the functional
// options pattern.
type MatcherOption = domain.MatcherOption

// WithMatcherComparer injects the comparer used for relational and
// equality predicates.
func WithMatcherComparer(c Comparer) MatcherOption {
	return domain.WithMatcherComparer(c)
}

// DecoderOption configures decoding through the functional options
// pattern.
type DecoderOption = domain.DecoderOption

// WithDecoderTagName overrides the struct tag consulted for field
// names.
func WithDecoderTagName(name string) DecoderOption {
	return domain.WithDecoderTagName(name)
}

// IDGeneratorOption configures id generation through the functional
// options pattern.
type IDGeneratorOption = domain.IDGeneratorOption

// WithIDGeneratorReader sets the entropy source, useful for
// deterministic tests.
func WithIDGeneratorReader(r io.Reader) IDGeneratorOption {
	return domain.WithIDGeneratorReader(r)
}

// StoreOption configures document store construction through the
// functional options pattern.
type StoreOption = domain.StoreOption

// WithStoreIDGenerator injects the id generator for documents inserted
// without an _id.
func WithStoreIDGenerator(g IDGenerator) StoreOption {
	return domain.WithStoreIDGenerator(g)
}

// WithStoreComparer injects the comparer used for index key ordering.
func WithStoreComparer(c Comparer) StoreOption {
	return domain.WithStoreComparer(c)
}

// WithStoreMatcher injects the matcher used to evaluate conditions.
func WithStoreMatcher(m Matcher) StoreOption {
	return domain.WithStoreMatcher(m)
}

// WithStoreApplier injects the applier used to execute mutations.
func WithStoreApplier(a Applier) StoreOption {
	return domain.WithStoreApplier(a)
}
