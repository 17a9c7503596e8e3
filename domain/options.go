package domain

import "io"

// MatcherOption configures matcher construction through the functional
// options pattern.
type MatcherOption func(*MatcherOptions)

// MatcherOptions contains the collaborators of a matcher.
type MatcherOptions struct {
	// Comparer orders and compares document values.
	Comparer Comparer
}

// WithMatcherComparer injects the comparer used for relational and
// equality predicates.
func WithMatcherComparer(c Comparer) MatcherOption {
	return func(mo *MatcherOptions) {
		mo.Comparer = c
	}
}

// IDGeneratorOption configures id generation through the functional
// options pattern.
type IDGeneratorOption func(*IDGeneratorOptions)

// IDGeneratorOptions contains parameters for id generation.
type IDGeneratorOptions struct {
	// Reader is the entropy source.
	Reader io.Reader
}

// WithIDGeneratorReader sets the entropy source, useful for
// deterministic tests.
func WithIDGeneratorReader(r io.Reader) IDGeneratorOption {
	return func(io *IDGeneratorOptions) {
		io.Reader = r
	}
}

// DecoderOption configures decoding through the functional options
// pattern.
type DecoderOption func(*DecoderOptions)

// DecoderOptions contains parameters for decoding documents into Go
// types.
type DecoderOptions struct {
	// TagName is the struct tag consulted for field names.
	TagName string
}

// WithDecoderTagName overrides the struct tag consulted for field
// names.
func WithDecoderTagName(name string) DecoderOption {
	return func(do *DecoderOptions) {
		do.TagName = name
	}
}

// StoreOption configures document store construction through the
// functional options pattern.
type StoreOption func(*StoreOptions)

// StoreOptions contains the collaborators of a document store.
type StoreOptions struct {
	IDGenerator IDGenerator
	Comparer    Comparer
	Matcher     Matcher
	Applier     Applier
}

// WithStoreIDGenerator injects the id generator for documents inserted
// without an _id.
func WithStoreIDGenerator(g IDGenerator) StoreOption {
	return func(so *StoreOptions) {
		so.IDGenerator = g
	}
}

// WithStoreComparer injects the comparer used for index key ordering.
func WithStoreComparer(c Comparer) StoreOption {
	return func(so *StoreOptions) {
		so.Comparer = c
	}
}

// WithStoreMatcher injects the matcher used to evaluate conditions.
func WithStoreMatcher(m Matcher) StoreOption {
	return func(so *StoreOptions) {
		so.Matcher = m
	}
}

// WithStoreApplier injects the applier used to execute mutations.
func WithStoreApplier(a Applier) StoreOption {
	return func(so *StoreOptions) {
		so.Applier = a
	}
}
