// Package mutation contains the default [domain.Mutation]
// implementation: an ordered, append-only list of field operations.
package mutation

import (
	"iter"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// Mutation implements [domain.Mutation].
type Mutation struct {
	ops []domain.MutationOp
	err error
}

// NewMutation returns a new, empty implementation of [domain.Mutation].
func NewMutation() domain.Mutation {
	return &Mutation{}
}

func (m *Mutation) fail(err error) *Mutation {
	if m.err == nil {
		m.err = err
	}
	return m
}

// record resolves the path and appends the op. Payload validation
// happens before calling record so a failed op leaves the list
// untouched.
func (m *Mutation) record(path any, kind domain.MutationKind, v value.Value) domain.Mutation {
	if m.err != nil {
		return m
	}
	fp, err := resolvePath(path)
	if err != nil {
		return m.fail(err)
	}
	m.ops = append(m.ops, domain.MutationOp{Path: fp, Kind: kind, Value: v})
	return m
}

func resolvePath(path any) (fieldpath.FieldPath, error) {
	switch p := path.(type) {
	case fieldpath.FieldPath:
		if p.IsZero() {
			return fieldpath.FieldPath{}, &fieldpath.ParseError{Reason: "empty path"}
		}
		return p, nil
	case string:
		return fieldpath.Parse(p)
	default:
		return fieldpath.FieldPath{}, &fieldpath.ParseError{Reason: "path must be a string or a fieldpath.FieldPath"}
	}
}

// Empty implements [domain.Mutation].
func (m *Mutation) Empty() domain.Mutation {
	m.ops = nil
	m.err = nil
	return m
}

// SetNull implements [domain.Mutation].
func (m *Mutation) SetNull(path any) domain.Mutation {
	return m.record(path, domain.MutationSetNull, value.Null())
}

// Set implements [domain.Mutation].
func (m *Mutation) Set(path any, v any) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.Of(v)
	if err != nil {
		return m.fail(err)
	}
	return m.record(path, domain.MutationSet, val)
}

// SetOrReplaceNull implements [domain.Mutation].
func (m *Mutation) SetOrReplaceNull(path any) domain.Mutation {
	return m.record(path, domain.MutationSetOrReplaceNull, value.Null())
}

// SetOrReplace implements [domain.Mutation].
func (m *Mutation) SetOrReplace(path any, v any) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.Of(v)
	if err != nil {
		return m.fail(err)
	}
	return m.record(path, domain.MutationSetOrReplace, val)
}

// Append implements [domain.Mutation]. The payload must itself be an
// array, string or binary value; what family the stored field belongs
// to is checked at apply time.
func (m *Mutation) Append(path any, v any) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.Of(v)
	if err != nil {
		return m.fail(err)
	}
	switch val.Type() {
	case value.TypeArray, value.TypeString, value.TypeBinary:
	default:
		return m.fail(domain.ErrInvalidPayload{Kind: domain.MutationAppend, Got: val.Type()})
	}
	return m.record(path, domain.MutationAppend, val)
}

// AppendBinaryRange implements [domain.Mutation].
func (m *Mutation) AppendBinaryRange(path any, b []byte, offset, n int) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.OfBinaryRange(b, offset, n)
	if err != nil {
		return m.fail(err)
	}
	return m.record(path, domain.MutationAppend, val)
}

// Merge implements [domain.Mutation].
func (m *Mutation) Merge(path any, payload any) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.Of(payload)
	if err != nil {
		return m.fail(err)
	}
	if val.Type() != value.TypeMap {
		return m.fail(domain.ErrInvalidPayload{Kind: domain.MutationMerge, Got: val.Type()})
	}
	return m.record(path, domain.MutationMerge, val)
}

// Increment implements [domain.Mutation].
func (m *Mutation) Increment(path any, inc any) domain.Mutation {
	if m.err != nil {
		return m
	}
	val, err := value.Of(inc)
	if err != nil {
		return m.fail(err)
	}
	if !val.Type().Numeric() {
		return m.fail(domain.ErrInvalidPayload{Kind: domain.MutationIncrement, Got: val.Type()})
	}
	return m.record(path, domain.MutationIncrement, val)
}

// Delete implements [domain.Mutation].
func (m *Mutation) Delete(path any) domain.Mutation {
	return m.record(path, domain.MutationDelete, value.Null())
}

// Len implements [domain.Mutation].
func (m *Mutation) Len() int { return len(m.ops) }

// Ops implements [domain.Mutation]. The sequence captures the current
// op list; operations recorded later do not show up in a sequence
// obtained earlier.
func (m *Mutation) Ops() iter.Seq[domain.MutationOp] {
	ops := m.ops
	return func(yield func(domain.MutationOp) bool) {
		for _, op := range ops {
			if !yield(op) {
				return
			}
		}
	}
}

// Err implements [domain.Mutation].
func (m *Mutation) Err() error { return m.err }
