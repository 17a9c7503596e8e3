// Package matcher contains the default [domain.Matcher]
// implementation: in-memory evaluation of built condition trees against
// document values.
package matcher

import (
	"cmp"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/internal/adapter/comparer"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// Matcher implements [domain.Matcher].
type Matcher struct {
	comparer domain.Comparer
}

// NewMatcher returns a new implementation of [domain.Matcher].
func NewMatcher(options ...domain.MatcherOption) domain.Matcher {
	opts := domain.MatcherOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	return &Matcher{comparer: opts.Comparer}
}

// Match implements [domain.Matcher]. Construction errors and unbuilt
// conditions are rejected before the empty-matches-all rule applies: a
// condition that failed to build has zero leaves, and treating it as
// empty would silently select everything.
func (m *Matcher) Match(doc value.Value, cond domain.Condition) (bool, error) {
	if cond == nil {
		return true, nil
	}
	if err := cond.Err(); err != nil {
		return false, err
	}
	if !cond.IsBuilt() {
		return false, domain.ErrConditionNotBuilt{}
	}
	root := cond.Root()
	if root == nil {
		return true, nil
	}
	return m.eval(doc, root), nil
}

func (m *Matcher) eval(doc value.Value, n *domain.ConditionNode) bool {
	if n.Compound {
		if n.BoolOp == domain.CompoundAnd {
			for _, child := range n.Children {
				if !m.eval(doc, child) {
					return false
				}
			}
			return true
		}
		for _, child := range n.Children {
			if m.eval(doc, child) {
				return true
			}
		}
		// an empty block places no constraint
		return len(n.Children) == 0
	}

	v, found := resolve(doc, n.Path)

	switch n.Op {
	case domain.OpExists:
		return found
	case domain.OpNotExists:
		return !found
	}
	// a missing field satisfies nothing else, NOT_EQUAL included
	if !found {
		return false
	}

	switch n.Op {
	case domain.OpEqual:
		return v.Equal(n.Operand)
	case domain.OpNotEqual:
		return !v.Equal(n.Operand)
	case domain.OpLess, domain.OpLessOrEqual, domain.OpGreaterOrEqual, domain.OpGreater:
		if !m.comparer.Comparable(v, n.Operand) {
			return false
		}
		return holds(n.Op, m.comparer.Compare(v, n.Operand))
	case domain.OpIn:
		for _, candidate := range n.Operands {
			if v.Equal(candidate) {
				return true
			}
		}
		return false
	case domain.OpNotIn:
		for _, candidate := range n.Operands {
			if v.Equal(candidate) {
				return false
			}
		}
		return true
	case domain.OpTypeOf:
		return v.Type() == n.ValueType
	case domain.OpNotTypeOf:
		return v.Type() != n.ValueType
	case domain.OpMatches, domain.OpLike:
		return v.Type() == value.TypeString && n.Pattern.MatchString(v.Text())
	case domain.OpNotMatches, domain.OpNotLike:
		return v.Type() == value.TypeString && !n.Pattern.MatchString(v.Text())
	case domain.OpSizeOf:
		size := v.Len()
		if size < 0 {
			return false
		}
		return holds(n.SizeOp, cmp.Compare(int64(size), n.Size))
	default:
		return false
	}
}

// holds reports whether a three-way comparison result satisfies the
// relational op.
func holds(op domain.Op, comp int) bool {
	switch op {
	case domain.OpLess:
		return comp < 0
	case domain.OpLessOrEqual:
		return comp <= 0
	case domain.OpEqual:
		return comp == 0
	case domain.OpNotEqual:
		return comp != 0
	case domain.OpGreaterOrEqual:
		return comp >= 0
	default:
		return comp > 0
	}
}

// resolve walks the path through nested maps and arrays and returns the
// addressed value. The second result is false when any segment is
// missing or addresses into the wrong container type.
func resolve(doc value.Value, path fieldpath.FieldPath) (value.Value, bool) {
	current := doc
	for i := range path.Len() {
		seg := path.At(i)
		switch {
		case seg.IsIndex():
			if current.Type() != value.TypeArray {
				return value.Value{}, false
			}
			arr := current.Array()
			if seg.Index() >= len(arr) {
				return value.Value{}, false
			}
			current = arr[seg.Index()]
		default:
			if current.Type() != value.TypeMap {
				return value.Value{}, false
			}
			next, ok := current.Map().Get(seg.Name())
			if !ok {
				return value.Value{}, false
			}
			current = next
		}
	}
	return current, true
}
