// Package comparer contains the default [domain.Comparer]
// implementation over document values.
package comparer

import (
	"bytes"
	"cmp"
	"sort"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/value"
)

// Comparer implements [domain.Comparer].
type Comparer struct{}

// NewComparer returns a new implementation of [domain.Comparer].
func NewComparer() domain.Comparer {
	return &Comparer{}
}

// typeRank groups variants into comparison families so Compare stays
// total across types: null < numbers < strings < booleans < dates <
// times < timestamps < intervals < binary < arrays < maps.
func typeRank(t value.Type) int {
	switch {
	case t == value.TypeNull:
		return 0
	case t.Numeric():
		return 1
	case t == value.TypeString:
		return 2
	case t == value.TypeBoolean:
		return 3
	case t == value.TypeDate:
		return 4
	case t == value.TypeTime:
		return 5
	case t == value.TypeTimestamp:
		return 6
	case t == value.TypeInterval:
		return 7
	case t == value.TypeBinary:
		return 8
	case t == value.TypeArray:
		return 9
	default:
		return 10
	}
}

// Comparable implements [domain.Comparer]. Relational predicates are
// meaningful between two numerics regardless of width, and between two
// values of the same ordered scalar type. Binary values order
// lexicographically; NULL, MAP and ARRAY only support equality.
func (c *Comparer) Comparable(a, b value.Value) bool {
	if a.Type().Numeric() && b.Type().Numeric() {
		return true
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case value.TypeString, value.TypeBoolean, value.TypeDate, value.TypeTime,
		value.TypeTimestamp, value.TypeInterval, value.TypeBinary:
		return true
	default:
		return false
	}
}

// Compare implements [domain.Comparer].
func (c *Comparer) Compare(a, b value.Value) int {
	if ra, rb := typeRank(a.Type()), typeRank(b.Type()); ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch {
	case a.Type() == value.TypeNull:
		return 0
	case a.Type().Numeric():
		na, _ := a.Numeric()
		nb, _ := b.Numeric()
		return na.Cmp(nb)
	}

	switch a.Type() {
	case value.TypeString:
		return cmp.Compare(a.Text(), b.Text())
	case value.TypeBoolean:
		return compareBool(a.Bool(), b.Bool())
	case value.TypeDate:
		return a.Date().Compare(b.Date())
	case value.TypeTime:
		return a.Time().Compare(b.Time())
	case value.TypeTimestamp:
		return a.Timestamp().Compare(b.Timestamp())
	case value.TypeInterval:
		return cmp.Compare(a.Interval(), b.Interval())
	case value.TypeBinary:
		return bytes.Compare(a.Binary(), b.Binary())
	case value.TypeArray:
		return c.compareArrays(a.Array(), b.Array())
	default:
		return c.compareMaps(a.Map(), b.Map())
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}

func (c *Comparer) compareArrays(a, b []value.Value) int {
	for i := range min(len(a), len(b)) {
		if comp := c.Compare(a[i], b[i]); comp != 0 {
			return comp
		}
	}
	// common section identical, longest one wins
	return cmp.Compare(len(a), len(b))
}

// compareMaps orders maps by lexicographically sorted keys, then the
// values under them, then entry count. Insertion order never affects
// comparison.
func (c *Comparer) compareMaps(a, b *value.Map) int {
	aKeys, bKeys := a.Keys(), b.Keys()
	sort.Strings(aKeys)
	sort.Strings(bKeys)

	for i := range min(len(aKeys), len(bKeys)) {
		if comp := cmp.Compare(aKeys[i], bKeys[i]); comp != 0 {
			return comp
		}
		av, _ := a.Get(aKeys[i])
		bv, _ := b.Get(bKeys[i])
		if comp := c.Compare(av, bv); comp != 0 {
			return comp
		}
	}
	return cmp.Compare(len(aKeys), len(bKeys))
}
