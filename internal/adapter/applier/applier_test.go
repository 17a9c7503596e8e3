package applier

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/internal/adapter/document"
	"github.com/finchdb/finch/internal/adapter/mutation"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

type ApplierTestSuite struct {
	suite.Suite
	a domain.Applier
}

func (s *ApplierTestSuite) SetupTest() {
	s.a = NewApplier()
}

func (s *ApplierTestSuite) doc(text string) value.Value {
	v, err := document.FromJSON([]byte(text))
	s.Require().NoError(err)
	return v
}

func (s *ApplierTestSuite) apply(doc value.Value, mut domain.Mutation) value.Value {
	out, err := s.a.Apply(doc, mut)
	s.Require().NoError(err)
	return out
}

func (s *ApplierTestSuite) at(doc value.Value, keys ...string) value.Value {
	current := doc
	for _, k := range keys {
		v, ok := current.Map().Get(k)
		s.Require().True(ok, "missing %q", k)
		current = v
	}
	return current
}

func (s *ApplierTestSuite) TestRootMustBeMap() {
	_, err := s.a.Apply(value.OfLong(1), mutation.NewMutation())
	s.ErrorIs(err, domain.ErrNotADocument{Got: value.TypeLong})
}

func (s *ApplierTestSuite) TestUnknownMutationKindFails() {
	// an unrecognized kind must error instead of falling through to
	// delete
	a := &Applier{}
	op := domain.MutationOp{Path: fieldpath.MustParse("a"), Kind: domain.MutationKind(99)}
	_, err := a.applyOp(s.doc(`{"a": 1}`), op)
	s.ErrorIs(err, domain.ErrUnknownMutation{Kind: domain.MutationKind(99)})
}

func (s *ApplierTestSuite) TestBuilderErrorPropagates() {
	mut := mutation.NewMutation().Increment("a", "oops")
	_, err := s.a.Apply(s.doc(`{}`), mut)
	s.ErrorIs(err, domain.ErrInvalidPayload{Kind: domain.MutationIncrement, Got: value.TypeString})
}

func (s *ApplierTestSuite) TestInputIsNeverModified() {
	before := s.doc(`{"a": 1}`)
	out := s.apply(before, mutation.NewMutation().Set("a", 2).Set("b", 3))

	s.Equal(int64(1), s.at(before, "a").Int64())
	s.Equal(1, before.Len())
	s.Equal(int64(2), s.at(out, "a").Int64())
	s.Equal(int64(3), s.at(out, "b").Int64())
}

func (s *ApplierTestSuite) TestSetCreatesMissingIntermediates() {
	out := s.apply(s.doc(`{}`), mutation.NewMutation().Set("a.b.c", 10))
	s.Equal(int64(10), s.at(out, "a", "b", "c").Int64())
}

func (s *ApplierTestSuite) TestSetSameVariantReplaces() {
	out := s.apply(s.doc(`{"a": 1}`), mutation.NewMutation().Set("a", 2))
	s.Equal(int64(2), s.at(out, "a").Int64())
}

func (s *ApplierTestSuite) TestSetVariantMismatchFails() {
	_, err := s.a.Apply(s.doc(`{"a": 1}`), mutation.NewMutation().Set("a", "text"))
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)
	s.Equal("a", e.Path)
}

func (s *ApplierTestSuite) TestSetNullIsCompatibleBothWays() {
	out := s.apply(s.doc(`{"a": 1}`), mutation.NewMutation().SetNull("a"))
	s.True(s.at(out, "a").IsNull())

	out = s.apply(s.doc(`{"a": null}`), mutation.NewMutation().Set("a", "text"))
	s.Equal("text", s.at(out, "a").Text())
}

func (s *ApplierTestSuite) TestSetIntermediateMismatchFails() {
	_, err := s.a.Apply(s.doc(`{"a": [1, 2]}`), mutation.NewMutation().Set("a.b.c", 10))
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)
}

func (s *ApplierTestSuite) TestSetOrReplaceBulldozesMismatchedSegments() {
	out := s.apply(s.doc(`{"a": [1, 2]}`), mutation.NewMutation().SetOrReplace("a.b.c", 10))
	s.Equal(int64(10), s.at(out, "a", "b", "c").Int64())
}

func (s *ApplierTestSuite) TestSetOrReplaceLeafMismatch() {
	out := s.apply(s.doc(`{"a": 1}`), mutation.NewMutation().SetOrReplace("a", "text"))
	s.Equal("text", s.at(out, "a").Text())
}

func (s *ApplierTestSuite) TestSetIntoArrayIndexPadsWithNulls() {
	out := s.apply(s.doc(`{"a": [1]}`), mutation.NewMutation().Set("a.3", 9))
	arr := s.at(out, "a").Array()
	s.Len(arr, 4)
	s.True(arr[1].IsNull())
	s.True(arr[2].IsNull())
	s.Equal(int64(9), arr[3].Int64())
}

func (s *ApplierTestSuite) TestAppendCreatesAbsentField() {
	out := s.apply(s.doc(`{}`), mutation.NewMutation().
		Append("x", "hello").
		Append("x", " world"))
	s.Equal("hello world", s.at(out, "x").Text())
}

func (s *ApplierTestSuite) TestAppendArray() {
	out := s.apply(s.doc(`{"tags": ["a"]}`), mutation.NewMutation().Append("tags", []any{"b", "c"}))
	arr := s.at(out, "tags").Array()
	s.Len(arr, 3)
	s.Equal("c", arr[2].Text())
}

func (s *ApplierTestSuite) TestAppendBinary() {
	base := value.OfMap(value.Entry{Key: "b", Value: value.OfBinary([]byte{1})})
	out := s.apply(base, mutation.NewMutation().Append("b", []byte{2, 3}))
	s.Equal([]byte{1, 2, 3}, s.at(out, "b").Binary())
}

func (s *ApplierTestSuite) TestAppendFamilyMismatch() {
	_, err := s.a.Apply(s.doc(`{"x": "text"}`), mutation.NewMutation().Append("x", []any{1}))
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)
}

func (s *ApplierTestSuite) TestMergeRecursive() {
	out := s.apply(
		s.doc(`{"a": {"x": 1, "sub": {"keep": true}}}`),
		mutation.NewMutation().Merge("a", map[string]any{
			"y":   2,
			"sub": map[string]any{"new": "v"},
		}),
	)
	s.Equal(int64(1), s.at(out, "a", "x").Int64())
	s.Equal(int64(2), s.at(out, "a", "y").Int64())
	s.Equal(true, s.at(out, "a", "sub", "keep").Bool())
	s.Equal("v", s.at(out, "a", "sub", "new").Text())
}

func (s *ApplierTestSuite) TestMergeIntoAbsentCreates() {
	out := s.apply(s.doc(`{}`), mutation.NewMutation().Merge("a", map[string]any{"x": 1}))
	s.Equal(int64(1), s.at(out, "a", "x").Int64())
}

func (s *ApplierTestSuite) TestMergeIntoNonMapFails() {
	_, err := s.a.Apply(s.doc(`{"a": 3}`), mutation.NewMutation().Merge("a", map[string]any{"x": 1}))
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)
}

func (s *ApplierTestSuite) TestIncrementCoercesToStoredType() {
	base := value.OfMap(value.Entry{Key: "n", Value: value.OfInt(60)})
	out := s.apply(base, mutation.NewMutation().Increment("n", 5.675))
	got := s.at(out, "n")
	s.Equal(value.TypeInt, got.Type())
	s.Equal(int64(65), got.Int64())
}

func (s *ApplierTestSuite) TestIncrementDoubleKeepsFraction() {
	out := s.apply(s.doc(`{"n": 1.5}`), mutation.NewMutation().Increment("n", 1))
	got := s.at(out, "n")
	s.Equal(value.TypeDouble, got.Type())
	s.InDelta(2.5, got.Float64(), 1e-9)
}

func (s *ApplierTestSuite) TestIncrementAbsentTakesIncrementType() {
	out := s.apply(s.doc(`{}`), mutation.NewMutation().Increment("n", value.OfFloat(2.5)))
	got := s.at(out, "n")
	s.Equal(value.TypeFloat, got.Type())
	s.InDelta(2.5, got.Float64(), 1e-6)
}

func (s *ApplierTestSuite) TestIncrementNonNumericFails() {
	_, err := s.a.Apply(s.doc(`{"n": "1"}`), mutation.NewMutation().Increment("n", 1))
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)
}

func (s *ApplierTestSuite) TestDeleteField() {
	out := s.apply(s.doc(`{"a": 1, "b": 2}`), mutation.NewMutation().Delete("a"))
	_, ok := out.Map().Get("a")
	s.False(ok)
	s.Equal(int64(2), s.at(out, "b").Int64())
}

func (s *ApplierTestSuite) TestDeleteArrayElement() {
	out := s.apply(s.doc(`{"a": [1, 2, 3]}`), mutation.NewMutation().Delete("a.1"))
	arr := s.at(out, "a").Array()
	s.Len(arr, 2)
	s.Equal(int64(1), arr[0].Int64())
	s.Equal(int64(3), arr[1].Int64())
}

func (s *ApplierTestSuite) TestDeleteMissingIsNoOp() {
	before := s.doc(`{"a": 1}`)
	out := s.apply(before, mutation.NewMutation().Delete("ghost").Delete("a.b.c").Delete("a.0"))
	s.True(out.Equal(before))
}

func (s *ApplierTestSuite) TestOpsApplyInInsertionOrder() {
	out := s.apply(s.doc(`{}`), mutation.NewMutation().
		Set("a", 1).
		Increment("a", 1).
		SetOrReplace("a", "final"))
	s.Equal("final", s.at(out, "a").Text())
}

func TestApplierTestSuite(t *testing.T) {
	suite.Run(t, new(ApplierTestSuite))
}
