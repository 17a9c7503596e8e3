package docstore

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/internal/adapter/condition"
	"github.com/finchdb/finch/internal/adapter/document"
	"github.com/finchdb/finch/internal/adapter/mutation"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

type DocumentStoreTestSuite struct {
	suite.Suite
	ctx context.Context
	st  domain.DocumentStore
}

func (s *DocumentStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.st = NewDocumentStore()
}

func (s *DocumentStoreTestSuite) doc(text string) value.Value {
	v, err := document.FromJSON([]byte(text))
	s.Require().NoError(err)
	return v
}

func (s *DocumentStoreTestSuite) seed() {
	_, err := s.st.Insert(s.ctx,
		s.doc(`{"_id": "u1", "name": "ada", "age": 36}`),
		s.doc(`{"_id": "u2", "name": "bob", "age": 20}`),
		s.doc(`{"_id": "u3", "name": "cyd", "age": 36}`),
	)
	s.Require().NoError(err)
}

func (s *DocumentStoreTestSuite) TestInsertGeneratesIDs() {
	docs, err := s.st.Insert(s.ctx, s.doc(`{"a": 1}`), s.doc(`{"a": 2}`))
	s.NoError(err)
	s.Len(docs, 2)
	s.NotEmpty(docs[0].ID)
	s.NotEqual(docs[0].ID, docs[1].ID)

	id, ok := document.ID(docs[0].Root)
	s.True(ok)
	s.Equal(docs[0].ID, id)
	s.Equal(2, s.st.Len())
}

func (s *DocumentStoreTestSuite) TestInsertKeepsProvidedID() {
	docs, err := s.st.Insert(s.ctx, s.doc(`{"_id": "x", "a": 1}`))
	s.NoError(err)
	s.Equal("x", docs[0].ID)
}

func (s *DocumentStoreTestSuite) TestInsertDuplicateIDRejectsWholeBatch() {
	s.seed()
	_, err := s.st.Insert(s.ctx, s.doc(`{"_id": "new"}`), s.doc(`{"_id": "u1"}`))
	s.ErrorIs(err, domain.ErrDuplicateID{ID: "u1"})
	s.Equal(3, s.st.Len())

	_, err = s.st.Insert(s.ctx, s.doc(`{"_id": "twin"}`), s.doc(`{"_id": "twin"}`))
	s.ErrorIs(err, domain.ErrDuplicateID{ID: "twin"})
	s.Equal(3, s.st.Len())
}

func (s *DocumentStoreTestSuite) TestInsertRejectsNonMapRoot() {
	_, err := s.st.Insert(s.ctx, value.OfLong(1))
	s.ErrorIs(err, domain.ErrNotADocument{Got: value.TypeLong})
}

func (s *DocumentStoreTestSuite) TestInsertRejectsNonStringID() {
	_, err := s.st.Insert(s.ctx, s.doc(`{"_id": 7}`))
	s.ErrorIs(err, domain.ErrInvalidID{Got: value.TypeLong})
}

func (s *DocumentStoreTestSuite) TestFindAll() {
	s.seed()
	docs, err := s.st.Find(s.ctx, nil)
	s.NoError(err)
	s.Len(docs, 3)
	// insertion order
	s.Equal("u1", docs[0].ID)
	s.Equal("u3", docs[2].ID)
}

func (s *DocumentStoreTestSuite) TestFindWithCondition() {
	s.seed()
	cond := condition.NewCondition().Equals("age", 36).Build()
	docs, err := s.st.Find(s.ctx, cond)
	s.NoError(err)
	s.Len(docs, 2)
	s.Equal("u1", docs[0].ID)
	s.Equal("u3", docs[1].ID)
}

func (s *DocumentStoreTestSuite) TestFindUnbuiltCondition() {
	s.seed()
	_, err := s.st.Find(s.ctx, condition.NewCondition().Equals("age", 36))
	s.ErrorIs(err, domain.ErrConditionNotBuilt{})
}

func (s *DocumentStoreTestSuite) TestErroredConditionNeverSelects() {
	s.seed()
	e := &fieldpath.ParseError{}

	_, err := s.st.Find(s.ctx, condition.NewCondition().Equals("bad..path", 1).Build())
	s.ErrorAs(err, &e)

	n, err := s.st.Delete(s.ctx, condition.NewCondition().Equals("bad..path", 1).Build())
	s.ErrorAs(err, &e)
	s.Zero(n)
	s.Equal(3, s.st.Len())

	n, err = s.st.Update(s.ctx,
		condition.NewCondition().Equals("bad..path", 1).Build(),
		mutation.NewMutation().Set("checked", true))
	s.ErrorAs(err, &e)
	s.Zero(n)

	// the store being empty makes no difference
	_, err = NewDocumentStore().Find(s.ctx, condition.NewCondition().Equals("bad..path", 1).Build())
	s.ErrorAs(err, &e)
}

func (s *DocumentStoreTestSuite) TestUpdate() {
	s.seed()
	cond := condition.NewCondition().Equals("age", 36).Build()
	mut := mutation.NewMutation().Increment("age", 1).Set("checked", true)

	n, err := s.st.Update(s.ctx, cond, mut)
	s.NoError(err)
	s.Equal(2, n)

	docs, err := s.st.Find(s.ctx, condition.NewCondition().Equals("age", 37).Build())
	s.NoError(err)
	s.Len(docs, 2)
	checked, _ := docs[0].Root.Map().Get("checked")
	s.True(checked.Bool())
}

func (s *DocumentStoreTestSuite) TestUpdateCannotChangeID() {
	s.seed()
	mut := mutation.NewMutation().SetOrReplace("_id", "hijack")
	n, err := s.st.Update(s.ctx, condition.NewCondition().Equals("_id", "u1").Build(), mut)
	s.NoError(err)
	s.Equal(1, n)

	docs, err := s.st.Find(s.ctx, condition.NewCondition().Equals("_id", "u1").Build())
	s.NoError(err)
	s.Len(docs, 1)
}

func (s *DocumentStoreTestSuite) TestUpdateFailedApplyChangesNothing() {
	s.seed()
	mut := mutation.NewMutation().Set("name", 42) // variant mismatch
	_, err := s.st.Update(s.ctx, nil, mut)
	e := domain.ErrTypeMismatch{}
	s.ErrorAs(err, &e)

	docs, err := s.st.Find(s.ctx, condition.NewCondition().Equals("name", "ada").Build())
	s.NoError(err)
	s.Len(docs, 1)
}

func (s *DocumentStoreTestSuite) TestDelete() {
	s.seed()
	n, err := s.st.Delete(s.ctx, condition.NewCondition().Equals("age", 36).Build())
	s.NoError(err)
	s.Equal(2, n)
	s.Equal(1, s.st.Len())

	docs, err := s.st.Find(s.ctx, nil)
	s.NoError(err)
	s.Equal("u2", docs[0].ID)
}

func (s *DocumentStoreTestSuite) TestIndexedEquality() {
	s.seed()
	s.NoError(s.st.EnsureIndex(s.ctx, "age"))
	// indexing twice is a no-op
	s.NoError(s.st.EnsureIndex(s.ctx, "age"))

	docs, err := s.st.Find(s.ctx, condition.NewCondition().Equals("age", 36).Build())
	s.NoError(err)
	s.Len(docs, 2)
	s.Equal("u1", docs[0].ID)
	s.Equal("u3", docs[1].ID)
}

func (s *DocumentStoreTestSuite) TestIndexFollowsUpdatesAndDeletes() {
	s.seed()
	s.NoError(s.st.EnsureIndex(s.ctx, "age"))

	_, err := s.st.Update(s.ctx,
		condition.NewCondition().Equals("_id", "u2").Build(),
		mutation.NewMutation().Set("age", 36))
	s.NoError(err)

	docs, err := s.st.Find(s.ctx, condition.NewCondition().Equals("age", 36).Build())
	s.NoError(err)
	s.Len(docs, 3)

	_, err = s.st.Delete(s.ctx, condition.NewCondition().Equals("_id", "u1").Build())
	s.NoError(err)

	docs, err = s.st.Find(s.ctx, condition.NewCondition().Equals("age", 36).Build())
	s.NoError(err)
	s.Len(docs, 2)
}

func (s *DocumentStoreTestSuite) TestIndexSkipsDocsWithoutField() {
	s.seed()
	_, err := s.st.Insert(s.ctx, s.doc(`{"_id": "u4", "name": "dee"}`))
	s.NoError(err)
	s.NoError(s.st.EnsureIndex(s.ctx, "age"))

	docs, err := s.st.Find(s.ctx, condition.NewCondition().NotExists("age").Build())
	s.NoError(err)
	s.Len(docs, 1)
	s.Equal("u4", docs[0].ID)
}

func (s *DocumentStoreTestSuite) TestDumpAndLoad() {
	s.seed()
	var buf bytes.Buffer
	s.NoError(s.st.Dump(s.ctx, &buf))
	s.Equal(3, strings.Count(buf.String(), "\n"))

	other := NewDocumentStore()
	s.NoError(other.Load(s.ctx, &buf))
	s.Equal(3, other.Len())

	docs, err := other.Find(s.ctx, condition.NewCondition().Equals("name", "bob").Build())
	s.NoError(err)
	s.Len(docs, 1)
	s.Equal("u2", docs[0].ID)
}

func (s *DocumentStoreTestSuite) TestLoadSkipsBlankLines() {
	input := `{"_id": "a"}

{"_id": "b"}
`
	s.NoError(s.st.Load(s.ctx, strings.NewReader(input)))
	s.Equal(2, s.st.Len())
}

func (s *DocumentStoreTestSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.st.Insert(ctx, s.doc(`{}`))
	s.ErrorIs(err, context.Canceled)
	_, err = s.st.Find(ctx, nil)
	s.ErrorIs(err, context.Canceled)
	_, err = s.st.Update(ctx, nil, mutation.NewMutation())
	s.ErrorIs(err, context.Canceled)
	_, err = s.st.Delete(ctx, nil)
	s.ErrorIs(err, context.Canceled)
	s.ErrorIs(s.st.EnsureIndex(ctx, "a"), context.Canceled)
}

type mockIDGenerator struct {
	mock.Mock
}

func (m *mockIDGenerator) GenerateID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (s *DocumentStoreTestSuite) TestInsertUsesIDGenerator() {
	g := &mockIDGenerator{}
	g.On("GenerateID").Return("fixed-id", nil).Once()

	st := NewDocumentStore(domain.WithStoreIDGenerator(g))
	docs, err := st.Insert(s.ctx, s.doc(`{"a": 1}`))
	s.NoError(err)
	s.Equal("fixed-id", docs[0].ID)
	g.AssertExpectations(s.T())
}

func (s *DocumentStoreTestSuite) TestInsertIDGeneratorFailure() {
	g := &mockIDGenerator{}
	g.On("GenerateID").Return("", errors.New("entropy exhausted"))

	st := NewDocumentStore(domain.WithStoreIDGenerator(g))
	_, err := st.Insert(s.ctx, s.doc(`{"a": 1}`))
	s.EqualError(err, "entropy exhausted")
	s.Zero(st.Len())
}

func TestDocumentStoreTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentStoreTestSuite))
}
