package comparer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/finchdb/finch/pkg/value"
)

type ComparerTestSuite struct {
	suite.Suite
	c *Comparer
}

func (s *ComparerTestSuite) SetupTest() {
	s.c = NewComparer().(*Comparer)
}

func (s *ComparerTestSuite) TestNumericsAcrossWidths() {
	s.Zero(s.c.Compare(value.OfByte(5), value.OfDouble(5)))
	s.Negative(s.c.Compare(value.OfLong(4), value.OfFloat(4.5)))
	s.Positive(s.c.Compare(value.OfDouble(10), value.OfShort(9)))
	s.True(s.c.Comparable(value.OfByte(1), value.OfDouble(2)))
}

func (s *ComparerTestSuite) TestStrings() {
	s.Negative(s.c.Compare(value.OfString("a"), value.OfString("b")))
	s.Zero(s.c.Compare(value.OfString("a"), value.OfString("a")))
	s.True(s.c.Comparable(value.OfString("a"), value.OfString("b")))
}

func (s *ComparerTestSuite) TestBooleans() {
	s.Negative(s.c.Compare(value.OfBool(false), value.OfBool(true)))
	s.Zero(s.c.Compare(value.OfBool(true), value.OfBool(true)))
}

func (s *ComparerTestSuite) TestTemporal() {
	d1 := value.OfDate(value.Date{Year: 2024, Month: time.March, Day: 1})
	d2 := value.OfDate(value.Date{Year: 2024, Month: time.March, Day: 2})
	s.Negative(s.c.Compare(d1, d2))

	t1 := value.OfTime(value.Time{Hour: 8})
	t2 := value.OfTime(value.Time{Hour: 9})
	s.Negative(s.c.Compare(t1, t2))

	now := time.Now()
	s.Negative(s.c.Compare(value.OfTimestamp(now), value.OfTimestamp(now.Add(time.Second))))
	s.Negative(s.c.Compare(value.OfInterval(time.Second), value.OfInterval(time.Minute)))
}

func (s *ComparerTestSuite) TestBinaryLexicographic() {
	s.Negative(s.c.Compare(value.OfBinary([]byte{1, 2}), value.OfBinary([]byte{1, 3})))
	s.Negative(s.c.Compare(value.OfBinary([]byte{1}), value.OfBinary([]byte{1, 0})))
	s.True(s.c.Comparable(value.OfBinary(nil), value.OfBinary(nil)))
}

func (s *ComparerTestSuite) TestArraysElementwiseThenLength() {
	a := value.OfArray(value.OfLong(1), value.OfLong(2))
	b := value.OfArray(value.OfLong(1), value.OfLong(3))
	c := value.OfArray(value.OfLong(1))
	s.Negative(s.c.Compare(a, b))
	s.Positive(s.c.Compare(a, c))
	s.Zero(s.c.Compare(a, a))
}

func (s *ComparerTestSuite) TestMapsSortedKeysThenValues() {
	ab := value.OfMap(
		value.Entry{Key: "a", Value: value.OfLong(1)},
		value.Entry{Key: "b", Value: value.OfLong(2)},
	)
	ba := value.OfMap(
		value.Entry{Key: "b", Value: value.OfLong(2)},
		value.Entry{Key: "a", Value: value.OfLong(1)},
	)
	// insertion order never affects comparison
	s.Zero(s.c.Compare(ab, ba))

	ac := value.OfMap(
		value.Entry{Key: "a", Value: value.OfLong(1)},
		value.Entry{Key: "c", Value: value.OfLong(2)},
	)
	s.Negative(s.c.Compare(ab, ac))

	bigger := value.OfMap(
		value.Entry{Key: "a", Value: value.OfLong(9)},
	)
	s.Negative(s.c.Compare(ab, bigger))

	prefix := value.OfMap(value.Entry{Key: "a", Value: value.OfLong(1)})
	s.Positive(s.c.Compare(ab, prefix))
}

func (s *ComparerTestSuite) TestTypeRankIsTotal() {
	ordered := []value.Value{
		value.Null(),
		value.OfLong(1),
		value.OfString("s"),
		value.OfBool(false),
		value.OfDate(value.Date{Year: 2024, Month: 1, Day: 1}),
		value.OfTime(value.Time{}),
		value.OfTimestamp(time.Now()),
		value.OfInterval(time.Second),
		value.OfBinary([]byte{0}),
		value.OfArray(),
		value.OfMap(),
	}
	for i := range len(ordered) - 1 {
		s.Negative(s.c.Compare(ordered[i], ordered[i+1]))
		s.Positive(s.c.Compare(ordered[i+1], ordered[i]))
	}
}

func (s *ComparerTestSuite) TestNotComparable() {
	s.False(s.c.Comparable(value.OfLong(1), value.OfString("1")))
	s.False(s.c.Comparable(value.Null(), value.Null()))
	s.False(s.c.Comparable(value.OfMap(), value.OfMap()))
	s.False(s.c.Comparable(value.OfArray(), value.OfArray()))
}

func TestComparerTestSuite(t *testing.T) {
	suite.Run(t, new(ComparerTestSuite))
}
