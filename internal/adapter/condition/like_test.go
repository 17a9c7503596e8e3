package condition

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finchdb/finch/domain"
)

type LikeTestSuite struct {
	suite.Suite
}

func (s *LikeTestSuite) match(pattern string, escape rune, input string) bool {
	re, err := translateLike(pattern, escape)
	s.Require().NoError(err)
	return re.MatchString(input)
}

func (s *LikeTestSuite) TestPercentWildcard() {
	s.True(s.match("abc%", 0, "abcdef"))
	s.True(s.match("abc%", 0, "abc"))
	s.False(s.match("abc%", 0, "abX"))
	s.True(s.match("%def", 0, "abcdef"))
	s.True(s.match("a%f", 0, "af"))
}

func (s *LikeTestSuite) TestUnderscoreWildcard() {
	s.True(s.match("a_c", 0, "abc"))
	s.False(s.match("a_c", 0, "ac"))
	s.False(s.match("a_c", 0, "abbc"))
}

func (s *LikeTestSuite) TestAnchored() {
	s.False(s.match("bc", 0, "abcd"))
	s.True(s.match("%bc%", 0, "abcd"))
}

func (s *LikeTestSuite) TestRegexMetaIsLiteral() {
	s.True(s.match("a.b", 0, "a.b"))
	s.False(s.match("a.b", 0, "aXb"))
	s.True(s.match("(x)%", 0, "(x)!"))
}

func (s *LikeTestSuite) TestWildcardMatchesNewline() {
	s.True(s.match("a%b", 0, "a\nb"))
}

func (s *LikeTestSuite) TestCustomEscape() {
	s.True(s.match(`a#%b`, '#', "a%b"))
	s.False(s.match(`a#%b`, '#', "aXb"))
	s.True(s.match(`a#_b`, '#', "a_b"))
	s.True(s.match(`a##b`, '#', "a#b"))
}

func (s *LikeTestSuite) TestEscapeErrors() {
	_, err := translateLike("a%", '%')
	e := domain.ErrInvalidPattern{}
	s.ErrorAs(err, &e)

	_, err = translateLike("a#", '#')
	s.ErrorAs(err, &e)

	_, err = translateLike("a#b", '#')
	s.ErrorAs(err, &e)
}

func (s *LikeTestSuite) TestNoEscapeConfigured() {
	// without a configured escape, '#' is an ordinary literal
	s.True(s.match("a#b", 0, "a#b"))
}

func TestLikeTestSuite(t *testing.T) {
	suite.Run(t, new(LikeTestSuite))
}
