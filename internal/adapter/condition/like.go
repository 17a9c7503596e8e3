package condition

import (
	"regexp"
	"strings"

	"github.com/finchdb/finch/domain"
)

// translateLike converts a SQL LIKE pattern into an anchored regular
// expression. '%' matches any run of characters, '_' matches exactly
// one. A non-zero escape rune makes the following wildcard (or the
// escape itself) literal.
func translateLike(pattern string, escape rune) (*regexp.Regexp, error) {
	if escape == '%' || escape == '_' {
		return nil, domain.ErrInvalidPattern{Pattern: pattern, Reason: "escape character cannot be a wildcard"}
	}

	var sb strings.Builder
	sb.WriteString("(?s)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if escape != 0 && r == escape {
			if i == len(runes)-1 {
				return nil, domain.ErrInvalidPattern{Pattern: pattern, Reason: "pattern ends with the escape character"}
			}
			next := runes[i+1]
			if next != '%' && next != '_' && next != escape {
				return nil, domain.ErrInvalidPattern{Pattern: pattern, Reason: "escape character must precede a wildcard or itself"}
			}
			sb.WriteString(regexp.QuoteMeta(string(next)))
			i++
			continue
		}
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, domain.ErrInvalidPattern{Pattern: pattern, Err: err}
	}
	return re, nil
}
