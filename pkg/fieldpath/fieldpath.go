// Package fieldpath parses and represents dotted paths addressing
// locations inside a document. A path is an ordered, non-empty sequence
// of segments, each either a map key or an array index. In the text
// form segments are separated by unescaped dots and a segment made
// entirely of digits denotes an array index; a backslash escapes the
// next rune and forces the segment to be a key.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes why a path text could not be parsed.
type ParseError struct {
	Input  string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid field path %q at position %d: %s", e.Input, e.Pos, e.Reason)
}

// Segment is a single step of a FieldPath: a map key or an array index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a key segment.
func Name(name string) Segment {
	return Segment{name: name}
}

// Index returns an array index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment is an array index.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the map key for a key segment, or "" for an index
// segment.
func (s Segment) Name() string { return s.name }

// Index returns the array position for an index segment, or 0 for a
// key segment.
func (s Segment) Index() int { return s.index }

// String renders the segment in path text form, escaping whatever
// Parse would misread.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	var b strings.Builder
	for i, r := range s.name {
		// an unescaped all-digit key would re-parse as an index,
		// so its first rune is escaped
		if r == '\\' || r == '.' || (i == 0 && allDigits(s.name)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FieldPath is an immutable, ordered, non-empty sequence of segments.
// The zero FieldPath is empty and not a valid path.
type FieldPath struct {
	segments []Segment
}

// New returns a FieldPath made of the given segments.
func New(segments ...Segment) (FieldPath, error) {
	if len(segments) == 0 {
		return FieldPath{}, &ParseError{Reason: "path needs at least one segment"}
	}
	for i, s := range segments {
		if s.isIndex && s.index < 0 {
			return FieldPath{}, &ParseError{Pos: i, Reason: "array index cannot be negative"}
		}
		if !s.isIndex && s.name == "" {
			return FieldPath{}, &ParseError{Pos: i, Reason: "empty segment name"}
		}
	}
	return FieldPath{segments: append([]Segment(nil), segments...)}, nil
}

// Parse converts a dotted path text into a FieldPath. Parsing is total
// and deterministic: the same text always yields the same path, and
// rendering the result parses back to an equal path.
func Parse(text string) (FieldPath, error) {
	if text == "" {
		return FieldPath{}, &ParseError{Input: text, Reason: "empty path"}
	}

	var (
		segments []Segment
		seg      strings.Builder
		escaped  bool
		start    int
	)
	runes := []rune(text)

	flush := func(end int) error {
		if seg.Len() == 0 {
			return &ParseError{Input: text, Pos: start, Reason: "empty segment"}
		}
		segments = append(segments, classify(seg.String(), escaped))
		seg.Reset()
		escaped = false
		start = end + 1
		return nil
	}

	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\\':
			if i == len(runes)-1 {
				return FieldPath{}, &ParseError{Input: text, Pos: i, Reason: "unterminated escape sequence"}
			}
			escaped = true
			i++
			seg.WriteRune(runes[i])
		case '.':
			if err := flush(i); err != nil {
				return FieldPath{}, err
			}
		default:
			seg.WriteRune(r)
		}
	}
	if err := flush(len(runes)); err != nil {
		return FieldPath{}, err
	}
	return FieldPath{segments: segments}, nil
}

// MustParse is Parse for paths known to be valid; it panics on error.
func MustParse(text string) FieldPath {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func classify(token string, escaped bool) Segment {
	if escaped || !allDigits(token) {
		return Name(token)
	}
	i, err := strconv.Atoi(token)
	if err != nil || i < 0 {
		// digit run too large for an int index, keep it as a key
		return Name(token)
	}
	return Index(i)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Len returns the number of segments.
func (p FieldPath) Len() int { return len(p.segments) }

// At returns the i-th segment.
func (p FieldPath) At(i int) Segment { return p.segments[i] }

// Segments returns a copy of the segment sequence.
func (p FieldPath) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// IsZero reports whether the path has no segments.
func (p FieldPath) IsZero() bool { return len(p.segments) == 0 }

// Equal reports whether both paths have equal segment sequences.
func (p FieldPath) Equal(o FieldPath) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != o.segments[i] {
			return false
		}
	}
	return true
}

// String renders the path in its text form.
func (p FieldPath) String() string {
	parts := make([]string, len(p.segments))
	for i, s := range p.segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
