// Package value implements the closed tagged union of every scalar and
// container a document field can hold. Values are immutable once
// constructed and safe to share across goroutines.
package value

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Type identifies the variant held by a Value.
type Type int8

const (
	TypeNull Type = iota
	TypeBoolean
	TypeString
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeDate
	TypeTime
	TypeTimestamp
	TypeInterval
	TypeBinary
	TypeMap
	TypeArray
)

var typeNames = map[Type]string{
	TypeNull:      "NULL",
	TypeBoolean:   "BOOLEAN",
	TypeString:    "STRING",
	TypeByte:      "BYTE",
	TypeShort:     "SHORT",
	TypeInt:       "INT",
	TypeLong:      "LONG",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeDecimal:   "DECIMAL",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeInterval:  "INTERVAL",
	TypeBinary:    "BINARY",
	TypeMap:       "MAP",
	TypeArray:     "ARRAY",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int8(t))
}

// Numeric reports whether the type takes part in numeric comparison and
// arithmetic.
func (t Type) Numeric() bool {
	return t >= TypeByte && t <= TypeDecimal
}

// Scalar reports whether the type is a scalar (everything except MAP
// and ARRAY).
func (t Type) Scalar() bool {
	return t != TypeMap && t != TypeArray
}

// TypeError reports a literal element that cannot be represented as a
// Value.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%T is not a valid document value", e.Value)
}

// Date is a calendar date without a time-of-day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Compare orders dates chronologically.
func (d Date) Compare(o Date) int {
	if c := cmpInt(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmpInt(int(d.Month), int(o.Month)); c != 0 {
		return c
	}
	return cmpInt(d.Day, o.Day)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time is a time-of-day without a date, with millisecond precision.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// TimeOf extracts the time-of-day of t.
func TimeOf(t time.Time) Time {
	return Time{
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
	}
}

// Compare orders times-of-day chronologically.
func (t Time) Compare(o Time) int {
	if c := cmpInt(t.Hour, o.Hour); c != 0 {
		return c
	}
	if c := cmpInt(t.Minute, o.Minute); c != 0 {
		return c
	}
	if c := cmpInt(t.Second, o.Second); c != 0 {
		return c
	}
	return cmpInt(t.Millisecond, o.Millisecond)
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Value holds exactly one variant of the union. The zero Value is NULL.
type Value struct {
	t Type
	v any
}

// Type returns the variant tag.
func (v Value) Type() Type { return v.t }

// IsNull reports whether the value is the NULL variant.
func (v Value) IsNull() bool { return v.t == TypeNull }

// Bool returns the BOOLEAN payload, or false for any other variant.
func (v Value) Bool() bool {
	b, _ := v.v.(bool)
	return b
}

// Text returns the STRING payload, or "" for any other variant.
func (v Value) Text() string {
	s, _ := v.v.(string)
	return s
}

// Int64 returns the integral payload of BYTE, SHORT, INT and LONG
// values, or 0 for any other variant.
func (v Value) Int64() int64 {
	i, _ := v.v.(int64)
	return i
}

// Float64 returns the FLOAT or DOUBLE payload, or 0 for any other
// variant.
func (v Value) Float64() float64 {
	f, _ := v.v.(float64)
	return f
}

// Decimal returns a copy of the DECIMAL payload, or nil for any other
// variant.
func (v Value) Decimal() *big.Float {
	d, ok := v.v.(*big.Float)
	if !ok {
		return nil
	}
	return new(big.Float).Copy(d)
}

// Date returns the DATE payload, or the zero Date for any other
// variant.
func (v Value) Date() Date {
	d, _ := v.v.(Date)
	return d
}

// Time returns the TIME payload, or the zero Time for any other
// variant.
func (v Value) Time() Time {
	t, _ := v.v.(Time)
	return t
}

// Timestamp returns the TIMESTAMP payload, or the zero time for any
// other variant.
func (v Value) Timestamp() time.Time {
	t, _ := v.v.(time.Time)
	return t
}

// Interval returns the INTERVAL payload, or 0 for any other variant.
func (v Value) Interval() time.Duration {
	d, _ := v.v.(time.Duration)
	return d
}

// Binary returns a copy of the BINARY payload, or nil for any other
// variant.
func (v Value) Binary() []byte {
	b, ok := v.v.([]byte)
	if !ok {
		return nil
	}
	return append([]byte(nil), b...)
}

// Map returns the MAP payload, or nil for any other variant.
func (v Value) Map() *Map {
	m, _ := v.v.(*Map)
	return m
}

// Array returns a copy of the ARRAY payload, or nil for any other
// variant.
func (v Value) Array() []Value {
	a, ok := v.v.([]Value)
	if !ok {
		return nil
	}
	return append([]Value(nil), a...)
}

// Len returns the element count of MAP and ARRAY values, the byte
// count of BINARY values and the rune count of STRING values. Every
// other variant has no size and yields -1.
func (v Value) Len() int {
	switch v.t {
	case TypeString:
		return len([]rune(v.v.(string)))
	case TypeBinary:
		return len(v.v.([]byte))
	case TypeMap:
		return v.v.(*Map).Len()
	case TypeArray:
		return len(v.v.([]Value))
	default:
		return -1
	}
}

// Numeric returns the numeric payload widened to an arbitrary-precision
// float, and whether the value is numeric at all.
func (v Value) Numeric() (*big.Float, bool) {
	switch p := v.v.(type) {
	case int64:
		return new(big.Float).SetInt64(p), true
	case float64:
		return new(big.Float).SetFloat64(p), true
	case *big.Float:
		return new(big.Float).Copy(p), true
	default:
		return nil, false
	}
}

// Equal reports deep equality. Numeric variants are equal when they
// hold the same numeric quantity regardless of width; all other
// variants are equal only to the same variant. Two MAP values are equal
// when they hold identical key sets with equal values, regardless of
// insertion order.
func (v Value) Equal(o Value) bool {
	if v.t.Numeric() && o.t.Numeric() {
		a, _ := v.Numeric()
		b, _ := o.Numeric()
		return a.Cmp(b) == 0
	}
	if v.t != o.t {
		return false
	}
	switch v.t {
	case TypeNull:
		return true
	case TypeBinary:
		return bytes.Equal(v.v.([]byte), o.v.([]byte))
	case TypeMap:
		return v.v.(*Map).equal(o.v.(*Map))
	case TypeArray:
		a, b := v.v.([]Value), o.v.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case TypeTimestamp:
		return v.v.(time.Time).Equal(o.v.(time.Time))
	default:
		return v.v == o.v
	}
}

// String renders the value for diagnostics.
func (v Value) String() string {
	switch v.t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return strconv.FormatBool(v.v.(bool))
	case TypeString:
		return strconv.Quote(v.v.(string))
	case TypeByte, TypeShort, TypeInt, TypeLong:
		return strconv.FormatInt(v.v.(int64), 10)
	case TypeFloat, TypeDouble:
		return strconv.FormatFloat(v.v.(float64), 'g', -1, 64)
	case TypeDecimal:
		return v.v.(*big.Float).Text('g', -1)
	case TypeDate:
		return v.v.(Date).String()
	case TypeTime:
		return v.v.(Time).String()
	case TypeTimestamp:
		return v.v.(time.Time).UTC().Format(time.RFC3339Nano)
	case TypeInterval:
		return v.v.(time.Duration).String()
	case TypeBinary:
		return base64.StdEncoding.EncodeToString(v.v.([]byte))
	case TypeMap:
		m := v.v.(*Map)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range m.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			e, _ := m.Get(k)
			fmt.Fprintf(&b, "%q:%s", k, e)
		}
		b.WriteByte('}')
		return b.String()
	case TypeArray:
		a := v.v.([]Value)
		parts := make([]string, len(a))
		for i, e := range a {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("value(%v)", v.v)
	}
}
