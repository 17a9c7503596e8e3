package value

import (
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"
)

// TagName is the struct tag consulted when converting structs to MAP
// values.
const TagName = "finch"

var (
	timeTyp     = goreflect.TypeOf(*new(time.Time))
	durationTyp = goreflect.TypeOf(*new(time.Duration))
)

// Null returns the NULL value.
func Null() Value { return Value{} }

// OfBool returns a BOOLEAN value.
func OfBool(b bool) Value { return Value{t: TypeBoolean, v: b} }

// OfString returns a STRING value.
func OfString(s string) Value { return Value{t: TypeString, v: s} }

// OfByte returns a BYTE value.
func OfByte(b int8) Value { return Value{t: TypeByte, v: int64(b)} }

// OfShort returns a SHORT value.
func OfShort(s int16) Value { return Value{t: TypeShort, v: int64(s)} }

// OfInt returns an INT value.
func OfInt(i int32) Value { return Value{t: TypeInt, v: int64(i)} }

// OfLong returns a LONG value.
func OfLong(l int64) Value { return Value{t: TypeLong, v: l} }

// OfFloat returns a FLOAT value.
func OfFloat(f float32) Value { return Value{t: TypeFloat, v: float64(f)} }

// OfDouble returns a DOUBLE value.
func OfDouble(d float64) Value { return Value{t: TypeDouble, v: d} }

// OfDecimal returns a DECIMAL value holding a copy of d. A nil d is
// treated as zero.
func OfDecimal(d *big.Float) Value {
	c := new(big.Float)
	if d != nil {
		c.Copy(d)
	}
	return Value{t: TypeDecimal, v: c}
}

// OfDecimalString parses text as an arbitrary-precision DECIMAL value.
func OfDecimalString(text string) (Value, error) {
	d, _, err := big.ParseFloat(text, 10, 236, big.ToNearestEven)
	if err != nil {
		return Value{}, &TypeError{Value: text}
	}
	return Value{t: TypeDecimal, v: d}, nil
}

// OfDate returns a DATE value.
func OfDate(d Date) Value { return Value{t: TypeDate, v: d} }

// OfTime returns a TIME value.
func OfTime(t Time) Value { return Value{t: TypeTime, v: t} }

// OfTimestamp returns a TIMESTAMP value with millisecond precision in
// UTC.
func OfTimestamp(t time.Time) Value {
	return Value{t: TypeTimestamp, v: t.UTC().Truncate(time.Millisecond)}
}

// OfInterval returns an INTERVAL value.
func OfInterval(d time.Duration) Value { return Value{t: TypeInterval, v: d} }

// OfBinary returns a BINARY value holding a copy of b.
func OfBinary(b []byte) Value {
	return Value{t: TypeBinary, v: append([]byte(nil), b...)}
}

// OfBinaryRange returns a BINARY value holding a copy of the n bytes of
// b starting at offset. Only the addressed slice is read; b itself is
// never modified.
func OfBinaryRange(b []byte, offset, n int) (Value, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return Value{}, &TypeError{Value: b}
	}
	return Value{t: TypeBinary, v: append([]byte(nil), b[offset:offset+n]...)}, nil
}

// OfMap returns a MAP value from entries in order.
func OfMap(entries ...Entry) Value {
	return Value{t: TypeMap, v: NewMap(entries...)}
}

// OfArray returns an ARRAY value holding a copy of vals.
func OfArray(vals ...Value) Value {
	return Value{t: TypeArray, v: append([]Value(nil), vals...)}
}

// Of converts an arbitrary Go value to a Value. It is the single
// generic entry point covering every variant: Values pass through,
// native scalars map to their variant, slices become ARRAY, maps and
// structs become MAP (map keys are sorted for determinism, struct
// fields keep declaration order and honor the "finch" tag). Containers
// are validated recursively, depth-first; an unsupported element fails
// with a *TypeError before any partial structure is retained.
func Of(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return OfBool(t), nil
	case string:
		return OfString(t), nil
	case int8:
		return OfByte(t), nil
	case int16:
		return OfShort(t), nil
	case int32:
		return OfInt(t), nil
	case int64:
		return OfLong(t), nil
	case int:
		return OfLong(int64(t)), nil
	case uint8:
		return OfShort(int16(t)), nil
	case uint16:
		return OfInt(int32(t)), nil
	case uint32:
		return OfLong(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Value{}, &TypeError{Value: v}
		}
		return OfLong(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, &TypeError{Value: v}
		}
		return OfLong(int64(t)), nil
	case float32:
		return OfFloat(t), nil
	case float64:
		return OfDouble(t), nil
	case *big.Float:
		return OfDecimal(t), nil
	case Date:
		return OfDate(t), nil
	case Time:
		return OfTime(t), nil
	case time.Time:
		return OfTimestamp(t), nil
	case time.Duration:
		return OfInterval(t), nil
	case []byte:
		if t == nil {
			return Null(), nil
		}
		return OfBinary(t), nil
	case []Value:
		if t == nil {
			return Null(), nil
		}
		return OfArray(t...), nil
	case []Entry:
		if t == nil {
			return Null(), nil
		}
		return Value{t: TypeMap, v: NewMap(t...)}, nil
	case *Map:
		if t == nil {
			return Null(), nil
		}
		return Value{t: TypeMap, v: t}, nil
	case []any:
		if t == nil {
			return Null(), nil
		}
		vals := make([]Value, len(t))
		for i, e := range t {
			ev, err := Of(e)
			if err != nil {
				return Value{}, err
			}
			vals[i] = ev
		}
		return Value{t: TypeArray, v: vals}, nil
	case map[string]any:
		if t == nil {
			return Null(), nil
		}
		return ofStringMap(t)
	default:
		return ofReflect(goreflect.ValueNoEscapeOf(v))
	}
}

// MustOf is Of for inputs known to be valid; it panics on error.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

func ofStringMap(m map[string]any) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		ev, err := Of(m[k])
		if err != nil {
			return Value{}, err
		}
		entries[i] = Entry{Key: k, Value: ev}
	}
	return Value{t: TypeMap, v: NewMap(entries...)}, nil
}

func ofReflect(r goreflect.Value) (Value, error) {
	for r.Kind() == goreflect.Interface || r.Kind() == reflect.Pointer {
		if r.IsNil() {
			return Null(), nil
		}
		r = r.Elem()
	}

	switch r.Kind() {
	case goreflect.Invalid:
		return Null(), nil
	case goreflect.Bool:
		return OfBool(r.Bool()), nil
	case goreflect.String:
		return OfString(r.String()), nil
	case goreflect.Int8:
		return OfByte(int8(r.Int())), nil
	case goreflect.Int16:
		return OfShort(int16(r.Int())), nil
	case goreflect.Int32:
		return OfInt(int32(r.Int())), nil
	case goreflect.Int, goreflect.Int64:
		if r.Type() == durationTyp {
			return OfInterval(time.Duration(r.Int())), nil
		}
		return OfLong(r.Int()), nil
	case goreflect.Uint8:
		return OfShort(int16(r.Uint())), nil
	case goreflect.Uint16:
		return OfInt(int32(r.Uint())), nil
	case goreflect.Uint32:
		return OfLong(int64(r.Uint())), nil
	case goreflect.Uint, goreflect.Uint64:
		if r.Uint() > math.MaxInt64 {
			return Value{}, &TypeError{Value: r.Interface()}
		}
		return OfLong(int64(r.Uint())), nil
	case goreflect.Float32:
		return OfFloat(float32(r.Float())), nil
	case goreflect.Float64:
		return OfDouble(r.Float()), nil
	case goreflect.Slice:
		if r.IsNil() {
			return Null(), nil
		}
		if r.Type().Elem().Kind() == goreflect.Uint8 {
			return OfBinary(r.Bytes()), nil
		}
		return ofReflectList(r)
	case goreflect.Array:
		return ofReflectList(r)
	case goreflect.Map:
		if r.IsNil() {
			return Null(), nil
		}
		return ofReflectMap(r)
	case goreflect.Struct:
		if r.Type() == timeTyp {
			return OfTimestamp(r.Interface().(time.Time)), nil
		}
		return ofReflectStruct(r)
	default:
		return Value{}, &TypeError{Value: r.Interface()}
	}
}

func ofReflectList(r goreflect.Value) (Value, error) {
	n := r.Len()
	vals := make([]Value, n)
	for i := range n {
		ev, err := ofReflect(r.Index(i))
		if err != nil {
			return Value{}, err
		}
		vals[i] = ev
	}
	return Value{t: TypeArray, v: vals}, nil
}

func ofReflectMap(r goreflect.Value) (Value, error) {
	if r.Type().Key().Kind() != goreflect.String {
		return Value{}, &TypeError{Value: r.Interface()}
	}
	keys := make([]string, 0, r.Len())
	for _, k := range r.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		ev, err := ofReflect(r.MapIndex(goreflect.ValueOf(k)))
		if err != nil {
			return Value{}, err
		}
		entries[i] = Entry{Key: k, Value: ev}
	}
	return Value{t: TypeMap, v: NewMap(entries...)}, nil
}

func ofReflectStruct(r goreflect.Value) (Value, error) {
	typ := r.Type()
	numField := r.NumField()
	entries := make([]Entry, 0, numField)

	for n := range numField {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		var tagSegments []string
		if tag, ok := field.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			tagSegments = strings.Split(tag, ",")
			if tagSegments[0] != "" {
				name = tagSegments[0]
			}
			tagSegments = tagSegments[1:]
		}
		fv := r.Field(n)
		if hasSegment(tagSegments, "omitzero") && fv.IsZero() {
			continue
		}
		ev, err := ofReflect(fv)
		if err != nil {
			return Value{}, err
		}
		if hasSegment(tagSegments, "omitempty") && ev.IsNull() {
			continue
		}
		entries = append(entries, Entry{Key: name, Value: ev})
	}
	return Value{t: TypeMap, v: NewMap(entries...)}, nil
}

func hasSegment(segments []string, want string) bool {
	for _, s := range segments {
		if s == want {
			return true
		}
	}
	return false
}
