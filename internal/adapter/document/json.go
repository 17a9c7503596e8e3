package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/value"
)

// FromJSON parses a JSON document into a MAP value, preserving field
// order. Comments and trailing commas are tolerated. Numbers without a
// fraction or exponent decode as LONG, the rest as DOUBLE.
func FromJSON(data []byte) (value.Value, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return value.Value{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return value.Value{}, err
	}
	if v.Type() != value.TypeMap {
		return value.Value{}, domain.ErrNotADocument{Got: v.Type()}
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			return parseMap(dec)
		}
		return parseArray(dec)
	case string:
		return value.OfString(t), nil
	case bool:
		return value.OfBool(t), nil
	case json.Number:
		return parseNumber(t)
	default: // nil token, a JSON null
		return value.Null(), nil
	}
}

func parseMap(dec *json.Decoder) (value.Value, error) {
	var entries []value.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		key := tok.(string)
		v, err := parseValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		entries = append(entries, value.Entry{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return value.Value{}, err
	}
	return value.OfMap(entries...), nil
}

func parseArray(dec *json.Decoder) (value.Value, error) {
	var vals []value.Value
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return value.Value{}, err
	}
	return value.OfArray(vals...), nil
}

func parseNumber(n json.Number) (value.Value, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		i, err := n.Int64()
		if err == nil {
			return value.OfLong(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return value.Value{}, err
	}
	return value.OfDouble(f), nil
}

// ToJSON renders a value as compact JSON with deterministic output:
// map fields keep insertion order, dates, times, timestamps and
// intervals render as their quoted text forms and binary as base64.
func ToJSON(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v value.Value) error {
	switch v.Type() {
	case value.TypeNull:
		buf.WriteString("null")
	case value.TypeBoolean:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case value.TypeString:
		return writeString(buf, v.Text())
	case value.TypeByte, value.TypeShort, value.TypeInt, value.TypeLong:
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
	case value.TypeFloat, value.TypeDouble:
		buf.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case value.TypeDecimal:
		buf.WriteString(v.Decimal().Text('g', -1))
	case value.TypeDate:
		return writeString(buf, v.Date().String())
	case value.TypeTime:
		return writeString(buf, v.Time().String())
	case value.TypeTimestamp:
		return writeString(buf, v.Timestamp().Format("2006-01-02T15:04:05.000Z07:00"))
	case value.TypeInterval:
		return writeString(buf, v.Interval().String())
	case value.TypeBinary:
		return writeString(buf, base64.StdEncoding.EncodeToString(v.Binary()))
	case value.TypeArray:
		buf.WriteByte('[')
		for i, e := range v.Array() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteByte('{')
		first := true
		for k, e := range v.Map().Iter() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
