// Package decoder contains the default [domain.Decoder]
// implementation, mapping document values onto user-defined Go types
// with mapstructure.
package decoder

import (
	"github.com/mitchellh/mapstructure"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/value"
)

// Decoder implements [domain.Decoder].
type Decoder struct {
	tagName string
}

// NewDecoder returns a new implementation of [domain.Decoder].
func NewDecoder(options ...domain.DecoderOption) domain.Decoder {
	opts := domain.DecoderOptions{TagName: value.TagName}
	for _, option := range options {
		option(&opts)
	}
	return &Decoder{tagName: opts.TagName}
}

// Decode implements [domain.Decoder]. target must be a pointer to the
// receiving type.
func (d *Decoder) Decode(src value.Value, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          d.tagName,
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(toAny(src))
}

// toAny lowers a value tree to the native Go shapes mapstructure walks.
func toAny(v value.Value) any {
	switch v.Type() {
	case value.TypeNull:
		return nil
	case value.TypeBoolean:
		return v.Bool()
	case value.TypeString:
		return v.Text()
	case value.TypeByte, value.TypeShort, value.TypeInt, value.TypeLong:
		return v.Int64()
	case value.TypeFloat, value.TypeDouble:
		return v.Float64()
	case value.TypeDecimal:
		return v.Decimal()
	case value.TypeDate:
		return v.Date()
	case value.TypeTime:
		return v.Time()
	case value.TypeTimestamp:
		return v.Timestamp()
	case value.TypeInterval:
		return v.Interval()
	case value.TypeBinary:
		return v.Binary()
	case value.TypeArray:
		arr := v.Array()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = toAny(e)
		}
		return out
	default:
		out := make(map[string]any, v.Map().Len())
		for k, e := range v.Map().Iter() {
			out[k] = toAny(e)
		}
		return out
	}
}
