// Package document contains helpers over document root values: the
// reserved _id field and a JSON codec used for dump and load.
package document

import (
	"github.com/finchdb/finch/pkg/value"
)

// IDField is the reserved document identifier field.
const IDField = "_id"

// ID returns the _id of a document root when it holds a STRING.
func ID(root value.Value) (string, bool) {
	if root.Type() != value.TypeMap {
		return "", false
	}
	v, ok := root.Map().Get(IDField)
	if !ok || v.Type() != value.TypeString {
		return "", false
	}
	return v.Text(), true
}

// WithID returns a copy of the document root carrying id under _id,
// placed first. The rest of the field order is preserved.
func WithID(root value.Value, id string) value.Value {
	entries := []value.Entry{{Key: IDField, Value: value.OfString(id)}}
	for k, v := range root.Map().Iter() {
		if k == IDField {
			continue
		}
		entries = append(entries, value.Entry{Key: k, Value: v})
	}
	return value.OfMap(entries...)
}
