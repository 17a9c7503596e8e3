// Package applier contains the default [domain.Applier]
// implementation: it executes mutation operations against immutable
// document values, rebuilding the affected branch of the tree.
package applier

import (
	"math/big"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// Applier implements [domain.Applier].
type Applier struct{}

// NewApplier returns a new implementation of [domain.Applier].
func NewApplier() domain.Applier {
	return &Applier{}
}

// leafFn computes the new value at the addressed field. found reports
// whether the field already held a value.
type leafFn func(existing value.Value, found bool) (value.Value, error)

// Apply implements [domain.Applier].
func (a *Applier) Apply(doc value.Value, mut domain.Mutation) (value.Value, error) {
	if doc.Type() != value.TypeMap {
		return value.Value{}, domain.ErrNotADocument{Got: doc.Type()}
	}
	if mut == nil {
		return doc, nil
	}
	if err := mut.Err(); err != nil {
		return value.Value{}, err
	}

	current := doc
	for op := range mut.Ops() {
		next, err := a.applyOp(current, op)
		if err != nil {
			return value.Value{}, err
		}
		current = next
	}
	return current, nil
}

func (a *Applier) applyOp(doc value.Value, op domain.MutationOp) (value.Value, error) {
	switch op.Kind {
	case domain.MutationSet, domain.MutationSetNull:
		return a.set(doc, op, false, func(existing value.Value, found bool) (value.Value, error) {
			if found && existing.Type() != value.TypeNull &&
				op.Value.Type() != value.TypeNull && existing.Type() != op.Value.Type() {
				return value.Value{}, domain.ErrTypeMismatch{
					Path: op.Path.String(), Kind: op.Kind,
					Got: existing.Type(), Want: op.Value.Type().String(),
				}
			}
			return op.Value, nil
		})
	case domain.MutationSetOrReplace, domain.MutationSetOrReplaceNull:
		return a.set(doc, op, true, func(value.Value, bool) (value.Value, error) {
			return op.Value, nil
		})
	case domain.MutationAppend:
		return a.set(doc, op, false, func(existing value.Value, found bool) (value.Value, error) {
			return appendTo(existing, found, op)
		})
	case domain.MutationMerge:
		return a.set(doc, op, false, func(existing value.Value, found bool) (value.Value, error) {
			if !found || existing.Type() == value.TypeNull {
				return op.Value, nil
			}
			if existing.Type() != value.TypeMap {
				return value.Value{}, domain.ErrTypeMismatch{
					Path: op.Path.String(), Kind: op.Kind,
					Got: existing.Type(), Want: value.TypeMap.String(),
				}
			}
			return mergeMaps(existing, op.Value), nil
		})
	case domain.MutationIncrement:
		return a.set(doc, op, false, func(existing value.Value, found bool) (value.Value, error) {
			if !found {
				return op.Value, nil
			}
			if !existing.Type().Numeric() {
				return value.Value{}, domain.ErrTypeMismatch{
					Path: op.Path.String(), Kind: op.Kind,
					Got: existing.Type(), Want: "a numeric type",
				}
			}
			base, _ := existing.Numeric()
			inc, _ := op.Value.Numeric()
			return coerceNumeric(existing.Type(), new(big.Float).Add(base, inc)), nil
		})
	case domain.MutationDelete:
		return deleteAt(doc, op.Path, 0), nil
	default:
		return value.Value{}, domain.ErrUnknownMutation{Kind: op.Kind}
	}
}

// set rebuilds the branch of doc addressed by op.Path and installs the
// value computed by leaf. Missing intermediate name segments create
// maps; index segments pad arrays with NULLs. In strict mode an
// existing intermediate of the wrong container type is an error; in
// destructive mode it is replaced.
func (a *Applier) set(doc value.Value, op domain.MutationOp, destructive bool, leaf leafFn) (value.Value, error) {
	return a.setAt(doc, op, 0, destructive, leaf)
}

func (a *Applier) setAt(container value.Value, op domain.MutationOp, depth int, destructive bool, leaf leafFn) (value.Value, error) {
	seg := op.Path.At(depth)
	last := depth == op.Path.Len()-1

	if seg.IsIndex() {
		var arr []value.Value
		switch {
		case container.Type() == value.TypeArray:
			arr = container.Array()
		case container.Type() == value.TypeNull:
		case destructive:
		default:
			return value.Value{}, domain.ErrTypeMismatch{
				Path: op.Path.String(), Kind: op.Kind,
				Got: container.Type(), Want: value.TypeArray.String(),
			}
		}
		found := seg.Index() < len(arr)
		for len(arr) <= seg.Index() {
			arr = append(arr, value.Null())
		}
		if last {
			v, err := leaf(arr[seg.Index()], found)
			if err != nil {
				return value.Value{}, err
			}
			arr[seg.Index()] = v
			return value.OfArray(arr...), nil
		}
		child := value.Null()
		if found {
			child = arr[seg.Index()]
		}
		v, err := a.setAt(child, op, depth+1, destructive, leaf)
		if err != nil {
			return value.Value{}, err
		}
		arr[seg.Index()] = v
		return value.OfArray(arr...), nil
	}

	var entries []value.Entry
	switch {
	case container.Type() == value.TypeMap:
		entries = container.Map().Entries()
	case container.Type() == value.TypeNull:
	case destructive:
	default:
		return value.Value{}, domain.ErrTypeMismatch{
			Path: op.Path.String(), Kind: op.Kind,
			Got: container.Type(), Want: value.TypeMap.String(),
		}
	}

	at := -1
	for i, e := range entries {
		if e.Key == seg.Name() {
			at = i
			break
		}
	}

	if last {
		existing := value.Null()
		if at >= 0 {
			existing = entries[at].Value
		}
		v, err := leaf(existing, at >= 0)
		if err != nil {
			return value.Value{}, err
		}
		if at >= 0 {
			entries[at].Value = v
		} else {
			entries = append(entries, value.Entry{Key: seg.Name(), Value: v})
		}
		return value.OfMap(entries...), nil
	}

	child := value.Null()
	if at >= 0 {
		child = entries[at].Value
	}
	v, err := a.setAt(child, op, depth+1, destructive, leaf)
	if err != nil {
		return value.Value{}, err
	}
	if at >= 0 {
		entries[at].Value = v
	} else {
		entries = append(entries, value.Entry{Key: seg.Name(), Value: v})
	}
	return value.OfMap(entries...), nil
}

// appendTo concatenates an array, string or binary payload onto a field
// of the same type, creating the field when absent.
func appendTo(existing value.Value, found bool, op domain.MutationOp) (value.Value, error) {
	if !found || existing.Type() == value.TypeNull {
		return op.Value, nil
	}
	if existing.Type() != op.Value.Type() {
		return value.Value{}, domain.ErrTypeMismatch{
			Path: op.Path.String(), Kind: op.Kind,
			Got: existing.Type(), Want: op.Value.Type().String(),
		}
	}
	switch existing.Type() {
	case value.TypeArray:
		return value.OfArray(append(existing.Array(), op.Value.Array()...)...), nil
	case value.TypeString:
		return value.OfString(existing.Text() + op.Value.Text()), nil
	default:
		return value.OfBinary(append(existing.Binary(), op.Value.Binary()...)), nil
	}
}

// mergeMaps recursively folds src into dst. Map values under a shared
// key merge; any other collision is won by src. Key order of dst is
// preserved, new keys append in src order.
func mergeMaps(dst, src value.Value) value.Value {
	entries := dst.Map().Entries()
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	for key, sv := range src.Map().Iter() {
		i, ok := index[key]
		if !ok {
			index[key] = len(entries)
			entries = append(entries, value.Entry{Key: key, Value: sv})
			continue
		}
		dv := entries[i].Value
		if dv.Type() == value.TypeMap && sv.Type() == value.TypeMap {
			entries[i].Value = mergeMaps(dv, sv)
		} else {
			entries[i].Value = sv
		}
	}
	return value.OfMap(entries...)
}

// coerceNumeric converts a sum back to the numeric type the field held
// before the increment. Integral conversions truncate toward zero.
func coerceNumeric(t value.Type, sum *big.Float) value.Value {
	switch t {
	case value.TypeByte:
		i, _ := sum.Int64()
		return value.OfByte(int8(i))
	case value.TypeShort:
		i, _ := sum.Int64()
		return value.OfShort(int16(i))
	case value.TypeInt:
		i, _ := sum.Int64()
		return value.OfInt(int32(i))
	case value.TypeLong:
		i, _ := sum.Int64()
		return value.OfLong(i)
	case value.TypeFloat:
		f, _ := sum.Float32()
		return value.OfFloat(f)
	case value.TypeDouble:
		f, _ := sum.Float64()
		return value.OfDouble(f)
	default:
		return value.OfDecimal(sum)
	}
}

// deleteAt removes the addressed field, rebuilding the branch above it.
// A missing or unreachable path leaves the document untouched.
func deleteAt(container value.Value, path fieldpath.FieldPath, depth int) value.Value {
	seg := path.At(depth)
	last := depth == path.Len()-1

	if seg.IsIndex() {
		if container.Type() != value.TypeArray {
			return container
		}
		arr := container.Array()
		if seg.Index() >= len(arr) {
			return container
		}
		if last {
			arr = append(arr[:seg.Index()], arr[seg.Index()+1:]...)
			return value.OfArray(arr...)
		}
		arr[seg.Index()] = deleteAt(arr[seg.Index()], path, depth+1)
		return value.OfArray(arr...)
	}

	if container.Type() != value.TypeMap {
		return container
	}
	m := container.Map()
	if _, ok := m.Get(seg.Name()); !ok {
		return container
	}
	entries := m.Entries()
	if last {
		kept := entries[:0]
		for _, e := range entries {
			if e.Key != seg.Name() {
				kept = append(kept, e)
			}
		}
		return value.OfMap(kept...)
	}
	for i, e := range entries {
		if e.Key == seg.Name() {
			entries[i].Value = deleteAt(e.Value, path, depth+1)
			break
		}
	}
	return value.OfMap(entries...)
}
