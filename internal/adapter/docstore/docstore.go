// Package docstore contains an in-memory [domain.DocumentStore]: the
// reference execution collaborator that consumes built conditions and
// mutation op lists.
package docstore

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/bst"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/internal/adapter/applier"
	"github.com/finchdb/finch/internal/adapter/comparer"
	"github.com/finchdb/finch/internal/adapter/document"
	"github.com/finchdb/finch/internal/adapter/idgenerator"
	"github.com/finchdb/finch/internal/adapter/matcher"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// DocumentStore implements [domain.DocumentStore]. Documents are kept
// by _id with their insertion order preserved; secondary indexes are
// binary search trees keyed by the indexed field's value.
type DocumentStore struct {
	mu       sync.RWMutex
	idgen    domain.IDGenerator
	comparer domain.Comparer
	matcher  domain.Matcher
	applier  domain.Applier
	docs     map[string]value.Value
	order    []string
	indexes  map[string]*storeIndex
}

type storeIndex struct {
	path fieldpath.FieldPath
	tree *bst.BinarySearchTree
}

// NewDocumentStore returns a new, empty implementation of
// [domain.DocumentStore].
func NewDocumentStore(options ...domain.StoreOption) domain.DocumentStore {
	opts := domain.StoreOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = idgenerator.NewIDGenerator()
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	if opts.Matcher == nil {
		opts.Matcher = matcher.NewMatcher(domain.WithMatcherComparer(opts.Comparer))
	}
	if opts.Applier == nil {
		opts.Applier = applier.NewApplier()
	}
	return &DocumentStore{
		idgen:    opts.IDGenerator,
		comparer: opts.Comparer,
		matcher:  opts.Matcher,
		applier:  opts.Applier,
		docs:     make(map[string]value.Value),
		indexes:  make(map[string]*storeIndex),
	}
}

// Insert implements [domain.DocumentStore]. The batch is validated
// before anything is stored: one bad document rejects the whole call.
func (s *DocumentStore) Insert(ctx context.Context, roots ...value.Value) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Document, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for i, root := range roots {
		if root.Type() != value.TypeMap {
			return nil, domain.ErrNotADocument{Got: root.Type()}
		}
		id, ok := document.ID(root)
		switch {
		case ok:
			root = document.WithID(root, id) // normalize _id to the front
		default:
			if raw, present := root.Map().Get(document.IDField); present {
				return nil, domain.ErrInvalidID{Got: raw.Type()}
			}
			generated, err := s.idgen.GenerateID()
			if err != nil {
				return nil, err
			}
			id = generated
			root = document.WithID(root, id)
		}
		if _, dup := s.docs[id]; dup {
			return nil, domain.ErrDuplicateID{ID: id}
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrDuplicateID{ID: id}
		}
		seen[id] = struct{}{}
		out[i] = domain.Document{ID: id, Root: root}
	}

	for _, d := range out {
		s.docs[d.ID] = d.Root
		s.order = append(s.order, d.ID)
		s.index(d.ID, d.Root)
	}
	return out, nil
}

// Find implements [domain.DocumentStore].
func (s *DocumentStore) Find(ctx context.Context, cond domain.Condition) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(cond)
}

func (s *DocumentStore) find(cond domain.Condition) ([]domain.Document, error) {
	// reject bad conditions before scanning, so they fail the same way
	// against an empty store
	if cond != nil {
		if err := cond.Err(); err != nil {
			return nil, err
		}
		if !cond.IsBuilt() {
			return nil, domain.ErrConditionNotBuilt{}
		}
	}
	if ids, ok := s.indexedLookup(cond); ok {
		out := make([]domain.Document, 0, len(ids))
		for _, id := range s.order {
			if _, hit := ids[id]; hit {
				out = append(out, domain.Document{ID: id, Root: s.docs[id]})
			}
		}
		return out, nil
	}

	var out []domain.Document
	for _, id := range s.order {
		root := s.docs[id]
		ok, err := s.matcher.Match(root, cond)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, domain.Document{ID: id, Root: root})
		}
	}
	return out, nil
}

// indexedLookup answers a single equality leaf straight from a
// secondary index instead of scanning.
func (s *DocumentStore) indexedLookup(cond domain.Condition) (map[string]struct{}, bool) {
	if cond == nil || !cond.IsBuilt() || cond.Err() != nil {
		return nil, false
	}
	root := cond.Root()
	if root == nil || root.Compound || root.Op != domain.OpEqual {
		return nil, false
	}
	idx, ok := s.indexes[root.Path.String()]
	if !ok {
		return nil, false
	}
	ids := make(map[string]struct{})
	for _, data := range idx.tree.Search(root.Operand) {
		ids[data.(string)] = struct{}{}
	}
	return ids, true
}

// Update implements [domain.DocumentStore].
func (s *DocumentStore) Update(ctx context.Context, cond domain.Condition, mut domain.Mutation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.find(cond)
	if err != nil {
		return 0, err
	}
	updated := make([]domain.Document, 0, len(matches))
	for _, d := range matches {
		next, err := s.applier.Apply(d.Root, mut)
		if err != nil {
			return 0, err
		}
		// mutations never move a document to another _id
		if id, ok := document.ID(next); !ok || id != d.ID {
			next = document.WithID(next, d.ID)
		}
		updated = append(updated, domain.Document{ID: d.ID, Root: next})
	}
	for _, d := range updated {
		s.unindex(d.ID, s.docs[d.ID])
		s.docs[d.ID] = d.Root
		s.index(d.ID, d.Root)
	}
	return len(updated), nil
}

// Delete implements [domain.DocumentStore].
func (s *DocumentStore) Delete(ctx context.Context, cond domain.Condition) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.find(cond)
	if err != nil {
		return 0, err
	}
	removed := make(map[string]struct{}, len(matches))
	for _, d := range matches {
		s.unindex(d.ID, d.Root)
		delete(s.docs, d.ID)
		removed[d.ID] = struct{}{}
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return len(matches), nil
}

// EnsureIndex implements [domain.DocumentStore]. Documents without a
// value at the indexed path are left out of the index and keep being
// found by scans.
func (s *DocumentStore) EnsureIndex(ctx context.Context, path any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fp, err := resolvePath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fp.String()
	if _, ok := s.indexes[name]; ok {
		return nil
	}
	idx := &storeIndex{
		path: fp,
		tree: bst.NewBinarySearchTree(bst.Options{
			CompareKeys: func(a, b any) int {
				return s.comparer.Compare(a.(value.Value), b.(value.Value))
			},
		}),
	}
	for _, id := range s.order {
		if key, ok := lookup(s.docs[id], fp); ok {
			if err := idx.tree.Insert(key, id); err != nil {
				return err
			}
		}
	}
	s.indexes[name] = idx
	return nil
}

// Dump implements [domain.DocumentStore]. Output is one compact JSON
// document per line, in insertion order.
func (s *DocumentStore) Dump(ctx context.Context, w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cw := contextio.NewWriter(ctx, w)
	for _, id := range s.order {
		line, err := document.ToJSON(s.docs[id])
		if err != nil {
			return err
		}
		if _, err := cw.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Load implements [domain.DocumentStore]. Input is one JSON document
// per line; blank lines are skipped.
func (s *DocumentStore) Load(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(contextio.NewReader(ctx, r))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		root, err := document.FromJSON(line)
		if err != nil {
			return err
		}
		if _, err := s.Insert(ctx, root); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Len implements [domain.DocumentStore].
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *DocumentStore) index(id string, root value.Value) {
	for _, idx := range s.indexes {
		if key, ok := lookup(root, idx.path); ok {
			_ = idx.tree.Insert(key, id)
		}
	}
}

func (s *DocumentStore) unindex(id string, root value.Value) {
	for _, idx := range s.indexes {
		if key, ok := lookup(root, idx.path); ok {
			idx.tree.Delete(key, id)
		}
	}
}

func resolvePath(path any) (fieldpath.FieldPath, error) {
	switch p := path.(type) {
	case fieldpath.FieldPath:
		if p.IsZero() {
			return fieldpath.FieldPath{}, &fieldpath.ParseError{Reason: "empty path"}
		}
		return p, nil
	case string:
		return fieldpath.Parse(p)
	default:
		return fieldpath.FieldPath{}, &fieldpath.ParseError{Reason: "path must be a string or a fieldpath.FieldPath"}
	}
}

// lookup walks a path through nested maps and arrays.
func lookup(root value.Value, path fieldpath.FieldPath) (value.Value, bool) {
	current := root
	for i := range path.Len() {
		seg := path.At(i)
		if seg.IsIndex() {
			if current.Type() != value.TypeArray {
				return value.Value{}, false
			}
			arr := current.Array()
			if seg.Index() >= len(arr) {
				return value.Value{}, false
			}
			current = arr[seg.Index()]
			continue
		}
		if current.Type() != value.TypeMap {
			return value.Value{}, false
		}
		next, ok := current.Map().Get(seg.Name())
		if !ok {
			return value.Value{}, false
		}
		current = next
	}
	return current, true
}
