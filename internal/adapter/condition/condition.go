// Package condition contains the default [domain.Condition]
// implementation: a stack-based builder for nested AND/OR predicate
// trees.
package condition

import (
	"regexp"

	"github.com/finchdb/finch/domain"
	"github.com/finchdb/finch/pkg/fieldpath"
	"github.com/finchdb/finch/pkg/value"
)

// Condition implements [domain.Condition]. The builder keeps a stack of
// open compound blocks; nodes are attached to their parent the moment
// they are created, so Build only has to pop the stack and freeze.
type Condition struct {
	root   *domain.ConditionNode
	stack  []*domain.ConditionNode
	leaves int
	built  bool
	err    error
}

// NewCondition returns a new, empty implementation of
// [domain.Condition].
func NewCondition() domain.Condition {
	return &Condition{}
}

// fail records the first error; later calls keep it.
func (c *Condition) fail(err error) *Condition {
	if c.err == nil {
		c.err = err
	}
	return c
}

// mutable gates every mutating call: a recorded error or a built tree
// rejects further changes.
func (c *Condition) mutable() bool {
	if c.err != nil {
		return false
	}
	if c.built {
		c.fail(domain.ErrConditionBuilt{})
		return false
	}
	return true
}

// attach places a finished node under the open block, or into the root
// slot when no block is open.
func (c *Condition) attach(n *domain.ConditionNode) error {
	if len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		top.Children = append(top.Children, n)
		return nil
	}
	if c.root != nil {
		return domain.ErrLeafOutsideBlock{}
	}
	c.root = n
	return nil
}

func (c *Condition) open(op domain.CompoundOp) domain.Condition {
	if !c.mutable() {
		return c
	}
	n := &domain.ConditionNode{Compound: true, BoolOp: op}
	if err := c.attach(n); err != nil {
		return c.fail(err)
	}
	c.stack = append(c.stack, n)
	return c
}

// And implements [domain.Condition].
func (c *Condition) And() domain.Condition { return c.open(domain.CompoundAnd) }

// Or implements [domain.Condition].
func (c *Condition) Or() domain.Condition { return c.open(domain.CompoundOr) }

// Close implements [domain.Condition].
func (c *Condition) Close() domain.Condition {
	if !c.mutable() {
		return c
	}
	if len(c.stack) == 0 {
		return c.fail(domain.ErrNoOpenBlock{})
	}
	c.stack = c.stack[:len(c.stack)-1]
	return c
}

// Build implements [domain.Condition].
func (c *Condition) Build() domain.Condition {
	if c.built || c.err != nil {
		return c
	}
	c.stack = nil
	c.built = true
	return c
}

// Condition implements [domain.Condition].
func (c *Condition) Condition(other domain.Condition) domain.Condition {
	if !c.mutable() {
		return c
	}
	if other == nil || !other.IsBuilt() {
		return c.fail(domain.ErrConditionNotBuilt{})
	}
	root := other.Root()
	if root == nil {
		// splicing an empty condition adds nothing
		return c
	}
	if err := c.attach(root); err != nil {
		return c.fail(err)
	}
	c.leaves += countLeaves(root)
	return c
}

func countLeaves(n *domain.ConditionNode) int {
	if !n.Compound {
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += countLeaves(child)
	}
	return total
}

// leaf resolves the path, attaches the node and bumps the leaf count.
func (c *Condition) leaf(path any, n *domain.ConditionNode) domain.Condition {
	if !c.mutable() {
		return c
	}
	fp, err := resolvePath(path)
	if err != nil {
		return c.fail(err)
	}
	n.Path = fp
	if err := c.attach(n); err != nil {
		return c.fail(err)
	}
	c.leaves++
	return c
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

// Exists implements [domain.Condition].
func (c *Condition) Exists(path any) domain.Condition {
	return c.leaf(path, &domain.ConditionNode{Op: domain.OpExists})
}

// NotExists implements [domain.Condition].
func (c *Condition) NotExists(path any) domain.Condition {
	return c.leaf(path, &domain.ConditionNode{Op: domain.OpNotExists})
}

func (c *Condition) listLeaf(path any, op domain.Op, values []any) domain.Condition {
	if !c.mutable() {
		return c
	}
	operands := make([]value.Value, len(values))
	for i, raw := range values {
		v, err := value.Of(raw)
		if err != nil {
			return c.fail(err)
		}
		operands[i] = v
	}
	return c.leaf(path, &domain.ConditionNode{Op: op, Operands: operands})
}

// In implements [domain.Condition].
func (c *Condition) In(path any, values []any) domain.Condition {
	return c.listLeaf(path, domain.OpIn, values)
}

// NotIn implements [domain.Condition].
func (c *Condition) NotIn(path any, values []any) domain.Condition {
	return c.listLeaf(path, domain.OpNotIn, values)
}

// TypeOf implements [domain.Condition].
func (c *Condition) TypeOf(path any, t value.Type) domain.Condition {
	return c.leaf(path, &domain.ConditionNode{Op: domain.OpTypeOf, ValueType: t})
}

// NotTypeOf implements [domain.Condition].
func (c *Condition) NotTypeOf(path any, t value.Type) domain.Condition {
	return c.leaf(path, &domain.ConditionNode{Op: domain.OpNotTypeOf, ValueType: t})
}

func (c *Condition) regexLeaf(path any, op domain.Op, expr string) domain.Condition {
	if !c.mutable() {
		return c
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return c.fail(domain.ErrInvalidPattern{Pattern: expr, Err: err})
	}
	return c.leaf(path, &domain.ConditionNode{Op: op, Pattern: re, PatternText: expr})
}

// Matches implements [domain.Condition].
func (c *Condition) Matches(path any, expr string) domain.Condition {
	return c.regexLeaf(path, domain.OpMatches, expr)
}

// NotMatches implements [domain.Condition].
func (c *Condition) NotMatches(path any, expr string) domain.Condition {
	return c.regexLeaf(path, domain.OpNotMatches, expr)
}

func (c *Condition) likeLeaf(path any, op domain.Op, pattern string, escape rune) domain.Condition {
	if !c.mutable() {
		return c
	}
	re, err := translateLike(pattern, escape)
	if err != nil {
		return c.fail(err)
	}
	return c.leaf(path, &domain.ConditionNode{Op: op, Pattern: re, PatternText: pattern})
}

// Like implements [domain.Condition].
func (c *Condition) Like(path any, pattern string) domain.Condition {
	return c.likeLeaf(path, domain.OpLike, pattern, 0)
}

// LikeEscaped implements [domain.Condition].
func (c *Condition) LikeEscaped(path any, pattern string, escape rune) domain.Condition {
	return c.likeLeaf(path, domain.OpLike, pattern, escape)
}

// NotLike implements [domain.Condition].
func (c *Condition) NotLike(path any, pattern string) domain.Condition {
	return c.likeLeaf(path, domain.OpNotLike, pattern, 0)
}

// NotLikeEscaped implements [domain.Condition].
func (c *Condition) NotLikeEscaped(path any, pattern string, escape rune) domain.Condition {
	return c.likeLeaf(path, domain.OpNotLike, pattern, escape)
}

// Is implements [domain.Condition].
func (c *Condition) Is(path any, op domain.Op, v any) domain.Condition {
	if !c.mutable() {
		return c
	}
	if !op.Relational() {
		return c.fail(domain.ErrNotRelational{Op: op})
	}
	operand, err := value.Of(v)
	if err != nil {
		return c.fail(err)
	}
	return c.leaf(path, &domain.ConditionNode{Op: op, Operand: operand})
}

// Equals implements [domain.Condition].
func (c *Condition) Equals(path any, v any) domain.Condition {
	return c.Is(path, domain.OpEqual, v)
}

// NotEquals implements [domain.Condition].
func (c *Condition) NotEquals(path any, v any) domain.Condition {
	return c.Is(path, domain.OpNotEqual, v)
}

// SizeOf implements [domain.Condition].
func (c *Condition) SizeOf(path any, op domain.Op, size int64) domain.Condition {
	if !c.mutable() {
		return c
	}
	if !op.Relational() {
		return c.fail(domain.ErrNotRelational{Op: op})
	}
	return c.leaf(path, &domain.ConditionNode{Op: domain.OpSizeOf, SizeOp: op, Size: size})
}

// IsEmpty implements [domain.Condition].
func (c *Condition) IsEmpty() bool { return c.leaves == 0 }

// IsBuilt implements [domain.Condition].
func (c *Condition) IsBuilt() bool { return c.built }

// Root implements [domain.Condition].
func (c *Condition) Root() *domain.ConditionNode {
	if !c.built {
		return nil
	}
	return c.root
}

// Err implements [domain.Condition].
func (c *Condition) Err() error { return c.err }
