package domain

import (
	"fmt"

	"github.com/finchdb/finch/pkg/value"
)

// ErrConditionBuilt is returned when a built condition receives another
// mutating call. A built tree is frozen.
type ErrConditionBuilt struct{}

func (e ErrConditionBuilt) Error() string {
	return "condition is already built and can no longer be modified"
}

// ErrConditionNotBuilt is returned when an unbuilt condition is spliced
// into another condition or handed to an execution collaborator.
type ErrConditionNotBuilt struct{}

func (e ErrConditionNotBuilt) Error() string {
	return "condition must be built first"
}

// ErrNoOpenBlock is returned by Close when no compound block is open.
type ErrNoOpenBlock struct{}

func (e ErrNoOpenBlock) Error() string {
	return "no open compound block to close"
}

// ErrLeafOutsideBlock is returned when a node is added after the root
// slot is taken and no compound block is open to receive it.
type ErrLeafOutsideBlock struct{}

func (e ErrLeafOutsideBlock) Error() string {
	return "condition already has a root; open a compound block with And or Or first"
}

// ErrNotRelational is returned when an op that is not one of the six
// ordering comparisons is passed where a relational op is required.
type ErrNotRelational struct {
	Op Op
}

func (e ErrNotRelational) Error() string {
	return fmt.Sprintf("%s is not a relational op", e.Op)
}

// ErrInvalidPattern is returned when a regular expression or LIKE
// pattern cannot be compiled.
type ErrInvalidPattern struct {
	Pattern string
	Reason  string
	Err     error
}

func (e ErrInvalidPattern) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e ErrInvalidPattern) Unwrap() error { return e.Err }

// ErrInvalidPayload is returned when a mutation payload type cannot be
// valid for the operation kind no matter what is stored, e.g. an
// INCREMENT by a string.
type ErrInvalidPayload struct {
	Kind MutationKind
	Got  value.Type
}

func (e ErrInvalidPayload) Error() string {
	return fmt.Sprintf("%s cannot take a %s payload", e.Kind, e.Got)
}

// ErrUnknownMutation is returned by the execution layer when an op
// carries a kind it does not know how to apply.
type ErrUnknownMutation struct {
	Kind MutationKind
}

func (e ErrUnknownMutation) Error() string {
	return fmt.Sprintf("unknown mutation kind %s", e.Kind)
}

// ErrTypeMismatch is returned by the execution layer when an operation
// payload conflicts with the type already stored at the path.
type ErrTypeMismatch struct {
	Path string
	Kind MutationKind
	Got  value.Type
	Want string
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("%s at %q: field is %s, want %s", e.Kind, e.Path, e.Got, e.Want)
}

// ErrNotADocument is returned when a document root is not a MAP value.
type ErrNotADocument struct {
	Got value.Type
}

func (e ErrNotADocument) Error() string {
	return fmt.Sprintf("document root must be a MAP, got %s", e.Got)
}

// ErrInvalidID is returned when an inserted document carries an _id
// that is not a STRING.
type ErrInvalidID struct {
	Got value.Type
}

func (e ErrInvalidID) Error() string {
	return fmt.Sprintf("_id must be a STRING, got %s", e.Got)
}

// ErrDuplicateID is returned when an inserted document carries an _id
// that is already stored.
type ErrDuplicateID struct {
	ID string
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("a document with _id %q already exists", e.ID)
}
