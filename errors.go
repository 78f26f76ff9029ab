package visitree

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/visitree/pkg/tree"
)

// Field level errors. The destination is zeroed whenever one is returned, so
// callers that ignore them load old data against a newer layout with the
// missing parts left at their zero value.
var (
	ErrNotFound       = errors.New("not found")
	ErrTypeMismatch   = errors.New("stored type differs from requested type")
	ErrSizeMismatch   = errors.New("stored size differs from requested size")
	ErrDuplicateNode  = errors.New("node name already used at this level")
	ErrDuplicateField = errors.New("field name already used in this node")
	ErrCountMismatch  = errors.New("stored length exceeds stored items")
	ErrMissingLinks   = errors.New("list links must provide Next, SetNext and SetPrev")
)

// Session level errors.
var (
	ErrUnbalancedTraversal = errors.New("leave called at root")
	ErrWrongMode           = errors.New("operation not allowed in this visitor mode")
)

// File level errors, shared with the tree codec.
var (
	ErrTruncated          = tree.ErrTruncated
	ErrInvalidSignature   = tree.ErrInvalidSignature
	ErrUnsupportedVersion = tree.ErrUnsupportedVersion
	ErrCorrupt            = tree.ErrCorrupt
	ErrTooDeep            = tree.ErrTooDeep
)

// lookupError reports a missing node or field. The path of the node searched
// is only rendered when the message is read.
type lookupError struct {
	kind string
	name string
	in   *tree.Node
}

func (e *lookupError) Error() string {
	return fmt.Sprintf("%v: %s %q in %s", ErrNotFound, e.kind, e.name, e.in.Path())
}

func (e *lookupError) Unwrap() error { return ErrNotFound }
