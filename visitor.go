// Package visitree persists object graphs through a single visit method per
// type. The same method both saves and loads: a Visitor in write mode records
// every value it is handed, a Visitor in read mode overwrites it with what was
// stored under the same name.
//
//	func (p *Player) Visit(v *visitree.Visitor) error {
//		return errors.Join(
//			v.Int32("Health", &p.Health),
//			visitree.Pointer(v, "Weapon", &p.Weapon),
//		)
//	}
package visitree

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rawbytedev/visitree/pkg/tree"
)

type Mode uint8

const (
	ModeWrite Mode = iota
	ModeRead
)

func (m Mode) String() string {
	if m == ModeRead {
		return "read"
	}
	return "write"
}

// Visitable is implemented by every type that can be persisted.
type Visitable interface {
	Visit(v *Visitor) error
}

// Visitor is one save or load session. It is not safe for concurrent use.
type Visitor struct {
	opts    Options
	mode    Mode
	doc     *tree.Document
	cursor  *tree.Node
	ids     identityMap
	session uuid.UUID
	log     *zap.SugaredLogger
}

func newVisitor(mode Mode, doc *tree.Document, opts []Option) *Visitor {
	o := buildOptions(opts)
	v := &Visitor{
		opts:    o,
		mode:    mode,
		doc:     doc,
		cursor:  doc.Root,
		ids:     newIdentityMap(mode),
		session: uuid.New(),
	}
	v.log = o.Logger.Sugar().With("session", v.session.String(), "mode", mode.String())
	return v
}

// NewWriter starts an empty write session positioned at the root node.
func NewWriter(opts ...Option) *Visitor {
	return newVisitor(ModeWrite, tree.NewDocument(tree.VersionV1), opts)
}

// NewReader starts a read session over an already decoded document.
func NewReader(doc *tree.Document, opts ...Option) *Visitor {
	return newVisitor(ModeRead, doc, opts)
}

// Read decodes a document from r and returns a read session over it.
func Read(r io.Reader, opts ...Option) (*Visitor, error) {
	doc, err := tree.ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return NewReader(doc, opts...), nil
}

// Load opens path and returns a read session over its contents.
func Load(path string, opts ...Option) (*Visitor, error) {
	doc, err := tree.LoadFile(path)
	if err != nil {
		buildOptions(opts).Logger.Warn("load failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	v := NewReader(doc, opts...)
	v.log.Debugw("loaded", "path", path, "bytes", len(doc.Data))
	return v, nil
}

func (v *Visitor) Mode() Mode { return v.mode }

func (v *Visitor) IsReading() bool { return v.mode == ModeRead }

// Session identifies this visitor in log output.
func (v *Visitor) Session() uuid.UUID { return v.session }

// Document exposes the tree being built or read.
func (v *Visitor) Document() *tree.Document { return v.doc }

// Current returns the node the cursor is on.
func (v *Visitor) Current() *tree.Node { return v.cursor }

// Depth is zero at the root.
func (v *Visitor) Depth() int {
	d := 0
	for n := v.cursor; n.Parent() != nil; n = n.Parent() {
		d++
	}
	return d
}

// Enter moves the cursor to the child called name. Writers create it, and
// refuse a name already used at this level unless WithDuplicateNames was
// given. Readers fail with ErrNotFound when no such child exists. The cursor
// does not move on error.
func (v *Visitor) Enter(name string) error {
	if v.mode == ModeRead {
		c, ok := v.cursor.Child(name)
		if !ok {
			v.log.Debugw("node not found", "node", name, "parent", v.cursor)
			return &lookupError{kind: "node", name: name, in: v.cursor}
		}
		v.cursor = c
		return nil
	}
	if !v.opts.AllowDuplicateNames {
		if _, ok := v.cursor.Child(name); ok {
			v.log.Warnw("duplicate node", "node", name, "parent", v.cursor)
			return fmt.Errorf("%w: %q in %s", ErrDuplicateNode, name, v.cursor.Path())
		}
	}
	c := tree.NewNode(name)
	v.cursor.AddChild(c)
	v.cursor = c
	return nil
}

// Leave returns to the parent node. At the root it logs and does nothing.
func (v *Visitor) Leave() {
	if p := v.cursor.Parent(); p != nil {
		v.cursor = p
		return
	}
	v.log.Warnw("unbalanced traversal", "error", ErrUnbalancedTraversal)
}

// Object visits obj inside its own child node.
func (v *Visitor) Object(name string, obj Visitable) error {
	if err := v.Enter(name); err != nil {
		return err
	}
	defer v.Leave()
	return obj.Visit(v)
}

// WriteTo encodes the document built so far.
func (v *Visitor) WriteTo(w io.Writer) (int64, error) {
	if v.mode != ModeWrite {
		return 0, fmt.Errorf("%w: write from a %s session", ErrWrongMode, v.mode)
	}
	v.checkBalanced()
	return v.doc.WriteTo(w)
}

// Save writes the document built so far to path.
func (v *Visitor) Save(path string) error {
	if v.mode != ModeWrite {
		return fmt.Errorf("%w: save from a %s session", ErrWrongMode, v.mode)
	}
	v.checkBalanced()
	if err := tree.SaveFile(path, v.doc); err != nil {
		v.log.Errorw("save failed", "path", path, "error", err)
		return err
	}
	v.log.Debugw("saved", "path", path, "bytes", len(v.doc.Data))
	return nil
}

// Print writes the indented debug dump of the document.
func (v *Visitor) Print(w io.Writer) error {
	return tree.Print(w, v.doc)
}

func (v *Visitor) checkBalanced() {
	if v.cursor != v.doc.Root {
		v.log.Warnw("saving with open nodes", "cursor", v.cursor)
	}
}
