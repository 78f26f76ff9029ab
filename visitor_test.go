package visitree

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rawbytedev/visitree/pkg/tree"
)

type item struct {
	Name string
}

func (i *item) Visit(v *Visitor) error {
	return v.String("Name", &i.Name)
}

type player struct {
	Health    int32
	Inventory []*item
}

func (p *player) Visit(v *Visitor) error {
	return errors.Join(
		v.Int32("Health", &p.Health),
		PointerArray(v, "Inventory", &p.Inventory),
	)
}

// reload encodes everything w has written and opens a read session on it.
func reload(t *testing.T, w *Visitor, opts ...Option) *Visitor {
	t.Helper()
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)
	r, err := Read(&buf, opts...)
	require.NoError(t, err)
	return r
}

func TestPlayerRoundTrip(t *testing.T) {
	w := NewWriter()
	in := &player{Health: 100, Inventory: []*item{{Name: "legendary sword"}}}
	require.NoError(t, in.Visit(w))

	r := reload(t, w)
	out := new(player)
	require.NoError(t, out.Visit(r))
	require.Equal(t, in, out)

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	want := "root: <Health|i32:100>\n" +
		"  Inventory: <Length|u32:1>\n" +
		"    Item0: <IntPtr|u64:1>\n" +
		"      Name: <Length|u32:15>, <Data|data:bGVnZW5kYXJ5IHN3b3Jk>\n"
	assert.Equal(t, want, buf.String())
}

func TestLegendarySwordIsShared(t *testing.T) {
	sword := &item{Name: "legendary sword"}
	path := filepath.Join(t.TempDir(), "save.vt")
	w := NewWriter()
	require.NoError(t, (&player{Health: 100, Inventory: []*item{sword, sword}}).Visit(w))
	require.NoError(t, w.Save(path))

	r, err := Load(path)
	require.NoError(t, err)
	out := new(player)
	require.NoError(t, out.Visit(r))
	require.Equal(t, int32(100), out.Health)
	require.Len(t, out.Inventory, 2)
	require.Same(t, out.Inventory[0], out.Inventory[1])
	require.Equal(t, "legendary sword", out.Inventory[0].Name)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.vt")
	w := NewWriter()
	in := &player{Health: 7}
	require.NoError(t, in.Visit(w))
	require.NoError(t, w.Save(path))

	r, err := Load(path)
	require.NoError(t, err)
	require.True(t, r.IsReading())
	out := &player{Health: 99, Inventory: []*item{{}}}
	require.NoError(t, out.Visit(r))
	require.Equal(t, int32(7), out.Health)
	require.Nil(t, out.Inventory)
}

func TestLoadFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	_, err := Load(filepath.Join(t.TempDir(), "missing.vt"), WithLogger(zap.New(core)))
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("load failed").Len())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("VISTREE")))
	require.ErrorIs(t, err, ErrTruncated)
	_, err = Read(bytes.NewReader([]byte("NOTTREE....")))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestEnterLeave(t *testing.T) {
	w := NewWriter()
	require.Equal(t, 0, w.Depth())
	require.NoError(t, w.Enter("a"))
	require.NoError(t, w.Enter("b"))
	require.Equal(t, 2, w.Depth())
	require.Equal(t, "root/a/b", w.Current().Path())
	w.Leave()
	w.Leave()
	require.Same(t, w.Document().Root, w.Current())

	r := reload(t, w)
	require.ErrorIs(t, r.Enter("missing"), ErrNotFound)
	require.Equal(t, 0, r.Depth())
	require.NoError(t, r.Enter("a"))
	require.NoError(t, r.Enter("b"))
	require.Equal(t, "root/a/b", r.Current().Path())
}

func TestDuplicateNames(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Enter("a"))
	w.Leave()
	require.ErrorIs(t, w.Enter("a"), ErrDuplicateNode)
	require.Equal(t, 0, w.Depth(), "cursor does not move")

	x := int32(1)
	require.NoError(t, w.Int32("x", &x))
	require.ErrorIs(t, w.Int32("x", &x), ErrDuplicateField)
	require.Len(t, w.Current().Fields, 1)
}

func TestAllowDuplicateNamesFirstWins(t *testing.T) {
	w := NewWriter(WithDuplicateNames())
	first, second := int32(1), int32(2)
	require.NoError(t, w.Int32("x", &first))
	require.NoError(t, w.Int32("x", &second))
	require.NoError(t, w.Enter("a"))
	require.NoError(t, w.Int32("n", &first))
	w.Leave()
	require.NoError(t, w.Enter("a"))
	require.NoError(t, w.Int32("n", &second))
	w.Leave()

	r := reload(t, w)
	var got int32
	require.NoError(t, r.Int32("x", &got))
	require.Equal(t, first, got)
	require.NoError(t, r.Enter("a"))
	require.NoError(t, r.Int32("n", &got))
	require.Equal(t, first, got)
}

func TestUnbalancedLeave(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewWriter(WithLogger(zap.New(core)))
	w.Leave()
	require.Same(t, w.Document().Root, w.Current())

	entries := logs.FilterMessage("unbalanced traversal").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, w.Session().String(), entries[0].ContextMap()["session"])
	require.Equal(t, "write", entries[0].ContextMap()["mode"])
}

func TestWrongMode(t *testing.T) {
	r := reload(t, NewWriter())
	require.ErrorIs(t, r.Save(filepath.Join(t.TempDir(), "x.vt")), ErrWrongMode)
	_, err := r.WriteTo(&bytes.Buffer{})
	require.ErrorIs(t, err, ErrWrongMode)
}

func TestSessionsDiffer(t *testing.T) {
	require.NotEqual(t, NewWriter().Session(), NewWriter().Session())
}

func TestObject(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Object("Weapon", &item{Name: "axe"}))
	require.Equal(t, 0, w.Depth())

	r := reload(t, w)
	var got item
	require.NoError(t, r.Object("Weapon", &got))
	require.Equal(t, "axe", got.Name)
	require.ErrorIs(t, r.Object("Shield", &got), ErrNotFound)
}

func TestNewReaderOverDocument(t *testing.T) {
	doc := tree.NewDocument(tree.VersionV1)
	r := NewReader(doc)
	require.Equal(t, ModeRead, r.Mode())
	require.Same(t, doc, r.Document())
	require.Equal(t, "read", r.Mode().String())
}

func BenchmarkWritePlayer(b *testing.B) {
	p := &player{Health: 100}
	for range 64 {
		p.Inventory = append(p.Inventory, &item{Name: "potion"})
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w := NewWriter()
		if err := p.Visit(w); err != nil {
			b.Fatal(err)
		}
		if _, err := w.Document().MarshalBinary(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadPlayer(b *testing.B) {
	p := &player{Health: 100}
	for range 64 {
		p.Inventory = append(p.Inventory, &item{Name: "potion"})
	}
	w := NewWriter()
	if err := p.Visit(w); err != nil {
		b.Fatal(err)
	}
	raw, err := w.Document().MarshalBinary()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r, err := Read(bytes.NewReader(raw))
		if err != nil {
			b.Fatal(err)
		}
		if err := new(player).Visit(r); err != nil {
			b.Fatal(err)
		}
	}
}
